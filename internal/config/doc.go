// Package config defines the application configuration structure and loads
// it from environment variables (TASKHUB_ prefix) and an optional YAML file,
// validating the result before the application starts.
package config
