package config

import "time"

// Config holds all application configuration, organized into logical groups.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Mail     MailConfig     `mapstructure:"mail"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// ServerConfig contains all HTTP-server-related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the validity window of issued bearer tokens.
	// Defaults to 24 hours.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// CacheConfig contains settings for the advisory Redis read cache.
// An empty URL disables caching entirely.
type CacheConfig struct {
	URL string `mapstructure:"url"`

	// TTLSeconds bounds the staleness window for cached task reads.
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// MailConfig contains settings for the SMTP email transport.
// An empty Host switches delivery to the log-only sender.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"gte=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// WorkerConfig contains settings for the background job runner.
type WorkerConfig struct {
	Count     int `mapstructure:"count"      validate:"gte=0"`
	QueueSize int `mapstructure:"queue_size" validate:"gte=0"`

	// ReminderIntervalMinutes is how often the reminder scheduler fires.
	// Defaults to 24 hours.
	ReminderIntervalMinutes int `mapstructure:"reminder_interval_minutes" validate:"gte=0"`
}

// TokenLifetime returns the configured bearer-token validity window.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// TTL returns the configured cache staleness window.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ReminderInterval returns the configured reminder scheduling period.
func (c WorkerConfig) ReminderInterval() time.Duration {
	return time.Duration(c.ReminderIntervalMinutes) * time.Minute
}
