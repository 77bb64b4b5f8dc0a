package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variables, e.g. TASKHUB_SERVER_PORT.
const envPrefix = "TASKHUB"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values. Returns a validated Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnvKeys(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment variables: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults suffice.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers the keys that have no default value. AutomaticEnv
// only consults the environment for keys viper already knows about, so
// without an explicit binding these would be invisible to Unmarshal.
func bindEnvKeys(v *viper.Viper) error {
	keys := []string{
		"database.url",
		"auth.jwt_secret",
		"cache.url",
		"mail.host",
		"mail.username",
		"mail.password",
		"mail.from",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 24*60)
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("mail.port", 587)
	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.queue_size", 100)
	v.SetDefault("worker.reminder_interval_minutes", 24*60)
}
