package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A secret long enough to satisfy the min=32 constraint.
const testJWTSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TASKHUB_DATABASE_URL", "postgres://localhost:5432/taskhub")
	t.Setenv("TASKHUB_AUTH_JWT_SECRET", testJWTSecret)
	t.Setenv("TASKHUB_SERVER_PORT", "9090")
	t.Setenv("TASKHUB_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/taskhub", cfg.Database.URL)
	assert.Equal(t, testJWTSecret, cfg.Auth.JWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKHUB_DATABASE_URL", "postgres://localhost:5432/taskhub")
	t.Setenv("TASKHUB_AUTH_JWT_SECRET", testJWTSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 24*60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, 2, cfg.Worker.Count)
	assert.Equal(t, 100, cfg.Worker.QueueSize)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("TASKHUB_DATABASE_URL", "postgres://localhost:5432/taskhub")
	t.Setenv("TASKHUB_AUTH_JWT_SECRET", "tooshort")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMissingDatabaseURL(t *testing.T) {
	t.Setenv("TASKHUB_AUTH_JWT_SECRET", testJWTSecret)
	t.Setenv("TASKHUB_DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("TASKHUB_DATABASE_URL", "postgres://localhost:5432/taskhub")
	t.Setenv("TASKHUB_AUTH_JWT_SECRET", testJWTSecret)
	t.Setenv("TASKHUB_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadReadsEnvOnlyKeys(t *testing.T) {
	t.Setenv("TASKHUB_DATABASE_URL", "postgres://localhost:5432/taskhub")
	t.Setenv("TASKHUB_AUTH_JWT_SECRET", testJWTSecret)
	t.Setenv("TASKHUB_CACHE_URL", "redis://localhost:6379/0")
	t.Setenv("TASKHUB_MAIL_HOST", "smtp.example.com")
	t.Setenv("TASKHUB_MAIL_USERNAME", "mailer")
	t.Setenv("TASKHUB_MAIL_PASSWORD", "hunter2")
	t.Setenv("TASKHUB_MAIL_FROM", "noreply@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.URL)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, "mailer", cfg.Mail.Username)
	assert.Equal(t, "hunter2", cfg.Mail.Password)
	assert.Equal(t, "noreply@example.com", cfg.Mail.From)
}
