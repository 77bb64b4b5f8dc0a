// Package main implements the entry point for the taskhub API server,
// which handles account approval workflows, role-gated task management,
// and asynchronous email notifications.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/jdavey/taskhub-api/internal/config"
	"github.com/jdavey/taskhub-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_enabled", cfg.Cache.URL != "",
		"smtp_enabled", cfg.Mail.Host != "")

	app, err := newApplication(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.serve(); err != nil {
		log.Fatalf("server terminated: %v", err)
	}
}
