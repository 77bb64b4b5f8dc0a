package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jdavey/taskhub-api/internal/events"
	"github.com/jdavey/taskhub-api/internal/platform/mail"
)

// EmailEventHandler turns send_email job-request events into queued
// EmailJobs. It is registered on the application's event emitter so that
// services can trigger notifications without importing this package.
type EmailEventHandler struct {
	runner *Runner
	sender mail.Sender
	logger *slog.Logger
}

// Ensure EmailEventHandler implements events.EventHandler
var _ events.EventHandler = (*EmailEventHandler)(nil)

// NewEmailEventHandler creates an EmailEventHandler.
func NewEmailEventHandler(runner *Runner, sender mail.Sender, logger *slog.Logger) *EmailEventHandler {
	return &EmailEventHandler{
		runner: runner,
		sender: sender,
		logger: logger.With("component", "email_event_handler"),
	}
}

// HandleEvent implements events.EventHandler. Events of other types are
// ignored so additional handlers can share the same emitter.
func (h *EmailEventHandler) HandleEvent(ctx context.Context, event *events.JobRequestEvent) error {
	if event.Type != TypeEmail {
		return nil
	}

	var payload EmailPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode email event payload: %w", err)
	}

	j, err := NewEmailJob(payload, h.sender)
	if err != nil {
		return fmt.Errorf("failed to create email job: %w", err)
	}

	if err := h.runner.Submit(ctx, j); err != nil {
		return fmt.Errorf("failed to submit email job: %w", err)
	}

	h.logger.Debug("email job enqueued",
		"job_id", j.ID(),
		"recipient", payload.Recipient,
		"subject", payload.Subject)

	return nil
}
