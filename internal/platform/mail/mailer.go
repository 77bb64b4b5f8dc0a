// Package mail provides the outbound email transport used by the
// notification jobs: an SMTP sender for real delivery and a log-only
// sender for development and tests.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/jdavey/taskhub-api/internal/config"
)

// Sender delivers a single email message. Implementations must be safe for
// concurrent use by the job workers.
type Sender interface {
	Send(ctx context.Context, subject, recipient, body string) error
}

// SMTPSender implements Sender over an authenticated SMTP connection.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender creates an SMTPSender from the mail configuration.
func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

// Send implements the Sender interface.
func (s *SMTPSender) Send(ctx context.Context, subject, recipient, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender implements Sender by logging the message instead of sending it.
// Used when no SMTP host is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "log_sender")}
}

// Send implements the Sender interface.
func (s *LogSender) Send(ctx context.Context, subject, recipient, body string) error {
	s.logger.Info("email delivery skipped, no smtp host configured",
		"subject", subject,
		"recipient", recipient,
		"body_len", len(body))
	return nil
}
