package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/platform/mail"
)

// EmailPayload is the persisted data for a single email notification.
type EmailPayload struct {
	Subject   string `json:"subject"`
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
}

// EmailJob delivers one email message through a mail.Sender.
type EmailJob struct {
	id      uuid.UUID
	payload EmailPayload
	raw     []byte
	status  Status
	sender  mail.Sender
}

// Ensure EmailJob implements the Job interface
var _ Job = (*EmailJob)(nil)

// NewEmailJob creates an EmailJob for the given message.
func NewEmailJob(payload EmailPayload, sender mail.Sender) (*EmailJob, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email payload: %w", err)
	}

	return &EmailJob{
		id:      uuid.New(),
		payload: payload,
		raw:     raw,
		status:  StatusPending,
		sender:  sender,
	}, nil
}

// NewEmailJobFactory returns a Factory that rebuilds EmailJobs recovered
// from the store, bound to the given sender.
func NewEmailJobFactory(sender mail.Sender) Factory {
	return func(id uuid.UUID, raw []byte) (Job, error) {
		var payload EmailPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal email payload: %w", err)
		}
		return &EmailJob{
			id:      id,
			payload: payload,
			raw:     raw,
			status:  StatusPending,
			sender:  sender,
		}, nil
	}
}

// ID returns the job's unique identifier.
func (j *EmailJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier.
func (j *EmailJob) Type() string {
	return TypeEmail
}

// Payload returns the job data as a byte slice.
func (j *EmailJob) Payload() []byte {
	return j.raw
}

// Status returns the current job status.
func (j *EmailJob) Status() Status {
	return j.status
}

// Execute sends the email.
func (j *EmailJob) Execute(ctx context.Context) error {
	if err := j.sender.Send(ctx, j.payload.Subject, j.payload.Recipient, j.payload.Body); err != nil {
		return fmt.Errorf("failed to deliver email to %s: %w", j.payload.Recipient, err)
	}
	return nil
}
