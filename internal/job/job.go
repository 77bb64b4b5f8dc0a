package job

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a background job.
type Status string

// Possible job status values.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job type constants.
const (
	// TypeEmail is the job type for sending a single email message.
	TypeEmail = "send_email"
)

// Job represents a unit of background work to be processed.
type Job interface {
	// ID returns the job's unique identifier.
	ID() uuid.UUID

	// Type returns the job type identifier.
	Type() string

	// Payload returns the job data as a byte slice.
	Payload() []byte

	// Status returns the current job status.
	Status() Status

	// Execute runs the job logic.
	Execute(ctx context.Context) error
}

// Factory rebuilds an executable Job from a persisted payload. The runner
// uses registered factories to recover jobs after a restart.
type Factory func(id uuid.UUID, payload []byte) (Job, error)

// Store defines the interface for persisting jobs, making the queue
// durable across restarts.
type Store interface {
	// SaveJob persists a new job with pending status.
	SaveJob(ctx context.Context, j Job) error

	// UpdateJobStatus updates the status of a job, recording errorMsg for
	// failed jobs. Updating an unknown job is a no-op.
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status Status, errorMsg string) error

	// GetPendingJobs retrieves all jobs with pending status, oldest first.
	GetPendingJobs(ctx context.Context) ([]Record, error)

	// GetProcessingJobs retrieves jobs with processing status. If olderThan
	// is non-zero, only jobs stuck in that state longer than the duration
	// are returned.
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Record, error)

	// WithTx returns a Store bound to the provided transaction.
	WithTx(tx *sql.Tx) Store
}

// Record is a persisted job row as loaded from the store. It is turned
// back into an executable Job through the runner's registered factories.
type Record struct {
	ID        uuid.UUID
	Type      string
	Payload   []byte
	Status    Status
	ErrorMsg  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
