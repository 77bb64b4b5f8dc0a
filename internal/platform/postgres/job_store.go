package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/job"
	"github.com/jdavey/taskhub-api/internal/platform/logger"
	"github.com/jdavey/taskhub-api/internal/store"
)

// JobStore implements the job.Store interface using PostgreSQL, making the
// notification queue durable across restarts.
type JobStore struct {
	db store.DBTX
}

// NewJobStore creates a PostgreSQL implementation of job.Store.
func NewJobStore(db store.DBTX) *JobStore {
	return &JobStore{db: db}
}

// Ensure JobStore implements job.Store interface
var _ job.Store = (*JobStore)(nil)

// SaveJob implements job.Store.SaveJob.
func (s *JobStore) SaveJob(ctx context.Context, j job.Job) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO jobs (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		j.ID(),
		j.Type(),
		j.Payload(),
		j.Status(),
		now,
		now,
	)
	if err != nil {
		log.Error("failed to save job",
			"job_id", j.ID(),
			"job_type", j.Type(),
			"error", err)
		return fmt.Errorf("failed to save job: %w", err)
	}

	return nil
}

// UpdateJobStatus implements job.Store.UpdateJobStatus.
func (s *JobStore) UpdateJobStatus(
	ctx context.Context,
	jobID uuid.UUID,
	status job.Status,
	errorMsg string,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, status, errorMsg, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// Job not found, treat as no-op.
		log.Warn("no job found with ID to update status", "job_id", jobID)
	}

	return nil
}

// GetPendingJobs implements job.Store.GetPendingJobs.
func (s *JobStore) GetPendingJobs(ctx context.Context) ([]job.Record, error) {
	return s.getJobsByStatus(ctx, job.StatusPending, 0)
}

// GetProcessingJobs implements job.Store.GetProcessingJobs.
func (s *JobStore) GetProcessingJobs(
	ctx context.Context,
	olderThan time.Duration,
) ([]job.Record, error) {
	return s.getJobsByStatus(ctx, job.StatusProcessing, olderThan)
}

// WithTx implements job.Store.WithTx.
func (s *JobStore) WithTx(tx *sql.Tx) job.Store {
	return &JobStore{db: tx}
}

func (s *JobStore) getJobsByStatus(
	ctx context.Context,
	status job.Status,
	olderThan time.Duration,
) ([]job.Record, error) {
	var query string
	var args []any

	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status, error_message, created_at, updated_at
			FROM jobs
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = []any{status, time.Now().UTC().Add(-olderThan)}
	} else {
		query = `
			SELECT id, type, payload, status, error_message, created_at, updated_at
			FROM jobs
			WHERE status = $1
			ORDER BY created_at ASC
		`
		args = []any{status}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []job.Record
	for rows.Next() {
		var rec job.Record
		var errorMessage sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.Type,
			&rec.Payload,
			&rec.Status,
			&errorMessage,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		rec.ErrorMsg = errorMessage.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return records, nil
}
