package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns all tasks, newest first.
	List(ctx context.Context) ([]*domain.Task, error)

	// ListPendingByAssignee returns the pending tasks assigned to the
	// given user, oldest deadline first.
	ListPendingByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update persists the task's title, description, status, deadline,
	// and assignee. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
