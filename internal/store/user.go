package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrUsernameExists or ErrEmailExists when the corresponding
	// uniqueness constraint is violated.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListPending returns all users awaiting admin approval, oldest first.
	ListPending(ctx context.Context) ([]*domain.User, error)

	// ListByRole returns all users holding the given role.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// SetApproved marks the user as approved.
	// Returns ErrUserNotFound if the user does not exist.
	SetApproved(ctx context.Context, id uuid.UUID) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	// This operation is permanent; tasks referencing the user are unassigned
	// by the schema's ON DELETE SET NULL constraint.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the provided transaction so that
	// multiple operations can share one transaction managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
