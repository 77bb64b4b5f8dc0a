package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/platform/logger"
	"github.com/jdavey/taskhub-api/internal/store"
)

// Unique constraint names from the users migration.
const (
	usersUsernameKey = "users_username_key"
	usersEmailKey    = "users_email_key"
)

// UserStore implements the store.UserStore interface using PostgreSQL.
type UserStore struct {
	db store.DBTX
}

// NewUserStore creates a PostgreSQL implementation of store.UserStore.
// The database connection is initialized and managed by the caller.
func NewUserStore(db store.DBTX) *UserStore {
	return &UserStore{db: db}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

const userColumns = "id, username, email, password_hash, role, is_approved, created_at"

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, role, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.IsApproved,
		user.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, usersUsernameKey):
			return store.ErrUsernameExists
		case isUniqueViolation(err, usersEmailKey):
			return store.ErrEmailExists
		case isUniqueViolation(err):
			return store.ErrDuplicate
		}
		log.Error("failed to insert user", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// ListPending implements store.UserStore.ListPending.
func (s *UserStore) ListPending(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_approved = FALSE ORDER BY created_at ASC`
	return s.queryUsers(ctx, query)
}

// ListByRole implements store.UserStore.ListByRole.
func (s *UserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at ASC`
	return s.queryUsers(ctx, query, role)
}

// SetApproved implements store.UserStore.SetApproved.
func (s *UserStore) SetApproved(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET is_approved = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to approve user: %w", err)
	}
	return checkOneRow(result, store.ErrUserNotFound)
}

// Delete implements store.UserStore.Delete. Tasks referencing the user are
// unassigned by the tasks_assigned_user_id_fkey ON DELETE SET NULL clause.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkOneRow(result, store.ErrUserNotFound)
}

// WithTx implements store.UserStore.WithTx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx}
}

func (s *UserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.IsApproved,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &user, nil
}

func (s *UserStore) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.HashedPassword,
			&user.Role,
			&user.IsApproved,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// checkOneRow converts a zero-rows-affected result into notFoundErr.
func checkOneRow(result sql.Result, notFoundErr error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return notFoundErr
	}
	return nil
}
