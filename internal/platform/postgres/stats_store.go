package postgres

import (
	"context"
	"fmt"

	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/store"
)

// StatsStore implements the store.StatsStore interface using PostgreSQL.
// Each count is an independent query; the summary is an eventually-consistent
// snapshot, which is all the stats endpoint requires.
type StatsStore struct {
	db store.DBTX
}

// NewStatsStore creates a PostgreSQL implementation of store.StatsStore.
func NewStatsStore(db store.DBTX) *StatsStore {
	return &StatsStore{db: db}
}

// Ensure StatsStore implements store.StatsStore interface
var _ store.StatsStore = (*StatsStore)(nil)

// CountUsers implements store.StatsStore.CountUsers.
func (s *StatsStore) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM users`)
}

// CountTasks implements store.StatsStore.CountTasks.
func (s *StatsStore) CountTasks(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM tasks`)
}

// CountCompletedTasks implements store.StatsStore.CountCompletedTasks.
func (s *StatsStore) CountCompletedTasks(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM tasks WHERE status = $1`, domain.TaskStatusCompleted)
}

func (s *StatsStore) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to run count query: %w", err)
	}
	return n, nil
}
