package store

import "context"

// UsageStats holds the read-only counts surfaced by the stats endpoint.
// The three counts are independent queries; no transactional consistency
// between them is required.
type UsageStats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}

// StatsStore defines the interface for usage-statistics queries.
type StatsStore interface {
	// CountUsers returns the total number of registered users.
	CountUsers(ctx context.Context) (int64, error)

	// CountTasks returns the total number of tasks.
	CountTasks(ctx context.Context) (int64, error)

	// CountCompletedTasks returns the number of tasks with completed status.
	CountCompletedTasks(ctx context.Context) (int64, error)
}
