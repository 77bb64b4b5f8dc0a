package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/service/auth"
	"github.com/jdavey/taskhub-api/internal/store"
)

// StatsService reports aggregate usage counts.
type StatsService struct {
	statsStore store.StatsStore
	authorizer *auth.Authorizer
	logger     *slog.Logger
}

// NewStatsService creates a StatsService.
func NewStatsService(statsStore store.StatsStore, authorizer *auth.Authorizer, logger *slog.Logger) *StatsService {
	return &StatsService{
		statsStore: statsStore,
		authorizer: authorizer,
		logger:     logger.With("component", "stats_service"),
	}
}

// Summary returns the current usage counters. Admins and managers only.
// Counts are read individually and may be mutually inconsistent under
// concurrent writes; callers treat them as a point-in-time approximation.
func (s *StatsService) Summary(ctx context.Context, callerID uuid.UUID) (*store.UsageStats, error) {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleAdmin, domain.RoleManager); err != nil {
		return nil, err
	}

	users, err := s.statsStore.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	tasks, err := s.statsStore.CountTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	completed, err := s.statsStore.CountCompletedTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	return &store.UsageStats{
		TotalUsers:     users,
		TotalTasks:     tasks,
		CompletedTasks: completed,
	}, nil
}
