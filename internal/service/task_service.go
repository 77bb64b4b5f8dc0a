package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/service/auth"
	"github.com/jdavey/taskhub-api/internal/store"
)

// Cache key layout. The list key covers the full task collection; item
// keys are per task. Both are invalidated on any write.
const (
	taskListCacheKey  = "tasks"
	taskItemCachePref = "task:"
)

// UpdateTaskParams carries a partial task update. Nil fields are left
// unchanged.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *string
}

// TaskService implements the task lifecycle: creation, retrieval, updates,
// deletion, and assignment. Reads go through the cache when one is
// configured; cache failures degrade to database reads.
type TaskService struct {
	tx         store.Transactor
	taskStore  store.TaskStore
	userStore  store.UserStore
	authorizer *auth.Authorizer
	cache      Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewTaskService creates a TaskService. cache may be nil, in which case
// all reads hit the database directly.
func NewTaskService(
	tx store.Transactor,
	taskStore store.TaskStore,
	userStore store.UserStore,
	authorizer *auth.Authorizer,
	cache Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		tx:         tx,
		taskStore:  taskStore,
		userStore:  userStore,
		authorizer: authorizer,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.With("component", "task_service"),
	}
}

// Create creates a new task in the pending state. Managers and admins
// only. deadline is either empty or formatted as YYYY-MM-DD.
func (s *TaskService) Create(
	ctx context.Context,
	callerID uuid.UUID,
	title, description, deadline string,
) (*domain.Task, error) {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleManager, domain.RoleAdmin); err != nil {
		return nil, err
	}

	due, err := domain.ParseDeadline(deadline)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(title, description, due)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err = s.tx.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created", "task_id", task.ID, "created_by", callerID)
	s.invalidate(ctx, taskListCacheKey)

	return task, nil
}

// Get returns a single task by ID. Admins and managers only. Returns
// store.ErrTaskNotFound if no such task exists.
func (s *TaskService) Get(ctx context.Context, callerID, taskID uuid.UUID) (*domain.Task, error) {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleAdmin, domain.RoleManager); err != nil {
		return nil, err
	}

	key := taskItemCachePref + taskID.String()
	var cached domain.Task
	if s.cacheLoad(ctx, key, &cached) {
		return &cached, nil
	}

	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.cacheStore(ctx, key, task)
	return task, nil
}

// List returns all tasks ordered by creation time. Admins and managers
// only.
func (s *TaskService) List(ctx context.Context, callerID uuid.UUID) ([]*domain.Task, error) {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleAdmin, domain.RoleManager); err != nil {
		return nil, err
	}

	var cached []*domain.Task
	if s.cacheLoad(ctx, taskListCacheKey, &cached) {
		return cached, nil
	}

	tasks, err := s.taskStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	s.cacheStore(ctx, taskListCacheKey, tasks)
	return tasks, nil
}

// Update applies a partial update to a task. Managers and admins only.
// Returns store.ErrTaskNotFound if no such task exists, or a validation
// error if the resulting task would be invalid.
func (s *TaskService) Update(
	ctx context.Context,
	callerID, taskID uuid.UUID,
	params UpdateTaskParams,
) (*domain.Task, error) {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleManager, domain.RoleAdmin); err != nil {
		return nil, err
	}

	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		status := domain.TaskStatus(*params.Status)
		if !status.IsValid() {
			return nil, domain.NewValidationError("status", "is not a valid status", domain.ErrInvalidStatus)
		}
		task.Status = status
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err = s.tx.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated", "task_id", task.ID, "updated_by", callerID)
	s.invalidate(ctx, taskListCacheKey, taskItemCachePref+taskID.String())

	return task, nil
}

// Delete removes a task. Admins only. Returns store.ErrTaskNotFound if no
// such task exists.
func (s *TaskService) Delete(ctx context.Context, callerID, taskID uuid.UUID) error {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleAdmin); err != nil {
		return err
	}

	err := s.tx.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Delete(ctx, taskID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("task deleted", "task_id", taskID, "deleted_by", callerID)
	s.invalidate(ctx, taskListCacheKey, taskItemCachePref+taskID.String())

	return nil
}

// Assign assigns a task to a user. Managers only. Returns
// store.ErrTaskNotFound or store.ErrUserNotFound when either side of the
// assignment is missing; the task is left unchanged in that case.
func (s *TaskService) Assign(ctx context.Context, callerID, taskID, userID uuid.UUID) (*domain.Task, error) {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleManager); err != nil {
		return nil, err
	}

	var task *domain.Task
	err := s.tx.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
		taskStore := s.taskStore.WithTx(tx)

		var err error
		task, err = taskStore.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		if _, err := s.userStore.WithTx(tx).GetByID(ctx, userID); err != nil {
			return err
		}

		task.AssignedUserID = &userID
		return taskStore.Update(ctx, task)
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) || errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	s.logger.Info("task assigned", "task_id", taskID, "user_id", userID, "assigned_by", callerID)
	s.invalidate(ctx, taskListCacheKey, taskItemCachePref+taskID.String())

	return task, nil
}

// cacheLoad reads key from the cache into dest. Returns false on miss,
// decode failure, cache error, or when no cache is configured. Cache
// problems are logged at debug level and never surface to the caller.
func (s *TaskService) cacheLoad(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Debug("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (s *TaskService) cacheStore(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Debug("cache write failed", "key", key, "error", err)
	}
}

func (s *TaskService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Debug("cache invalidation failed", "keys", keys, "error", err)
	}
}
