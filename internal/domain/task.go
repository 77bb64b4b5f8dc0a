package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether s is one of the known task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// DeadlineLayout is the calendar-date format accepted for task deadlines.
const DeadlineLayout = "2006-01-02"

// Task validation errors.
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidDeadline = errors.New("deadline must be a valid date in YYYY-MM-DD format")
)

// Task represents a unit of work tracked by the system. A nil
// AssignedUserID means the task is unassigned.
type Task struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `json:"status"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id,omitempty"`
}

// NewTask creates a Task with a fresh ID and the default pending status.
// deadline may be nil for tasks with no due date.
func NewTask(title, description string, deadline *time.Time) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      TaskStatusPending,
		Deadline:    deadline,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// ParseDeadline converts a YYYY-MM-DD string into a time value.
// Returns ErrInvalidDeadline wrapped in a ValidationError on bad input.
func ParseDeadline(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DeadlineLayout, value)
	if err != nil {
		return nil, NewValidationError("deadline", "has invalid format", ErrInvalidDeadline)
	}
	return &t, nil
}

// Validate checks the invariants that must hold for any Task.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
