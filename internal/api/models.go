package api

import (
	"time"

	"github.com/google/uuid"
)

// Request/response structures for the HTTP surface.

// RegisterRequest defines the payload for the signup endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=80"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	Message string `json:"msg"`
	Token   string `json:"token"`
}

// RegisterResponse defines the successful response for the signup endpoint.
type RegisterResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"user_id"`
}

// CreateTaskRequest defines the payload for task creation. Deadline is
// either empty or a YYYY-MM-DD calendar date.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=10000"`
	Deadline    string `json:"deadline"    validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskRequest defines the payload for partial task updates. Absent
// fields leave the current value unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending in_progress completed"`
}

// AssignTaskRequest defines the payload for task assignment.
type AssignTaskRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// TaskResponse is the serialized form of a task.
type TaskResponse struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Deadline       *string    `json:"deadline"`
	CreatedAt      time.Time  `json:"created_at"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
}

// PendingUserResponse is the serialized form of an account awaiting
// approval. The password hash is never exposed.
type PendingUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsResponse reports aggregate usage counters.
type StatsResponse struct {
	TotalUsers     int64 `json:"total_users"`
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}
