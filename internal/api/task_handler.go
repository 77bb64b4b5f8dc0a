package api

import (
	"net/http"

	"github.com/jdavey/taskhub-api/internal/api/shared"
	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/service"
)

// TaskHandler handles the task lifecycle endpoints.
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if _, err := h.taskService.Create(r.Context(), callerID, req.Title, req.Description, req.Deadline); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, shared.MessageResponse{Message: "Task created successfully"})
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	tasks, err := h.taskService.List(r.Context(), callerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toTaskResponse(task))
	}
	RespondWithJSON(w, r, http.StatusOK, responses)
}

// Get handles GET /task/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID, taskID, ok := requireCallerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), callerID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, toTaskResponse(task))
}

// Update handles PUT /task/{id}. Absent fields keep their current values.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, taskID, ok := requireCallerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	_, err := h.taskService.Update(r.Context(), callerID, taskID, service.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "Task updated successfully",
	})
}

// Delete handles DELETE /task/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, taskID, ok := requireCallerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), callerID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "Task deleted successfully",
	})
}

// Assign handles PUT /task/{id}/assign.
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	callerID, taskID, ok := requireCallerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if _, err := h.taskService.Assign(r.Context(), callerID, taskID, req.UserID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "Task assigned successfully",
	})
}

func toTaskResponse(task *domain.Task) TaskResponse {
	var deadline *string
	if task.Deadline != nil {
		formatted := task.Deadline.Format(domain.DeadlineLayout)
		deadline = &formatted
	}
	return TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         string(task.Status),
		Deadline:       deadline,
		CreatedAt:      task.CreatedAt,
		AssignedUserID: task.AssignedUserID,
	}
}
