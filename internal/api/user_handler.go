package api

import (
	"net/http"

	"github.com/jdavey/taskhub-api/internal/api/shared"
	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/service"
)

// UserHandler handles the admin approval workflow.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Pending handles GET /users/pending.
func (h *UserHandler) Pending(w http.ResponseWriter, r *http.Request) {
	callerID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	users, err := h.userService.PendingUsers(r.Context(), callerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, toPendingUserResponses(users))
}

// Approve handles PUT /users/{id}/approve.
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	callerID, userID, ok := requireCallerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.userService.Approve(r.Context(), callerID, userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "User approved successfully",
	})
}

// Reject handles DELETE /users/{id}/reject. The account is removed and any
// tasks assigned to it become unassigned.
func (h *UserHandler) Reject(w http.ResponseWriter, r *http.Request) {
	callerID, userID, ok := requireCallerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.userService.Reject(r.Context(), callerID, userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "User rejected and removed",
	})
}

func toPendingUserResponses(users []*domain.User) []PendingUserResponse {
	responses := make([]PendingUserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, PendingUserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		})
	}
	return responses
}
