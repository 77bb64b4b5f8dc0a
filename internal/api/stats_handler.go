package api

import (
	"net/http"

	"github.com/jdavey/taskhub-api/internal/service"
)

// StatsHandler handles the usage statistics endpoint.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Summary handles GET /stats.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	callerID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	stats, err := h.statsService.Summary(r.Context(), callerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, StatsResponse{
		TotalUsers:     stats.TotalUsers,
		TotalTasks:     stats.TotalTasks,
		CompletedTasks: stats.CompletedTasks,
	})
}
