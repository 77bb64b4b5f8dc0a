package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/api/shared"
	"github.com/jdavey/taskhub-api/internal/domain"
)

// Aliases for the shared response helpers so handlers read naturally.
var (
	RespondWithJSON        = shared.RespondWithJSON
	RespondWithError       = shared.RespondWithError
	RespondWithErrorAndLog = shared.RespondWithErrorAndLog
	DecodeJSON             = shared.DecodeJSON
	ValidateRequest        = shared.ValidateRequest
)

// getUserIDFromContext extracts the authenticated caller's UUID from the
// request context, where the auth middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// requireCallerAndPathUUID extracts the caller ID from the context and a
// UUID from the path, writing the error response itself when either is
// missing. The bool result reports whether the handler may proceed.
func requireCallerAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (uuid.UUID, uuid.UUID, bool) {
	callerID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return callerID, pathID, true
}
