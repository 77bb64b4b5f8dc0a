package api

import (
	"errors"
	"net/http"

	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/service/auth"
	"github.com/jdavey/taskhub-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		isValidationError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// isValidationError reports whether err is a field-level validation error,
// regardless of which sentinel it wraps.
func isValidationError(err error) bool {
	var validationErr *domain.ValidationError
	return errors.As(err, &validationErr)
}

// GetSafeErrorMessage returns a sanitized message for the error. Kept in
// lockstep with MapErrorToStatusCode so handlers can build a full error
// response from the error alone.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "email or password incorrect."

	case errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized access"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUsernameExists),
		errors.Is(err, store.ErrEmailExists):
		return "Username or Email already exists"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		isValidationError(err):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return "Invalid " + validationErr.Field + ": " + validationErr.Message
		}
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err using the shared
// status-code and message mapping. overrideMessage, when non-empty,
// replaces the derived message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, overrideMessage string) {
	status := MapErrorToStatusCode(err)
	message := overrideMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	RespondWithErrorAndLog(w, r, status, message, err)
}
