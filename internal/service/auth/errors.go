package auth

import "errors"

// Common authentication and authorization errors.
var (
	// ErrInvalidToken indicates the token format is invalid or the
	// signature doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates a login attempt with an unknown email
	// or a password that does not match the stored hash. The two cases are
	// deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized indicates the caller's identity could not be resolved
	// or their role is not in the required set for the operation.
	ErrUnauthorized = errors.New("unauthorized access")
)
