package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/platform/logger"
	"github.com/jdavey/taskhub-api/internal/store"
)

// Authorizer resolves an authenticated identity to a user record and checks
// role membership. Every protected service operation calls Authorize as its
// first statement; the check is independent of, and runs after, token
// validation in the HTTP middleware.
type Authorizer struct {
	userStore store.UserStore
}

// NewAuthorizer creates an Authorizer backed by the given user store.
func NewAuthorizer(userStore store.UserStore) *Authorizer {
	return &Authorizer{userStore: userStore}
}

// Authorize loads the user for callerID and verifies their role is one of
// requiredRoles. Returns the resolved user on success, or ErrUnauthorized
// when the identity is missing/unknown or the role is outside the set.
func (a *Authorizer) Authorize(
	ctx context.Context,
	callerID uuid.UUID,
	requiredRoles ...domain.Role,
) (*domain.User, error) {
	log := logger.FromContext(ctx)

	if callerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	user, err := a.userStore.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("authorization failed: unknown caller", "caller_id", callerID)
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}

	for _, role := range requiredRoles {
		if user.Role == role {
			return user, nil
		}
	}

	log.Debug("authorization failed: insufficient role",
		"caller_id", callerID,
		"caller_role", user.Role)
	return nil, ErrUnauthorized
}
