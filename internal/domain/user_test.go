package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("alice", "alice@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, RoleEmployee, user.Role)
	assert.False(t, user.IsApproved)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		email    string
		wantErr  error
	}{
		{"empty username", "", "a@example.com", ErrEmptyUsername},
		{"empty email", "alice", "", ErrEmptyEmail},
		{"email without at", "alice", "alice.example.com", ErrInvalidEmail},
		{"email without domain dot", "alice", "alice@examplecom", ErrInvalidEmail},
		{"email ending with at", "alice", "alice@", ErrInvalidEmail},
		{"whitespace username trimmed to empty", "   ", "a@example.com", ErrEmptyUsername},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.username, tc.email)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRoleIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleEmployee.IsValid())
	assert.True(t, RoleManager.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("superuser").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestUserValidateRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	user, err := NewUser("bob", "bob@example.com")
	require.NoError(t, err)

	user.Role = Role("root")
	assert.ErrorIs(t, user.Validate(), ErrInvalidRole)
}
