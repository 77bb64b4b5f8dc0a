package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role determines which operations a user may perform.
type Role string

// Possible user roles.
const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User validation errors.
var (
	ErrEmptyUserID     = errors.New("user ID cannot be empty")
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrEmptyEmail      = errors.New("email cannot be empty")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrPasswordTooLong = errors.New("password must be at most 72 characters long")
	ErrInvalidRole     = errors.New("invalid role")
)

// User represents a registered account. New accounts start with the
// employee role and require admin approval before they count as vetted.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"role"`
	IsApproved     bool      `json:"is_approved"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a User with a fresh ID, the default employee role, and
// is_approved unset. The caller is responsible for hashing the password and
// setting HashedPassword before the user is persisted.
func NewUser(username, email string) (*User, error) {
	user := &User{
		ID:         uuid.New(),
		Username:   strings.TrimSpace(username),
		Email:      strings.TrimSpace(email),
		Role:       RoleEmployee,
		IsApproved: false,
		CreatedAt:  time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the invariants that must hold for any User.
// HashedPassword is deliberately not checked here: a User is validated
// before hashing during registration and after loading from the store.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}

// validEmailFormat performs a minimal structural check: one '@' with a
// dotted domain after it. Anything stricter belongs at the API boundary
// where the validator library enforces RFC-style email validation.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
