package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/events"
	"github.com/jdavey/taskhub-api/internal/job"
	"github.com/jdavey/taskhub-api/internal/service/auth"
	"github.com/jdavey/taskhub-api/internal/store"
)

// Notification messages, kept stable because operators grep for them.
const (
	welcomeSubject  = "Welcome to Task Manager"
	welcomeBody     = "Your account has been created successfully."
	approvalSubject = "Account Approved"
	approvalBody    = "Your account has been approved."
)

// UserService implements account registration, login, and the admin
// approval workflow.
type UserService struct {
	tx         store.Transactor
	userStore  store.UserStore
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	jwtService auth.JWTService
	authorizer *auth.Authorizer
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	tx store.Transactor,
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	jwtService auth.JWTService,
	authorizer *auth.Authorizer,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		tx:         tx,
		userStore:  userStore,
		hasher:     hasher,
		verifier:   verifier,
		jwtService: jwtService,
		authorizer: authorizer,
		emitter:    emitter,
		logger:     logger.With("component", "user_service"),
	}
}

// Register creates a new account with the employee role, awaiting admin
// approval. Returns store.ErrUsernameExists or store.ErrEmailExists when
// the corresponding field is already taken. On success a welcome email is
// enqueued; enqueue failures are logged and never fail the registration.
func (s *UserService) Register(
	ctx context.Context,
	username, email, password string,
) (*domain.User, error) {
	if password == "" {
		return nil, domain.NewValidationError("password", "cannot be empty", domain.ErrEmptyPassword)
	}
	if len(password) > 72 {
		// bcrypt's practical input limit
		return nil, domain.NewValidationError("password", "is too long", domain.ErrPasswordTooLong)
	}

	user, err := domain.NewUser(username, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash

	err = s.tx.Transact(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("registration rejected, duplicate identity",
				"username", username)
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	s.enqueueEmail(ctx, welcomeSubject, user.Email, welcomeBody)

	return user, nil
}

// Authenticate checks the given credentials and returns a signed bearer
// token whose subject is the username, valid for the configured lifetime.
// Returns auth.ErrInvalidCredentials on any mismatch; unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", auth.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return "", auth.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Debug("user authenticated", "user_id", user.ID)
	return token, nil
}

// PendingUsers returns all accounts awaiting approval. Admin only.
func (s *UserService) PendingUsers(ctx context.Context, callerID uuid.UUID) ([]*domain.User, error) {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := s.userStore.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	return users, nil
}

// Approve marks the user as approved and enqueues an approval email.
// Admin only. Approving an already-approved user is a no-op success and
// does not enqueue a second email. Returns store.ErrUserNotFound if the
// user does not exist.
func (s *UserService) Approve(ctx context.Context, callerID, userID uuid.UUID) error {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleAdmin); err != nil {
		return err
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsApproved {
		s.logger.Debug("user already approved, skipping", "user_id", userID)
		return nil
	}

	if err := s.userStore.SetApproved(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user approved", "user_id", userID, "approved_by", callerID)
	s.enqueueEmail(ctx, approvalSubject, user.Email, approvalBody)

	return nil
}

// Reject permanently deletes the user. Admin only. Tasks still assigned to
// the user are unassigned as part of the delete. Returns
// store.ErrUserNotFound if the user does not exist.
func (s *UserService) Reject(ctx context.Context, callerID, userID uuid.UUID) error {
	if _, err := s.authorizer.Authorize(ctx, callerID, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.userStore.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user rejected and removed", "user_id", userID, "rejected_by", callerID)
	return nil
}

// enqueueEmail emits an email job request. Delivery is asynchronous and
// at-least-once; a failure to enqueue is logged but never surfaces to the
// operation that triggered the notification.
func (s *UserService) enqueueEmail(ctx context.Context, subject, recipient, body string) {
	event, err := events.NewJobRequestEvent(job.TypeEmail, job.EmailPayload{
		Subject:   subject,
		Recipient: recipient,
		Body:      body,
	})
	if err != nil {
		s.logger.Error("failed to build email event", "error", err, "recipient", recipient)
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to enqueue email", "error", err, "recipient", recipient)
	}
}
