package api

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apimiddleware "github.com/jdavey/taskhub-api/internal/api/middleware"
	"github.com/jdavey/taskhub-api/internal/config"
	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/events"
	"github.com/jdavey/taskhub-api/internal/service"
	"github.com/jdavey/taskhub-api/internal/service/auth"
	"github.com/jdavey/taskhub-api/internal/store"
)

const testJWTSecret = "test-secret-key-thats-32-characters-long"

// testEnv wires the full handler stack over in-memory stores so requests
// can be exercised end to end through the router.
type testEnv struct {
	router     chi.Router
	userStore  *memUserStore
	taskStore  *memTaskStore
	jwtService auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userStore := newMemUserStore()
	taskStore := newMemTaskStore()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            testJWTSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	hasher := &plainHasher{}
	authorizer := auth.NewAuthorizer(userStore)
	tx := &passTransactor{}

	userService := service.NewUserService(
		tx, userStore, hasher, hasher, jwtService, authorizer, &nullEmitter{}, logger)
	taskService := service.NewTaskService(
		tx, taskStore, userStore, authorizer, nil, time.Minute, logger)
	statsService := service.NewStatsService(
		&countingStatsStore{userStore: userStore, taskStore: taskStore}, authorizer, logger)

	authHandler := NewAuthHandler(userService)
	userHandler := NewUserHandler(userService)
	taskHandler := NewTaskHandler(taskService)
	statsHandler := NewStatsHandler(statsService)
	authMiddleware := apimiddleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/tasks", taskHandler.List)
		r.Post("/tasks", taskHandler.Create)
		r.Get("/task/{id}", taskHandler.Get)
		r.Put("/task/{id}", taskHandler.Update)
		r.Delete("/task/{id}", taskHandler.Delete)
		r.Put("/task/{id}/assign", taskHandler.Assign)
		r.Get("/users/pending", userHandler.Pending)
		r.Put("/users/{id}/approve", userHandler.Approve)
		r.Delete("/users/{id}/reject", userHandler.Reject)
		r.Get("/stats", statsHandler.Summary)
	})

	return &testEnv{
		router:     r,
		userStore:  userStore,
		taskStore:  taskStore,
		jwtService: jwtService,
	}
}

// seedUser inserts a user directly into the store and returns it.
func (e *testEnv) seedUser(t *testing.T, username string, role domain.Role, approved bool) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, username+"@example.com")
	require.NoError(t, err)
	user.HashedPassword = "plain:secret"
	user.Role = role
	user.IsApproved = approved
	require.NoError(t, e.userStore.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedTask(t *testing.T, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title, "", nil)
	require.NoError(t, err)
	require.NoError(t, e.taskStore.Create(context.Background(), task))
	return task
}

// tokenFor returns a valid bearer token for the user.
func (e *testEnv) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := e.jwtService.GenerateToken(context.Background(), user.ID, user.Username)
	require.NoError(t, err)
	return token
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// plainHasher is a deterministic stand-in for bcrypt.
type plainHasher struct{}

func (p *plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (p *plainHasher) Compare(hashedPassword, password string) error {
	if hashedPassword == "plain:"+password {
		return nil
	}
	return auth.ErrInvalidCredentials
}

// passTransactor runs the function without a real transaction.
type passTransactor struct{}

func (passTransactor) Transact(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// nullEmitter discards events.
type nullEmitter struct{}

func (nullEmitter) EmitEvent(ctx context.Context, event *events.JobRequestEvent) error {
	return nil
}

// countingStatsStore derives counts from the in-memory stores.
type countingStatsStore struct {
	userStore *memUserStore
	taskStore *memTaskStore
}

func (s *countingStatsStore) CountUsers(ctx context.Context) (int64, error) {
	s.userStore.mu.Lock()
	defer s.userStore.mu.Unlock()
	return int64(len(s.userStore.users)), nil
}

func (s *countingStatsStore) CountTasks(ctx context.Context) (int64, error) {
	s.taskStore.mu.Lock()
	defer s.taskStore.mu.Unlock()
	return int64(len(s.taskStore.tasks)), nil
}

func (s *countingStatsStore) CountCompletedTasks(ctx context.Context) (int64, error) {
	s.taskStore.mu.Lock()
	defer s.taskStore.mu.Unlock()
	var completed int64
	for _, task := range s.taskStore.tasks {
		if task.Status == domain.TaskStatusCompleted {
			completed++
		}
	}
	return completed, nil
}

// memUserStore is an in-memory store.UserStore.
type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *memUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *memUserStore) ListPending(ctx context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []*domain.User
	for _, user := range s.users {
		if !user.IsApproved {
			copied := *user
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

func (s *memUserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*domain.User
	for _, user := range s.users {
		if user.Role == role {
			copied := *user
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (s *memUserStore) SetApproved(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.IsApproved = true
	return nil
}

func (s *memUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// memTaskStore is an in-memory store.TaskStore.
type memTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *memTaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *memTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *memTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tasks []*domain.Task
	for _, task := range s.tasks {
		copied := *task
		tasks = append(tasks, &copied)
	}
	return tasks, nil
}

func (s *memTaskStore) ListPendingByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tasks []*domain.Task
	for _, task := range s.tasks {
		if task.Status == domain.TaskStatusPending &&
			task.AssignedUserID != nil && *task.AssignedUserID == userID {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}
	return tasks, nil
}

func (s *memTaskStore) Update(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *memTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *memTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return s }
