package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/events"
	"github.com/jdavey/taskhub-api/internal/service/auth"
	"github.com/jdavey/taskhub-api/internal/store"
)

var errMismatch = errors.New("password mismatch")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTransactor runs the function outside any real transaction. The nil
// *sql.Tx is safe because the fake stores ignore WithTx.
type fakeTransactor struct {
	err error
}

func (f *fakeTransactor) Transact(ctx context.Context, fn store.TxFn) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx, nil)
}

// memUserStore is an in-memory store.UserStore with per-method error
// injection.
type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	createErr error
	getErr    error
	deleteErr error
}

func newMemUserStore(users ...*domain.User) *memUserStore {
	s := &memUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
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
	if s.getErr != nil {
		return nil, s.getErr
	}
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
	if s.getErr != nil {
		return nil, s.getErr
	}
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
	if s.deleteErr != nil {
		return s.deleteErr
	}
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

	createErr error
	getErr    error
	listErr   error
	updateErr error
}

func newMemTaskStore(tasks ...*domain.Task) *memTaskStore {
	s := &memTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *memTaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *memTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
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
	if s.listErr != nil {
		return nil, s.listErr
	}
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
	if s.updateErr != nil {
		return s.updateErr
	}
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

// fakeStatsStore returns canned counts.
type fakeStatsStore struct {
	users, tasks, completed int64
	err                     error
}

func (s *fakeStatsStore) CountUsers(ctx context.Context) (int64, error) {
	return s.users, s.err
}

func (s *fakeStatsStore) CountTasks(ctx context.Context) (int64, error) {
	return s.tasks, s.err
}

func (s *fakeStatsStore) CountCompletedTasks(ctx context.Context) (int64, error) {
	return s.completed, s.err
}

// fakeCache is an in-memory Cache that records invalidations.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string

	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	data, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

// fakeEmitter records emitted events.
type fakeEmitter struct {
	mu     sync.Mutex
	events []*events.JobRequestEvent
	err    error
}

func (e *fakeEmitter) EmitEvent(ctx context.Context, event *events.JobRequestEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

func (e *fakeEmitter) emitted() []*events.JobRequestEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*events.JobRequestEvent(nil), e.events...)
}

// fakeJWTService issues predictable tokens.
type fakeJWTService struct {
	err error
}

func (f *fakeJWTService) GenerateToken(ctx context.Context, userID uuid.UUID, username string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + username, nil
}

func (f *fakeJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	panic("not used in service tests")
}

// fakeHasher derives reversible fake hashes so Compare can verify them.
type fakeHasher struct {
	hashErr error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return errMismatch
}
