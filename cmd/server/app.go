package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jdavey/taskhub-api/internal/api"
	apimiddleware "github.com/jdavey/taskhub-api/internal/api/middleware"
	"github.com/jdavey/taskhub-api/internal/config"
	"github.com/jdavey/taskhub-api/internal/events"
	"github.com/jdavey/taskhub-api/internal/job"
	"github.com/jdavey/taskhub-api/internal/platform/mail"
	"github.com/jdavey/taskhub-api/internal/platform/postgres"
	"github.com/jdavey/taskhub-api/internal/platform/redis"
	"github.com/jdavey/taskhub-api/internal/service"
	"github.com/jdavey/taskhub-api/internal/service/auth"
	"github.com/jdavey/taskhub-api/internal/store"
)

// application holds the wired dependency graph for one server process.
type application struct {
	cfg    *config.Config
	logger *slog.Logger

	db    *sql.DB
	cache *redis.Client

	jobRunner *job.Runner
	scheduler *job.Scheduler

	userService  *service.UserService
	taskService  *service.TaskService
	statsService *service.StatsService
	jwtService   auth.JWTService
}

// newApplication builds the full dependency graph: database and migrations,
// stores, auth, cache, mail transport, the background job runner, the
// reminder scheduler, and the services.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	logger := slog.Default()

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		return nil, err
	}

	userStore := postgres.NewUserStore(db)
	taskStore := postgres.NewTaskStore(db)
	statsStore := postgres.NewStatsStore(db)
	jobStore := postgres.NewJobStore(db)
	tx := store.NewTransactor(db)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	hasher := auth.NewBcryptHasher()
	authorizer := auth.NewAuthorizer(userStore)

	// The cache is advisory: absent configuration or an unreachable server
	// means reads simply go to the database.
	var cache *redis.Client
	if cfg.Cache.URL != "" {
		cache, err = redis.NewClient(cfg.Cache.URL)
		if err != nil {
			logger.Warn("cache unavailable, continuing without it", "error", err)
			cache = nil
		}
	}

	var sender mail.Sender
	if cfg.Mail.Host != "" {
		sender, err = mail.NewSMTPSender(cfg.Mail)
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP sender: %w", err)
		}
	} else {
		logger.Warn("no SMTP host configured, emails will only be logged")
		sender = mail.NewLogSender(logger)
	}

	runnerConfig := job.DefaultRunnerConfig()
	if cfg.Worker.Count > 0 {
		runnerConfig.WorkerCount = cfg.Worker.Count
	}
	if cfg.Worker.QueueSize > 0 {
		runnerConfig.QueueSize = cfg.Worker.QueueSize
	}
	jobRunner := job.NewRunner(jobStore, runnerConfig, logger)
	jobRunner.RegisterFactory(job.TypeEmail, job.NewEmailJobFactory(sender))

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(job.NewEmailEventHandler(jobRunner, sender, logger))

	scheduler := job.NewScheduler(
		userStore, taskStore, jobRunner, sender, cfg.Worker.ReminderInterval(), logger)

	var serviceCache service.Cache
	if cache != nil {
		serviceCache = cache
	}

	userService := service.NewUserService(
		tx, userStore, hasher, hasher, jwtService, authorizer, emitter, logger)
	taskService := service.NewTaskService(
		tx, taskStore, userStore, authorizer, serviceCache, cfg.Cache.TTL(), logger)
	statsService := service.NewStatsService(statsStore, authorizer, logger)

	return &application{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		cache:        cache,
		jobRunner:    jobRunner,
		scheduler:    scheduler,
		userService:  userService,
		taskService:  taskService,
		statsService: statsService,
		jwtService:   jwtService,
	}, nil
}

// setupRouter configures the routes and middleware chain.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService)
	userHandler := api.NewUserHandler(app.userService)
	taskHandler := api.NewTaskHandler(app.taskService)
	statsHandler := api.NewStatsHandler(app.statsService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	// Public endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Protected endpoints; role checks live in the services.
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

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

// shutdown releases background workers and connections in reverse
// dependency order.
func (app *application) shutdown() {
	app.scheduler.Stop()
	app.jobRunner.Stop()

	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("failed to close cache connection", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
