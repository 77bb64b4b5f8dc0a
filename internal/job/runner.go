package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the job runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue.
	QueueSize int

	// StuckJobAge defines how long a job can sit in processing state
	// before it's considered stuck and reset.
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often to check for stuck jobs.
	// If zero, defaults to 5 minutes.
	StuckJobCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// Runner manages background job processing: it persists submitted jobs,
// feeds them to a pool of workers, and recovers unfinished jobs on start.
// Jobs run at least once; a job interrupted mid-flight is reset to pending
// and re-executed.
type Runner struct {
	store      Store
	jobChan    chan Job
	factories  map[string]Factory
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(store Store, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.StuckJobCheckInterval == 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:      store,
		jobChan:    make(chan Job, config.QueueSize),
		factories:  make(map[string]Factory),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With("component", "job_runner"),
	}
}

// RegisterFactory registers a factory used to rebuild persisted jobs of
// the given type during recovery.
func (r *Runner) RegisterFactory(jobType string, factory Factory) {
	r.factories[jobType] = factory
}

// Submit persists the job and adds it to the queue. The call returns as
// soon as the job is durable; execution happens on the worker pool.
func (r *Runner) Submit(ctx context.Context, j Job) error {
	if err := r.store.SaveJob(ctx, j); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	select {
	case r.jobChan <- j:
		return nil
	default:
		// Queue is full. The job is already persisted with pending status,
		// so recovery or the stuck-job monitor will pick it up later.
		r.logger.Warn("job queue full, deferring to recovery",
			"job_id", j.ID(),
			"job_type", j.Type())
		return nil
	}
}

// Start recovers unfinished jobs and launches the worker pool.
func (r *Runner) Start() error {
	if err := r.recover(); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckJobMonitor()

	return nil
}

// Stop gracefully shuts down the runner, waiting for in-flight jobs.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.jobChan)
}

// recover loads unfinished jobs from the store and requeues them.
// Jobs found in processing state were interrupted by a previous shutdown
// and are reset to pending first.
func (r *Runner) recover() error {
	ctx := context.Background()

	pending, err := r.store.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending jobs: %w", err)
	}

	processing, err := r.store.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, rec := range processing {
		if err := r.store.UpdateJobStatus(ctx, rec.ID, StatusPending, "reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing job",
				"job_id", rec.ID,
				"job_type", rec.Type,
				"error", err)
			continue
		}
		pending = append(pending, rec)
	}

	for _, rec := range pending {
		r.requeueRecord(ctx, rec)
	}

	return nil
}

// requeueRecord rebuilds an executable job from a persisted record and
// puts it back on the queue. Records with no registered factory are
// marked failed rather than retried forever.
func (r *Runner) requeueRecord(ctx context.Context, rec Record) {
	factory, ok := r.factories[rec.Type]
	if !ok {
		r.logger.Error("no factory registered for persisted job type",
			"job_id", rec.ID,
			"job_type", rec.Type)
		if err := r.store.UpdateJobStatus(ctx, rec.ID, StatusFailed, "unknown job type"); err != nil {
			r.logger.Error("failed to mark unknown job as failed", "job_id", rec.ID, "error", err)
		}
		return
	}

	j, err := factory(rec.ID, rec.Payload)
	if err != nil {
		r.logger.Error("failed to rebuild persisted job",
			"job_id", rec.ID,
			"job_type", rec.Type,
			"error", err)
		if err := r.store.UpdateJobStatus(ctx, rec.ID, StatusFailed, err.Error()); err != nil {
			r.logger.Error("failed to mark corrupt job as failed", "job_id", rec.ID, "error", err)
		}
		return
	}

	select {
	case r.jobChan <- j:
	default:
		r.logger.Error("failed to requeue job, queue is full",
			"job_id", rec.ID,
			"job_type", rec.Type)
	}
}

// worker processes jobs from the queue.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case j, ok := <-r.jobChan:
			if !ok {
				r.logger.Debug("job channel closed, stopping worker", "worker_id", id)
				return
			}
			r.processJob(j, id)
		}
	}
}

// processJob handles execution of a single job. Failures are recorded and
// logged but never propagate beyond the worker.
func (r *Runner) processJob(j Job, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"job_id", j.ID(),
		"job_type", j.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateJobStatus(ctx, j.ID(), StatusProcessing, ""); err != nil {
		log.Error("failed to update job status to processing", "error", err)
		return
	}

	log.Info("processing job")

	if err := j.Execute(ctx); err != nil {
		log.Error("job execution failed", "error", err)
		if updateErr := r.store.UpdateJobStatus(ctx, j.ID(), StatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update job status to failed", "error", updateErr)
		}
		return
	}

	log.Info("job completed successfully")
	if err := r.store.UpdateJobStatus(ctx, j.ID(), StatusCompleted, ""); err != nil {
		log.Error("failed to update job status to completed", "error", err)
	}
}

// stuckJobMonitor periodically resets jobs that have been in processing
// state for too long and requeues them.
func (r *Runner) stuckJobMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuck, err := r.store.GetProcessingJobs(ctx, r.config.StuckJobAge)
			if err != nil {
				r.logger.Error("failed to check for stuck jobs", "error", err)
				continue
			}
			if len(stuck) == 0 {
				continue
			}

			r.logger.Info("found stuck jobs", "count", len(stuck))
			for _, rec := range stuck {
				if err := r.store.UpdateJobStatus(ctx, rec.ID, StatusPending,
					"reset after being stuck in processing state"); err != nil {
					r.logger.Error("failed to reset stuck job",
						"job_id", rec.ID,
						"job_type", rec.Type,
						"error", err)
					continue
				}
				r.requeueRecord(ctx, rec)
			}
		}
	}
}
