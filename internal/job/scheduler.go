package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jdavey/taskhub-api/internal/domain"
	"github.com/jdavey/taskhub-api/internal/platform/mail"
	"github.com/jdavey/taskhub-api/internal/store"
)

// reminderSubject is the subject line for scheduled reminder emails.
const reminderSubject = "Daily Task Reminder"

// Scheduler periodically enqueues reminder emails: one per employee,
// listing that employee's pending tasks. Every employee gets a reminder,
// even when the list is empty. A failure for one employee never stops
// the sweep for the others.
type Scheduler struct {
	userStore store.UserStore
	taskStore store.TaskStore
	runner    *Runner
	sender    mail.Sender
	interval  time.Duration
	logger    *slog.Logger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewScheduler creates a reminder Scheduler. interval is how often the
// sweep runs; the product configuration uses 24 hours.
func NewScheduler(
	userStore store.UserStore,
	taskStore store.TaskStore,
	runner *Runner,
	sender mail.Sender,
	interval time.Duration,
	logger *slog.Logger,
) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		userStore:  userStore,
		taskStore:  taskStore,
		runner:     runner,
		sender:     sender,
		interval:   interval,
		logger:     logger.With("component", "reminder_scheduler"),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the scheduling loop. The first sweep happens after one
// full interval, not at startup.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.RunOnce(s.ctx); err != nil {
					s.logger.Error("reminder sweep failed", "error", err)
				}
			}
		}
	}()
}

// Stop shuts down the scheduling loop.
func (s *Scheduler) Stop() {
	s.cancelFunc()
	s.wg.Wait()
}

// RunOnce performs a single reminder sweep: for every employee, compose
// and enqueue one reminder email listing their pending assigned tasks.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	employees, err := s.userStore.ListByRole(ctx, domain.RoleEmployee)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	enqueued := 0
	for _, employee := range employees {
		tasks, err := s.taskStore.ListPendingByAssignee(ctx, employee.ID)
		if err != nil {
			s.logger.Error("failed to list pending tasks for employee",
				"error", err,
				"user_id", employee.ID)
			continue
		}

		payload := EmailPayload{
			Subject:   reminderSubject,
			Recipient: employee.Email,
			Body:      composeReminderBody(employee.Username, tasks),
		}

		j, err := NewEmailJob(payload, s.sender)
		if err != nil {
			s.logger.Error("failed to create reminder job",
				"error", err,
				"user_id", employee.ID)
			continue
		}
		if err := s.runner.Submit(ctx, j); err != nil {
			s.logger.Error("failed to submit reminder job",
				"error", err,
				"user_id", employee.ID)
			continue
		}
		enqueued++
	}

	s.logger.Info("reminder sweep completed",
		"employees", len(employees),
		"reminders_enqueued", enqueued)

	return nil
}

// composeReminderBody renders the reminder text for one employee.
func composeReminderBody(username string, tasks []*domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nHere are your pending tasks:\n\n", username)
	for _, t := range tasks {
		if t.Deadline != nil {
			fmt.Fprintf(&b, "%s - Due: %s\n", t.Title, t.Deadline.Format(domain.DeadlineLayout))
		} else {
			fmt.Fprintf(&b, "%s - No deadline\n", t.Title)
		}
	}
	return b.String()
}
