package update

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs an Updater on a cron schedule.
type Scheduler struct {
	updater  *Updater
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler for updater. schedule is a standard
// five-field cron expression, e.g. "0 */6 * * *" for every six hours.
func NewScheduler(updater *Updater, schedule string) *Scheduler {
	return &Scheduler{
		updater:  updater,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   slog.Default().With("component", "policy.update.scheduler"),
	}
}

// Start schedules updates and returns immediately. The scheduler stops when
// ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runUpdate(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule updates: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("update scheduler started",
		"schedule", s.schedule,
		"path", s.updater.Path(),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunNow performs one update outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) {
	s.runUpdate(ctx)
}

func (s *Scheduler) runUpdate(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Debug("starting scheduled policy update")

	result, err := s.updater.Update(ctx)
	if err != nil {
		s.logger.Error("scheduled update failed", "error", err)
		return
	}
	s.logger.Debug("scheduled update completed", "replaced", result.Replaced)
}

// Stop stops the scheduler and waits for a running update to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("update scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled update time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
