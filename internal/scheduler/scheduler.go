// Package scheduler runs the periodic board refresh.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// MinInterval is the shortest allowed refresh interval
const MinInterval = 5 * time.Second

// JobFunc is one scheduled run. It receives a context that expires one
// second before the next run is due.
type JobFunc func(ctx context.Context) error

// Scheduler manages scheduled refresh jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	// quiet errors are logged at debug level
	quiet []error
}

// NewScheduler creates a new scheduler. Job errors matching any of quiet
// (via errors.Is) are logged at debug level instead of warning.
func NewScheduler(logger *logrus.Logger, quiet ...error) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		quiet:           quiet,
	}
}

// ScheduleEvery schedules fn to run every interval, clamped to MinInterval.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if interval < MinInterval {
		interval = MinInterval
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.job(name, interval, fn))
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":      name,
		"interval": interval.String(),
	}).Info("Scheduled job")

	return nil
}

func (s *Scheduler) job(name string, interval time.Duration, fn JobFunc) func() {
	timeout := interval - time.Second
	if timeout <= 0 {
		timeout = interval
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			entry := s.logger.WithField("job", name).WithError(err)
			if s.isQuiet(err) {
				entry.Debug("Scheduled job did not complete")
				return
			}
			entry.Warn("Scheduled job failed")
		}
	}
}

func (s *Scheduler) isQuiet(err error) bool {
	for _, q := range s.quiet {
		if errors.Is(err, q) {
			return true
		}
	}
	return false
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler, waiting for running jobs up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
