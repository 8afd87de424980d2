// Package scheduler runs the recurring background jobs: the nightly bet
// evaluation sweep and the reference data refresh.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/max-friebertshaeuser/F1Insight/internal/ingest"
	"github.com/max-friebertshaeuser/F1Insight/internal/service"
)

// Scheduler manages the recurring evaluation and data sync jobs
type Scheduler struct {
	cron            *cron.Cron
	evaluator       *service.EvaluationService
	sync            *ingest.SyncService
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	sweepTimeout    time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. Jobs run on UTC wall time so the
// sweep's date boundary matches the race date comparison.
func NewScheduler(evaluator *service.EvaluationService, sync *ingest.SyncService, sweepTimeout time.Duration, logger *logrus.Logger) *Scheduler {
	if sweepTimeout <= 0 {
		sweepTimeout = 30 * time.Minute
	}

	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		evaluator:       evaluator,
		sync:            sync,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		sweepTimeout:    sweepTimeout,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleSweep schedules the recurring bet evaluation sweep
func (s *Scheduler) ScheduleSweep(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.sweepTimeout)
		defer cancel()

		s.logger.Info("Starting scheduled bet evaluation sweep")

		summary, err := s.evaluator.Run(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled bet evaluation sweep failed")
			return
		}

		s.logger.WithFields(logrus.Fields{
			"evaluated": summary.Evaluated,
			"skipped":   summary.SkippedNoReference,
			"failed":    summary.Failed,
		}).Info("Scheduled bet evaluation sweep completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add sweep job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled bet evaluation sweep")

	return nil
}

// ScheduleDataSync schedules the recurring reference data refresh
func (s *Scheduler) ScheduleDataSync(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()

		s.logger.Info("Starting scheduled reference data sync")

		if err := s.sync.SyncLatest(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled reference data sync failed")
			return
		}

		s.logger.Info("Scheduled reference data sync completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add data sync job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled reference data sync")

	return nil
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

// Stop gracefully stops the scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}

	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
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
