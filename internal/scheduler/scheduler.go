// Package scheduler drains due scheduled runs on a cron tick. Runs are
// durable records in the store, so pending work survives a restart.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/oluwadami/jobpilot/internal/applicator"
	"github.com/oluwadami/jobpilot/pkg/models"
)

// RunStore provides the scheduled-run queue
type RunStore interface {
	DueRuns(ctx context.Context, now time.Time) ([]*models.ScheduledRun, error)
	CompleteRun(ctx context.Context, id, status string) error
}

// Scheduler wraps robfig/cron and drains due runs through the batch pipeline
type Scheduler struct {
	cron   *cron.Cron
	store  RunStore
	batch  *applicator.Batch
	spec   string
	logger *zap.Logger
}

// New creates a Scheduler firing on spec, e.g. "@every 1m".
func New(store RunStore, batch *applicator.Batch, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		batch:  batch,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the drain job and starts the cron loop. A drain also runs
// immediately so restarts pick up overdue work without waiting for a tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.drain(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))

	go s.drain(ctx)
	return nil
}

// Stop halts the cron loop and waits for a running drain to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// drain processes every run whose fire time has passed
func (s *Scheduler) drain(ctx context.Context) {
	runs, err := s.store.DueRuns(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("failed to load due runs", zap.Error(err))
		return
	}
	if len(runs) == 0 {
		return
	}

	s.logger.Info("draining scheduled runs", zap.Int("count", len(runs)))
	for _, run := range runs {
		status := models.RunCompleted
		if _, err := s.batch.RunForUser(ctx, run.UserID); err != nil {
			s.logger.Error("scheduled run failed",
				zap.String("run_id", run.ID),
				zap.String("user_id", run.UserID),
				zap.Error(err),
			)
			status = models.RunFailed
		}
		if err := s.store.CompleteRun(ctx, run.ID, status); err != nil {
			s.logger.Error("failed to mark run",
				zap.String("run_id", run.ID),
				zap.Error(err),
			)
		}
	}
}
