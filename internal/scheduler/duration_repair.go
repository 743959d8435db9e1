// Package scheduler runs periodic maintenance jobs
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// runTimeout bounds a single repair run
const runTimeout = 30 * time.Minute

// Recalculator rebuilds duration totals of every course
type Recalculator interface {
	RecalculateAll(ctx context.Context) (int, error)
}

// DurationRepair periodically recomputes course and section duration totals.
// It repairs totals left stale by a crash between the object store and the metadata store.
type DurationRepair struct {
	cron    *cron.Cron
	job     Recalculator
	logger  *zap.Logger
	timeout time.Duration
}

// NewDurationRepair creates a repair job for a standard cron schedule or descriptor (e.g. "@daily").
// Overlapping runs are skipped.
func NewDurationRepair(job Recalculator, schedule string, logger *zap.Logger) (*DurationRepair, error) {
	r := &DurationRepair{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		job:     job,
		logger:  logger,
		timeout: runTimeout,
	}

	if _, err := r.cron.AddFunc(schedule, r.Run); err != nil {
		return nil, fmt.Errorf("invalid repair schedule %q: %w", schedule, err)
	}

	return r, nil
}

// Start starts the scheduler
func (r *DurationRepair) Start() {
	r.cron.Start()
	r.logger.Info("Duration repair scheduler started")
}

// Stop stops the scheduler and waits for a running job until ctx expires
func (r *DurationRepair) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		r.logger.Warn("Duration repair still running at shutdown")
	}
	r.logger.Info("Duration repair scheduler stopped")
}

// Run executes one repair pass
func (r *DurationRepair) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	repaired, err := r.job.RecalculateAll(ctx)
	if err != nil {
		r.logger.Error("Duration repair finished with errors",
			zap.Int("repaired", repaired),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}

	r.logger.Info("Duration repair finished",
		zap.Int("repaired", repaired),
		zap.Duration("elapsed", time.Since(start)),
	)
}
