package usecase

import (
	"context"
	"log/slog"
	"time"

	"coindigest/internal/ports"
)

// Scheduler wires the interval driver with the update cycle engine.
type Scheduler struct {
	driver ports.Scheduler
	engine *Engine
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring cycles.
func NewScheduler(driver ports.Scheduler, engine *Engine, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, engine: engine, logger: logger}
}

// Start registers the engine with the provided driver. Timer ticks go
// through the same guarded entry point as manual triggers, so a tick that
// lands mid-cycle is dropped rather than queued.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.engine == nil {
		return nil
	}

	job := func(time.Time) {
		report := s.engine.TriggerNow(ctx)
		s.info("cycle finished",
			"cycle", report.CycleID,
			"outcome", report.Outcome,
			"new", report.NewArticles,
			"failed_categories", len(report.FailedCategories))
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

func (s *Scheduler) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
