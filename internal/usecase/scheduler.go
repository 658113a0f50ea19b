package usecase

import (
	"context"
	"log/slog"
	"time"

	"ShiftEvidence/internal/ports"
)

// Scheduler wires the recurring driver with the evidence pipeline. Reruns
// are safe to trigger blindly: unchanged inputs insert zero new rows.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	request  RunRequest
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring evidence runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, request RunRequest, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, pipeline: pipeline, request: request, logger: logger}
}

// Start registers the pipeline with the provided scheduler driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if _, err := s.pipeline.Execute(ctx, s.request); err != nil {
			s.logger.Error("scheduled evidence run failed",
				"shift", s.request.Shift.ID, "trigger", trigger, "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
