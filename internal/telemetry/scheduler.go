package telemetry

import (
	"context"
	"fmt"
	"time"
)

// defaultPeriod is the collection cadence used when none is
// configured.
const defaultPeriod = 5 * time.Second

// StatusSink receives the outcome of every completed cycle for local
// display. Implementations run inline on the collection loop and must
// not block.
type StatusSink interface {
	Report(outcome CycleOutcome)
}

// Restarter restarts the process when an anomaly verdict demands it.
// Production implementations re-exec the binary and never return;
// test implementations record the call and do.
type Restarter interface {
	Restart()
}

// Scheduler drives the collection loop on a fixed cadence.
//
// The period is measured from the end of one cycle to the start of
// the next, so wall-clock sample spacing is period plus cycle
// duration. Collection cadence does not need to be exact; sample
// timestamps carry the truth.
type Scheduler struct {
	coordinator *Coordinator
	status      StatusSink
	restarter   Restarter
	period      time.Duration
	log         Logger
}

// SchedulerConfig carries the collaborators for NewScheduler.
// Coordinator and Restarter are required. Status is optional; when
// nil no outcome is displayed. Period defaults to 5s when
// non-positive.
type SchedulerConfig struct {
	Coordinator *Coordinator
	Status      StatusSink
	Restarter   Restarter
	Period      time.Duration
	Logger      Logger
}

// NewScheduler validates the config and creates a scheduler.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Coordinator == nil {
		return nil, fmt.Errorf("telemetry: coordinator is required")
	}
	if cfg.Restarter == nil {
		return nil, fmt.Errorf("telemetry: restarter is required")
	}
	period := cfg.Period
	if period <= 0 {
		period = defaultPeriod
	}
	log := cfg.Logger
	if log == nil {
		log = noopLogger{}
	}
	return &Scheduler{
		coordinator: cfg.Coordinator,
		status:      cfg.Status,
		restarter:   cfg.Restarter,
		period:      period,
		log:         log,
	}, nil
}

// Run executes collection cycles until the context is cancelled or an
// anomaly verdict stops the loop.
//
// On a restart verdict Run invokes the restarter and returns
// ErrRestartRequired; the production restarter re-execs the process
// before the return is reached. Nothing from the aborted cycle is
// displayed.
//
// Returns the context's error on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("collection loop started", "period", s.period.String())

	for {
		outcome, disposition := s.coordinator.RunCycle(ctx)

		if disposition == RestartRequired {
			s.log.Error("implausible pressure reading, restarting process",
				"pressure_hpa", outcome.Readings.PressureHPa,
			)
			s.restarter.Restart()
			return ErrRestartRequired
		}

		if s.status != nil {
			s.status.Report(outcome)
		}

		select {
		case <-ctx.Done():
			s.log.Info("collection loop stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-time.After(s.period):
		}
	}
}
