package telemetry

import "errors"

// Sentinel errors for the telemetry loop.
var (
	// ErrUnknownSeries is returned by Batch.Append for a metric name
	// outside the fixed registered set. The set of series is decided
	// at startup; hitting this at runtime is a logic error.
	ErrUnknownSeries = errors.New("telemetry: unknown series name")

	// ErrRestartRequired is returned by Scheduler.Run after the
	// anomaly guard demanded a process restart. In production the
	// restarter never returns, so callers only see this from
	// restarters that decline to terminate (tests).
	ErrRestartRequired = errors.New("telemetry: process restart required")
)
