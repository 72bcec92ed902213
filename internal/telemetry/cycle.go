package telemetry

import (
	"context"
	"time"

	"github.com/nerrad567/fieldsense/internal/sensor"
)

// Disposition tells the scheduler what to do after a cycle.
type Disposition int

const (
	// ContinueRunning means the cycle completed and the loop should
	// sleep until the next one.
	ContinueRunning Disposition = iota

	// RestartRequired means an implausible sensor reading was
	// detected and the process must restart before collecting again.
	RestartRequired
)

// Readings is the snapshot of sensor values gathered in one cycle,
// after substitution rules have been applied. These are the values
// that were buffered (or, on restart, would have been).
type Readings struct {
	Temperature float64 // °C, zero when EnvFailed
	Humidity    float64 // %RH, zero when EnvFailed
	PressureHPa float64 // hPa, previous value when PressureFailed

	// EnvFailed records that the environmental read failed this cycle
	// and zeros were substituted.
	EnvFailed bool

	// PressureFailed records that the pressure read failed this cycle
	// and the previous value was reused.
	PressureFailed bool

	Power sensor.PowerReading
}

// CycleOutcome summarises one completed collection cycle for status
// display and instrumentation.
type CycleOutcome struct {
	// TimestampMs is the shared sample timestamp of the cycle,
	// milliseconds since the Unix epoch.
	TimestampMs int64

	Readings Readings

	// Result is the transport's code for this cycle's send attempt.
	Result ResultCode

	// Failures is the consecutive send failure count after this
	// cycle: zero after a success, incremented after a failure.
	Failures int
}

// Observer receives instrumentation callbacks from the collection
// loop. Implementations must be cheap; they run inline on the loop.
type Observer interface {
	// CycleCompleted fires after every completed cycle, successful
	// upload or not. It does not fire for cycles cut short by an
	// anomaly verdict.
	CycleCompleted(outcome CycleOutcome, duration time.Duration)

	// EnvironmentReadFailed fires when the environmental read fails
	// and zeros are substituted.
	EnvironmentReadFailed()

	// AnomalyDetected fires when a fresh pressure reading falls
	// outside the plausibility window, immediately before the restart
	// disposition is returned.
	AnomalyDetected(pressurePa float64)
}

type noopObserver struct{}

func (noopObserver) CycleCompleted(CycleOutcome, time.Duration) {}
func (noopObserver) EnvironmentReadFailed()                     {}
func (noopObserver) AnomalyDetected(float64)                    {}

// Coordinator runs the sample-buffer-send sequence of a single cycle.
//
// It owns the consecutive failure counter and the last known pressure
// value. Not safe for concurrent use; the scheduler calls RunCycle
// from one goroutine.
type Coordinator struct {
	source    sensor.Source
	transport Transport
	batch     *Batch
	observer  Observer
	log       Logger

	failures       int
	lastPressurePa float64

	now func() time.Time
}

// CoordinatorConfig carries the collaborators for NewCoordinator.
// Source, Transport and Batch are required; Observer and Logger
// default to no-ops.
type CoordinatorConfig struct {
	Source    sensor.Source
	Transport Transport
	Batch     *Batch
	Observer  Observer
	Logger    Logger
}

// NewCoordinator creates a coordinator with a zeroed failure counter.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	obs := cfg.Observer
	if obs == nil {
		obs = noopObserver{}
	}
	log := cfg.Logger
	if log == nil {
		log = noopLogger{}
	}
	return &Coordinator{
		source:    cfg.Source,
		transport: cfg.Transport,
		batch:     cfg.Batch,
		observer:  obs,
		log:       log,
		now:       time.Now,
	}
}

// Failures returns the current consecutive send failure count.
func (c *Coordinator) Failures() int {
	return c.failures
}

// RunCycle executes one full collection cycle: read every sensor,
// apply substitution rules, buffer six samples under one shared
// timestamp, send the batch, and clear it.
//
// Substitution rules:
//   - environmental read failure buffers zero for temperature and
//     humidity;
//   - pressure read failure reuses the previous cycle's value (zero
//     on the first cycle);
//   - power reads are best-effort and never fail.
//
// A fresh pressure reading outside the plausibility window aborts the
// cycle before anything is buffered or sent: RunCycle returns
// RestartRequired and the caller must restart the process. Reused
// pressure values are not re-checked.
//
// The batch is cleared unconditionally after every send attempt, so a
// failed upload drops its samples rather than replaying them.
func (c *Coordinator) RunCycle(ctx context.Context) (CycleOutcome, Disposition) {
	start := c.now()
	tsMs := start.UnixMilli()

	outcome := CycleOutcome{TimestampMs: tsMs}

	env, err := c.source.ReadEnvironment(ctx)
	if err != nil {
		c.log.Debug("environmental read failed, buffering zeros", "error", err)
		c.observer.EnvironmentReadFailed()
		outcome.Readings.EnvFailed = true
		env = sensor.EnvironmentReading{}
	}
	outcome.Readings.Temperature = env.Temperature
	outcome.Readings.Humidity = env.Humidity

	pa, err := c.source.ReadPressure(ctx)
	if err != nil {
		c.log.Debug("pressure read failed, reusing previous value",
			"error", err,
			"previous_hpa", c.lastPressurePa/pascalsPerHectopascal,
		)
		outcome.Readings.PressureFailed = true
		pa = c.lastPressurePa
	} else {
		if CheckPressure(pa) == VerdictRestartRequired {
			outcome.Readings.PressureHPa = pa / pascalsPerHectopascal
			c.observer.AnomalyDetected(pa)
			return outcome, RestartRequired
		}
		c.lastPressurePa = pa
	}
	outcome.Readings.PressureHPa = pa / pascalsPerHectopascal

	power := c.source.ReadPower(ctx)
	outcome.Readings.Power = power

	c.append(SeriesTemperature, tsMs, outcome.Readings.Temperature)
	c.append(SeriesHumidity, tsMs, outcome.Readings.Humidity)
	c.append(SeriesPressure, tsMs, outcome.Readings.PressureHPa)
	c.append(SeriesBatteryVoltage, tsMs, float64(power.VoltageMillivolts))
	c.append(SeriesBatteryCurrent, tsMs, float64(power.CurrentMilliamps))
	c.append(SeriesBatteryLevel, tsMs, float64(power.LevelPercent))

	result := c.transport.SendBatch(ctx, c.batch)
	c.batch.ClearAll()

	if result.OK() {
		c.failures = 0
	} else {
		c.failures++
		c.log.Warn("batch send failed",
			"code", int(result),
			"consecutive_failures", c.failures,
		)
	}
	outcome.Result = result
	outcome.Failures = c.failures

	c.observer.CycleCompleted(outcome, c.now().Sub(start))
	return outcome, ContinueRunning
}

func (c *Coordinator) append(name string, tsMs int64, value float64) {
	if err := c.batch.Append(name, tsMs, value); err != nil {
		c.log.Error("sample append failed", "series", name, "error", err)
	}
}
