package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/fieldsense/internal/telemetry"
)

// namespace prefixes every metric this agent exports about itself.
const namespace = "fieldsense"

// Metrics translates collection loop events into Prometheus series.
// It implements telemetry.Observer.
type Metrics struct {
	cycles          prometheus.Counter
	samplesBuffered prometheus.Counter
	sendFailures    prometheus.Counter
	consecutiveFail prometheus.Gauge
	cycleDuration   prometheus.Histogram
	envReadFailures prometheus.Counter
	anomalyRestarts prometheus.Counter
}

var _ telemetry.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the agent's self-metrics.
//
// Registration panics on name collision, so NewMetrics must be called
// at most once per registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Collection cycles completed, successful upload or not.",
		}),
		samplesBuffered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_buffered_total",
			Help:      "Samples appended to the in-memory batch.",
		}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Batch uploads that returned a non-zero result code.",
		}),
		consecutiveFail: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "consecutive_send_failures",
			Help:      "Current run of consecutive upload failures; zero after a success.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of one sample-buffer-send cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		envReadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "env_read_failures_total",
			Help:      "Environmental sensor reads that failed and were zero-filled.",
		}),
		anomalyRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomaly_restarts_total",
			Help:      "Process restarts triggered by implausible pressure readings.",
		}),
	}

	reg.MustRegister(
		m.cycles,
		m.samplesBuffered,
		m.sendFailures,
		m.consecutiveFail,
		m.cycleDuration,
		m.envReadFailures,
		m.anomalyRestarts,
	)
	return m
}

// CycleCompleted records the outcome of one completed cycle.
func (m *Metrics) CycleCompleted(outcome telemetry.CycleOutcome, duration time.Duration) {
	m.cycles.Inc()
	m.samplesBuffered.Add(float64(len(telemetry.SeriesNames())))
	m.cycleDuration.Observe(duration.Seconds())
	m.consecutiveFail.Set(float64(outcome.Failures))
	if !outcome.Result.OK() {
		m.sendFailures.Inc()
	}
}

// EnvironmentReadFailed counts one zero-filled environmental read.
func (m *Metrics) EnvironmentReadFailed() {
	m.envReadFailures.Inc()
}

// AnomalyDetected counts one anomaly-triggered restart. The counter
// survives the restart only in the scrape history; the new process
// starts from zero.
func (m *Metrics) AnomalyDetected(_ float64) {
	m.anomalyRestarts.Inc()
}
