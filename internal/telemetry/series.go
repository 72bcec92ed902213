package telemetry

// Metric names for the six series every batch carries. The set is
// fixed for the process lifetime; there is no dynamic registration.
const (
	SeriesTemperature    = "temperature"     // °C
	SeriesHumidity       = "humidity"        // %RH
	SeriesPressure       = "pressure"        // hPa
	SeriesBatteryVoltage = "battery_voltage" // mV
	SeriesBatteryCurrent = "battery_current" // mA
	SeriesBatteryLevel   = "battery_level"   // %
)

// seriesNames is the registration order. Transports label samples in
// this order; it carries no other meaning.
var seriesNames = []string{
	SeriesTemperature,
	SeriesHumidity,
	SeriesPressure,
	SeriesBatteryVoltage,
	SeriesBatteryCurrent,
	SeriesBatteryLevel,
}

// SeriesNames returns the registered metric names in registration
// order. The returned slice is a copy.
func SeriesNames() []string {
	names := make([]string, len(seriesNames))
	copy(names, seriesNames)
	return names
}

// Sample is one timestamped metric value. Immutable once created.
type Sample struct {
	// TimestampMs is milliseconds since the Unix epoch.
	TimestampMs int64

	// Value is the metric value in the series' unit.
	Value float64
}

// Series is a named, append-only sequence of samples for one metric.
//
// A Series is created once, appended to every cycle, and emptied after
// every send attempt. Clearing preserves identity and capacity; only
// the sample content is discarded.
type Series struct {
	name    string
	samples []Sample
}

// Name returns the metric name.
func (s *Series) Name() string {
	return s.name
}

// Len returns the number of buffered samples.
func (s *Series) Len() int {
	return len(s.samples)
}

// Samples returns the buffered samples in insertion order.
//
// The returned slice is a view into the series' buffer: it is valid
// until the next Append or ClearAll. Transports must encode it within
// the cycle that handed it to them.
func (s *Series) Samples() []Sample {
	return s.samples
}

func (s *Series) append(tsMs int64, value float64) {
	s.samples = append(s.samples, Sample{TimestampMs: tsMs, Value: value})
}

func (s *Series) clear() {
	s.samples = s.samples[:0]
}

// Batch is the full collection of metric series assembled for one
// send. It exclusively owns its series: callers append through the
// Batch and never hold a Series across a clear.
//
// Not safe for concurrent use; the collection loop is single-threaded.
type Batch struct {
	ordered []*Series
	byName  map[string]*Series
}

// NewBatch assembles the batch with every registered series, empty.
//
// samplesPerSeries is a capacity hint: the expected maximum number of
// samples one series accumulates between clears. Values below 1 are
// raised to 1 (the steady state is one sample per series per cycle).
func NewBatch(samplesPerSeries int) *Batch {
	if samplesPerSeries < 1 {
		samplesPerSeries = 1
	}

	b := &Batch{
		ordered: make([]*Series, 0, len(seriesNames)),
		byName:  make(map[string]*Series, len(seriesNames)),
	}
	for _, name := range seriesNames {
		s := &Series{
			name:    name,
			samples: make([]Sample, 0, samplesPerSeries),
		}
		b.ordered = append(b.ordered, s)
		b.byName[name] = s
	}
	return b
}

// Append adds one sample to the named series.
//
// Returns ErrUnknownSeries if name is not one of the registered
// metric names.
func (b *Batch) Append(name string, tsMs int64, value float64) error {
	s, ok := b.byName[name]
	if !ok {
		return ErrUnknownSeries
	}
	s.append(tsMs, value)
	return nil
}

// ForEach calls fn for every series in registration order.
func (b *Batch) ForEach(fn func(*Series)) {
	for _, s := range b.ordered {
		fn(s)
	}
}

// ClearAll empties every series, preserving names and capacity.
//
// Clearing is unconditional after every send attempt: samples from a
// failed send are dropped, not replayed.
func (b *Batch) ClearAll() {
	for _, s := range b.ordered {
		s.clear()
	}
}

// SeriesCount returns the number of registered series.
func (b *Batch) SeriesCount() int {
	return len(b.ordered)
}

// TotalSamples returns the number of buffered samples across all
// series.
func (b *Batch) TotalSamples() int {
	total := 0
	for _, s := range b.ordered {
		total += len(s.samples)
	}
	return total
}
