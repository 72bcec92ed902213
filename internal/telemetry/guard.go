package telemetry

// Plausibility window for barometric pressure, in hectopascals.
// Readings outside the window indicate a wedged sensor bus rather
// than weather: Earth-surface pressure never leaves this range.
const (
	minPlausibleHPa = 950
	maxPlausibleHPa = 1200

	pascalsPerHectopascal = 100
)

// Verdict is the outcome of a plausibility check.
type Verdict int

const (
	// VerdictOK means the reading is plausible and the cycle proceeds.
	VerdictOK Verdict = iota

	// VerdictRestartRequired means the reading is physically
	// impossible and the process must restart to recover the sensor
	// bus.
	VerdictRestartRequired
)

// String returns a human-readable verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictRestartRequired:
		return "restart required"
	default:
		return "unknown"
	}
}

// CheckPressure inspects a freshly read pressure value in pascals and
// decides whether the process may continue.
//
// The check applies only to fresh reads: a value carried over from a
// previous cycle was already checked when it was read.
//
// Boundary values (950 hPa and 1200 hPa exactly) are plausible.
func CheckPressure(pa float64) Verdict {
	hPa := pa / pascalsPerHectopascal
	if hPa < minPlausibleHPa || hPa > maxPlausibleHPa {
		return VerdictRestartRequired
	}
	return VerdictOK
}
