package status

import (
	"fmt"

	"github.com/nerrad567/fieldsense/internal/display"
	"github.com/nerrad567/fieldsense/internal/telemetry"
)

// Display strings. Fixed so operators (and tests) can match on them.
const (
	linkUpText   = "Connected"
	linkDownText = "Not connected!"

	uploadOKText     = "Upload complete"
	uploadFailedText = "Upload failed: %d"
)

// lowBatteryPercent is where the battery line turns yellow.
const lowBatteryPercent = 15

// LinkProber reports whether the backend link currently looks usable.
// Satisfied by telemetry.Transport.
type LinkProber interface {
	IsConnected() bool
}

// Reporter renders one status block per collection cycle.
type Reporter struct {
	renderer   display.Renderer
	link       LinkProber
	deviceName string
}

// ReporterConfig carries the collaborators for NewReporter.
type ReporterConfig struct {
	Renderer   display.Renderer
	Link       LinkProber
	DeviceName string
}

// NewReporter creates a reporter. Renderer and Link are required.
func NewReporter(cfg ReporterConfig) (*Reporter, error) {
	if cfg.Renderer == nil {
		return nil, fmt.Errorf("status: renderer is required")
	}
	if cfg.Link == nil {
		return nil, fmt.Errorf("status: link prober is required")
	}
	return &Reporter{
		renderer:   cfg.Renderer,
		link:       cfg.Link,
		deviceName: cfg.DeviceName,
	}, nil
}

// Report renders the status block for one cycle outcome.
//
// The block layout is fixed:
//
//	Hello <device>
//	<link state>
//	<upload result>
//	<temperature and humidity>
//	<pressure>
//	<battery>
func (r *Reporter) Report(outcome telemetry.CycleOutcome) {
	lines := make([]display.Line, 0, 6)

	lines = append(lines, display.Line{
		Text:  "Hello " + r.deviceName,
		Color: display.ColorCyan,
	})

	if r.link.IsConnected() {
		lines = append(lines, display.Line{Text: linkUpText, Color: display.ColorGreen})
	} else {
		lines = append(lines, display.Line{Text: linkDownText, Color: display.ColorRed})
	}

	if outcome.Result.OK() {
		lines = append(lines, display.Line{Text: uploadOKText, Color: display.ColorGreen})
	} else {
		lines = append(lines, display.Line{
			Text:  fmt.Sprintf(uploadFailedText, outcome.Failures),
			Color: display.ColorRed,
		})
	}

	lines = append(lines, readingLines(outcome.Readings)...)

	r.renderer.Render(lines)
}

func readingLines(r telemetry.Readings) []display.Line {
	envColor := display.ColorDefault
	if r.EnvFailed {
		envColor = display.ColorYellow
	}
	pressureColor := display.ColorDefault
	if r.PressureFailed {
		pressureColor = display.ColorYellow
	}
	batteryColor := display.ColorDefault
	if r.Power.LevelPercent <= lowBatteryPercent {
		batteryColor = display.ColorYellow
	}

	return []display.Line{
		{
			Text:  fmt.Sprintf("%.1f C  %.1f %%RH", r.Temperature, r.Humidity),
			Color: envColor,
		},
		{
			Text:  fmt.Sprintf("%.1f hPa", r.PressureHPa),
			Color: pressureColor,
		},
		{
			Text: fmt.Sprintf("%d mV  %d mA  %d %%",
				r.Power.VoltageMillivolts, r.Power.CurrentMilliamps, r.Power.LevelPercent),
			Color: batteryColor,
		},
	}
}
