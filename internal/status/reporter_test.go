package status

import (
	"strings"
	"testing"

	"github.com/nerrad567/fieldsense/internal/display"
	"github.com/nerrad567/fieldsense/internal/sensor"
	"github.com/nerrad567/fieldsense/internal/telemetry"
)

type stubRenderer struct {
	blocks [][]display.Line
}

func (r *stubRenderer) Render(lines []display.Line) {
	block := make([]display.Line, len(lines))
	copy(block, lines)
	r.blocks = append(r.blocks, block)
}

type stubProber struct {
	connected bool
}

func (p *stubProber) IsConnected() bool {
	return p.connected
}

func goodOutcome() telemetry.CycleOutcome {
	return telemetry.CycleOutcome{
		TimestampMs: 1700000000000,
		Readings: telemetry.Readings{
			Temperature: 22.5,
			Humidity:    41,
			PressureHPa: 1015,
			Power: sensor.PowerReading{
				VoltageMillivolts: 3850,
				CurrentMilliamps:  -120,
				LevelPercent:      76,
			},
		},
		Result:   telemetry.ResultOK,
		Failures: 0,
	}
}

func newTestReporter(t *testing.T, link *stubProber) (*Reporter, *stubRenderer) {
	t.Helper()
	renderer := &stubRenderer{}
	r, err := NewReporter(ReporterConfig{
		Renderer:   renderer,
		Link:       link,
		DeviceName: "handheld-01",
	})
	if err != nil {
		t.Fatalf("NewReporter() error = %v", err)
	}
	return r, renderer
}

func TestNewReporter_Validation(t *testing.T) {
	if _, err := NewReporter(ReporterConfig{Link: &stubProber{}}); err == nil {
		t.Error("NewReporter() expected error for nil renderer")
	}
	if _, err := NewReporter(ReporterConfig{Renderer: &stubRenderer{}}); err == nil {
		t.Error("NewReporter() expected error for nil link prober")
	}
}

func TestReport_HealthyCycle(t *testing.T) {
	r, renderer := newTestReporter(t, &stubProber{connected: true})

	r.Report(goodOutcome())

	if len(renderer.blocks) != 1 {
		t.Fatalf("rendered blocks = %d, want 1", len(renderer.blocks))
	}
	lines := renderer.blocks[0]
	if len(lines) != 6 {
		t.Fatalf("block lines = %d, want 6", len(lines))
	}

	if lines[0].Text != "Hello handheld-01" || lines[0].Color != display.ColorCyan {
		t.Errorf("greeting = %+v, want Hello handheld-01/cyan", lines[0])
	}
	if lines[1].Text != "Connected" || lines[1].Color != display.ColorGreen {
		t.Errorf("link line = %+v, want Connected/green", lines[1])
	}
	if lines[2].Text != "Upload complete" || lines[2].Color != display.ColorGreen {
		t.Errorf("upload line = %+v, want Upload complete/green", lines[2])
	}
	if lines[3].Text != "22.5 C  41.0 %RH" {
		t.Errorf("env line = %q, want %q", lines[3].Text, "22.5 C  41.0 %RH")
	}
	if lines[4].Text != "1015.0 hPa" {
		t.Errorf("pressure line = %q, want %q", lines[4].Text, "1015.0 hPa")
	}
	if lines[5].Text != "3850 mV  -120 mA  76 %" {
		t.Errorf("battery line = %q, want %q", lines[5].Text, "3850 mV  -120 mA  76 %")
	}
}

func TestReport_LinkDown(t *testing.T) {
	r, renderer := newTestReporter(t, &stubProber{connected: false})

	r.Report(goodOutcome())

	lines := renderer.blocks[0]
	if lines[1].Text != "Not connected!" || lines[1].Color != display.ColorRed {
		t.Errorf("link line = %+v, want Not connected!/red", lines[1])
	}
}

func TestReport_UploadFailureShowsCount(t *testing.T) {
	r, renderer := newTestReporter(t, &stubProber{connected: true})

	outcome := goodOutcome()
	outcome.Result = telemetry.ResultCode(500)

	// The counter value is displayed verbatim as it climbs.
	for _, failures := range []int{1, 2, 3} {
		outcome.Failures = failures
		r.Report(outcome)
	}

	wants := []string{"Upload failed: 1", "Upload failed: 2", "Upload failed: 3"}
	for i, want := range wants {
		got := renderer.blocks[i][2]
		if got.Text != want || got.Color != display.ColorRed {
			t.Errorf("block %d upload line = %+v, want %q/red", i, got, want)
		}
	}
}

func TestReport_DegradedReadingsTurnYellow(t *testing.T) {
	r, renderer := newTestReporter(t, &stubProber{connected: true})

	outcome := goodOutcome()
	outcome.Readings.EnvFailed = true
	outcome.Readings.PressureFailed = true
	outcome.Readings.Power.LevelPercent = 10

	r.Report(outcome)

	lines := renderer.blocks[0]
	if lines[3].Color != display.ColorYellow {
		t.Errorf("env line color = %v, want yellow", lines[3].Color)
	}
	if lines[4].Color != display.ColorYellow {
		t.Errorf("pressure line color = %v, want yellow", lines[4].Color)
	}
	if lines[5].Color != display.ColorYellow {
		t.Errorf("battery line color = %v, want yellow", lines[5].Color)
	}
	if !strings.Contains(lines[5].Text, "10 %") {
		t.Errorf("battery line = %q, want level 10 %%", lines[5].Text)
	}
}
