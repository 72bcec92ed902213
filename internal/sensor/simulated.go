package sensor

import (
	"context"
	"math"
	"time"
)

// Simulation baselines. Values drift sinusoidally around these so the
// output looks like a real room rather than a flat line.
const (
	simBaseTemperature = 21.5   // °C
	simBaseHumidity    = 45.0   // %RH
	simBasePressurePa  = 101325 // standard atmosphere

	simTemperatureSwing = 1.8   // °C peak deviation
	simHumiditySwing    = 6.0   // %RH peak deviation
	simPressureSwingPa  = 220.0 // Pa peak deviation

	// simPeriod is the length of one full drift cycle.
	simPeriod = 20 * time.Minute

	// Battery discharge model: full at start, empty after simBatteryLife.
	simBatteryFullMv  = 4150
	simBatteryEmptyMv = 3450
	simBatteryLife    = 8 * time.Hour
	simDrawMa         = -95 // steady discharge current
)

// Simulated is a synthetic sensor device.
//
// Readings are a pure function of elapsed time since construction, so
// repeated runs produce the same curve. Reads never fail. Use it to run
// the agent without hardware or to exercise the full pipeline in tests.
type Simulated struct {
	start time.Time
	now   func() time.Time
}

// NewSimulated creates a simulated device starting at full battery.
func NewSimulated() *Simulated {
	return &Simulated{
		start: time.Now(),
		now:   time.Now,
	}
}

// ReadEnvironment implements Source.
func (s *Simulated) ReadEnvironment(_ context.Context) (EnvironmentReading, error) {
	phase := s.phase()
	return EnvironmentReading{
		Temperature: simBaseTemperature + simTemperatureSwing*math.Sin(phase),
		Humidity:    simBaseHumidity + simHumiditySwing*math.Sin(phase+math.Pi/3),
	}, nil
}

// ReadPressure implements Source. The simulated value always stays
// inside the plausibility window, so it never trips the anomaly guard.
func (s *Simulated) ReadPressure(_ context.Context) (float64, error) {
	return simBasePressurePa + simPressureSwingPa*math.Sin(s.phase()+math.Pi/5), nil
}

// ReadPower implements Source. The battery discharges linearly from
// full to empty over the configured lifetime, then sticks at empty.
func (s *Simulated) ReadPower(_ context.Context) PowerReading {
	elapsed := s.now().Sub(s.start)
	fraction := float64(elapsed) / float64(simBatteryLife)
	if fraction > 1 {
		fraction = 1
	}

	voltage := simBatteryFullMv - int(fraction*float64(simBatteryFullMv-simBatteryEmptyMv))
	level := int(math.Round((1 - fraction) * 100))

	return PowerReading{
		VoltageMillivolts: voltage,
		CurrentMilliamps:  simDrawMa,
		LevelPercent:      level,
	}
}

// phase returns the current angle of the drift cycle in radians.
func (s *Simulated) phase() float64 {
	elapsed := s.now().Sub(s.start)
	return 2 * math.Pi * float64(elapsed) / float64(simPeriod)
}
