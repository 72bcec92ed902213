package sensor

import "context"

// EnvironmentReading is one combined read of the environment sensor.
type EnvironmentReading struct {
	// Temperature in degrees Celsius.
	Temperature float64

	// Humidity in percent relative humidity.
	Humidity float64
}

// PowerReading is one read of the battery rails.
//
// Power reads have no failure path: the fuel gauge is on the same board
// as the controller and is treated as always available.
type PowerReading struct {
	// VoltageMillivolts is the battery voltage in mV.
	VoltageMillivolts int

	// CurrentMilliamps is the battery current in mA.
	// Negative values indicate discharge.
	CurrentMilliamps int

	// LevelPercent is the remaining charge, 0-100.
	LevelPercent int
}

// Source abstracts reads from the handheld's sensor bus.
//
// Environment and pressure reads are independent: either may fail
// without affecting the other. Implementations must be safe to call
// repeatedly from a single goroutine; they are not required to be safe
// for concurrent use (the collection loop is single-threaded).
type Source interface {
	// ReadEnvironment reads temperature and humidity in one bus
	// transaction. Returns an error if the read fails.
	ReadEnvironment(ctx context.Context) (EnvironmentReading, error)

	// ReadPressure reads barometric pressure in pascals.
	// Returns an error if the read fails.
	ReadPressure(ctx context.Context) (float64, error)

	// ReadPower reads the battery rails. Never fails; unreadable
	// rails read as zero.
	ReadPower(ctx context.Context) PowerReading
}
