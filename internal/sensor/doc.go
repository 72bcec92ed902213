// Package sensor provides the sample source capability for fieldsense.
//
// A Source abstracts the handheld's sensor bus: one environment sensor
// (temperature + humidity read together), one pressure sensor, and three
// battery rail readings. Environment and pressure reads are independent
// and each may fail; power rail reads are treated as always available.
//
// # Implementations
//
//   - Simulated: a deterministic synthetic device for development and
//     tests. No hardware required.
//   - Host: reads real hardware through the Linux IIO sysfs interface
//     and the power-supply class, with a gopsutil fallback for
//     temperature when no IIO thermal channel is present.
//
// # Units
//
// Temperature is degrees Celsius, humidity %RH, pressure pascals (the
// raw sensor unit; consumers convert to hPa), battery rails are
// millivolts, milliamps, and percent.
//
// # Error Handling
//
// ReadEnvironment and ReadPressure return an error for a failed bus
// read; the caller decides the recovery policy (the upload coordinator
// zero-fills the environment and reuses the previous pressure value).
// ReadPower has no failure path: unreadable rails read as zero.
package sensor
