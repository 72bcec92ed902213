package sensor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

// Default sysfs location for the power-supply class.
const defaultPowerSupplyRoot = "/sys/class/power_supply"

// IIO channel files, relative to the device directory. The *_input
// files are already scaled per the IIO sysfs ABI: temperature in
// millidegrees Celsius, humidity in milli-%RH, pressure in kilopascal.
const (
	iioTemperatureFile = "in_temp_input"
	iioHumidityFile    = "in_humidityrelative_input"
	iioPressureFile    = "in_pressure_input"
)

// Unit conversions for sysfs values.
const (
	milliPerUnit   = 1000.0 // milli-°C to °C, milli-%RH to %RH
	pascalsPerKilo = 1000.0 // kPa to Pa
	microPerMilli  = 1000   // µV to mV, µA to mA
)

// HostConfig selects the hardware channels the Host source reads.
type HostConfig struct {
	// IIODevice is the sysfs directory of the IIO device carrying the
	// environment and pressure channels,
	// e.g. "/sys/bus/iio/devices/iio:device0".
	IIODevice string

	// PowerSupply is the battery name under /sys/class/power_supply,
	// e.g. "BAT0".
	PowerSupply string
}

// Host reads the device's real sensors through Linux sysfs.
//
// Environment and pressure channels come from the configured IIO
// device. When the IIO temperature channel is missing, the first
// platform temperature sensor reported by gopsutil is used instead;
// humidity has no fallback. Battery rails come from the power-supply
// class (voltage_now in µV, current_now in µA, capacity in percent).
type Host struct {
	iioDevice string
	powerRoot string
	power     string
}

// NewHost creates a host-backed source.
//
// The configuration is not validated eagerly: missing channels surface
// as read errors, which the collection loop tolerates per its recovery
// policy.
func NewHost(cfg HostConfig) *Host {
	return &Host{
		iioDevice: cfg.IIODevice,
		powerRoot: defaultPowerSupplyRoot,
		power:     cfg.PowerSupply,
	}
}

// ReadEnvironment implements Source.
//
// Both channels must succeed for the read to succeed; the caller's
// zero-fill policy treats the pair as one sensor.
func (h *Host) ReadEnvironment(ctx context.Context) (EnvironmentReading, error) {
	temperature, err := h.readTemperature(ctx)
	if err != nil {
		return EnvironmentReading{}, fmt.Errorf("temperature: %w", err)
	}

	humidity, err := h.readSysfsFloat(filepath.Join(h.iioDevice, iioHumidityFile))
	if err != nil {
		return EnvironmentReading{}, fmt.Errorf("humidity: %w", err)
	}

	return EnvironmentReading{
		Temperature: temperature,
		Humidity:    humidity / milliPerUnit,
	}, nil
}

// ReadPressure implements Source. The IIO ABI reports pressure in
// kilopascal; the returned value is pascals.
func (h *Host) ReadPressure(_ context.Context) (float64, error) {
	kpa, err := h.readSysfsFloat(filepath.Join(h.iioDevice, iioPressureFile))
	if err != nil {
		return 0, fmt.Errorf("pressure: %w", err)
	}
	return kpa * pascalsPerKilo, nil
}

// ReadPower implements Source. Rails that cannot be read report zero;
// the power path is modeled as always available.
func (h *Host) ReadPower(_ context.Context) PowerReading {
	dir := filepath.Join(h.powerRoot, h.power)

	var reading PowerReading
	if uv, err := h.readSysfsInt(filepath.Join(dir, "voltage_now")); err == nil {
		reading.VoltageMillivolts = uv / microPerMilli
	}
	if ua, err := h.readSysfsInt(filepath.Join(dir, "current_now")); err == nil {
		reading.CurrentMilliamps = ua / microPerMilli
	}
	if pct, err := h.readSysfsInt(filepath.Join(dir, "capacity")); err == nil {
		reading.LevelPercent = pct
	}
	return reading
}

// readTemperature reads the IIO temperature channel, falling back to
// the first gopsutil platform sensor when the channel is absent.
func (h *Host) readTemperature(ctx context.Context) (float64, error) {
	milli, err := h.readSysfsFloat(filepath.Join(h.iioDevice, iioTemperatureFile))
	if err == nil {
		return milli / milliPerUnit, nil
	}

	stats, gerr := sensors.TemperaturesWithContext(ctx)
	if gerr != nil || len(stats) == 0 {
		return 0, err // report the original sysfs failure
	}
	return stats[0].Temperature, nil
}

// readSysfsFloat reads a whitespace-trimmed float from a sysfs file.
func (h *Host) readSysfsFloat(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrUnavailable, path)
		}
		return 0, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	return value, nil
}

// readSysfsInt reads a whitespace-trimmed integer from a sysfs file.
func (h *Host) readSysfsInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrUnavailable, path)
		}
		return 0, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}

	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	return value, nil
}
