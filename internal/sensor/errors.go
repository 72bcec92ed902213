package sensor

import "errors"

// Sentinel errors for sensor reads.
//
// Check with errors.Is():
//
//	if errors.Is(err, sensor.ErrUnavailable) {
//	    // no such channel on this device
//	}
var (
	// ErrUnavailable indicates the requested channel does not exist on
	// this device (missing sysfs node, no fallback).
	ErrUnavailable = errors.New("sensor: channel unavailable")

	// ErrReadFailed indicates the channel exists but the read failed.
	ErrReadFailed = errors.New("sensor: read failed")
)
