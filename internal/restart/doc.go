// Package restart replaces the running process with a fresh copy of
// itself.
//
// The collection loop demands a restart when a sensor reading is
// physically impossible, on the theory that the sensor bus is wedged
// and only re-initialisation from scratch clears it. On Unix the
// restart is a true re-exec: the process image is replaced in place,
// keeping the PID and any supervisor relationship. On Windows a
// replacement process is spawned and the current one exits.
//
// A successful Restart never returns.
package restart
