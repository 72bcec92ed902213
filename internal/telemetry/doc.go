// Package telemetry implements the fieldsense sample-batch-upload loop.
//
// The loop is deliberately simple: every cycle the Coordinator reads
// the sensors once, appends one sample per metric to an in-memory
// Batch, pushes the whole Batch to the remote-write Transport, clears
// the Batch whether or not the push succeeded, and updates a
// consecutive-failure counter. The Scheduler repeats this forever at a
// fixed cadence.
//
// # Recovery Model
//
// There are exactly three failure responses, one per fault class:
//
//   - Environment read failure: zero-fill temperature and humidity for
//     that cycle and carry on. Never surfaced as an error.
//   - Implausible pressure reading: request a full process restart.
//     The device's pressure sensor occasionally returns garbage; a
//     cold start is the designed recovery, not a crash.
//   - Send failure: drop the cycle's samples (the clear is
//     unconditional) and count consecutive failures. Tolerated
//     forever; there is no maximum-failure abort.
//
// # Concurrency
//
// The Batch, the Coordinator, and the failure counter are owned by the
// single goroutine running Scheduler.Run. Nothing here is safe for
// concurrent use and nothing needs to be.
package telemetry
