// Package observability exposes the agent's own health as Prometheus
// metrics.
//
// This is self-telemetry, separate from the sensor data the agent
// ships to the remote backend: cycle counts, upload failures, read
// failures, and loop timing, scraped over a local HTTP listener. The
// Metrics type plugs into the collection loop as its observer; Server
// serves the /metrics endpoint.
//
// The whole package is optional at runtime. When disabled in
// configuration nothing is registered and no listener starts.
package observability
