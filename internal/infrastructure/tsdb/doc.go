// Package tsdb provides the VictoriaMetrics transport for fieldsense.
//
// It ships telemetry batches using InfluxDB line protocol over HTTP.
// Uses only net/http; VictoriaMetrics needs no client library.
//
// # Purpose
//
// This package is one of two interchangeable telemetry.Transport
// implementations (the other is the influxdb package). It uploads the
// samples collected each cycle:
//   - Environmental readings (temperature, humidity, pressure)
//   - Power rail readings (voltage, current, charge level)
//
// # Usage
//
//	cfg := config.RemoteWriteConfig{
//	    Backend: "victoriametrics",
//	    URL:     "http://localhost:8428",
//	}
//
//	client, err := tsdb.Connect(ctx, cfg, "handheld-01")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	code := client.SendBatch(ctx, batch)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
//
// # Error Handling
//
// SendBatch never returns an error; delivery outcomes surface as a
// telemetry.ResultCode so the collection loop can count consecutive
// failures. Connection and health check errors are returned directly.
//
// # Performance
//
// One cycle's batch is a single HTTP POST with newline-delimited line
// protocol. VictoriaMetrics processes these with minimal overhead.
package tsdb
