// Package influxdb provides the InfluxDB v2 transport for fieldsense.
//
// It wraps the official influxdb-client-go v2 library with fieldsense
// patterns for connection management, batch writing, and health
// monitoring.
//
// # Purpose
//
// This package is one of two interchangeable telemetry.Transport
// implementations (the other is the tsdb package). It uploads the
// samples collected each cycle:
//   - Environmental readings (temperature, humidity, pressure)
//   - Power rail readings (voltage, current, charge level)
//
// # Usage
//
//	cfg := config.RemoteWriteConfig{
//	    Backend: "influxdb",
//	    URL:     "http://localhost:8086",
//	    InfluxDB: config.InfluxDBConfig{
//	        Token:  "your-token",
//	        Org:    "fieldsense",
//	        Bucket: "telemetry",
//	    },
//	}
//
//	client, err := influxdb.Connect(ctx, cfg, "handheld-01")
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
package influxdb
