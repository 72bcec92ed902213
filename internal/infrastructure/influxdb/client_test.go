package influxdb_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nerrad567/fieldsense/internal/infrastructure/config"
	"github.com/nerrad567/fieldsense/internal/infrastructure/influxdb"
	"github.com/nerrad567/fieldsense/internal/telemetry"
)

const testTimestampMs = int64(1700000000000)

// recordedWrite captures one /api/v2/write request for inspection.
type recordedWrite struct {
	body   string
	auth   string
	org    string
	bucket string
}

// backend is a fake InfluxDB v2 answering /ping and /api/v2/write.
type backend struct {
	mu          sync.Mutex
	writes      []recordedWrite
	writeStatus int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ping":
		w.WriteHeader(http.StatusNoContent)
	case "/api/v2/write":
		body, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		b.writes = append(b.writes, recordedWrite{
			body:   string(body),
			auth:   r.Header.Get("Authorization"),
			org:    r.URL.Query().Get("org"),
			bucket: r.URL.Query().Get("bucket"),
		})
		status := b.writeStatus
		b.mu.Unlock()

		if status == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"code":"unavailable","message":"write rejected"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *backend) writeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.writes)
}

func (b *backend) lastWrite(t *testing.T) recordedWrite {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.writes) == 0 {
		t.Fatal("no /api/v2/write requests recorded")
	}
	return b.writes[len(b.writes)-1]
}

func testConfig(url string) config.RemoteWriteConfig {
	return config.RemoteWriteConfig{
		Backend: config.BackendInfluxDB,
		URL:     url,
		InfluxDB: config.InfluxDBConfig{
			Token:  "test-token",
			Org:    "fieldsense",
			Bucket: "telemetry",
		},
	}
}

// fullBatch returns a batch with one sample in every series, matching
// what one collection cycle produces.
func fullBatch(t *testing.T) *telemetry.Batch {
	t.Helper()

	batch := telemetry.NewBatch(4)
	samples := []struct {
		series string
		value  float64
	}{
		{telemetry.SeriesTemperature, 22.5},
		{telemetry.SeriesHumidity, 41.0},
		{telemetry.SeriesPressure, 101500.0},
		{telemetry.SeriesBatteryVoltage, 3850.0},
		{telemetry.SeriesBatteryCurrent, -120.0},
		{telemetry.SeriesBatteryLevel, 76.0},
	}
	for _, s := range samples {
		if err := batch.Append(s.series, testTimestampMs, s.value); err != nil {
			t.Fatalf("Append(%s) error = %v", s.series, err)
		}
	}
	return batch
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	url := srv.URL
	srv.Close() // Nothing listening anymore

	_, err := influxdb.Connect(context.Background(), testConfig(url), "handheld-01")
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

// =============================================================================
// SendBatch Tests
// =============================================================================

func TestSendBatch(t *testing.T) {
	be := &backend{}
	srv := httptest.NewServer(be)
	defer srv.Close()

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	code := client.SendBatch(context.Background(), fullBatch(t))
	if !code.OK() {
		t.Fatalf("SendBatch() = %d, want %d", code, telemetry.ResultOK)
	}

	write := be.lastWrite(t)
	if write.auth != "Token test-token" {
		t.Errorf("Authorization = %q, want %q", write.auth, "Token test-token")
	}
	if write.org != "fieldsense" || write.bucket != "telemetry" {
		t.Errorf("org/bucket = %q/%q, want fieldsense/telemetry", write.org, write.bucket)
	}

	want := []string{
		"temperature,device=handheld-01 value=22.5 1700000000000000000",
		"humidity,device=handheld-01 value=41 1700000000000000000",
		"pressure,device=handheld-01 value=101500 1700000000000000000",
		"battery_voltage,device=handheld-01 value=3850 1700000000000000000",
		"battery_current,device=handheld-01 value=-120 1700000000000000000",
		"battery_level,device=handheld-01 value=76 1700000000000000000",
	}
	got := strings.Split(strings.TrimRight(write.body, "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("body has %d lines, want %d:\n%s", len(got), len(want), write.body)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSendBatch_BackendRejection(t *testing.T) {
	be := &backend{writeStatus: http.StatusServiceUnavailable}
	srv := httptest.NewServer(be)
	defer srv.Close()

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	code := client.SendBatch(context.Background(), fullBatch(t))
	if int(code) != http.StatusServiceUnavailable {
		t.Errorf("SendBatch() = %d, want %d", code, http.StatusServiceUnavailable)
	}

	// The backend answered, so the link still counts as connected.
	if !client.IsConnected() {
		t.Error("IsConnected() = false after rejected write, want true")
	}
}

func TestSendBatch_ConnectionError(t *testing.T) {
	be := &backend{}
	srv := httptest.NewServer(be)

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	srv.Close() // Backend goes away between cycles

	code := client.SendBatch(context.Background(), fullBatch(t))
	if code != telemetry.ResultSendFailed {
		t.Errorf("SendBatch() = %d, want %d", code, telemetry.ResultSendFailed)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after connection error, want false")
	}
}

func TestSendBatch_EmptyBatch(t *testing.T) {
	be := &backend{}
	srv := httptest.NewServer(be)
	defer srv.Close()

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	code := client.SendBatch(context.Background(), telemetry.NewBatch(4))
	if !code.OK() {
		t.Errorf("SendBatch() = %d, want OK", code)
	}
	if be.writeCount() != 0 {
		t.Errorf("writeCount = %d, want 0 for empty batch", be.writeCount())
	}
}

// =============================================================================
// Health Check Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheck_AfterClose(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	client.Close()

	err = client.HealthCheck(context.Background())
	if !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestClose(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
}

func TestClose_NilClient(t *testing.T) {
	var client *influxdb.Client
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}
