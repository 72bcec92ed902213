package tsdb_test

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
	"github.com/nerrad567/fieldsense/internal/infrastructure/tsdb"
	"github.com/nerrad567/fieldsense/internal/telemetry"
)

const testTimestampMs = int64(1700000000000)

// recordedWrite captures one /write request for inspection.
type recordedWrite struct {
	body        string
	contentType string
	user        string
	pass        string
	hasAuth     bool
}

// backend is a fake VictoriaMetrics answering /health and /write.
type backend struct {
	mu          sync.Mutex
	writes      []recordedWrite
	writeStatus int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/health":
		w.WriteHeader(http.StatusOK)
	case "/write":
		body, _ := io.ReadAll(r.Body)
		user, pass, ok := r.BasicAuth()

		b.mu.Lock()
		b.writes = append(b.writes, recordedWrite{
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			user:        user,
			pass:        pass,
			hasAuth:     ok,
		})
		status := b.writeStatus
		b.mu.Unlock()

		if status == 0 {
			status = http.StatusNoContent
		}
		w.WriteHeader(status)
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
		t.Fatal("no /write requests recorded")
	}
	return b.writes[len(b.writes)-1]
}

func testConfig(url string) config.RemoteWriteConfig {
	return config.RemoteWriteConfig{
		Backend: config.BackendVictoriaMetrics,
		URL:     url,
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

	client, err := tsdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
}

func TestConnect_HealthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := tsdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if !errors.Is(err, tsdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	url := srv.URL
	srv.Close() // Nothing listening anymore

	_, err := tsdb.Connect(context.Background(), testConfig(url), "handheld-01")
	if !errors.Is(err, tsdb.ErrConnectionFailed) {
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

	client, err := tsdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	code := client.SendBatch(context.Background(), fullBatch(t))
	if !code.OK() {
		t.Fatalf("SendBatch() = %d, want %d", code, telemetry.ResultOK)
	}

	write := be.lastWrite(t)
	if write.contentType != "text/plain" {
		t.Errorf("Content-Type = %q, want %q", write.contentType, "text/plain")
	}

	want := []string{
		"temperature,device=handheld-01 value=22.5 1700000000000000000",
		"humidity,device=handheld-01 value=41 1700000000000000000",
		"pressure,device=handheld-01 value=101500 1700000000000000000",
		"battery_voltage,device=handheld-01 value=3850 1700000000000000000",
		"battery_current,device=handheld-01 value=-120 1700000000000000000",
		"battery_level,device=handheld-01 value=76 1700000000000000000",
	}
	got := strings.Split(write.body, "\n")
	if len(got) != len(want) {
		t.Fatalf("body has %d lines, want %d:\n%s", len(got), len(want), write.body)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSendBatch_BasicAuth(t *testing.T) {
	be := &backend{}
	srv := httptest.NewServer(be)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.VictoriaMetrics.Username = "agent"
	cfg.VictoriaMetrics.Password = "secret"

	client, err := tsdb.Connect(context.Background(), cfg, "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if code := client.SendBatch(context.Background(), fullBatch(t)); !code.OK() {
		t.Fatalf("SendBatch() = %d, want OK", code)
	}

	write := be.lastWrite(t)
	if !write.hasAuth {
		t.Fatal("no basic auth header on /write request")
	}
	if write.user != "agent" || write.pass != "secret" {
		t.Errorf("basic auth = %q/%q, want agent/secret", write.user, write.pass)
	}
}

func TestSendBatch_BackendRejection(t *testing.T) {
	be := &backend{writeStatus: http.StatusServiceUnavailable}
	srv := httptest.NewServer(be)
	defer srv.Close()

	client, err := tsdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
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

	client, err := tsdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
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

	client, err := tsdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
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

	client, err := tsdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheck_Cancelled(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	client, err := tsdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	// Create already cancelled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() should return error for cancelled context")
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestClose(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	client, err := tsdb.Connect(context.Background(), testConfig(srv.URL), "handheld-01")
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
	var client *tsdb.Client
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}
