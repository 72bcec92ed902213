package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewServer_Validation(t *testing.T) {
	reg := prometheus.NewRegistry()

	if _, err := NewServer("", reg, nil); err == nil {
		t.Error("NewServer() expected error for empty address")
	}
	if _, err := NewServer("127.0.0.1:9091", nil, nil); err == nil {
		t.Error("NewServer() expected error for nil gatherer")
	}
	if _, err := NewServer("127.0.0.1:9091", reg, nil); err != nil {
		t.Errorf("NewServer() error = %v", err)
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	srv, err := NewServer("127.0.0.1:0", reg, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "fieldsense_cycles_total") {
		t.Error("scrape output missing fieldsense_cycles_total")
	}
}

func TestServer_HealthzEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, err := NewServer("127.0.0.1:0", reg, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestServer_StartAndClose(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	addr := "127.0.0.1:19590"
	srv, err := NewServer(addr, reg, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	// Wait for the listener to come up.
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("scrape status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "fieldsense_cycles_total") {
		t.Error("scrape output missing fieldsense_cycles_total")
	}

	if err := srv.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if _, err := http.Get("http://" + addr + "/metrics"); err == nil {
		t.Error("listener still responding after Close()")
	}
}

func TestServer_CloseWithoutStart(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, err := NewServer("127.0.0.1:0", reg, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	if err := srv.Close(); err != nil {
		t.Errorf("Close() without Start error = %v", err)
	}
}
