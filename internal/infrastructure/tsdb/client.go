package tsdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nerrad567/fieldsense/internal/infrastructure/config"
	"github.com/nerrad567/fieldsense/internal/telemetry"
)

// Default timeouts for TSDB operations.
const (
	defaultConnectTimeout = 10 * time.Second
	defaultWriteTimeout   = 5 * time.Second
)

// Client ships telemetry batches to VictoriaMetrics using InfluxDB
// line protocol.
//
// Sends are synchronous: one HTTP POST to /write per collection cycle,
// with the whole batch newline-joined into a single body. There is no
// internal buffering; the collection loop owns the batch and clears it
// after every send.
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	url      string
	device   string
	username string
	password string

	httpClient *http.Client

	// connected tracks the outcome of the most recent exchange with
	// the backend. Any HTTP response counts as connected; only
	// transport-level failures mark the link down.
	connected bool
	mu        sync.RWMutex
}

var _ telemetry.Transport = (*Client)(nil)

// Connect establishes a connection to VictoriaMetrics.
//
// It performs the following:
//  1. Creates an HTTP client
//  2. Verifies connectivity via GET /health
//
// Parameters:
//   - ctx: Context for cancellation (used for health check)
//   - cfg: Remote write configuration from config.yaml
//   - device: Device name used as the "device" tag on every line
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: If the health check fails
func Connect(ctx context.Context, cfg config.RemoteWriteConfig, device string) (*Client, error) {
	c := &Client{
		url:      strings.TrimRight(cfg.URL, "/"),
		device:   device,
		username: cfg.VictoriaMetrics.Username,
		password: cfg.VictoriaMetrics.Password,
		httpClient: &http.Client{
			Timeout: defaultWriteTimeout,
		},
	}

	// Verify connectivity
	healthCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	if err := c.HealthCheck(healthCtx); err != nil {
		return nil, fmt.Errorf("%w: health check failed: %w", ErrConnectionFailed, err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	return c, nil
}

// Close shuts down the TSDB connection.
//
// There are no buffered writes to flush; the client only marks itself
// disconnected and releases idle connections.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.httpClient.CloseIdleConnections()

	return nil
}

// HealthCheck verifies the VictoriaMetrics connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/health", nil)
	if err != nil {
		return fmt.Errorf("tsdb health check: %w", err)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tsdb health check: %w", err)
	}
	defer resp.Body.Close()
	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tsdb health check: status %d", resp.StatusCode)
	}

	return nil
}

// IsConnected returns the current connection state.
//
// Note: This reflects the outcome of the last send or health check.
// For reliability, use HealthCheck which performs an active probe.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// setConnected records the link state observed by the last exchange.
func (c *Client) setConnected(up bool) {
	c.mu.Lock()
	c.connected = up
	c.mu.Unlock()
}

// setAuth attaches basic auth credentials when configured.
func (c *Client) setAuth(req *http.Request) {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}
