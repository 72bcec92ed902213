package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// scrapes when closing the listener.
const gracefulShutdownTimeout = 5 * time.Second

// Logger defines the logging interface for the metrics server.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Server exposes the metrics registry over HTTP for scraping.
type Server struct {
	addr     string
	gatherer prometheus.Gatherer
	logger   Logger

	server *http.Server
}

// NewServer creates a metrics server listening on addr (host:port).
func NewServer(addr string, gatherer prometheus.Gatherer, logger Logger) (*Server, error) {
	if addr == "" {
		return nil, fmt.Errorf("observability: listen address is required")
	}
	if gatherer == nil {
		return nil, fmt.Errorf("observability: gatherer is required")
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Server{
		addr:     addr,
		gatherer: gatherer,
		logger:   logger,
	}, nil
}

// handler builds the scrape mux. Split out so tests can hit it
// without a listener.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Start begins serving scrapes in a background goroutine.
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info("metrics listener starting", "address", s.addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics listener error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the listener.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("metrics listener shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down metrics listener: %w", err)
	}
	return nil
}
