// FieldSense - Handheld Sensor Telemetry Agent
//
// This is the main entry point for the FieldSense agent. FieldSense is
// a push-only telemetry collector for battery-powered handheld field
// units:
//   - Fixed-cadence sampling of environment sensors and battery rails
//   - Batched remote write (VictoriaMetrics or InfluxDB)
//   - Operator status display (terminal and/or retained MQTT topic)
//   - Self-restart when the pressure sensor reads implausibly
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/fieldsense/internal/display"
	"github.com/nerrad567/fieldsense/internal/infrastructure/config"
	"github.com/nerrad567/fieldsense/internal/infrastructure/influxdb"
	"github.com/nerrad567/fieldsense/internal/infrastructure/logging"
	"github.com/nerrad567/fieldsense/internal/infrastructure/mqtt"
	"github.com/nerrad567/fieldsense/internal/infrastructure/tsdb"
	"github.com/nerrad567/fieldsense/internal/observability"
	"github.com/nerrad567/fieldsense/internal/restart"
	"github.com/nerrad567/fieldsense/internal/sensor"
	"github.com/nerrad567/fieldsense/internal/status"
	"github.com/nerrad567/fieldsense/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// transportClient joins the telemetry transport contract with the
// lifecycle methods both remote-write backends share.
type transportClient interface {
	telemetry.Transport
	HealthCheck(ctx context.Context) error
	Close() error
}

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	// This is the Go pattern for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting FieldSense agent",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Select the sensor backend
	source := buildSource(cfg, log)

	// Bring up the remote-write transport and (optionally) the MQTT
	// broker connection. A failure here is a startup fault: the agent
	// logs it and holds idle until terminated instead of retrying or
	// exiting into a supervisor restart loop.
	transport, mqttClient, err := connectInfrastructure(ctx, cfg, log)
	if err != nil {
		return haltOnStartupFault(ctx, log, err)
	}
	defer func() {
		log.Info("closing transport connection")
		if closeErr := transport.Close(); closeErr != nil {
			log.Error("error closing transport", "error", closeErr)
		}
	}()
	log.Info("remote write connected",
		"backend", cfg.RemoteWrite.Backend,
		"url", cfg.RemoteWrite.URL,
	)

	if mqttClient != nil {
		defer func() {
			log.Info("disconnecting from MQTT broker")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error disconnecting MQTT", "error", closeErr)
			}
		}()

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Status display, shown only when the device is in debug mode
	var sink telemetry.StatusSink
	if cfg.Device.ShowDebugInfo {
		reporter, reporterErr := buildStatusSink(cfg, transport, mqttClient, log)
		if reporterErr != nil {
			return reporterErr
		}
		if reporter != nil {
			sink = reporter
		}
	} else {
		log.Info("status display disabled")
	}

	// Self-metrics endpoint, never part of the upload path
	var observer telemetry.Observer
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		metrics := observability.NewMetrics(registry)
		observer = metrics

		srv, srvErr := observability.NewServer(cfg.Metrics.Listen, registry, log)
		if srvErr != nil {
			return fmt.Errorf("creating metrics server: %w", srvErr)
		}
		if startErr := srv.Start(ctx); startErr != nil {
			return fmt.Errorf("starting metrics server: %w", startErr)
		}
		defer func() {
			log.Info("stopping metrics server")
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("error stopping metrics server", "error", closeErr)
			}
		}()
		log.Info("metrics server started", "listen", cfg.Metrics.Listen)
	}

	// Assemble the collection loop
	batch := telemetry.NewBatch(cfg.Sampling.SeriesCapacity)
	coordinator := telemetry.NewCoordinator(telemetry.CoordinatorConfig{
		Source:    source,
		Transport: transport,
		Batch:     batch,
		Observer:  observer,
		Logger:    log,
	})
	sched, err := telemetry.NewScheduler(telemetry.SchedulerConfig{
		Coordinator: coordinator,
		Status:      sink,
		Restarter:   restart.NewSelfExec(log),
		Period:      cfg.SampleInterval(),
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	log.Info("initialisation complete, starting collection loop",
		"device", cfg.Device.Name,
		"interval_ms", cfg.Sampling.IntervalMs,
		"backend", cfg.RemoteWrite.Backend,
	)

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("collection loop: %w", err)
	}

	log.Info("FieldSense agent stopped")
	return nil
}

// buildSource selects the sample source. The host source reads Linux
// IIO and power-supply sysfs; the simulated source synthesises
// plausible readings for development and testing.
func buildSource(cfg *config.Config, log *logging.Logger) sensor.Source {
	if cfg.Sensors.Source == config.SourceHost {
		log.Info("using host sensors",
			"iio_device", cfg.Sensors.Host.IIODevice,
			"power_supply", cfg.Sensors.Host.PowerSupply,
		)
		return sensor.NewHost(sensor.HostConfig{
			IIODevice:   cfg.Sensors.Host.IIODevice,
			PowerSupply: cfg.Sensors.Host.PowerSupply,
		})
	}
	log.Info("using simulated sensors")
	return sensor.NewSimulated()
}

// connectInfrastructure dials the remote-write backend and, when
// enabled, the MQTT broker concurrently. On any failure whatever did
// connect is closed again and the first error is returned.
func connectInfrastructure(ctx context.Context, cfg *config.Config, log *logging.Logger) (transportClient, *mqtt.Client, error) {
	g, gctx := errgroup.WithContext(ctx)

	var transport transportClient
	g.Go(func() error {
		client, err := connectTransport(gctx, cfg)
		if err != nil {
			return err
		}
		transport = client
		return nil
	})

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		g.Go(func() error {
			client, err := mqtt.Connect(cfg.MQTT)
			if err != nil {
				return fmt.Errorf("connecting to MQTT broker: %w", err)
			}
			mqttClient = client
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if transport != nil {
			if closeErr := transport.Close(); closeErr != nil {
				log.Error("error closing transport after failed startup", "error", closeErr)
			}
		}
		if mqttClient != nil {
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT after failed startup", "error", closeErr)
			}
		}
		return nil, nil, err
	}

	return transport, mqttClient, nil
}

// connectTransport connects the backend named in the config. The
// concrete clients are returned through explicit branches so a nil
// *Client never becomes a non-nil interface.
func connectTransport(ctx context.Context, cfg *config.Config) (transportClient, error) {
	switch cfg.RemoteWrite.Backend {
	case config.BackendVictoriaMetrics:
		client, err := tsdb.Connect(ctx, cfg.RemoteWrite, cfg.Device.Name)
		if err != nil {
			return nil, fmt.Errorf("connecting to VictoriaMetrics: %w", err)
		}
		return client, nil
	case config.BackendInfluxDB:
		client, err := influxdb.Connect(ctx, cfg.RemoteWrite, cfg.Device.Name)
		if err != nil {
			return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown remote write backend %q", cfg.RemoteWrite.Backend)
	}
}

// buildStatusSink assembles the configured display renderers behind a
// status reporter. Returns nil when no renderer is available so the
// scheduler skips display work entirely.
func buildStatusSink(cfg *config.Config, link status.LinkProber, mqttClient *mqtt.Client, log *logging.Logger) (telemetry.StatusSink, error) {
	var renderers display.Multi
	if cfg.Display.Terminal {
		renderers = append(renderers, display.NewTerminal(os.Stdout))
	}
	if cfg.Display.MQTT {
		if mqttClient == nil {
			log.Warn("MQTT display configured but MQTT is disabled, skipping")
		} else {
			topic := mqtt.Topics{}.Status(cfg.MQTT.Broker.ClientID)
			renderers = append(renderers, display.NewMQTT(mqttClient, topic, log))
		}
	}
	if len(renderers) == 0 {
		log.Warn("debug display enabled but no renderer configured")
		return nil, nil
	}

	reporter, err := status.NewReporter(status.ReporterConfig{
		Renderer:   renderers,
		Link:       link,
		DeviceName: cfg.Device.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("creating status reporter: %w", err)
	}
	return reporter, nil
}

// haltOnStartupFault logs the fault and holds the process idle until
// an external signal ends it. A handheld unit that cannot reach its
// backend at power-on stays visibly stalled for the operator rather
// than flapping through supervisor restarts.
func haltOnStartupFault(ctx context.Context, log *logging.Logger, err error) error {
	log.Error("startup fault, halting until terminated", "error", err)
	<-ctx.Done()
	return err
}

// getConfigPath returns the configuration file path.
// Checks FIELDSENSE_CONFIG environment variable, falls back to default.
func getConfigPath() string {
	if path := os.Getenv("FIELDSENSE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
