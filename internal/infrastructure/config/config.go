package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the fieldsense agent.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device      DeviceConfig      `yaml:"device"`
	Sampling    SamplingConfig    `yaml:"sampling"`
	Sensors     SensorsConfig     `yaml:"sensors"`
	RemoteWrite RemoteWriteConfig `yaml:"remote_write"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Display     DisplayConfig     `yaml:"display"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DeviceConfig identifies this device.
type DeviceConfig struct {
	// Name appears in the display greeting and in MQTT topics.
	Name string `yaml:"name"`

	// ShowDebugInfo enables the local status display. When false the
	// agent collects silently.
	ShowDebugInfo bool `yaml:"show_debug_info"`
}

// SamplingConfig controls the collection cadence.
type SamplingConfig struct {
	// IntervalMs is the pause between collection cycles in
	// milliseconds, measured from the end of one cycle to the start
	// of the next.
	IntervalMs int `yaml:"interval_ms"`

	// SeriesCapacity is the per-series sample capacity hint for the
	// batch buffers. The steady state is one sample per cycle.
	SeriesCapacity int `yaml:"series_capacity"`
}

// SensorsConfig selects and configures the sample source.
type SensorsConfig struct {
	// Source is "simulated" or "host".
	Source string `yaml:"source"`

	Host HostSensorConfig `yaml:"host"`
}

// HostSensorConfig locates the host's sensor interfaces.
type HostSensorConfig struct {
	// IIODevice is the sysfs directory of the environmental sensor.
	IIODevice string `yaml:"iio_device"`

	// PowerSupply is the power supply class entry to read battery
	// rails from (a directory name under /sys/class/power_supply).
	PowerSupply string `yaml:"power_supply"`
}

// RemoteWriteConfig configures the metrics upload target.
type RemoteWriteConfig struct {
	// Backend is "victoriametrics" or "influxdb".
	Backend string `yaml:"backend"`

	// URL is the backend base URL.
	URL string `yaml:"url"`

	VictoriaMetrics VictoriaMetricsConfig `yaml:"victoriametrics"`
	InfluxDB        InfluxDBConfig        `yaml:"influxdb"`
}

// VictoriaMetricsConfig contains credentials for the line-protocol backend.
type VictoriaMetricsConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains InfluxDB v2 connection settings.
type InfluxDBConfig struct {
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	// Enabled turns the broker connection on. Availability and the
	// mirrored status display both need it.
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// DisplayConfig selects where status blocks are rendered.
type DisplayConfig struct {
	// Terminal renders status blocks to stdout.
	Terminal bool `yaml:"terminal"`

	// MQTT mirrors status blocks to a retained broker topic.
	// Requires mqtt.enabled.
	MQTT bool `yaml:"mqtt"`
}

// MetricsConfig controls the agent's own Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Source and backend names accepted by Validate.
const (
	SourceSimulated = "simulated"
	SourceHost      = "host"

	BackendVictoriaMetrics = "victoriametrics"
	BackendInfluxDB        = "influxdb"
)

// minIntervalMs guards against a busy loop from a typo'd interval.
const minIntervalMs = 100

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: FIELDSENSE_SECTION_KEY
// For example: FIELDSENSE_DEVICE_NAME, FIELDSENSE_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Name:          "fieldsense",
			ShowDebugInfo: true,
		},
		Sampling: SamplingConfig{
			IntervalMs:     5000,
			SeriesCapacity: 4,
		},
		Sensors: SensorsConfig{
			Source: SourceSimulated,
			Host: HostSensorConfig{
				IIODevice:   "/sys/bus/iio/devices/iio:device0",
				PowerSupply: "BAT0",
			},
		},
		RemoteWrite: RemoteWriteConfig{
			Backend: BackendVictoriaMetrics,
			URL:     "http://localhost:8428",
			InfluxDB: InfluxDBConfig{
				Org:    "fieldsense",
				Bucket: "telemetry",
			},
		},
		MQTT: MQTTConfig{
			Enabled: false,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "fieldsense",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Display: DisplayConfig{
			Terminal: true,
			MQTT:     false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: FIELDSENSE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Device
	if v := os.Getenv("FIELDSENSE_DEVICE_NAME"); v != "" {
		cfg.Device.Name = v
	}

	// Remote write
	if v := os.Getenv("FIELDSENSE_REMOTE_WRITE_URL"); v != "" {
		cfg.RemoteWrite.URL = v
	}
	if v := os.Getenv("FIELDSENSE_REMOTE_WRITE_USERNAME"); v != "" {
		cfg.RemoteWrite.VictoriaMetrics.Username = v
	}
	if v := os.Getenv("FIELDSENSE_REMOTE_WRITE_PASSWORD"); v != "" {
		cfg.RemoteWrite.VictoriaMetrics.Password = v
	}
	if v := os.Getenv("FIELDSENSE_INFLUXDB_TOKEN"); v != "" {
		cfg.RemoteWrite.InfluxDB.Token = v
	}

	// MQTT
	if v := os.Getenv("FIELDSENSE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("FIELDSENSE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("FIELDSENSE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Metrics
	if v := os.Getenv("FIELDSENSE_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Device validation
	if c.Device.Name == "" {
		errs = append(errs, "device.name is required")
	}

	// Sampling validation
	if c.Sampling.IntervalMs < minIntervalMs {
		errs = append(errs, fmt.Sprintf("sampling.interval_ms must be at least %d", minIntervalMs))
	}
	if c.Sampling.SeriesCapacity < 1 {
		errs = append(errs, "sampling.series_capacity must be at least 1")
	}

	// Sensor validation
	switch c.Sensors.Source {
	case SourceSimulated:
	case SourceHost:
		if c.Sensors.Host.IIODevice == "" {
			errs = append(errs, "sensors.host.iio_device is required for the host source")
		}
		if c.Sensors.Host.PowerSupply == "" {
			errs = append(errs, "sensors.host.power_supply is required for the host source")
		}
	default:
		errs = append(errs, fmt.Sprintf("sensors.source must be %q or %q", SourceSimulated, SourceHost))
	}

	// Remote write validation
	if c.RemoteWrite.URL == "" {
		errs = append(errs, "remote_write.url is required")
	}
	switch c.RemoteWrite.Backend {
	case BackendVictoriaMetrics:
	case BackendInfluxDB:
		if c.RemoteWrite.InfluxDB.Org == "" {
			errs = append(errs, "remote_write.influxdb.org is required for the influxdb backend")
		}
		if c.RemoteWrite.InfluxDB.Bucket == "" {
			errs = append(errs, "remote_write.influxdb.bucket is required for the influxdb backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("remote_write.backend must be %q or %q",
			BackendVictoriaMetrics, BackendInfluxDB))
	}

	// MQTT validation
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.Broker.ClientID == "" {
			errs = append(errs, "mqtt.broker.client_id is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	// Display validation
	if c.Display.MQTT && !c.MQTT.Enabled {
		errs = append(errs, "display.mqtt requires mqtt.enabled")
	}

	// Metrics validation
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errs = append(errs, "metrics.listen is required when metrics are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SampleInterval returns the collection cadence as a Duration.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.Sampling.IntervalMs) * time.Millisecond
}
