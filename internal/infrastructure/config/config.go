package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for SentryGate Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site        SiteConfig        `yaml:"site"`
	Serial      SerialConfig      `yaml:"serial"`
	Device      DeviceConfig      `yaml:"device"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Database    DatabaseConfig    `yaml:"database"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	API         APIConfig         `yaml:"api"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// SerialConfig contains the link to the door controller board.
type SerialConfig struct {
	// Device is the serial device path (e.g. /dev/ttyUSB0), or a
	// host:port address when Transport is "tcp" (simulator).
	Device string `yaml:"device"`

	// Transport selects "tty" (real hardware via sio) or "tcp"
	// (cmd/sentrysim listener).
	Transport string `yaml:"transport"`

	// Baud is the TTY line rate. The deployed boards run at 9600.
	Baud int `yaml:"baud"`

	// Variant selects the wire protocol: "line" or "byte". Fixed per
	// deployment; there is no negotiation.
	Variant string `yaml:"variant"`
}

// DeviceConfig contains firmware scheduler settings, used by cmd/sentrysim.
type DeviceConfig struct {
	// TickPeriodMs is the cooperative scheduler period in milliseconds.
	TickPeriodMs int `yaml:"tick_period_ms"`

	// ListenAddr is the TCP address the simulator serves the serial
	// protocol on.
	ListenAddr string `yaml:"listen_addr"`

	// HasGate marks the gate-equipped hardware revision.
	HasGate bool `yaml:"has_gate"`
}

// RecognitionConfig contains face recognition service settings.
type RecognitionConfig struct {
	// ServiceURL is the HTTP recognition service endpoint. Empty selects
	// the static allowlist recognizer.
	ServiceURL string `yaml:"service_url"`

	// TimeoutSeconds bounds one recognition round trip. On expiry the
	// orchestrator fails closed.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// AllowlistPath is the YAML file of known identities for the static
	// recognizer.
	AllowlistPath string `yaml:"allowlist_path"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
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

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SENTRYGATE_SECTION_KEY
// For example: SENTRYGATE_DATABASE_PATH, SENTRYGATE_SERIAL_DEVICE
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:       "gate-001",
			Name:     "SentryGate",
			Timezone: "UTC",
		},
		Serial: SerialConfig{
			Device:    "/dev/ttyUSB0",
			Transport: "tty",
			Baud:      9600,
			Variant:   "line",
		},
		Device: DeviceConfig{
			TickPeriodMs: 50,
			ListenAddr:   "127.0.0.1:7070",
		},
		Recognition: RecognitionConfig{
			TimeoutSeconds: 10,
		},
		Database: DatabaseConfig{
			Path:        "./data/sentrygate.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "sentrygate-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SENTRYGATE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Serial
	if v := os.Getenv("SENTRYGATE_SERIAL_DEVICE"); v != "" {
		cfg.Serial.Device = v
	}
	if v := os.Getenv("SENTRYGATE_SERIAL_VARIANT"); v != "" {
		cfg.Serial.Variant = v
	}

	// Recognition
	if v := os.Getenv("SENTRYGATE_RECOGNITION_URL"); v != "" {
		cfg.Recognition.ServiceURL = v
	}

	// Database
	if v := os.Getenv("SENTRYGATE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("SENTRYGATE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SENTRYGATE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SENTRYGATE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("SENTRYGATE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("SENTRYGATE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// InfluxDB
	if v := os.Getenv("SENTRYGATE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	if c.Serial.Device == "" {
		errs = append(errs, "serial.device is required")
	}
	switch c.Serial.Transport {
	case "tty", "tcp":
	default:
		errs = append(errs, "serial.transport must be tty or tcp")
	}
	if c.Serial.Baud <= 0 {
		errs = append(errs, "serial.baud must be positive")
	}
	switch c.Serial.Variant {
	case "line", "byte":
	default:
		errs = append(errs, "serial.variant must be line or byte")
	}

	if c.Device.TickPeriodMs < 10 || c.Device.TickPeriodMs > 1000 {
		errs = append(errs, "device.tick_period_ms must be between 10 and 1000")
	}

	if c.Recognition.TimeoutSeconds <= 0 {
		errs = append(errs, "recognition.timeout_seconds must be positive")
	}
	if c.Recognition.ServiceURL == "" && c.Recognition.AllowlistPath == "" {
		errs = append(errs, "recognition requires service_url or allowlist_path")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetTickPeriod returns the firmware scheduler period as a Duration.
func (c *Config) GetTickPeriod() time.Duration {
	return time.Duration(c.Device.TickPeriodMs) * time.Millisecond
}

// GetRecognitionTimeout returns the recognition timeout as a Duration.
func (c *Config) GetRecognitionTimeout() time.Duration {
	return time.Duration(c.Recognition.TimeoutSeconds) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
