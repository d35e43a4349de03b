package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the DCS inspector core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Host     HostConfig     `yaml:"host"`
	Windows  WindowsConfig  `yaml:"windows"`
	API      APIConfig      `yaml:"api"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// HostConfig contains settings for the socket to the device-control host.
type HostConfig struct {
	// Address is the loopback address the host listens on. The port is
	// supplied by the host at launch time, not by configuration.
	Address string `yaml:"address"`

	// HandshakeTimeout bounds the websocket dial (seconds).
	HandshakeTimeout int `yaml:"handshake_timeout"`

	// WriteTimeout bounds each outbound frame write (seconds).
	WriteTimeout int `yaml:"write_timeout"`

	// PingInterval is the keepalive ping period (seconds). 0 disables pings.
	PingInterval int `yaml:"ping_interval"`

	// SendBuffer is the number of outbound frames queued before sends fail.
	SendBuffer int `yaml:"send_buffer"`

	// MaxMessageSize limits inbound frame size in bytes.
	MaxMessageSize int `yaml:"max_message_size"`

	// DefaultAction is the plugin action used on global-scope requests when
	// the host did not supply one.
	DefaultAction string `yaml:"default_action"`
}

// WindowsConfig contains auxiliary window settings.
type WindowsConfig struct {
	// PollInterval is the liveness poll period in milliseconds.
	PollInterval int `yaml:"poll_interval"`
}

// APIConfig contains the local HTTP control surface settings.
type APIConfig struct {
	Enabled   bool             `yaml:"enabled"`
	Host      string           `yaml:"host"`
	Port      int              `yaml:"port"`
	Timeouts  APITimeoutConfig `yaml:"timeouts"`
	WebSocket WebSocketConfig  `yaml:"websocket"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains event stream settings.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
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

// DefaultsConfig seeds the shared global-settings record before the host
// has replied to the first getGlobalSettings request.
type DefaultsConfig struct {
	IPAddress       string `yaml:"ip_address"`
	ListenerPort    string `yaml:"listener_port"`
	SendPort        string `yaml:"send_port"`
	InstallPath     string `yaml:"dcs_install_path"`
	SavedGamesPath  string `yaml:"dcs_savedgames_path"`
	LastModule      string `yaml:"last_selected_module"`
	LastSearchQuery string `yaml:"last_search_query"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: DCSINSPECTOR_SECTION_KEY
// For example: DCSINSPECTOR_API_PORT, DCSINSPECTOR_MQTT_HOST
//
// When optional is true a missing file is not an error and the defaults
// (plus environment overrides) are used.
func Load(path string, optional bool) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
		// Defaults only
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Host: HostConfig{
			Address:          "127.0.0.1",
			HandshakeTimeout: 10,
			WriteTimeout:     5,
			PingInterval:     30,
			SendBuffer:       64,
			MaxMessageSize:   1 << 20,
			DefaultAction:    "com.ctytler.dcs.exportscript",
		},
		Windows: WindowsConfig{
			PollInterval: 500,
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    28090,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
			WebSocket: WebSocketConfig{
				MaxMessageSize: 8192,
				PingInterval:   30,
				PongTimeout:    10,
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "dcsinspector",
			},
			QoS:         1,
			TopicPrefix: "dcsinspector",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			Bucket:        "dcs",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Defaults: DefaultsConfig{
			IPAddress:      "127.0.0.1",
			ListenerPort:   "1725",
			SendPort:       "26027",
			InstallPath:    `C:\Program Files\Eagle Dynamics\DCS World`,
			SavedGamesPath: `%USERPROFILE%\Saved Games\DCS`,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: DCSINSPECTOR_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Host
	if v := os.Getenv("DCSINSPECTOR_HOST_ADDRESS"); v != "" {
		cfg.Host.Address = v
	}

	// API
	if v := os.Getenv("DCSINSPECTOR_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("DCSINSPECTOR_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// MQTT
	if v := os.Getenv("DCSINSPECTOR_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("DCSINSPECTOR_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("DCSINSPECTOR_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("DCSINSPECTOR_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("DCSINSPECTOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Host.Address == "" {
		errs = append(errs, "host.address is required")
	}
	if c.Host.SendBuffer < 2 {
		errs = append(errs, "host.send_buffer must be at least 2 (register and getGlobalSettings are queued together)")
	}

	if c.Windows.PollInterval < 1 {
		errs = append(errs, "windows.poll_interval must be positive")
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.TopicPrefix == "" {
		errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetPollInterval returns the window liveness poll period as a Duration.
func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.Windows.PollInterval) * time.Millisecond
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
