package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
host:
  address: "127.0.0.1"
  send_buffer: 16
windows:
  poll_interval: 250
api:
  enabled: true
  port: 9000
mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 1883
  qos: 1
  topic_prefix: "sim"
defaults:
  listener_port: "1800"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host.SendBuffer != 16 {
		t.Errorf("Host.SendBuffer = %d, want 16", cfg.Host.SendBuffer)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.MQTT.TopicPrefix != "sim" {
		t.Errorf("MQTT.TopicPrefix = %q, want %q", cfg.MQTT.TopicPrefix, "sim")
	}
	if cfg.Defaults.ListenerPort != "1800" {
		t.Errorf("Defaults.ListenerPort = %q, want %q", cfg.Defaults.ListenerPort, "1800")
	}
	// Untouched defaults survive a partial file
	if cfg.Defaults.SendPort != "26027" {
		t.Errorf("Defaults.SendPort = %q, want %q", cfg.Defaults.SendPort, "26027")
	}
	if got := cfg.GetPollInterval(); got != 250*time.Millisecond {
		t.Errorf("GetPollInterval() = %v, want 250ms", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml", false)
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_MissingOptionalFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml", true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Windows.PollInterval != 500 {
		t.Errorf("Windows.PollInterval = %d, want 500", cfg.Windows.PollInterval)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath, true)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
windows:
  poll_interval: 0
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath, false)
	if err == nil {
		t.Error("Load() expected validation error for zero poll interval, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing host address",
			mutate:  func(c *Config) { c.Host.Address = "" },
			wantErr: true,
		},
		{
			name:    "zero send buffer",
			mutate:  func(c *Config) { c.Host.SendBuffer = 0 },
			wantErr: true,
		},
		{
			name:    "send buffer smaller than handshake",
			mutate:  func(c *Config) { c.Host.SendBuffer = 1 },
			wantErr: true,
		},
		{
			name:    "send buffer fits handshake",
			mutate:  func(c *Config) { c.Host.SendBuffer = 2 },
			wantErr: false,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "invalid API port",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: true,
		},
		{
			name: "API port ignored when disabled",
			mutate: func(c *Config) {
				c.API.Enabled = false
				c.API.Port = 0
			},
			wantErr: false,
		},
		{
			name: "MQTT enabled without prefix",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.TopicPrefix = ""
			},
			wantErr: true,
		},
		{
			name:    "InfluxDB enabled without URL",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("DCSINSPECTOR_HOST_ADDRESS", "localhost")
	t.Setenv("DCSINSPECTOR_API_HOST", "0.0.0.0")
	t.Setenv("DCSINSPECTOR_API_PORT", "9100")
	t.Setenv("DCSINSPECTOR_MQTT_HOST", "mqtt.example.com")
	t.Setenv("DCSINSPECTOR_MQTT_USERNAME", "testuser")
	t.Setenv("DCSINSPECTOR_MQTT_PASSWORD", "testpass")
	t.Setenv("DCSINSPECTOR_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("DCSINSPECTOR_LOG_LEVEL", "debug")

	applyEnvOverrides(cfg)

	if cfg.Host.Address != "localhost" {
		t.Errorf("Host.Address = %q, want %q", cfg.Host.Address, "localhost")
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 9100 {
		t.Errorf("API.Port = %d, want 9100", cfg.API.Port)
	}
	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}
	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestApplyEnvOverrides_BadPortIgnored(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv("DCSINSPECTOR_API_PORT", "not-a-port")

	applyEnvOverrides(cfg)

	if cfg.API.Port != 28090 {
		t.Errorf("API.Port = %d, want default 28090", cfg.API.Port)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Windows.PollInterval != 500 {
		t.Errorf("Windows.PollInterval = %d, want 500", cfg.Windows.PollInterval)
	}
	if cfg.Defaults.IPAddress != "127.0.0.1" {
		t.Errorf("Defaults.IPAddress = %q, want 127.0.0.1", cfg.Defaults.IPAddress)
	}
	if cfg.Defaults.ListenerPort != "1725" {
		t.Errorf("Defaults.ListenerPort = %q, want 1725", cfg.Defaults.ListenerPort)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
}
