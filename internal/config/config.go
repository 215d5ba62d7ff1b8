// Package config handles configuration loading, validation, and
// management for numpadd.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"numpadd/internal/backlight"
	"numpadd/internal/layout"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete daemon configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Device configuration for touchpad discovery.
	Device DeviceConfig `toml:"device" json:"device" yaml:"device"`

	// Input configuration for the tap state machine.
	Input InputConfig `toml:"input" json:"input" yaml:"input"`

	// Backlight configuration for the keypad illumination.
	Backlight BacklightConfig `toml:"backlight" json:"backlight" yaml:"backlight"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// IPC configuration for the control socket.
	IPC IPCConfig `toml:"ipc" json:"ipc" yaml:"ipc"`
}

// DeviceConfig holds touchpad discovery configuration.
type DeviceConfig struct {
	// EventPath pins the touchpad to a specific /dev/input node,
	// skipping autodetection. Empty means detect.
	EventPath string `toml:"event_path" json:"event_path" yaml:"event_path"`

	// I2CBus overrides the backlight controller's i2c adapter number.
	// -1 means take it from the detected device's sysfs path.
	I2CBus int `toml:"i2c_bus" json:"i2c_bus" yaml:"i2c_bus"`

	// WaitSec is how long to wait for the touchpad to appear at
	// startup. The i2c-hid driver can come up after the service on
	// boot. 0 waits forever.
	WaitSec int `toml:"wait_sec" json:"wait_sec" yaml:"wait_sec"`
}

// InputConfig holds tap handling configuration.
type InputConfig struct {
	// Layout names a built-in keypad model.
	Layout string `toml:"layout" json:"layout" yaml:"layout"`

	// LayoutFile loads a custom keypad model from a YAML file,
	// taking precedence over Layout.
	LayoutFile string `toml:"layout_file" json:"layout_file" yaml:"layout_file"`

	// HoldDurationMs is how long a stationary press in the toggle
	// corner must last before the keypad flips on or off.
	HoldDurationMs int `toml:"hold_duration_ms" json:"hold_duration_ms" yaml:"hold_duration_ms"`
}

// BacklightConfig holds illumination configuration.
type BacklightConfig struct {
	// DefaultLevel is the brightness applied when the keypad turns
	// on: "low", "half", or "full".
	DefaultLevel string `toml:"default_level" json:"default_level" yaml:"default_level"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is "stdout", "stderr", "file", or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file when Output includes "file".
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// IPCConfig holds control socket configuration.
type IPCConfig struct {
	// Enabled turns the control socket on.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// SocketPath is the unix socket the daemon listens on.
	SocketPath string `toml:"socket_path" json:"socket_path" yaml:"socket_path"`

	// TimeoutSec is the per-request read/write deadline.
	TimeoutSec int `toml:"timeout_sec" json:"timeout_sec" yaml:"timeout_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Device: DeviceConfig{
			I2CBus:  -1,
			WaitSec: 30,
		},
		Input: InputConfig{
			Layout:         "m433ia",
			HoldDurationMs: 750,
		},
		Backlight: BacklightConfig{
			DefaultLevel: "low",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		IPC: IPCConfig{
			Enabled:    true,
			SocketPath: defaultSocketPath(),
			TimeoutSec: 10,
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "numpadd", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "numpadd", "config.toml")
}

func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "numpadd.sock")
	}
	return "/run/numpadd.sock"
}

// Load reads configuration from the specified path. If the file
// doesn't exist, returns the defaults. Supports TOML, JSON, and YAML
// based on the file extension.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode config (unknown format): %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides. Variables
// are prefixed with NUMPADD_.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NUMPADD_DEVICE"); v != "" {
		c.Device.EventPath = v
	}
	if v := os.Getenv("NUMPADD_I2C_BUS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Device.I2CBus = n
		}
	}
	if v := os.Getenv("NUMPADD_LAYOUT"); v != "" {
		c.Input.Layout = v
	}
	if v := os.Getenv("NUMPADD_LAYOUT_FILE"); v != "" {
		c.Input.LayoutFile = v
	}
	if v := os.Getenv("NUMPADD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("NUMPADD_SOCKET_PATH"); v != "" {
		c.IPC.SocketPath = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Input.LayoutFile == "" {
		if _, ok := layout.Lookup(c.Input.Layout); !ok {
			return fmt.Errorf("unknown layout %q (have: %v)", c.Input.Layout, layout.Names())
		}
	}
	if c.Input.HoldDurationMs <= 0 {
		return fmt.Errorf("hold_duration_ms must be positive, got %d", c.Input.HoldDurationMs)
	}
	if _, err := backlight.ParseLevel(c.Backlight.DefaultLevel); err != nil {
		return fmt.Errorf("backlight: %w", err)
	}
	if c.Device.WaitSec < 0 {
		return fmt.Errorf("wait_sec must not be negative, got %d", c.Device.WaitSec)
	}
	if c.Device.I2CBus < -1 {
		return fmt.Errorf("i2c_bus must be -1 (autodetect) or an adapter number, got %d", c.Device.I2CBus)
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := parseLogFormat(c.Logging.Format); err != nil {
		return err
	}
	if c.IPC.Enabled && c.IPC.SocketPath == "" {
		return fmt.Errorf("ipc enabled but socket_path is empty")
	}
	if c.IPC.TimeoutSec <= 0 {
		return fmt.Errorf("ipc timeout_sec must be positive, got %d", c.IPC.TimeoutSec)
	}
	return nil
}

func parseLogLevel(s string) (string, error) {
	switch s {
	case "debug", "info", "warn", "warning", "error":
		return s, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

func parseLogFormat(s string) (string, error) {
	switch s {
	case "text", "json", "":
		return s, nil
	}
	return "", fmt.Errorf("unknown log format %q", s)
}

// SaveConfig writes the configuration as TOML.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// LoadOrCreate loads the configuration at path, writing the defaults
// there first if no file exists. Returns whether it created the file.
func LoadOrCreate(path string) (*Config, bool, error) {
	if path == "" {
		path = ConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, path); err != nil {
			return nil, false, fmt.Errorf("create default config: %w", err)
		}
		cfg.ApplyEnvOverrides()
		return cfg, true, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}
