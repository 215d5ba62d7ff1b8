package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "m433ia", cfg.Input.Layout)
	assert.Equal(t, 750, cfg.Input.HoldDurationMs)
	assert.Equal(t, -1, cfg.Device.I2CBus)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
version = 1

[device]
event_path = "/dev/input/event7"
wait_sec = 5

[input]
layout = "ux433fa"
hold_duration_ms = 500

[backlight]
default_level = "full"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/dev/input/event7", cfg.Device.EventPath)
	assert.Equal(t, 5, cfg.Device.WaitSec)
	assert.Equal(t, "ux433fa", cfg.Input.Layout)
	assert.Equal(t, 500, cfg.Input.HoldDurationMs)
	assert.Equal(t, "full", cfg.Backlight.DefaultLevel)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.IPC.Enabled)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
version: 1
input:
  layout: ux433fa
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ux433fa", cfg.Input.Layout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{"version": 1, "input": {"hold_duration_ms": 900}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.Input.HoldDurationMs)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Input.Layout, cfg.Input.Layout)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NUMPADD_DEVICE", "/dev/input/event3")
	t.Setenv("NUMPADD_I2C_BUS", "4")
	t.Setenv("NUMPADD_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/event3", cfg.Device.EventPath)
	assert.Equal(t, 4, cfg.Device.I2CBus)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown layout", func(c *Config) { c.Input.Layout = "nosuch" }},
		{"zero hold duration", func(c *Config) { c.Input.HoldDurationMs = 0 }},
		{"bad level", func(c *Config) { c.Backlight.DefaultLevel = "dazzling" }},
		{"negative wait", func(c *Config) { c.Device.WaitSec = -1 }},
		{"bad i2c bus", func(c *Config) { c.Device.I2CBus = -2 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"ipc without socket", func(c *Config) { c.IPC.SocketPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsLayoutFileWithoutBuiltin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Layout = "nosuch"
	cfg.Input.LayoutFile = "/etc/numpadd/custom.yaml"
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Input.HoldDurationMs = 600
	require.NoError(t, SaveConfig(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 600, got.Input.HoldDurationMs)
}

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, cfg.Validate())

	_, created, err = LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)
}
