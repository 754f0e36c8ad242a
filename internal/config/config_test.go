package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 6, cfg.Sensor.Channel)
	assert.Equal(t, 12, cfg.Sensor.ResolutionBits)
	assert.Equal(t, float32(3.3), cfg.Sensor.VRef)
	assert.Equal(t, 20000, cfg.Pump.FrequencyHz)
	assert.Equal(t, 8, cfg.Pump.ResolutionBits)
	assert.Equal(t, uint32(128), cfg.Pump.Duty)
	assert.Equal(t, 18, cfg.Valve.Line)
	assert.Equal(t, time.Second, cfg.Sequence.OpenDuration)
	assert.Equal(t, time.Second, cfg.Sequence.ClosedDuration)
	assert.Equal(t, 115200, cfg.Console.BaudRate)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulmoaug.yaml")
	yamlContent := `
redis:
  host: "redis.local"
pump:
  duty: 64
valve:
  chip: "gpiochip2"
  line: 7
sequence:
  open_duration: 250ms
  closed_duration: 2s
  autostart: false
console:
  port: "/dev/ttyS1"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis.local", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, uint32(64), cfg.Pump.Duty)
	assert.Equal(t, 20000, cfg.Pump.FrequencyHz)
	assert.Equal(t, "gpiochip2", cfg.Valve.Chip)
	assert.Equal(t, 7, cfg.Valve.Line)
	assert.Equal(t, 250*time.Millisecond, cfg.Sequence.OpenDuration)
	assert.Equal(t, 2*time.Second, cfg.Sequence.ClosedDuration)
	assert.False(t, cfg.Sequence.Autostart)
	assert.Equal(t, "/dev/ttyS1", cfg.Console.Port)
	assert.Equal(t, 115200, cfg.Console.BaudRate)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pump: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pump:\n  duty: 300\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pump.duty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero adc resolution", func(c *Config) { c.Sensor.ResolutionBits = 0 }},
		{"negative vref", func(c *Config) { c.Sensor.VRef = -1 }},
		{"pwm resolution too wide", func(c *Config) { c.Pump.ResolutionBits = 17 }},
		{"zero frequency", func(c *Config) { c.Pump.FrequencyHz = 0 }},
		{"zero open duration", func(c *Config) { c.Sequence.OpenDuration = 0 }},
		{"serial without baud", func(c *Config) { c.Console.Port = "/dev/ttyS0"; c.Console.BaudRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMaxDutyAllowsFullScale(t *testing.T) {
	cfg := Default()
	cfg.Pump.Duty = 256
	assert.NoError(t, cfg.Validate())
	cfg.Pump.Duty = 257
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := Default()
	cfg.Valve.Line = 3
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Valve.Line)
}
