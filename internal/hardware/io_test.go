package hardware

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulmoaug-controller/internal/config"
	"pulmoaug-controller/internal/logger"
)

func newTestIO(t *testing.T) (*LinuxHardwareIO, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Sensor.IIODir = t.TempDir()
	cfg.Pump.PwmDir = fakePwmChip(t)
	return NewLinuxHardwareIO(cfg, logger.NewLogger(nil, logger.LogLevelNone)), cfg
}

func TestLinuxHardwareIO_ReadPressure(t *testing.T) {
	io, cfg := newTestIO(t)
	writeAdc(t, cfg.Sensor.IIODir, cfg.Sensor.Device, cfg.Sensor.Channel, "4095")

	r, err := io.ReadPressure()
	require.NoError(t, err)
	assert.Equal(t, 4095, r.Raw)
	assert.InDelta(t, 3.3, r.Voltage, 1e-6)
}

func TestLinuxHardwareIO_ReadPressureMissingSensor(t *testing.T) {
	io, _ := newTestIO(t)
	_, err := io.ReadPressure()
	assert.Error(t, err)
}

func TestLinuxHardwareIO_UnknownOutput(t *testing.T) {
	io, _ := newTestIO(t)
	assert.Error(t, io.WriteDigitalOutput("horn", true))
	// valve line is only available after Initialize
	assert.Error(t, io.WriteDigitalOutput(ValveChannel, true))
}

func TestLinuxHardwareIO_PumpDuty(t *testing.T) {
	io, cfg := newTestIO(t)
	require.NoError(t, io.pump.Init(cfg.Pump.FrequencyHz))

	require.NoError(t, io.SetPumpDuty(cfg.Pump.Duty))
	assert.Equal(t, "25000", readAttr(t, cfg.Pump.PwmDir, "duty_cycle"))

	io.Cleanup()
	assert.Equal(t, "0", readAttr(t, cfg.Pump.PwmDir, "enable"))
}

func TestLinuxHardwareIO_InitializeFailureReleasesPump(t *testing.T) {
	io, cfg := newTestIO(t)
	cfg.Valve.Chip = filepath.Join(t.TempDir(), "gpiochip-missing")
	io.doMappings[ValveChannel] = DoMapping{Chip: cfg.Valve.Chip, Line: cfg.Valve.Line}

	require.Error(t, io.Initialize())

	assert.Equal(t, "0", readAttr(t, cfg.Pump.PwmDir, "enable"))
	unexport, err := os.ReadFile(filepath.Join(cfg.Pump.PwmDir, "pwmchip0", "unexport"))
	require.NoError(t, err)
	assert.Equal(t, "0", strings.TrimSpace(string(unexport)))
	assert.Empty(t, io.chips)
	assert.Empty(t, io.lines)
}
