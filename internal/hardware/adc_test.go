package hardware

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAdc(t *testing.T, dir, device string, channel int, value string) {
	t.Helper()
	devDir := filepath.Join(dir, device)
	require.NoError(t, os.MkdirAll(devDir, 0755))
	name := filepath.Join(devDir, "in_voltage"+strconv.Itoa(channel)+"_raw")
	require.NoError(t, os.WriteFile(name, []byte(value), 0644))
}

func TestReadAdcValue(t *testing.T) {
	dir := t.TempDir()
	writeAdc(t, dir, "iio:device0", 6, "2048\n")

	v, err := ReadAdcValue(dir, "iio:device0", 6)
	require.NoError(t, err)
	assert.Equal(t, 2048, v)
}

func TestReadAdcValue_Missing(t *testing.T) {
	v, err := ReadAdcValue(t.TempDir(), "iio:device0", 6)
	assert.Error(t, err)
	assert.Equal(t, -1, v)
}

func TestReadAdcValue_Garbage(t *testing.T) {
	dir := t.TempDir()
	writeAdc(t, dir, "iio:device0", 6, "n/a")

	_, err := ReadAdcValue(dir, "iio:device0", 6)
	assert.Error(t, err)
}

func TestRawToVoltage(t *testing.T) {
	assert.Equal(t, float32(0), RawToVoltage(0, 12, 3.3))
	assert.InDelta(t, 3.3, RawToVoltage(4095, 12, 3.3), 1e-6)
	assert.InDelta(t, 2048*(3.3/4095.0), RawToVoltage(2048, 12, 3.3), 1e-5)
	// out of range samples never exceed the reference
	assert.InDelta(t, 3.3, RawToVoltage(5000, 12, 3.3), 1e-6)
	assert.Equal(t, float32(0), RawToVoltage(-3, 12, 3.3))
}

func TestPressureSensorRead(t *testing.T) {
	dir := t.TempDir()
	writeAdc(t, dir, "iio:device0", 6, "1241")

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewPressureSensor(dir, "iio:device0", 6, 12, 3.3)
	s.now = func() time.Time { return fixed }

	r, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, 1241, r.Raw)
	assert.InDelta(t, 1.0, r.Voltage, 0.001)
	assert.Equal(t, fixed, r.Timestamp)
}

func TestPressureSensorRead_OutOfRange(t *testing.T) {
	dir := t.TempDir()
	writeAdc(t, dir, "iio:device0", 6, "4096")

	_, err := NewPressureSensor(dir, "iio:device0", 6, 12, 3.3).Read()
	assert.Error(t, err)
}
