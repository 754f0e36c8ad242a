package hardware

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chewxy/math32"

	"pulmoaug-controller/internal/types"
)

// ReadAdcValue reads a raw sample from an IIO ADC channel below dir
// (normally /sys/bus/iio/devices).
func ReadAdcValue(dir, device string, channel int) (int, error) {
	path := filepath.Join(dir, device, fmt.Sprintf("in_voltage%d_raw", channel))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return -1, fmt.Errorf("ADC sysfs not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return -1, fmt.Errorf("failed reading %s: %w", path, err)
	}

	var value int
	if _, err := fmt.Sscanf(strings.TrimSpace(string(data)), "%d", &value); err != nil {
		return -1, fmt.Errorf("failed parsing ADC value: %w", err)
	}

	return value, nil
}

// RawToVoltage scales a raw sample to volts: raw * vref / (2^bits - 1).
// The result is clamped to [0, vref].
func RawToVoltage(raw int, resolutionBits int, vref float32) float32 {
	fullScale := float32(uint32(1)<<uint(resolutionBits) - 1)
	v := float32(raw) * (vref / fullScale)
	return math32.Max(0, math32.Min(v, vref))
}

func InRange(v, min, max int) bool {
	return v >= min && v <= max
}

// PressureSensor is an analog pressure sensor on an IIO ADC channel.
type PressureSensor struct {
	dir            string
	device         string
	channel        int
	resolutionBits int
	vref           float32
	now            func() time.Time
}

func NewPressureSensor(dir, device string, channel, resolutionBits int, vref float32) *PressureSensor {
	return &PressureSensor{
		dir:            dir,
		device:         device,
		channel:        channel,
		resolutionBits: resolutionBits,
		vref:           vref,
		now:            time.Now,
	}
}

func (s *PressureSensor) Read() (types.PressureReading, error) {
	raw, err := ReadAdcValue(s.dir, s.device, s.channel)
	if err != nil {
		return types.PressureReading{}, err
	}
	if !InRange(raw, 0, 1<<uint(s.resolutionBits)-1) {
		return types.PressureReading{}, fmt.Errorf("ADC sample %d outside %d-bit range", raw, s.resolutionBits)
	}
	return types.PressureReading{
		Raw:       raw,
		Voltage:   RawToVoltage(raw, s.resolutionBits, s.vref),
		Timestamp: s.now(),
	}, nil
}
