package hardware

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"pulmoaug-controller/internal/config"
	"pulmoaug-controller/internal/logger"
	"pulmoaug-controller/internal/types"
)

// DoMapping locates a digital output on a GPIO character device.
type DoMapping struct {
	Chip string
	Line int
}

type LinuxHardwareIO struct {
	logger     *logger.Logger
	cfg        *config.Config
	doMappings map[string]DoMapping
	chips      map[string]*gpiocdev.Chip
	lines      map[string]*gpiocdev.Line
	pump       *SysfsPwm
	sensor     *PressureSensor
	mu         sync.RWMutex
}

func NewLinuxHardwareIO(cfg *config.Config, l *logger.Logger) *LinuxHardwareIO {
	p, sc := cfg.Pump, cfg.Sensor
	return &LinuxHardwareIO{
		logger: l.WithTag("hardware"),
		cfg:    cfg,
		doMappings: map[string]DoMapping{
			ValveChannel: {Chip: cfg.Valve.Chip, Line: cfg.Valve.Line},
		},
		chips:  make(map[string]*gpiocdev.Chip),
		lines:  make(map[string]*gpiocdev.Line),
		pump:   NewSysfsPwm(p.PwmDir, p.Chip, p.Channel, p.ResolutionBits),
		sensor: NewPressureSensor(sc.IIODir, sc.Device, sc.Channel, sc.ResolutionBits, sc.VRef),
	}
}

func (io *LinuxHardwareIO) Initialize() error {
	io.logger.Infof("Initializing hardware IO")

	if err := io.pump.Init(io.cfg.Pump.FrequencyHz); err != nil {
		return fmt.Errorf("failed to initialize pump PWM: %w", err)
	}
	io.logger.Infof("Configured pump PWM: chip=%d, channel=%d, %d Hz, %d-bit",
		io.cfg.Pump.Chip, io.cfg.Pump.Channel, io.cfg.Pump.FrequencyHz, io.cfg.Pump.ResolutionBits)

	io.mu.Lock()
	defer io.mu.Unlock()

	for name, mapping := range io.doMappings {
		chip, ok := io.chips[mapping.Chip]
		if !ok {
			var err error
			chip, err = gpiocdev.NewChip(mapping.Chip)
			if err != nil {
				io.cleanupLocked()
				return fmt.Errorf("failed to open GPIO chip %s: %w", mapping.Chip, err)
			}
			io.chips[mapping.Chip] = chip
		}

		// outputs always come up low: valve closed
		line, err := chip.RequestLine(mapping.Line,
			gpiocdev.AsOutput(0),
			gpiocdev.WithConsumer(ConsumerName))
		if err != nil {
			io.cleanupLocked()
			return fmt.Errorf("failed to request GPIO line %d: %w", mapping.Line, err)
		}

		io.lines[name] = line
		io.logger.Infof("Configured DO %s: chip=%s, line=%d", name, mapping.Chip, mapping.Line)
	}

	if _, err := io.sensor.Read(); err != nil {
		io.logger.Warnf("Pressure sensor not readable yet: %v", err)
	}

	return nil
}

// ReadPressure samples the pressure sensor once.
func (io *LinuxHardwareIO) ReadPressure() (types.PressureReading, error) {
	reading, err := io.sensor.Read()
	if err != nil {
		return reading, err
	}
	io.logger.Debugf("Pressure raw=%d voltage=%.3f", reading.Raw, reading.Voltage)
	return reading, nil
}

func (io *LinuxHardwareIO) WriteDigitalOutput(channel string, value bool) error {
	io.mu.Lock()
	defer io.mu.Unlock()

	line, ok := io.lines[channel]
	if !ok {
		return fmt.Errorf("unknown digital output channel: %s", channel)
	}

	val := 0
	if value {
		val = 1
	}

	if err := line.SetValue(val); err != nil {
		return fmt.Errorf("failed to set DO %s=%v: %w", channel, value, err)
	}

	io.logger.Debugf("Set DO %s=%v", channel, value)
	return nil
}

func (io *LinuxHardwareIO) SetPumpDuty(duty uint32) error {
	if err := io.pump.SetDuty(duty); err != nil {
		return fmt.Errorf("failed to set pump duty %d: %w", duty, err)
	}
	io.logger.Debugf("Set pump duty=%d", duty)
	return nil
}

// Cleanup leaves the valve closed and the pump off before releasing lines.
func (io *LinuxHardwareIO) Cleanup() {
	io.mu.Lock()
	defer io.mu.Unlock()
	io.cleanupLocked()
}

func (io *LinuxHardwareIO) cleanupLocked() {
	io.logger.Infof("Cleaning up hardware resources")

	for name, line := range io.lines {
		if err := line.SetValue(0); err != nil {
			io.logger.Warnf("Failed to drive %s low: %v", name, err)
		}
		line.Close()
		delete(io.lines, name)
		io.logger.Infof("Closed GPIO line for %s", name)
	}

	for name, chip := range io.chips {
		chip.Close()
		delete(io.chips, name)
		io.logger.Infof("Closed GPIO chip %s", name)
	}

	if err := io.pump.Cleanup(); err != nil {
		io.logger.Warnf("Failed to release pump PWM: %v", err)
	}

	io.logger.Infof("Hardware cleanup complete")
}
