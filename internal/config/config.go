package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the controller configuration.
type Config struct {
	Redis    RedisConfig    `yaml:"redis"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Pump     PumpConfig     `yaml:"pump"`
	Valve    ValveConfig    `yaml:"valve"`
	Sequence SequenceConfig `yaml:"sequence"`
	Console  ConsoleConfig  `yaml:"console"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SensorConfig describes the IIO ADC channel the pressure sensor is wired to.
type SensorConfig struct {
	IIODir         string  `yaml:"iio_dir"`
	Device         string  `yaml:"device"`
	Channel        int     `yaml:"channel"`
	ResolutionBits int     `yaml:"resolution_bits"`
	VRef           float32 `yaml:"vref"`
}

// PumpConfig describes the sysfs PWM channel driving the pump.
type PumpConfig struct {
	PwmDir         string `yaml:"pwm_dir"`
	Chip           int    `yaml:"chip"`
	Channel        int    `yaml:"channel"`
	FrequencyHz    int    `yaml:"frequency_hz"`
	ResolutionBits int    `yaml:"resolution_bits"`
	Duty           uint32 `yaml:"duty"` // in resolution units, 128 of 8 bits is 50%
}

// ValveConfig describes the GPIO line driving the valve.
type ValveConfig struct {
	Chip string `yaml:"chip"`
	Line int    `yaml:"line"`
}

type SequenceConfig struct {
	OpenDuration   time.Duration `yaml:"open_duration"`
	ClosedDuration time.Duration `yaml:"closed_duration"`
	Autostart      bool          `yaml:"autostart"`
}

// ConsoleConfig selects where readings are printed. An empty port means stdout.
type ConsoleConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// Default returns the bring-up board configuration.
func Default() *Config {
	return &Config{
		Redis: RedisConfig{
			Host: "127.0.0.1",
			Port: 6379,
		},
		Sensor: SensorConfig{
			IIODir:         "/sys/bus/iio/devices",
			Device:         "iio:device0",
			Channel:        6, // ADC1_CH6
			ResolutionBits: 12,
			VRef:           3.3,
		},
		Pump: PumpConfig{
			PwmDir:         "/sys/class/pwm",
			Chip:           0,
			Channel:        0,
			FrequencyHz:    20000,
			ResolutionBits: 8,
			Duty:           128,
		},
		Valve: ValveConfig{
			Chip: "gpiochip0",
			Line: 18,
		},
		Sequence: SequenceConfig{
			OpenDuration:   time.Second,
			ClosedDuration: time.Second,
			Autostart:      true,
		},
		Console: ConsoleConfig{
			Port:     "",
			BaudRate: 115200,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Sensor.ResolutionBits <= 0 || c.Sensor.ResolutionBits > 16 {
		return fmt.Errorf("sensor.resolution_bits must be 1..16, got %d", c.Sensor.ResolutionBits)
	}
	if c.Sensor.VRef <= 0 {
		return fmt.Errorf("sensor.vref must be positive, got %v", c.Sensor.VRef)
	}
	if c.Pump.ResolutionBits <= 0 || c.Pump.ResolutionBits > 16 {
		return fmt.Errorf("pump.resolution_bits must be 1..16, got %d", c.Pump.ResolutionBits)
	}
	if c.Pump.FrequencyHz <= 0 {
		return fmt.Errorf("pump.frequency_hz must be positive, got %d", c.Pump.FrequencyHz)
	}
	if limit := c.Pump.MaxDuty(); c.Pump.Duty > limit {
		return fmt.Errorf("pump.duty %d exceeds %d for %d-bit resolution", c.Pump.Duty, limit, c.Pump.ResolutionBits)
	}
	if c.Sequence.OpenDuration <= 0 || c.Sequence.ClosedDuration <= 0 {
		return fmt.Errorf("sequence durations must be positive")
	}
	if c.Console.Port != "" && c.Console.BaudRate <= 0 {
		return fmt.Errorf("console.baud_rate must be positive, got %d", c.Console.BaudRate)
	}
	return nil
}

// MaxDuty is the full-scale duty for the configured resolution.
func (p PumpConfig) MaxDuty() uint32 {
	return uint32(1) << uint(p.ResolutionBits)
}
