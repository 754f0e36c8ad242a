package types

import "time"

type ControllerState string

const (
	StateInit        ControllerState = "init"
	StateValveOpen   ControllerState = "valve-open"
	StateValveClosed ControllerState = "valve-closed"
	StateStopped     ControllerState = "stopped"
)

// Running reports whether the fixed pump/valve sequence is cycling.
func (s ControllerState) Running() bool {
	return s == StateValveOpen || s == StateValveClosed
}

// PressureReading is one ADC sample of the pressure sensor.
type PressureReading struct {
	Raw       int
	Voltage   float32
	Timestamp time.Time
}
