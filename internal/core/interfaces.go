package core

import (
	"context"

	"github.com/librescoot/librefsm"

	"pulmoaug-controller/internal/messaging"
	"pulmoaug-controller/internal/types"
)

// MessagingClient defines the interface for Redis messaging operations needed by ControllerSystem
type MessagingClient interface {
	SetCallbacks(callbacks messaging.Callbacks)
	Connect() error
	StartListening() error
	StopListening()
	Close() error

	// State management
	GetControllerState() (types.ControllerState, error)
	PublishControllerState(state types.ControllerState) error

	// Telemetry
	PublishPressure(reading types.PressureReading) error
	SetValveState(open bool) error
	SetPumpDuty(duty uint32) error
}

// HardwareIO defines the interface for hardware I/O operations needed by ControllerSystem
type HardwareIO interface {
	Initialize() error
	Cleanup()

	ReadPressure() (types.PressureReading, error)
	WriteDigitalOutput(channel string, value bool) error
	SetPumpDuty(duty uint32) error
}

// Console is where the banner and readings are printed.
type Console interface {
	Println(line string) error
	PrintPressure(voltage float32) error
}

// stateMachine is the subset of the librefsm machine the controller drives.
type stateMachine interface {
	Start(ctx context.Context) error
	Stop() error
	SendSync(event librefsm.Event) error
	CurrentState() librefsm.StateID
}
