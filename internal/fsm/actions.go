package fsm

import "github.com/librescoot/librefsm"

// Actions defines the interface for the pump/valve sequence actions.
// ControllerSystem implements it.
type Actions interface {
	// EnterValveOpen runs one cycle: sample the sensor, print and publish
	// the voltage, drive the pump and open the valve.
	EnterValveOpen(c *librefsm.Context) error
	EnterValveClosed(c *librefsm.Context) error
	EnterStopped(c *librefsm.Context) error

	// CanStart guards leaving init/stopped; false until hardware is up.
	CanStart(c *librefsm.Context) bool

	OnCycleComplete(c *librefsm.Context) error
}
