package fsm

import (
	"time"

	"github.com/librescoot/librefsm"
)

// Timing holds the phase durations of the fixed sequence.
type Timing struct {
	ValveOpen   time.Duration
	ValveClosed time.Duration
}

// DefaultTiming toggles the valve every second.
var DefaultTiming = Timing{
	ValveOpen:   1 * time.Second,
	ValveClosed: 1 * time.Second,
}

// NewDefinition creates the controller FSM definition.
func NewDefinition(actions Actions, timing Timing) *librefsm.Definition {
	return librefsm.NewDefinition().
		State(StateInit).
		State(StateValveOpen,
			librefsm.WithTimeout(timing.ValveOpen, EvValveOpenTimeout),
			librefsm.WithOnEnter(actions.EnterValveOpen),
		).
		State(StateValveClosed,
			librefsm.WithTimeout(timing.ValveClosed, EvValveClosedTimeout),
			librefsm.WithOnEnter(actions.EnterValveClosed),
		).
		State(StateStopped,
			librefsm.WithOnEnter(actions.EnterStopped),
		).

		// === Transitions ===

		Transition(StateInit, EvStart, StateValveOpen,
			librefsm.WithGuard(actions.CanStart),
		).
		Transition(StateInit, EvStop, StateStopped).
		Transition(StateStopped, EvStart, StateValveOpen,
			librefsm.WithGuard(actions.CanStart),
		).

		// The fixed cycle: open, wait, close, wait, repeat
		Transition(StateValveOpen, EvValveOpenTimeout, StateValveClosed).
		Transition(StateValveClosed, EvValveClosedTimeout, StateValveOpen,
			librefsm.WithAction(actions.OnCycleComplete),
		).

		Transition(StateValveOpen, EvStop, StateStopped).
		Transition(StateValveClosed, EvStop, StateStopped).

		Initial(StateInit)
}
