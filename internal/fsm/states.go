package fsm

import "github.com/librescoot/librefsm"

// Controller states
const (
	StateInit        librefsm.StateID = "init"
	StateValveOpen   librefsm.StateID = "valve-open"
	StateValveClosed librefsm.StateID = "valve-closed"
	StateStopped     librefsm.StateID = "stopped"
)

// Controller events
const (
	// External commands (from Redis or startup)
	EvStart librefsm.EventID = "start"
	EvStop  librefsm.EventID = "stop"

	// Timer events
	EvValveOpenTimeout   librefsm.EventID = "valve-open-timeout"
	EvValveClosedTimeout librefsm.EventID = "valve-closed-timeout"
)
