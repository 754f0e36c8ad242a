package core

import (
	"context"
	"fmt"
	"time"

	"github.com/librescoot/librefsm"

	"pulmoaug-controller/internal/fsm"
	"pulmoaug-controller/internal/hardware"
	"pulmoaug-controller/internal/types"
)

// eventTimeout bounds how long a command waits for the machine. Send drops
// events when the queue is full, which would leave SendSync waiting.
const eventTimeout = 5 * time.Second

// Ensure ControllerSystem implements fsm.Actions
var _ fsm.Actions = (*ControllerSystem)(nil)

func stateIDToControllerState(id librefsm.StateID) types.ControllerState {
	switch id {
	case fsm.StateValveOpen:
		return types.StateValveOpen
	case fsm.StateValveClosed:
		return types.StateValveClosed
	case fsm.StateStopped:
		return types.StateStopped
	default:
		return types.StateInit
	}
}

// initFSM initializes and starts the librefsm machine
func (s *ControllerSystem) initFSM(ctx context.Context) error {
	def := fsm.NewDefinition(s, fsm.Timing{
		ValveOpen:   s.cfg.Sequence.OpenDuration,
		ValveClosed: s.cfg.Sequence.ClosedDuration,
	})
	machine, err := def.Build()
	if err != nil {
		return err
	}

	machine.OnStateChange(func(from, to librefsm.StateID) {
		newState := stateIDToControllerState(to)

		s.mu.Lock()
		s.state = newState
		s.mu.Unlock()

		s.logger.Debugf("State transition: %s -> %s", from, to)

		if err := s.redis.PublishControllerState(newState); err != nil {
			s.logger.Errorf("Failed to publish state: %v", err)
		}
	})

	if err := machine.Start(ctx); err != nil {
		return err
	}
	s.machine = machine

	s.logger.Infof("librefsm state machine started")
	return nil
}

// sendEvent sends an event to the FSM and waits until it is processed, the
// machine stops, or eventTimeout passes.
func (s *ControllerSystem) sendEvent(event librefsm.EventID) error {
	if s.machine == nil || s.fsmCtx == nil {
		return fmt.Errorf("state machine not started")
	}
	if err := s.fsmCtx.Err(); err != nil {
		return fmt.Errorf("state machine stopped, dropping %s: %w", event, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.machine.SendSync(librefsm.Event{ID: event})
	}()

	select {
	case err := <-done:
		return err
	case <-s.fsmCtx.Done():
		return fmt.Errorf("state machine stopped while handling %s: %w", event, s.fsmCtx.Err())
	case <-time.After(eventTimeout):
		return fmt.Errorf("timed out waiting for %s", event)
	}
}

// === State Entry Actions ===

func (s *ControllerSystem) EnterValveOpen(c *librefsm.Context) error {
	// A failed sample is reported but never stalls the sequence.
	reading, err := s.io.ReadPressure()
	if err != nil {
		s.logger.Warnf("Failed to read pressure sensor: %v", err)
	} else {
		s.mu.Lock()
		s.lastReading = reading
		s.mu.Unlock()

		if err := s.console.PrintPressure(reading.Voltage); err != nil {
			s.logger.Warnf("Failed to print pressure: %v", err)
		}
		if err := s.redis.PublishPressure(reading); err != nil {
			s.logger.Warnf("Failed to publish pressure: %v", err)
		}
	}

	if err := s.startPump(); err != nil {
		return err
	}
	return s.setValve(true)
}

func (s *ControllerSystem) EnterValveClosed(c *librefsm.Context) error {
	return s.setValve(false)
}

// EnterStopped leaves the valve closed and the pump off. The commanded duty
// is kept for the next start.
func (s *ControllerSystem) EnterStopped(c *librefsm.Context) error {
	if err := s.setValve(false); err != nil {
		return err
	}
	return s.stopPump()
}

func (s *ControllerSystem) CanStart(c *librefsm.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *ControllerSystem) OnCycleComplete(c *librefsm.Context) error {
	s.mu.Lock()
	s.cycles++
	n := s.cycles
	s.mu.Unlock()

	s.logger.Debugf("Completed cycle %d", n)
	return nil
}

func (s *ControllerSystem) setValve(open bool) error {
	if err := s.io.WriteDigitalOutput(hardware.ValveChannel, open); err != nil {
		s.logger.Errorf("Failed to drive valve: %v", err)
		return err
	}
	if err := s.redis.SetValveState(open); err != nil {
		s.logger.Warnf("Failed to publish valve state: %v", err)
	}
	return nil
}

// startPump applies the commanded duty. Holding applyMu across the read
// and the write keeps a concurrent pump command from being overwritten.
func (s *ControllerSystem) startPump() error {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if err := s.applyPumpDuty(s.pumpDuty); err != nil {
		return err
	}
	s.pumping = true
	return nil
}

func (s *ControllerSystem) stopPump() error {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.pumping = false
	return s.applyPumpDuty(0)
}

func (s *ControllerSystem) applyPumpDuty(duty uint32) error {
	if err := s.io.SetPumpDuty(duty); err != nil {
		s.logger.Errorf("Failed to set pump duty: %v", err)
		return err
	}
	if err := s.redis.SetPumpDuty(duty); err != nil {
		s.logger.Warnf("Failed to publish pump duty: %v", err)
	}
	return nil
}
