package core

import (
	"fmt"

	"pulmoaug-controller/internal/fsm"
)

func (s *ControllerSystem) handleControlRequest(command string) error {
	s.logger.Infof("Handling control request: %s", command)

	switch command {
	case "start":
		if s.getCurrentState().Running() {
			s.logger.Debugf("Sequence already running")
			return nil
		}
		return s.sendEvent(fsm.EvStart)
	case "stop":
		if !s.getCurrentState().Running() {
			s.logger.Debugf("Sequence already stopped")
			return nil
		}
		return s.sendEvent(fsm.EvStop)
	default:
		return fmt.Errorf("invalid control command: %s", command)
	}
}

// handlePumpRequest changes the commanded duty. While the sequence runs the
// new duty takes effect immediately, otherwise on the next start.
func (s *ControllerSystem) handlePumpRequest(duty uint32) error {
	if limit := s.cfg.Pump.MaxDuty(); duty > limit {
		return fmt.Errorf("pump duty %d exceeds %d", duty, limit)
	}

	s.logger.Infof("Handling pump request: duty=%d", duty)

	// The machine lock is held while entry actions run, so the running
	// check uses pumping rather than the machine state.
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.pumpDuty = duty
	if s.pumping {
		return s.applyPumpDuty(duty)
	}
	return nil
}

// handleValveRequest drives the valve by hand. The running sequence owns
// the valve, so this is refused unless the sequence is stopped.
func (s *ControllerSystem) handleValveRequest(open bool) error {
	state := s.getCurrentState()
	if state.Running() {
		return fmt.Errorf("valve is driven by the sequence in state %s", state)
	}

	s.logger.Infof("Handling valve request: open=%v", open)
	return s.setValve(open)
}
