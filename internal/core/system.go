package core

import (
	"context"
	"fmt"
	"sync"

	"pulmoaug-controller/internal/config"
	"pulmoaug-controller/internal/fsm"
	"pulmoaug-controller/internal/hardware"
	"pulmoaug-controller/internal/logger"
	"pulmoaug-controller/internal/messaging"
	"pulmoaug-controller/internal/types"
)

type ControllerSystem struct {
	state       types.ControllerState
	cfg         *config.Config
	logger      *logger.Logger
	io          HardwareIO
	redis       MessagingClient
	console     Console
	machine     stateMachine
	fsmCtx      context.Context
	fsmCancel   context.CancelFunc
	mu          sync.RWMutex
	initialized bool
	cycles      uint64
	lastReading types.PressureReading

	// applyMu orders pump writes from the sequence and from commands
	applyMu  sync.Mutex
	pumpDuty uint32 // duty applied on every cycle
	pumping  bool
}

func NewControllerSystem(cfg *config.Config, io HardwareIO, redis MessagingClient, console Console, l *logger.Logger) *ControllerSystem {
	return &ControllerSystem{
		state:    types.StateInit,
		cfg:      cfg,
		logger:   l,
		io:       io,
		redis:    redis,
		console:  console,
		pumpDuty: cfg.Pump.Duty,
	}
}

func (s *ControllerSystem) Start() error {
	s.logger.Infof("Starting controller system")

	s.redis.SetCallbacks(messaging.Callbacks{
		ControlCallback: s.handleControlRequest,
		PumpCallback:    s.handlePumpRequest,
		ValveCallback:   s.handleValveRequest,
	})

	if err := s.redis.Connect(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	savedState, err := s.redis.GetControllerState()
	if err != nil {
		s.logger.Warnf("Failed to get saved state from Redis: %v", err)
		savedState = types.StateInit
	}

	if err := s.io.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize hardware: %w", err)
	}

	if err := s.console.Println(hardware.BannerLine); err != nil {
		s.logger.Warnf("Failed to print banner: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.initFSM(ctx); err != nil {
		cancel()
		return fmt.Errorf("failed to start state machine: %w", err)
	}
	s.fsmCtx, s.fsmCancel = ctx, cancel

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	if err := s.redis.StartListening(); err != nil {
		return fmt.Errorf("failed to start Redis listeners: %w", err)
	}

	switch {
	case savedState == types.StateStopped:
		// an operator stopped the sequence before the restart, keep it that way
		s.logger.Infof("Sequence was stopped before restart, staying stopped")
		if err := s.sendEvent(fsm.EvStop); err != nil {
			s.logger.Warnf("Failed to restore stopped state: %v", err)
		}
	case s.cfg.Sequence.Autostart:
		if err := s.sendEvent(fsm.EvStart); err != nil {
			return fmt.Errorf("failed to start sequence: %w", err)
		}
	default:
		s.logger.Infof("Autostart disabled, waiting for start command")
	}

	return nil
}

// Shutdown stops the sequence and releases hardware and Redis. Command
// listeners go first so nothing reaches the machine after it stops.
func (s *ControllerSystem) Shutdown() {
	s.logger.Infof("Shutting down controller system")

	s.redis.StopListening()

	if s.machine != nil {
		if s.getCurrentState().Running() {
			if err := s.sendEvent(fsm.EvStop); err != nil {
				s.logger.Warnf("Failed to stop sequence: %v", err)
			}
		}
		s.machine.Stop()
	}
	if s.fsmCancel != nil {
		s.fsmCancel()
	}

	s.io.Cleanup()

	if err := s.redis.Close(); err != nil {
		s.logger.Warnf("Failed to close Redis client: %v", err)
	}
}

// getCurrentState returns the current state (thread-safe) using FSM
func (s *ControllerSystem) getCurrentState() types.ControllerState {
	if s.machine != nil {
		return stateIDToControllerState(s.machine.CurrentState())
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *ControllerSystem) Cycles() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycles
}

func (s *ControllerSystem) LastReading() types.PressureReading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReading
}
