package messaging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"pulmoaug-controller/internal/logger"
	"pulmoaug-controller/internal/types"

	"github.com/redis/go-redis/v9"
)

// Redis keys and list command queues
const (
	HashController = "pulmoaug"
	HashPressure   = "pressure"

	ListControl = "pulmoaug:control"
	ListPump    = "pulmoaug:pump"
	ListValve   = "pulmoaug:valve"
)

type Callbacks struct {
	ControlCallback func(string) error // "start", "stop"
	PumpCallback    func(uint32) error // duty in PWM resolution units
	ValveCallback   func(bool) error   // true for "open", false for "close"
}

type RedisClient struct {
	client    *redis.Client
	callbacks Callbacks
	logger    *logger.Logger
	ctx       context.Context
	cancel    context.CancelFunc

	// listeners run on their own context so they can be stopped while the
	// client still publishes the final state
	listenCtx    context.Context
	listenCancel context.CancelFunc
	wg           sync.WaitGroup
}

func NewRedisClient(host string, port int, l *logger.Logger) *RedisClient {
	ctx, cancel := context.WithCancel(context.Background())
	listenCtx, listenCancel := context.WithCancel(ctx)
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", host, port),
			DB:   0,
		}),
		logger:       l.WithTag("redis"),
		ctx:          ctx,
		cancel:       cancel,
		listenCtx:    listenCtx,
		listenCancel: listenCancel,
	}
}

func (r *RedisClient) SetCallbacks(callbacks Callbacks) {
	r.callbacks = callbacks
}

func (r *RedisClient) Connect() error {
	r.logger.Infof("Attempting to connect to Redis at %s", r.client.Options().Addr)

	if err := r.client.Ping(r.ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection failed: %w", err)
	}
	r.logger.Infof("Successfully connected to Redis")
	return nil
}

// StartListening starts the list command listeners
func (r *RedisClient) StartListening() error {
	r.logger.Infof("Starting Redis listeners")

	r.wg.Add(3)
	go r.listCommandListener(ListControl, r.handleControlCommand)
	go r.listCommandListener(ListPump, r.handlePumpCommand)
	go r.listCommandListener(ListValve, r.handleValveCommand)

	return nil
}

func (r *RedisClient) listCommandListener(key string, handler func(string) error) {
	defer r.wg.Done()
	r.logger.Infof("Starting list command listener for %s", key)

	for {
		select {
		case <-r.listenCtx.Done():
			r.logger.Infof("Context cancelled, exiting %s listener", key)
			return
		default:
		}

		// BRPOP with a short timeout so cancellation is noticed
		result, err := r.client.BRPop(r.listenCtx, 5*time.Second, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || r.listenCtx.Err() != nil {
				r.logger.Infof("Context cancelled, exiting %s listener", key)
				return
			}
			r.logger.Warnf("Error reading from %s list: %v", key, err)
			time.Sleep(time.Second)
			continue
		}

		// BRPOP returns [key, value]
		if len(result) < 2 {
			continue
		}
		value := result[1]
		r.logger.Debugf("Received command from %s: %s", key, value)
		if err := handler(value); err != nil {
			r.logger.Warnf("Error handling %s command: %v", key, err)
		}
	}
}

func (r *RedisClient) handleControlCommand(value string) error {
	switch value {
	case "start", "stop":
	default:
		return fmt.Errorf("invalid control command: %s", value)
	}
	if r.callbacks.ControlCallback == nil {
		return nil
	}
	return r.callbacks.ControlCallback(value)
}

func (r *RedisClient) handlePumpCommand(value string) error {
	duty, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid pump duty %q: %w", value, err)
	}
	if r.callbacks.PumpCallback == nil {
		return nil
	}
	return r.callbacks.PumpCallback(uint32(duty))
}

func (r *RedisClient) handleValveCommand(value string) error {
	switch value {
	case "open", "close":
	default:
		return fmt.Errorf("invalid valve command: %s", value)
	}
	if r.callbacks.ValveCallback == nil {
		return nil
	}
	return r.callbacks.ValveCallback(value == "open")
}

func (r *RedisClient) publishHashSet(hash string, fields map[string]interface{}, payload string) error {
	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, hash, fields)
	pipe.Publish(r.ctx, hash, payload)
	_, err := pipe.Exec(r.ctx)
	return err
}

func (r *RedisClient) PublishControllerState(state types.ControllerState) error {
	r.logger.Infof("Publishing controller state: %s", state)
	err := r.publishHashSet(HashController, map[string]interface{}{
		"state":           string(state),
		"state:timestamp": time.Now().Unix(),
	}, "state")
	if err != nil {
		return fmt.Errorf("failed to publish state: %w", err)
	}
	return nil
}

func (r *RedisClient) GetControllerState() (types.ControllerState, error) {
	state, err := r.client.HGet(r.ctx, HashController, "state").Result()
	if errors.Is(err, redis.Nil) {
		return types.StateInit, nil
	}
	if err != nil {
		return types.StateInit, fmt.Errorf("failed to get state: %w", err)
	}
	return types.ControllerState(state), nil
}

func (r *RedisClient) PublishPressure(reading types.PressureReading) error {
	err := r.publishHashSet(HashPressure, map[string]interface{}{
		"raw":       reading.Raw,
		"voltage":   strconv.FormatFloat(float64(reading.Voltage), 'f', 3, 32),
		"timestamp": reading.Timestamp.UnixMilli(),
	}, "voltage")
	if err != nil {
		return fmt.Errorf("failed to publish pressure: %w", err)
	}
	return nil
}

func (r *RedisClient) SetValveState(open bool) error {
	state := "closed"
	if open {
		state = "open"
	}
	if err := r.publishHashSet(HashController, map[string]interface{}{"valve": state}, "valve"); err != nil {
		return fmt.Errorf("failed to set valve state: %w", err)
	}
	return nil
}

func (r *RedisClient) SetPumpDuty(duty uint32) error {
	if err := r.publishHashSet(HashController, map[string]interface{}{"pump:duty": duty}, "pump:duty"); err != nil {
		return fmt.Errorf("failed to set pump duty: %w", err)
	}
	return nil
}

// StopListening stops the command listeners and waits for a command that
// is being handled to finish. Publishing keeps working.
func (r *RedisClient) StopListening() {
	r.listenCancel()
	r.wg.Wait()
}

func (r *RedisClient) Close() error {
	r.StopListening()
	r.cancel()
	return r.client.Close()
}
