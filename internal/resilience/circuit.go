// Package resilience provides circuit breaker and retry patterns for LLM
// providers and page extraction backends.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed lets every call through.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls until the reset timeout passes.
	CircuitOpen
	// CircuitHalfOpen lets one probe call through at a time.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when a call is rejected because the circuit is open.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// CircuitBreakerConfig controls circuit breaker behavior.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the circuit. Default: 5.
	FailureThreshold int

	// ResetTimeout is how long the circuit stays open before a probe is
	// allowed. Default: 30s.
	ResetTimeout time.Duration

	// ShouldTrip overrides which errors count as failures. If nil, every
	// error except context cancellation counts. Errors returned after the
	// caller's context is done never count.
	ShouldTrip func(err error) bool

	// OnStateChange is called on every transition, with the lock held.
	OnStateChange func(from, to CircuitState)
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
	}
}

// CircuitBreaker guards calls to a single upstream service.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
	probing  bool

	now func() time.Time
}

// NewCircuitBreaker creates a circuit breaker with the given config.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = def.ResetTimeout
	}
	if cfg.ShouldTrip == nil {
		cfg.ShouldTrip = tripsByDefault
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// ExecuteVal runs fn through cb. It returns ErrCircuitOpen without calling
// fn while the circuit is open, or while another caller holds the
// half-open probe.
func ExecuteVal[T any](ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	probe, err := cb.acquire()
	if err != nil {
		return zero, err
	}

	val, err := fn(ctx)
	cb.record(probe, err, ctx.Err() != nil)
	return val, err
}

// State returns the current state. An open circuit whose reset timeout has
// passed reports half-open.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.cooledDown() {
		return CircuitHalfOpen
	}
	return cb.state
}

func (cb *CircuitBreaker) cooledDown() bool {
	return cb.now().Sub(cb.openedAt) >= cb.cfg.ResetTimeout
}

func (cb *CircuitBreaker) acquire() (probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitOpen:
		if !cb.cooledDown() {
			return false, ErrCircuitOpen
		}
		cb.transition(CircuitHalfOpen)
		fallthrough
	case CircuitHalfOpen:
		if cb.probing {
			return false, ErrCircuitOpen
		}
		cb.probing = true
		return true, nil
	}
	return false, nil
}

// record counts err against the circuit. Errors seen after the caller's own
// context ended are ignored.
func (cb *CircuitBreaker) record(probe bool, err error, callerDone bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if probe {
		cb.probing = false
	}

	failed := err != nil && !callerDone && cb.cfg.ShouldTrip(err)
	switch {
	case !failed && err == nil:
		cb.failures = 0
		if cb.state != CircuitClosed {
			cb.transition(CircuitClosed)
		}
	case !failed:
		// Ignored error: a half-open circuit waits for the next probe.
	case cb.state == CircuitHalfOpen:
		cb.open()
	default:
		cb.failures++
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.open()
		}
	}
}

func (cb *CircuitBreaker) open() {
	cb.openedAt = cb.now()
	cb.transition(CircuitOpen)
}

func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(from, to)
	}
}

// A cancelled request says nothing about provider health. A deadline that
// expires while the caller is still waiting is a provider timeout and counts.
func tripsByDefault(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// StateLogger returns an OnStateChange callback that logs transitions for
// the named service.
func StateLogger(service string) func(from, to CircuitState) {
	return func(from, to CircuitState) {
		zap.L().Warn("circuit breaker state change",
			zap.String("service", service),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	}
}

// ServiceBreakers hands out one breaker per service name. A single registry
// is shared by every run in the process so a failing provider trips once.
type ServiceBreakers struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	cfg      CircuitBreakerConfig
}

// NewServiceBreakers creates a registry of per-service circuit breakers.
func NewServiceBreakers(cfg CircuitBreakerConfig) *ServiceBreakers {
	return &ServiceBreakers{breakers: make(map[string]*CircuitBreaker), cfg: cfg}
}

// Get returns the breaker for service, creating it on first use.
func (sb *ServiceBreakers) Get(service string) *CircuitBreaker {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if cb, ok := sb.breakers[service]; ok {
		return cb
	}
	cfg := sb.cfg
	if cfg.OnStateChange == nil {
		cfg.OnStateChange = StateLogger(service)
	}
	cb := NewCircuitBreaker(cfg)
	sb.breakers[service] = cb
	return cb
}
