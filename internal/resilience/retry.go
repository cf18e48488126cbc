package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// BackoffStrategy selects how the delay grows between attempts.
type BackoffStrategy int

const (
	// BackoffExponential multiplies InitialBackoff by Multiplier per attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear waits InitialBackoff * attempt number.
	BackoffLinear
)

// RetryConfig controls retry behavior.
type RetryConfig struct {
	// MaxAttempts counts the first try. Default: 3.
	MaxAttempts int

	// InitialBackoff is the base delay. Default: 500ms.
	InitialBackoff time.Duration

	// MaxBackoff caps any single delay. Default: 30s.
	MaxBackoff time.Duration

	Strategy BackoffStrategy

	// Multiplier applies in exponential mode. Default: 2.0.
	Multiplier float64

	// JitterFraction randomizes each delay by up to ±fraction.
	JitterFraction float64

	// ShouldRetry defaults to IsTransient.
	ShouldRetry func(err error) bool

	// OnRetry is called before each sleep with the 1-based number of the
	// attempt that just failed.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// LinearRetryConfig waits step, 2*step, 3*step ... between attempts with no
// jitter, and retries every error. Pipeline stages use it.
func LinearRetryConfig(maxAttempts int, step time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts:    maxAttempts,
		InitialBackoff: step,
		MaxBackoff:     time.Duration(maxAttempts) * step,
		Strategy:       BackoffLinear,
		ShouldRetry:    RetryAll,
	}
}

// HTTPRetryConfig is the transport policy for API clients: three quick
// exponential attempts on transient failures, logged under service.
func HTTPRetryConfig(service string, initial time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: initial,
		MaxBackoff:     2 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		OnRetry:        RetryLogger(service, "request"),
	}
}

// RetryAll is a ShouldRetry func that treats every error as retryable.
func RetryAll(error) bool { return true }

// DoVal calls fn until it succeeds, the error is not retryable, attempts run
// out, or ctx is done. The last error is returned.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = applyDefaults(cfg)

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !cfg.ShouldRetry(err) || attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := computeBackoff(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, errors.Join(lastErr, ctx.Err())
		case <-timer.C:
		}
	}
	return zero, lastErr
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.JitterFraction < 0 {
		cfg.JitterFraction = 0
	}
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = IsTransient
	}
	return cfg
}

// computeBackoff returns the delay after the zero-based failed attempt.
func computeBackoff(attempt int, cfg RetryConfig) time.Duration {
	base := float64(cfg.InitialBackoff)
	var delay float64
	if cfg.Strategy == BackoffLinear {
		delay = base * float64(attempt+1)
	} else {
		delay = base * math.Pow(cfg.Multiplier, float64(attempt))
	}
	delay = math.Min(delay, float64(cfg.MaxBackoff))

	if cfg.JitterFraction > 0 {
		delay += (rand.Float64()*2 - 1) * delay * cfg.JitterFraction
	}
	return time.Duration(math.Max(delay, 0))
}

// RetryLogger returns an OnRetry callback that logs each retry attempt.
func RetryLogger(service, operation string) func(int, time.Duration, error) {
	return func(attempt int, delay time.Duration, err error) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}
}
