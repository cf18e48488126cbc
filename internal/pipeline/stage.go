package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/internal/resilience"
	"github.com/sells-group/aeo-cli/pkg/llm"
)

// Stage retry defaults: three attempts, waiting attempt*1s between them.
const (
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = time.Second
)

// Contract describes one LLM-backed stage as data: who it is, how to frame
// the task, and how to check what comes back.
type Contract[In, Out any] struct {
	Info model.StageInfo
	// System returns the stable stage instructions.
	System func() string
	// User renders the stage input, embedding upstream outputs as JSON.
	User func(In) string
	// Validate optionally rejects a decoded output; a rejection is retried
	// like any other failure.
	Validate func(Out) error
}

// Execution is a successful stage run.
type Execution[Out any] struct {
	Info     model.StageInfo
	Output   Out
	Duration time.Duration
	Attempts int
}

// Metadata projects the execution into the report's per-stage entry.
func (e *Execution[Out]) Metadata() model.AgentMetadata {
	return model.AgentMetadata{
		ID:       e.Info.ID,
		Name:     e.Info.Name,
		Emoji:    e.Info.Emoji,
		Duration: e.Duration.Milliseconds(),
		Attempts: e.Attempts,
	}
}

// StageError means a stage used up its retry budget. The run cannot continue.
type StageError struct {
	Stage    string
	Attempts int
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("agent %q failed after %d attempts: %s", e.Stage, e.Attempts, e.Err.Error())
}

func (e *StageError) Unwrap() error { return e.Err }

// StageState tracks where an attempt is.
type StageState string

const (
	StateIdle               StageState = "idle"
	StatePrompting          StageState = "prompting"
	StateAwaitingCompletion StageState = "awaiting_completion"
	StateDecoding           StageState = "decoding"
	StateSucceeded          StageState = "succeeded"
	StateRetryScheduled     StageState = "retry_scheduled"
	StateFailedFatal        StageState = "failed_fatal"
)

// Execute runs c with the default linear retry policy.
func Execute[In, Out any](ctx context.Context, gw llm.Gateway, c Contract[In, Out], in In, onThought func(string)) (*Execution[Out], error) {
	return ExecuteWithRetry(ctx, gw, resilience.LinearRetryConfig(DefaultMaxAttempts, DefaultRetryBackoff), c, in, onThought)
}

// ExecuteWithRetry runs c against gw. Every failure, whether from the gateway,
// the decoder or Validate, is retried under policy; context cancellation ends
// the stage at once.
func ExecuteWithRetry[In, Out any](
	ctx context.Context,
	gw llm.Gateway,
	policy resilience.RetryConfig,
	c Contract[In, Out],
	in In,
	onThought func(string),
) (*Execution[Out], error) {
	thought := func(text string) {
		if onThought != nil {
			onThought(text)
		}
	}
	maxAttempts := policy.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
		policy.MaxAttempts = maxAttempts
	}
	if policy.ShouldRetry == nil {
		policy.ShouldRetry = resilience.RetryAll
	}

	log := zap.L().With(zap.String("stage", c.Info.ID))
	state := StateIdle
	transition := func(to StageState, attempt int) {
		log.Debug("stage: state change",
			zap.String("from", string(state)),
			zap.String("to", string(to)),
			zap.Int("attempt", attempt),
		)
		state = to
	}

	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		transition(StateRetryScheduled, attempt)
		log.Warn("stage: attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		thought(fmt.Sprintf("Error encountered: %s... Retrying in %ds", truncateRunes(err.Error(), 80), int(delay.Round(time.Second)/time.Second)))
	}

	start := time.Now()
	attempts := 0
	out, err := resilience.DoVal(ctx, policy, func(ctx context.Context) (Out, error) {
		attempts++
		var zero Out
		if attempts > 1 {
			thought(fmt.Sprintf("Retry attempt %d/%d, adjusting approach...", attempts, maxAttempts))
		}

		transition(StatePrompting, attempts)
		thought("Building analysis prompt...")
		system := c.System()
		user := c.User(in)

		transition(StateAwaitingCompletion, attempts)
		thought(fmt.Sprintf("Calling %s...", gw.Model()))
		raw, err := gw.Complete(ctx, system, user)
		if err != nil {
			return zero, err
		}

		transition(StateDecoding, attempts)
		thought("Validating structured output...")
		decoded, err := Decode[Out](raw)
		if err != nil {
			return zero, err
		}
		if c.Validate != nil {
			if err := c.Validate(decoded); err != nil {
				return zero, eris.Wrap(err, "invalid output")
			}
		}
		return decoded, nil
	})
	duration := time.Since(start)

	if err != nil {
		transition(StateFailedFatal, attempts)
		return nil, &StageError{Stage: c.Info.Name, Attempts: attempts, Err: err}
	}

	transition(StateSucceeded, attempts)
	thought(fmt.Sprintf("Completed in %.1fs", duration.Seconds()))

	return &Execution[Out]{
		Info:     c.Info,
		Output:   out,
		Duration: duration,
		Attempts: attempts,
	}, nil
}
