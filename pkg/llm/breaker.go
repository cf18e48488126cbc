package llm

import (
	"context"

	"github.com/sells-group/aeo-cli/internal/resilience"
)

type breakerGateway struct {
	next Gateway
	cb   *resilience.CircuitBreaker
}

// WithBreaker routes every call through cb. While the circuit is open calls
// fail fast with resilience.ErrCircuitOpen.
func WithBreaker(next Gateway, cb *resilience.CircuitBreaker) Gateway {
	if cb == nil {
		return next
	}
	return &breakerGateway{next: next, cb: cb}
}

func (g *breakerGateway) Model() string { return g.next.Model() }

func (g *breakerGateway) Complete(ctx context.Context, system, user string) (string, error) {
	return resilience.ExecuteVal(ctx, g.cb, func(ctx context.Context) (string, error) {
		return g.next.Complete(ctx, system, user)
	})
}
