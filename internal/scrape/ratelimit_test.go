package scrape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestAdaptiveLimiter_Bounds(t *testing.T) {
	l := NewAdaptiveLimiter(4, 4)

	for range 10 {
		l.OnSuccess()
	}
	assert.InDelta(t, 8.0, float64(l.Limit()), 0.001)

	for range 10 {
		l.OnRateLimit("example.com")
	}
	assert.InDelta(t, 1.0, float64(l.Limit()), 0.001)
}

func TestAdaptiveLimiter_Wait(t *testing.T) {
	l := NewAdaptiveLimiter(rate.Inf, 1)
	require.NoError(t, l.Wait(context.Background()))
}

func TestHostLimiters_PerHost(t *testing.T) {
	h := newHostLimiters(2)

	a := h.For("https://Example.com/a")
	b := h.For("https://example.com/b")
	c := h.For("https://other.com/")

	require.NotNil(t, a)
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestHostLimiters_Disabled(t *testing.T) {
	assert.Nil(t, newHostLimiters(0).For("https://example.com"))

	var h *hostLimiters
	assert.Nil(t, h.For("https://example.com"))
	assert.Nil(t, newHostLimiters(1).For("::bad"))
}
