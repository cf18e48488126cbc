package scrape

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter wraps a rate.Limiter that speeds up on success and backs
// off when a host answers 429. The rate stays within [initial/4, initial*2].
type AdaptiveLimiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	maxRate     rate.Limit
	minRate     rate.Limit
	currentRate rate.Limit
}

// NewAdaptiveLimiter creates an adaptive limiter starting at initialRate.
func NewAdaptiveLimiter(initialRate rate.Limit, burst int) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		limiter:     rate.NewLimiter(initialRate, burst),
		maxRate:     initialRate * 2,
		minRate:     initialRate / 4,
		currentRate: initialRate,
	}
}

// Wait blocks until the limiter allows a request.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// OnSuccess raises the rate by 20%.
func (a *AdaptiveLimiter) OnSuccess() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.set(a.currentRate * 1.2)
}

// OnRateLimit halves the rate.
func (a *AdaptiveLimiter) OnRateLimit(host string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.set(a.currentRate * 0.5)
	zap.L().Warn("scrape: reducing host rate after 429",
		zap.String("host", host),
		zap.Float64("new_rate", float64(a.currentRate)),
	)
}

// Limit returns the current rate.
func (a *AdaptiveLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentRate
}

func (a *AdaptiveLimiter) set(r rate.Limit) {
	if r > a.maxRate {
		r = a.maxRate
	}
	if r < a.minRate {
		r = a.minRate
	}
	a.currentRate = r
	a.limiter.SetLimit(r)
}

// hostLimiters lazily creates one AdaptiveLimiter per host.
type hostLimiters struct {
	mu       sync.Mutex
	rps      rate.Limit
	limiters map[string]*AdaptiveLimiter
}

func newHostLimiters(rps float64) *hostLimiters {
	return &hostLimiters{
		rps:      rate.Limit(rps),
		limiters: make(map[string]*AdaptiveLimiter),
	}
}

// For returns the limiter for rawURL's host, or nil when limiting is off.
func (h *hostLimiters) For(rawURL string) *AdaptiveLimiter {
	if h == nil || h.rps <= 0 {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	host := strings.ToLower(u.Hostname())

	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		burst := int(h.rps)
		if burst < 1 {
			burst = 1
		}
		l = NewAdaptiveLimiter(h.rps, burst)
		h.limiters[host] = l
	}
	return l
}
