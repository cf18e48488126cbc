package scrape

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/internal/resilience"
	"github.com/sells-group/aeo-cli/pkg/jina"
)

// errJinaFallback marks a reader response that was fetched but is unusable.
var errJinaFallback = eris.New("jina: response needs fallback")

// JinaAdapter wraps a Jina Reader client as a Scraper. Three consecutive
// failures open its breaker for a minute, sending traffic straight to the
// next scraper in the chain.
type JinaAdapter struct {
	client   jina.Client
	breaker  *resilience.CircuitBreaker
	maxChars int
}

// NewJinaAdapter creates a JinaAdapter from a Jina client.
func NewJinaAdapter(client jina.Client, maxChars int) *JinaAdapter {
	return &JinaAdapter{
		client: client,
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: 3,
			ResetTimeout:     60 * time.Second,
			OnStateChange:    resilience.StateLogger("jina_reader"),
		}),
		maxChars: maxChars,
	}
}

func (j *JinaAdapter) Name() string { return "jina" }

// Supports returns true unless the breaker is open.
func (j *JinaAdapter) Supports(_ string) bool {
	return j.breaker.State() != resilience.CircuitOpen
}

// Scrape fetches a URL via Jina Reader and validates the response.
func (j *JinaAdapter) Scrape(ctx context.Context, targetURL string) (*model.ExtractedPage, error) {
	resp, err := resilience.ExecuteVal(ctx, j.breaker, func(ctx context.Context) (*jina.ReadResponse, error) {
		resp, err := j.client.Read(ctx, targetURL)
		if err != nil {
			return nil, err
		}
		if needsFallback(resp) {
			return nil, errJinaFallback
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	pageURL := resp.Data.URL
	if pageURL == "" {
		pageURL = targetURL
	}
	return markdownPage(j.Name(), pageURL, resp.Data.Title, "", resp.Data.Content, j.maxChars), nil
}

var challengeSignatures = []string{
	"checking your browser",
	"enable javascript",
	"please enable cookies",
	"access denied",
	"403 forbidden",
	"just a moment",
	"cloudflare",
	"attention required",
}

// needsFallback reports whether a reader response is empty or a bot
// challenge page rather than the real content.
func needsFallback(resp *jina.ReadResponse) bool {
	if resp == nil {
		return true
	}
	if resp.Code != 0 && resp.Code != 200 {
		return true
	}

	content := strings.TrimSpace(resp.Data.Content)
	if len(content) < 100 {
		return true
	}

	lower := strings.ToLower(content)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) && len(content) < 1000 {
			return true
		}
	}
	return false
}
