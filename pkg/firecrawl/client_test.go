package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/aeo-cli/internal/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-api-key",
		WithBaseURL(srv.URL+"/"),
		WithRetry(resilience.RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}),
	)
}

func TestScrape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scrape", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var req ScrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://learnflow.io/pricing", req.URL)
		assert.Equal(t, []string{"markdown"}, req.Formats)
		assert.True(t, req.OnlyMainContent)
		assert.True(t, req.BlockAds)
		assert.Equal(t, 1500, req.WaitFor)

		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Pricing\nPlans from $12.","metadata":{"title":"Pricing","sourceURL":"https://learnflow.io/pricing","ogSiteName":"LearnFlow","language":"en","statusCode":200}}}`))
	})

	resp, err := c.Scrape(context.Background(), ScrapeRequest{
		URL:             "https://learnflow.io/pricing",
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
		BlockAds:        true,
		WaitFor:         1500,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "LearnFlow", resp.Data.Metadata.OGSiteName)
	assert.Equal(t, "en", resp.Data.Metadata.Language)
	assert.Contains(t, resp.Data.Markdown, "Plans from $12.")
}

func TestScrape_StatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
		transient bool
	}{
		{"payment required", http.StatusPaymentRequired, 1, false},
		{"rate limited", http.StatusTooManyRequests, 2, true},
		{"unavailable", http.StatusServiceUnavailable, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"success":false,"error":"nope"}`))
			})

			_, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://example.com"})
			require.Error(t, err)
			assert.Equal(t, tt.wantCalls, calls.Load())
			assert.Equal(t, tt.transient, resilience.IsTransient(err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestScrape_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestScrape_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("request should have been cancelled")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Scrape(ctx, ScrapeRequest{URL: "https://example.com"})
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	hc := NewClient("key", WithBaseURL("")).(*httpClient)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.Equal(t, 60*time.Second, hc.http.Timeout)
}
