// Package firecrawl is a client for the Firecrawl scrape API, used as the
// last-resort extractor for pages the local fetcher cannot read.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/resilience"
)

const (
	defaultBaseURL = "https://api.firecrawl.dev/v2"
	maxBodyBytes   = 8 << 20
)

// Client defines the Firecrawl operations the extractor uses.
type Client interface {
	Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error)
}

// ScrapeRequest is the body for POST /scrape.
type ScrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats,omitempty"`
	OnlyMainContent bool     `json:"onlyMainContent,omitempty"`
	BlockAds        bool     `json:"blockAds,omitempty"`
	// WaitFor and Timeout are in milliseconds.
	WaitFor int `json:"waitFor,omitempty"`
	Timeout int `json:"timeout,omitempty"`
}

// ScrapeResponse is the response from POST /scrape.
type ScrapeResponse struct {
	Success bool     `json:"success"`
	Data    PageData `json:"data"`
}

// PageData is one scraped page.
type PageData struct {
	Markdown string       `json:"markdown"`
	Metadata PageMetadata `json:"metadata"`
}

// PageMetadata carries the page-level fields Firecrawl extracts.
type PageMetadata struct {
	Title      string `json:"title"`
	SourceURL  string `json:"sourceURL"`
	OGSiteName string `json:"ogSiteName"`
	Language   string `json:"language"`
	StatusCode int    `json:"statusCode"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL. Empty keeps the default.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRetry overrides the transient-failure retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) { c.retry = cfg }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a Firecrawl client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		retry:   resilience.HTTPRetryConfig("firecrawl", 500*time.Millisecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "firecrawl: marshal request")
	}

	data, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.post(ctx, "/scrape", buf)
	})
	if err != nil {
		return nil, eris.Wrap(err, "firecrawl: scrape")
	}

	var resp ScrapeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, eris.Wrap(err, "firecrawl: decode response")
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "execute request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resilience.StatusError("firecrawl", resp.StatusCode, string(data))
	}
	return data, nil
}
