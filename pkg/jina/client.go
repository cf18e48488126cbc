// Package jina provides a client for the Jina AI reader and search API.
package jina

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/resilience"
)

const (
	defaultBaseURL       = "https://r.jina.ai"
	defaultSearchBaseURL = "https://s.jina.ai"

	maxBodyBytes = 8 << 20

	// Stripped by the reader before conversion to markdown.
	removeSelectors = "nav, footer, header, aside, .cookie-banner"
)

// Client defines the Jina AI Reader operations.
type Client interface {
	// Read fetches a URL via Jina AI Reader and returns the markdown content.
	Read(ctx context.Context, targetURL string) (*ReadResponse, error)
	// Search performs a web search via Jina AI Search.
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// ReadResponse is the parsed reader response.
type ReadResponse struct {
	Code int      `json:"code"`
	Data ReadData `json:"data"`
}

// ReadData holds the page as markdown.
type ReadData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Usage       struct {
		Tokens int `json:"tokens"`
	} `json:"usage"`
}

// SearchResponse is the parsed search response. Code 422 with no data means
// the query had no results.
type SearchResponse struct {
	Code int            `json:"code"`
	Data []SearchResult `json:"data"`
}

// SearchResult is a single search hit.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// Option configures the Jina client.
type Option func(*httpClient)

// WithBaseURL sets the reader base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithSearchBaseURL sets the search base URL.
func WithSearchBaseURL(u string) Option {
	return func(c *httpClient) { c.searchBaseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRetry overrides the transient-failure retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) { c.retry = cfg }
}

type httpClient struct {
	apiKey        string
	baseURL       string
	searchBaseURL string
	http          *http.Client
	retry         resilience.RetryConfig
}

// NewClient creates a Jina client. An empty apiKey sends unauthenticated
// requests, which the reader accepts at a lower rate limit.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		searchBaseURL: defaultSearchBaseURL,
		http:          &http.Client{Timeout: 30 * time.Second},
		retry:         resilience.HTTPRetryConfig("jina", 250*time.Millisecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Read(ctx context.Context, targetURL string) (*ReadResponse, error) {
	var out ReadResponse
	err := c.get(ctx, c.baseURL+"/"+targetURL, map[string]string{
		"X-Return-Format":   "markdown",
		"X-Remove-Selector": removeSelectors,
	}, &out, false)
	if err != nil {
		return nil, eris.Wrap(err, "jina: read")
	}
	return &out, nil
}

func (c *httpClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	var out SearchResponse
	if err := c.get(ctx, c.searchBaseURL+"/"+url.PathEscape(query), nil, &out, true); err != nil {
		return nil, eris.Wrap(err, "jina: search")
	}
	return &out, nil
}

// get issues a GET with retries on transient failures and decodes a 200
// body into dst. With emptyOn422 a 422 decodes as an empty result.
func (c *httpClient) get(ctx context.Context, reqURL string, headers map[string]string, dst any, emptyOn422 bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			return nil, resilience.NewTransientError(eris.Wrap(err, "send request"), 0)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, eris.Wrap(err, "read response body")
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusUnprocessableEntity && emptyOn422:
			return []byte(`{"code":422,"data":[]}`), nil
		default:
			return nil, resilience.StatusError("jina", resp.StatusCode, string(body))
		}
	})
	if err != nil {
		return err
	}
	return eris.Wrap(json.Unmarshal(body, dst), "unmarshal response")
}
