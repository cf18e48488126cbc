package scrape

import (
	"context"
	"io"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/aeo-cli/internal/model"
)

// DefaultUserAgent mimics a desktop browser; many marketing sites refuse
// obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

const maxBodyBytes = 2 << 20

// LocalOptions configures a LocalScraper.
type LocalOptions struct {
	Timeout           time.Duration
	UserAgent         string
	MaxChars          int
	RequestsPerSecond float64
}

// LocalScraper fetches HTML via net/http, detects blocks, and extracts
// readable text. Free, no API calls.
type LocalScraper struct {
	client   *http.Client
	opts     LocalOptions
	limiters *hostLimiters
}

// NewLocalScraper creates a LocalScraper. Zero option values take defaults.
func NewLocalScraper(opts LocalOptions) *LocalScraper {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	return &LocalScraper{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		},
		opts:     opts,
		limiters: newHostLimiters(opts.RequestsPerSecond),
	}
}

func (l *LocalScraper) Name() string           { return "local" }
func (l *LocalScraper) Supports(_ string) bool { return true }

// Scrape fetches a URL and extracts its main content.
func (l *LocalScraper) Scrape(ctx context.Context, targetURL string) (*model.ExtractedPage, error) {
	limiter := l.limiters.For(targetURL)
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "local: rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "local: create request")
	}
	req.Header.Set("User-Agent", l.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "local: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests && limiter != nil {
		limiter.OnRateLimit(req.URL.Hostname())
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, eris.Wrap(err, "local: read body")
	}

	if blocked, blockType := DetectBlock(resp, body); blocked {
		return nil, &BlockError{URL: targetURL, Type: blockType}
	}

	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("local: HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if len(body) < 100 {
		return nil, eris.New("local: empty page")
	}

	if limiter != nil {
		limiter.OnSuccess()
	}

	// Report the post-redirect URL.
	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	page, err := ExtractContent(string(body), finalURL, l.opts.MaxChars)
	if err != nil {
		return nil, eris.Wrap(err, "local: extract")
	}
	page.Source = l.Name()
	return page, nil
}

// readBody reads up to maxBodyBytes and decodes it to UTF-8 using the
// charset named in the Content-Type header.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = io.LimitReader(resp.Body, maxBodyBytes)
	if cs := contentCharset(resp.Header.Get("Content-Type")); cs != "" {
		enc, err := htmlindex.Get(cs)
		if err == nil && enc != nil {
			r = enc.NewDecoder().Reader(r)
		}
	}
	return io.ReadAll(r)
}

func contentCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
