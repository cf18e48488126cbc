package scrape

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/pkg/jina"
)

// DefaultSearchResults is how many hits a search returns when unspecified.
const DefaultSearchResults = 5

const duckDuckGoHTMLURL = "https://html.duckduckgo.com/html/"

// Searcher runs a web search.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error)
	Name() string
}

// DuckDuckGoOption configures a DuckDuckGoSearcher.
type DuckDuckGoOption func(*DuckDuckGoSearcher)

// WithDuckDuckGoURL overrides the HTML endpoint (for testing).
func WithDuckDuckGoURL(u string) DuckDuckGoOption {
	return func(d *DuckDuckGoSearcher) { d.endpoint = u }
}

// WithSearchHTTPClient sets the HTTP client.
func WithSearchHTTPClient(hc *http.Client) DuckDuckGoOption {
	return func(d *DuckDuckGoSearcher) { d.http = hc }
}

// DuckDuckGoSearcher scrapes the keyless DuckDuckGo HTML endpoint.
type DuckDuckGoSearcher struct {
	endpoint  string
	userAgent string
	http      *http.Client
}

// NewDuckDuckGoSearcher creates a DuckDuckGoSearcher.
func NewDuckDuckGoSearcher(userAgent string, opts ...DuckDuckGoOption) *DuckDuckGoSearcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	d := &DuckDuckGoSearcher{
		endpoint:  duckDuckGoHTMLURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DuckDuckGoSearcher) Name() string { return "duckduckgo" }

// Search posts the query and parses the result list.
func (d *DuckDuckGoSearcher) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}
	form := url.Values{"q": {query}}
	endpoint := d.endpoint + "?" + form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: create request")
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: send request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("duckduckgo: search HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: parse html")
	}
	return parseDuckDuckGo(doc, maxResults), nil
}

func parseDuckDuckGo(doc *goquery.Document, maxResults int) []model.SearchResult {
	results := make([]model.SearchResult, 0, maxResults)
	doc.Find(".result, .web-result").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if len(results) >= maxResults {
			return false
		}
		link := el.Find(".result__a, .result-link, a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		target := unwrapRedirect(href)
		snippet := collapseSpace(el.Find(".result__snippet, .result-snippet").First().Text())

		if title != "" && strings.HasPrefix(target, "http") {
			results = append(results, model.SearchResult{Title: title, URL: target, Snippet: snippet})
		}
		return true
	})
	return results
}

// unwrapRedirect extracts the destination from a DuckDuckGo "uddg=" link.
func unwrapRedirect(href string) string {
	_, rest, ok := strings.Cut(href, "uddg=")
	if !ok {
		return href
	}
	encoded, _, _ := strings.Cut(rest, "&")
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return href
	}
	return decoded
}

// JinaSearcher runs searches through the Jina search API.
type JinaSearcher struct {
	client jina.Client
}

// NewJinaSearcher creates a JinaSearcher.
func NewJinaSearcher(client jina.Client) *JinaSearcher {
	return &JinaSearcher{client: client}
}

func (j *JinaSearcher) Name() string { return "jina" }

// Search maps Jina hits to search results, using the description (or the
// head of the content) as the snippet.
func (j *JinaSearcher) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}
	resp, err := j.client.Search(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "jina: search")
	}

	results := make([]model.SearchResult, 0, maxResults)
	for _, r := range resp.Data {
		if len(results) >= maxResults {
			break
		}
		if r.URL == "" || r.Title == "" {
			continue
		}
		snippet := r.Description
		if snippet == "" {
			snippet = truncateRunes(collapseSpace(r.Content), 200)
		}
		results = append(results, model.SearchResult{Title: r.Title, URL: r.URL, Snippet: snippet})
	}
	return results, nil
}
