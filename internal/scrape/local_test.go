package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acmePage = `<html><head><title>Acme CRM - Pipeline software</title>
<meta property="og:site_name" content="Acme CRM"></head>
<body><nav>Menu Pricing Login</nav>
<main>
<h1>Acme CRM for small teams</h1>
<p>Acme CRM helps small sales teams track every deal from first contact to signed contract without spreadsheets.</p>
<ul><li>Visual pipeline board</li><li>Email sync with Gmail and Outlook</li></ul>
<p>Plans start at 12 dollars per seat per month and include unlimited contacts.</p>
</main>
<footer>Copyright 2024 Acme</footer></body></html>`

func TestLocalScraper_CleanHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(acmePage))
	}))
	defer srv.Close()

	s := NewLocalScraper(LocalOptions{})
	page, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "local", page.Source)
	assert.Equal(t, "Acme CRM - Pipeline software", page.Title)
	assert.Equal(t, "Acme CRM", page.Brand)
	assert.Equal(t, srv.URL, page.URL)
	assert.Contains(t, page.Content, "## Acme CRM for small teams")
	assert.Contains(t, page.Content, "- Visual pipeline board")
	assert.NotContains(t, page.Content, "Menu Pricing")
	assert.NotContains(t, page.Content, "Copyright 2024")
	assert.Positive(t, page.WordCount)
}

func TestLocalScraper_Charset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1252")
		body := "<html><head><title>Caf\xe9 Nimbus</title></head><body><main><p>" +
			strings.Repeat("Nimbus serves the best caf\xe9 software for coffee shops. ", 8) +
			"</p></main></body></html>"
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	page, err := NewLocalScraper(LocalOptions{}).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Café Nimbus", page.Title)
	assert.Contains(t, page.Content, "best café software")
}

func TestLocalScraper_MaxChars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(acmePage))
	}))
	defer srv.Close()

	page, err := NewLocalScraper(LocalOptions{MaxChars: 40}).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(page.Content)), 40)
}

func TestLocalScraper_Cloudflare(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cf-Ray", "abc123")
		w.WriteHeader(403)
		_, _ = w.Write([]byte(`<html><body>Access denied</body></html>`))
	}))
	defer srv.Close()

	_, err := NewLocalScraper(LocalOptions{}).Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")

	var be *BlockError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, BlockCloudflare, be.Type)
	assert.False(t, be.NeedsRendering())
}

func TestLocalScraper_JSShell(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>App</title></head><body><div id="root"></div><script src="/app.js"></script></body></html>`))
	}))
	defer srv.Close()

	_, err := NewLocalScraper(LocalOptions{}).Scrape(context.Background(), srv.URL)
	var be *BlockError
	require.ErrorAs(t, err, &be)
	assert.True(t, be.NeedsRendering())
}

func TestLocalScraper_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	_, err := NewLocalScraper(LocalOptions{}).Scrape(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLocalScraper_HTTP404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = w.Write([]byte(`<html><body>Not found page with lots of content here to exceed threshold</body></html>`))
	}))
	defer srv.Close()

	_, err := NewLocalScraper(LocalOptions{}).Scrape(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestLocalScraper_RateLimitedHostSlowsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`slow down`))
	}))
	defer srv.Close()

	s := NewLocalScraper(LocalOptions{RequestsPerSecond: 100})
	_, err := s.Scrape(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.InDelta(t, 50.0, float64(s.limiters.For(srv.URL).Limit()), 0.001)
}

func TestLocalScraper_NameSupports(t *testing.T) {
	s := NewLocalScraper(LocalOptions{})
	assert.Equal(t, "local", s.Name())
	assert.True(t, s.Supports("https://example.com"))
}

func TestContentCharset(t *testing.T) {
	assert.Equal(t, "iso-8859-1", contentCharset("text/html; charset=iso-8859-1"))
	assert.Empty(t, contentCharset("text/html"))
	assert.Empty(t, contentCharset(""))
	assert.Empty(t, contentCharset(";;;"))
}
