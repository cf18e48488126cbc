package scrape

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContent_Structured(t *testing.T) {
	page, err := ExtractContent(acmePage, "https://www.acme.com/crm", 0)
	require.NoError(t, err)

	assert.Equal(t, "Acme CRM", page.Brand)
	assert.Contains(t, page.Content, "## Acme CRM for small teams")
	assert.Contains(t, page.Content, "- Email sync with Gmail and Outlook")
	assert.NotContains(t, page.Content, "\n\n\n")
	assert.Equal(t, len(strings.Fields(page.Content)), page.WordCount)
}

func TestExtractContent_TitleAndBrandFallbacks(t *testing.T) {
	html := `<html><body><h1>Orbit Sales</h1><p>Tiny page.</p></body></html>`

	page, err := ExtractContent(html, "https://www.orbit-sales.io/", 0)
	require.NoError(t, err)
	assert.Equal(t, "Orbit Sales", page.Title)
	assert.Equal(t, "Orbit-sales", page.Brand)
}

func TestExtractContent_OGTitleWins(t *testing.T) {
	html := `<html><head><meta property="og:title" content="OG Title"><title>Doc Title</title></head><body></body></html>`

	page, err := ExtractContent(html, "https://example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, "OG Title", page.Title)
}

func TestExtractContent_UnstructuredText(t *testing.T) {
	long := strings.Repeat("word ", 60)
	html := `<html><body><div>` + long + `</div></body></html>`

	page, err := ExtractContent(html, "https://example.com", 0)
	require.NoError(t, err)
	assert.Equal(t, 60, page.WordCount)
}

func TestExtractContent_Truncates(t *testing.T) {
	html := `<html><body><main><p>` + strings.Repeat("é", 500) + `</p></main></body></html>`

	page, err := ExtractContent(html, "https://example.com", 100)
	require.NoError(t, err)
	assert.Len(t, []rune(page.Content), 100)
}

func TestReadableText(t *testing.T) {
	para := strings.Repeat("Acme keeps every customer conversation in one shared timeline. ", 8)
	html := `<html><head><title>Acme</title></head><body><nav>Home | Pricing</nav>` +
		`<article><h1>Why Acme</h1><p>` + para + `</p><p>` + para + `</p></article></body></html>`
	u, err := url.Parse("https://www.acme.com/why")
	require.NoError(t, err)

	text := readableText(html, u)
	assert.Contains(t, text, "shared timeline")
	assert.NotContains(t, text, "<p>")
}

func TestExtractContent_BadURL(t *testing.T) {
	_, err := ExtractContent("<html></html>", "://nope", 0)
	assert.Error(t, err)
}

func TestBrandFromHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.hubspot.com", "Hubspot"},
		{"salesforce.com", "Salesforce"},
		{"", ""},
		{"WWW.Pipedrive.COM", "Pipedrive"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, BrandFromHost(tt.host))
		})
	}
}

func TestWrapLines(t *testing.T) {
	got := wrapLines("aaaa bbbb cccc", 4)
	assert.Equal(t, "aaaa\nbbbb\ncccc", got)
}
