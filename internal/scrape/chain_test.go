package scrape

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/aeo-cli/internal/model"
)

var goodContent = strings.Repeat("Acme CRM tracks deals for small teams. ", 5)

func TestChain_Extract_FirstSuccess(t *testing.T) {
	s1 := &mockScraper{name: "primary", supports: true,
		page: &model.ExtractedPage{URL: "https://acme.com", Title: "Home", Content: goodContent, Source: "primary"}}
	s2 := &mockScraper{name: "fallback", supports: true}

	chain := NewChain(nil, ChainOptions{}, s1, s2)
	page, err := chain.Extract(context.Background(), "https://acme.com")

	require.NoError(t, err)
	assert.Equal(t, "primary", page.Source)
	assert.Equal(t, 0, s2.calls)
}

func TestChain_Extract_Fallback(t *testing.T) {
	s1 := &mockScraper{name: "primary", supports: true, err: errors.New("blocked")}
	s2 := &mockScraper{name: "fallback", supports: true,
		page: &model.ExtractedPage{Content: goodContent, Source: "fallback"}}

	page, err := NewChain(nil, ChainOptions{}, s1, s2).Extract(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "fallback", page.Source)
}

func TestChain_Extract_SkipsUnsupported(t *testing.T) {
	s1 := &mockScraper{name: "jina", supports: false}
	s2 := &mockScraper{name: "local", supports: true, page: &model.ExtractedPage{Content: goodContent, Source: "local"}}

	page, err := NewChain(nil, ChainOptions{}, s1, s2).Extract(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "local", page.Source)
	assert.Equal(t, 0, s1.calls)
}

func TestChain_Extract_AllFail(t *testing.T) {
	s1 := &mockScraper{name: "a", supports: true, err: errors.New("fail a")}
	s2 := &mockScraper{name: "b", supports: true, err: errors.New("fail b")}

	_, err := NewChain(nil, ChainOptions{}, s1, s2).Extract(context.Background(), "https://acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all scrapers failed")
	assert.Contains(t, err.Error(), "fail b")
	assert.False(t, model.IsSourceExtraction(err))
}

func TestChain_Extract_NoSuitableScraper(t *testing.T) {
	s1 := &mockScraper{name: "a", supports: false}

	_, err := NewChain(nil, ChainOptions{}, s1).Extract(context.Background(), "https://acme.com")
	assert.ErrorContains(t, err, "no suitable scraper")
}

func TestChain_Extract_TooShortGivesRenderingHint(t *testing.T) {
	s1 := &mockScraper{name: "local", supports: true, page: &model.ExtractedPage{Content: "Loading..."}}
	s2 := &mockScraper{name: "jina", supports: true, err: errors.New("down")}

	_, err := NewChain(nil, ChainOptions{MinChars: 20}, s1, s2).Extract(context.Background(), "acme.com")
	require.Error(t, err)

	var se *model.SourceExtractionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, JSRenderingHint, se.Reason)
	assert.Equal(t, "https://acme.com", se.URL)
	assert.Equal(t, 1, s2.calls)
}

func TestChain_Extract_Excluded(t *testing.T) {
	s1 := &mockScraper{name: "local", supports: true}

	_, err := NewChain(nil, ChainOptions{}, s1).Extract(context.Background(), "https://www.youtube.com/watch?v=1")
	assert.True(t, model.IsSourceExtraction(err))
	assert.Equal(t, 0, s1.calls)
}

func TestChain_Extract_InvalidURL(t *testing.T) {
	chain := NewChain(nil, ChainOptions{})

	_, err := chain.Extract(context.Background(), "   ")
	assert.True(t, model.IsValidation(err))
}

func TestChain_Extract_DetectsLanguage(t *testing.T) {
	s1 := &mockScraper{name: "local", supports: true, page: &model.ExtractedPage{Content: goodContent}}

	page, err := NewChain(nil, ChainOptions{DetectLanguage: true}, s1).Extract(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "en", page.Language)
}

func TestChain_Extract_KeepsUpstreamLanguage(t *testing.T) {
	s1 := &mockScraper{name: "firecrawl", supports: true, page: &model.ExtractedPage{Content: goodContent, Language: "fr"}}

	page, err := NewChain(nil, ChainOptions{DetectLanguage: true}, s1).Extract(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "fr", page.Language)
}

func TestChain_ExtractAll_PreservesOrder(t *testing.T) {
	s := staticScraper{pages: map[string]*model.ExtractedPage{
		"https://a.com": {Content: goodContent, Brand: "A"},
		"https://c.com": {Content: goodContent, Brand: "C"},
	}}

	pages := NewChain(nil, ChainOptions{}, s).ExtractAll(context.Background(),
		[]string{"https://a.com", "https://b.com", "https://c.com"}, 2)

	require.Len(t, pages, 3)
	assert.Equal(t, "A", pages[0].Brand)
	assert.Nil(t, pages[1])
	assert.Equal(t, "C", pages[2].Brand)
}

func TestChain_Scrapers(t *testing.T) {
	chain := NewChain(nil, ChainOptions{},
		&mockScraper{name: "local"}, &mockScraper{name: "jina"})
	assert.Equal(t, []string{"local", "jina"}, chain.Scrapers())
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"acme.com", "https://acme.com", false},
		{"  http://acme.com/pricing ", "http://acme.com/pricing", false},
		{"https://acme.com", "https://acme.com", false},
		{"", "", true},
		{"https://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
