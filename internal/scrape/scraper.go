package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/sells-group/aeo-cli/internal/model"
)

// Scraper fetches a single URL and returns its readable content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*model.ExtractedPage, error)
	Name() string
	Supports(url string) bool
}

// markdownPage builds an ExtractedPage from text an upstream service already
// converted to markdown.
func markdownPage(source, pageURL, title, brand, content string, maxChars int) *model.ExtractedPage {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if brand == "" {
		if u, err := url.Parse(pageURL); err == nil {
			brand = BrandFromHost(u.Hostname())
		}
	}
	content = newlinesRe.ReplaceAllString(strings.TrimSpace(content), "\n\n")
	content = truncateRunes(content, maxChars)
	return &model.ExtractedPage{
		Title:     strings.TrimSpace(title),
		Brand:     brand,
		Content:   content,
		URL:       pageURL,
		WordCount: len(strings.Fields(content)),
		Source:    source,
	}
}
