package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/pkg/firecrawl"
)

// firecrawlWaitMs gives client-rendered pages time to paint before capture.
const firecrawlWaitMs = 1500

// FirecrawlAdapter wraps a Firecrawl client as the last-resort Scraper.
type FirecrawlAdapter struct {
	client   firecrawl.Client
	maxChars int
}

// NewFirecrawlAdapter creates a FirecrawlAdapter from a Firecrawl client.
func NewFirecrawlAdapter(client firecrawl.Client, maxChars int) *FirecrawlAdapter {
	return &FirecrawlAdapter{client: client, maxChars: maxChars}
}

// Name implements Scraper.
func (f *FirecrawlAdapter) Name() string { return "firecrawl" }

// Supports implements Scraper.
func (f *FirecrawlAdapter) Supports(_ string) bool { return true }

// Scrape fetches a single URL's main content as markdown.
func (f *FirecrawlAdapter) Scrape(ctx context.Context, targetURL string) (*model.ExtractedPage, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:             targetURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
		BlockAds:        true,
		WaitFor:         firecrawlWaitMs,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, eris.New("firecrawl: scrape not successful")
	}

	md := resp.Data.Metadata
	if md.StatusCode >= 400 {
		return nil, eris.Errorf("firecrawl: upstream HTTP %d", md.StatusCode)
	}
	pageURL := md.SourceURL
	if pageURL == "" {
		pageURL = targetURL
	}

	page := markdownPage(f.Name(), pageURL, md.Title, md.OGSiteName, resp.Data.Markdown, f.maxChars)
	page.Language = md.Language
	return page, nil
}
