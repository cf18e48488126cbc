// Package scrape extracts readable page content and discovers competitor
// pages through web search.
package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/aeo-cli/internal/model"
)

// DefaultMinChars is the shortest content accepted as a successful extraction.
const DefaultMinChars = 20

// JSRenderingHint is the reason reported when a page yields almost no text.
const JSRenderingHint = "Could not extract meaningful content from this URL. The page may require JavaScript rendering."

// ChainOptions configures a Chain.
type ChainOptions struct {
	MinChars       int
	DetectLanguage bool
}

// Chain tries scrapers in priority order, returning the first result with
// enough content.
type Chain struct {
	filter   *URLFilter
	scrapers []Scraper
	opts     ChainOptions
}

// NewChain creates a Chain. A nil filter uses the default exclusions.
func NewChain(filter *URLFilter, opts ChainOptions, scrapers ...Scraper) *Chain {
	if filter == nil {
		filter = NewURLFilter(nil, nil)
	}
	if opts.MinChars <= 0 {
		opts.MinChars = DefaultMinChars
	}
	return &Chain{filter: filter, scrapers: scrapers, opts: opts}
}

// Scrapers returns the scraper names in the order they are tried.
func (c *Chain) Scrapers() []string {
	names := make([]string, len(c.scrapers))
	for i, s := range c.scrapers {
		names[i] = s.Name()
	}
	return names
}

// Extract normalizes rawURL and runs it through the chain. A page that
// every scraper reads as near-empty yields a *model.SourceExtractionError.
func (c *Chain) Extract(ctx context.Context, rawURL string) (*model.ExtractedPage, error) {
	targetURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	if c.filter.IsExcluded(targetURL) {
		return nil, &model.SourceExtractionError{URL: targetURL, Reason: "url excluded by filter"}
	}

	var (
		lastErr error
		short   *model.ExtractedPage
	)
	for _, s := range c.scrapers {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "scrape: cancelled")
		}
		if !s.Supports(targetURL) {
			continue
		}
		page, err := s.Scrape(ctx, targetURL)
		if err != nil {
			zap.L().Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		if len(strings.TrimSpace(page.Content)) < c.opts.MinChars {
			zap.L().Debug("scrape: content too short, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Int("chars", len(page.Content)),
			)
			short = page
			continue
		}

		if c.opts.DetectLanguage && page.Language == "" {
			page.Language = DetectLanguage(page.Content)
		}
		zap.L().Debug("scrape: extracted",
			zap.String("scraper", s.Name()),
			zap.String("url", targetURL),
			zap.Int("words", page.WordCount),
		)
		return page, nil
	}

	if short != nil {
		return nil, &model.SourceExtractionError{URL: targetURL, Reason: JSRenderingHint}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no suitable scraper for url: %s", targetURL)
}

// ExtractAll extracts urls concurrently. Failed URLs leave a nil entry so
// results line up with the input.
func (c *Chain) ExtractAll(ctx context.Context, urls []string, maxConcurrent int) []*model.ExtractedPage {
	pages := make([]*model.ExtractedPage, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for i, u := range urls {
		g.Go(func() error {
			page, err := c.Extract(gCtx, u)
			if err != nil {
				zap.L().Debug("scrape: chain failed for url",
					zap.String("url", u),
					zap.Error(err),
				)
				return nil
			}
			pages[i] = page
			return nil
		})
	}
	_ = g.Wait()

	return pages
}

// NormalizeURL trims rawURL and adds an https:// scheme when none is given.
func NormalizeURL(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", &model.ValidationError{Field: "url", Message: "URL is required"}
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", &model.ValidationError{Field: "url", Message: "invalid URL"}
	}
	return u.String(), nil
}
