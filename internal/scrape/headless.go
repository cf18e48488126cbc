package scrape

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/model"
)

// HeadlessScraper renders a page in headless Chrome before extraction. It
// is reserved for client-rendered sites the plain HTTP fetch cannot read.
type HeadlessScraper struct {
	opts LocalOptions
}

// NewHeadlessScraper creates a HeadlessScraper. It shares LocalOptions with
// the HTTP scraper; RequestsPerSecond is ignored.
func NewHeadlessScraper(opts LocalOptions) *HeadlessScraper {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	return &HeadlessScraper{opts: opts}
}

func (h *HeadlessScraper) Name() string           { return "headless" }
func (h *HeadlessScraper) Supports(_ string) bool { return true }

// Scrape launches a browser, waits for the body, and extracts the rendered DOM.
func (h *HeadlessScraper) Scrape(ctx context.Context, targetURL string) (*model.ExtractedPage, error) {
	ctx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(h.opts.UserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var html, finalURL string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "headless: render %s", targetURL)
	}
	if finalURL == "" {
		finalURL = targetURL
	}

	page, err := ExtractContent(html, finalURL, h.opts.MaxChars)
	if err != nil {
		return nil, eris.Wrap(err, "headless: extract")
	}
	page.Source = h.Name()
	return page, nil
}
