package scrape

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/pkg/firecrawl"
	"github.com/sells-group/aeo-cli/pkg/jina"
)

type mockJina struct{ mock.Mock }

func (m *mockJina) Read(ctx context.Context, targetURL string) (*jina.ReadResponse, error) {
	args := m.Called(ctx, targetURL)
	resp, _ := args.Get(0).(*jina.ReadResponse)
	return resp, args.Error(1)
}

func (m *mockJina) Search(ctx context.Context, query string) (*jina.SearchResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).(*jina.SearchResponse)
	return resp, args.Error(1)
}

type mockFirecrawl struct{ mock.Mock }

func (m *mockFirecrawl) Scrape(ctx context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*firecrawl.ScrapeResponse)
	return resp, args.Error(1)
}

// mockScraper implements Scraper for testing.
type mockScraper struct {
	name     string
	supports bool
	page     *model.ExtractedPage
	err      error
	calls    int
}

func (m *mockScraper) Name() string           { return m.name }
func (m *mockScraper) Supports(_ string) bool { return m.supports }

func (m *mockScraper) Scrape(_ context.Context, _ string) (*model.ExtractedPage, error) {
	m.calls++
	return m.page, m.err
}

// staticScraper serves canned pages by URL.
type staticScraper struct {
	pages map[string]*model.ExtractedPage
}

func (s staticScraper) Name() string           { return "static" }
func (s staticScraper) Supports(_ string) bool { return true }

func (s staticScraper) Scrape(_ context.Context, u string) (*model.ExtractedPage, error) {
	if p, ok := s.pages[u]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, &model.SourceExtractionError{URL: u, Reason: "not found"}
}
