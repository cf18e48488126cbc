package scrape

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/internal/model"
)

const (
	// DefaultCompetitorCount is how many competitors a search returns.
	DefaultCompetitorCount = 3
	maxCompetitorSearch    = 8
	minCompetitorChars     = 100
	competitorConcurrency  = 4
)

// NoResultsMessage is returned when the web search finds nothing.
const NoResultsMessage = "Web search returned no results. Try the synthetic competitor generator instead."

// CompetitorSearch is the outcome of a competitor discovery run.
type CompetitorSearch struct {
	Competitors   []model.ScrapedCompetitor `json:"competitors"`
	SearchResults []model.SearchResult      `json:"searchResults,omitempty"`
	Message       string                    `json:"message,omitempty"`
}

// CompetitorFinder searches the web for pages answering a query and
// extracts them as competitor content.
type CompetitorFinder struct {
	searcher Searcher
	chain    *Chain
}

// NewCompetitorFinder creates a CompetitorFinder.
func NewCompetitorFinder(searcher Searcher, chain *Chain) *CompetitorFinder {
	return &CompetitorFinder{searcher: searcher, chain: chain}
}

// Find searches for query, excluding the brand's own .com site, extracts
// the top hits in parallel, and keeps up to count with enough text.
func (f *CompetitorFinder) Find(ctx context.Context, query, brand string, count int) (*CompetitorSearch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &model.ValidationError{Field: "query", Message: "Query is required"}
	}
	if count <= 0 {
		count = DefaultCompetitorCount
	}

	fetch := min(count+2, maxCompetitorSearch)
	results, err := f.searcher.Search(ctx, CompetitorQuery(query, brand), fetch)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		zap.L().Warn("scrape: competitor search failed",
			zap.String("searcher", f.searcher.Name()),
			zap.Error(err),
		)
		results = nil
	}
	if len(results) == 0 {
		return &CompetitorSearch{Competitors: []model.ScrapedCompetitor{}, Message: NoResultsMessage}, nil
	}
	if len(results) > fetch {
		results = results[:fetch]
	}

	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.URL
	}
	pages := f.chain.ExtractAll(ctx, urls, competitorConcurrency)

	competitors := make([]model.ScrapedCompetitor, 0, count)
	for i, page := range pages {
		if len(competitors) >= count {
			break
		}
		if page == nil || len(page.Content) < minCompetitorChars {
			continue
		}
		competitors = append(competitors, model.ScrapedCompetitor{
			Brand:     firstNonEmpty(page.Brand, brandFromTitle(results[i].Title)),
			Content:   page.Content,
			URL:       results[i].URL,
			Title:     firstNonEmpty(page.Title, results[i].Title),
			WordCount: page.WordCount,
		})
	}

	zap.L().Info("scrape: competitor search complete",
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.Int("competitors", len(competitors)),
	)

	return &CompetitorSearch{Competitors: competitors, SearchResults: results}, nil
}

// CompetitorQuery appends a -site: exclusion for the brand's own domain.
func CompetitorQuery(query, brand string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(brand), ""))
	if slug == "" {
		return query
	}
	return query + " -site:" + slug + ".com"
}

// brandFromTitle takes the part of a result title before " - " or " | ".
func brandFromTitle(title string) string {
	title, _, _ = strings.Cut(title, " - ")
	title, _, _ = strings.Cut(title, " | ")
	return strings.TrimSpace(title)
}
