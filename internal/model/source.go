package model

// TargetSourceID is the id of the brand under analysis. It is always the
// first source of a run.
const TargetSourceID = "S1"

// Source is one brand's content tagged with a stable id for cross-stage
// reference.
type Source struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Content  string `json:"content"`
	IsTarget bool   `json:"is_target"`
}

// ExtractedPage is what the URL extractor returns for a page.
type ExtractedPage struct {
	Title     string `json:"title"`
	Brand     string `json:"brand"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	WordCount int    `json:"wordCount"`
	Language  string `json:"language,omitempty"`
	Source    string `json:"-"`
}

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// ScrapedCompetitor is a competitor page found through search and extracted.
type ScrapedCompetitor struct {
	Brand     string `json:"brand"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	WordCount int    `json:"wordCount"`
}
