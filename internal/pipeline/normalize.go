package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/aeo-cli/internal/model"
)

const (
	// MaxContentChars caps each source's content so every stage prompt fits
	// the model context regardless of how much text was scraped.
	MaxContentChars = 6000

	// TruncationMarker is appended to content cut at the cap.
	TruncationMarker = "\n\n[Content truncated for analysis]"
)

// NormalizeSources builds the ordered source list for a run using the
// default content cap.
func NormalizeSources(req model.AnalyzeRequest) []model.Source {
	return normalizeSources(req, MaxContentChars)
}

// normalizeSources emits S1 for the target, then S{k+2} for every competitor
// k with non-blank content. Dropped competitors leave a hole in the
// numbering so ids stay stable for the caller's original list.
func normalizeSources(req model.AnalyzeRequest, maxChars int) []model.Source {
	sources := make([]model.Source, 0, len(req.Competitors)+1)
	sources = append(sources, model.Source{
		ID:       model.TargetSourceID,
		Brand:    strings.TrimSpace(req.Target.Brand),
		Content:  capContent(req.Target.Content, maxChars),
		IsTarget: true,
	})

	for i, c := range req.Competitors {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		sources = append(sources, model.Source{
			ID:      fmt.Sprintf("S%d", i+2),
			Brand:   strings.TrimSpace(c.Brand),
			Content: capContent(c.Content, maxChars),
		})
	}
	return sources
}

func capContent(content string, maxChars int) string {
	trimmed := strings.TrimSpace(content)
	if maxChars <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) <= maxChars {
		return trimmed
	}
	return string(runes[:maxChars]) + TruncationMarker
}

type promptSource struct {
	SourceID string `json:"source_id"`
	Brand    string `json:"brand"`
	Content  string `json:"content"`
}

// FormatSourcesForPrompt renders sources as the indented JSON array embedded
// in stage prompts.
func FormatSourcesForPrompt(sources []model.Source) string {
	out := make([]promptSource, len(sources))
	for i, s := range sources {
		out[i] = promptSource{SourceID: s.ID, Brand: s.Brand, Content: s.Content}
	}
	return indentJSON(out)
}

// indentJSON renders v with two-space indentation. Values passed here are
// plain data structs, so marshaling cannot fail.
func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
