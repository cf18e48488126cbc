package pipeline

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/model"
)

// DefaultSyntheticCompetitors is how many brands the generator asks for.
const DefaultSyntheticCompetitors = 2

// SyntheticInput feeds the synthetic competitor generator.
type SyntheticInput struct {
	Query       string
	TargetBrand string
}

const syntheticSystem = `SYSTEM RULES:
- Respond with one JSON object that follows the schema.
- No other text.
- Write realistic, well-structured competitor content.
- Each competitor's content should be AI-friendly: clear structure, direct answers, specific details.

TASK:
Generate %d synthetic competitor brand pages for the given query.
They should be strong and well structured, the way content optimized for AI answer engines looks.`

const syntheticUser = `USER QUERY: %s
TARGET BRAND (to compete against): %s

OUTPUT JSON SCHEMA:
{
  "competitors": [
%s
  ]
}

Return only the JSON object. No other text.`

const syntheticEntry = `    {
      "brand": "string (realistic brand name, not a real company)",
      "content": "string (300-500 words with clear headings, definitions, comparisons and trust signals)"
    }`

// syntheticContract builds the generator for count brands. It runs under
// the "prep" id and never appears in report metadata.
func syntheticContract(count int) Contract[SyntheticInput, model.SyntheticCompetitors] {
	if count <= 0 {
		count = DefaultSyntheticCompetitors
	}
	return Contract[SyntheticInput, model.SyntheticCompetitors]{
		Info: model.StageInfo{
			ID:          StagePrep,
			Name:        "Synthetic Competitors",
			Role:        "Competitor Content Generator",
			Emoji:       "🧪",
			Description: "Generates AI-optimized competitor pages when none were supplied",
		},
		System: func() string { return fmt.Sprintf(syntheticSystem, count) },
		User: func(in SyntheticInput) string {
			entries := make([]string, count)
			for i := range entries {
				entries[i] = syntheticEntry
			}
			return fmt.Sprintf(syntheticUser, in.Query, in.TargetBrand, strings.Join(entries, ",\n"))
		},
		Validate: validateSynthetic,
	}
}

func validateSynthetic(out model.SyntheticCompetitors) error {
	for _, c := range out.Competitors {
		if strings.TrimSpace(c.Content) != "" {
			return nil
		}
	}
	return eris.New("no competitor with content was generated")
}
