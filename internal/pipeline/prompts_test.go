package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/aeo-cli/internal/model"
)

func TestAnswerSimulatorUser_EngineModes(t *testing.T) {
	tests := []struct {
		mode model.EngineMode
		want string
	}{
		{model.EngineModeChat, "Conversational"},
		{model.EngineModeSearchCard, "bullet points"},
		{model.EngineModeEnterprise, "policy-like"},
		{"", "Conversational"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			user := AnswerSimulator.User(SimulatorInput{Query: "q", EngineMode: tt.mode})
			assert.Contains(t, user, tt.want)
			assert.Contains(t, user, "OUTPUT JSON SCHEMA")
		})
	}
}

func TestSystemPromptsShareLayout(t *testing.T) {
	for _, sys := range []string{
		AnswerSimulator.System(),
		VisibilityJudge.System(),
		GapAnalyzer.System(),
		FixPackGenerator.System(),
		QualityReviewer.System(),
		syntheticContract(2).System(),
	} {
		assert.True(t, strings.HasPrefix(sys, "SYSTEM RULES:"))
		assert.Contains(t, sys, "TASK:")
	}
}

func TestGapAnalyzerSystem_ListsCategories(t *testing.T) {
	sys := GapAnalyzer.System()
	for _, c := range model.GapCategories {
		assert.Contains(t, sys, "- "+string(c))
	}
}

func TestVisibilityJudgeUser_EmbedsAnswer(t *testing.T) {
	user := VisibilityJudge.User(JudgeInput{
		Answer:  model.AnswerSimulation{Answer: model.SimulatedAnswer{Headline: "Headline X"}},
		Sources: []model.Source{{ID: "S1", Brand: "Acme"}},
	})
	assert.Contains(t, user, `TARGET SOURCE ID: "S1"`)
	assert.Contains(t, user, `"headline": "Headline X"`)
	assert.Contains(t, user, `"brand": "Acme"`)
}

func TestFixPackUser_UsesRawTargetContent(t *testing.T) {
	raw := strings.Repeat("z", MaxContentChars+10)
	user := FixPackGenerator.User(FixPackInput{Query: "q", TargetContent: raw})
	assert.Contains(t, user, raw)
}

func TestFixPackSystem_RequiresProofPlaceholders(t *testing.T) {
	system := FixPackGenerator.System()
	assert.Contains(t, system, "Never invent product claims")
	assert.Contains(t, system, "[ADD PROOF")
}

func TestQualityReviewerUser_Summaries(t *testing.T) {
	user := QualityReviewer.User(ReviewInput{
		Query: "best CRM",
		Brand: "Acme",
		Gaps: model.GapAnalysis{
			OverallDiagnosis: "thin content",
			Gaps:             []model.Gap{{}, {}},
			Top3QuickWins:    []string{"a", "b", "c"},
		},
		FixPack: model.FixPackOutput{FixPack: model.FixPack{
			AnswerBlock: "héllo",
			FAQ:         []model.FAQItem{{Q: "q"}},
		}},
		Score: model.Score{AEOTotal: 65, Breakdown: model.ScoreBreakdown{FAQ: 20}},
	})

	assert.Contains(t, user, "BRAND: Acme")
	assert.Contains(t, user, "AEO SCORE: 65/100")
	assert.Contains(t, user, "GAP ANALYSIS (2 gaps found)")
	assert.Contains(t, user, "Quick wins: a; b; c")
	assert.Contains(t, user, "Answer block length: 5 chars")
	assert.Contains(t, user, "FAQs generated: 1")
	assert.Contains(t, user, "Schema suggestions: 0")
	assert.Contains(t, user, `"faq": 20`)
}

func TestSyntheticContract(t *testing.T) {
	c := syntheticContract(3)
	assert.Equal(t, StagePrep, c.Info.ID)
	assert.Contains(t, c.System(), "Generate 3 synthetic")
	assert.Equal(t, 3, strings.Count(c.User(SyntheticInput{Query: "q", TargetBrand: "Acme"}), `"brand":`))

	assert.Contains(t, syntheticContract(0).System(), "Generate 2 synthetic")

	assert.Error(t, c.Validate(model.SyntheticCompetitors{}))
	assert.Error(t, c.Validate(model.SyntheticCompetitors{Competitors: []model.BrandContent{{Brand: "x", Content: " "}}}))
	assert.NoError(t, c.Validate(model.SyntheticCompetitors{Competitors: []model.BrandContent{{Brand: "x", Content: "y"}}}))
}
