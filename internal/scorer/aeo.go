// Package scorer computes the deterministic AEO score from stage outputs.
package scorer

import (
	"github.com/sells-group/aeo-cli/internal/model"
)

// Dimension weights (sum = 100).
const (
	DirectAnswerWeight = 20
	FAQWeight          = 20
	DefinitionsWeight  = 15
	ComparisonWeight   = 15
	TrustWeight        = 10
	StructureWeight    = 10
	CitationWeight     = 10
)

// MaxScore is the highest possible aeo_total.
const MaxScore = DirectAnswerWeight + FAQWeight + DefinitionsWeight +
	ComparisonWeight + TrustWeight + StructureWeight + CitationWeight

// dimension ties a breakdown slot to the gap category that zeroes it.
type dimension struct {
	category model.GapCategory
	weight   int
	slot     func(*model.ScoreBreakdown) *int
}

var gapDimensions = []dimension{
	{model.GapDirectAnswerMissing, DirectAnswerWeight, func(b *model.ScoreBreakdown) *int { return &b.DirectAnswer }},
	{model.GapMissingFAQ, FAQWeight, func(b *model.ScoreBreakdown) *int { return &b.FAQ }},
	{model.GapMissingDefinitions, DefinitionsWeight, func(b *model.ScoreBreakdown) *int { return &b.Definitions }},
	{model.GapMissingComparison, ComparisonWeight, func(b *model.ScoreBreakdown) *int { return &b.Comparison }},
	{model.GapMissingTrustSignals, TrustWeight, func(b *model.ScoreBreakdown) *int { return &b.Trust }},
	{model.GapWeakStructure, StructureWeight, func(b *model.ScoreBreakdown) *int { return &b.Structure }},
}

// ComputeAEO scores the target from the visibility judgment and the gap
// analysis. A dimension keeps its full weight unless a gap of its category
// has severity high; medium and low gaps never cost points. Citation is all
// or nothing on is_cited.
func ComputeAEO(v model.VisibilityJudgment, g model.GapAnalysis) model.Score {
	var b model.ScoreBreakdown
	for _, d := range gapDimensions {
		if !hasHighSeverityGap(g.Gaps, d.category) {
			*d.slot(&b) = d.weight
		}
	}
	if v.IsCited {
		b.Citation = CitationWeight
	}
	return model.Score{AEOTotal: b.Sum(), Breakdown: b}
}

func hasHighSeverityGap(gaps []model.Gap, category model.GapCategory) bool {
	for _, gap := range gaps {
		if gap.Category == category && gap.Severity == model.SeverityHigh {
			return true
		}
	}
	return false
}
