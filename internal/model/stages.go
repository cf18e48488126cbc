package model

import (
	"fmt"
	"sort"
)

// --- Stage 1: answer simulation ---

// SimulatedAnswer is the answer text an engine would show.
type SimulatedAnswer struct {
	Headline    string   `json:"headline"`
	ShortAnswer string   `json:"short_answer"`
	LongAnswer  string   `json:"long_answer"`
	FollowUps   []string `json:"follow_ups"`
}

// Citation ties one claim in the answer to the sources backing it.
type Citation struct {
	Claim     string   `json:"claim"`
	SourceIDs []string `json:"source_ids"`
}

// AnswerSimulation is the Answer Simulator output.
type AnswerSimulation struct {
	Answer      SimulatedAnswer `json:"answer"`
	Citations   []Citation      `json:"citations"`
	SourcesUsed []string        `json:"sources_used"`
	Confidence  float64         `json:"confidence"`
}

// --- Stage 2: visibility ---

// CitationStrength is a coarse tag for how strongly the target was cited.
type CitationStrength string

const (
	CitationWeak   CitationStrength = "weak"
	CitationMedium CitationStrength = "medium"
	CitationStrong CitationStrength = "strong"
)

// PreferredSource records a competing source the engine leaned on instead.
type PreferredSource struct {
	PreferredSourceID string `json:"preferred_source_id"`
	Why               string `json:"why"`
}

// VisibilityJudgment is the Visibility Judge output.
type VisibilityJudgment struct {
	IsCited          bool              `json:"is_cited"`
	ProminenceScore  float64           `json:"prominence_score"`
	CitationStrength CitationStrength  `json:"citation_strength"`
	Reasons          []string          `json:"reasons"`
	WhatAIPreferred  []PreferredSource `json:"what_ai_preferred"`
}

// Validate checks the enumerated fields.
func (v VisibilityJudgment) Validate() error {
	switch v.CitationStrength {
	case CitationWeak, CitationMedium, CitationStrong:
		return nil
	}
	return fmt.Errorf("citation_strength %q is not weak, medium or strong", v.CitationStrength)
}

// --- Stage 3: gaps ---

// GapCategory is one of the nine fixed gap tags.
type GapCategory string

const (
	GapDirectAnswerMissing     GapCategory = "direct_answer_missing"
	GapWeakStructure           GapCategory = "weak_structure_for_summarization"
	GapMissingDefinitions      GapCategory = "missing_definitions"
	GapMissingFAQ              GapCategory = "missing_faq"
	GapMissingComparison       GapCategory = "missing_comparison"
	GapMissingTrustSignals     GapCategory = "missing_trust_signals"
	GapMissingSpecificity      GapCategory = "missing_specificity"
	GapOutdatedOrUncertainInfo GapCategory = "outdated_or_uncertain_info"
	GapOverMarketingLanguage   GapCategory = "over_marketing_language"
)

// GapCategories lists every valid category in prompt order.
var GapCategories = []GapCategory{
	GapDirectAnswerMissing,
	GapWeakStructure,
	GapMissingDefinitions,
	GapMissingFAQ,
	GapMissingComparison,
	GapMissingTrustSignals,
	GapMissingSpecificity,
	GapOutdatedOrUncertainInfo,
	GapOverMarketingLanguage,
}

// Valid reports whether c is in the fixed category set.
func (c GapCategory) Valid() bool {
	for _, known := range GapCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Severity grades a gap.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities for display: high sorts first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether s is low, medium or high.
func (s Severity) Valid() bool {
	return s.Rank() < 3
}

// Evidence is a quote pulled from a specific source.
type Evidence struct {
	Quote    string `json:"quote"`
	SourceID string `json:"source_id"`
}

// Gap is an evidenced deficiency in the target content.
type Gap struct {
	Category          GapCategory `json:"category"`
	Severity          Severity    `json:"severity"`
	WhatIsMissing     string      `json:"what_is_missing"`
	WhyItMattersForAI string      `json:"why_it_matters_for_ai"`
	EvidenceTarget    Evidence    `json:"evidence_target"`
	EvidenceOther     Evidence    `json:"evidence_other"`
	FixInstruction    string      `json:"fix_instruction"`
}

// GapAnalysis is the Gap Analyzer output.
type GapAnalysis struct {
	OverallDiagnosis string   `json:"overall_diagnosis"`
	Gaps             []Gap    `json:"gaps"`
	Top3QuickWins    []string `json:"top_3_quick_wins"`
}

// Validate rejects gaps outside the fixed category or severity sets.
func (g GapAnalysis) Validate() error {
	for i, gap := range g.Gaps {
		if !gap.Category.Valid() {
			return fmt.Errorf("gap %d: unknown category %q", i, gap.Category)
		}
		if !gap.Severity.Valid() {
			return fmt.Errorf("gap %d: unknown severity %q", i, gap.Severity)
		}
	}
	return nil
}

// SortGapsBySeverity returns a copy of gaps ordered high, medium, low.
// Gaps of equal severity keep their original order.
func SortGapsBySeverity(gaps []Gap) []Gap {
	sorted := make([]Gap, len(gaps))
	copy(sorted, gaps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	return sorted
}

// --- Stage 4: fix pack ---

// FAQItem is a question/answer pair.
type FAQItem struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// EntitySummary is a structured description of the target brand.
type EntitySummary struct {
	Organization      string   `json:"organization"`
	ProductOrService  string   `json:"product_or_service"`
	IdealFor          []string `json:"ideal_for"`
	KeyFeatures       []string `json:"key_features"`
	Differentiators   []string `json:"differentiators"`
	TrustSignalsToAdd []string `json:"trust_signals_to_add"`
}

// SchemaSuggestion proposes a schema.org type and the fields to fill.
type SchemaSuggestion struct {
	Type   string   `json:"type"`
	Fields []string `json:"fields"`
}

// FixPack is the set of copy-ready remediation blocks.
type FixPack struct {
	AnswerBlock         string             `json:"answer_block"`
	FAQ                 []FAQItem          `json:"faq"`
	ComparisonSnippet   string             `json:"comparison_snippet"`
	EntitySummary       EntitySummary      `json:"entity_summary"`
	SchemaSuggestions   []SchemaSuggestion `json:"schema_suggestions"`
	InternalLinkAnchors []string           `json:"internal_link_anchors"`
}

// FixPackOutput is the Fix Pack Generator output.
type FixPackOutput struct {
	FixPack FixPack `json:"fix_pack"`
}

// --- Stage 5: quality review ---

// QualityTier is the reviewer's overall grade.
type QualityTier string

const (
	QualityExcellent        QualityTier = "excellent"
	QualityGood             QualityTier = "good"
	QualityNeedsImprovement QualityTier = "needs_improvement"
	QualityPoor             QualityTier = "poor"
)

// QualityReview audits the other stages for consistency.
type QualityReview struct {
	OverallQuality   QualityTier `json:"overall_quality"`
	ConsistencyScore float64     `json:"consistency_score"`
	KeyInsights      []string    `json:"key_insights"`
	Recommendations  []string    `json:"recommendations"`
	ExecutiveSummary string      `json:"executive_summary"`
}

// QualityReviewOutput is the Quality Reviewer output.
type QualityReviewOutput struct {
	QualityReview QualityReview `json:"quality_review"`
}

// SyntheticCompetitors is the synthetic generator output.
type SyntheticCompetitors struct {
	Competitors []BrandContent `json:"competitors"`
}
