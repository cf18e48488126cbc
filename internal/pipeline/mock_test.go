package pipeline

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"
)

// --- Gateway Mock ---

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) Model() string {
	return "test-model"
}

// systemContains matches a system prompt by a distinctive phrase.
func systemContains(phrase string) any {
	return mock.MatchedBy(func(system string) bool {
		return strings.Contains(system, phrase)
	})
}

// Phrases that identify each contract's system prompt.
const (
	phraseSimulator = "Act as a generative AI answer engine"
	phraseJudge     = "Act as a brand visibility analyst"
	phraseGaps      = "Act as an AI visibility gap analyst"
	phraseFixPack   = "Act as an AI visibility content engineer"
	phraseReview    = "Act as the quality reviewer"
	phraseSynthetic = "synthetic competitor brand pages"
)

// --- Fixtures ---

const simulatorJSON = `{
  "answer": {
    "headline": "Top CRMs for small teams",
    "short_answer": "BetaCRM leads on price [S2].",
    "long_answer": "BetaCRM offers a free tier [S2]. Acme focuses on support [S1].",
    "follow_ups": ["Which CRM is cheapest?", "Does Acme integrate with email?", "What is a CRM?"]
  },
  "citations": [{"claim": "BetaCRM has a free tier", "source_ids": ["S2"]}],
  "sources_used": ["S1", "S2"],
  "confidence": 0.8
}`

const judgeCitedJSON = `{
  "is_cited": true,
  "prominence_score": 0.35,
  "citation_strength": "weak",
  "reasons": ["S1 appears once, late in the answer"],
  "what_ai_preferred": [{"preferred_source_id": "S2", "why": "direct pricing answer"}]
}`

const judgeNotCitedJSON = `{
  "is_cited": false,
  "prominence_score": 0,
  "citation_strength": "weak",
  "reasons": ["S1 is never mentioned"],
  "what_ai_preferred": [{"preferred_source_id": "S2", "why": "clear definitions"}]
}`

const gapsJSON = `{
  "overall_diagnosis": "S1 lacks a direct answer and FAQ coverage.",
  "gaps": [
    {
      "category": "missing_faq",
      "severity": "high",
      "what_is_missing": "An FAQ section",
      "why_it_matters_for_ai": "Engines lift Q&A pairs verbatim",
      "evidence_target": {"quote": "N/A", "source_id": "S1"},
      "evidence_other": {"quote": "Q: Is there a free plan?", "source_id": "S2"},
      "fix_instruction": "Add five FAQs"
    },
    {
      "category": "over_marketing_language",
      "severity": "medium",
      "what_is_missing": "Neutral tone",
      "why_it_matters_for_ai": "Promotional copy is discounted",
      "evidence_target": {"quote": "the best CRM ever", "source_id": "S1"},
      "evidence_other": {"quote": "N/A", "source_id": "S2"},
      "fix_instruction": "Replace superlatives with facts"
    },
    {
      "category": "missing_comparison",
      "severity": "low",
      "what_is_missing": "A comparison table",
      "why_it_matters_for_ai": "Comparisons answer shopping queries",
      "evidence_target": {"quote": "N/A", "source_id": "S1"},
      "evidence_other": {"quote": "BetaCRM vs others", "source_id": "S2"},
      "fix_instruction": "Add a comparison table"
    }
  ],
  "top_3_quick_wins": ["Add FAQ", "Tone down copy", "Add comparison"]
}`

const fixPackJSON = "```json\n" + `{
  "fix_pack": {
    "answer_block": "Acme is a CRM for small teams.",
    "faq": [{"q": "Is there a free plan?", "a": "[INSERT STAT]"}],
    "comparison_snippet": "| CRM | Price |",
    "entity_summary": {
      "organization": "Acme",
      "product_or_service": "CRM",
      "ideal_for": ["small teams"],
      "key_features": ["pipelines"],
      "differentiators": ["support"],
      "trust_signals_to_add": ["[ADD PROOF: case study]"]
    },
    "schema_suggestions": [{"type": "FAQPage", "fields": ["mainEntity"]}],
    "internal_link_anchors": ["pricing", "features", "support"]
  }
}` + "\n```"

const reviewJSON = `Here is the review: {
  "quality_review": {
    "overall_quality": "good",
    "consistency_score": 0.9,
    "key_insights": ["FAQ coverage is the biggest lever"],
    "recommendations": ["Publish an FAQ"],
    "executive_summary": "Acme is weakly cited; adding FAQs should help."
  }
} Let me know if you need more.`

const syntheticJSON = `{
  "competitors": [
    {"brand": "NimbusCRM", "content": "## What is NimbusCRM\nNimbusCRM is a CRM for startups."},
    {"brand": "OrbitSales", "content": "## OrbitSales\nOrbitSales compares favorably on price."}
  ]
}`
