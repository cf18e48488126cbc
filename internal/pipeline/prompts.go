package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/aeo-cli/internal/model"
)

// Stage ids as they appear in progress events and report metadata.
const (
	StageAnswerSimulator  = "agent1"
	StageVisibilityJudge  = "agent2"
	StageGapAnalyzer      = "agent3"
	StageFixPackGenerator = "agent4"
	StageQualityReviewer  = "agent5"

	// Pseudo-stages that only emit thoughts.
	StagePrep    = "prep"
	StageScoring = "scoring"
)

// --- Stage 1: Answer Simulator ---

// SimulatorInput feeds the Answer Simulator.
type SimulatorInput struct {
	Sources    []model.Source
	Query      string
	EngineMode model.EngineMode
}

const simulatorSystem = `SYSTEM RULES:
- Respond with one JSON object that follows the schema in the user message.
- No markdown and no text before or after the JSON.
- Work only from the supplied sources. Do not invent facts.
- Say so explicitly when something is uncertain.
- Cite sources inline in long_answer by id ([S1], [S2], ...).
- Be thorough but keep it tight.

TASK:
Act as a generative AI answer engine answering the user's query from the supplied sources only.
Produce a headline, a 2-3 sentence short answer, a detailed long answer with inline citations and 3 follow-up questions.
Record which source ids back each major claim.`

var engineModeStyle = map[model.EngineMode]string{
	model.EngineModeChat:       "Conversational, helpful and warm. Use natural language.",
	model.EngineModeSearchCard: "Compact, structured and factual. Prefer bullet points where they help.",
	model.EngineModeEnterprise: "Formal, authoritative and policy-like. Be precise and comprehensive.",
}

const simulatorUser = `ENGINE MODE: %s
Style instruction: %s

USER QUERY:
%s

SOURCES:
%s

OUTPUT JSON SCHEMA:
{
  "answer": {
    "headline": "string (short headline that answers the query)",
    "short_answer": "string (2-3 sentence summary)",
    "long_answer": "string (full answer with inline [S1], [S2] citations)",
    "follow_ups": ["string", "string", "string"]
  },
  "citations": [
    { "claim": "string (a specific claim from the answer)", "source_ids": ["S1"] }
  ],
  "sources_used": ["S1", "S2"],
  "confidence": 0.85
}

Return only the JSON object.`

// AnswerSimulator simulates an answer engine response built from the sources.
var AnswerSimulator = Contract[SimulatorInput, model.AnswerSimulation]{
	Info: model.StageInfo{
		ID:          StageAnswerSimulator,
		Name:        "Answer Simulator",
		Role:        "Generative Answer Engine",
		Emoji:       "🤖",
		Description: "Simulates how an AI answer engine such as ChatGPT, Perplexity or Google SGE would answer the query using only the provided sources",
	},
	System: func() string { return simulatorSystem },
	User: func(in SimulatorInput) string {
		mode := in.EngineMode
		if !mode.Valid() {
			mode = model.EngineModeChat
		}
		return fmt.Sprintf(simulatorUser, mode, engineModeStyle[mode], in.Query, FormatSourcesForPrompt(in.Sources))
	},
}

// --- Stage 2: Visibility Judge ---

// JudgeInput feeds the Visibility Judge.
type JudgeInput struct {
	Answer  model.AnswerSimulation
	Sources []model.Source
}

const judgeSystem = `SYSTEM RULES:
- Respond with one JSON object that follows the schema in the user message.
- No text outside the JSON.
- Numerical scores must be precise.

TASK:
Act as a brand visibility analyst. Judge how prominently the TARGET brand (source id "S1") shows up in the simulated AI answer.
Weigh S1's presence against every other source and score prominence from 0.0 (absent) to 1.0 (dominant).
Give concrete reasons, and name the sources the answer leaned on instead of S1 with the reason for each.`

const judgeUser = `TARGET SOURCE ID: "%s" (the brand under evaluation)

SIMULATED ANSWER (from the Answer Simulator):
%s

ALL SOURCES:
%s

OUTPUT JSON SCHEMA:
{
  "is_cited": true,
  "prominence_score": 0.0,
  "citation_strength": "weak|medium|strong",
  "reasons": ["string (why visibility is what it is)"],
  "what_ai_preferred": [
    { "preferred_source_id": "S2", "why": "string (why the answer favored this source)" }
  ]
}

Return only the JSON object.`

// VisibilityJudge scores how visible the target brand is in the simulated answer.
var VisibilityJudge = Contract[JudgeInput, model.VisibilityJudgment]{
	Info: model.StageInfo{
		ID:          StageVisibilityJudge,
		Name:        "Visibility Judge",
		Role:        "Brand Citation Evaluator",
		Emoji:       "👁️",
		Description: "Evaluates how prominently the target brand (S1) was cited in the simulated AI answer compared to competitors",
	},
	System: func() string { return judgeSystem },
	User: func(in JudgeInput) string {
		return fmt.Sprintf(judgeUser, model.TargetSourceID, indentJSON(in.Answer), FormatSourcesForPrompt(in.Sources))
	},
	Validate: model.VisibilityJudgment.Validate,
}

// --- Stage 3: Gap Analyzer ---

// GapInput feeds the Gap Analyzer.
type GapInput struct {
	Query      string
	Answer     model.AnswerSimulation
	Visibility model.VisibilityJudgment
	Sources    []model.Source
}

func gapSystem() string {
	var b strings.Builder
	b.WriteString(`SYSTEM RULES:
- Respond with one JSON object that follows the schema in the user message.
- No text outside the JSON.
- Back every gap with real quotes taken from the source content.
- Be specific and point at actual phrases and structure in the sources.
- Every gap needs a concrete fix instruction.

TASK:
Act as an AI visibility gap analyst. Explain why target source S1 was left out of, or only weakly cited in,
the simulated AI answer. Compare S1 with the competitor sources and tag each gap with a category and a severity.

CATEGORIES (use these exact strings):
`)
	for _, c := range model.GapCategories {
		b.WriteString("- " + string(c) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

const gapUser = `USER QUERY:
%s

SIMULATED ANSWER (from the Answer Simulator):
%s

VISIBILITY ASSESSMENT (from the Visibility Judge):
%s

ALL SOURCES:
%s

OUTPUT JSON SCHEMA:
{
  "overall_diagnosis": "string (1-2 sentences on why S1 underperforms)",
  "gaps": [
    {
      "category": "one of the categories listed above",
      "severity": "low|medium|high",
      "what_is_missing": "string (the specific missing element)",
      "why_it_matters_for_ai": "string (why answer engines care)",
      "evidence_target": { "quote": "string (verbatim from S1, or 'N/A')", "source_id": "S1" },
      "evidence_other": { "quote": "string (verbatim from a competitor, or 'N/A')", "source_id": "S2" },
      "fix_instruction": "string (specific and actionable)"
    }
  ],
  "top_3_quick_wins": ["string", "string", "string"]
}

Find at least 3-5 gaps. Be thorough. Return only the JSON object.`

// GapAnalyzer explains, with evidence, why the target was weakly cited.
var GapAnalyzer = Contract[GapInput, model.GapAnalysis]{
	Info: model.StageInfo{
		ID:          StageGapAnalyzer,
		Name:        "Gap Analyzer",
		Role:        "Content Gap Explainer",
		Emoji:       "🔍",
		Description: "Identifies exactly why the target brand content was not selected or weakly cited, with evidence quotes and actionable fix instructions",
	},
	System: gapSystem,
	User: func(in GapInput) string {
		return fmt.Sprintf(gapUser, in.Query, indentJSON(in.Answer), indentJSON(in.Visibility), FormatSourcesForPrompt(in.Sources))
	},
	Validate: model.GapAnalysis.Validate,
}

// --- Stage 4: Fix Pack Generator ---

// FixPackInput feeds the Fix Pack Generator. TargetContent is the raw,
// uncapped target text.
type FixPackInput struct {
	Query         string
	TargetContent string
	Gaps          model.GapAnalysis
}

const fixPackSystem = `SYSTEM RULES:
- Respond with one JSON object that follows the schema in the user message.
- No text outside the JSON.
- Never invent product claims. Where evidence is needed write a placeholder such as [ADD PROOF: case study] or [INSERT STAT].
- Keep every block AI-ready: clear structure, direct answers, factual tone, no marketing fluff.
- Address each gap the Gap Analyzer reported.

TASK:
Act as an AI visibility content engineer. Build a complete fix pack for the target brand from the gap analysis.
Every block must be ready to paste and shaped for citation by AI answer engines.`

const fixPackUser = `USER QUERY:
%s

CURRENT TARGET CONTENT (S1):
%s

GAP ANALYSIS (from the Gap Analyzer):
%s

OUTPUT JSON SCHEMA:
{
  "fix_pack": {
    "answer_block": "string (3-5 sentence AI-ready paragraph that answers the query directly)",
    "faq": [
      { "q": "string (a question real users ask)", "a": "string (short factual answer)" }
    ],
    "comparison_snippet": "string (neutral comparison as a markdown table)",
    "entity_summary": {
      "organization": "string",
      "product_or_service": "string",
      "ideal_for": ["string"],
      "key_features": ["string"],
      "differentiators": ["string"],
      "trust_signals_to_add": ["string (specific proof or signal to add)"]
    },
    "schema_suggestions": [
      { "type": "FAQPage|Organization|Product|Service|Article", "fields": ["string"] }
    ],
    "internal_link_anchors": ["string", "string", "string"]
  }
}

Write at least 4-5 FAQ items. Return only the JSON object.`

// FixPackGenerator produces paste-ready content blocks that close the gaps.
var FixPackGenerator = Contract[FixPackInput, model.FixPackOutput]{
	Info: model.StageInfo{
		ID:          StageFixPackGenerator,
		Name:        "Fix Pack Generator",
		Role:        "AI-Ready Content Builder",
		Emoji:       "🔧",
		Description: "Generates copy-paste-ready content blocks (answer block, FAQs, comparison, entity summary, schema suggestions) to fix the identified gaps",
	},
	System: func() string { return fixPackSystem },
	User: func(in FixPackInput) string {
		return fmt.Sprintf(fixPackUser, in.Query, in.TargetContent, indentJSON(in.Gaps))
	},
}

// --- Stage 5: Quality Reviewer ---

// ReviewInput feeds the Quality Reviewer.
type ReviewInput struct {
	Query      string
	Brand      string
	Answer     model.AnswerSimulation
	Visibility model.VisibilityJudgment
	Gaps       model.GapAnalysis
	FixPack    model.FixPackOutput
	Score      model.Score
}

const reviewSystem = `SYSTEM RULES:
- Respond with one JSON object that follows the schema in the user message.
- No text outside the JSON.
- Be brief but insightful.
- Focus on whether the stage outputs agree with each other and whether the recommendations are actionable.

TASK:
Act as the quality reviewer of a multi-stage AI analysis. You are given:
1. The simulated AI answer
2. The visibility judgment
3. The gap analysis
4. The fix pack
5. The deterministic AEO score

Then:
- Check the outputs for consistency with one another
- Pull out the most impactful insights across the analysis
- Write an executive summary for a marketing or growth team
- Give 3-5 prioritized recommendations
- Grade the overall quality of the analysis`

const reviewUser = `USER QUERY: %s
BRAND: %s
AEO SCORE: %d/100

SIMULATED ANSWER:
%s

VISIBILITY JUDGMENT:
%s

GAP ANALYSIS (%d gaps found):
Overall: %s
Quick wins: %s

FIX PACK:
Answer block length: %d chars
FAQs generated: %d
Schema suggestions: %d

SCORE BREAKDOWN:
%s

OUTPUT JSON SCHEMA:
{
  "quality_review": {
    "overall_quality": "excellent|good|needs_improvement|poor",
    "consistency_score": 0.0,
    "key_insights": ["string (top 3-5 insights across the analysis)"],
    "recommendations": ["string (prioritized actions for the brand team)"],
    "executive_summary": "string (2-3 sentences fit for a chat message to the marketing lead)"
  }
}

Return only the JSON object.`

// QualityReviewer audits the other stages and writes the executive summary.
var QualityReviewer = Contract[ReviewInput, model.QualityReviewOutput]{
	Info: model.StageInfo{
		ID:          StageQualityReviewer,
		Name:        "Quality Reviewer",
		Role:        "Multi-Agent Output Auditor",
		Emoji:       "✨",
		Description: "Reviews the outputs of the four analysis stages for consistency, quality and actionability, then writes an executive summary and recommendations",
	},
	System: func() string { return reviewSystem },
	User: func(in ReviewInput) string {
		fp := in.FixPack.FixPack
		return fmt.Sprintf(reviewUser,
			in.Query,
			in.Brand,
			in.Score.AEOTotal,
			indentJSON(in.Answer),
			indentJSON(in.Visibility),
			len(in.Gaps.Gaps),
			in.Gaps.OverallDiagnosis,
			strings.Join(in.Gaps.Top3QuickWins, "; "),
			len([]rune(fp.AnswerBlock)),
			len(fp.FAQ),
			len(fp.SchemaSuggestions),
			indentJSON(in.Score.Breakdown),
		)
	},
}
