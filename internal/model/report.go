package model

// ScoreBreakdown holds points per dimension. Maximums are direct_answer 20,
// faq 20, definitions 15, comparison 15, trust 10, structure 10, citation 10.
type ScoreBreakdown struct {
	DirectAnswer int `json:"direct_answer"`
	FAQ          int `json:"faq"`
	Definitions  int `json:"definitions"`
	Comparison   int `json:"comparison"`
	Trust        int `json:"trust"`
	Structure    int `json:"structure"`
	Citation     int `json:"citation"`
}

// Sum adds the seven dimensions.
func (b ScoreBreakdown) Sum() int {
	return b.DirectAnswer + b.FAQ + b.Definitions + b.Comparison + b.Trust + b.Structure + b.Citation
}

// Score is the deterministic AEO composite.
type Score struct {
	AEOTotal  int            `json:"aeo_total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// AgentMetadata describes one executed stage.
type AgentMetadata struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Duration int64  `json:"duration"` // milliseconds
	Attempts int    `json:"attempts"`
}

// ReportMeta carries run-level metadata.
type ReportMeta struct {
	RequestID     string          `json:"request_id"`
	EngineMode    EngineMode      `json:"engine_mode"`
	Model         string          `json:"model"`
	TotalDuration int64           `json:"total_duration"` // milliseconds
	Agents        []AgentMetadata `json:"agents"`
}

// Visibility is the report projection of the visibility judgment.
type Visibility struct {
	IsCited          bool             `json:"is_cited"`
	ProminenceScore  float64          `json:"prominence_score"`
	CitationStrength CitationStrength `json:"citation_strength"`
	Reasons          []string         `json:"reasons"`
}

// AnalyzeReport is the final artifact of a successful run.
type AnalyzeReport struct {
	Meta            ReportMeta      `json:"meta"`
	SimulatedAnswer SimulatedAnswer `json:"simulated_answer"`
	Visibility      Visibility      `json:"visibility"`
	Gaps            []Gap           `json:"gaps"`
	FixPack         FixPack         `json:"fix_pack"`
	Score           Score           `json:"score"`
	QualityReview   QualityReview   `json:"quality_review"`
}
