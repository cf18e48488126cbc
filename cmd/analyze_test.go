package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/aeo-cli/internal/model"
)

// resetAnalyzeFlags clears the package-level flag values and their
// Changed markers so each test starts from a clean command.
func resetAnalyzeFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		analyzeRequestFile, analyzePreset = "", ""
		analyzeQuery, analyzeBrand, analyzeContent = "", "", ""
		analyzeCompetitors = nil
		analyzeMode, analyzeOut = "", ""
		analyzeSynthetic = false
		for _, name := range []string{"request", "preset", "query", "brand", "content", "competitor", "mode", "synthetic", "out"} {
			analyzeCmd.Flags().Lookup(name).Changed = false
		}
	}
	reset()
	t.Cleanup(reset)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestBuildAnalyzeRequest_Preset(t *testing.T) {
	resetAnalyzeFlags(t)
	require.NoError(t, analyzeCmd.Flags().Set("preset", "education-saas"))

	req, err := buildAnalyzeRequest(analyzeCmd)
	require.NoError(t, err)
	assert.Equal(t, "LearnFlow", req.Target.Brand)
	assert.NotEmpty(t, req.Competitors)
	assert.NoError(t, req.Validate())
}

func TestBuildAnalyzeRequest_InlineOverridesPreset(t *testing.T) {
	resetAnalyzeFlags(t)
	f := analyzeCmd.Flags()
	require.NoError(t, f.Set("preset", "fintech-startup"))
	require.NoError(t, f.Set("brand", "Override"))
	require.NoError(t, f.Set("mode", "enterprise"))

	req, err := buildAnalyzeRequest(analyzeCmd)
	require.NoError(t, err)
	assert.Equal(t, "Override", req.Target.Brand)
	assert.Equal(t, model.EngineModeEnterprise, req.EngineMode)
	assert.NotEmpty(t, req.Query)
}

func TestBuildAnalyzeRequest_RequestAndPresetConflict(t *testing.T) {
	resetAnalyzeFlags(t)
	f := analyzeCmd.Flags()
	require.NoError(t, f.Set("preset", "education-saas"))
	require.NoError(t, f.Set("request", "req.yaml"))

	_, err := buildAnalyzeRequest(analyzeCmd)
	assert.ErrorContains(t, err, "not both")
}

func TestBuildAnalyzeRequest_InlineOnly(t *testing.T) {
	resetAnalyzeFlags(t)
	dir := t.TempDir()
	content := writeFile(t, dir, "acme.md", "Acme is a CRM for small teams.")
	rival := writeFile(t, dir, "nimbus.md", "Nimbus is a CRM with AI features.")

	f := analyzeCmd.Flags()
	require.NoError(t, f.Set("query", "best CRM"))
	require.NoError(t, f.Set("brand", "Acme"))
	require.NoError(t, f.Set("content", "@"+content))
	require.NoError(t, f.Set("competitor", "Nimbus="+rival))
	require.NoError(t, f.Set("synthetic", "true"))

	req, err := buildAnalyzeRequest(analyzeCmd)
	require.NoError(t, err)
	assert.Equal(t, "Acme is a CRM for small teams.", req.Target.Content)
	require.Len(t, req.Competitors, 1)
	assert.Equal(t, "Nimbus", req.Competitors[0].Brand)
	assert.True(t, req.GenerateSyntheticCompetitors)
}

func TestBuildAnalyzeRequest_UnknownPreset(t *testing.T) {
	resetAnalyzeFlags(t)
	require.NoError(t, analyzeCmd.Flags().Set("preset", "nope"))

	_, err := buildAnalyzeRequest(analyzeCmd)
	assert.Error(t, err)
}

func TestReadContentArg(t *testing.T) {
	got, err := readContentArg("literal text")
	require.NoError(t, err)
	assert.Equal(t, "literal text", got)

	_, err = readContentArg("@" + filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestParseCompetitors_Invalid(t *testing.T) {
	for _, pair := range []string{"NoEquals", "=path.md", "Brand="} {
		_, err := parseCompetitors([]string{pair})
		assert.Error(t, err, pair)
	}
}

func TestRenderEvent(t *testing.T) {
	var buf bytes.Buffer
	renderEvent(&buf, model.Event{Type: model.EventStageStart, Step: 2, Total: 5, Emoji: "⚖️", Name: "Visibility Judge", Role: "judge"})
	renderEvent(&buf, model.Event{Type: model.EventStageThought, Text: "checking citations"})
	renderEvent(&buf, model.Event{Type: model.EventStageComplete, DurationMs: 1500})
	renderEvent(&buf, model.Event{Type: model.EventError, Message: "boom"})

	out := buf.String()
	assert.Contains(t, out, "[2/5]")
	assert.Contains(t, out, "checking citations")
	assert.Contains(t, out, "done in 1.5s")
	assert.Contains(t, out, "error: boom")
}

func sampleReport() *model.AnalyzeReport {
	r := &model.AnalyzeReport{}
	r.Score.AEOTotal = 42
	r.Visibility.IsCited = true
	r.Visibility.CitationStrength = model.CitationStrong
	r.Visibility.ProminenceScore = 0.35
	r.Gaps = []model.Gap{
		{Category: model.GapMissingFAQ, Severity: model.SeverityLow, WhatIsMissing: "no FAQ"},
		{Category: model.GapMissingDefinitions, Severity: model.SeverityHigh, WhatIsMissing: "no definition"},
	}
	return r
}

func TestRenderSummary_OrdersGaps(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf, sampleReport())

	out := buf.String()
	assert.Contains(t, out, "AEO score: 42/100")
	assert.Contains(t, out, "cited (strong, prominence 35%)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("no definition")), bytes.Index(buf.Bytes(), []byte("no FAQ")))
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, "", sampleReport()))

	var back model.AnalyzeReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, 42, back.Score.AEOTotal)

	path := filepath.Join(t.TempDir(), "report.json")
	buf.Reset()
	require.NoError(t, writeReport(&buf, path, sampleReport()))
	assert.Zero(t, buf.Len())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"aeo_total"`)
}
