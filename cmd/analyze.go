package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/internal/pipeline"
	"github.com/sells-group/aeo-cli/internal/presets"
)

var (
	analyzeRequestFile string
	analyzePreset      string
	analyzeQuery       string
	analyzeBrand       string
	analyzeContent     string
	analyzeCompetitors []string
	analyzeMode        string
	analyzeSynthetic   bool
	analyzeOut         string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a visibility analysis and print the report",
	Example: `  aeo-cli analyze --preset education-saas --out report.json
  aeo-cli analyze --request req.yaml
  aeo-cli analyze --query "best CRM" --brand Acme --content @acme.md --competitor Nimbus=nimbus.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req, err := buildAnalyzeRequest(cmd)
		if err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}

		p, err := initPipeline("analyze")
		if err != nil {
			return err
		}

		runID := uuid.NewString()
		zap.L().Info("analyze: starting", zap.String("run_id", runID), zap.String("query", req.Query))

		var report *model.AnalyzeReport
		for ev := range pipeline.Stream(ctx, p, *req, runID) {
			renderEvent(os.Stderr, ev)
			switch ev.Type {
			case model.EventComplete:
				report = ev.Report
			case model.EventError:
				return eris.New(ev.Message)
			}
		}
		if report == nil {
			return eris.Wrap(ctx.Err(), "analyze: run ended without a report")
		}

		renderSummary(os.Stderr, report)
		return writeReport(cmd.OutOrStdout(), analyzeOut, report)
	},
}

// buildAnalyzeRequest assembles the request from --request, --preset and
// the inline flags. Inline flags override file or preset values.
func buildAnalyzeRequest(cmd *cobra.Command) (*model.AnalyzeRequest, error) {
	req := &model.AnalyzeRequest{}
	switch {
	case analyzeRequestFile != "" && analyzePreset != "":
		return nil, eris.New("analyze: use either --request or --preset, not both")
	case analyzeRequestFile != "":
		r, err := model.LoadRequestFile(analyzeRequestFile)
		if err != nil {
			return nil, err
		}
		req = r
	case analyzePreset != "":
		p, err := presets.Get(analyzePreset)
		if err != nil {
			return nil, err
		}
		r := p.Request
		req = &r
	}

	flags := cmd.Flags()
	if flags.Changed("query") {
		req.Query = analyzeQuery
	}
	if flags.Changed("brand") {
		req.Target.Brand = analyzeBrand
	}
	if flags.Changed("content") {
		content, err := readContentArg(analyzeContent)
		if err != nil {
			return nil, err
		}
		req.Target.Content = content
	}
	if flags.Changed("competitor") {
		competitors, err := parseCompetitors(analyzeCompetitors)
		if err != nil {
			return nil, err
		}
		req.Competitors = competitors
	}
	if flags.Changed("mode") {
		req.EngineMode = model.EngineMode(analyzeMode)
	}
	if flags.Changed("synthetic") {
		req.GenerateSyntheticCompetitors = analyzeSynthetic
	}
	return req, nil
}

// readContentArg treats "@path" as a file reference and anything else as
// literal text.
func readContentArg(v string) (string, error) {
	path, ok := strings.CutPrefix(v, "@")
	if !ok {
		return v, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "analyze: read content %s", path)
	}
	return string(data), nil
}

// parseCompetitors reads "Brand=path" pairs.
func parseCompetitors(pairs []string) ([]model.BrandContent, error) {
	out := make([]model.BrandContent, 0, len(pairs))
	for _, pair := range pairs {
		brand, path, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(brand) == "" || path == "" {
			return nil, eris.Errorf("analyze: --competitor must be Brand=path, got %q", pair)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "analyze: read competitor %s", brand)
		}
		out = append(out, model.BrandContent{Brand: strings.TrimSpace(brand), Content: string(data)})
	}
	return out, nil
}

func renderEvent(w io.Writer, ev model.Event) {
	switch ev.Type {
	case model.EventStageStart:
		fmt.Fprintf(w, "[%d/%d] %s %s - %s\n", ev.Step, ev.Total, ev.Emoji, ev.Name, ev.Role)
	case model.EventStageThought:
		fmt.Fprintf(w, "      %s\n", ev.Text)
	case model.EventStageComplete:
		fmt.Fprintf(w, "      done in %.1fs\n", float64(ev.DurationMs)/1000)
	case model.EventError:
		fmt.Fprintf(w, "error: %s\n", ev.Message)
	}
}

func renderSummary(w io.Writer, r *model.AnalyzeReport) {
	cited := "not cited"
	if r.Visibility.IsCited {
		cited = fmt.Sprintf("cited (%s, prominence %.0f%%)", r.Visibility.CitationStrength, r.Visibility.ProminenceScore*100)
	}
	fmt.Fprintf(w, "\nAEO score: %d/100  |  %s\n", r.Score.AEOTotal, cited)
	if len(r.Gaps) > 0 {
		fmt.Fprintf(w, "Gaps (%d):\n", len(r.Gaps))
		for _, g := range model.SortGapsBySeverity(r.Gaps) {
			fmt.Fprintf(w, "  [%s] %s: %s\n", g.Severity, g.Category, g.WhatIsMissing)
		}
	}
	if r.QualityReview.ExecutiveSummary != "" {
		fmt.Fprintf(w, "Review (%s): %s\n", r.QualityReview.OverallQuality, r.QualityReview.ExecutiveSummary)
	}
}

// writeReport writes indented JSON to path, or to w when path is empty.
func writeReport(w io.Writer, path string, r *model.AnalyzeReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return eris.Wrap(err, "analyze: marshal report")
	}
	data = append(data, '\n')
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "analyze: write %s", path)
	}
	zap.L().Info("analyze: report written", zap.String("path", path))
	return nil
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeRequestFile, "request", "", "request file (.json, .yaml)")
	f.StringVar(&analyzePreset, "preset", "", "bundled preset name or slug")
	f.StringVar(&analyzeQuery, "query", "", "user query to simulate")
	f.StringVar(&analyzeBrand, "brand", "", "target brand name")
	f.StringVar(&analyzeContent, "content", "", "target content, or @file")
	f.StringArrayVar(&analyzeCompetitors, "competitor", nil, "competitor as Brand=path (repeatable)")
	f.StringVar(&analyzeMode, "mode", "", "engine mode: chat, search_card or enterprise")
	f.BoolVar(&analyzeSynthetic, "synthetic", false, "generate synthetic competitors when none are given")
	f.StringVar(&analyzeOut, "out", "", "write the report JSON to this file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}
