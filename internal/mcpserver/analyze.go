package mcpserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/internal/pipeline"
)

// AnalyzeTool handles the analyze_visibility MCP tool.
type AnalyzeTool struct {
	analyzer Analyzer
}

// NewAnalyzeTool creates an AnalyzeTool.
func NewAnalyzeTool(analyzer Analyzer) *AnalyzeTool {
	return &AnalyzeTool{analyzer: analyzer}
}

// Definition returns the MCP tool definition for analyze_visibility.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_visibility",
		mcp.WithDescription(
			"Run the five-stage AI visibility analysis: simulate an AI answer to the query, judge whether the brand is cited, "+
				"find content gaps, generate a fix pack, score the brand 0-100 and review the result. Takes 30-90 seconds.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question a user would ask an AI assistant, e.g. 'best CRM for small teams'"),
		),
		mcp.WithString("brand",
			mcp.Required(),
			mcp.Description("Target brand name"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Target brand page text"),
		),
		mcp.WithArray("competitors",
			mcp.Description("Competitor pages as objects with 'brand' and 'content'"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"brand":   map[string]any{"type": "string"},
					"content": map[string]any{"type": "string"},
				},
				"required": []string{"brand", "content"},
			}),
		),
		mcp.WithString("engine_mode",
			mcp.Description("Answer style: chat (default), search_card or enterprise"),
			mcp.Enum(string(model.EngineModeChat), string(model.EngineModeSearchCard), string(model.EngineModeEnterprise)),
		),
		mcp.WithBoolean("generate_synthetic_competitors",
			mcp.Description("Invent two competitor pages when none are supplied"),
		),
	)
}

// Handle processes the analyze_visibility tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	competitors, err := competitorsArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	areq := model.AnalyzeRequest{
		Query:                        req.GetString("query", ""),
		Target:                       model.BrandContent{Brand: req.GetString("brand", ""), Content: req.GetString("content", "")},
		Competitors:                  competitors,
		EngineMode:                   model.EngineMode(req.GetString("engine_mode", "")),
		GenerateSyntheticCompetitors: boolArg(req, "generate_synthetic_competitors", false),
	}

	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID), zap.String("transport", "mcp"))
	obs := pipeline.ObserverFuncs{
		OnThought: func(stageID, text string) {
			log.Debug("mcp: stage thought", zap.String("stage", stageID), zap.String("text", text))
		},
	}

	report, err := t.analyzer.Run(ctx, areq, runID, obs)
	if err != nil {
		if model.IsValidation(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		log.Error("mcp: analysis failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}

// competitorsArg decodes the competitors array. Entries must be objects
// with string brand and content fields.
func competitorsArg(req mcp.CallToolRequest) ([]model.BrandContent, error) {
	raw, ok := req.GetArguments()["competitors"]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, eris.New("'competitors' must be an array")
	}

	out := make([]model.BrandContent, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, eris.Errorf("competitors[%d] must be an object", i)
		}
		brand, _ := obj["brand"].(string)
		content, _ := obj["content"].(string)
		out = append(out, model.BrandContent{Brand: brand, Content: content})
	}
	return out, nil
}
