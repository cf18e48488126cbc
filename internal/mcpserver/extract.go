package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// ExtractTool handles the extract_url MCP tool.
type ExtractTool struct {
	extractor Extractor
}

// NewExtractTool creates an ExtractTool.
func NewExtractTool(extractor Extractor) *ExtractTool {
	return &ExtractTool{extractor: extractor}
}

// Definition returns the MCP tool definition for extract_url.
func (t *ExtractTool) Definition() mcp.Tool {
	return mcp.NewTool("extract_url",
		mcp.WithDescription("Fetch a web page and return its readable text, title and brand. "+
			"Use the content as input to analyze_visibility."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Page URL; https:// is assumed when no scheme is given"),
		),
	)
}

// Handle processes the extract_url tool call.
func (t *ExtractTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := req.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("'url' is required"), nil
	}
	if t.extractor == nil {
		return mcp.NewToolResultError("extraction is not configured"), nil
	}

	page, err := t.extractor.Extract(ctx, url)
	if err != nil {
		zap.L().Warn("mcp: extract failed", zap.String("url", url), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(page)
}
