package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sells-group/aeo-cli/internal/pipeline"
	"github.com/sells-group/aeo-cli/internal/presets"
)

// StagesTool handles the list_stages MCP tool.
type StagesTool struct{}

// NewStagesTool creates a StagesTool.
func NewStagesTool() *StagesTool { return &StagesTool{} }

// Definition returns the MCP tool definition for list_stages.
func (t *StagesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_stages",
		mcp.WithDescription("List the analysis stages in execution order."),
	)
}

// Handle processes the list_stages tool call.
func (t *StagesTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for i, s := range pipeline.Stages() {
		fmt.Fprintf(&b, "%d. %s %s (%s)\n   %s: %s\n", i+1, s.Emoji, s.Name, s.ID, s.Role, s.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// PresetsTool handles the list_presets MCP tool.
type PresetsTool struct{}

// NewPresetsTool creates a PresetsTool.
func NewPresetsTool() *PresetsTool { return &PresetsTool{} }

// Definition returns the MCP tool definition for list_presets.
func (t *PresetsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_presets",
		mcp.WithDescription("List the bundled sample requests. Pass include_requests=true to get the full request bodies."),
		mcp.WithBoolean("include_requests",
			mcp.Description("Return full JSON requests instead of a summary"),
		),
	)
}

// Handle processes the list_presets tool call.
func (t *PresetsTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all, err := presets.All()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if boolArg(req, "include_requests", false) {
		return jsonResult(all)
	}

	var b strings.Builder
	for _, p := range all {
		fmt.Fprintf(&b, "- %s (%s): %s\n  brand=%s mode=%s competitors=%d\n  query: %s\n",
			p.Name, p.Slug, p.Description,
			p.Request.Target.Brand, p.Request.EngineMode, len(p.Request.Competitors),
			p.Request.Query)
	}
	return mcp.NewToolResultText(b.String()), nil
}
