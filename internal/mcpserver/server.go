// Package mcpserver exposes the visibility pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/internal/pipeline"
)

// Version is reported to MCP clients.
var Version = "dev"

// Analyzer runs one analysis. *pipeline.Pipeline satisfies it.
type Analyzer interface {
	Run(ctx context.Context, req model.AnalyzeRequest, runID string, obs pipeline.Observer) (*model.AnalyzeReport, error)
}

// Extractor turns a URL into page text. *scrape.Chain satisfies it.
type Extractor interface {
	Extract(ctx context.Context, url string) (*model.ExtractedPage, error)
}

// New registers every tool on a fresh MCP server.
func New(analyzer Analyzer, extractor Extractor) *server.MCPServer {
	s := server.NewMCPServer(
		"aeo",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	analyze := NewAnalyzeTool(analyzer)
	s.AddTool(analyze.Definition(), analyze.Handle)

	stages := NewStagesTool()
	s.AddTool(stages.Definition(), stages.Handle)

	presets := NewPresetsTool()
	s.AddTool(presets.Definition(), presets.Handle)

	extract := NewExtractTool(extractor)
	s.AddTool(extract.Definition(), extract.Handle)

	return s
}

// Serve runs s on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = `AEO analyzes how visible a brand is in AI-generated answers.

Typical flow:
1. Call extract_url to pull page text for the target brand (and optionally competitors).
2. Call analyze_visibility with the query, the brand, its content, and competitor content.
   Set generate_synthetic_competitors when no real competitor content is available.
3. Read the report: simulated answer, visibility, gaps, fix pack, AEO score and quality review.

list_stages describes the five analysis stages. list_presets returns ready-made sample requests.`
