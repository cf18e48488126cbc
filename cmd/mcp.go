package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis tools over MCP (stdio)",
	Long:  "Runs an MCP server on stdin/stdout. Logs go to stderr so the protocol stream stays clean.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initPipeline("mcp")
		if err != nil {
			return err
		}

		s := mcpserver.New(p, newExtractor())
		zap.L().Info("mcp server starting", zap.String("version", mcpserver.Version))
		return mcpserver.Serve(s)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
