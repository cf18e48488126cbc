package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "aeo-cli",
	Short: "AI answer-engine visibility analysis",
	Long: "Simulates how an AI assistant answers a query from a brand's and its competitors' content, " +
		"judges whether the brand is cited, finds content gaps, drafts fixes and scores the brand 0-100.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
