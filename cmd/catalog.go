package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/aeo-cli/internal/pipeline"
	"github.com/sells-group/aeo-cli/internal/presets"
)

var (
	catalogJSON bool
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the analysis stages in execution order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStages(cmd.OutOrStdout(), catalogJSON)
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the bundled sample requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printPresets(cmd.OutOrStdout(), catalogJSON)
	},
}

func printStages(w io.Writer, asJSON bool) error {
	stages := pipeline.Stages()
	if asJSON {
		return writeIndented(w, stages)
	}
	for i, s := range stages {
		fmt.Fprintf(w, "%d. %s %-22s %s\n", i+1, s.Emoji, s.Name, s.Role)
	}
	return nil
}

func printPresets(w io.Writer, asJSON bool) error {
	all, err := presets.All()
	if err != nil {
		return err
	}
	if asJSON {
		return writeIndented(w, all)
	}
	for _, p := range all {
		fmt.Fprintf(w, "%-18s %s\n", p.Slug, p.Description)
	}
	return nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{stagesCmd, presetsCmd} {
		c.Flags().BoolVar(&catalogJSON, "json", false, "print JSON")
		rootCmd.AddCommand(c)
	}
}
