package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"analyze", "serve", "mcp", "stages", "presets", "scrape", "search"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "aeo-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestAnalyzeCommand_Flags(t *testing.T) {
	for _, name := range []string{"request", "preset", "query", "brand", "content", "competitor", "mode", "synthetic", "out"} {
		assert.NotNil(t, analyzeCmd.Flags().Lookup(name), "analyze should have --%s flag", name)
	}
}

func TestSearchCommand_Flags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("count")
	require.NotNil(t, flag)
	assert.Equal(t, "3", flag.DefValue)
	assert.NotNil(t, searchCmd.Flags().Lookup("brand"))
	assert.NotNil(t, searchCmd.Flags().Lookup("raw"))
}

func TestScrapeCommand_RequiresURL(t *testing.T) {
	assert.Error(t, scrapeCmd.Args(scrapeCmd, nil))
	assert.NoError(t, scrapeCmd.Args(scrapeCmd, []string{"example.com"}))
}
