package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/internal/scrape"
)

var (
	searchBrand string
	searchCount int
	searchRaw   bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Extract the main text of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("scrape"); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		chain := newExtractor()
		zap.L().Debug("scraping", zap.String("url", args[0]), zap.Strings("scrapers", chain.Scrapers()))

		page, err := chain.Extract(ctx, args[0])
		if err != nil {
			return err
		}
		return writeIndented(cmd.OutOrStdout(), page)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find competitor pages for a query",
	Long: "Searches the web for the query, excluding the brand's own site, and scrapes the top results. " +
		"With --raw only the search hits are printed.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("search"); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if searchRaw {
			return runRawSearch(ctx, cmd, args[0])
		}

		out, err := newCompetitorFinder(newExtractor()).Find(ctx, args[0], searchBrand, searchCount)
		if err != nil {
			return err
		}
		return writeIndented(cmd.OutOrStdout(), out)
	},
}

func runRawSearch(ctx context.Context, cmd *cobra.Command, query string) error {
	n := cfg.Search.MaxResults
	if n <= 0 {
		n = scrape.DefaultSearchResults
	}
	results, err := newSearcher().Search(ctx, scrape.CompetitorQuery(query, searchBrand), n)
	if err != nil {
		return err
	}
	return writeIndented(cmd.OutOrStdout(), results)
}

func init() {
	searchCmd.Flags().StringVar(&searchBrand, "brand", "", "brand whose own site is excluded from results")
	searchCmd.Flags().IntVar(&searchCount, "count", scrape.DefaultCompetitorCount, "number of competitors to return")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "print search hits without scraping them")
	rootCmd.AddCommand(scrapeCmd, searchCmd)
}
