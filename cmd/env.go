package main

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/pipeline"
	"github.com/sells-group/aeo-cli/internal/resilience"
	"github.com/sells-group/aeo-cli/internal/scrape"
	"github.com/sells-group/aeo-cli/pkg/firecrawl"
	"github.com/sells-group/aeo-cli/pkg/jina"
	"github.com/sells-group/aeo-cli/pkg/llm"
)

// initPipeline validates the config for mode and builds the pipeline on top
// of the configured LLM gateway.
func initPipeline(mode string) (*pipeline.Pipeline, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	breakerCfg := resilience.FromCircuitConfig(cfg.Breaker.FailureThreshold, cfg.Breaker.ResetTimeoutSecs)
	breakerCfg.OnStateChange = resilience.StateLogger("llm:" + cfg.LLM.Provider)
	breakers := resilience.NewServiceBreakers(breakerCfg)

	gw, err := llm.New(cfg, breakers)
	if err != nil {
		return nil, eris.Wrap(err, "init gateway")
	}
	return pipeline.New(gw, pipeline.ConfigFromApp(cfg.Pipeline)), nil
}

func newJinaClient() jina.Client {
	opts := []jina.Option{}
	if cfg.Jina.BaseURL != "" {
		opts = append(opts, jina.WithBaseURL(cfg.Jina.BaseURL))
	}
	if cfg.Jina.SearchBaseURL != "" {
		opts = append(opts, jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL))
	}
	return jina.NewClient(cfg.Jina.Key, opts...)
}

// newExtractor builds the scraper chain: local HTTP first, then headless
// Chrome when enabled, then the Jina reader, then Firecrawl when keyed.
func newExtractor() *scrape.Chain {
	opts := scrape.LocalOptions{
		Timeout:           time.Duration(cfg.Scrape.TimeoutSecs) * time.Second,
		UserAgent:         cfg.Scrape.UserAgent,
		MaxChars:          cfg.Scrape.MaxChars,
		RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
	}

	scrapers := []scrape.Scraper{scrape.NewLocalScraper(opts)}
	if cfg.Scrape.Headless {
		scrapers = append(scrapers, scrape.NewHeadlessScraper(opts))
	}
	scrapers = append(scrapers, scrape.NewJinaAdapter(newJinaClient(), cfg.Scrape.MaxChars))
	if cfg.Firecrawl.Key != "" {
		fc := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		scrapers = append(scrapers, scrape.NewFirecrawlAdapter(fc, cfg.Scrape.MaxChars))
	}

	return scrape.NewChain(nil, scrape.ChainOptions{
		MinChars:       cfg.Scrape.MinChars,
		DetectLanguage: cfg.Scrape.DetectLanguage,
	}, scrapers...)
}

func newSearcher() scrape.Searcher {
	if cfg.Search.Provider == "jina" {
		return scrape.NewJinaSearcher(newJinaClient())
	}
	return scrape.NewDuckDuckGoSearcher(cfg.Scrape.UserAgent)
}

func newCompetitorFinder(chain *scrape.Chain) *scrape.CompetitorFinder {
	return scrape.NewCompetitorFinder(newSearcher(), chain)
}
