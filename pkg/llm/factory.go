package llm

import (
	"regexp"
	"strings"
	"time"

	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/config"
	"github.com/sells-group/aeo-cli/internal/resilience"
	"github.com/sells-group/aeo-cli/pkg/anthropic"
	"github.com/sells-group/aeo-cli/pkg/perplexity"
)

// ParamsFromConfig converts the llm config section.
func ParamsFromConfig(c config.LLMConfig) Params {
	p := DefaultParams()
	p.Temperature = c.Temperature
	if c.MaxTokens > 0 {
		p.MaxTokens = c.MaxTokens
	}
	if c.ReasoningMaxTokens > 0 {
		p.ReasoningMaxTokens = c.ReasoningMaxTokens
	}
	if c.TimeoutSecs > 0 {
		p.Timeout = time.Duration(c.TimeoutSecs) * time.Second
	}
	return p
}

// New builds the gateway for cfg.LLM.Provider. When breakers is non-nil the
// gateway shares the provider's breaker with every other gateway built from
// the same registry.
func New(cfg *config.Config, breakers *resilience.ServiceBreakers) (Gateway, error) {
	params := ParamsFromConfig(cfg.LLM)

	var gw Gateway
	switch cfg.LLM.Provider {
	case config.ProviderAzure:
		gw = NewOpenAI(config.ProviderAzure, cfg.Azure.Deployment, params, azureOptions(cfg.Azure)...)
	case config.ProviderOpenAI:
		opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAI.Key)}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		gw = NewOpenAI(config.ProviderOpenAI, cfg.OpenAI.Model, params, opts...)
	case config.ProviderGroq:
		gw = NewOpenAI(config.ProviderGroq, cfg.Groq.Model, params,
			option.WithAPIKey(cfg.Groq.Key),
			option.WithBaseURL(cfg.Groq.BaseURL),
		)
	case config.ProviderOllama:
		gw = NewOpenAI(config.ProviderOllama, cfg.Ollama.Model, params,
			option.WithAPIKey("ollama"),
			option.WithBaseURL(strings.TrimRight(cfg.Ollama.BaseURL, "/")+"/v1/"),
		)
	case config.ProviderAnthropic:
		gw = NewAnthropic(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model, params)
	case config.ProviderPerplexity:
		client := perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
		gw = NewPerplexity(client, cfg.Perplexity.Model, params)
	default:
		return nil, eris.Errorf("llm: unsupported provider %q", cfg.LLM.Provider)
	}

	if breakers != nil {
		gw = WithBreaker(gw, breakers.Get("llm:"+cfg.LLM.Provider))
	}
	return gw, nil
}

var chatCompletionsSuffix = regexp.MustCompile(`/chat/completions/?$`)

// azureOptions accepts either a resource endpoint, to which the SDK appends
// the deployment path, or a full deployment URL.
func azureOptions(c config.AzureConfig) []option.RequestOption {
	if strings.Contains(c.Endpoint, "/openai/deployments/") {
		base := strings.TrimRight(chatCompletionsSuffix.ReplaceAllString(c.Endpoint, ""), "/") + "/"
		return []option.RequestOption{
			option.WithBaseURL(base),
			option.WithQuery("api-version", c.APIVersion),
			option.WithHeader("api-key", c.Key),
			option.WithAPIKey(c.Key),
		}
	}
	return []option.RequestOption{
		azure.WithEndpoint(strings.TrimRight(c.Endpoint, "/"), c.APIVersion),
		azure.WithAPIKey(c.Key),
	}
}
