package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/pkg/perplexity"
)

// PerplexityGateway completes through Perplexity's search-grounded models.
type PerplexityGateway struct {
	client perplexity.Client
	model  string
	params Params
}

// NewPerplexity wraps client for model.
func NewPerplexity(client perplexity.Client, model string, params Params) *PerplexityGateway {
	return &PerplexityGateway{client: client, model: model, params: params}
}

// Model implements Gateway.
func (g *PerplexityGateway) Model() string { return g.model }

// Complete implements Gateway.
func (g *PerplexityGateway) Complete(ctx context.Context, system, user string) (string, error) {
	temp := g.params.Temperature
	maxTokens := g.params.MaxTokens
	resp, err := g.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model: g.model,
		Messages: []perplexity.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		// Answers must come from the supplied sources, not live search.
		DisableSearch: true,
	})
	if err != nil {
		return "", eris.Wrap(err, "perplexity: complete")
	}

	zap.L().Debug("llm usage",
		zap.String("provider", "perplexity"),
		zap.String("model", g.model),
		zap.Int("input_tokens", resp.Usage.PromptTokens),
		zap.Int("output_tokens", resp.Usage.CompletionTokens),
		zap.Int("citations", len(resp.Citations)),
	)
	return resp.Content(), nil
}
