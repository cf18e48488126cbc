package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/pkg/anthropic"
)

// AnthropicGateway completes through the Anthropic Messages API.
type AnthropicGateway struct {
	client anthropic.Client
	model  string
	params Params
}

// NewAnthropic wraps client for model.
func NewAnthropic(client anthropic.Client, model string, params Params) *AnthropicGateway {
	return &AnthropicGateway{client: client, model: model, params: params}
}

// Model implements Gateway.
func (g *AnthropicGateway) Model() string { return g.model }

// Complete implements Gateway.
func (g *AnthropicGateway) Complete(ctx context.Context, system, user string) (string, error) {
	temp := g.params.Temperature
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   int64(g.params.MaxTokens),
		System:      anthropic.CachedSystem(system),
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic: complete")
	}
	resp.Usage.Log(g.model)
	return resp.Text(), nil
}
