package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// OpenAIGateway talks to any OpenAI-compatible chat completions endpoint:
// OpenAI itself, Azure OpenAI, Groq and Ollama.
type OpenAIGateway struct {
	client    openai.Client
	provider  string
	model     string
	reasoning bool
	params    Params
}

// NewOpenAI builds a gateway for provider using the given request options
// (API key, base URL, Azure middleware).
func NewOpenAI(provider, model string, params Params, opts ...option.RequestOption) *OpenAIGateway {
	if params.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(params.Timeout))
	}
	// Stage execution owns retries.
	opts = append(opts, option.WithMaxRetries(0))

	return &OpenAIGateway{
		client:    openai.NewClient(opts...),
		provider:  provider,
		model:     model,
		reasoning: IsReasoningModel(model),
		params:    params,
	}
}

// Model implements Gateway.
func (g *OpenAIGateway) Model() string { return g.model }

// Complete implements Gateway.
func (g *OpenAIGateway) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, g.buildParams(system, user))
	if err != nil {
		return "", eris.Wrapf(err, "%s: chat completion", g.provider)
	}

	zap.L().Debug("llm usage",
		zap.String("provider", g.provider),
		zap.String("model", g.model),
		zap.Int64("input_tokens", resp.Usage.PromptTokens),
		zap.Int64("output_tokens", resp.Usage.CompletionTokens),
	)

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGateway) buildParams(system, user string) openai.ChatCompletionNewParams {
	if g.reasoning {
		return openai.ChatCompletionNewParams{
			Model: openai.ChatModel(g.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.DeveloperMessage(system),
				openai.UserMessage(user),
			},
			MaxCompletionTokens: openai.Int(int64(g.params.ReasoningMaxTokens)),
		}
	}
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(g.params.Temperature),
		MaxTokens:   openai.Int(int64(g.params.MaxTokens)),
	}
}
