// Package llm exposes a single text-completion gateway over the supported
// model providers.
package llm

import (
	"context"
	"strings"
	"time"
)

// Gateway sends one system+user exchange to a model and returns the raw text
// of the reply. Implementations are safe for concurrent use.
type Gateway interface {
	Complete(ctx context.Context, system, user string) (string, error)
	// Model names the model or deployment requests are sent to.
	Model() string
}

// Params are the sampling limits shared by every provider.
type Params struct {
	Temperature        float64
	MaxTokens          int
	ReasoningMaxTokens int
	Timeout            time.Duration
}

// DefaultParams mirrors the configuration defaults.
func DefaultParams() Params {
	return Params{
		Temperature:        0.3,
		MaxTokens:          4096,
		ReasoningMaxTokens: 16384,
		Timeout:            90 * time.Second,
	}
}

var reasoningModels = []string{"gpt-5-mini", "o1", "o1-mini", "o1-preview", "o3", "o3-mini"}

// IsReasoningModel reports whether model belongs to a family that rejects
// temperature and max_tokens and takes its instructions as a developer
// message. Matching is case-insensitive substring, so deployment names that
// embed the family name count.
func IsReasoningModel(model string) bool {
	m := strings.ToLower(model)
	for _, r := range reasoningModels {
		if strings.Contains(m, r) {
			return true
		}
	}
	return false
}
