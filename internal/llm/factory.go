package llm

import (
	"context"
	"fmt"

	"github.com/fleveque/foodninja-api/internal/config"
)

// New builds the client selected by cfg.Provider. When that provider has no
// API key, it returns an unconfigured client whose Generate always fails
// with ErrNotConfigured, so the HTTP surface can still start.
func New(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderCohere:
		if cfg.Cohere.APIKey == "" {
			return unconfigured{provider: cfg.Provider, model: cfg.Cohere.Model}, nil
		}
		return NewCohereClient(cfg.Cohere.APIKey, cfg.Cohere.Model, cfg.Cohere.BaseURL, cfg.Temperature, cfg.Timeout), nil
	case config.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return unconfigured{provider: cfg.Provider, model: cfg.OpenAI.Model}, nil
		}
		return NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.Temperature, cfg.Timeout), nil
	case config.ProviderAnthropic:
		if cfg.Anthropic.APIKey == "" {
			return unconfigured{provider: cfg.Provider, model: cfg.Anthropic.Model}, nil
		}
		return NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Temperature, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

type unconfigured struct {
	provider string
	model    string
}

func (u unconfigured) ProviderName() string { return u.provider }
func (u unconfigured) ModelName() string    { return u.model }

func (u unconfigured) Generate(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("%s: %w", u.provider, ErrNotConfigured)
}
