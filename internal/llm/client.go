// Package llm provides a provider-agnostic interface for generating text
// with a chat language model. Cohere, OpenAI and Anthropic implement it;
// configuration picks exactly one.
package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when the selected provider has no API key.
var ErrNotConfigured = errors.New("language model not configured")

// Client turns a single user prompt into generated text.
//
// Keep it small: one call, one prompt, one answer. An empty string with a
// nil error means the model produced no content; callers decide what to show.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ProviderName() string
	ModelName() string
}
