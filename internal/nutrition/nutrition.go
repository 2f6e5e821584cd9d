// Package nutrition looks up nutrition facts for a food name.
package nutrition

import (
	"context"
	"errors"

	"github.com/fleveque/foodninja-api/internal/model"
)

var (
	// ErrNotConfigured is returned when no API key was supplied.
	ErrNotConfigured = errors.New("nutrition lookup not configured")
	// ErrUnavailable wraps any non-success reply from the nutrition service.
	ErrUnavailable = errors.New("nutrition service unavailable")
)

// Lookup returns the nutrition payload for a food. The payload is opaque JSON.
type Lookup interface {
	Lookup(ctx context.Context, food string) (model.NutritionRecord, error)
}
