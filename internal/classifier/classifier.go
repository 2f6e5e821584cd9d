// Package classifier sends food photos to an image-recognition service and
// returns the labels it recognized, each with a confidence score.
package classifier

import (
	"context"
	"errors"

	"github.com/fleveque/foodninja-api/internal/model"
)

// ErrNotConfigured is returned when no credentials were supplied.
var ErrNotConfigured = errors.New("classifier not configured")

// Classifier recognizes food in an image. Candidates come back in the
// service's native order, which is usually, but not guaranteed to be,
// descending confidence. An empty slice with a nil error means nothing was recognized.
type Classifier interface {
	Classify(ctx context.Context, image []byte, mediaType string) ([]model.Candidate, error)
}
