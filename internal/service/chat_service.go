package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/foodninja-api/internal/llm"
	"github.com/fleveque/foodninja-api/internal/metrics"
)

// ChatService forwards a user message verbatim to the narrative generator.
//
// Unlike PredictionService, a failed model call is returned to the caller
// rather than replaced by a placeholder.
type ChatService struct {
	narrator llm.Client
	logger   *zap.Logger
}

// NewChatService creates a relay over narrator.
func NewChatService(narrator llm.Client, logger *zap.Logger) *ChatService {
	return &ChatService{narrator: narrator, logger: logger}
}

// Reply sends message unmodified and returns the model's answer.
// emptyMessage is the validation text used when message is blank.
func (s *ChatService) Reply(ctx context.Context, message, emptyMessage string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", invalid("%s", emptyMessage)
	}

	start := time.Now()
	text, err := s.narrator.Generate(ctx, message)
	metrics.ObserveUpstream(metrics.ServiceNarrative, start, err)
	if err != nil {
		s.logger.Error("chat relay failed",
			zap.String("provider", s.narrator.ProviderName()),
			zap.Error(err),
		)
		return "", &UpstreamError{Service: metrics.ServiceNarrative, Err: err}
	}

	return orEmptyWarning(text), nil
}

func orEmptyWarning(text string) string {
	if strings.TrimSpace(text) == "" {
		return EmptyNarrativeText
	}
	return text
}
