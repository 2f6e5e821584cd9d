package server

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fleveque/foodninja-api/internal/classifier"
	"github.com/fleveque/foodninja-api/internal/config"
	"github.com/fleveque/foodninja-api/internal/llm"
	"github.com/fleveque/foodninja-api/internal/nutrition"
	"github.com/fleveque/foodninja-api/internal/service"
)

// Version is reported by /health. Overridden at build time with
// -ldflags "-X github.com/fleveque/foodninja-api/internal/server.Version=...".
var Version = "2.0.0"

// Deps holds the services the HTTP layer depends on.
type Deps struct {
	Predictions *service.PredictionService
	Chat        *service.ChatService
	Version     string
}

// BuildDeps wires the upstream clients and services from configuration.
// Missing API keys are not fatal: the affected client reports
// "not configured" on every call and the service degrades accordingly.
func BuildDeps(cfg *config.Config, logger *zap.Logger) (Deps, error) {
	clf := classifier.NewClarifaiClient(cfg.Classifier)
	if cfg.Classifier.PAT == "" {
		logger.Warn("classifier PAT not configured, /predict will fail")
	}

	nut := nutrition.NewCalorieNinjasClient(cfg.Nutrition)
	if cfg.Nutrition.APIKey == "" {
		logger.Warn("nutrition API key not configured, predictions will omit nutrition")
	}

	narrator, err := llm.New(cfg.LLM)
	if err != nil {
		return Deps{}, fmt.Errorf("creating language model client: %w", err)
	}
	logger.Info("language model configured",
		zap.String("provider", narrator.ProviderName()),
		zap.String("model", narrator.ModelName()),
	)

	var preparer service.ImagePreparer
	if cfg.Prediction.MaxImageEdge > 0 {
		preparer = service.NewImageProcessor(cfg.Prediction.MaxImageEdge)
	}

	return Deps{
		Predictions: service.NewPredictionService(
			clf, nut, narrator, preparer, cfg.Prediction.MinConfidence, logger,
		),
		Chat:    service.NewChatService(narrator, logger),
		Version: Version,
	}, nil
}
