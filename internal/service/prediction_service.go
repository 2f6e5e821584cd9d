// Package service contains the core business logic.
// PredictionService gates enrichment on classifier confidence:
//
//	Step 1: Validate: extension, emptiness, decodable image
//	Step 2: Classify: the only upstream call whose failure is fatal
//	Step 3: Gate: below the threshold, stop and advise the user
//	Step 4: Enrich: nutrition lookup and health narrative, both best-effort
//
// ChatService relays free text to the same narrative generator.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/foodninja-api/internal/classifier"
	"github.com/fleveque/foodninja-api/internal/llm"
	"github.com/fleveque/foodninja-api/internal/metrics"
	"github.com/fleveque/foodninja-api/internal/model"
	"github.com/fleveque/foodninja-api/internal/nutrition"
)

// PredictionService orchestrates classifier → nutrition → narrative for one
// uploaded image. The three calls are strictly sequential because each
// input depends on the previous output.
type PredictionService struct {
	classifier classifier.Classifier
	nutrition  nutrition.Lookup
	narrator   llm.Client
	preparer   ImagePreparer // nil disables image preparation
	threshold  float64
	logger     *zap.Logger
}

// NewPredictionService wires the orchestrator. threshold is the minimum
// confidence in [0,1] required before any enrichment call is made.
func NewPredictionService(
	c classifier.Classifier,
	n nutrition.Lookup,
	narrator llm.Client,
	preparer ImagePreparer,
	threshold float64,
	logger *zap.Logger,
) *PredictionService {
	return &PredictionService{
		classifier: c,
		nutrition:  n,
		narrator:   narrator,
		preparer:   preparer,
		threshold:  threshold,
		logger:     logger,
	}
}

// Threshold returns the configured minimum confidence.
func (s *PredictionService) Threshold() float64 {
	return s.threshold
}

// Predict runs the full pipeline for one upload. It returns a
// *ValidationError for bad input and an *UpstreamError when the classifier
// fails; nutrition and narrative failures only degrade the result.
func (s *PredictionService) Predict(ctx context.Context, upload Upload) (*model.PredictionResult, error) {
	mediaType, err := validateUpload(upload)
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	image := s.prepare(upload, mediaType)

	start := time.Now()
	candidates, err := s.classifier.Classify(ctx, image.data, image.mediaType)
	metrics.ObserveUpstream(metrics.ServiceClassifier, start, err)
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("failed").Inc()
		s.logger.Error("classifier call failed",
			zap.String("filename", upload.Filename),
			zap.Error(err),
		)
		return nil, &UpstreamError{Service: metrics.ServiceClassifier, Err: err}
	}

	result := s.decide(ctx, candidates)
	metrics.PredictionsTotal.WithLabelValues(string(result.Outcome)).Inc()
	return result, nil
}

type preparedImage struct {
	data      []byte
	mediaType string
}

// prepare runs the optional preparer. Any failure falls back to the original bytes.
func (s *PredictionService) prepare(upload Upload, mediaType string) preparedImage {
	original := preparedImage{data: upload.Data, mediaType: mediaType}
	if s.preparer == nil {
		return original
	}

	data, preparedType, err := s.preparer.Prepare(upload.Data, mediaType)
	if err != nil {
		s.logger.Warn("image preparation failed, sending original",
			zap.String("filename", upload.Filename),
			zap.Error(err),
		)
		return original
	}
	if len(data) != len(upload.Data) {
		s.logger.Debug("image downscaled",
			zap.Int("original_bytes", len(upload.Data)),
			zap.Int("prepared_bytes", len(data)),
		)
	}
	return preparedImage{data: data, mediaType: preparedType}
}

// decide applies the confidence gate to the classifier output.
func (s *PredictionService) decide(ctx context.Context, candidates []model.Candidate) *model.PredictionResult {
	if len(candidates) == 0 {
		s.logger.Info("no food detected")
		return &model.PredictionResult{Outcome: model.OutcomeNoFood, Threshold: s.threshold}
	}

	top := bestCandidate(candidates)

	if top.Confidence < s.threshold {
		s.logger.Info("low confidence prediction",
			zap.String("food", top.Label),
			zap.Float64("confidence", top.Confidence),
			zap.Float64("threshold", s.threshold),
		)
		return &model.PredictionResult{
			Outcome:   model.OutcomeLowConfidence,
			Threshold: s.threshold,
			LowConfidence: &model.LowConfidence{
				Top:          top,
				Alternatives: alternatives(candidates),
				Advisory:     lowConfidenceAdvice(top.Confidence, s.threshold),
				Guidance:     LowConfidenceGuidance,
			},
		}
	}

	record := s.lookupNutrition(ctx, top.Label)
	narrative := s.narrate(ctx, top.Label, record)

	return &model.PredictionResult{
		Outcome:   model.OutcomeConfident,
		Threshold: s.threshold,
		Confident: &model.Confident{
			Top:       top,
			Nutrition: record,
			Narrative: narrative,
		},
	}
}

// lookupNutrition is best-effort: every failure becomes an absent record.
func (s *PredictionService) lookupNutrition(ctx context.Context, food string) model.NutritionRecord {
	start := time.Now()
	record, err := s.nutrition.Lookup(ctx, food)
	if errors.Is(err, nutrition.ErrNotConfigured) {
		s.logger.Warn("nutrition API key missing, skipping nutrition lookup")
		return nil
	}
	metrics.ObserveUpstream(metrics.ServiceNutrition, start, err)
	if err != nil {
		s.logger.Error("nutrition lookup failed",
			zap.String("food", food),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil
	}
	return record
}

// narrate never fails: errors are replaced by a fixed placeholder.
func (s *PredictionService) narrate(ctx context.Context, food string, record model.NutritionRecord) string {
	prompt := healthPrompt(food, record)
	s.logger.Debug("sending prompt to language model",
		zap.String("provider", s.narrator.ProviderName()),
		zap.String("prompt", prompt),
	)

	start := time.Now()
	text, err := s.narrator.Generate(ctx, prompt)
	if errors.Is(err, llm.ErrNotConfigured) {
		s.logger.Warn("language model API key missing, skipping narrative")
		return NarrativeNotConfiguredText
	}
	metrics.ObserveUpstream(metrics.ServiceNarrative, start, err)
	if err != nil {
		s.logger.Error("narrative generation failed",
			zap.String("provider", s.narrator.ProviderName()),
			zap.String("model", s.narrator.ModelName()),
			zap.Error(err),
		)
		return NarrativeErrorText
	}
	return orEmptyWarning(text)
}

// bestCandidate returns the highest-confidence candidate without assuming
// any order. Ties go to the earliest candidate.
func bestCandidate(candidates []model.Candidate) model.Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best
}

// alternatives returns a copy of at most the first MaxAlternatives candidates.
func alternatives(candidates []model.Candidate) []model.Candidate {
	n := min(len(candidates), model.MaxAlternatives)
	out := make([]model.Candidate, n)
	copy(out, candidates[:n])
	return out
}
