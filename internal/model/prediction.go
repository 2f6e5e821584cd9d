// Package model defines the data types that flow through a prediction.
// Nothing here is persisted: every value lives for exactly one request.
package model

import "encoding/json"

// Candidate is one (label, confidence) pair produced by the food classifier.
// Confidence is in [0,1].
type Candidate struct {
	Label      string  `json:"name"`
	Confidence float64 `json:"probability"`
}

// NutritionRecord is the nutrition payload exactly as the nutrition service
// returned it. The orchestrator never looks inside; nil means absent.
type NutritionRecord = json.RawMessage

// Outcome discriminates the PredictionResult variants.
type Outcome string

const (
	OutcomeNoFood        Outcome = "no_food"
	OutcomeLowConfidence Outcome = "low_confidence"
	OutcomeConfident     Outcome = "confident"
)

// MaxAlternatives caps the suggestions returned with a low-confidence result.
const MaxAlternatives = 3

// PredictionResult is the orchestrator's output. Exactly one of LowConfidence
// and Confident is set, matching Outcome; both are nil for OutcomeNoFood.
type PredictionResult struct {
	Outcome       Outcome
	Threshold     float64
	LowConfidence *LowConfidence
	Confident     *Confident
}

// LowConfidence is returned when the best candidate is below the threshold.
type LowConfidence struct {
	Top          Candidate
	Alternatives []Candidate
	Advisory     string
	// Guidance is the fixed text shown in place of a narrative.
	Guidance string
}

// Confident is returned when the best candidate meets the threshold.
type Confident struct {
	Top       Candidate
	Nutrition NutritionRecord
	Narrative string
}

// Top returns the winning candidate for either scored variant.
func (r *PredictionResult) Top() (Candidate, bool) {
	switch {
	case r.Confident != nil:
		return r.Confident.Top, true
	case r.LowConfidence != nil:
		return r.LowConfidence.Top, true
	default:
		return Candidate{}, false
	}
}
