package service

import (
	"fmt"

	"github.com/fleveque/foodninja-api/internal/model"
)

// Fixed texts returned to the user in place of model output.
const (
	// NarrativeErrorText replaces the health summary when the model call fails.
	NarrativeErrorText = "[AI Error] The health summary could not be generated right now. Please try again later."
	// NarrativeNotConfiguredText replaces the health summary when no model API key is set.
	NarrativeNotConfiguredText = "[AI Warning] No language model API key is configured, so no health summary was generated."
	// EmptyNarrativeText replaces an empty model reply in every flow.
	EmptyNarrativeText = "[AI Warning] The language model returned no content. Check the prompt or the API quota."
	// LowConfidenceGuidance is shown instead of a summary when recognition is unreliable.
	LowConfidenceGuidance = "The system is not confident enough to give nutrition advice. " +
		"Try taking a clearer photo or type the name of the dish so I can help."
	// NoFoodText accompanies a prediction where nothing was recognized.
	NoFoodText = "No food detected"
)

// lowConfidenceAdvice tells the user how to retake the photo.
func lowConfidenceAdvice(confidence, threshold float64) string {
	return fmt.Sprintf("Low confidence recognition (%.0f%% < %.0f%%).\n"+
		"Tips to improve the result:\n"+
		"- Move closer and use good lighting, avoiding shadows.\n"+
		"- Put the food on a plain, uncluttered background with nothing covering it.\n"+
		"- Keep a single main dish in the frame instead of several mixed items.\n"+
		"You can pick one of the suggestions below or type the dish name into the chatbot to look up its nutrition.",
		confidence*100, threshold*100)
}

// healthPrompt asks the narrative generator for a consumer-oriented health
// assessment of food, grounded on the nutrition payload when there is one.
func healthPrompt(food string, nutrition model.NutritionRecord) string {
	facts := "no nutrition data is available"
	if len(nutrition) > 0 {
		facts = "the following nutrition data: " + string(nutrition)
	}
	return fmt.Sprintf("Analyse the dish '%s' with %s. "+
		"Comment on its health benefits and risks (if any) and give suggestions for healthy eating. "+
		"Keep the analysis short and easy to understand, aimed at consumers. "+
		"Answer concisely and scientifically.", food, facts)
}
