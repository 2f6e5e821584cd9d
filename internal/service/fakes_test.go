package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"github.com/fleveque/foodninja-api/internal/model"
)

// createTestPNG generates a small solid-color PNG image in memory.
func createTestPNG(width, height int, c color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err) // only in tests
	}
	return buf.Bytes()
}

type fakeClassifier struct {
	candidates []model.Candidate
	err        error

	calls    int
	gotImage []byte
	gotMedia string
}

func (f *fakeClassifier) Classify(_ context.Context, image []byte, mediaType string) ([]model.Candidate, error) {
	f.calls++
	f.gotImage = image
	f.gotMedia = mediaType
	return f.candidates, f.err
}

type fakeNutrition struct {
	record model.NutritionRecord
	err    error

	calls   int
	gotFood string
}

func (f *fakeNutrition) Lookup(_ context.Context, food string) (model.NutritionRecord, error) {
	f.calls++
	f.gotFood = food
	return f.record, f.err
}

type fakeNarrator struct {
	text string
	err  error

	calls     int
	gotPrompt string
}

func (f *fakeNarrator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.gotPrompt = prompt
	return f.text, f.err
}

func (f *fakeNarrator) ProviderName() string { return "fake" }
func (f *fakeNarrator) ModelName() string    { return "fake-model" }

type fakePreparer struct {
	data      []byte
	mediaType string
	err       error
	calls     int
}

func (f *fakePreparer) Prepare(_ []byte, _ string) ([]byte, string, error) {
	f.calls++
	return f.data, f.mediaType, f.err
}
