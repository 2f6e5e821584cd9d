package handler

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleveque/foodninja-api/internal/llm"
	"github.com/fleveque/foodninja-api/internal/model"
	"github.com/fleveque/foodninja-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubClassifier struct {
	candidates []model.Candidate
	err        error
	calls      int
}

func (s *stubClassifier) Classify(context.Context, []byte, string) ([]model.Candidate, error) {
	s.calls++
	return s.candidates, s.err
}

type stubNutrition struct {
	record model.NutritionRecord
	err    error
}

func (s *stubNutrition) Lookup(context.Context, string) (model.NutritionRecord, error) {
	return s.record, s.err
}

type stubLLM struct {
	text      string
	err       error
	gotPrompt string
}

func (s *stubLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return s.text, s.err
}

func (s *stubLLM) ProviderName() string { return "stub" }
func (s *stubLLM) ModelName() string    { return "stub-1" }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartBody builds a form with a single part named field.
func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename == "" {
		require.NoError(t, w.WriteField(field, string(data)))
	} else {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func newPredictRouter(c *stubClassifier, n *stubNutrition, l *stubLLM, maxUpload int64) *gin.Engine {
	svc := service.NewPredictionService(c, n, l, nil, 0.4, zap.NewNop())
	h := NewPredictHandler(svc, maxUpload, zap.NewNop())
	r := gin.New()
	r.POST("/predict", h.Predict)
	return r
}

func doPredict(r *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler("2.0")
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2.0", body["version"])
	assert.Equal(t, ServiceName, body["service"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Len(t, body["endpoints"], 3)
}

func TestPredict_Confident(t *testing.T) {
	c := &stubClassifier{candidates: []model.Candidate{{Label: "banana", Confidence: 0.92}}}
	n := &stubNutrition{record: model.NutritionRecord(`{"calories":105}`)}
	l := &stubLLM{text: "A healthy snack."}
	r := newPredictRouter(c, n, l, 10<<20)

	body, ct := multipartBody(t, "image", "banana.png", pngBytes(t))
	w := doPredict(r, body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "banana", resp["food_name"])
	assert.InDelta(t, 0.92, resp["probability"], 1e-9)
	assert.Equal(t, map[string]any{"calories": float64(105)}, resp["nutrition"])
	assert.Equal(t, "A healthy snack.", resp["ai_answer"])
	assert.Equal(t, false, resp["low_confidence"])
	assert.InDelta(t, 0.4, resp["min_confidence"], 1e-9)
}

func TestPredict_ConfidentWithoutNutrition(t *testing.T) {
	c := &stubClassifier{candidates: []model.Candidate{{Label: "pho", Confidence: 0.8}}}
	n := &stubNutrition{err: errors.New("timeout")}
	r := newPredictRouter(c, n, &stubLLM{text: "ok"}, 10<<20)

	body, ct := multipartBody(t, "image", "pho.png", pngBytes(t))
	w := doPredict(r, body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp, "nutrition")
	assert.Nil(t, resp["nutrition"])
}

func TestPredict_LowConfidence(t *testing.T) {
	c := &stubClassifier{candidates: []model.Candidate{
		{Label: "pizza", Confidence: 0.35},
		{Label: "flatbread", Confidence: 0.2},
	}}
	l := &stubLLM{text: "unused"}
	r := newPredictRouter(c, &stubNutrition{}, l, 10<<20)

	body, ct := multipartBody(t, "image", "pizza.jpg", pngBytes(t))
	w := doPredict(r, body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["low_confidence"])
	assert.Equal(t, "pizza", resp["food_name"])
	assert.Nil(t, resp["nutrition"])
	assert.Equal(t, service.LowConfidenceGuidance, resp["ai_answer"])
	assert.Contains(t, resp["message"], "35% < 40%")
	alts, ok := resp["alternatives"].([]any)
	require.True(t, ok)
	require.Len(t, alts, 2)
	assert.Equal(t, map[string]any{"name": "pizza", "probability": 0.35}, alts[0])
	assert.Empty(t, l.gotPrompt)
}

func TestPredict_NoFood(t *testing.T) {
	r := newPredictRouter(&stubClassifier{}, &stubNutrition{}, &stubLLM{}, 10<<20)

	body, ct := multipartBody(t, "image", "table.png", pngBytes(t))
	w := doPredict(r, body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["no_food_detected"])
	assert.Equal(t, "No food detected", resp["error"])
}

func TestPredict_BadRequests(t *testing.T) {
	img := pngBytes(t)

	tests := []struct {
		name     string
		field    string
		filename string
		data     []byte
		want     string
	}{
		{"missing part", "photo", "a.png", img, "No image uploaded"},
		{"empty filename", "image", "", img, "No image selected"},
		{"bad extension", "image", "a.exe", img, "Invalid file type. Please upload PNG, JPG, JPEG, GIF, BMP, or WEBP files only."},
		{"empty file", "image", "a.png", nil, "Empty image file"},
		{"not an image", "image", "a.png", []byte("hello"), "File is not a readable image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stubClassifier{}
			r := newPredictRouter(c, &stubNutrition{}, &stubLLM{}, 10<<20)

			body, ct := multipartBody(t, tt.field, tt.filename, tt.data)
			w := doPredict(r, body, ct)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode(t, w)["error"])
			assert.Zero(t, c.calls)
		})
	}
}

func TestPredict_NotMultipart(t *testing.T) {
	r := newPredictRouter(&stubClassifier{}, &stubNutrition{}, &stubLLM{}, 10<<20)

	w := doPredict(r, bytes.NewBufferString(`{"image":"x"}`), "application/json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No image uploaded", decode(t, w)["error"])
}

func TestPredict_TooLarge(t *testing.T) {
	c := &stubClassifier{}
	r := newPredictRouter(c, &stubNutrition{}, &stubLLM{}, 1<<20)

	body, ct := multipartBody(t, "image", "big.png", bytes.Repeat([]byte{0xff}, 2<<20))
	w := doPredict(r, body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "file too large, maximum is 1 MB", decode(t, w)["error"])
	assert.Zero(t, c.calls)
}

func TestPredict_ClassifierFailure(t *testing.T) {
	c := &stubClassifier{err: errors.New("clarifai HTTP 401: secret detail")}
	r := newPredictRouter(c, &stubNutrition{}, &stubLLM{}, 10<<20)

	body, ct := multipartBody(t, "image", "a.png", pngBytes(t))
	w := doPredict(r, body, ct)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	msg := decode(t, w)["error"]
	assert.Equal(t, "Internal server error during prediction", msg)
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func newChatRouter(l *stubLLM) *gin.Engine {
	h := NewChatHandler(service.NewChatService(l, zap.NewNop()), zap.NewNop())
	r := gin.New()
	r.POST("/chat", h.Chat)
	r.POST("/ask_ai", h.Ask)
	return r
}

func doJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChat(t *testing.T) {
	l := &stubLLM{text: "Drink water."}
	w := doJSON(newChatRouter(l), "/chat", `{"message":"How do I stay hydrated?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Drink water.", decode(t, w)["response"])
	assert.Equal(t, "How do I stay hydrated?", l.gotPrompt)
}

func TestAsk(t *testing.T) {
	l := &stubLLM{text: "Yes."}
	w := doJSON(newChatRouter(l), "/ask_ai", `{"prompt":"Is tofu protein-rich?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Yes.", decode(t, w)["result"])
	assert.Equal(t, "Is tofu protein-rich?", l.gotPrompt)
}

func TestChat_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		want string
	}{
		{"chat missing message", "/chat", `{}`, "No message provided"},
		{"chat blank message", "/chat", `{"message":"   "}`, "No message provided"},
		{"ask missing prompt", "/ask_ai", `{"message":"wrong field"}`, "No prompt provided"},
		{"malformed json", "/chat", `{"message":`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &stubLLM{text: "unused"}
			w := doJSON(newChatRouter(l), tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			if tt.want != "" {
				assert.Equal(t, tt.want, decode(t, w)["error"])
			}
			assert.Empty(t, l.gotPrompt)
		})
	}
}

func TestChat_UpstreamFailure(t *testing.T) {
	l := &stubLLM{err: errors.New("cohere HTTP 429: trial key rate limit exceeded")}
	w := doJSON(newChatRouter(l), "/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "cohere HTTP 429: trial key rate limit exceeded", decode(t, w)["error"])
}

func TestAsk_NotConfigured(t *testing.T) {
	l := &stubLLM{err: llm.ErrNotConfigured}
	w := doJSON(newChatRouter(l), "/ask_ai", `{"prompt":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, llm.ErrNotConfigured.Error(), decode(t, w)["error"])
}
