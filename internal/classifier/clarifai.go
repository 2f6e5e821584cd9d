package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/fleveque/foodninja-api/internal/config"
	"github.com/fleveque/foodninja-api/internal/model"
)

// clarifaiStatusSuccess is Clarifai's status code for a successful call.
const clarifaiStatusSuccess = 10000

// ClarifaiClient calls a Clarifai model through the v2 REST API.
type ClarifaiClient struct {
	pat        string
	outputsURL string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClarifaiClient creates a client for the model named in cfg.
func NewClarifaiClient(cfg config.ClassifierConfig) *ClarifaiClient {
	outputsURL := fmt.Sprintf("%s/v2/users/%s/apps/%s/models/%s/outputs",
		strings.TrimRight(cfg.BaseURL, "/"),
		url.PathEscape(cfg.UserID),
		url.PathEscape(cfg.AppID),
		url.PathEscape(cfg.ModelID),
	)
	return &ClarifaiClient{
		pat:        cfg.PAT,
		outputsURL: outputsURL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}
}

type clarifaiRequest struct {
	Inputs []clarifaiInput `json:"inputs"`
}

type clarifaiInput struct {
	Data clarifaiInputData `json:"data"`
}

type clarifaiInputData struct {
	Image clarifaiImage `json:"image"`
}

type clarifaiImage struct {
	Base64 string `json:"base64"`
}

type clarifaiStatus struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

type clarifaiResponse struct {
	Status  clarifaiStatus `json:"status"`
	Outputs []struct {
		Data struct {
			Concepts []struct {
				ID    string  `json:"id"`
				Name  string  `json:"name"`
				Value float64 `json:"value"`
			} `json:"concepts"`
		} `json:"data"`
	} `json:"outputs"`
}

// Classify uploads the image and returns the model's concepts as candidates.
// Clarifai sniffs the encoding itself, so mediaType is not sent.
func (c *ClarifaiClient) Classify(ctx context.Context, image []byte, mediaType string) ([]model.Candidate, error) {
	if c.pat == "" {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(clarifaiRequest{
		Inputs: []clarifaiInput{{
			Data: clarifaiInputData{Image: clarifaiImage{Base64: base64.StdEncoding.EncodeToString(image)}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding clarifai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.outputsURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.pat)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling clarifai: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading clarifai response: %w", err)
	}

	var out clarifaiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("clarifai HTTP %d: decoding response: %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || out.Status.Code != clarifaiStatusSuccess {
		return nil, fmt.Errorf("clarifai HTTP %d: status %d %s %s",
			resp.StatusCode, out.Status.Code, out.Status.Description, out.Status.Details)
	}

	if len(out.Outputs) == 0 {
		return []model.Candidate{}, nil
	}

	concepts := out.Outputs[0].Data.Concepts
	candidates := make([]model.Candidate, 0, len(concepts))
	for _, concept := range concepts {
		candidates = append(candidates, model.Candidate{
			Label:      concept.Name,
			Confidence: concept.Value,
		})
	}
	return candidates, nil
}
