package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// CohereClient implements Client with the Cohere v2 chat endpoint.
type CohereClient struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	timeout     time.Duration
	httpClient  *http.Client
}

// NewCohereClient creates a new Cohere-backed generator.
func NewCohereClient(apiKey, model, baseURL string, temperature float64, timeout time.Duration) *CohereClient {
	return &CohereClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		timeout:     timeout,
		httpClient:  &http.Client{},
	}
}

func (c *CohereClient) ProviderName() string { return "cohere" }
func (c *CohereClient) ModelName() string    { return c.model }

type cohereMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type cohereChatRequest struct {
	Model       string          `json:"model"`
	Messages    []cohereMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type cohereChatResponse struct {
	ID      string `json:"id"`
	Message struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type cohereError struct {
	Message string `json:"message"`
}

func (c *CohereClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(cohereChatRequest{
		Model:       c.model,
		Messages:    []cohereMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding cohere request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cohere API call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("reading cohere response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr cohereError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return "", fmt.Errorf("cohere HTTP %d: %s", resp.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("cohere HTTP %d", resp.StatusCode)
	}

	var out cohereChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decoding cohere response: %w", err)
	}

	// Same as the SDKs: the first content block carries the answer.
	if len(out.Message.Content) == 0 {
		return "", nil
	}
	return out.Message.Content[0].Text, nil
}
