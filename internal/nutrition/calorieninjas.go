package nutrition

import (
	"context"
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

// CalorieNinjasClient queries the CalorieNinjas natural-language nutrition API.
type CalorieNinjasClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewCalorieNinjasClient creates a client bounded by cfg.Timeout.
func NewCalorieNinjasClient(cfg config.NutritionConfig) *CalorieNinjasClient {
	return &CalorieNinjasClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Lookup returns the raw JSON body of GET /v1/nutrition?query=food.
func (c *CalorieNinjasClient) Lookup(ctx context.Context, food string) (model.NutritionRecord, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	endpoint := c.baseURL + "/v1/nutrition?query=" + url.QueryEscape(food)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling calorieninjas after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrUnavailable)
	}

	return model.NutritionRecord(body), nil
}
