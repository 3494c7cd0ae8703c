package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"studioai/internal/app/studio/infrastructure"
)

// Client - тонкий прокси к стороннему inference API.
// Просто пробрасывает запрос и разбирает ответ, без повторов и очередей.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
}

// Generate отправляет запрос генерации изображения
func (c *Client) Generate(ctx context.Context, prompt, style string) (*infrastructure.InferenceResult, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt, Style: style})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generations", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("inference api returned status %d", resp.StatusCode)
	}

	var result infrastructure.InferenceResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}

	return &result, nil
}
