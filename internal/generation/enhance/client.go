package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const promptTemplate = `Enhance this image prompt to be detailed and professional for AI image generation. Only return the enhanced prompt, nothing else: "%s"`

// Client calls an OpenAI-compatible chat completions endpoint to elaborate a
// raw user prompt into something the image service renders well.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// Options tunes a Client beyond the required endpoint settings.
type Options struct {
	Temperature float64
	// RPS caps outbound calls; 0 disables the limiter.
	RPS     float64
	Timeout time.Duration
}

func NewClient(baseURL, apiKey, model string, opts Options) *Client {
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: opts.Temperature,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		limiter:     limiter,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Enhance sends the raw prompt to the completion endpoint and returns the
// enhanced text with surrounding whitespace and wrapping quotes stripped.
func (c *Client) Enhance(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("enhance rate limit: %w", err)
		}
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, prompt)},
		},
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("enhancement request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("enhancement service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("enhancement service error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("enhancement service returned no choices")
	}

	enhanced := StripQuotes(out.Choices[0].Message.Content)
	if enhanced == "" {
		return "", fmt.Errorf("enhancement service returned empty prompt")
	}

	return enhanced, nil
}

// StripQuotes trims whitespace and removes a single leading and trailing
// quote character; the model tends to quote its answer.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}
