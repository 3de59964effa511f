package imageapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/promptpix/go-promptpix-backend/internal/generation/domain"
)

// Client builds deterministic image-service URLs and validates that a built
// URL actually resolves to image content before anything is persisted.
type Client struct {
	baseURL    string
	width      int
	height     int
	model      string
	enhance    bool
	httpClient *http.Client
}

func NewClient(baseURL string, width, height int, model string, enhance bool) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		width:   width,
		height:  height,
		model:   model,
		enhance: enhance,
		httpClient: &http.Client{
			// Image generation can take a while on a cold prompt.
			Timeout: 120 * time.Second,
		},
	}
}

// BuildURL constructs the image request URL for an enhanced prompt and seed.
// The same prompt and seed always yield the same URL.
func (c *Client) BuildURL(enhancedPrompt string, seed int) string {
	q := url.Values{}
	q.Set("seed", strconv.Itoa(seed))
	q.Set("width", strconv.Itoa(c.width))
	q.Set("height", strconv.Itoa(c.height))
	q.Set("model", c.model)
	q.Set("enhance", strconv.FormatBool(c.enhance))

	return fmt.Sprintf("%s/prompt/%s?%s", c.baseURL, url.PathEscape(enhancedPrompt), q.Encode())
}

// Validate fetches the URL and fails unless the response is a success status
// carrying an image content type. This is the gate that keeps unconfirmed
// images out of storage.
func (c *Client) Validate(ctx context.Context, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("image generation failed with status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: got content type %q", domain.ErrNotImageContent, contentType)
	}

	return nil
}
