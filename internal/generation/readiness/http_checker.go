package readiness

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	// Register the decoders the image service actually serves.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// HTTPChecker probes an image URL over HTTP and decodes only the image
// header to learn its dimensions.
type HTTPChecker struct {
	httpClient *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPChecker{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPChecker) Check(ctx context.Context, imageURL string) (Dimensions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return Dimensions{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Dimensions{}, fmt.Errorf("image probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Dimensions{}, fmt.Errorf("image probe returned status %d", resp.StatusCode)
	}

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return Dimensions{}, fmt.Errorf("failed to decode image header: %w", err)
	}

	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
