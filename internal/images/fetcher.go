// Package images loads shelf photos from local paths or http(s) URLs.
package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// minImageBytes rejects error pages and tracking pixels served as images.
const minImageBytes = 1000

// Fetcher retrieves shelf photos.
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

func NewFetcher(maxBytes int64) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
	}
}

// IsURL reports whether source should be downloaded rather than read from disk.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load returns the bytes of source, a file path or an http(s) URL.
func (f *Fetcher) Load(ctx context.Context, source string) ([]byte, error) {
	if IsURL(source) {
		return f.Fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("image %s too large (max %d bytes)", source, f.MaxBytes)
	}
	return data, nil
}

// Fetch downloads an image. Responses that are not images, or too small to
// be a photo, are rejected.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("image URL returned content type %q", ct)
	}

	body := io.Reader(resp.Body)
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("image too large (max %d bytes)", f.MaxBytes)
	}
	if len(data) < minImageBytes {
		return nil, fmt.Errorf("image too small (likely invalid), size: %d bytes", len(data))
	}

	slog.Debug("Downloaded image", "url", url, "bytes", len(data))
	return data, nil
}
