package providers

import (
	"context"
	"net/http"
	"strings"
)

// Config represents one request to a vision-capable LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// Image is sent alongside the prompt when non-empty.
	Image    []byte
	MIMEType string
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}

// ImageMIMEType returns the configured MIME type, or sniffs it from the image
// bytes. JPEG is assumed when sniffing does not find an image type.
func (c Config) ImageMIMEType() string {
	if c.MIMEType != "" {
		return c.MIMEType
	}
	mime := http.DetectContentType(c.Image)
	if !strings.HasPrefix(mime, "image/") {
		return "image/jpeg"
	}
	return mime
}
