package gemini

import (
	"context"
	"testing"

	"github.com/lehigh-university-libraries/homelibrary/internal/providers"
	"github.com/stretchr/testify/assert"
)

func TestExtractTextRequiresAPIKey(t *testing.T) {
	_, err := New("").ExtractText(context.Background(), providers.Config{Model: "gemini-2.5-flash-lite", Prompt: "hi"})
	assert.ErrorContains(t, err, "API key not configured")
}
