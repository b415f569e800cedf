package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/lehigh-university-libraries/homelibrary/internal/providers"
	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI is a provider for OpenAI chat completions
type OpenAI struct {
	client sdk.Client
	apiKey string
}

// New returns a new OpenAI provider. An empty baseURL uses the public API.
func New(apiKey, baseURL string, httpClient *http.Client) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{client: sdk.NewClient(opts...), apiKey: apiKey}
}

// ExtractText sends the prompt, and the image as a data URL when present, to OpenAI
func (o *OpenAI) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("openai API key not configured")
	}

	parts := []sdk.ChatCompletionContentPartUnionParam{sdk.TextContentPart(config.Prompt)}
	if len(config.Image) > 0 {
		dataURL := "data:" + config.ImageMIMEType() + ";base64," + base64.StdEncoding.EncodeToString(config.Image)
		parts = append(parts, sdk.ImageContentPart(sdk.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}))
	}

	completion, err := o.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model:       sdk.ChatModel(config.Model),
		Messages:    []sdk.ChatCompletionMessageParamUnion{sdk.UserMessage(parts)},
		Temperature: sdk.Float(config.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return completion.Choices[0].Message.Content, nil
}
