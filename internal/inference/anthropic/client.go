package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"credintel/internal/config"
	"credintel/internal/inference"
	"credintel/internal/port"
)

const providerName = "anthropic"

// Client implements port.InferenceClient using the Anthropic Messages API.
type Client struct {
	client *anthropic.Client
	model  string
}

// NewClient creates an Anthropic-backed inference client from config.
func NewClient(cfg *config.InferenceConfig) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	client := anthropic.NewClient(opts...)

	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-5-20250929"
	}
	return &Client{
		client: &client,
		model:  model,
	}
}

func (c *Client) ProviderName() string {
	return providerName
}

func (c *Client) Complete(ctx context.Context, prompt string) (*port.CompletionOutput, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 8192,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, classifyError(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(textBlock.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from API: no text blocks")
	}

	return &port.CompletionOutput{
		Text:      text.String(),
		ModelUsed: c.model,
	}, nil
}

// classifyError maps SDK errors onto the shared retry taxonomy: 429
// becomes a rate limit, 5xx and transport failures become transient,
// everything else is permanent.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		base := fmt.Errorf("anthropic API error (status %d): %w", apiErr.StatusCode, err)
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return inference.NewRateLimitError(providerName, base, 0)
		case apiErr.StatusCode >= 500:
			return inference.NewTransientError(providerName, base)
		default:
			return base
		}
	}

	// No HTTP status means the request never completed.
	return inference.NewTransientError(providerName, fmt.Errorf("calling anthropic API: %w", err))
}
