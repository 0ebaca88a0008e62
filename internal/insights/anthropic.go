package insights

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// Anthropic generates insights through the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic builds a generator for the given key. An empty model falls
// back to the default.
func NewAnthropic(apiKey, model string) *Anthropic {
	return NewAnthropicWithOptions(apiKey, model, ClientOptions{})
}

// NewAnthropicWithOptions is NewAnthropic with the configured timeout and
// retry attempts applied. The SDK counts retries, not attempts, so one
// configured attempt means zero retries.
func NewAnthropicWithOptions(apiKey, model string, o ClientOptions) *Anthropic {
	if model == "" {
		model = defaultAnthropicModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if o.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: o.Timeout}))
	}
	if o.MaxAttempts > 0 {
		opts = append(opts, option.WithMaxRetries(o.MaxAttempts-1))
	}
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (a *Anthropic) Generate(ctx context.Context, r Report) ([]string, error) {
	system, user := buildPrompts(r)
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic api: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return parseBullets(block.Text), nil
		}
	}
	return nil, errors.New("no text content in response")
}
