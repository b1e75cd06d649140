// Package llm wraps the OpenAI-compatible chat-completions endpoint behind a
// single Complete call. The provider is treated as an opaque oracle: any
// transport error, non-2xx status or empty completion is a fault for the
// caller to isolate.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/repolens/repolens/config"
)

// ErrNotConfigured is returned when no API key is present. It is fatal to a
// run: no request must be attempted without credentials.
var ErrNotConfigured = errors.New("completion api key is not configured")

// Client issues chat completions against the configured provider.
type Client struct {
	api         openai.Client
	model       string
	maxTokens   int64
	temperature float64
	configured  bool
}

func New() *Client {
	apiKey := config.Groq.ApiKey()

	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(config.Groq.BaseUrl()),
			option.WithRequestTimeout(config.Groq.RequestTimeout()),
		),
		model:       config.Groq.Model(),
		maxTokens:   config.Groq.MaxOutputTokens(),
		temperature: config.Groq.Temperature(),
		configured:  apiKey != "",
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.configured
}

// Complete sends one system+user exchange and returns the completion text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.configured {
		return "", ErrNotConfigured
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("completion returned empty content")
	}

	return text, nil
}
