// Package anthropic adapts the Anthropic Messages API to the generic
// provider.Client interface used by the orchestration core.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/autodrop/agenthub/provider"
)

// Client wraps the official Anthropic SDK behind provider.Client.
type Client struct {
	client *anthropic.Client
}

// New creates a Client authenticated with apiKey.
func New(apiKey string) (*Client, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Client{client: &client}, nil
}

// NewFromClient creates a Client from an existing SDK client.
func NewFromClient(client *anthropic.Client) *Client {
	return &Client{client: client}
}

// Generate implements provider.Client using a non-streaming message request.
func (c *Client) Generate(ctx context.Context, req provider.Request) (*provider.Response, error) {
	system := req.SystemPrompt
	if system == "" {
		system = "You are a helpful AI assistant."
	}

	model := anthropic.Model(req.Model)
	if req.Model == "" {
		model = anthropic.ModelClaude3_5Sonnet20241022
	}

	params := anthropic.MessageNewParams{
		Model:       model,
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.AsText().Text
		}
	}
	if content == "" {
		return nil, fmt.Errorf("unexpected response type from anthropic")
	}

	return &provider.Response{
		Content: content,
		Usage: provider.Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
		Model:    string(resp.Model),
		Provider: provider.Anthropic,
	}, nil
}
