// Package openai adapts the OpenAI Chat Completions API to the generic
// provider.Client interface used by the orchestration core.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/autodrop/agenthub/provider"
)

// Client wraps the official OpenAI SDK behind provider.Client.
type Client struct {
	client *openai.Client
}

// New creates a Client authenticated with apiKey.
func New(apiKey string) (*Client, error) {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{client: &client}, nil
}

// NewFromClient creates a Client from an existing SDK client.
func NewFromClient(client *openai.Client) *Client {
	return &Client{client: client}
}

// Generate implements provider.Client using a non-streaming chat completion.
func (c *Client) Generate(ctx context.Context, req provider.Request) (*provider.Response, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	model := req.Model
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               model,
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no response generated from openai")
	}

	return &provider.Response{
		Content: resp.Choices[0].Message.Content,
		Usage: provider.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
		Model:    resp.Model,
		Provider: provider.OpenAI,
	}, nil
}
