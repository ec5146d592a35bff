// Package gemini adapts the Google Gemini API to the generic provider.Client
// interface used by the orchestration core.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/autodrop/agenthub/provider"
)

// DefaultModel is used when a request leaves the model id empty.
const DefaultModel = "gemini-2.0-flash"

// Client wraps the official GenAI SDK behind provider.Client.
type Client struct {
	client *genai.Client
}

// New creates a Client authenticated with apiKey.
func New(apiKey string) (*Client, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{client: client}, nil
}

// NewFromClient creates a Client from an existing SDK client.
func NewFromClient(client *genai.Client) *Client {
	return &Client{client: client}
}

// Generate implements provider.Client using a non-streaming content request.
func (c *Client) Generate(ctx context.Context, req provider.Request) (*provider.Response, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.SystemPrompt)},
		}
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.NewPartFromText(req.Prompt)},
	}}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no response generated from gemini")
	}

	usage := provider.Usage{}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &provider.Response{
		Content:  text,
		Usage:    usage,
		Model:    model,
		Provider: provider.Gemini,
	}, nil
}
