// Package provider wraps outbound text-generation calls behind a uniform
// Client interface with per-provider adapters (gemini, openai, anthropic)
// and a Manager that lazily constructs client handles from configured API
// keys. The Manager is the single suspension point of the orchestration
// core: every model call flows through Manager.Generate.
package provider

import "context"

// Name identifies a supported text-generation provider.
type Name string

// The fixed provider enum. Requests naming any other provider fail.
const (
	Gemini    Name = "gemini"
	OpenAI    Name = "openai"
	Anthropic Name = "anthropic"
)

// Valid reports whether n is one of the supported providers.
func (n Name) Valid() bool {
	switch n {
	case Gemini, OpenAI, Anthropic:
		return true
	}
	return false
}

// Request captures the normalized generation input produced by agents.
type Request struct {
	Provider     Name    `json:"provider"`
	Model        string  `json:"model"`
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	Language     string  `json:"language,omitempty"` // "en", "ar" or "both"
}

// Usage captures token usage statistics for a response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the normalized generation output returned to agents.
type Response struct {
	Content  string `json:"content"`
	Usage    Usage  `json:"usage"`
	Model    string `json:"model"`
	Provider Name   `json:"provider"`
}

// Client is the minimal interface a provider adapter must implement.
// Adapters return raw SDK errors; the Manager classifies and wraps them.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// FallbackContent is the user-visible reply substituted when the requested
// provider has no configured credentials. Degraded but functional: the caller
// still receives an in-character answer instead of a hard failure.
const FallbackContent = "I'm currently unable to process your request because the AI service " +
	"isn't configured. Please configure the API keys in Settings > API Keys to enable AI functionality."

// FallbackResponse builds the canned degraded response for a request whose
// provider is not configured.
func FallbackResponse(req Request) *Response {
	return &Response{
		Content:  FallbackContent,
		Model:    req.Model,
		Provider: req.Provider,
	}
}
