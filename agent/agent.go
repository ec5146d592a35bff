// Package agent implements the single-agent abstraction: a named persona with
// instructions and model parameters that turns conversation history into an
// assistant reply, detects embedded handoff directives, and degrades to an
// apology message when the underlying provider call fails. The triage router
// is a specialization that only classifies inquiries.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/logging"
	"github.com/autodrop/agenthub/provider"
)

// apologyContent is appended as the assistant turn when generation fails for
// any reason other than missing provider credentials.
const apologyContent = "I apologize, but I'm currently unable to process your request. Please try again later."

// handoffInstructions teaches the model the textual transfer convention. The
// detector in handoff.go parses the same format back out of replies.
const handoffInstructions = `

Handoff Instructions:
When you need to transfer to another agent, use this format:
HANDOFF_TO: [agent-name]
HANDOFF_CONTEXT: [context description]
HANDOFF_DATA: [relevant data as JSON]
HANDOFF_INSTRUCTIONS: [specific instructions for receiving agent]`

// Generator is the outbound text-generation dependency. *provider.Manager
// satisfies it; tests supply mocks.
type Generator interface {
	Generate(ctx context.Context, req provider.Request) (*provider.Response, error)
}

// Options configures an Agent instance.
type Options struct {
	Provider    provider.Name
	Model       string
	Temperature float64
	MaxTokens   int
	Language    core.Language
	// Context seeds the agent's free-form context map.
	Context map[string]any
	Logger  logging.Logger
}

// RunOptions tunes a single Run invocation.
type RunOptions struct {
	// StructuredSchema, when non-empty, instructs the model to answer with a
	// single JSON object matching the described schema. The reply is then
	// also parsed into Response.Structured.
	StructuredSchema string
}

// Response is the result of one agent turn: the extended message history,
// any handoffs detected in the reply, and the structured output when one was
// requested and parseable.
type Response struct {
	Messages   []core.Message  `json:"messages"`
	Handoffs   []core.Handoff  `json:"handoffs,omitempty"`
	Structured json.RawMessage `json:"structured_output,omitempty"`
}

// Reply returns the content of the final message, the assistant turn.
func (r *Response) Reply() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1].Content
}

// Agent is a named persona bound to a provider/model configuration. The
// context map is mutable external input (handoffs write into it); everything
// else is fixed at construction. Safe for concurrent use.
type Agent struct {
	name         string
	instructions string
	providerName provider.Name
	model        string
	temperature  float64
	maxTokens    int
	language     core.Language
	gen          Generator
	logger       logging.Logger

	mu      sync.RWMutex
	context map[string]any
}

// New constructs an Agent with sensible defaults (openai gpt-4o-mini at
// temperature 0.7, 1000 max tokens).
func New(name, instructions string, gen Generator, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Provider:    provider.OpenAI,
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   1000,
		Language:    core.LanguageEnglish,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	ctx := make(map[string]any, len(opts.Context))
	for k, v := range opts.Context {
		ctx[k] = v
	}

	return &Agent{
		name:         name,
		instructions: instructions,
		providerName: opts.Provider,
		model:        opts.Model,
		temperature:  opts.Temperature,
		maxTokens:    opts.MaxTokens,
		language:     opts.Language,
		gen:          gen,
		logger:       opts.Logger,
		context:      ctx,
	}
}

// Name returns the agent's persona name.
func (a *Agent) Name() string { return a.name }

// SetContext writes a key into the agent's context map, overwriting any
// previous value for the key.
func (a *Agent) SetContext(key string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.context[key] = value
}

// GetContext reads a key from the agent's context map.
func (a *Agent) GetContext(key string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.context[key]
	return v, ok
}

// contextSnapshot copies the context map for prompt composition.
func (a *Agent) contextSnapshot() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	snap := make(map[string]any, len(a.context))
	for k, v := range a.context {
		snap[k] = v
	}
	return snap
}

// Run forwards the message history plus the composed system prompt to the
// generator, appends the assistant reply, and scans it for handoff blocks.
// It never propagates provider errors: a failed call degrades to a fallback
// or apology assistant message so callers always receive a usable turn.
func (a *Agent) Run(ctx context.Context, messages []core.Message, optFns ...func(o *RunOptions)) *Response {
	var runOpts RunOptions
	for _, fn := range optFns {
		fn(&runOpts)
	}

	systemPrompt := a.buildSystemPrompt(runOpts.StructuredSchema)

	resp, err := a.gen.Generate(ctx, provider.Request{
		Provider:     a.providerName,
		Model:        a.model,
		Prompt:       flattenMessages(messages),
		SystemPrompt: systemPrompt,
		Temperature:  a.temperature,
		MaxTokens:    a.maxTokens,
		Language:     string(a.language),
	})
	if err != nil {
		content := apologyContent
		if errors.Is(err, core.ErrProviderNotConfigured) {
			content = provider.FallbackContent
		}
		a.logger.Warn("Agent generation failed", "agent", a.name, "error", err)
		return &Response{Messages: appendAssistant(messages, content)}
	}

	out := &Response{Messages: appendAssistant(messages, resp.Content)}
	out.Handoffs = detectHandoffs(a.name, resp.Content, a.logger)
	if runOpts.StructuredSchema != "" {
		out.Structured = extractJSONObject(resp.Content)
	}
	return out
}

// buildSystemPrompt composes static instructions, the current context map and
// the handoff convention into one system prompt.
func (a *Agent) buildSystemPrompt(structuredSchema string) string {
	var b strings.Builder
	b.WriteString(a.instructions)

	if snap := a.contextSnapshot(); len(snap) > 0 {
		if data, err := json.MarshalIndent(snap, "", "  "); err == nil {
			b.WriteString("\n\nContext Information:\n")
			b.Write(data)
		}
	}

	b.WriteString(handoffInstructions)

	if structuredSchema != "" {
		b.WriteString("\n\nRespond with a single JSON object matching this schema, with no surrounding text:\n")
		b.WriteString(structuredSchema)
	}

	return b.String()
}

// flattenMessages serializes the conversation history into the prompt form
// the invocation client expects.
func flattenMessages(messages []core.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, string(m.Role)+": "+m.Content)
	}
	return strings.Join(parts, "\n")
}

func appendAssistant(messages []core.Message, content string) []core.Message {
	out := make([]core.Message, len(messages), len(messages)+1)
	copy(out, messages)
	return append(out, core.Message{Role: core.RoleAssistant, Content: content})
}

// extractJSONObject returns the first top-level JSON object found in content,
// or nil when none parses. Models often wrap JSON in prose or code fences, so
// scanning is tolerant of surrounding text.
func extractJSONObject(content string) json.RawMessage {
	start := strings.Index(content, "{")
	if start < 0 {
		return nil
	}
	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := content[start : i+1]
				if json.Valid([]byte(candidate)) {
					return json.RawMessage(candidate)
				}
				return nil
			}
		}
	}
	return nil
}
