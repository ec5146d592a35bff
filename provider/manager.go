package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/logging"
)

// Factory constructs a provider Client from an API key. Factories are wired
// in by the caller so the Manager stays decoupled from concrete SDKs.
type Factory func(apiKey string) (Client, error)

// Keys holds the credentials for each provider. An empty key means the
// provider is not configured.
type Keys struct {
	Gemini    string
	OpenAI    string
	Anthropic string
}

// Key returns the credential for the named provider.
func (k Keys) Key(name Name) string {
	switch name {
	case Gemini:
		return k.Gemini
	case OpenAI:
		return k.OpenAI
	case Anthropic:
		return k.Anthropic
	}
	return ""
}

// ManagerOptions configures a Manager instance.
type ManagerOptions struct {
	// Keys supply per-provider credentials.
	Keys Keys
	// Factories map provider names to client constructors.
	Factories map[Name]Factory
	// Timeout bounds every outbound generation call. The original design had
	// no bound on a hung provider call; a deterministic cancellation signal
	// is required here.
	Timeout time.Duration
	// Logger receives structured call diagnostics.
	Logger logging.Logger
}

// Manager dispatches generation requests to lazily-initialized provider
// clients. Handles are created on first use per provider and invalidated by
// Reset. Safe for concurrent use.
type Manager struct {
	keys      Keys
	factories map[Name]Factory
	timeout   time.Duration
	logger    logging.Logger

	mu      sync.Mutex
	clients map[Name]Client
}

// NewManager constructs a Manager with optional overrides.
func NewManager(optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{
		Factories: map[Name]Factory{},
		Timeout:   30 * time.Second,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Manager{
		keys:      opts.Keys,
		factories: opts.Factories,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
		clients:   make(map[Name]Client),
	}
}

// client returns the cached handle for name, constructing it on first use.
func (m *Manager) client(name Name) (Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.clients[name]; ok {
		return c, nil
	}

	key := m.keys.Key(name)
	if key == "" {
		return nil, fmt.Errorf("%w: %s API key missing", core.ErrProviderNotConfigured, name)
	}

	factory, ok := m.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: no client factory for %s", core.ErrProviderNotConfigured, name)
	}

	c, err := factory(key)
	if err != nil {
		return nil, core.NewGenerationError(string(name), err)
	}

	m.clients[name] = c
	return c, nil
}

// Reset invalidates all cached client handles. The next call per provider
// re-reads keys and reconstructs the client.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients = make(map[Name]Client)
}

// SetKeys replaces the credential set and invalidates all cached handles.
func (m *Manager) SetKeys(keys Keys) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = keys
	m.clients = make(map[Name]Client)
}

// Generate dispatches req to the matching provider adapter. It fails with
// core.ErrProviderNotConfigured when credentials are missing and wraps every
// other failure (including an empty completion) as a core.GenerationError.
func (m *Manager) Generate(ctx context.Context, req Request) (*Response, error) {
	if !req.Provider.Valid() {
		return nil, core.NewGenerationError(string(req.Provider), fmt.Errorf("unsupported provider"))
	}

	client, err := m.client(req.Provider)
	if err != nil {
		return nil, err
	}

	req.SystemPrompt = appendLanguageInstruction(req.SystemPrompt, req.Language)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	resp, err := client.Generate(ctx, req)
	if err == nil && (resp == nil || strings.TrimSpace(resp.Content) == "") {
		err = fmt.Errorf("no response generated")
	}

	model, tokens := req.Model, 0
	if resp != nil {
		model, tokens = resp.Model, resp.Usage.TotalTokens
	}
	if rec, ok := m.logger.(logging.ModelCallRecorder); ok {
		rec.LogModelCall(string(req.Provider), model, tokens, time.Since(start), err)
	} else if err != nil {
		m.logger.Error("Generation failed", "provider", req.Provider, "model", req.Model, "error", err)
	} else {
		m.logger.Debug("Generation completed",
			"provider", req.Provider,
			"model", model,
			"total_tokens", tokens,
			"duration", time.Since(start),
		)
	}

	if err != nil {
		return nil, core.NewGenerationError(string(req.Provider), err)
	}
	return resp, nil
}

// appendLanguageInstruction suffixes the system prompt with the response
// language directive matching the caller's language hint.
func appendLanguageInstruction(systemPrompt, language string) string {
	switch language {
	case "ar":
		return systemPrompt + "\n\nAlways respond in Arabic (العربية)."
	case "both":
		return systemPrompt + "\n\nProvide responses in both English and Arabic."
	default:
		return systemPrompt
	}
}
