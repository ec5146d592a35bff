package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/internal/util"
	"github.com/autodrop/agenthub/logging"
	"github.com/autodrop/agenthub/provider"
)

// Generator is the outbound text-generation dependency of the Manager.
// *provider.Manager satisfies it.
type Generator interface {
	Generate(ctx context.Context, req provider.Request) (*provider.Response, error)
}

// ManagerOptions configures a Manager instance.
type ManagerOptions struct {
	ChatLog ChatStore
	// RateLimit caps per-agent requests inside RateWindow. Zero disables.
	RateLimit  int
	RateWindow time.Duration
	Logger     logging.Logger
}

// Manager is the production invocation path for registered agents. Every
// user-facing exchange runs through ProcessMessage, which enforces rate
// limits and agent status, sanitizes input, invokes the provider with the
// agent's stored configuration, records the exchange in the chat log, and
// updates the agent's metrics.
type Manager struct {
	store   Store
	chatLog ChatStore
	gen     Generator
	limiter *core.RateLimiter
	logger  logging.Logger

	startTime time.Time
}

// NewManager constructs a Manager over store and gen with optional overrides.
func NewManager(store Store, gen Generator, optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{
		ChatLog:    NewInMemoryChatLog(),
		RateLimit:  30,
		RateWindow: time.Minute,
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Manager{
		store:     store,
		chatLog:   opts.ChatLog,
		gen:       gen,
		limiter:   core.NewRateLimiter(opts.RateLimit, opts.RateWindow),
		logger:    opts.Logger,
		startTime: time.Now(),
	}
}

// Store exposes the underlying agent store.
func (m *Manager) Store() Store { return m.store }

// Chats returns the audit trail for one agent.
func (m *Manager) Chats(ctx context.Context, agentID string) ([]core.ChatRecord, error) {
	if _, err := m.store.Get(ctx, agentID); err != nil {
		return nil, err
	}
	return m.chatLog.ByAgent(ctx, agentID)
}

// ProcessMessage runs one exchange against the named agent. A provider
// without credentials degrades to the configured fallback message; every
// other failure is returned to the caller after the failed-request metrics
// are recorded.
func (m *Manager) ProcessMessage(ctx context.Context, agentID, message, userID string, language core.Language) (string, error) {
	start := time.Now()

	if !m.limiter.Allow(agentID) {
		return "", fmt.Errorf("%w: agent %s", core.ErrRateLimitExceeded, agentID)
	}

	rec, err := m.store.Get(ctx, agentID)
	if err != nil {
		return "", err
	}
	if rec.Status != core.AgentActive {
		return "", fmt.Errorf("agent %s is currently %s", agentID, rec.Status)
	}

	sanitized := util.SanitizeInput(message)
	if strings.TrimSpace(sanitized) == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	if language == "" {
		language = core.LanguageEnglish
	}

	req := provider.Request{
		Provider:     provider.Name(rec.Config.Provider),
		Model:        rec.Config.Model,
		Prompt:       sanitized,
		SystemPrompt: rec.Config.SystemPrompt,
		Temperature:  rec.Config.Temperature,
		MaxTokens:    rec.Config.MaxTokens,
		Language:     string(language),
	}
	resp, err := m.gen.Generate(ctx, req)

	if errors.Is(err, core.ErrProviderNotConfigured) {
		fallback := provider.FallbackResponse(req)
		m.saveChat(ctx, agentID, userID, sanitized, fallback.Content, language, map[string]any{
			"provider":      string(fallback.Provider),
			"model":         fallback.Model,
			"response_time": time.Since(start).Milliseconds(),
			"fallback":      true,
		})
		return fallback.Content, nil
	}
	if err != nil {
		m.recordFailure(ctx, agentID)
		return "", err
	}

	m.saveChat(ctx, agentID, userID, sanitized, resp.Content, language, map[string]any{
		"provider":      string(resp.Provider),
		"model":         resp.Model,
		"total_tokens":  resp.Usage.TotalTokens,
		"response_time": time.Since(start).Milliseconds(),
	})
	m.recordSuccess(ctx, agentID, time.Since(start))

	return resp.Content, nil
}

// saveChat writes the audit record; failures are logged, never surfaced.
func (m *Manager) saveChat(ctx context.Context, agentID, userID, message, response string, language core.Language, metadata map[string]any) {
	err := m.chatLog.Save(ctx, core.ChatRecord{
		AgentID:  agentID,
		UserID:   userID,
		Message:  message,
		Response: response,
		Language: language,
		Metadata: metadata,
	})
	if err != nil {
		m.logger.Warn("Failed to save chat record", "agent", agentID, "error", err)
	}
}

func (m *Manager) recordSuccess(ctx context.Context, agentID string, elapsed time.Duration) {
	err := m.store.UpdateMetrics(ctx, agentID, func(metrics *core.AgentMetrics) {
		metrics.TotalRequests++
		metrics.SuccessfulRequests++
		metrics.AvgResponseTime = rollingAverage(metrics.AvgResponseTime, int(elapsed.Milliseconds()), metrics.TotalRequests)
		metrics.LastActive = time.Now()
	})
	if err != nil {
		m.logger.Warn("Failed to update agent metrics", "agent", agentID, "error", err)
	}
}

func (m *Manager) recordFailure(ctx context.Context, agentID string) {
	err := m.store.UpdateMetrics(ctx, agentID, func(metrics *core.AgentMetrics) {
		metrics.TotalRequests++
		metrics.FailedRequests++
	})
	if err != nil {
		m.logger.Warn("Failed to update agent metrics", "agent", agentID, "error", err)
	}
}

// rollingAverage folds a new sample into the running mean.
func rollingAverage(currentAvg, sample, totalRequests int) int {
	if totalRequests <= 0 {
		return sample
	}
	return (currentAvg*(totalRequests-1) + sample) / totalRequests
}

// Health summarizes manager state for the health endpoint.
type Health struct {
	Status       string        `json:"status"`
	ActiveAgents int           `json:"agents"`
	Uptime       time.Duration `json:"uptime"`
}

// HealthCheck reports the number of active agents and process uptime.
func (m *Manager) HealthCheck(ctx context.Context) (Health, error) {
	agents, err := m.store.List(ctx)
	if err != nil {
		return Health{}, err
	}

	active := 0
	for _, rec := range agents {
		if rec.Status == core.AgentActive {
			active++
		}
	}

	return Health{
		Status:       "healthy",
		ActiveAgents: active,
		Uptime:       time.Since(m.startTime),
	}, nil
}
