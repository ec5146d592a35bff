package core

import "time"

// AgentStatus is the operational state of a registered agent.
type AgentStatus string

// Agent lifecycle states managed by the registry.
const (
	AgentActive      AgentStatus = "active"
	AgentInactive    AgentStatus = "inactive"
	AgentMaintenance AgentStatus = "maintenance"
)

// Language selects the response language an agent is configured for.
type Language string

// Supported language modes.
const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageBoth    Language = "both"
)

// AgentConfig holds the model parameters an agent invokes a provider with.
type AgentConfig struct {
	Model        string   `json:"model"`
	Provider     string   `json:"provider"`
	Temperature  float64  `json:"temperature"`
	MaxTokens    int      `json:"max_tokens"`
	SystemPrompt string   `json:"system_prompt"`
	Language     Language `json:"language"`
}

// AgentMetrics tracks request counters and latency for a registered agent.
// The registry updates these as a side effect of message processing.
type AgentMetrics struct {
	TotalRequests      int       `json:"total_requests"`
	SuccessfulRequests int       `json:"successful_requests"`
	FailedRequests     int       `json:"failed_requests"`
	AvgResponseTime    int       `json:"avg_response_time"` // milliseconds
	UptimePercentage   float64   `json:"uptime_percentage"`
	LastActive         time.Time `json:"last_active"`
}

// AgentRecord is the registry entity describing a configured agent persona.
// The orchestration core reads Config and writes Metrics; creation and
// updates come from the external store.
type AgentRecord struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Status    AgentStatus  `json:"status"`
	Config    AgentConfig  `json:"config"`
	Metrics   AgentMetrics `json:"metrics"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ChatRecord is one audit entry of a user/agent exchange persisted to the
// chat log store.
type ChatRecord struct {
	ID        string         `json:"id"`
	AgentID   string         `json:"agent_id"`
	UserID    string         `json:"user_id"`
	Message   string         `json:"message"`
	Response  string         `json:"response"`
	Language  Language       `json:"language"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
