package core

import "time"

// Role identifies the author kind of a chat message sent to a model.
type Role string

// Chat roles understood by every provider adapter.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SystemSender is the reserved sender id for messages originated by the
// platform itself rather than by a registered agent.
const SystemSender = "system"

// Message is a single turn in an agent conversation. Role is what the model
// sees; AgentID attributes the turn to a participant when the message lives
// inside a multi-agent conversation.
type Message struct {
	ID        string         `json:"id,omitempty"`
	Role      Role           `json:"role"`
	AgentID   string         `json:"agent_id,omitempty"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewUserMessage is a convenience constructor for a user turn.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewSystemMessage is a convenience constructor for a system turn.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}
