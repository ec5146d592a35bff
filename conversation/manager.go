// Package conversation maintains multi-party agent conversations. Appending
// a message fans it out once to every other participant through the
// production invocation path; replies are recorded but do not trigger
// further notifications.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/logging"
)

// Processor runs one agent exchange during fan-out. *registry.Manager
// satisfies it.
type Processor interface {
	ProcessMessage(ctx context.Context, agentID, message, userID string, language core.Language) (string, error)
}

// Status is the lifecycle state of a conversation. The manager only creates
// conversations as active; completed and archived are set by external
// callers via SetStatus.
type Status string

// Conversation states.
const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Conversation is an ordered exchange between a fixed set of participants.
// Messages are immutable once appended.
type Conversation struct {
	ID           string         `json:"id"`
	Participants []string       `json:"participants"`
	Topic        string         `json:"topic"`
	Messages     []core.Message `json:"messages"`
	Status       Status         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (c *Conversation) clone() *Conversation {
	out := *c
	out.Participants = append([]string(nil), c.Participants...)
	out.Messages = append([]core.Message(nil), c.Messages...)
	return &out
}

// Options configures a Manager instance.
type Options struct {
	Logger logging.Logger
}

// Manager owns conversation lifecycles. Safe for concurrent use.
type Manager struct {
	proc   Processor
	logger logging.Logger

	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewManager constructs a Manager over proc with optional overrides.
func NewManager(proc Processor, optFns ...func(o *Options)) *Manager {
	opts := Options{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Manager{
		proc:          proc,
		logger:        opts.Logger,
		conversations: make(map[string]*Conversation),
	}
}

// Start creates an active conversation between participants. When
// initialMessage is non-empty it is recorded as a system message without
// notifying participants.
func (m *Manager) Start(participants []string, topic, initialMessage string) string {
	conv := &Conversation{
		ID:           "conv_" + core.NewID(),
		Participants: append([]string(nil), participants...),
		Topic:        topic,
		Status:       StatusActive,
		CreatedAt:    time.Now(),
	}

	if initialMessage != "" {
		conv.Messages = append(conv.Messages, core.Message{
			ID:        "msg_" + core.NewID(),
			Role:      core.RoleAssistant,
			AgentID:   core.SystemSender,
			Content:   initialMessage,
			Timestamp: time.Now(),
		})
	}

	m.mu.Lock()
	m.conversations[conv.ID] = conv
	m.mu.Unlock()

	logging.ForConversation(m.logger, conv.ID).Info("Started conversation",
		"participants", strings.Join(participants, ", "),
	)
	return conv.ID
}

// AddMessage appends a message from senderAgentID and fans it out once to
// every other participant. Replies produced during fan-out are appended but
// do not trigger further notifications; the caller invokes AddMessage again
// if deeper propagation is desired.
func (m *Manager) AddMessage(ctx context.Context, conversationID, senderAgentID, content string) error {
	conv, err := m.append(conversationID, senderAgentID, content)
	if err != nil {
		return err
	}

	m.notifyParticipants(ctx, conv, senderAgentID, content)
	return nil
}

// append records the message and returns a snapshot used for fan-out.
func (m *Manager) append(conversationID, senderAgentID, content string) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversations[conversationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrConversationNotFound, conversationID)
	}

	conv.Messages = append(conv.Messages, core.Message{
		ID:        "msg_" + core.NewID(),
		Role:      core.RoleAssistant,
		AgentID:   senderAgentID,
		Content:   content,
		Timestamp: time.Now(),
	})
	return conv.clone(), nil
}

// notifyParticipants runs every non-sender participant once against the
// message. Failures are logged per participant and never abort the fan-out.
func (m *Manager) notifyParticipants(ctx context.Context, conv *Conversation, senderAgentID, content string) {
	for _, participantID := range conv.Participants {
		if participantID == senderAgentID {
			continue
		}

		prompt := fmt.Sprintf(
			"In conversation %q, %s said: %q. Please respond if relevant to your expertise.",
			conv.Topic, senderAgentID, content,
		)

		reply, err := m.proc.ProcessMessage(ctx, participantID, prompt, core.SystemSender, core.LanguageEnglish)
		if err != nil {
			m.logger.Warn("Failed to notify conversation participant",
				"conversation_id", conv.ID,
				"participant", participantID,
				"error", err,
			)
			continue
		}

		if strings.TrimSpace(reply) == "" {
			continue
		}

		// One level deep: record the reply without another fan-out.
		if _, err := m.append(conv.ID, participantID, reply); err != nil {
			m.logger.Warn("Failed to record participant reply",
				"conversation_id", conv.ID,
				"participant", participantID,
				"error", err,
			)
		}
	}
}

// Get returns a snapshot of the conversation or core.ErrConversationNotFound.
func (m *Manager) Get(id string) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv, ok := m.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrConversationNotFound, id)
	}
	return conv.clone(), nil
}

// List returns snapshots of all conversations.
func (m *Manager) List() []*Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Conversation, 0, len(m.conversations))
	for _, conv := range m.conversations {
		out = append(out, conv.clone())
	}
	return out
}

// SetStatus writes an externally-driven status (completed, archived). The
// manager itself never transitions a conversation out of active.
func (m *Manager) SetStatus(id string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversations[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrConversationNotFound, id)
	}
	conv.Status = status
	return nil
}
