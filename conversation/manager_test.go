package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodrop/agenthub/core"
)

type mockProcessor struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	called  []string
}

func newMockProcessor() *mockProcessor {
	return &mockProcessor{replies: map[string]string{}, errs: map[string]error{}}
}

func (m *mockProcessor) ProcessMessage(_ context.Context, agentID, _, _ string, _ core.Language) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called = append(m.called, agentID)
	if err := m.errs[agentID]; err != nil {
		return "", err
	}
	if reply, ok := m.replies[agentID]; ok {
		return reply, nil
	}
	return "reply from " + agentID, nil
}

func TestStart_RecordsInitialSystemMessage(t *testing.T) {
	m := NewManager(newMockProcessor())

	id := m.Start([]string{"customer-service", "marketing"}, "Campaign kickoff", "Routed to marketing: needs copy")

	conv, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, conv.Status)
	assert.Equal(t, []string{"customer-service", "marketing"}, conv.Participants)
	assert.Equal(t, "Campaign kickoff", conv.Topic)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, core.SystemSender, conv.Messages[0].AgentID)
	assert.Equal(t, "Routed to marketing: needs copy", conv.Messages[0].Content)
}

func TestStart_NoInitialMessage(t *testing.T) {
	m := NewManager(newMockProcessor())

	id := m.Start([]string{"a", "b"}, "topic", "")

	conv, err := m.Get(id)
	require.NoError(t, err)
	assert.Empty(t, conv.Messages)
}

func TestAddMessage_FansOutToOtherParticipantsOnly(t *testing.T) {
	proc := newMockProcessor()
	m := NewManager(proc)

	id := m.Start([]string{"customer-service", "marketing", "analytics"}, "weekly sync", "")

	require.NoError(t, m.AddMessage(context.Background(), id, "customer-service", "Any campaign updates?"))

	assert.ElementsMatch(t, []string{"marketing", "analytics"}, proc.called)

	conv, err := m.Get(id)
	require.NoError(t, err)
	// Sender message plus one reply per notified participant.
	require.Len(t, conv.Messages, 3)
	assert.Equal(t, "customer-service", conv.Messages[0].AgentID)
}

func TestAddMessage_RepliesDoNotTriggerFurtherFanOut(t *testing.T) {
	proc := newMockProcessor()
	m := NewManager(proc)

	id := m.Start([]string{"a", "b"}, "topic", "")

	require.NoError(t, m.AddMessage(context.Background(), id, "a", "hello"))

	// Exactly one invocation: b was notified once, b's recorded reply did
	// not notify a back.
	assert.Equal(t, []string{"b"}, proc.called)
}

func TestAddMessage_EmptyReplySkipped(t *testing.T) {
	proc := newMockProcessor()
	proc.replies["b"] = "   "
	m := NewManager(proc)

	id := m.Start([]string{"a", "b"}, "topic", "")

	require.NoError(t, m.AddMessage(context.Background(), id, "a", "hello"))

	conv, err := m.Get(id)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
}

func TestAddMessage_ParticipantFailureDoesNotAbortFanOut(t *testing.T) {
	proc := newMockProcessor()
	proc.errs["b"] = errors.New("agent b is down")
	m := NewManager(proc)

	id := m.Start([]string{"a", "b", "c"}, "topic", "")

	require.NoError(t, m.AddMessage(context.Background(), id, "a", "hello"))

	assert.ElementsMatch(t, []string{"b", "c"}, proc.called)

	conv, err := m.Get(id)
	require.NoError(t, err)
	// Sender message plus c's reply; b contributed nothing.
	require.Len(t, conv.Messages, 2)
}

func TestAddMessage_UnknownConversation(t *testing.T) {
	m := NewManager(newMockProcessor())

	err := m.AddMessage(context.Background(), "conv_missing", "a", "hello")
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}

func TestSetStatus(t *testing.T) {
	m := NewManager(newMockProcessor())

	id := m.Start([]string{"a", "b"}, "topic", "")
	require.NoError(t, m.SetStatus(id, StatusArchived))

	conv, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, conv.Status)

	assert.ErrorIs(t, m.SetStatus("conv_missing", StatusCompleted), core.ErrConversationNotFound)
}

func TestList_ReturnsSnapshots(t *testing.T) {
	m := NewManager(newMockProcessor())

	id := m.Start([]string{"a", "b"}, "topic", "seed")
	list := m.List()
	require.Len(t, list, 1)

	list[0].Messages[0].Content = "mutated"
	fresh, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "seed", fresh.Messages[0].Content)
}
