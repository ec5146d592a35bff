package agenthub

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/provider"
	"github.com/autodrop/agenthub/workflow"
)

// scriptedGenerator replies with the first canned response whose key appears
// in the prompt or system prompt, falling back to a generic reply.
type scriptedGenerator struct {
	responses map[string]string
	err       error
}

func (s *scriptedGenerator) Generate(_ context.Context, req provider.Request) (*provider.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	content := "generic reply"
	for key, response := range s.responses {
		if strings.Contains(req.Prompt, key) || strings.Contains(req.SystemPrompt, key) {
			content = response
			break
		}
	}
	return &provider.Response{Content: content, Model: req.Model, Provider: req.Provider}, nil
}

func newTestSystem(gen *scriptedGenerator) *System {
	return New(func(o *Options) {
		o.Generator = gen
	})
}

func TestNew_RegistersSixPersonas(t *testing.T) {
	hub := newTestSystem(&scriptedGenerator{})

	// Five specialists addressable for handoffs, each also seeded into the
	// registry store.
	assert.ElementsMatch(t, core.SpecialistAgents(), hub.executor.AgentIDs())

	agents, err := hub.Manager().Store().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, agents, 5)
}

func TestRouteInquiry_OpensConversationWithTarget(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string]string{
		"Customer Inquiry": `{"target_agent": "analytics", "context": "Wants a sales report", "priority": "high", "reasoning": "Reporting request"}`,
	}}
	hub := newTestSystem(gen)

	result := hub.RouteInquiry(context.Background(), "Can I get a sales report?", core.LanguageEnglish)

	assert.Equal(t, core.AgentAnalytics, result.Routing.TargetAgent)
	assert.Equal(t, core.PriorityHigh, result.Routing.Priority)
	require.NotEmpty(t, result.ConversationID)

	conv, err := hub.Conversations().Get(result.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, []string{core.AgentCustomerService, core.AgentAnalytics}, conv.Participants)
	assert.Contains(t, conv.Topic, "high priority")
	require.Len(t, conv.Messages, 1)
	assert.Contains(t, conv.Messages[0].Content, "Routed to analytics")
}

func TestRouteInquiry_FallbackStillOpensConversation(t *testing.T) {
	gen := &scriptedGenerator{err: context.DeadlineExceeded}
	hub := newTestSystem(gen)

	result := hub.RouteInquiry(context.Background(), "???", core.LanguageEnglish)

	assert.Equal(t, core.AgentCustomerService, result.Routing.TargetAgent)
	require.NotEmpty(t, result.ConversationID)

	conv, err := hub.Conversations().Get(result.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, []string{core.AgentCustomerService, core.AgentCustomerService}, conv.Participants)
}

func TestExecuteHandoff_RecordsHistory(t *testing.T) {
	hub := newTestSystem(&scriptedGenerator{})

	reply, err := hub.ExecuteHandoff(context.Background(), core.Handoff{
		FromAgent: core.AgentProductResearch,
		ToAgent:   core.AgentMarketing,
		Context:   "copy needed",
		Data:      map[string]any{"sku": "W-1"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	require.Len(t, hub.HandoffHistory(), 1)
	assert.Equal(t, core.AgentMarketing, hub.HandoffHistory()[0].ToAgent)
}

func TestExecuteHandoff_UnknownTarget(t *testing.T) {
	hub := newTestSystem(&scriptedGenerator{})

	_, err := hub.ExecuteHandoff(context.Background(), core.Handoff{
		FromAgent: core.AgentProductResearch,
		ToAgent:   "warehouse",
	})

	assert.ErrorIs(t, err, core.ErrUnknownAgent)
}

func TestCreateDropshippingWorkflows(t *testing.T) {
	hub := newTestSystem(&scriptedGenerator{})

	ids, err := hub.CreateDropshippingWorkflows()
	require.NoError(t, err)
	require.Len(t, ids, 2)

	for _, id := range ids {
		wf, err := hub.Workflows().Get(id)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusDraft, wf.Status)
		assert.Len(t, wf.Steps, 3)
	}
}

func TestCreateDropshippingWorkflows_Executable(t *testing.T) {
	hub := newTestSystem(&scriptedGenerator{})

	ids, err := hub.CreateDropshippingWorkflows()
	require.NoError(t, err)

	for _, id := range ids {
		require.NoError(t, hub.Workflows().Execute(context.Background(), id))

		wf, err := hub.Workflows().Get(id)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusCompleted, wf.Status)
	}
}

func TestProductResearchToMarketing(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string]string{
		"Research products for": "Found: solar garden lamp",
		"HANDOFF RECEIVED":      "Campaign copy ready",
	}}
	hub := newTestSystem(gen)

	result, err := hub.ProductResearchToMarketing(context.Background(), "garden gadgets")

	require.NoError(t, err)
	assert.Contains(t, result, "Research Phase")
	assert.Contains(t, result, "Found: solar garden lamp")
	assert.Contains(t, result, "Marketing Phase")
	assert.Contains(t, result, "Campaign copy ready")

	require.Len(t, hub.HandoffHistory(), 1)
	h := hub.HandoffHistory()[0]
	assert.Equal(t, core.AgentProductResearch, h.FromAgent)
	assert.Equal(t, core.AgentMarketing, h.ToAgent)
	assert.Equal(t, "Found: solar garden lamp", h.Data["research_results"])
}

func TestOrderToCustomerService(t *testing.T) {
	gen := &scriptedGenerator{responses: map[string]string{
		"Process order":    "Order confirmed",
		"HANDOFF RECEIVED": "Customer notified",
	}}
	hub := newTestSystem(gen)

	order := map[string]any{"id": "ORD-1001", "customer": "user-1"}
	result, err := hub.OrderToCustomerService(context.Background(), order)

	require.NoError(t, err)
	assert.Contains(t, result, "Order Processing")
	assert.Contains(t, result, "Customer Communication")

	require.Len(t, hub.HandoffHistory(), 1)
	h := hub.HandoffHistory()[0]
	assert.Equal(t, core.AgentCustomerService, h.ToAgent)
	assert.Equal(t, "processed", h.Data["order_status"])
	assert.Equal(t, "user-1", h.Data["customer_info"])
}
