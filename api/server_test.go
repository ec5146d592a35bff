package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodrop/agenthub"
	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/provider"
)

type stubGenerator struct {
	content string
	err     error
}

func (s *stubGenerator) Generate(_ context.Context, req provider.Request) (*provider.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &provider.Response{Content: s.content, Model: req.Model, Provider: req.Provider}, nil
}

func newTestServer(gen *stubGenerator) *echo.Echo {
	hub := agenthub.New(func(o *agenthub.Options) {
		o.Generator = gen
	})

	e := echo.New()
	RegisterHandlers(e.Group("/api/v1"), NewServer(hub))
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListAgents(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodGet, "/api/v1/agents", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var agents []core.AgentRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agents))
	assert.Len(t, agents, 5)
}

func TestGetAgent_NotFound(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodGet, "/api/v1/agents/ghost", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat_Success(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "Happy to help!"})

	rec := doRequest(e, http.MethodPost, "/api/v1/agents/customer-service/chat",
		`{"message": "Where is my order?", "user_id": "user-1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "customer-service", resp.AgentID)
	assert.Equal(t, "Happy to help!", resp.Response)
}

func TestChat_EmptyMessage(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPost, "/api/v1/agents/customer-service/chat", `{"message": "  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_UnknownAgent(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPost, "/api/v1/agents/ghost/chat", `{"message": "hi"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat_ProviderNotConfiguredStillReplies(t *testing.T) {
	// Missing credentials degrade to the fallback content inside the
	// manager, so the HTTP surface reports success.
	e := newTestServer(&stubGenerator{err: core.ErrProviderNotConfigured})

	rec := doRequest(e, http.MethodPost, "/api/v1/agents/customer-service/chat", `{"message": "hi"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, provider.FallbackContent, resp.Response)
}

func TestRouteInquiry(t *testing.T) {
	e := newTestServer(&stubGenerator{
		content: `{"target_agent": "marketing", "context": "Needs ad copy", "priority": "medium", "reasoning": "Marketing request"}`,
	})

	rec := doRequest(e, http.MethodPost, "/api/v1/route", `{"inquiry": "I need an ad campaign"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result agenthub.RoutingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, core.AgentMarketing, result.Routing.TargetAgent)
	assert.NotEmpty(t, result.ConversationID)
}

func TestRouteInquiry_MissingInquiry(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPost, "/api/v1/route", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkflowLifecycle(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "step done"})

	createBody := `{
		"name": "test pipeline",
		"description": "two step run",
		"steps": [
			{"agent_id": "product-research", "action": "find", "input": {"q": "gadgets"}, "dependencies": []},
			{"agent_id": "marketing", "action": "write", "input": {}, "dependencies": ["step_1"]}
		]
	}`
	rec := doRequest(e, http.MethodPost, "/api/v1/workflows", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doRequest(e, http.MethodPost, "/api/v1/workflows/"+created.ID+"/execute", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/workflows/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed"`)
}

func TestCreateWorkflow_BadDependency(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPost, "/api/v1/workflows",
		`{"name": "bad", "steps": [{"agent_id": "a", "action": "x", "dependencies": ["step_9"]}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteWorkflow_FailureReturnsState(t *testing.T) {
	e := newTestServer(&stubGenerator{err: core.NewGenerationError("openai", context.DeadlineExceeded)})

	rec := doRequest(e, http.MethodPost, "/api/v1/workflows",
		`{"name": "doomed", "steps": [{"agent_id": "marketing", "action": "x", "dependencies": []}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(e, http.MethodPost, "/api/v1/workflows/"+created.ID+"/execute", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failed"`)
}

func TestExecuteWorkflow_NotFound(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPost, "/api/v1/workflows/workflow_missing/execute", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkflowTemplates(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPost, "/api/v1/workflows/templates", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp["ids"], 2)
}

func TestConversationLifecycle(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "noted"})

	rec := doRequest(e, http.MethodPost, "/api/v1/conversations",
		`{"participants": ["customer-service", "marketing"], "topic": "sync", "initial_message": "kickoff"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(e, http.MethodPost, "/api/v1/conversations/"+created.ID+"/messages",
		`{"sender": "customer-service", "content": "any updates?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/conversations/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	// Initial message, sender message, marketing's reply.
	assert.Equal(t, 3, strings.Count(rec.Body.String(), `"content":`))
}

func TestStartConversation_NoParticipants(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPost, "/api/v1/conversations", `{"topic": "empty"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddConversationMessage_NotFound(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPost, "/api/v1/conversations/conv_missing/messages",
		`{"sender": "a", "content": "hi"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPipelines(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "pipeline output"})

	rec := doRequest(e, http.MethodPost, "/api/v1/pipelines/product-research",
		`{"product_query": "garden gadgets"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pipeline output")

	rec = doRequest(e, http.MethodPost, "/api/v1/pipelines/order-processing",
		`{"order_data": {"id": "ORD-1001"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Both pipelines executed a handoff.
	rec = doRequest(e, http.MethodGet, "/api/v1/handoffs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var handoffs []core.Handoff
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &handoffs))
	assert.Len(t, handoffs, 2)
}

func TestPipelines_MissingInput(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPost, "/api/v1/pipelines/product-research", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/pipelines/order-processing", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAgentConfig(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "ok"})

	rec := doRequest(e, http.MethodPut, "/api/v1/agents/marketing/config",
		`{"model": "gpt-4o", "provider": "openai", "temperature": 0.5, "max_tokens": 800, "system_prompt": "Be brief.", "language": "en"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/agents/marketing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var agent core.AgentRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agent))
	assert.Equal(t, "gpt-4o", agent.Config.Model)
}

func TestListChats(t *testing.T) {
	e := newTestServer(&stubGenerator{content: "hello there"})

	rec := doRequest(e, http.MethodPost, "/api/v1/agents/customer-service/chat",
		`{"message": "hi", "user_id": "user-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/agents/customer-service/chats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []core.ChatRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "hello there", records[0].Response)
}
