// Package api contains the HTTP handlers for the agent hub service.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/autodrop/agenthub"
	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/workflow"
)

// Server holds the dependencies for the API server.
type Server struct {
	Hub *agenthub.System
}

// NewServer creates a new Server.
func NewServer(hub *agenthub.System) *Server {
	return &Server{Hub: hub}
}

// RegisterHandlers mounts all routes on the given group.
func RegisterHandlers(g *echo.Group, s *Server) {
	g.GET("/agents", s.ListAgents)
	g.GET("/agents/:id", s.GetAgent)
	g.PUT("/agents/:id/config", s.UpdateAgentConfig)
	g.POST("/agents/:id/chat", s.Chat)
	g.GET("/agents/:id/chats", s.ListChats)

	g.POST("/route", s.RouteInquiry)
	g.GET("/handoffs", s.ListHandoffs)
	g.POST("/pipelines/product-research", s.ProductResearchPipeline)
	g.POST("/pipelines/order-processing", s.OrderProcessingPipeline)

	g.GET("/workflows", s.ListWorkflows)
	g.POST("/workflows", s.CreateWorkflow)
	g.GET("/workflows/:id", s.GetWorkflow)
	g.POST("/workflows/:id/execute", s.ExecuteWorkflow)
	g.POST("/workflows/templates", s.CreateWorkflowTemplates)

	g.GET("/conversations", s.ListConversations)
	g.POST("/conversations", s.StartConversation)
	g.GET("/conversations/:id", s.GetConversation)
	g.POST("/conversations/:id/messages", s.AddConversationMessage)
}

// httpError maps domain sentinel errors onto HTTP status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, core.ErrUnknownAgent),
		errors.Is(err, core.ErrWorkflowNotFound),
		errors.Is(err, core.ErrConversationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrRateLimitExceeded):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, core.ErrProviderNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func parseLanguage(raw string) core.Language {
	switch core.Language(strings.ToLower(raw)) {
	case core.LanguageArabic:
		return core.LanguageArabic
	case core.LanguageBoth:
		return core.LanguageBoth
	default:
		return core.LanguageEnglish
	}
}

// ListAgents returns all registered agents.
// (GET /api/v1/agents)
func (s *Server) ListAgents(c echo.Context) error {
	agents, err := s.Hub.Manager().Store().List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, agents)
}

// GetAgent returns one agent record.
// (GET /api/v1/agents/:id)
func (s *Server) GetAgent(c echo.Context) error {
	rec, err := s.Hub.Manager().Store().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

// UpdateAgentConfig replaces an agent's generation configuration.
// (PUT /api/v1/agents/:id/config)
func (s *Server) UpdateAgentConfig(c echo.Context) error {
	var cfg core.AgentConfig
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	if err := s.Hub.Manager().Store().UpdateConfig(c.Request().Context(), c.Param("id"), cfg); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ChatRequest is the body for the chat endpoint.
type ChatRequest struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	Language string `json:"language"`
}

// ChatResponse carries one agent reply.
type ChatResponse struct {
	AgentID  string `json:"agent_id"`
	Response string `json:"response"`
}

// Chat runs one exchange against the named agent.
// (POST /api/v1/agents/:id/chat)
func (s *Server) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	agentID := c.Param("id")
	reply, err := s.Hub.Manager().ProcessMessage(
		c.Request().Context(), agentID, req.Message, req.UserID, parseLanguage(req.Language))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ChatResponse{AgentID: agentID, Response: reply})
}

// ListChats returns the audit trail for one agent.
// (GET /api/v1/agents/:id/chats)
func (s *Server) ListChats(c echo.Context) error {
	records, err := s.Hub.Manager().Chats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, records)
}

// RouteRequest is the body for the triage endpoint.
type RouteRequest struct {
	Inquiry  string `json:"inquiry"`
	Language string `json:"language"`
}

// RouteInquiry classifies an inquiry and opens a conversation with the
// routed specialist.
// (POST /api/v1/route)
func (s *Server) RouteInquiry(c echo.Context) error {
	var req RouteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.Inquiry) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "inquiry is required")
	}

	result := s.Hub.RouteInquiry(c.Request().Context(), req.Inquiry, parseLanguage(req.Language))
	return c.JSON(http.StatusOK, result)
}

// ListHandoffs returns the handoff history.
// (GET /api/v1/handoffs)
func (s *Server) ListHandoffs(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Hub.HandoffHistory())
}

// PipelineRequest is the body for the named pipeline endpoints.
type PipelineRequest struct {
	ProductQuery string         `json:"product_query"`
	OrderData    map[string]any `json:"order_data"`
}

// PipelineResponse carries the combined pipeline summary.
type PipelineResponse struct {
	Result string `json:"result"`
}

// ProductResearchPipeline runs research and hands off to marketing.
// (POST /api/v1/pipelines/product-research)
func (s *Server) ProductResearchPipeline(c echo.Context) error {
	var req PipelineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.ProductQuery) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_query is required")
	}

	result, err := s.Hub.ProductResearchToMarketing(c.Request().Context(), req.ProductQuery)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, PipelineResponse{Result: result})
}

// OrderProcessingPipeline processes an order and hands off to customer service.
// (POST /api/v1/pipelines/order-processing)
func (s *Server) OrderProcessingPipeline(c echo.Context) error {
	var req PipelineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if len(req.OrderData) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "order_data is required")
	}

	result, err := s.Hub.OrderToCustomerService(c.Request().Context(), req.OrderData)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, PipelineResponse{Result: result})
}

// CreateWorkflowRequest is the body for workflow creation.
type CreateWorkflowRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Steps       []workflow.StepSpec `json:"steps"`
}

// CreatedResponse carries the id of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ListWorkflows returns all workflows.
// (GET /api/v1/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Hub.Workflows().List())
}

// CreateWorkflow registers a new workflow definition.
// (POST /api/v1/workflows)
func (s *Server) CreateWorkflow(c echo.Context) error {
	var req CreateWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	id, err := s.Hub.Workflows().Create(req.Name, req.Description, req.Steps)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}

// GetWorkflow returns one workflow snapshot.
// (GET /api/v1/workflows/:id)
func (s *Server) GetWorkflow(c echo.Context) error {
	wf, err := s.Hub.Workflows().Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, wf)
}

// ExecuteWorkflow runs a workflow to completion and returns the final state.
// (POST /api/v1/workflows/:id/execute)
func (s *Server) ExecuteWorkflow(c echo.Context) error {
	id := c.Param("id")
	execErr := s.Hub.Workflows().Execute(c.Request().Context(), id)

	wf, err := s.Hub.Workflows().Get(id)
	if err != nil {
		return httpError(err)
	}
	if execErr != nil {
		// Failed runs still return the workflow so callers can inspect
		// which step broke.
		return c.JSON(http.StatusUnprocessableEntity, wf)
	}
	return c.JSON(http.StatusOK, wf)
}

// CreateWorkflowTemplates seeds the built-in dropshipping pipelines.
// (POST /api/v1/workflows/templates)
func (s *Server) CreateWorkflowTemplates(c echo.Context) error {
	ids, err := s.Hub.CreateDropshippingWorkflows()
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string][]string{"ids": ids})
}

// StartConversationRequest is the body for conversation creation.
type StartConversationRequest struct {
	Participants   []string `json:"participants"`
	Topic          string   `json:"topic"`
	InitialMessage string   `json:"initial_message"`
}

// ListConversations returns all conversations.
// (GET /api/v1/conversations)
func (s *Server) ListConversations(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Hub.Conversations().List())
}

// StartConversation opens a multi-agent conversation.
// (POST /api/v1/conversations)
func (s *Server) StartConversation(c echo.Context) error {
	var req StartConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if len(req.Participants) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "participants are required")
	}

	id := s.Hub.Conversations().Start(req.Participants, req.Topic, req.InitialMessage)
	return c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}

// GetConversation returns one conversation snapshot.
// (GET /api/v1/conversations/:id)
func (s *Server) GetConversation(c echo.Context) error {
	conv, err := s.Hub.Conversations().Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conv)
}

// AddMessageRequest is the body for posting into a conversation.
type AddMessageRequest struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// AddConversationMessage posts a message and fans it out to participants.
// (POST /api/v1/conversations/:id/messages)
func (s *Server) AddConversationMessage(c echo.Context) error {
	var req AddMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	if req.Sender == "" {
		req.Sender = core.SystemSender
	}

	if err := s.Hub.Conversations().AddMessage(c.Request().Context(), c.Param("id"), req.Sender, req.Content); err != nil {
		return httpError(err)
	}

	conv, err := s.Hub.Conversations().Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conv)
}
