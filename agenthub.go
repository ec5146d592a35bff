// Package agenthub provides a high-level façade over the orchestration
// components (agent registry, triage router, handoff executor, workflow
// engine and conversation manager) enabling rapid construction of the
// multi-agent dropshipping assistant. Most applications interact with this
// package by:
//  1. Creating a System via New() (optionally overriding default in-memory stores)
//  2. Routing inquiries (RouteInquiry) or executing workflows (ExecuteWorkflow)
//  3. Driving cross-agent pipelines (ProductResearchToMarketing, OrderToCustomerService)
//
// All defaults are safe for local development and testing; production
// deployments supply durable stores and a structured logger.
package agenthub

import (
	"context"
	"fmt"
	"time"

	"github.com/autodrop/agenthub/agent"
	"github.com/autodrop/agenthub/config"
	"github.com/autodrop/agenthub/conversation"
	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/handoff"
	"github.com/autodrop/agenthub/logging"
	"github.com/autodrop/agenthub/provider"
	"github.com/autodrop/agenthub/provider/anthropic"
	"github.com/autodrop/agenthub/provider/gemini"
	"github.com/autodrop/agenthub/provider/openai"
	"github.com/autodrop/agenthub/registry"
	"github.com/autodrop/agenthub/workflow"
)

// Options configures the System instance.
type Options struct {
	// Store holds agent records (defaults to the seeded in-memory store).
	Store registry.Store
	// ChatLog receives audit records (defaults to in-memory).
	ChatLog registry.ChatStore
	// Generator performs outbound text generation. Defaults to a provider
	// manager with no credentials, which degrades every call to the
	// configured fallback message.
	Generator agent.Generator
	// RateLimit caps per-agent requests inside RateWindow.
	RateLimit  int
	RateWindow time.Duration
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// System is the high-level façade aggregating the orchestration components.
type System struct {
	store         registry.Store
	manager       *registry.Manager
	executor      *handoff.Executor
	router        *agent.Router
	workflows     *workflow.Engine
	conversations *conversation.Manager
	logger        logging.Logger
}

// New creates a System with optional overrides. Any unset service is
// initialized with an in-memory implementation, and the six agent personas
// (triage plus five specialists) are registered.
func New(optFns ...func(o *Options)) *System {
	opts := Options{
		Store:      registry.NewSeededStore(),
		ChatLog:    registry.NewInMemoryChatLog(),
		RateLimit:  30,
		RateWindow: time.Minute,
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Generator == nil {
		opts.Generator = provider.NewManager()
	}

	mgr := registry.NewManager(opts.Store, opts.Generator, func(o *registry.ManagerOptions) {
		o.ChatLog = opts.ChatLog
		o.RateLimit = opts.RateLimit
		o.RateWindow = opts.RateWindow
		o.Logger = logging.ForComponent(opts.Logger, "registry")
	})

	executor := handoff.NewExecutor(func(o *handoff.Options) {
		o.Logger = logging.ForComponent(opts.Logger, "handoff")
	})
	for _, def := range agent.Definitions() {
		executor.Register(def.ID, def.Build(opts.Generator, func(o *agent.Options) {
			o.Logger = logging.ForComponent(opts.Logger, "agent")
		}))
	}

	return &System{
		store:    opts.Store,
		manager:  mgr,
		executor: executor,
		router: agent.NewRouter(opts.Generator, func(o *agent.RouterOptions) {
			o.Logger = logging.ForComponent(opts.Logger, "router")
		}),
		workflows: workflow.NewEngine(mgr, func(o *workflow.Options) {
			o.Logger = logging.ForComponent(opts.Logger, "workflow")
		}),
		conversations: conversation.NewManager(mgr, func(o *conversation.Options) {
			o.Logger = logging.ForComponent(opts.Logger, "conversation")
		}),
		logger: opts.Logger,
	}
}

// NewProviderManager wires the three provider adapters into a manager using
// the credentials and timeout from cfg.
func NewProviderManager(cfg *config.Config, logger logging.Logger) *provider.Manager {
	return provider.NewManager(func(o *provider.ManagerOptions) {
		o.Keys = provider.Keys{
			Gemini:    cfg.Providers.Gemini.APIKey,
			OpenAI:    cfg.Providers.OpenAI.APIKey,
			Anthropic: cfg.Providers.Anthropic.APIKey,
		}
		o.Factories = map[provider.Name]provider.Factory{
			provider.Gemini:    func(key string) (provider.Client, error) { return gemini.New(key) },
			provider.OpenAI:    func(key string) (provider.Client, error) { return openai.New(key) },
			provider.Anthropic: func(key string) (provider.Client, error) { return anthropic.New(key) },
		}
		o.Timeout = cfg.Providers.Timeout
		o.Logger = logger
	})
}

// Manager exposes the production message path.
func (s *System) Manager() *registry.Manager { return s.manager }

// Workflows exposes the workflow engine.
func (s *System) Workflows() *workflow.Engine { return s.workflows }

// Conversations exposes the conversation manager.
func (s *System) Conversations() *conversation.Manager { return s.conversations }

// HandoffHistory returns the append-only handoff log.
func (s *System) HandoffHistory() []core.Handoff { return s.executor.History() }

// ExecuteHandoff transfers context to the destination agent and returns its
// reply.
func (s *System) ExecuteHandoff(ctx context.Context, h core.Handoff) (string, error) {
	reply, err := s.executor.Execute(ctx, h)
	if err != nil {
		return "", err
	}
	s.logger.Info("Handoff executed", "from_agent", h.FromAgent, "to_agent", h.ToAgent)
	return reply, nil
}

// RoutingResult bundles the triage decision with the conversation opened for
// the routed inquiry.
type RoutingResult struct {
	ConversationID string               `json:"conversation_id"`
	Routing        core.RoutingDecision `json:"routing"`
	Response       string               `json:"response"`
}

// RouteInquiry classifies an inbound inquiry and starts a conversation
// between customer service and the routed specialist. Routing never fails:
// classification errors fall back to customer service at medium priority.
func (s *System) RouteInquiry(ctx context.Context, inquiry string, language core.Language) RoutingResult {
	decision, reply := s.router.RouteInquiry(ctx, inquiry, language)

	conversationID := s.conversations.Start(
		[]string{core.AgentCustomerService, decision.TargetAgent},
		fmt.Sprintf("Customer Inquiry - %s priority", decision.Priority),
		fmt.Sprintf("Routed to %s: %s", decision.TargetAgent, decision.Context),
	)

	return RoutingResult{
		ConversationID: conversationID,
		Routing:        decision,
		Response:       reply,
	}
}

// CreateDropshippingWorkflows seeds the two built-in pipeline templates and
// returns their workflow ids.
func (s *System) CreateDropshippingWorkflows() ([]string, error) {
	research, err := s.workflows.Create(
		"AI Product Research & Marketing Pipeline",
		"Intelligent product research with automatic marketing content generation",
		[]workflow.StepSpec{
			{
				AgentID:      core.AgentCustomerService,
				Action:       "route_product_research",
				Input:        map[string]any{"query": "trending electronics", "priority": "high"},
				Dependencies: []string{},
			},
			{
				AgentID:      core.AgentProductResearch,
				Action:       "analyze_trending_products",
				Input:        map[string]any{"category": "electronics", "limit": 5, "handoff_ready": true},
				Dependencies: []string{"step_1"},
			},
			{
				AgentID:      core.AgentMarketing,
				Action:       "create_content_from_handoff",
				Input:        map[string]any{"style": "compelling", "languages": []string{"en", "ar"}},
				Dependencies: []string{"step_2"},
			},
		},
	)
	if err != nil {
		return nil, err
	}

	orders, err := s.workflows.Create(
		"Smart Order Processing & Customer Communication",
		"Automated order processing with intelligent customer service handoffs",
		[]workflow.StepSpec{
			{
				AgentID:      core.AgentCustomerService,
				Action:       "route_order_inquiry",
				Input:        map[string]any{"order_type": "new_order"},
				Dependencies: []string{},
			},
			{
				AgentID:      core.AgentOrderManagement,
				Action:       "process_order_with_handoff",
				Input:        map[string]any{"auto_confirm": true, "prepare_customer_comm": true},
				Dependencies: []string{"step_1"},
			},
			{
				AgentID:      core.AgentCustomerService,
				Action:       "handle_order_communication",
				Input:        map[string]any{"include_tracking": true, "language": "auto_detect"},
				Dependencies: []string{"step_2"},
			},
		},
	)
	if err != nil {
		return nil, err
	}

	return []string{research, orders}, nil
}

// ProductResearchToMarketing runs the research agent on productQuery and
// hands the results to marketing for content creation, returning a combined
// summary of both phases.
func (s *System) ProductResearchToMarketing(ctx context.Context, productQuery string) (string, error) {
	research, ok := s.executor.Agent(core.AgentProductResearch)
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrUnknownAgent, core.AgentProductResearch)
	}

	prompt := fmt.Sprintf("Research products for: %s. Prepare data for marketing content creation.", productQuery)
	resp := research.Run(ctx, []core.Message{core.NewUserMessage(prompt)})
	researchReply := resp.Reply()

	marketingReply, err := s.executor.Execute(ctx, core.Handoff{
		FromAgent: core.AgentProductResearch,
		ToAgent:   core.AgentMarketing,
		Context:   "Product research completed, need marketing content creation",
		Data: map[string]any{
			"research_results": researchReply,
			"content_types":    []string{"product_descriptions", "social_media_posts", "seo_content"},
			"languages":        []string{"en", "ar"},
		},
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Workflow completed:\n\n**Research Phase:**\n%s\n\n**Marketing Phase:**\n%s",
		researchReply, marketingReply), nil
}

// OrderToCustomerService processes orderData with the order-management agent
// and hands the outcome to customer service for notification, returning a
// combined summary of both phases.
func (s *System) OrderToCustomerService(ctx context.Context, orderData map[string]any) (string, error) {
	orders, ok := s.executor.Agent(core.AgentOrderManagement)
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrUnknownAgent, core.AgentOrderManagement)
	}

	prompt := fmt.Sprintf("Process order: %v. Prepare customer communication.", orderData)
	resp := orders.Run(ctx, []core.Message{core.NewUserMessage(prompt)})
	orderReply := resp.Reply()

	serviceReply, err := s.executor.Execute(ctx, core.Handoff{
		FromAgent: core.AgentOrderManagement,
		ToAgent:   core.AgentCustomerService,
		Context:   "Order processed, need customer notification and support setup",
		Data: map[string]any{
			"order_status":       "processed",
			"customer_info":      orderData["customer"],
			"order_details":      orderData,
			"communication_type": "order_confirmation",
		},
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Order workflow completed:\n\n**Order Processing:**\n%s\n\n**Customer Communication:**\n%s",
		orderReply, serviceReply), nil
}
