package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/logging"
	"github.com/autodrop/agenthub/provider"
)

// routingSchema describes the structured output requested from the triage
// model. target_agent is constrained to the five specialist ids.
const routingSchema = `{
  "target_agent": "customer-service | product-research | marketing | order-management | analytics",
  "context": "summary and context for the receiving agent",
  "priority": "low | medium | high | urgent",
  "reasoning": "explanation of routing decision"
}`

// fallbackReply is returned to the caller when classification fails entirely.
const fallbackReply = "I'll connect you with our customer service team who can assist you."

// Labeled-line extractors for the free-text fallback path.
var (
	targetPattern    = regexp.MustCompile(`(?i)TARGET_AGENT:\s*([^\n]+)`)
	contextPattern   = regexp.MustCompile(`(?i)CONTEXT:\s*([^\n]+)`)
	priorityPattern  = regexp.MustCompile(`(?i)PRIORITY:\s*([^\n]+)`)
	reasoningPattern = regexp.MustCompile(`(?i)REASONING:\s*([^\n]+)`)
)

// RouterOptions configures a Router instance.
type RouterOptions struct {
	Provider    provider.Name
	Model       string
	Temperature float64
	Logger      logging.Logger
}

// Router classifies inbound inquiries and decides which specialist agent
// should handle them. It is a specialization of Agent whose only job is
// classification: it never errors past its own boundary and always returns
// one of the five known target ids.
type Router struct {
	agent  *Agent
	logger logging.Logger
}

// NewRouter constructs the triage router. Classification runs at a low
// temperature by default to keep routing decisions stable.
func NewRouter(gen Generator, optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{
		Provider:    provider.OpenAI,
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	a := New("Triage Agent", triageInstructions, gen, func(o *Options) {
		o.Provider = opts.Provider
		o.Model = opts.Model
		o.Temperature = opts.Temperature
		o.Logger = opts.Logger
	})

	return &Router{agent: a, logger: opts.Logger}
}

// RouteInquiry classifies inquiry and returns the routing decision plus the
// raw triage reply. Failures at any stage degrade to the customer-service /
// medium fallback so routing never blocks the caller from reaching a
// human-equivalent agent.
func (r *Router) RouteInquiry(ctx context.Context, inquiry string, language core.Language) (core.RoutingDecision, string) {
	prompt := fmt.Sprintf(
		"Language Preference: %s\nCustomer Inquiry: %s\n\nAnalyze this inquiry and provide routing decision with reasoning.",
		language, inquiry,
	)

	resp := r.agent.Run(ctx, []core.Message{core.NewUserMessage(prompt)}, func(o *RunOptions) {
		o.StructuredSchema = routingSchema
	})

	reply := resp.Reply()

	if decision, ok := decodeRoutingDecision(resp.Structured); ok {
		return decision, reply
	}

	if decision, ok := parseRoutingReply(reply); ok {
		return decision, reply
	}

	r.logger.Warn("Inquiry routing failed, using fallback", "inquiry_len", len(inquiry))
	return fallbackDecision(), fallbackReply
}

// decodeRoutingDecision validates the structured-output path.
func decodeRoutingDecision(raw json.RawMessage) (core.RoutingDecision, bool) {
	if len(raw) == 0 {
		return core.RoutingDecision{}, false
	}

	var decision core.RoutingDecision
	if err := json.Unmarshal(raw, &decision); err != nil {
		return core.RoutingDecision{}, false
	}
	if !core.ValidTarget(decision.TargetAgent) {
		return core.RoutingDecision{}, false
	}
	if !decision.Priority.Valid() {
		decision.Priority = core.PriorityMedium
	}
	if decision.Reasoning == "" {
		decision.Reasoning = "Automated routing based on inquiry analysis"
	}
	return decision, true
}

// parseRoutingReply is the secondary extraction path: labeled lines pulled
// out of free text, defaulting any missing field.
func parseRoutingReply(content string) (core.RoutingDecision, bool) {
	target := extractLabel(targetPattern, content)
	if target == "" {
		return core.RoutingDecision{}, false
	}
	if !core.ValidTarget(target) {
		target = core.AgentCustomerService
	}

	decision := core.RoutingDecision{
		TargetAgent: target,
		Context:     extractLabel(contextPattern, content),
		Priority:    core.Priority(extractLabel(priorityPattern, content)),
		Reasoning:   extractLabel(reasoningPattern, content),
	}
	if decision.Context == "" {
		decision.Context = "Default routing - content analysis needed"
	}
	if !decision.Priority.Valid() {
		decision.Priority = core.PriorityMedium
	}
	if decision.Reasoning == "" {
		decision.Reasoning = "Automated routing based on content analysis"
	}
	return decision, true
}

func extractLabel(pattern *regexp.Regexp, content string) string {
	match := pattern.FindStringSubmatch(content)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func fallbackDecision() core.RoutingDecision {
	return core.RoutingDecision{
		TargetAgent: core.AgentCustomerService,
		Context:     "Fallback routing due to triage error",
		Priority:    core.PriorityMedium,
		Reasoning:   "System fallback - routing to customer service for manual handling",
	}
}
