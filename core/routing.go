package core

// Priority classifies the urgency of a routed inquiry.
type Priority string

// Priorities assigned by the triage router.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// The five specialist agent ids the triage router can target.
const (
	AgentCustomerService  = "customer-service"
	AgentProductResearch  = "product-research"
	AgentMarketing        = "marketing"
	AgentOrderManagement  = "order-management"
	AgentAnalytics        = "analytics"
)

// SpecialistAgents lists every valid routing target in a stable order.
func SpecialistAgents() []string {
	return []string{
		AgentCustomerService,
		AgentProductResearch,
		AgentMarketing,
		AgentOrderManagement,
		AgentAnalytics,
	}
}

// ValidTarget reports whether id names one of the five specialist agents.
func ValidTarget(id string) bool {
	switch id {
	case AgentCustomerService, AgentProductResearch, AgentMarketing,
		AgentOrderManagement, AgentAnalytics:
		return true
	}
	return false
}

// RoutingDecision is the triage router's classification of an inbound inquiry.
type RoutingDecision struct {
	TargetAgent string   `json:"target_agent"`
	Context     string   `json:"context"`
	Priority    Priority `json:"priority"`
	Reasoning   string   `json:"reasoning"`
}
