package core

// Handoff is a structured transfer of context and payload data from one agent
// to another. Instances are ephemeral: constructed by the handoff detector or
// a workflow, executed once, then appended (with a completion-stamped context)
// to the executor's append-only history. They are never mutated afterwards.
type Handoff struct {
	FromAgent    string         `json:"from_agent"`
	ToAgent      string         `json:"to_agent"`
	Context      string         `json:"context"`
	Data         map[string]any `json:"data"`
	Instructions string         `json:"instructions,omitempty"`
}
