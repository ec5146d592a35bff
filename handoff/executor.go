// Package handoff executes structured transfers between registered agents.
// The Executor injects the transfer context into the destination agent, runs
// it once, and records the completed handoff in an append-only history.
// Secondary handoffs detected in the destination's reply are logged but never
// auto-chained, which bounds execution depth.
package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/autodrop/agenthub/agent"
	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/logging"
)

// Options configures an Executor instance.
type Options struct {
	Logger logging.Logger
}

// Executor routes handoffs to registered destination agents. Safe for
// concurrent use.
type Executor struct {
	logger logging.Logger

	mu      sync.RWMutex
	agents  map[string]*agent.Agent
	history []core.Handoff
}

// NewExecutor constructs an Executor with optional overrides.
func NewExecutor(optFns ...func(o *Options)) *Executor {
	opts := Options{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Executor{
		logger: opts.Logger,
		agents: make(map[string]*agent.Agent),
	}
}

// Register makes a destination agent addressable by id.
func (e *Executor) Register(id string, a *agent.Agent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.agents[id] = a
}

// Agent returns the registered agent for id.
func (e *Executor) Agent(id string) (*agent.Agent, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.agents[id]
	return a, ok
}

// AgentIDs returns the ids of all registered agents.
func (e *Executor) AgentIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.agents))
	for id := range e.agents {
		ids = append(ids, id)
	}
	return ids
}

// Execute injects h's context into the destination agent and runs it with a
// synthesized system note plus the payload as the user turn. The destination
// context keys handoff_from, handoff_context and handoff_data are fully
// overwritten, not merged. On success the handoff is appended to the history
// with its context stamped by completion time.
func (e *Executor) Execute(ctx context.Context, h core.Handoff) (string, error) {
	target, ok := e.Agent(h.ToAgent)
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrUnknownAgent, h.ToAgent)
	}

	target.SetContext("handoff_from", h.FromAgent)
	target.SetContext("handoff_context", h.Context)
	target.SetContext("handoff_data", h.Data)

	systemNote := fmt.Sprintf("HANDOFF RECEIVED from %s\nContext: %s", h.FromAgent, h.Context)
	if h.Instructions != "" {
		systemNote += "\nSpecial Instructions: " + h.Instructions
	}
	systemNote += "\n\nPlease process this handoff and provide appropriate assistance."

	resp := target.Run(ctx, []core.Message{
		core.NewSystemMessage(systemNote),
		core.NewUserMessage(payloadText(h.Data)),
	})

	e.record(h)

	rec, hasRec := e.logger.(logging.HandoffRecorder)
	if hasRec {
		rec.LogHandoff(h.FromAgent, h.ToAgent, false)
	}

	// Secondary handoffs are observed only; auto-chaining them could recurse
	// without bound.
	for _, secondary := range resp.Handoffs {
		if hasRec {
			rec.LogHandoff(secondary.FromAgent, secondary.ToAgent, true)
			continue
		}
		e.logger.Info("Secondary handoff detected, not chained",
			"from_agent", secondary.FromAgent,
			"to_agent", secondary.ToAgent,
		)
	}

	return resp.Reply(), nil
}

// record appends a completion-stamped copy of h to the history.
func (e *Executor) record(h core.Handoff) {
	h.Context = fmt.Sprintf("%s - Completed at %s", h.Context, time.Now().UTC().Format(time.RFC3339))

	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history, h)
}

// History returns a copy of the handoff log in append order.
func (e *Executor) History() []core.Handoff {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]core.Handoff, len(e.history))
	copy(out, e.history)
	return out
}

// payloadText serializes the handoff payload for the user turn.
func payloadText(data map[string]any) string {
	if len(data) == 0 {
		return "{}"
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(b)
}
