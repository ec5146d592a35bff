// Package registry holds the agent configuration store, the chat audit log
// and the production message manager that gates every user-facing agent
// invocation with rate limiting, status checks, input sanitization, metric
// updates and audit logging.
package registry

import (
	"context"

	"github.com/autodrop/agenthub/core"
)

// Store persists agent records. The orchestration core reads configuration
// and writes metrics; record creation and config updates come from the
// dashboard.
type Store interface {
	// Get returns the record for id or core.ErrUnknownAgent.
	Get(ctx context.Context, id string) (*core.AgentRecord, error)
	// List returns all records in a stable order.
	List(ctx context.Context) ([]*core.AgentRecord, error)
	// UpdateConfig replaces the configuration of an existing record.
	UpdateConfig(ctx context.Context, id string, cfg core.AgentConfig) error
	// UpdateMetrics applies update to the record's metrics under the store's
	// lock, so read-modify-write deltas are atomic.
	UpdateMetrics(ctx context.Context, id string, update func(m *core.AgentMetrics)) error
}

// ChatStore records user/agent exchanges. Saves are fire-and-forget: callers
// log failures but never fail the exchange over them.
type ChatStore interface {
	Save(ctx context.Context, rec core.ChatRecord) error
	ByAgent(ctx context.Context, agentID string) ([]core.ChatRecord, error)
}
