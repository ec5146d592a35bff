package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/autodrop/agenthub/core"
)

// InMemoryStore is a thread-safe in-process Store. State is lost on restart;
// production deployments supply a durable implementation.
type InMemoryStore struct {
	mu      sync.RWMutex
	agents  map[string]*core.AgentRecord
	ordered []string
}

// NewInMemoryStore creates an empty in-memory agent store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{agents: make(map[string]*core.AgentRecord)}
}

// NewSeededStore creates an in-memory store pre-populated with the five
// AutoDrop specialist agents.
func NewSeededStore() *InMemoryStore {
	s := NewInMemoryStore()
	for _, rec := range SeedAgents() {
		s.Put(rec)
	}
	return s
}

// Put inserts or replaces a record.
func (s *InMemoryStore) Put(rec *core.AgentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.agents[rec.ID]; !exists {
		s.ordered = append(s.ordered, rec.ID)
	}
	clone := *rec
	s.agents[rec.ID] = &clone
}

// Get implements Store.
func (s *InMemoryStore) Get(_ context.Context, id string) (*core.AgentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.agents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAgent, id)
	}
	clone := *rec
	return &clone, nil
}

// List implements Store, returning records in insertion order.
func (s *InMemoryStore) List(_ context.Context) ([]*core.AgentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.AgentRecord, 0, len(s.ordered))
	for _, id := range s.ordered {
		clone := *s.agents[id]
		out = append(out, &clone)
	}
	return out, nil
}

// UpdateConfig implements Store.
func (s *InMemoryStore) UpdateConfig(_ context.Context, id string, cfg core.AgentConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.agents[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownAgent, id)
	}
	rec.Config = cfg
	rec.UpdatedAt = time.Now()
	return nil
}

// UpdateMetrics implements Store.
func (s *InMemoryStore) UpdateMetrics(_ context.Context, id string, update func(m *core.AgentMetrics)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.agents[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownAgent, id)
	}
	update(&rec.Metrics)
	rec.UpdatedAt = time.Now()
	return nil
}

// InMemoryChatLog is a thread-safe in-process ChatStore.
type InMemoryChatLog struct {
	mu      sync.RWMutex
	records []core.ChatRecord
}

// NewInMemoryChatLog creates an empty in-memory chat log.
func NewInMemoryChatLog() *InMemoryChatLog {
	return &InMemoryChatLog{}
}

// Save implements ChatStore.
func (l *InMemoryChatLog) Save(_ context.Context, rec core.ChatRecord) error {
	if rec.ID == "" {
		rec.ID = core.NewID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

// ByAgent implements ChatStore.
func (l *InMemoryChatLog) ByAgent(_ context.Context, agentID string) ([]core.ChatRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []core.ChatRecord
	for _, rec := range l.records {
		if rec.AgentID == agentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Len returns the total number of saved records.
func (l *InMemoryChatLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
