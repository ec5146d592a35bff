package registry

import (
	"time"

	"github.com/autodrop/agenthub/agent"
	"github.com/autodrop/agenthub/core"
)

// SeedAgents returns the five AutoDrop specialist agent records with their
// default model configuration. Metrics start zeroed; the manager fills them
// in as requests flow.
func SeedAgents() []*core.AgentRecord {
	now := time.Now()
	defs := agent.Definitions()

	records := make([]*core.AgentRecord, 0, len(defs))
	for _, def := range defs {
		records = append(records, &core.AgentRecord{
			ID:     def.ID,
			Name:   def.Name,
			Status: core.AgentActive,
			Config: core.AgentConfig{
				Model:        def.Model,
				Provider:     string(def.Provider),
				Temperature:  def.Temperature,
				MaxTokens:    1000,
				SystemPrompt: def.Instructions,
				Language:     core.LanguageBoth,
			},
			Metrics: core.AgentMetrics{
				UptimePercentage: 100,
				LastActive:       now,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return records
}
