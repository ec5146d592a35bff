package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/autodrop/agenthub/core"
	"github.com/autodrop/agenthub/logging"
)

// handoffPattern matches the textual transfer convention emitted by agent
// replies. HANDOFF_INSTRUCTIONS is optional; HANDOFF_DATA must be a single
// line of JSON.
var handoffPattern = regexp.MustCompile(
	`(?i)HANDOFF_TO:\s*([^\n]+)\s*\n\s*HANDOFF_CONTEXT:\s*([^\n]+)\s*\n\s*HANDOFF_DATA:\s*([^\n]+)(?:\s*\n\s*HANDOFF_INSTRUCTIONS:\s*([^\n]+))?`,
)

// detectHandoffs extracts every well-formed handoff block from content. A
// block whose data line is not valid JSON is dropped with a warning; blocks
// before and after it are unaffected.
func detectHandoffs(fromAgent, content string, logger logging.Logger) []core.Handoff {
	var handoffs []core.Handoff

	for _, match := range handoffPattern.FindAllStringSubmatch(content, -1) {
		var data map[string]any
		if err := json.Unmarshal([]byte(match[3]), &data); err != nil {
			logger.Warn("Failed to parse handoff data", "agent", fromAgent, "error", err)
			continue
		}

		handoffs = append(handoffs, core.Handoff{
			FromAgent:    fromAgent,
			ToAgent:      strings.TrimSpace(match[1]),
			Context:      strings.TrimSpace(match[2]),
			Data:         data,
			Instructions: strings.TrimSpace(match[4]),
		})
	}

	return handoffs
}
