package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodrop/agenthub/logging"
)

func TestDetectHandoffs_SingleBlock(t *testing.T) {
	content := "I'll pass this along.\n" +
		"HANDOFF_TO: order-management\n" +
		"HANDOFF_CONTEXT: Customer wants to change shipping address\n" +
		`HANDOFF_DATA: {"order_id": "ORD-1001"}` + "\n" +
		"HANDOFF_INSTRUCTIONS: Confirm the new address before updating"

	handoffs := detectHandoffs("customer-service", content, logging.NoOpLogger{})

	require.Len(t, handoffs, 1)
	h := handoffs[0]
	assert.Equal(t, "customer-service", h.FromAgent)
	assert.Equal(t, "order-management", h.ToAgent)
	assert.Equal(t, "Customer wants to change shipping address", h.Context)
	assert.Equal(t, "ORD-1001", h.Data["order_id"])
	assert.Equal(t, "Confirm the new address before updating", h.Instructions)
}

func TestDetectHandoffs_InstructionsOptional(t *testing.T) {
	content := "HANDOFF_TO: marketing\n" +
		"HANDOFF_CONTEXT: Needs product copy\n" +
		`HANDOFF_DATA: {"sku": "W-1"}`

	handoffs := detectHandoffs("product-research", content, logging.NoOpLogger{})

	require.Len(t, handoffs, 1)
	assert.Empty(t, handoffs[0].Instructions)
}

func TestDetectHandoffs_CaseInsensitive(t *testing.T) {
	content := "handoff_to: analytics\n" +
		"handoff_context: Monthly report requested\n" +
		"handoff_data: {}"

	handoffs := detectHandoffs("customer-service", content, logging.NoOpLogger{})

	require.Len(t, handoffs, 1)
	assert.Equal(t, "analytics", handoffs[0].ToAgent)
}

func TestDetectHandoffs_InvalidJSONDropped(t *testing.T) {
	content := "HANDOFF_TO: marketing\n" +
		"HANDOFF_CONTEXT: first block, bad data\n" +
		"HANDOFF_DATA: {not json}\n" +
		"\n" +
		"HANDOFF_TO: analytics\n" +
		"HANDOFF_CONTEXT: second block, good data\n" +
		`HANDOFF_DATA: {"metric": "sales"}`

	handoffs := detectHandoffs("customer-service", content, logging.NoOpLogger{})

	require.Len(t, handoffs, 1)
	assert.Equal(t, "analytics", handoffs[0].ToAgent)
	assert.Equal(t, "sales", handoffs[0].Data["metric"])
}

func TestDetectHandoffs_NoBlocks(t *testing.T) {
	handoffs := detectHandoffs("customer-service", "Just a normal reply.", logging.NoOpLogger{})
	assert.Empty(t, handoffs)
}
