package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("agent-1"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("agent-1"))
	assert.Equal(t, 3, rl.Count("agent-1"))
}

func TestRateLimiter_PerAgentBudgets(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	assert.True(t, rl.Allow("agent-1"))
	assert.False(t, rl.Allow("agent-1"))
	assert.True(t, rl.Allow("agent-2"))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	current := time.Now()
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return current }

	assert.True(t, rl.Allow("agent-1"))
	assert.True(t, rl.Allow("agent-1"))
	assert.False(t, rl.Allow("agent-1"))

	// Advance past the window; old entries fall out.
	current = current.Add(61 * time.Second)
	assert.True(t, rl.Allow("agent-1"))
	assert.Equal(t, 1, rl.Count("agent-1"))
}

func TestRateLimiter_ZeroMaxUnlimited(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)

	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("agent-1"))
	}
}

func TestRateLimiter_RejectedRequestsNotCounted(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	assert.True(t, rl.Allow("agent-1"))
	assert.False(t, rl.Allow("agent-1"))
	assert.False(t, rl.Allow("agent-1"))
	assert.Equal(t, 1, rl.Count("agent-1"))
}
