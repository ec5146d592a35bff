package core

import (
	"sync"
	"time"
)

// RateLimiter enforces a sliding-window request budget per agent id.
// A zero max allows unlimited requests.
type RateLimiter struct {
	max    int
	window time.Duration
	mu     sync.Mutex
	calls  map[string][]time.Time
	now    func() time.Time
}

// NewRateLimiter creates a limiter allowing max requests per window for each
// agent id independently.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:    max,
		window: window,
		calls:  map[string][]time.Time{},
		now:    time.Now,
	}
}

// Allow records a request for agentID and reports whether it fits the budget.
// Requests older than the window are discarded before counting.
func (rl *RateLimiter) Allow(agentID string) bool {
	if rl.max == 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	valid := rl.calls[agentID][:0]
	for _, t := range rl.calls[agentID] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.max {
		rl.calls[agentID] = valid
		return false
	}

	rl.calls[agentID] = append(valid, now)
	return true
}

// Count returns the number of in-window requests recorded for agentID.
func (rl *RateLimiter) Count(agentID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	n := 0
	for _, t := range rl.calls[agentID] {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}
