package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across components. Callers use errors.Is to branch
// on failure kind when mapping to fallback behavior or HTTP status codes.
var (
	// ErrProviderNotConfigured signals missing credentials for a provider.
	// Recoverable: callers degrade to a fallback message instead of failing.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrUnknownAgent signals a reference to an agent id that is not
	// registered. Fatal to the operation that used the id.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrRateLimitExceeded signals a per-agent request budget overrun.
	// Recoverable by retrying after backoff; no component retries itself.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrWorkflowNotFound signals a lookup of an unknown workflow id.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrConversationNotFound signals a lookup of an unknown conversation id.
	ErrConversationNotFound = errors.New("conversation not found")
)

// GenerationError wraps a provider or network failure during text generation.
// The single-agent layer absorbs it into an apology reply; the workflow layer
// surfaces it as a step failure.
type GenerationError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying provider error.
func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError wraps err as a generation failure for provider.
func NewGenerationError(provider string, err error) *GenerationError {
	return &GenerationError{Provider: provider, Err: err}
}

// WorkflowError describes a workflow-level failure: either an unresolvable
// dependency graph or a failed step. It is fatal to that workflow only.
type WorkflowError struct {
	WorkflowID string
	StepID     string // empty for graph-level failures
	Reason     string
	Err        error
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	if e.StepID != "" {
		return fmt.Sprintf("workflow %s step %s: %s", e.WorkflowID, e.StepID, e.Reason)
	}
	return fmt.Sprintf("workflow %s: %s", e.WorkflowID, e.Reason)
}

// Unwrap exposes the underlying step error, if any.
func (e *WorkflowError) Unwrap() error { return e.Err }
