// Package logging provides a small abstraction over slog so orchestration
// components depend on a minimal Logger interface while callers can plug any
// structured logger. It also offers a richer HubLogger with contextual
// cloning helpers (component, conversation, workflow) and domain specific
// helpers for model calls, workflow runs and handoffs.
package logging
