package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string to a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger defines the minimal logging interface used across agenthub.
// This allows users to provide their own logger implementation or use the
// built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// HubLogger wraps slog.Logger adding contextual cloning helpers and domain
// convenience methods. It is cheap to copy via the With* methods.
type HubLogger struct {
	logger         *slog.Logger
	level          LogLevel
	context        map[string]any
	component      string
	conversationID string
	workflowID     string
}

// LoggerConfig configures construction of a HubLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// NewLogger builds a HubLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *HubLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &HubLogger{
		logger:    slog.New(handler),
		level:     cfg.Level,
		context:   map[string]any{},
		component: cfg.Component,
	}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *HubLogger) clone() *HubLogger {
	nl := *l
	nl.context = map[string]any{}
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute attached to every log entry.
func (l *HubLogger) WithContext(key string, value any) *HubLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (agent, workflow, conversation, api).
func (l *HubLogger) WithComponent(c string) *HubLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithConversation attaches a conversation identifier.
func (l *HubLogger) WithConversation(id string) *HubLogger {
	nl := l.clone()
	nl.conversationID = id
	return nl
}

// WithWorkflow attaches a workflow identifier.
func (l *HubLogger) WithWorkflow(id string) *HubLogger {
	nl := l.clone()
	nl.workflowID = id
	return nl
}

func (l *HubLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+3)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.conversationID != "" {
		attrs = append(attrs, slog.String("conversation_id", l.conversationID))
	}
	if l.workflowID != "" {
		attrs = append(attrs, slog.String("workflow_id", l.workflowID))
	}
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *HubLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	attrs := append(l.buildAttrs(), argsToAttrs(args)...)
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// argsToAttrs converts slog-style key/value pairs, treating a dangling or
// non-string key the way slog itself does.
func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2+1)
	for len(args) > 0 {
		switch a := args[0].(type) {
		case slog.Attr:
			attrs = append(attrs, a)
			args = args[1:]
		case string:
			if len(args) == 1 {
				attrs = append(attrs, slog.String("!BADKEY", a))
				args = nil
				continue
			}
			attrs = append(attrs, slog.Any(a, args[1]))
			args = args[2:]
		default:
			attrs = append(attrs, slog.Any("!BADKEY", a))
			args = args[1:]
		}
	}
	return attrs
}

// Debug logs at debug level.
func (l *HubLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *HubLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *HubLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *HubLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// ModelCallRecorder is the optional telemetry surface for provider calls.
// Loggers that implement it receive structured call records instead of the
// generic per-call log lines.
type ModelCallRecorder interface {
	LogModelCall(provider, model string, tokens int, dur time.Duration, err error)
}

// WorkflowRunRecorder is the optional telemetry surface for workflow runs.
type WorkflowRunRecorder interface {
	LogWorkflowRun(workflowID string, steps int, dur time.Duration, err error)
}

// HandoffRecorder is the optional telemetry surface for agent handoffs.
type HandoffRecorder interface {
	LogHandoff(from, to string, chained bool)
}

// ForComponent scopes l to a named component when it supports scoping.
func ForComponent(l Logger, name string) Logger {
	if hl, ok := l.(*HubLogger); ok {
		return hl.WithComponent(name)
	}
	return l
}

// ForConversation scopes l to a conversation when it supports scoping.
func ForConversation(l Logger, id string) Logger {
	if hl, ok := l.(*HubLogger); ok {
		return hl.WithConversation(id)
	}
	return l
}

// ForWorkflow scopes l to a workflow when it supports scoping.
func ForWorkflow(l Logger, id string) Logger {
	if hl, ok := l.(*HubLogger); ok {
		return hl.WithWorkflow(id)
	}
	return l
}

// LogModelCall records provider call latency, token usage and success.
func (l *HubLogger) LogModelCall(provider, model string, tokens int, dur time.Duration, err error) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("provider", provider),
		slog.String("model", model),
		slog.Int("token_count", tokens),
		slog.Duration("duration", dur),
		slog.Bool("success", err == nil),
	)
	level := slog.LevelInfo
	msg := "Model call completed"
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		level = slog.LevelError
		msg = "Model call failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogWorkflowRun records aggregate workflow execution metrics.
func (l *HubLogger) LogWorkflowRun(workflowID string, steps int, dur time.Duration, err error) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("workflow_id", workflowID),
		slog.Int("step_count", steps),
		slog.Duration("duration", dur),
		slog.Bool("success", err == nil),
	)
	level := slog.LevelInfo
	msg := "Workflow execution completed"
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		level = slog.LevelError
		msg = "Workflow execution failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogHandoff records a transfer between two agents.
func (l *HubLogger) LogHandoff(from, to string, chained bool) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("from_agent", from),
		slog.String("to_agent", to),
		slog.Bool("secondary", chained),
	)
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Agent handoff", attrs...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
