package agentry

import (
	"context"
	"log/slog"
	"time"
)

// Middleware wraps a Tool with cross-cutting behavior (logging, recovery).
type Middleware func(Tool) Tool

// WithLogging returns a middleware that logs start, end, duration, and errors.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Tool) Tool {
		return &loggingTool{toolBase: toolBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that recovers panics in the tool body
// and returns them as SystemError. Redundant when the registry's own panic
// recovery is on; useful when tools are called outside a Registry.
func WithRecovery() Middleware {
	return func(next Tool) Tool {
		return &recoveryTool{toolBase{next: next}}
	}
}

// toolBase delegates the descriptive part of Tool to the wrapped value;
// middleware wrappers override Call.
type toolBase struct{ next Tool }

func (b *toolBase) Name() string        { return b.next.Name() }
func (b *toolBase) Description() string { return b.next.Description() }
func (b *toolBase) Schema() ToolSchema  { return b.next.Schema() }

type loggingTool struct {
	toolBase
	logger *slog.Logger
}

func (m *loggingTool) Call(ctx context.Context, input map[string]any) (string, bool, error) {
	m.logger.Info("tool start", "tool", m.next.Name())
	start := time.Now()
	content, isError, err := m.next.Call(ctx, input)
	dur := time.Since(start)
	if err != nil {
		m.logger.Error("tool error", "tool", m.next.Name(), "duration", dur, "error", err)
		return content, isError, err
	}
	m.logger.Info("tool end", "tool", m.next.Name(), "duration", dur, "is_error", isError)
	return content, isError, nil
}

type recoveryTool struct{ toolBase }

func (r *recoveryTool) Call(ctx context.Context, input map[string]any) (content string, isError bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			content = ""
			isError = false
			err = &SystemError{Err: &panicError{p: p}}
		}
	}()
	return r.next.Call(ctx, input)
}

// Use stores the given middlewares and reapplies them from scratch to all
// registered tools (onion order: first middleware is outermost). Tools
// registered after Use also get them. Calling Use again replaces the chain
// and rewraps from raw tools, avoiding double-wrapping.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for name, raw := range r.rawTools {
		t := raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			t = middlewares[i](t)
		}
		r.tools[name] = t
	}
}
