package agentry

import (
	"fmt"
	"log/slog"
	"reflect"
)

// PreInterceptor runs before a tool executes. It receives the tool name, the
// input the model produced, and any preamble text the model emitted before
// the call, and returns the input the tool will actually see.
type PreInterceptor func(tool string, input map[string]any, preamble string) map[string]any

// PostInterceptor runs after a tool executes. It receives the (possibly
// rewritten) input, the result, and the error value itself — not a
// stringified version — so it can branch on error vs success, and returns the
// result fed back to the model.
type PostInterceptor func(tool string, input map[string]any, result ToolResult, err error, preamble string) ToolResult

// Interceptors is an optional pre/post hook pair around tool execution.
// Either slot may be nil, which means identity.
type Interceptors struct {
	Pre  PreInterceptor
	Post PostInterceptor
}

// NewInterceptors builds an Interceptors pair from loosely typed values,
// validating each hook's signature up front. A structurally incompatible
// hook fails here, at wiring time, with ErrInterceptorSignature — never
// later at call time. Accepted values per slot: nil, the matching typed
// function, or any func with the exact same signature.
func NewInterceptors(pre, post any) (Interceptors, error) {
	var out Interceptors
	if pre != nil {
		fn, err := coerceHook[PreInterceptor]("pre", pre)
		if err != nil {
			return Interceptors{}, err
		}
		out.Pre = fn
	}
	if post != nil {
		fn, err := coerceHook[PostInterceptor]("post", post)
		if err != nil {
			return Interceptors{}, err
		}
		out.Post = fn
	}
	return out, nil
}

// coerceHook converts v to the hook type H, checking the full signature
// (parameter count and types) via reflection.
func coerceHook[H any](slot string, v any) (H, error) {
	var zero H
	if h, ok := v.(H); ok {
		return h, nil
	}
	want := reflect.TypeOf(zero)
	got := reflect.TypeOf(v)
	if got == nil || got.Kind() != reflect.Func || !got.ConvertibleTo(want) {
		return zero, fmt.Errorf("%w: %s interceptor must be %v, got %T", ErrInterceptorSignature, slot, want, v)
	}
	return reflect.ValueOf(v).Convert(want).Interface().(H), nil
}

// LoggingInterceptors returns a ready-made pre/post pair that logs tool
// executions through logger (slog.Default when nil).
func LoggingInterceptors(logger *slog.Logger) Interceptors {
	if logger == nil {
		logger = slog.Default()
	}
	return Interceptors{
		Pre: func(tool string, input map[string]any, _ string) map[string]any {
			logger.Info("tool executing", "tool", tool, "input", input)
			return input
		},
		Post: func(tool string, _ map[string]any, result ToolResult, err error, _ string) ToolResult {
			if err != nil {
				logger.Error("tool failed", "tool", tool, "error", err)
				return result
			}
			logger.Info("tool result", "tool", tool, "result", result.Content, "is_error", result.IsError)
			return result
		},
	}
}
