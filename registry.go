package agentry

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Registry holds tools by name and executes model-requested calls. A tool
// failure is converted into an error-tagged ToolResult, never an escaping
// error: a single bad call must not abort the conversation.
type Registry struct {
	mu           sync.Mutex
	tools        map[string]Tool // wrapped with middlewares, used by Execute
	rawTools     map[string]Tool // unwrapped, used by Use() to re-apply middlewares
	order        []string        // registration order for Schemas/Names
	interceptors Interceptors
	opts         registryOptions
	middlewares  []Middleware
}

// NewRegistry creates a Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := registryOptions{
		recoverPanics: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		tools:    make(map[string]Tool),
		rawTools: make(map[string]Tool),
		opts:     o,
	}
}

// Register adds a tool under its own name and returns that name. A later
// registration under the same name overwrites the earlier one; the tool
// keeps its original position in registration order.
func (r *Registry) Register(t Tool) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.rawTools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.rawTools[name] = t
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		t = r.middlewares[i](t)
	}
	r.tools[name] = t
	return name
}

// RegisterAll registers each tool in order. Later entries win on name
// collision.
func (r *Registry) RegisterAll(tools ...Tool) {
	for _, t := range tools {
		r.Register(t)
	}
}

// SetInterceptors installs the pre/post hook pair applied around every
// Execute. Hooks are validated before they get here (see NewInterceptors);
// a zero Interceptors value removes both hooks.
func (r *Registry) SetInterceptors(chain Interceptors) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = chain
}

// Get returns the registered tool (after middlewares), or (nil, false).
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tools)
}

// Schemas returns the schema for every registered tool, in registration
// order. This is the tool list sent to the model on each call.
func (r *Registry) Schemas() []ToolSchema {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Schema())
	}
	return out
}

// Execute runs one tool call through the interceptor chain. An unknown tool
// name yields an error-tagged result with a descriptive message; an error
// from the tool body is caught and converted the same way, after the post
// hook has seen the raw error value.
func (r *Registry) Execute(ctx context.Context, call ToolCall) ToolResult {
	r.mu.Lock()
	t, ok := r.tools[call.Name]
	chain := r.interceptors
	recoverPanics := r.opts.recoverPanics
	r.mu.Unlock()

	if !ok {
		return ToolResult{
			Content: fmt.Sprintf("Error: tool '%s' not found", call.Name),
			IsError: true,
		}
	}

	input := call.Input
	if input == nil {
		input = map[string]any{}
	}
	if chain.Pre != nil {
		if rewritten := chain.Pre(call.Name, input, call.Preamble); rewritten != nil {
			input = rewritten
		}
	}

	content, isError, err := invoke(ctx, t, input, recoverPanics)
	result := ToolResult{Content: content, IsError: isError}
	if err != nil {
		result = ToolResult{
			Content: fmt.Sprintf("Error executing tool '%s': %s", call.Name, err.Error()),
			IsError: true,
		}
	}
	if chain.Post != nil {
		result = chain.Post(call.Name, input, result, err, call.Preamble)
	}
	return result
}

// invoke calls the tool body, optionally recovering panics into SystemError.
func invoke(ctx context.Context, t Tool, input map[string]any, recoverPanics bool) (content string, isError bool, err error) {
	if recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				content = ""
				isError = false
				err = &SystemError{Err: &panicError{p: p}}
			}
		}()
	}
	return t.Call(ctx, input)
}
