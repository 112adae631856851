package agentry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Engine owns one conversation: the transcript, the tool registry, and the
// usage ledger. It drives the orchestration loop, alternating between model
// calls and local tool executions until the model produces a final answer or
// the round ceiling is hit.
//
// An Engine is strictly sequential: one outstanding model call, one
// outstanding tool execution. Hosts embedding several independent
// conversations must create one Engine per conversation.
type Engine struct {
	mu        sync.Mutex
	transport Transport
	registry  *Registry
	ledger    *Ledger
	logger    *slog.Logger
	model     string
	messages  []Message
	opts      engineOptions
}

// toolContext attributes the next model call to the tool whose result it
// responds to. Carried explicitly through the loop instead of being
// re-derived from the transcript.
type toolContext struct {
	toolName string
	parentID string
}

// NewEngine creates an Engine talking to the given transport. The only
// configuration error is a nil transport.
func NewEngine(transport Transport, opts ...EngineOption) (*Engine, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		transport: transport,
		registry:  NewRegistry(),
		ledger:    NewLedger(),
		logger:    o.logger,
		model:     o.model,
		opts:      o,
	}
	e.registry.RegisterAll(o.tools...)
	e.registry.SetInterceptors(o.interceptors)
	return e, nil
}

// RegisterTools adds tools to the engine's registry. Later entries win on
// name collision.
func (e *Engine) RegisterTools(tools ...Tool) {
	e.registry.RegisterAll(tools...)
}

// SetInterceptors installs the pre/post hook pair around tool execution.
func (e *Engine) SetInterceptors(chain Interceptors) {
	e.registry.SetInterceptors(chain)
}

// Registry returns the engine's tool registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Ledger returns the engine's usage ledger.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// SetModel switches the model used for subsequent calls and cost lookups.
func (e *Engine) SetModel(model string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.model = model
}

// Model returns the active model identifier.
func (e *Engine) Model() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model
}

// Usage returns the aggregated token breakdown for this conversation.
func (e *Engine) Usage() Usage {
	return e.ledger.Usage()
}

// Cost prices the aggregated usage at the active model's rates. An unknown
// model yields ErrNoPricing, never a silent zero.
func (e *Engine) Cost() (CostBreakdown, error) {
	return e.ledger.Cost(e.Model())
}

// Messages returns a copy of the transcript.
func (e *Engine) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.messages)
}

// Reset clears the transcript and the usage ledger. Registered tools and
// interceptors survive.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.messages = nil
	e.mu.Unlock()
	e.ledger.Reset()
}

// ProcessPrompt appends a user message and runs the orchestration loop until
// the model produces final text or the round ceiling forces termination.
// Transport errors propagate to the caller and end the turn; tool failures
// do not — they are fed back into the transcript as error-tagged results.
func (e *Engine) ProcessPrompt(ctx context.Context, prompt string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.messages = append(e.messages, UserMessage(TextBlock(prompt)))
	tools := e.registry.Schemas()

	resp, err := e.callModel(ctx, tools, nil)
	if err != nil {
		return "", err
	}
	interp := interpret(resp)

	rounds := 0
	for interp.toolUse != nil && rounds < e.opts.maxRounds {
		call := *interp.toolUse
		e.messages = append(e.messages, AssistantMessage(ToolUseBlock(call.ID, call.Name, call.Input)))

		e.logger.Debug("executing tool", "tool", call.Name, "call_id", call.ID)
		result := e.registry.Execute(ctx, call)
		e.messages = append(e.messages, UserMessage(ToolResultBlock(call.ID, result.Content, result.IsError)))

		pending := &toolContext{toolName: call.Name, parentID: resp.ID}
		resp, err = e.callModel(ctx, tools, pending)
		if err != nil {
			return "", err
		}
		interp = interpret(resp)
		rounds++
	}

	if interp.toolUse != nil {
		e.logger.Warn("round limit reached, terminating tool loop",
			"max_rounds", e.opts.maxRounds, "tool", interp.toolUse.Name)
	}

	e.messages = append(e.messages, AssistantMessage(TextBlock(interp.text)))
	return interp.text, nil
}

// callModel performs one transport call and records its usage. pending is
// non-nil when this call responds to a tool result; its attribution lands on
// the usage record.
func (e *Engine) callModel(ctx context.Context, tools []ToolSchema, pending *toolContext) (*Response, error) {
	req := Request{
		Model:       e.model,
		Messages:    slices.Clone(e.messages),
		MaxTokens:   e.opts.maxTokens,
		Temperature: e.opts.temperature,
		System:      e.opts.system,
	}
	if len(tools) > 0 {
		req.Tools = tools
		req.DisableParallelToolUse = e.opts.disableParallelToolUse
	}

	e.logger.Debug("model call", "model", e.model, "messages", len(req.Messages), "tools", len(tools))
	resp, err := e.transport.CreateMessage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	if resp.ID == "" {
		resp.ID = newMessageID()
	}

	rec := UsageRecord{MessageID: resp.ID, Tokens: resp.Usage}
	if pending != nil {
		rec.ToolRelated = true
		rec.ToolName = pending.toolName
		rec.ParentID = pending.parentID
	}
	e.ledger.Add(rec)
	return resp, nil
}

// interpretation is the engine's reading of one model response: the
// concatenated text blocks, and the requested tool call when the model
// stopped for tool use. When toolUse is set, text doubles as its preamble.
type interpretation struct {
	text    string
	toolUse *ToolCall
}

// interpret classifies a model response as final text or a tool request.
// Only the first tool_use block counts; parallel tool use is disabled at
// request time.
func interpret(resp *Response) interpretation {
	var text strings.Builder
	var toolUse *Block
	for i := range resp.Content {
		switch resp.Content[i].Type {
		case BlockText:
			text.WriteString(resp.Content[i].Text)
		case BlockToolUse:
			if toolUse == nil {
				toolUse = &resp.Content[i]
			}
		}
	}
	out := interpretation{text: text.String()}
	if resp.StopReason == StopToolUse && toolUse != nil {
		out.toolUse = &ToolCall{
			ID:       toolUse.ID,
			Name:     toolUse.Name,
			Input:    toolUse.Input,
			Preamble: out.text,
		}
	}
	return out
}

// newMessageID generates a fallback identifier for transports that do not
// return one.
func newMessageID() string {
	return "msg_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}
