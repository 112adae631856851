package agentry

import (
	"context"
)

// Message roles. The transcript only ever contains user and assistant
// messages; system text travels separately on the Request.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types as they appear on the wire.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Stop reasons reported by the model transport.
const (
	StopEndTurn = "end_turn"
	StopToolUse = "tool_use"
)

// Block is one typed content block inside a Message. Type selects which of
// the remaining fields are meaningful (see BlockText, BlockToolUse,
// BlockToolResult).
type Block struct {
	Type string

	// BlockText
	Text string

	// BlockToolUse
	ID    string
	Name  string
	Input map[string]any

	// BlockToolResult
	ToolUseID string
	Content   string
	IsError   bool
}

// TextBlock builds a text content block.
func TextBlock(text string) Block {
	return Block{Type: BlockText, Text: text}
}

// ToolUseBlock builds a tool_use content block.
func ToolUseBlock(id, name string, input map[string]any) Block {
	return Block{Type: BlockToolUse, ID: id, Name: name, Input: input}
}

// ToolResultBlock builds a tool_result content block referencing the
// tool_use block with the given id.
func ToolResultBlock(toolUseID, content string, isError bool) Block {
	return Block{Type: BlockToolResult, ToolUseID: toolUseID, Content: content, IsError: isError}
}

// Message is one entry in the conversation transcript.
type Message struct {
	Role    string
	Content []Block
}

// UserMessage builds a user message from content blocks.
func UserMessage(blocks ...Block) Message {
	return Message{Role: RoleUser, Content: blocks}
}

// AssistantMessage builds an assistant message from content blocks.
func AssistantMessage(blocks ...Block) Message {
	return Message{Role: RoleAssistant, Content: blocks}
}

// ToolCall is a single execution request as produced by the model.
// Preamble is any free text the model emitted before requesting the call;
// it is passed through to both interceptors but not replayed into the
// transcript.
type ToolCall struct {
	ID       string
	Name     string
	Input    map[string]any
	Preamble string
}

// ToolResult is the outcome of executing one ToolCall. IsError marks the
// content as an error message the model should react to; it never signals a
// local fault.
type ToolResult struct {
	Content string
	IsError bool
}

// Result lets a tool body signal failure explicitly while still returning a
// human-readable message. A tool whose result type is Result has its
// Content/IsError used verbatim instead of the normal serialization.
type Result struct {
	Content string
	IsError bool
}

// ToolSchema describes one tool to the model. For ordinary tools InputSchema
// is a JSON Schema of type object; for provider-native tools (see
// TextEditorToolName) Type carries the provider type tag and InputSchema is
// nil.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type,omitempty"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// TokenCount is an (input, output) token pair for one or more model calls.
type TokenCount struct {
	Input  int64 `json:"input_tokens"`
	Output int64 `json:"output_tokens"`
}

// Total returns input + output tokens.
func (t TokenCount) Total() int64 { return t.Input + t.Output }

// Add returns the element-wise sum of two counts.
func (t TokenCount) Add(other TokenCount) TokenCount {
	return TokenCount{Input: t.Input + other.Input, Output: t.Output + other.Output}
}

// Sub returns the element-wise difference of two counts.
func (t TokenCount) Sub(other TokenCount) TokenCount {
	return TokenCount{Input: t.Input - other.Input, Output: t.Output - other.Output}
}

// Request is one model invocation handed to the Transport. Tools and
// DisableParallelToolUse are only set when the registry is non-empty.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int64
	Temperature float64
	System      string
	Tools       []ToolSchema
	// DisableParallelToolUse asks the provider for at most one tool_use
	// block per response so each model call maps to exactly one usage
	// record with an unambiguous tool attribution.
	DisableParallelToolUse bool
}

// Response is the transport's answer to one Request.
type Response struct {
	ID         string
	StopReason string
	Content    []Block
	Usage      TokenCount
}

// Transport is the black-box request/response call to the model provider.
// Implementations own retries, backoff, and authentication; the engine
// treats errors from CreateMessage as fatal for the current turn.
type Transport interface {
	CreateMessage(ctx context.Context, req Request) (*Response, error)
}
