// Package testutil provides test helpers for agentry (e.g. MockTransport).
package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/skosovsky/agentry"
)

// MockTransport is a scripted agentry.Transport for tests. Each CreateMessage
// call consumes the next scripted response; when the script runs out, the
// last response repeats (useful for "the model keeps asking for tools"
// scenarios). Every request is captured for assertions.
type MockTransport struct {
	mu        sync.Mutex
	Responses []*agentry.Response
	Requests  []agentry.Request
	Err       error
	calls     int
}

// CreateMessage returns the next scripted response, or Err when set.
func (m *MockTransport) CreateMessage(_ context.Context, req agentry.Request) (*agentry.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Requests = append(m.Requests, req)
	if len(m.Responses) == 0 {
		return TextResponse("", "", 0, 0), nil
	}
	i := m.calls
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	m.calls++
	resp := *m.Responses[i]
	resp.Content = append([]agentry.Block(nil), m.Responses[i].Content...)
	return &resp, nil
}

// Calls returns how many times CreateMessage has been invoked.
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// TextResponse builds a final-text response. id defaults to a fresh message
// id when empty.
func TextResponse(id, text string, inputTokens, outputTokens int64) *agentry.Response {
	return &agentry.Response{
		ID:         orMessageID(id),
		StopReason: agentry.StopEndTurn,
		Content:    []agentry.Block{agentry.TextBlock(text)},
		Usage:      agentry.TokenCount{Input: inputTokens, Output: outputTokens},
	}
}

// ToolUseResponse builds a response requesting one tool call, with optional
// preamble text ahead of the tool_use block.
func ToolUseResponse(id, callID, tool string, input map[string]any, preamble string, inputTokens, outputTokens int64) *agentry.Response {
	var content []agentry.Block
	if preamble != "" {
		content = append(content, agentry.TextBlock(preamble))
	}
	content = append(content, agentry.ToolUseBlock(orCallID(callID), tool, input))
	return &agentry.Response{
		ID:         orMessageID(id),
		StopReason: agentry.StopToolUse,
		Content:    content,
		Usage:      agentry.TokenCount{Input: inputTokens, Output: outputTokens},
	}
}

func orMessageID(id string) string {
	if id != "" {
		return id
	}
	return "msg_" + uuid.NewString()
}

func orCallID(id string) string {
	if id != "" {
		return id
	}
	return "toolu_" + uuid.NewString()
}

// Ensure MockTransport implements Transport.
var _ agentry.Transport = (*MockTransport)(nil)
