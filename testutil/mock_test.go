package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/agentry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMockTransport_ScriptedResponses(t *testing.T) {
	m := &MockTransport{
		Responses: []*agentry.Response{
			TextResponse("msg_1", "one", 1, 1),
			TextResponse("msg_2", "two", 2, 2),
		},
	}

	resp, err := m.CreateMessage(context.Background(), agentry.Request{})
	require.NoError(t, err)
	assert.Equal(t, "msg_1", resp.ID)

	resp, err = m.CreateMessage(context.Background(), agentry.Request{})
	require.NoError(t, err)
	assert.Equal(t, "msg_2", resp.ID)

	// Script exhausted: the last response repeats.
	resp, err = m.CreateMessage(context.Background(), agentry.Request{})
	require.NoError(t, err)
	assert.Equal(t, "msg_2", resp.ID)

	assert.Equal(t, 3, m.Calls())
	assert.Len(t, m.Requests, 3)
}

func TestMockTransport_Error(t *testing.T) {
	m := &MockTransport{Err: assert.AnError}
	_, err := m.CreateMessage(context.Background(), agentry.Request{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, m.Calls())
}

func TestToolUseResponse(t *testing.T) {
	resp := ToolUseResponse("", "", "add", map[string]any{"a": 1}, "working on it", 10, 5)
	assert.Equal(t, agentry.StopToolUse, resp.StopReason)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Content, 2)
	assert.Equal(t, agentry.BlockText, resp.Content[0].Type)
	assert.Equal(t, "working on it", resp.Content[0].Text)
	assert.Equal(t, agentry.BlockToolUse, resp.Content[1].Type)
	assert.NotEmpty(t, resp.Content[1].ID)
}

func TestTextResponse_DefaultID(t *testing.T) {
	resp := TextResponse("", "hello", 1, 1)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, agentry.StopEndTurn, resp.StopReason)
}
