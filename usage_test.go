package agentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_TextPlusToolsEqualsTotal(t *testing.T) {
	l := NewLedger()
	l.Add(UsageRecord{MessageID: "m1", Tokens: TokenCount{Input: 100, Output: 50}})
	l.Add(UsageRecord{MessageID: "m2", Tokens: TokenCount{Input: 200, Output: 80}, ToolRelated: true, ToolName: "add", ParentID: "m1"})
	l.Add(UsageRecord{MessageID: "m3", Tokens: TokenCount{Input: 300, Output: 120}, ToolRelated: true, ToolName: "weather", ParentID: "m2"})
	l.Add(UsageRecord{MessageID: "m4", Tokens: TokenCount{Input: 10, Output: 5}})

	u := l.Usage()
	assert.Equal(t, u.Total, u.Text.Add(u.Tools), "text + tools == total, always")
	assert.Equal(t, TokenCount{Input: 610, Output: 255}, u.Total)
	assert.Equal(t, TokenCount{Input: 500, Output: 200}, u.Tools)
	assert.Equal(t, TokenCount{Input: 110, Output: 55}, u.Text)
}

func TestLedger_ByToolGrouping(t *testing.T) {
	l := NewLedger()
	l.Add(UsageRecord{MessageID: "m1", Tokens: TokenCount{Input: 10, Output: 1}, ToolRelated: true, ToolName: "add"})
	l.Add(UsageRecord{MessageID: "m2", Tokens: TokenCount{Input: 20, Output: 2}, ToolRelated: true, ToolName: "add"})
	l.Add(UsageRecord{MessageID: "m3", Tokens: TokenCount{Input: 40, Output: 4}, ToolRelated: true, ToolName: "weather"})

	u := l.Usage()
	require.Len(t, u.ByTool, 2)
	assert.Equal(t, TokenCount{Input: 30, Output: 3}, u.ByTool["add"])
	assert.Equal(t, TokenCount{Input: 40, Output: 4}, u.ByTool["weather"])
}

func TestLedger_RecordLookup(t *testing.T) {
	l := NewLedger()
	l.Add(UsageRecord{MessageID: "m1", Tokens: TokenCount{Input: 10, Output: 1}})

	rec, ok := l.Record("m1")
	require.True(t, ok)
	assert.Equal(t, TokenCount{Input: 10, Output: 1}, rec.Tokens)

	_, ok = l.Record("nope")
	assert.False(t, ok)
}

func TestLedger_ResetIdempotence(t *testing.T) {
	l := NewLedger()
	l.Add(UsageRecord{MessageID: "m1", Tokens: TokenCount{Input: 10, Output: 1}})

	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, TokenCount{}, l.Usage().Total)

	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, TokenCount{}, l.Usage().Total)
}

func TestLedger_EmptyUsage(t *testing.T) {
	l := NewLedger()
	u := l.Usage()
	assert.Equal(t, TokenCount{}, u.Total)
	assert.Equal(t, TokenCount{}, u.Text)
	assert.Equal(t, TokenCount{}, u.Tools)
	assert.Empty(t, u.ByTool)
}

func TestTokenCount_Arithmetic(t *testing.T) {
	a := TokenCount{Input: 10, Output: 5}
	b := TokenCount{Input: 3, Output: 2}
	assert.Equal(t, TokenCount{Input: 13, Output: 7}, a.Add(b))
	assert.Equal(t, TokenCount{Input: 7, Output: 3}, a.Sub(b))
	assert.Equal(t, int64(15), a.Total())
}
