package agentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Cost(t *testing.T) {
	l := NewLedger()
	l.Add(UsageRecord{MessageID: "m1", Tokens: TokenCount{Input: 1000, Output: 1000}})

	// $3/M input + $15/M output over 1000+1000 tokens.
	breakdown, err := l.Cost("claude-3-7-sonnet-20250219")
	require.NoError(t, err)
	assert.InDelta(t, 0.003, breakdown.Total.Input, 1e-9)
	assert.InDelta(t, 0.015, breakdown.Total.Output, 1e-9)
	assert.InDelta(t, 0.018, breakdown.Total.Total, 1e-9)
	assert.Equal(t, "USD", breakdown.Unit)
}

func TestLedger_CostBreakdownMirrorsUsage(t *testing.T) {
	l := NewLedger()
	l.Add(UsageRecord{MessageID: "m1", Tokens: TokenCount{Input: 1_000_000, Output: 0}})
	l.Add(UsageRecord{MessageID: "m2", Tokens: TokenCount{Input: 1_000_000, Output: 0}, ToolRelated: true, ToolName: "add"})

	breakdown, err := l.Cost("claude-3-7-sonnet-20250219")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, breakdown.Text.Input, 1e-9)
	assert.InDelta(t, 3.0, breakdown.Tools.Input, 1e-9)
	assert.InDelta(t, 6.0, breakdown.Total.Input, 1e-9)
	require.Contains(t, breakdown.ByTool, "add")
	assert.InDelta(t, 3.0, breakdown.ByTool["add"].Input, 1e-9)
}

func TestLedger_CostUnknownModel(t *testing.T) {
	l := NewLedger()
	l.Add(UsageRecord{MessageID: "m1", Tokens: TokenCount{Input: 1000, Output: 1000}})

	_, err := l.Cost("totally-made-up-model")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPricing)
	assert.Contains(t, err.Error(), "totally-made-up-model")
}

func TestLedger_CostOfSingleRecord(t *testing.T) {
	l := NewLedger()
	l.Add(UsageRecord{MessageID: "m1", Tokens: TokenCount{Input: 1000, Output: 1000}})
	l.Add(UsageRecord{MessageID: "m2", Tokens: TokenCount{Input: 5000, Output: 5000}})

	cost, err := l.CostOf("m1", "claude-3-7-sonnet-20250219")
	require.NoError(t, err)
	assert.InDelta(t, 0.018, cost.Total, 1e-9)

	_, err = l.CostOf("missing", "claude-3-7-sonnet-20250219")
	assert.Error(t, err)
}

func TestPricingFor(t *testing.T) {
	p, err := PricingFor(DefaultModel)
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.Input.CostPerMillionTokens)
	assert.Equal(t, 15.0, p.Output.CostPerMillionTokens)

	_, err = PricingFor("unknown")
	assert.ErrorIs(t, err, ErrNoPricing)
}

func TestRate_Cost(t *testing.T) {
	r := Rate{CostPerMillionTokens: 3.0, Unit: "USD"}
	assert.InDelta(t, 0.003, r.Cost(1000), 1e-9)
	assert.InDelta(t, 3.0, r.Cost(1_000_000), 1e-9)
	assert.Zero(t, r.Cost(0))
}
