package agentry

import (
	"fmt"
)

// DefaultModel is the model used when an engine is not configured otherwise.
const DefaultModel = "claude-3-7-sonnet-20250219"

// Rate is the cost per unit volume for one token direction.
type Rate struct {
	CostPerMillionTokens float64
	Unit                 string
}

// Cost returns the price of the given token count at this rate.
func (r Rate) Cost(tokens int64) float64 {
	return float64(tokens) / 1_000_000 * r.CostPerMillionTokens
}

// Pricing is the per-direction rate pair for one model.
type Pricing struct {
	Input  Rate
	Output Rate
}

// CostOf prices a token count pair at this pricing.
func (p Pricing) CostOf(t TokenCount) Cost {
	in := p.Input.Cost(t.Input)
	out := p.Output.Cost(t.Output)
	return Cost{Input: in, Output: out, Total: in + out}
}

// modelPricing is the static pricing table keyed by model identifier.
// Read-only after initialization.
var modelPricing = map[string]Pricing{
	"claude-3-7-sonnet-20250219": {
		Input:  Rate{CostPerMillionTokens: 3.0, Unit: "USD"},
		Output: Rate{CostPerMillionTokens: 15.0, Unit: "USD"},
	},
	"claude-sonnet-4-20250514": {
		Input:  Rate{CostPerMillionTokens: 3.0, Unit: "USD"},
		Output: Rate{CostPerMillionTokens: 15.0, Unit: "USD"},
	},
	"claude-3-5-haiku-20241022": {
		Input:  Rate{CostPerMillionTokens: 0.80, Unit: "USD"},
		Output: Rate{CostPerMillionTokens: 4.0, Unit: "USD"},
	},
	"claude-opus-4-20250514": {
		Input:  Rate{CostPerMillionTokens: 15.0, Unit: "USD"},
		Output: Rate{CostPerMillionTokens: 75.0, Unit: "USD"},
	},
}

// PricingFor returns the pricing for a model, or ErrNoPricing when the model
// is not in the table. Callers must not treat an unknown model as zero cost.
func PricingFor(model string) (Pricing, error) {
	p, ok := modelPricing[model]
	if !ok {
		return Pricing{}, fmt.Errorf("%w for model %s", ErrNoPricing, model)
	}
	return p, nil
}

// Cost is an (input, output, total) price triple.
type Cost struct {
	Input  float64
	Output float64
	Total  float64
}

// Add returns the element-wise sum of two costs.
func (c Cost) Add(other Cost) Cost {
	return Cost{
		Input:  c.Input + other.Input,
		Output: c.Output + other.Output,
		Total:  c.Total + other.Total,
	}
}

// CostBreakdown mirrors the Usage breakdown shape in currency.
type CostBreakdown struct {
	Text   Cost
	Tools  Cost
	Total  Cost
	ByTool map[string]Cost
	Unit   string
}

// Cost prices the aggregated usage at the given model's rates.
func (l *Ledger) Cost(model string) (CostBreakdown, error) {
	pricing, err := PricingFor(model)
	if err != nil {
		return CostBreakdown{}, err
	}
	usage := l.Usage()
	byTool := make(map[string]Cost, len(usage.ByTool))
	for name, count := range usage.ByTool {
		byTool[name] = pricing.CostOf(count)
	}
	return CostBreakdown{
		Text:   pricing.CostOf(usage.Text),
		Tools:  pricing.CostOf(usage.Tools),
		Total:  pricing.CostOf(usage.Total),
		ByTool: byTool,
		Unit:   pricing.Input.Unit,
	}, nil
}

// CostOf prices a single recorded model call.
func (l *Ledger) CostOf(messageID, model string) (Cost, error) {
	pricing, err := PricingFor(model)
	if err != nil {
		return Cost{}, err
	}
	rec, ok := l.Record(messageID)
	if !ok {
		return Cost{}, fmt.Errorf("no usage record for message %s", messageID)
	}
	return pricing.CostOf(rec.Tokens), nil
}
