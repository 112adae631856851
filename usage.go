package agentry

import (
	"slices"
	"sync"
)

// UsageRecord is the token bookkeeping unit for one model call. Records are
// immutable once added; the set of records is cleared only by Reset.
type UsageRecord struct {
	MessageID string
	Tokens    TokenCount
	// ToolRelated marks calls made in response to a tool result.
	ToolRelated bool
	// ToolName is the tool whose result triggered this call; empty for
	// text turns.
	ToolName string
	// ParentID references the model message that requested the tool.
	ParentID string
}

// Usage is the derived breakdown of all recorded token consumption. Text is
// always Total minus Tools, so Text + Tools == Total holds exactly.
type Usage struct {
	Text   TokenCount
	Tools  TokenCount
	Total  TokenCount
	ByTool map[string]TokenCount
}

// Ledger is an append-only record of per-call token counts.
// Safe for concurrent use; a conversation engine owns exactly one.
type Ledger struct {
	mu      sync.Mutex
	records []UsageRecord
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add appends one record.
func (l *Ledger) Add(rec UsageRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Record returns the record for one model call by its message id.
func (l *Ledger) Record(messageID string) (UsageRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range l.records {
		if rec.MessageID == messageID {
			return rec, true
		}
	}
	return UsageRecord{}, false
}

// Records returns a copy of all records in insertion order.
func (l *Ledger) Records() []UsageRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.records)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Usage computes the aggregated breakdown over all records. Tool totals sum
// the tool-related records; text totals are derived by subtraction, never
// summed independently.
func (l *Ledger) Usage() Usage {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total, tools TokenCount
	byTool := make(map[string]TokenCount)
	for _, rec := range l.records {
		total = total.Add(rec.Tokens)
		if rec.ToolRelated {
			tools = tools.Add(rec.Tokens)
			if rec.ToolName != "" {
				byTool[rec.ToolName] = byTool[rec.ToolName].Add(rec.Tokens)
			}
		}
	}
	return Usage{
		Text:   total.Sub(tools),
		Tools:  tools,
		Total:  total,
		ByTool: byTool,
	}
}

// Reset clears all records, starting a fresh accounting epoch.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}
