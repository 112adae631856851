// Package agentry is a client-side orchestration layer for LLM tool use: it
// hands the model a set of callable Go functions, drives the multi-turn
// conversation until the model produces a final answer, and accounts for
// token usage and cost per turn and per tool.
//
// # Overview
//
// The model produces tool calls as JSON; agentry turns them into concrete Go
// function calls and feeds the results back into the conversation. The loop
// is a bounded state machine: send transcript → interpret response → execute
// the requested tool → repeat, up to a configured round ceiling. Every model
// call lands in a usage ledger tagged as a text turn or attributed to the
// tool whose result triggered it, so text + tools == total holds exactly.
//
// Pipeline: Go function + argument struct → NewTool (reflection + schema) →
// Registry → Engine.ProcessPrompt → Transport (e.g. the anthropic
// subpackage) → tool execution → final text.
//
// # Key concepts
//
//   - Single Source of Truth: the argument struct's fields and tags drive
//     the schema shown to the model and the validation of incoming input.
//   - Self-Correction: unknown tools and tool-body failures become
//     error-tagged results in the transcript; the conversation continues.
//   - Deterministic accounting: parallel tool use is disabled by default so
//     each model call maps to exactly one usage record.
//
// # Example
//
//	type Args struct {
//	    A int `json:"a" description:"First addend"`
//	    B int `json:"b" description:"Second addend"`
//	}
//	add, err := agentry.NewTool("add", "Add two numbers", func(_ context.Context, a Args) (int, error) {
//	    return a.A + a.B, nil
//	})
//	if err != nil { ... }
//	engine, err := agentry.NewEngine(transport, agentry.WithTools(add))
//	if err != nil { ... }
//	answer, err := engine.ProcessPrompt(ctx, "add 2 and 3")
package agentry
