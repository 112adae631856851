package agentry

import (
	"log/slog"
)

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	recoverPanics bool
}

// WithRecoverPanics enables panic recovery in Execute (on by default).
// When disabled, a panicking tool takes the process down.
func WithRecoverPanics(enable bool) RegistryOption {
	return func(o *registryOptions) {
		o.recoverPanics = enable
	}
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	model                  string
	maxTokens              int64
	temperature            float64
	maxRounds              int
	system                 string
	disableParallelToolUse bool
	logger                 *slog.Logger
	tools                  []Tool
	interceptors           Interceptors
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		model:                  DefaultModel,
		maxTokens:              1024,
		temperature:            0.7,
		maxRounds:              30,
		disableParallelToolUse: true,
		logger:                 slog.Default(),
	}
}

// WithModel sets the model identifier for calls and cost lookups.
func WithModel(model string) EngineOption {
	return func(o *engineOptions) {
		o.model = model
	}
}

// WithMaxTokens sets the maximum number of output tokens per model call.
func WithMaxTokens(n int64) EngineOption {
	return func(o *engineOptions) {
		o.maxTokens = n
	}
}

// WithTemperature sets the generation temperature.
func WithTemperature(t float64) EngineOption {
	return func(o *engineOptions) {
		o.temperature = t
	}
}

// WithMaxRounds bounds the tool-call cycles per prompt. Reaching the ceiling
// forces termination with whatever text the model last produced.
func WithMaxRounds(n int) EngineOption {
	return func(o *engineOptions) {
		o.maxRounds = n
	}
}

// WithInstructions sets the system text sent with every model call.
func WithInstructions(instructions string) EngineOption {
	return func(o *engineOptions) {
		o.system = instructions
	}
}

// WithParallelToolUse re-enables parallel tool invocation. Off by default:
// with parallel calls token attribution per tool becomes ambiguous.
func WithParallelToolUse() EngineOption {
	return func(o *engineOptions) {
		o.disableParallelToolUse = false
	}
}

// WithLogger sets the engine logger (slog.Default when unset).
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTools registers tools at construction time.
func WithTools(tools ...Tool) EngineOption {
	return func(o *engineOptions) {
		o.tools = append(o.tools, tools...)
	}
}

// WithInterceptors installs the pre/post hook pair at construction time.
func WithInterceptors(chain Interceptors) EngineOption {
	return func(o *engineOptions) {
		o.interceptors = chain
	}
}
