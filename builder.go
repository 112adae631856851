package agentry

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Tool is the contract for a model-callable instrument. It is
// provider-agnostic: the schema it exposes is translated by the transport
// adapter into whatever the provider expects.
type Tool interface {
	Name() string
	Description() string
	// Schema returns the descriptor sent to the model for this tool.
	Schema() ToolSchema
	// Call runs the tool. content is the serialized result, isError marks an
	// explicit failure signalled by the tool body (see Result), and err is
	// the raw error raised by the body. Callers convert err into an
	// error-tagged result; it must never abort the conversation.
	Call(ctx context.Context, input map[string]any) (content string, isError bool, err error)
}

// toolOptions hold optional tool settings.
type toolOptions struct {
	doc string
}

// ToolOption configures a tool built by NewTool.
type ToolOption func(*toolOptions)

// WithDoc attaches documentation text to the tool. The first paragraph
// becomes the description fallback and per-parameter lines (":param name:",
// "@param name:", "name:") become parameter descriptions.
func WithDoc(doc string) ToolOption {
	return func(o *toolOptions) {
		o.doc = doc
	}
}

// tool is the internal implementation of Tool built by NewTool.
type tool struct {
	name        string
	description string
	schema      ToolSchema
	params      []paramSpec
	resolved    *jsonschema.Resolved
	call        func(ctx context.Context, input map[string]any) (string, bool, error)
}

// NewTool builds a Tool from a typed function. The parameter contract is
// derived from the fields of T (declaration order, json/description/default
// tags); there is no second source of truth. name defaults to the function's
// own name when empty. Schema generation never fails; the only build error is
// a nil handler.
func NewTool[T any, R any](
	name, description string,
	fn func(ctx context.Context, args T) (R, error),
	opts ...ToolOption,
) (Tool, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	if name == "" {
		name = funcName(fn)
	}
	argsType := reflect.TypeOf(*new(T))
	schema := generateSchema(name, description, o.doc, argsType)
	params := buildParamSpecs(argsType, o.doc)
	resolved := compileInputSchema(schema.InputSchema)

	call := func(ctx context.Context, input map[string]any) (string, bool, error) {
		merged := applyDefaults(input, params)
		if err := validateInput(resolved, merged); err != nil {
			return "", false, err
		}
		data, err := json.Marshal(merged)
		if err != nil {
			return "", false, &SystemError{Err: err}
		}
		var args T
		if err := json.Unmarshal(data, &args); err != nil {
			return "", false, wrapJSONParseError(err)
		}
		res, err := fn(ctx, args)
		if err != nil {
			return "", false, err
		}
		content, isError := serializeResult(res)
		return content, isError, nil
	}

	return &tool{
		name:        name,
		description: schema.Description,
		schema:      schema,
		params:      params,
		resolved:    resolved,
		call:        call,
	}, nil
}

func (t *tool) Name() string        { return t.name }
func (t *tool) Description() string { return t.description }
func (t *tool) Schema() ToolSchema  { return t.schema }

func (t *tool) Call(ctx context.Context, input map[string]any) (string, bool, error) {
	return t.call(ctx, input)
}

// applyDefaults returns a copy of input with default values filled in for
// parameters the model omitted. The original map is never mutated.
func applyDefaults(input map[string]any, params []paramSpec) map[string]any {
	merged := make(map[string]any, len(input))
	for k, v := range input {
		merged[k] = v
	}
	for _, p := range params {
		if p.defaultVal == nil {
			continue
		}
		if _, ok := merged[p.name]; !ok {
			merged[p.name] = p.defaultVal
		}
	}
	return merged
}

// serializeResult converts a tool return value to its wire form. A Result is
// passed through verbatim; strings stay as-is; maps, slices, and structs are
// JSON-encoded; other scalars use their natural string form.
func serializeResult(res any) (string, bool) {
	switch v := res.(type) {
	case nil:
		return "", false
	case Result:
		return v.Content, v.IsError
	case *Result:
		if v == nil {
			return "", false
		}
		return v.Content, v.IsError
	case string:
		return v, false
	}
	rv := reflect.ValueOf(res)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if data, err := json.Marshal(rv.Interface()); err == nil {
			return string(data), false
		}
	default:
	}
	return fmt.Sprint(res), false
}

// funcName derives a tool name from the function symbol: package path and
// generic instantiation markers are stripped, so `math.Add[...]` becomes
// "Add". Anonymous functions yield their compiler-assigned suffix.
func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "tool"
	}
	name := f.Name()
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if name == "" {
		return "tool"
	}
	return name
}

var _ Tool = (*tool)(nil)
