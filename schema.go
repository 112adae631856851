package agentry

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// TextEditorToolName is the privileged tool name whose calling convention is
// provider-native. Schema generation is bypassed for it and a fixed minimal
// descriptor (name + provider type tag) is sent instead.
const TextEditorToolName = "str_replace_editor"

// textEditorToolType is the provider type tag for the text-editor tool class.
const textEditorToolType = "text_editor_20250124"

// paramSpec is one parameter derived from a field of the args struct.
type paramSpec struct {
	name        string
	jsonType    string
	description string
	required    bool
	defaultVal  any // parsed default tag value, nil when the field has none
}

// buildParamSpecs enumerates the exported fields of the args struct type in
// declaration order and maps each to a parameter. typ may be a pointer type
// or nil (a tool with no parameters). This never fails: unknown field types
// degrade to "string", malformed tags are ignored.
func buildParamSpecs(typ reflect.Type, doc string) []paramSpec {
	if typ == nil {
		return nil
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}
	var params []paramSpec
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		p := paramSpec{
			name:     name,
			jsonType: jsonTypeFor(field.Type),
		}
		if desc := field.Tag.Get("description"); desc != "" {
			p.description = desc
		} else if desc := extractParamDoc(doc, name); desc != "" {
			p.description = desc
		}
		if def, ok := field.Tag.Lookup("default"); ok {
			p.defaultVal = parseDefault(def, field.Type)
		} else {
			p.required = true
		}
		params = append(params, p)
	}
	return params
}

// jsonTypeFor maps a Go type to a JSON Schema type tag. Unmapped or complex
// types default to string; that permissiveness is deliberate.
func jsonTypeFor(typ reflect.Type) string {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

// parseDefault interprets a default tag literal for the field type. A value
// that does not parse is kept as the raw string so the tool still receives
// something rather than nothing.
func parseDefault(raw string, typ reflect.Type) any {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case reflect.Float32, reflect.Float64:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	default:
	}
	return raw
}

// paramDocMarkers are the documentation conventions recognized when scanning
// a tool's doc text for a per-parameter description. First match wins.
var paramDocMarkers = []string{":param %s:", "@param %s:", "%s:"}

// extractParamDoc scans doc text for a description of the named parameter.
// Absence of a match yields an empty string, not an error.
func extractParamDoc(doc, param string) string {
	if doc == "" {
		return ""
	}
	for _, marker := range paramDocMarkers {
		pattern := strings.ReplaceAll(marker, "%s", param)
		for _, line := range strings.Split(doc, "\n") {
			trimmed := strings.TrimSpace(line)
			if rest, ok := strings.CutPrefix(trimmed, pattern); ok {
				return strings.TrimSpace(rest)
			}
		}
	}
	return ""
}

// firstParagraph returns doc text up to the first blank line, with
// surrounding whitespace trimmed.
func firstParagraph(doc string) string {
	doc = strings.TrimSpace(doc)
	if i := strings.Index(doc, "\n\n"); i >= 0 {
		doc = doc[:i]
	}
	return strings.TrimSpace(doc)
}

// toolDescription resolves the description for a tool: explicit argument
// first, then the first paragraph of the doc text, then a synthesized
// fallback.
func toolDescription(name, explicit, doc string) string {
	if explicit != "" {
		return explicit
	}
	if p := firstParagraph(doc); p != "" {
		return p
	}
	return "Function `" + name + "`"
}

// generateSchema produces the ToolSchema for a tool. The privileged
// text-editor name short-circuits to the provider-native descriptor. This
// function never fails; every unknown case degrades to a permissive default.
func generateSchema(name, description, doc string, argsType reflect.Type) ToolSchema {
	if name == TextEditorToolName {
		return ToolSchema{Name: name, Type: textEditorToolType}
	}
	params := buildParamSpecs(argsType, doc)
	properties := make(map[string]any, len(params))
	var required []string
	for _, p := range params {
		prop := map[string]any{"type": p.jsonType}
		if p.description != "" {
			prop["description"] = p.description
		}
		properties[p.name] = prop
		if p.required {
			required = append(required, p.name)
		}
	}
	input := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	// A nil required list is omitted from the JSON encoding entirely;
	// callers must treat "absent" and "empty" as equivalent.
	if len(required) > 0 {
		input["required"] = required
	}
	return ToolSchema{
		Name:        name,
		Description: toolDescription(name, description, doc),
		InputSchema: input,
	}
}

// compileInputSchema compiles a generated input schema into a resolved
// validator. Returns nil when the schema cannot be compiled; validation is
// then skipped rather than blocking registration.
func compileInputSchema(input map[string]any) *jsonschema.Resolved {
	if input == nil {
		return nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return nil
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil
	}
	return resolved
}

// validateInput runs the compiled schema against already-decoded input.
// A nil validator accepts everything.
func validateInput(resolved *jsonschema.Resolved, input map[string]any) error {
	if resolved == nil {
		return nil
	}
	// Round-trip through JSON so typed values (int64 vs float64) compare the
	// way the validator expects.
	data, err := json.Marshal(input)
	if err != nil {
		return &SystemError{Err: err}
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return wrapJSONParseError(err)
	}
	if err := resolved.Validate(v); err != nil {
		return &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return nil
}
