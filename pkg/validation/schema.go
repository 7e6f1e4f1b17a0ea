package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Schema validates and normalizes one decoded JSON value.
type Schema interface {
	parse(value any, path []string) (any, *issue)
	optional() bool
	fallback() (any, bool)
}

type FieldDef struct {
	name   string
	schema Schema
}

func Field(name string, schema Schema) FieldDef {
	return FieldDef{name: name, schema: schema}
}

// ObjectSchema validates a JSON object field by field, in declaration order.
// Unknown keys are dropped, or rejected once Strict is set.
type ObjectSchema struct {
	fields     []FieldDef
	strict     bool
	isOptional bool
}

func Object(fields ...FieldDef) *ObjectSchema {
	return &ObjectSchema{fields: fields}
}

func (o *ObjectSchema) Strict() *ObjectSchema {
	o.strict = true
	return o
}

func (o *ObjectSchema) Optional() *ObjectSchema {
	o.isOptional = true
	return o
}

func (o *ObjectSchema) optional() bool        { return o.isOptional }
func (o *ObjectSchema) fallback() (any, bool) { return nil, false }

func (o *ObjectSchema) parse(value any, path []string) (any, *issue) {
	in, ok := value.(map[string]any)
	if !ok {
		return nil, typeIssue(path, "object", value)
	}

	out := make(map[string]any, len(o.fields))
	known := make(map[string]struct{}, len(o.fields))
	for _, f := range o.fields {
		known[f.name] = struct{}{}
		fieldPath := childPath(path, f.name)

		raw, present := in[f.name]
		if !present {
			if def, ok := f.schema.fallback(); ok {
				out[f.name] = def
				continue
			}
			if f.schema.optional() {
				continue
			}
			return nil, &issue{path: fieldPath, code: CodeInvalidType, message: "Required"}
		}

		parsed, iss := f.schema.parse(raw, fieldPath)
		if iss != nil {
			return nil, iss
		}
		out[f.name] = parsed
	}

	if o.strict {
		var unknown []string
		for key := range in {
			if _, ok := known[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			quoted := make([]string, len(unknown))
			for i, k := range unknown {
				quoted[i] = "'" + k + "'"
			}
			return nil, &issue{
				path:    childPath(path, unknown[0]),
				code:    CodeUnrecognizedKeys,
				message: fmt.Sprintf("Unrecognized key(s) in object: %s", strings.Join(quoted, ", ")),
			}
		}
	}

	return out, nil
}

func childPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

func typeIssue(path []string, expected string, got any) *issue {
	return &issue{
		path:    path,
		code:    CodeInvalidType,
		message: fmt.Sprintf("Expected %s, received %s", expected, typeName(got)),
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
