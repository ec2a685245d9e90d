// Package tool holds the tool registry, the input schemas it validates
// against, and the dispatcher that turns a tool call into a normalized result.
package tool

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

// FieldType is the primitive semantic type of a schema field.
type FieldType int

const (
	String FieldType = iota + 1
	Number
	Enum
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Enum:
		return "enum"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Field describes one named argument of a tool.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Default     any // only used when the field is optional and absent
	Enum        []string
	Description string
}

// Schema is the declarative input description of a tool.
type Schema struct {
	Name        string
	Description string
	Fields      []Field
}

// Check reports configuration mistakes in the schema itself.
func (s Schema) Check() error {
	if s.Name == "" {
		return fmt.Errorf("tool: schema name is required")
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("tool: %s: field name is required", s.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("tool: %s: duplicate field %q", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}

		switch f.Type {
		case String, Number:
		case Enum:
			if len(f.Enum) == 0 {
				return fmt.Errorf("tool: %s: enum field %q has no values", s.Name, f.Name)
			}
		default:
			return fmt.Errorf("tool: %s: field %q has unknown type %v", s.Name, f.Name, f.Type)
		}

		if f.Default == nil {
			continue
		}
		if f.Required {
			return fmt.Errorf("tool: %s: required field %q cannot have a default", s.Name, f.Name)
		}
		if _, reason := f.coerce(f.Default); reason != "" {
			return fmt.Errorf("tool: %s: default of %q: %s", s.Name, f.Name, reason)
		}
	}

	return nil
}

// Validate checks raw arguments against the schema. It returns the typed,
// defaulted argument set, or a ValidationError failure listing every
// offending field in schema order. Fields not declared in the schema are
// ignored and a JSON null counts as absent.
func (s Schema) Validate(raw map[string]any) (Args, *Failure) {
	args := make(Args, len(s.Fields))

	var problems []FieldError
	for _, f := range s.Fields {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			switch {
			case f.Required:
				problems = append(problems, FieldError{Field: f.Name, Reason: "required"})
			case f.Default != nil:
				args[f.Name], _ = f.coerce(f.Default)
			}
			continue
		}

		typed, reason := f.coerce(v)
		if reason != "" {
			problems = append(problems, FieldError{Field: f.Name, Reason: reason})
			continue
		}
		args[f.Name] = typed
	}

	if len(problems) > 0 {
		return nil, validationFailure(s.Name, problems)
	}

	return args, nil
}

// coerce converts a decoded JSON value to the field's Go type: string for
// String and Enum, float64 for Number. A non-empty reason means rejection.
func (f Field) coerce(v any) (any, string) {
	switch f.Type {
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, "expected string, got " + jsonKind(v)
		}
		return s, ""
	case Number:
		switch n := v.(type) {
		case float64:
			return n, ""
		case int:
			return float64(n), ""
		case json.Number:
			x, err := n.Float64()
			if err != nil {
				return nil, "invalid number " + n.String()
			}
			return x, ""
		default:
			return nil, "expected number, got " + jsonKind(v)
		}
	case Enum:
		s, ok := v.(string)
		if !ok {
			return nil, "expected string, got " + jsonKind(v)
		}
		if !slices.Contains(f.Enum, s) {
			return nil, fmt.Sprintf("%q is not one of %v", s, f.Enum)
		}
		return s, ""
	}

	return nil, "unsupported field type"
}

func jsonKind(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64, int, json.Number:
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

// InputSchema describes the schema as a JSON Schema object, the shape tool
// listings advertise to clients.
func (s Schema) InputSchema() *jsonschema.Schema {
	js := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(s.Fields)),
	}

	for _, f := range s.Fields {
		prop := &jsonschema.Schema{Description: f.Description}
		switch f.Type {
		case String:
			prop.Type = "string"
		case Number:
			prop.Type = "number"
		case Enum:
			prop.Type = "string"
			for _, v := range f.Enum {
				prop.Enum = append(prop.Enum, v)
			}
		}
		if f.Default != nil {
			if b, err := json.Marshal(f.Default); err == nil {
				prop.Default = b
			}
		}
		js.Properties[f.Name] = prop

		if f.Required {
			js.Required = append(js.Required, f.Name)
		}
	}

	return js
}
