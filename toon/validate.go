package toon

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Schema is a minimal structural schema: keys that must be present at the
// top level, and the expected type of keys that are present. It is not a
// JSON Schema implementation.
type Schema struct {
	Required   []string            `json:"required,omitempty" yaml:"required,omitempty"`
	Properties map[string]Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Property describes one top-level key.
type Property struct {
	// Type is one of string, number, integer, boolean, object, array, null.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// ParseSchema reads a schema from JSON.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("toon: invalid schema: %w", err)
	}
	return &s, nil
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // top-level key
	Code    string // missing_required, type_mismatch, not_an_object
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationResult contains the outcome of Validate.
type ValidationResult struct {
	Valid  bool
	Fields []string // failing keys, in schema order
	Errors []ValidationError
}

// Err returns a *SchemaValidationError when the value is invalid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &SchemaValidationError{Fields: r.Fields}
}

// Validate checks v against s. It never fails; problems are reported in
// the result.
func Validate(v *Value, s *Schema) *ValidationResult {
	res := &ValidationResult{Valid: true}
	if s == nil {
		return res
	}

	fail := func(field, code, format string, args ...any) {
		res.Valid = false
		res.Errors = append(res.Errors, ValidationError{
			Field:   field,
			Code:    code,
			Message: fmt.Sprintf(format, args...),
		})
		for _, f := range res.Fields {
			if f == field {
				return
			}
		}
		res.Fields = append(res.Fields, field)
	}

	if v.Kind() != KindObject && (len(s.Required) > 0 || len(s.Properties) > 0) {
		res.Valid = false
		res.Errors = append(res.Errors, ValidationError{
			Code:    "not_an_object",
			Message: fmt.Sprintf("expected object, got %s", v.Kind()),
		})
	}

	for _, key := range s.Required {
		if _, ok := v.Lookup(key); !ok {
			fail(key, "missing_required", "required field is missing")
		}
	}

	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		prop := s.Properties[key]
		val, ok := v.Lookup(key)
		if !ok || prop.Type == "" {
			continue
		}
		if !TypeMatches(val, prop.Type) {
			fail(key, "type_mismatch", "expected %s, got %s", prop.Type, TypeName(val))
		}
	}

	return res
}

// ValidateText parses text and validates the result. Structural parse
// errors make the text invalid.
func ValidateText(text string, s *Schema) *ValidationResult {
	r := Parse(text)
	res := Validate(r.Value, s)
	for _, err := range r.Errors {
		res.Valid = false
		res.Errors = append(res.Errors, ValidationError{Code: "parse_error", Message: err.Error()})
	}
	return res
}

// TypeName returns the schema type name of v: string, number, boolean,
// object, array or null. A null value reports "null", not "object".
func TypeName(v *Value) string {
	switch v.Kind() {
	case KindBool:
		return "boolean"
	case KindInt, KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "null"
	}
}

// TypeMatches reports whether v has the schema type typ. "integer" accepts
// only integers; "number" accepts integers and floats. Null matches only
// "null", never "object".
func TypeMatches(v *Value, typ string) bool {
	if typ == "integer" {
		return v.Kind() == KindInt
	}
	return TypeName(v) == typ
}
