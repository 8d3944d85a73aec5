package toon

import (
	"fmt"
	"strings"
)

// StructuralError reports a broken document structure: an indentation that
// skips or misses a level, or a header count that does not match the lines
// that follow it. The affected node is dropped or replaced by null.
type StructuralError struct {
	Line int
	Msg  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("toon: line %d: %s", e.Line, e.Msg)
}

// QuoteMismatchError reports an opening quote with no closing quote before
// the end of the field. The field is kept as raw text.
type QuoteMismatchError struct {
	Line int
	Text string
}

func (e *QuoteMismatchError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("toon: line %d: unterminated quote in %q", e.Line, e.Text)
	}
	return fmt.Sprintf("toon: unterminated quote in %q", e.Text)
}

// UnrepresentableShapeError reports a value that was written lossily.
type UnrepresentableShapeError struct {
	Path   string
	Reason string
}

func (e *UnrepresentableShapeError) Error() string {
	if e.Path == "" {
		return "toon: " + e.Reason
	}
	return fmt.Sprintf("toon: %s: %s", e.Path, e.Reason)
}

// SchemaValidationError lists the fields that failed validation.
type SchemaValidationError struct {
	Fields []string
}

func (e *SchemaValidationError) Error() string {
	return "toon: schema validation failed: " + strings.Join(e.Fields, ", ")
}

// Diagnostic is emitted by the encoder for each lossy decision.
type Diagnostic struct {
	Path string
	Err  error
}

func (d Diagnostic) String() string {
	return d.Err.Error()
}
