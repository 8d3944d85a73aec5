package toon

import (
	"strconv"
	"strings"
)

// Encode converts a value to TOON text with the default options.
//
// Encode never fails: shapes without a TOON form are written through the
// lossy fallback (see EncodeWithOptions).
func Encode(v *Value) string {
	s, _ := EncodeWithOptions(v, DefaultOptions())
	return s
}

// EncodeWithOptions converts a value to TOON text.
//
// Arrays that are neither all-scalar nor a table, table cells holding
// objects or arrays, and NaN/Inf floats have no faithful TOON form. They are
// written anyway (compound items as quoted compact JSON, NaN/Inf as null)
// and each such decision is reported to opts.OnDiagnostic. With
// opts.Strict the first one is returned as an *UnrepresentableShapeError
// and no text is produced.
//
// A delimiter or length marker the parser cannot read back is an error.
func EncodeWithOptions(v *Value, opts Options) (string, error) {
	opts = opts.normalize()
	if err := opts.check(); err != nil {
		return "", err
	}
	e := &encoder{opts: opts}
	e.delim = string(e.opts.Delimiter)

	switch v.Kind() {
	case KindObject:
		e.writeObject(v, 0, "")
	case KindArray:
		// The root header is the first line; rows start below it.
		e.lines = 1
		e.writeArray(v, 0, "", true)
	default:
		e.sb.WriteString(e.cell(v, ""))
	}

	if e.err != nil {
		return "", e.err
	}
	return e.sb.String(), nil
}

type encoder struct {
	sb    strings.Builder
	opts  Options
	delim string
	lines int
	err   error
}

// startLine begins a new output line at the given depth.
func (e *encoder) startLine(depth int) {
	if e.lines > 0 {
		e.sb.WriteByte('\n')
	}
	e.lines++
	e.sb.WriteString(strings.Repeat(" ", depth*e.opts.Indent))
}

func (e *encoder) writeObject(obj *Value, depth int, path string) {
	for _, f := range obj.fields {
		e.startLine(depth)
		e.sb.WriteString(formatKey(f.Key, e.opts.Delimiter))
		fieldPath := joinPath(path, f.Key)

		switch f.Value.Kind() {
		case KindNull:
			e.sb.WriteByte(':')

		case KindObject:
			if f.Value.Len() == 0 {
				e.sb.WriteString(": {}")
				continue
			}
			e.sb.WriteByte(':')
			e.writeObject(f.Value, depth+1, fieldPath)

		case KindArray:
			e.writeArray(f.Value, depth, fieldPath, false)

		default:
			e.sb.WriteString(": ")
			e.sb.WriteString(e.cell(f.Value, fieldPath))
		}
	}
}

// writeArray writes an array header (after the key, if any) and its body.
// Table rows go one level below depth.
func (e *encoder) writeArray(arr *Value, depth int, path string, root bool) {
	e.writeBracket(len(arr.items), root)

	switch arr.ArrayShape() {
	case ShapeEmpty:
		e.sb.WriteByte(':')

	case ShapeScalars:
		e.sb.WriteString(": ")
		e.writeInline(arr.items, path)

	case ShapeTable:
		cols, _ := arr.TableColumns()
		e.sb.WriteByte('{')
		for i, c := range cols {
			if i > 0 {
				e.sb.WriteString(e.delim)
			}
			e.sb.WriteString(formatKey(c, e.opts.Delimiter))
		}
		e.sb.WriteString("}:")
		for i, row := range arr.items {
			e.writeRow(row, cols, depth+1, indexPath(path, i))
		}

	case ShapeMixed:
		e.lossy(path, "array mixes item shapes; items written as strings")
		e.sb.WriteString(": ")
		e.writeInline(arr.items, path)
	}
}

func (e *encoder) writeBracket(n int, root bool) {
	e.sb.WriteByte('[')
	if !root {
		e.sb.WriteString(e.opts.LengthMarker)
	}
	e.sb.WriteString(strconv.Itoa(n))
	e.sb.WriteString(delimiterMarker(e.opts.Delimiter))
	e.sb.WriteByte(']')
}

func (e *encoder) writeInline(items []*Value, path string) {
	for i, item := range items {
		if i > 0 {
			e.sb.WriteString(e.delim)
		}
		e.sb.WriteString(e.cell(item, indexPath(path, i)))
	}
}

// writeRow projects row onto the header columns. Missing fields are null.
func (e *encoder) writeRow(row *Value, cols []string, depth int, path string) {
	e.startLine(depth)
	for i, c := range cols {
		if i > 0 {
			e.sb.WriteString(e.delim)
		}
		val, ok := row.Lookup(c)
		if !ok {
			e.sb.WriteString("null")
			continue
		}
		e.sb.WriteString(e.cell(val, joinPath(path, c)))
	}
}

// cell formats a value that must fit on one line.
func (e *encoder) cell(v *Value, path string) string {
	if v.IsScalar() {
		s, ok := formatScalar(v, e.opts.Delimiter)
		if !ok {
			e.lossy(path, "non-finite float written as null")
		}
		return s
	}
	e.lossy(path, v.Kind().String()+" written as a JSON string")
	data, _ := v.MarshalJSON()
	s, _ := formatScalar(Str(string(data)), e.opts.Delimiter)
	return s
}

func (e *encoder) lossy(path, reason string) {
	err := &UnrepresentableShapeError{Path: path, Reason: reason}
	if e.opts.OnDiagnostic != nil {
		e.opts.OnDiagnostic(Diagnostic{Path: path, Err: err})
	}
	if e.opts.Strict && e.err == nil {
		e.err = err
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
