package toon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and Value. Object key order is kept in both
// directions; JSON numbers without a fraction or exponent become integers.

// MarshalJSON writes v as compact JSON with object keys in insertion order.
// NaN and infinite floats are written as null.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToJSON writes v as JSON. A non-empty indent pretty-prints.
func ToJSON(v *Value, indent string) ([]byte, error) {
	data, err := v.MarshalJSON()
	if err != nil || indent == "" {
		return data, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v *Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolVal))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.intVal, 10))
	case KindFloat:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			buf.WriteString("null")
			return nil
		}
		data, err := json.Marshal(v.floatVal)
		if err != nil {
			return err
		}
		buf.Write(data)
		// Integral floats keep a fraction so they read back as floats.
		if !bytes.ContainsAny(data, ".eE") {
			buf.WriteString(".0")
		}
	case KindString:
		data, err := json.Marshal(v.strVal)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// FromJSON parses one JSON document into a Value, keeping key order.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("toon: JSON parse error: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("toon: JSON parse error: trailing data after document")
	}
	return v, nil
}

// UnmarshalJSON replaces v with the decoded JSON document.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := FromJSON(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

func readJSON(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return fromJSONNumber(t), nil
	case string:
		return Str(t), nil
	case json.Delim:
		switch t {
		case '[':
			arr := Array()
			for dec.More() {
				item, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		case '{':
			obj := Object()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := readJSON(dec)
				if err != nil {
					return nil, fmt.Errorf("object[%q]: %w", key, err)
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func fromJSONNumber(n json.Number) *Value {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i)
		}
	}
	f, _ := strconv.ParseFloat(s, 64)
	return Float(f)
}

// ============================================================
// Go Values
// ============================================================

// FromGo converts a Go value to a Value. Maps are emitted with keys in
// sorted order; structs and other types go through encoding/json, which
// keeps struct field order.
func FromGo(x any) (*Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case *Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return Float(float64(t)), nil
		}
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Float(float64(t)), nil
		}
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case json.Number:
		return fromJSONNumber(t), nil
	case []any:
		arr := Array()
		for i, item := range t {
			v, err := FromGo(item)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr.items = append(arr.items, v)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := Object()
		for _, k := range keys {
			v, err := FromGo(t[k])
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj.fields = append(obj.fields, Field{Key: k, Value: v})
		}
		return obj, nil
	}

	if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Null(), nil
	}
	data, err := json.Marshal(x)
	if err != nil {
		return nil, fmt.Errorf("toon: unsupported Go value %T: %w", x, err)
	}
	return FromJSON(data)
}

// Interface converts v to plain Go values: map[string]any, []any, int64,
// float64, bool, string and nil. Key order is lost.
func (v *Value) Interface() any {
	switch v.Kind() {
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal
	case KindFloat:
		return v.floatVal
	case KindString:
		return v.strVal
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			out[f.Key] = f.Value.Interface()
		}
		return out
	}
	return nil
}
