package toon

import (
	"fmt"
)

// Kind is the kind of a TOON value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindObject
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a TOON value. A nil *Value behaves as Null.
type Value struct {
	kind Kind

	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string

	fields []Field
	items  []*Value
}

// Field is a key/value pair of an object. Objects keep fields in insertion
// order, which is also emission order.
type Field struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Object creates an object from fields, in order.
func Object(fields ...Field) *Value {
	return &Value{kind: KindObject, fields: fields}
}

// Array creates an array from items, in order.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// FieldVal creates a Field for use in Object construction.
func FieldVal(key string, value *Value) Field {
	return Field{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// IsScalar reports whether v is null, bool, number or string.
func (v *Value) IsScalar() bool {
	switch v.Kind() {
	case KindObject, KindArray:
		return false
	default:
		return true
	}
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("toon: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsInt returns the integer value.
func (v *Value) AsInt() (int64, error) {
	if v.Kind() != KindInt {
		return 0, fmt.Errorf("toon: expected int, got %s", v.Kind())
	}
	return v.intVal, nil
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if v.Kind() != KindFloat {
		return 0, fmt.Errorf("toon: expected float, got %s", v.Kind())
	}
	return v.floatVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v.Kind() != KindString {
		return "", fmt.Errorf("toon: expected string, got %s", v.Kind())
	}
	return v.strVal, nil
}

// Number returns a numeric value as float64 if int or float.
func (v *Value) Number() (float64, bool) {
	switch v.Kind() {
	case KindInt:
		return float64(v.intVal), true
	case KindFloat:
		return v.floatVal, true
	default:
		return 0, false
	}
}

// Fields returns the fields of an object, or nil.
func (v *Value) Fields() []Field {
	if v.Kind() != KindObject {
		return nil
	}
	return v.fields
}

// Items returns the items of an array, or nil.
func (v *Value) Items() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.items
}

// Keys returns the keys of an object in order.
func (v *Value) Keys() []string {
	if v.Kind() != KindObject {
		return nil
	}
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the length of an array or object.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.fields)
	default:
		return 0
	}
}

// Get returns a field value by key, or nil if absent.
func (v *Value) Get(key string) *Value {
	f, ok := v.Lookup(key)
	if !ok {
		return nil
	}
	return f
}

// Lookup returns a field value by key and whether the key is present.
func (v *Value) Lookup(key string) (*Value, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("toon: not an array")
	}
	if i < 0 || i >= len(v.items) {
		return nil, fmt.Errorf("toon: index %d out of bounds (len=%d)", i, len(v.items))
	}
	return v.items[i], nil
}

// ============================================================
// Mutators
// ============================================================

// Set sets a field on an object. An existing key keeps its position.
func (v *Value) Set(key string, val *Value) {
	if v == nil || v.kind != KindObject {
		panic("toon: cannot set on non-object")
	}
	for i := range v.fields {
		if v.fields[i].Key == key {
			v.fields[i].Value = val
			return
		}
	}
	v.fields = append(v.fields, Field{Key: key, Value: val})
}

// Append adds an item to an array.
func (v *Value) Append(val *Value) {
	if v == nil || v.kind != KindArray {
		panic("toon: cannot append to non-array")
	}
	v.items = append(v.items, val)
}

// ============================================================
// Array Shapes
// ============================================================

// Shape classifies how an array can be written.
type Shape uint8

const (
	// ShapeEmpty is an array with no items.
	ShapeEmpty Shape = iota
	// ShapeScalars is an array whose items are all null or scalar.
	ShapeScalars
	// ShapeTable is a non-empty list of objects sharing the first object's key set.
	ShapeTable
	// ShapeMixed is anything else; it has no lossless TOON form.
	ShapeMixed
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeScalars:
		return "scalars"
	case ShapeTable:
		return "table"
	default:
		return "mixed"
	}
}

// ArrayShape classifies an array. Non-arrays report ShapeMixed.
func (v *Value) ArrayShape() Shape {
	if v.Kind() != KindArray {
		return ShapeMixed
	}
	if len(v.items) == 0 {
		return ShapeEmpty
	}
	if _, ok := tableColumns(v.items); ok {
		return ShapeTable
	}
	for _, item := range v.items {
		if !item.IsScalar() {
			return ShapeMixed
		}
	}
	return ShapeScalars
}

// TableColumns returns the header columns of a table-shaped array: the key
// order of the first row.
func (v *Value) TableColumns() ([]string, bool) {
	if v.Kind() != KindArray {
		return nil, false
	}
	return tableColumns(v.items)
}

func tableColumns(items []*Value) ([]string, bool) {
	if len(items) == 0 || items[0].Kind() != KindObject {
		return nil, false
	}
	cols := items[0].Keys()
	if len(cols) == 0 {
		return nil, false
	}
	set := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		set[c] = struct{}{}
	}
	if len(set) != len(cols) {
		return nil, false
	}
	for _, item := range items[1:] {
		if item.Kind() != KindObject || len(item.fields) != len(cols) {
			return nil, false
		}
		for _, f := range item.fields {
			if _, ok := set[f.Key]; !ok {
				return nil, false
			}
		}
	}
	return cols, true
}

// ============================================================
// Equality
// ============================================================

// Equal reports whether a and b are structurally equal. Object field order
// is significant; an int never equals a float.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindInt:
		return a.intVal == b.intVal
	case KindFloat:
		return a.floatVal == b.floatVal
	case KindString:
		return a.strVal == b.strVal
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Key != b.fields[i].Key || !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
