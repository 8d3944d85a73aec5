package toon

import (
	"testing"
)

// ============================================================
// Value Tests
// ============================================================

func TestValue_Accessors(t *testing.T) {
	v := Object(
		FieldVal("name", Str("Ada")),
		FieldVal("age", Int(36)),
		FieldVal("ratio", Float(0.5)),
		FieldVal("active", Bool(true)),
		FieldVal("tags", Array(Str("a"), Str("b"))),
	)

	if name, err := v.Get("name").AsStr(); err != nil || name != "Ada" {
		t.Errorf("name = %q, %v", name, err)
	}
	if age, err := v.Get("age").AsInt(); err != nil || age != 36 {
		t.Errorf("age = %d, %v", age, err)
	}
	if _, err := v.Get("age").AsStr(); err == nil {
		t.Error("AsStr on int should fail")
	}
	if n, ok := v.Get("ratio").Number(); !ok || n != 0.5 {
		t.Errorf("ratio = %v, %v", n, ok)
	}
	if b, err := v.Get("active").AsBool(); err != nil || !b {
		t.Errorf("active = %v, %v", b, err)
	}
	if v.Get("missing") != nil {
		t.Error("missing key should return nil")
	}
	if !v.Get("missing").IsNull() {
		t.Error("nil value should report null")
	}
	if got := v.Keys(); len(got) != 5 || got[0] != "name" || got[4] != "tags" {
		t.Errorf("Keys = %v", got)
	}

	tags := v.Get("tags")
	if tags.Len() != 2 {
		t.Fatalf("tags len = %d", tags.Len())
	}
	if _, err := tags.Index(2); err == nil {
		t.Error("Index out of bounds should fail")
	}
	if item, err := tags.Index(1); err != nil || !Equal(item, Str("b")) {
		t.Errorf("Index(1) = %v, %v", item, err)
	}
}

func TestValue_SetKeepsPosition(t *testing.T) {
	v := Object(FieldVal("a", Int(1)), FieldVal("b", Int(2)))
	v.Set("a", Int(10))
	v.Set("c", Int(3))

	want := Object(FieldVal("a", Int(10)), FieldVal("b", Int(2)), FieldVal("c", Int(3)))
	if !Equal(v, want) {
		t.Errorf("Set result = %s, want %s", Encode(v), Encode(want))
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{"null vs nil", Null(), nil, true},
		{"int vs float", Int(1), Float(1), false},
		{"same strings", Str("x"), Str("x"), true},
		{"field order", Object(FieldVal("a", Int(1)), FieldVal("b", Int(2))),
			Object(FieldVal("b", Int(2)), FieldVal("a", Int(1))), false},
		{"nested arrays", Array(Array(Int(1))), Array(Array(Int(1))), true},
		{"array length", Array(Int(1)), Array(Int(1), Int(2)), false},
		{"empty object vs null", Object(), Null(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_ArrayShape(t *testing.T) {
	row := func(kv ...any) *Value {
		obj := Object()
		for i := 0; i < len(kv); i += 2 {
			obj.Set(kv[i].(string), kv[i+1].(*Value))
		}
		return obj
	}

	tests := []struct {
		name string
		arr  *Value
		want Shape
	}{
		{"empty", Array(), ShapeEmpty},
		{"scalars", Array(Int(1), Str("x"), Null(), Bool(false)), ShapeScalars},
		{"table", Array(row("id", Int(1)), row("id", Int(2))), ShapeTable},
		{"table with reordered keys", Array(row("a", Int(1), "b", Int(2)), row("b", Int(3), "a", Int(4))), ShapeTable},
		{"missing key", Array(row("a", Int(1), "b", Int(2)), row("a", Int(3))), ShapeMixed},
		{"extra key", Array(row("a", Int(1)), row("a", Int(3), "b", Int(2))), ShapeMixed},
		{"empty objects", Array(Object(), Object()), ShapeMixed},
		{"objects and scalars", Array(row("a", Int(1)), Int(2)), ShapeMixed},
		{"nested arrays", Array(Array(Int(1))), ShapeMixed},
		{"not an array", Int(1), ShapeMixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.arr.ArrayShape(); got != tt.want {
				t.Errorf("ArrayShape = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValue_TableColumns(t *testing.T) {
	arr := Array(
		Object(FieldVal("id", Int(1)), FieldVal("name", Str("a"))),
		Object(FieldVal("name", Str("b")), FieldVal("id", Int(2))),
	)
	cols, ok := arr.TableColumns()
	if !ok {
		t.Fatal("expected table")
	}
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "name" {
		t.Errorf("columns = %v, want [id name]", cols)
	}
}

func TestValue_MutatorsPanicOnWrongKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Set on array should panic")
		}
	}()
	Array().Set("a", Int(1))
}
