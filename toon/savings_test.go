package toon

import (
	"math"
	"strings"
	"testing"
)

// ============================================================
// Token Estimation Tests
// ============================================================

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 400), 100},
	}

	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%d chars) = %d, want %d", len(tt.in), got, tt.want)
		}
	}
}

func TestEstimateSavings(t *testing.T) {
	v := Object(FieldVal("users", Array(
		Object(FieldVal("id", Int(1)), FieldVal("name", Str("Alice"))),
		Object(FieldVal("id", Int(2)), FieldVal("name", Str("Bob"))),
	)))

	// JSON is 57 bytes (15 tokens); the table is 36 bytes (9 tokens).
	got := EstimateSavings(Encode(v), v)
	if math.Abs(got-40) > 1e-9 {
		t.Errorf("EstimateSavings = %v, want 40", got)
	}

	if got := EstimateSavings(strings.Repeat("x", 100), Int(1)); got != 0 {
		t.Errorf("negative savings should clamp to 0, got %v", got)
	}
}

func TestCompare(t *testing.T) {
	rows := Array()
	for i := 0; i < 50; i++ {
		rows.Append(Object(
			FieldVal("id", Int(int64(i))),
			FieldVal("name", Str("user")),
			FieldVal("active", Bool(i%2 == 0)),
		))
	}
	v := Object(FieldVal("rows", rows))

	s, err := Compare(v, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if s.TOONBytes >= s.JSONBytes {
		t.Errorf("table should be smaller than JSON: %d >= %d", s.TOONBytes, s.JSONBytes)
	}
	if s.Percent < 50 || s.Percent > 100 {
		t.Errorf("Percent = %v, want a large saving", s.Percent)
	}

	if _, err := Compare(Object(FieldVal("x", Array(Array()))), StrictOptions()); err == nil {
		t.Error("strict Compare should surface lossy encoding")
	}
}

// ============================================================
// Format Tests
// ============================================================

func TestFormat(t *testing.T) {
	in := "a:\n    b: 1\n    c[2]: x,y\nd: \"plain\""
	got, err := Format(in, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := "a:\n  b: 1\n  c[2]: x,y\nd: plain"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}

	got, err = Format("t[1|]{a|b}:\n  1|2", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got != "t[1]{a,b}:\n  1,2" {
		t.Errorf("delimiter not normalised: %q", got)
	}

	if _, err := Format("t[3]: a", DefaultOptions()); err == nil {
		t.Error("Format should report structural errors")
	}
}
