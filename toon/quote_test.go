package toon

import (
	"errors"
	"reflect"
	"testing"
)

// ============================================================
// Quoting Tests
// ============================================================

func TestNeedsQuoting(t *testing.T) {
	tests := []struct {
		in    string
		delim rune
		want  bool
	}{
		{"hello", ',', false},
		{"hello world", ',', false},
		{"Ada Lovelace", ',', false},
		{"", ',', true},
		{" padded", ',', true},
		{"padded ", ',', true},
		{"true", ',', true},
		{"false", ',', true},
		{"null", ',', true},
		{"Null", ',', false},
		{"123", ',', true},
		{"-7", ',', true},
		{"1.5", ',', true},
		{"1.", ',', false},
		{"1e5", ',', false},
		{"a,b", ',', true},
		{"a,b", '|', false},
		{"a|b", '|', true},
		{"a;b", ';', true},
		{"x: y", ',', true},
		{"{obj}", ',', true},
		{"[arr]", ',', true},
		{`say "hi"`, ',', true},
		{"line1\nline2", ',', true},
		{"tab\there", ',', true},
		{"#hash", ',', false},
		{`back\slash`, ',', false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NeedsQuoting(tt.in, tt.delim); got != tt.want {
				t.Errorf("NeedsQuoting(%q, %q) = %v, want %v", tt.in, tt.delim, got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a,b", `"a,b"`},
		{"", `""`},
		{`say "hi"`, `"say \"hi\""`},
		{"line1\nline2", `"line1\nline2"`},
		{`C:\new`, `"C:\\new"`},
		{"a\r\tb", `"a\r\tb"`},
	}

	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestQuoteUnquoteIdempotence(t *testing.T) {
	inputs := []string{
		"a,b",
		"x: y",
		"  padded  ",
		"",
		"true",
		"123",
		"line1\nline2",
		`C:\new\table`,
		`\n literal`,
		`ends with \`,
		`"already quoted"`,
		"unicode é ü 日本",
	}

	for _, s := range inputs {
		got, err := Unquote(Quote(s))
		if err != nil {
			t.Errorf("Unquote(Quote(%q)) error: %v", s, err)
			continue
		}
		if got != s {
			t.Errorf("Unquote(Quote(%q)) = %q", s, got)
		}
	}
}

func TestQuoteUnquoteRandom(t *testing.T) {
	rng := newRand(t)
	for i := 0; i < 500; i++ {
		s := randString(rng, 24)
		got, err := Unquote(Quote(s))
		if err != nil || got != s {
			t.Fatalf("round trip of %q = %q, %v", s, got, err)
		}
	}
}

func TestUnquote_Errors(t *testing.T) {
	tests := []string{
		`"unterminated`,
		`"`,
		`bare`,
		`"a" trailing`,
		`"escaped end\"`,
	}

	for _, in := range tests {
		_, err := Unquote(in)
		var qe *QuoteMismatchError
		if !errors.As(err, &qe) {
			t.Errorf("Unquote(%q) error = %v, want *QuoteMismatchError", in, err)
		}
	}
}

func TestUnquote_UnknownEscapeKeptVerbatim(t *testing.T) {
	got, err := Unquote(`"a\qb"`)
	if err != nil {
		t.Fatal(err)
	}
	if got != `a\qb` {
		t.Errorf("got %q, want %q", got, `a\qb`)
	}
}

// ============================================================
// Scalar Parsing Tests
// ============================================================

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		want *Value
	}{
		{"", Null()},
		{"null", Null()},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"42", Int(42)},
		{"-42", Int(-42)},
		{"3.14", Float(3.14)},
		{"-0.5", Float(-0.5)},
		{"3.0", Float(3)},
		{"1e5", Str("1e5")},
		{"1.", Str("1.")},
		{"hello world", Str("hello world")},
		{`"123"`, Str("123")},
		{`"true"`, Str("true")},
		{`""`, Str("")},
		{`"a,b"`, Str("a,b")},
		{"  padded  ", Str("padded")},
		{"99999999999999999999", Float(99999999999999999999)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScalar(tt.in)
			if err != nil {
				t.Fatalf("ParseScalar(%q) error: %v", tt.in, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("ParseScalar(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseScalar_QuoteMismatchKeepsRawText(t *testing.T) {
	got, err := ParseScalar(`"open`)
	var qe *QuoteMismatchError
	if !errors.As(err, &qe) {
		t.Fatalf("expected *QuoteMismatchError, got %v", err)
	}
	if !Equal(got, Str(`"open`)) {
		t.Errorf("value = %#v, want raw text", got)
	}
}

// ============================================================
// Field Splitting Tests
// ============================================================

func TestSplitFields(t *testing.T) {
	tests := []struct {
		in    string
		delim rune
		want  []string
	}{
		{"a,b,c", ',', []string{"a", "b", "c"}},
		{`1,"a,b",c`, ',', []string{"1", `"a,b"`, "c"}},
		{`"x\",y",z`, ',', []string{`"x\",y"`, "z"}},
		{"a|b,c", '|', []string{"a", "b,c"}},
		{"a\tb", '\t', []string{"a", "b"}},
		{"", ',', []string{""}},
		{"a,,b", ',', []string{"a", "", "b"}},
		{" a , b ", ',', []string{" a ", " b "}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := SplitFields(tt.in, tt.delim)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitFields(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
