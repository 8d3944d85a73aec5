package toon

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ============================================================
// Quoting
// ============================================================

// NeedsQuoting reports whether s must be quoted to read back as the same
// string when delim is the active delimiter.
func NeedsQuoting(s string, delim rune) bool {
	if s == "" {
		return true
	}
	if s != strings.TrimSpace(s) {
		return true
	}
	if s == "true" || s == "false" || s == "null" {
		return true
	}
	if isIntLiteral(s) || isFloatLiteral(s) {
		return true
	}
	for _, r := range s {
		switch r {
		case ':', '{', '}', '[', ']', '"', '\n', '\r', '\t':
			return true
		}
		if r == delim {
			return true
		}
	}
	return false
}

// Quote wraps s in double quotes, escaping backslash, quote, newline,
// carriage return and tab in a single pass.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	writeEscaped(&sb, s)
	sb.WriteByte('"')
	return sb.String()
}

func writeEscaped(sb *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
}

// Unquote is the inverse of Quote. s must start with a quote and end with
// the matching unescaped quote; otherwise a *QuoteMismatchError is
// returned. Unknown escape sequences are kept verbatim.
func Unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' {
		return "", &QuoteMismatchError{Text: s}
	}
	end := closingQuote(s)
	if end != len(s)-1 {
		return "", &QuoteMismatchError{Text: s}
	}

	inner := s[1:end]
	if strings.IndexByte(inner, '\\') < 0 {
		return inner, nil
	}

	var sb strings.Builder
	sb.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' || i+1 >= len(inner) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch next := inner[i]; next {
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(next)
		}
	}
	return sb.String(), nil
}

// closingQuote returns the index of the quote closing the one at s[0], or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// ============================================================
// Scalar Formatting
// ============================================================

// formatScalar writes a scalar in its TOON form. ok is false when the
// value could not be written faithfully.
func formatScalar(v *Value, delim rune) (s string, ok bool) {
	switch v.Kind() {
	case KindNull:
		return "null", true
	case KindBool:
		if v.boolVal {
			return "true", true
		}
		return "false", true
	case KindInt:
		return strconv.FormatInt(v.intVal, 10), true
	case KindFloat:
		return formatFloat(v.floatVal)
	case KindString:
		if NeedsQuoting(v.strVal, delim) {
			return Quote(v.strVal), true
		}
		return v.strVal, true
	}
	return "", false
}

// formatFloat keeps a decimal point so the value reads back as a float.
// NaN and infinities have no literal and are written as null.
func formatFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null", false
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, true
}

// formatKey writes an object key or column name.
func formatKey(k string, delim rune) string {
	if NeedsQuoting(k, delim) {
		return Quote(k)
	}
	return k
}

// ============================================================
// Scalar Parsing
// ============================================================

// ParseScalar parses one trimmed field. Empty text and null are Null;
// true/false are booleans; -?digits is an integer; -?digits.digits is a
// float; a quoted string is unescaped; anything else is a bare string.
// A field with an unterminated quote is returned as a raw string together
// with a *QuoteMismatchError.
func ParseScalar(s string) (*Value, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}

	if isIntLiteral(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(n), nil
		}
		// Out of int64 range: keep the magnitude as a float.
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), nil
		}
		return Str(s), nil
	}
	if isFloatLiteral(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), nil
		}
		return Str(s), nil
	}

	if s[0] == '"' {
		str, err := Unquote(s)
		if err != nil {
			return Str(s), err
		}
		return Str(str), nil
	}
	return Str(s), nil
}

// isIntLiteral matches -?[0-9]+.
func isIntLiteral(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	return s != "" && allDigits(s)
}

// isFloatLiteral matches -?[0-9]+\.[0-9]+.
func isFloatLiteral(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return false
	}
	return allDigits(s[:dot]) && allDigits(s[dot+1:])
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ============================================================
// Field Splitting
// ============================================================

// SplitFields splits s on delim, ignoring delimiters inside quoted fields.
// Fields are returned untrimmed.
func SplitFields(s string, delim rune) []string {
	var fields []string
	start := 0
	inQuotes := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\\' && inQuotes:
			i += size
			if i < len(s) {
				_, next := utf8.DecodeRuneInString(s[i:])
				i += next
			}
			continue
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, s[start:i])
			start = i + size
		}
		i += size
	}
	return append(fields, s[start:])
}

// indexUnquoted returns the index of the first b outside quotes, or -1.
func indexUnquoted(s string, b byte) int {
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && inQuotes:
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == b && !inQuotes:
			return i
		}
	}
	return -1
}
