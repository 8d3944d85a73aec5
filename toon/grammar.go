package toon

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ============================================================
// Line Grammar
// ============================================================
//
// Every input line is classified by the first matching rule of an ordered
// rule list:
//
//   blank                 (whitespace only)
//   table-header          key[N]{col1,col2}:     or root [N]{col1,col2}:
//   marked-table-header   key: #N{col1,col2}:
//   array-header          key[N]: v1,v2          or root [N]: v1,v2
//   object-key            key:
//   key-value             key: value
//   text                  anything else (table rows, list items, scalars)
//
// Header counts may carry a length marker ([#N]) and a delimiter
// declaration ([N|], [N;], [N<TAB>]).

// LineKind is the grammatical class of a line.
type LineKind uint8

const (
	LineBlank LineKind = iota
	LineTableHeader
	LineArrayHeader
	LineObjectKey
	LineKeyValue
	LineText
)

// String returns the kind name.
func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineTableHeader:
		return "table-header"
	case LineArrayHeader:
		return "array-header"
	case LineObjectKey:
		return "object-key"
	case LineKeyValue:
		return "key-value"
	case LineText:
		return "text"
	default:
		return "unknown"
	}
}

// Line is a classified input line.
type Line struct {
	Kind LineKind
	Rule string // name of the matching rule
	Num  int    // 1-based line number, 0 when unknown

	Indent int    // leading whitespace width
	Text   string // line without surrounding whitespace

	Key   string // object key, table or array name
	Keyed bool   // false for root headers

	Count     int      // declared item or row count
	Delimiter rune     // delimiter in effect for this header
	Columns   []string // table columns
	Value     string   // inline values of an array header, or the value of a key-value line
}

// Rule is one named production of the line grammar.
type Rule struct {
	Name  string
	Kind  LineKind
	Match func(text string, delim rune) (Line, bool)
}

// Grammar returns the line rules in priority order.
func Grammar() []Rule {
	return []Rule{
		{Name: "blank", Kind: LineBlank, Match: matchBlank},
		{Name: "table-header", Kind: LineTableHeader, Match: matchTableHeader},
		{Name: "marked-table-header", Kind: LineTableHeader, Match: matchMarkedTableHeader},
		{Name: "array-header", Kind: LineArrayHeader, Match: matchArrayHeader},
		{Name: "object-key", Kind: LineObjectKey, Match: matchObjectKey},
		{Name: "key-value", Kind: LineKeyValue, Match: matchKeyValue},
		{Name: "text", Kind: LineText, Match: matchText},
	}
}

// Classify classifies one raw line. delim is used to split header columns
// when the header does not declare its own delimiter.
func Classify(raw string, delim rune) Line {
	return classifyWith(Grammar(), raw, delim)
}

func classifyWith(rules []Rule, raw string, delim rune) Line {
	if delim == 0 {
		delim = ','
	}
	text := strings.TrimSpace(raw)
	indent := countIndent(raw)
	for _, r := range rules {
		if line, ok := r.Match(text, delim); ok {
			line.Kind = r.Kind
			line.Rule = r.Name
			line.Indent = indent
			line.Text = text
			return line
		}
	}
	return Line{Kind: LineText, Rule: "text", Indent: indent, Text: text}
}

// countIndent returns the width of the leading spaces and tabs.
func countIndent(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func matchBlank(text string, _ rune) (Line, bool) {
	return Line{}, text == ""
}

func matchText(string, rune) (Line, bool) {
	return Line{}, true
}

func matchTableHeader(text string, delim rune) (Line, bool) {
	h, ok := scanHeader(text)
	if !ok || !strings.HasPrefix(h.rest, "{") {
		return Line{}, false
	}
	if h.delim != 0 {
		delim = h.delim
	}
	cols, ok := scanColumns(h.rest, delim)
	if !ok {
		return Line{}, false
	}
	return Line{Key: h.key, Keyed: h.keyed, Count: h.count, Delimiter: delim, Columns: cols}, true
}

// matchMarkedTableHeader accepts "key: #N{cols}:", the table form written by
// earlier encoders.
func matchMarkedTableHeader(text string, delim rune) (Line, bool) {
	colon := indexUnquoted(text, ':')
	if colon <= 0 {
		return Line{}, false
	}
	key, ok := parseKey(text[:colon])
	if !ok {
		return Line{}, false
	}
	rest := strings.TrimSpace(text[colon+1:])
	if !strings.HasPrefix(rest, "#") {
		return Line{}, false
	}
	count, n := scanDigits(rest[1:])
	if n == 0 {
		return Line{}, false
	}
	rest = rest[1+n:]
	if r, size := utf8.DecodeRuneInString(rest); isDelimiterMarker(r) {
		delim = r
		rest = rest[size:]
	}
	cols, ok := scanColumns(rest, delim)
	if !ok {
		return Line{}, false
	}
	return Line{Key: key, Keyed: true, Count: count, Delimiter: delim, Columns: cols}, true
}

func matchArrayHeader(text string, delim rune) (Line, bool) {
	h, ok := scanHeader(text)
	if !ok || !strings.HasPrefix(h.rest, ":") {
		return Line{}, false
	}
	if h.delim != 0 {
		delim = h.delim
	}
	return Line{
		Key:       h.key,
		Keyed:     h.keyed,
		Count:     h.count,
		Delimiter: delim,
		Value:     strings.TrimSpace(h.rest[1:]),
	}, true
}

func matchObjectKey(text string, _ rune) (Line, bool) {
	colon := indexUnquoted(text, ':')
	if colon < 0 || colon != len(text)-1 {
		return Line{}, false
	}
	key, ok := parseKey(text[:colon])
	if !ok {
		return Line{}, false
	}
	return Line{Key: key, Keyed: true}, true
}

func matchKeyValue(text string, _ rune) (Line, bool) {
	colon := indexUnquoted(text, ':')
	if colon < 0 || colon == len(text)-1 {
		return Line{}, false
	}
	key, ok := parseKey(text[:colon])
	if !ok {
		return Line{}, false
	}
	return Line{Key: key, Keyed: true, Value: strings.TrimSpace(text[colon+1:])}, true
}

// parseKey reads a bare or quoted key.
func parseKey(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if s[0] == '"' {
		key, err := Unquote(s)
		if err != nil {
			return "", false
		}
		return key, true
	}
	return s, true
}

// header is the "key[N]" prefix shared by table and array headers.
type header struct {
	key   string
	keyed bool
	count int
	delim rune
	rest  string // text after ']'
}

func scanHeader(text string) (header, bool) {
	var h header
	var i int

	switch {
	case strings.HasPrefix(text, "\""):
		end := closingQuote(text)
		if end < 0 {
			return h, false
		}
		key, err := Unquote(text[:end+1])
		if err != nil {
			return h, false
		}
		h.key, h.keyed = key, true
		i = end + 1
	default:
		i = strings.IndexByte(text, '[')
		if i < 0 {
			return h, false
		}
		key := strings.TrimSpace(text[:i])
		if strings.ContainsAny(key, ":{}]\"") {
			return h, false
		}
		h.key, h.keyed = key, key != ""
	}

	if i >= len(text) || text[i] != '[' {
		return h, false
	}
	i++
	if i < len(text) && text[i] == '#' {
		i++
	}
	count, n := scanDigits(text[i:])
	if n == 0 {
		return h, false
	}
	h.count = count
	i += n
	if r, size := utf8.DecodeRuneInString(text[i:]); isDelimiterMarker(r) {
		h.delim = r
		i += size
	}
	if i >= len(text) || text[i] != ']' {
		return h, false
	}
	h.rest = text[i+1:]
	return h, true
}

// scanColumns reads "{c1,c2,...}:" which must end the line.
func scanColumns(rest string, delim rune) ([]string, bool) {
	if !strings.HasPrefix(rest, "{") {
		return nil, false
	}
	end := indexUnquoted(rest, '}')
	if end < 0 || rest[end+1:] != ":" {
		return nil, false
	}
	inner := rest[1:end]
	if strings.TrimSpace(inner) == "" {
		return nil, false
	}
	parts := SplitFields(inner, delim)
	cols := make([]string, len(parts))
	for i, p := range parts {
		col, ok := parseKey(p)
		if !ok {
			return nil, false
		}
		cols[i] = col
	}
	return cols, true
}

func scanDigits(s string) (int, int) {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, 0
	}
	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return 0, 0
	}
	return v, n
}
