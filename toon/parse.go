package toon

import (
	"errors"
	"fmt"
	"strings"
)

// ParseResult contains the parsed value and any errors/warnings.
//
// Value is always usable: nodes that failed to parse are replaced by null or
// dropped, and the rest of the document is kept.
type ParseResult struct {
	Value    *Value
	Errors   []error // *StructuralError, and field errors in strict mode
	Warnings []error // recovered field-level problems
}

// HasErrors returns true if there were any errors.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err joins the errors, or returns nil.
func (r *ParseResult) Err() error {
	return errors.Join(r.Errors...)
}

// Parse parses TOON text with the default options.
func Parse(text string) *ParseResult {
	return ParseWithOptions(text, DefaultParseOptions())
}

// Decode parses TOON text and returns the (possibly partial) value together
// with the joined structural errors.
func Decode(text string) (*Value, error) {
	r := Parse(text)
	return r.Value, r.Err()
}

// ParseWithOptions parses TOON text.
func ParseWithOptions(text string, opts ParseOptions) *ParseResult {
	p := newParser(text, opts)
	value := p.parseDocument()
	return &ParseResult{
		Value:    value,
		Errors:   p.errors,
		Warnings: p.warnings,
	}
}

// frame is an open object on the parser stack.
type frame struct {
	obj    *Value
	indent int    // indent of the line that opened it; -1 for the root
	child  int    // indent of its children; -1 until the first child is read
	parent int    // stack index of the enclosing frame; -1 for the root
	key    string // key under which obj is stored in the parent
}

type parser struct {
	lines []string
	pos   int
	opts  ParseOptions
	rules []Rule

	stack []frame
	unit  int // indentation step, learned from the first nested object

	errors   []error
	warnings []error
}

func newParser(text string, opts ParseOptions) *parser {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	root := Object()
	return &parser{
		lines: lines,
		opts:  opts.normalize(),
		rules: Grammar(),
		stack: []frame{{obj: root, indent: -1, child: -1, parent: -1}},
	}
}

func (p *parser) classify(i int) Line {
	line := classifyWith(p.rules, p.lines[i], p.opts.Delimiter)
	line.Num = i + 1
	return line
}

// parseDocument handles the root forms (array, single scalar) and otherwise
// reads the document as an object.
func (p *parser) parseDocument() *Value {
	first := p.nextContent(0)
	if first < 0 {
		return p.stack[0].obj
	}

	line := p.classify(first)
	switch {
	case (line.Kind == LineTableHeader || line.Kind == LineArrayHeader) && !line.Keyed:
		p.pos = first + 1
		var v *Value
		if line.Kind == LineTableHeader {
			v = p.parseTable(line)
		} else {
			v = p.parseArray(line)
		}
		if next := p.nextContent(p.pos); next >= 0 {
			p.structural(next+1, "unexpected content after root array")
		}
		return v

	case line.Kind == LineText && p.nextContent(first+1) < 0:
		return p.scalar(line.Text, line.Num)
	}

	p.pos = first
	for p.step() {
	}
	p.popTo(0)
	return p.stack[0].obj
}

// nextContent returns the index of the first non-blank line at or after i,
// or -1.
func (p *parser) nextContent(i int) int {
	for ; i < len(p.lines); i++ {
		if strings.TrimSpace(p.lines[i]) != "" {
			return i
		}
	}
	return -1
}

// step consumes one line (and, for headers, the block that belongs to it).
// It returns false at end of input.
func (p *parser) step() bool {
	if p.pos >= len(p.lines) {
		return false
	}
	line := p.classify(p.pos)
	if line.Kind == LineBlank {
		p.pos++
		return true
	}

	p.popTo(line.Indent)
	top := len(p.stack) - 1
	if !p.checkIndent(top, line) {
		p.pos++
		p.skipDeeper(line.Indent)
		return true
	}
	p.pos++

	obj := p.stack[top].obj
	switch line.Kind {
	case LineTableHeader:
		if !line.Keyed {
			p.structural(line.Num, "root table header inside an object")
			p.skipDeeper(line.Indent)
			return true
		}
		obj.Set(line.Key, p.parseTable(line))

	case LineArrayHeader:
		if !line.Keyed {
			p.structural(line.Num, "root array header inside an object")
			p.skipDeeper(line.Indent)
			return true
		}
		obj.Set(line.Key, p.parseArray(line))

	case LineObjectKey:
		child := Object()
		obj.Set(line.Key, child)
		p.stack = append(p.stack, frame{
			obj:    child,
			indent: line.Indent,
			child:  -1,
			parent: top,
			key:    line.Key,
		})

	case LineKeyValue:
		obj.Set(line.Key, p.parseFieldValue(line))

	default:
		p.structural(line.Num, fmt.Sprintf("unexpected line %q", line.Text))
		p.skipDeeper(line.Indent)
	}
	return true
}

// popTo closes every frame opened at an indent >= indent. A closed object
// that received no fields was a "key:" line with no value and becomes null.
func (p *parser) popTo(indent int) {
	for len(p.stack) > 1 {
		f := p.stack[len(p.stack)-1]
		if f.indent < indent {
			return
		}
		p.stack = p.stack[:len(p.stack)-1]
		if len(f.obj.fields) == 0 {
			p.stack[f.parent].obj.Set(f.key, Null())
		}
	}
}

// checkIndent enforces that a line sits exactly at the child level of the
// frame it belongs to.
func (p *parser) checkIndent(top int, line Line) bool {
	f := &p.stack[top]
	if f.child < 0 {
		if f.indent >= 0 {
			step := line.Indent - f.indent
			if p.unit == 0 {
				p.unit = step
			} else if step > p.unit {
				p.structural(line.Num, fmt.Sprintf("indentation skips a level (expected %d spaces, got %d)",
					f.indent+p.unit, line.Indent))
				return false
			}
		}
		f.child = line.Indent
		return true
	}
	switch {
	case line.Indent == f.child:
		return true
	case line.Indent > f.child:
		p.structural(line.Num, fmt.Sprintf("indentation skips a level (expected %d spaces, got %d)",
			f.child, line.Indent))
	default:
		p.structural(line.Num, fmt.Sprintf("indentation of %d spaces matches no open level", line.Indent))
	}
	return false
}

// skipDeeper advances past the lines nested below indent.
func (p *parser) skipDeeper(indent int) {
	for p.pos < len(p.lines) {
		raw := p.lines[p.pos]
		if strings.TrimSpace(raw) != "" && countIndent(raw) <= indent {
			return
		}
		p.pos++
	}
}

// block collects up to max non-blank lines nested below indent.
func (p *parser) block(indent, max int) (texts []string, nums []int) {
	for len(texts) < max && p.pos < len(p.lines) {
		raw := p.lines[p.pos]
		if strings.TrimSpace(raw) == "" {
			p.pos++
			continue
		}
		if countIndent(raw) <= indent {
			break
		}
		texts = append(texts, strings.TrimSpace(raw))
		nums = append(nums, p.pos+1)
		p.pos++
	}
	return texts, nums
}

// overflow reports whether more nested lines follow a counted block, and
// skips them.
func (p *parser) overflow(indent int) bool {
	next := p.nextContent(p.pos)
	if next < 0 || countIndent(p.lines[next]) <= indent {
		return false
	}
	p.skipDeeper(indent)
	return true
}

// parseTable reads exactly line.Count rows below the header.
func (p *parser) parseTable(line Line) *Value {
	rows, nums := p.block(line.Indent, line.Count)
	if len(rows) < line.Count {
		p.structural(line.Num, fmt.Sprintf("table %s declares %d rows, found %d",
			describe(line), line.Count, len(rows)))
		return Null()
	}
	if p.overflow(line.Indent) {
		p.structural(line.Num, fmt.Sprintf("table %s declares %d rows, found more",
			describe(line), line.Count))
		return Null()
	}

	table := Array()
	for i, row := range rows {
		table.items = append(table.items, p.parseRow(row, nums[i], line))
	}
	return table
}

// parseRow splits a row into the header's columns. Missing cells are null;
// extra cells are dropped.
func (p *parser) parseRow(text string, num int, line Line) *Value {
	cells := SplitFields(text, line.Delimiter)
	if len(cells) != len(line.Columns) {
		p.field(&StructuralError{
			Line: num,
			Msg:  fmt.Sprintf("row has %d fields, expected %d", len(cells), len(line.Columns)),
		})
	}
	row := Object()
	for i, col := range line.Columns {
		v := Null()
		if i < len(cells) {
			v = p.scalar(cells[i], num)
		}
		row.Set(col, v)
	}
	return row
}

// parseArray reads inline items, or line.Count item lines below the header.
func (p *parser) parseArray(line Line) *Value {
	arr := Array()
	if line.Value != "" {
		for _, cell := range SplitFields(line.Value, line.Delimiter) {
			arr.items = append(arr.items, p.scalar(cell, line.Num))
		}
		if len(arr.items) != line.Count {
			p.structural(line.Num, fmt.Sprintf("array %s declares %d items, found %d",
				describe(line), line.Count, len(arr.items)))
			return Null()
		}
		return arr
	}

	texts, nums := p.block(line.Indent, line.Count)
	if len(texts) < line.Count {
		p.structural(line.Num, fmt.Sprintf("array %s declares %d items, found %d",
			describe(line), line.Count, len(texts)))
		return Null()
	}
	if p.overflow(line.Indent) {
		p.structural(line.Num, fmt.Sprintf("array %s declares %d items, found more",
			describe(line), line.Count))
		return Null()
	}
	for i, t := range texts {
		arr.items = append(arr.items, p.scalar(t, nums[i]))
	}
	return arr
}

// parseFieldValue parses the value of a key-value line. Besides scalars it
// accepts "{}" and "[]" and the header forms "[N]: a,b" and "[N]{cols}:"
// written after the colon.
func (p *parser) parseFieldValue(line Line) *Value {
	switch line.Value {
	case "{}":
		return Object()
	case "[]":
		return Array()
	}
	if strings.HasPrefix(line.Value, "[") {
		inner := classifyWith(p.rules, line.Value, p.opts.Delimiter)
		if !inner.Keyed && (inner.Kind == LineTableHeader || inner.Kind == LineArrayHeader) {
			inner.Key, inner.Keyed = line.Key, true
			inner.Indent, inner.Num = line.Indent, line.Num
			if inner.Kind == LineTableHeader {
				return p.parseTable(inner)
			}
			return p.parseArray(inner)
		}
	}
	return p.scalar(line.Value, line.Num)
}

func (p *parser) scalar(text string, num int) *Value {
	v, err := ParseScalar(text)
	if err != nil {
		var qe *QuoteMismatchError
		if errors.As(err, &qe) {
			qe.Line = num
		}
		p.field(err)
	}
	return v
}

func (p *parser) structural(num int, msg string) {
	p.errors = append(p.errors, &StructuralError{Line: num, Msg: msg})
}

// field records a recovered field-level problem.
func (p *parser) field(err error) {
	if p.opts.Strict {
		p.errors = append(p.errors, err)
		return
	}
	p.warnings = append(p.warnings, err)
}

func describe(line Line) string {
	if !line.Keyed {
		return "(root)"
	}
	return fmt.Sprintf("%q", line.Key)
}
