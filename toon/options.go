package toon

import "fmt"

// Options configures the encoder.
type Options struct {
	// Delimiter separates inline array items, table columns and row cells:
	// ',' (default), '|', ';' or '\t'. A non-comma delimiter is declared
	// inside header brackets.
	Delimiter rune

	// Indent is the number of spaces per nesting level (default 2).
	Indent int

	// LengthMarker prefixes counts of nested array and table headers:
	// "" or "#" (key[#3]). Root headers never carry it.
	LengthMarker string

	// Strict makes lossy output an error instead of a diagnostic.
	Strict bool

	// OnDiagnostic receives every lossy-encoding diagnostic.
	OnDiagnostic func(Diagnostic)
}

// DefaultOptions returns the default encoder options.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		Indent:    2,
	}
}

// StrictOptions returns the default options with Strict set.
func StrictOptions() Options {
	opts := DefaultOptions()
	opts.Strict = true
	return opts
}

func (o Options) normalize() Options {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Indent <= 0 {
		o.Indent = 2
	}
	return o
}

// check rejects options whose output the parser cannot read back. Call it
// on normalized options.
func (o Options) check() error {
	if o.Delimiter != ',' && !isDelimiterMarker(o.Delimiter) {
		return fmt.Errorf("toon: unsupported delimiter %q (use ',', '|', ';' or tab)", o.Delimiter)
	}
	if o.LengthMarker != "" && o.LengthMarker != "#" {
		return fmt.Errorf("toon: unsupported length marker %q (use \"#\" or none)", o.LengthMarker)
	}
	return nil
}

// ParseOptions configures the parser.
type ParseOptions struct {
	// Delimiter used when a header does not declare one (default ',').
	Delimiter rune

	// Strict reports quote mismatches and row width mismatches as errors
	// rather than warnings.
	Strict bool
}

// DefaultParseOptions returns the default parser options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Delimiter: ','}
}

func (o ParseOptions) normalize() ParseOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	return o
}

// delimiterMarker returns the header marker that declares d, or "" for comma.
func delimiterMarker(d rune) string {
	if d == ',' {
		return ""
	}
	return string(d)
}

// isDelimiterMarker reports whether r may declare a delimiter in a header.
func isDelimiterMarker(r rune) bool {
	switch r {
	case '|', '\t', ';':
		return true
	}
	return false
}
