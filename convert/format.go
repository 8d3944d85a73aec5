// Package convert moves documents between TOON and the formats it is usually
// fed from: JSON, YAML and TOML. Inputs may be gzip or zstd compressed.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Neumenon/toon/toon"
)

// Format is a document format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatTOML
	FormatTOON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatTOON:
		return "toon"
	default:
		return "unknown"
	}
}

// ParseFormat returns the format with the given name or file extension.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "toon":
		return FormatTOON, nil
	}
	return FormatUnknown, fmt.Errorf("convert: unknown format %q", name)
}

// DetectFormat guesses the format of a document from its file name, then
// from its content. Compression suffixes (.gz, .zst) are ignored. Content
// that is neither valid JSON nor recognisably YAML or TOML is taken as TOON.
func DetectFormat(name string, data []byte) Format {
	base := name
	for _, ext := range []string{".gz", ".zst"} {
		base = strings.TrimSuffix(base, ext)
	}
	if f, err := ParseFormat(filepath.Ext(base)); err == nil {
		return f
	}

	if plain, err := Decompress(data); err == nil {
		data = plain
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return FormatTOON
	}
	if (data[0] == '{' || data[0] == '[') && json.Valid(data) {
		return FormatJSON
	}
	if bytes.HasPrefix(data, []byte("---")) {
		return FormatYAML
	}
	if looksLikeTOML(data) {
		return FormatTOML
	}
	return FormatTOON
}

// looksLikeTOML checks the first significant line for a table header or a
// "key = value" assignment.
func looksLikeTOML(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			return true
		}
		eq := strings.IndexByte(line, '=')
		colon := strings.IndexByte(line, ':')
		return eq > 0 && (colon < 0 || colon > eq)
	}
	return false
}

// Decode reads a document in format f. Compressed input is decompressed
// first. For TOON input the partial value is returned together with any
// structural errors.
func Decode(data []byte, f Format) (*toon.Value, error) {
	data, err := Decompress(data)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatJSON:
		return toon.FromJSON(data)
	case FormatYAML:
		return FromYAML(data)
	case FormatTOML:
		return FromTOML(data)
	case FormatTOON:
		return toon.Decode(string(data))
	}
	return nil, fmt.Errorf("convert: cannot decode format %s", f)
}

// Encode writes v in format f. opts applies to TOON output only. The output
// ends with a newline.
func Encode(v *toon.Value, f Format, opts toon.Options) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := toon.ToJSON(v, "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return ToYAML(v)
	case FormatTOML:
		return ToTOML(v)
	case FormatTOON:
		s, err := toon.EncodeWithOptions(v, opts)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		return []byte(s + "\n"), nil
	}
	return nil, fmt.Errorf("convert: cannot encode format %s", f)
}
