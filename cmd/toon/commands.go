package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/Neumenon/toon/convert"
	"github.com/Neumenon/toon/internal/log"
	"github.com/Neumenon/toon/toon"
)

func isStdin(name string) bool {
	return name == "" || name == "-"
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if isStdin(name) {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func writeOutput(name string, stdout io.Writer, data []byte) error {
	if isStdin(name) {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(name, data, 0o644)
}

// encoderOptions returns cfg's encoder options with diagnostics logged as
// warnings.
func encoderOptions(cfg *Config) (toon.Options, error) {
	opts, err := cfg.Options()
	if err != nil {
		return opts, err
	}
	opts.OnDiagnostic = func(d toon.Diagnostic) {
		log.W.Ln("lossy output:", d)
	}
	return opts, nil
}

// decodeInput reads any supported format. from overrides detection.
func decodeInput(name, from string, data []byte) (*toon.Value, error) {
	var (
		f   convert.Format
		err error
	)
	if from != "" {
		if f, err = convert.ParseFormat(from); err != nil {
			return nil, err
		}
	} else {
		f = convert.DetectFormat(name, data)
	}
	log.D.F("reading %s as %s", displayName(name), f)

	v, err := convert.Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(name), err)
	}
	return v, nil
}

func displayName(name string) string {
	if isStdin(name) {
		return "<stdin>"
	}
	return name
}

// encodeDocument converts data in any supported format to TOON text.
func encodeDocument(cfg *Config, name, from string, data []byte) ([]byte, error) {
	v, err := decodeInput(name, from, data)
	if err != nil {
		return nil, err
	}
	opts, err := encoderOptions(cfg)
	if err != nil {
		return nil, err
	}
	return convert.Encode(v, convert.FormatTOON, opts)
}

func runEncode(cfg *Config, cmd *encodeCmd, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(cmd.Input, stdin)
	if err != nil {
		return err
	}
	out, err := encodeDocument(cfg, cmd.Input, cmd.From, data)
	if err != nil {
		return err
	}

	if cmd.Compress != "" {
		c, err := convert.ParseCompression(cmd.Compress)
		if err != nil {
			return err
		}
		if out, err = convert.Compress(out, c); err != nil {
			return err
		}
	}
	log.I.F("encoded %s: %d -> %d bytes", displayName(cmd.Input), len(data), len(out))
	return writeOutput(cmd.Output, stdout, out)
}

// parseTOON parses TOON input, logging warnings. Structural errors fail.
func parseTOON(cfg *Config, name string, data []byte) (*toon.Value, error) {
	data, err := convert.Decompress(data)
	if err != nil {
		return nil, err
	}
	popts, err := cfg.ParseOptions()
	if err != nil {
		return nil, err
	}
	r := toon.ParseWithOptions(string(data), popts)
	for _, w := range r.Warnings {
		log.W.Ln(displayName(name)+":", w)
	}
	if r.HasErrors() {
		return nil, fmt.Errorf("%s: %w", displayName(name), r.Err())
	}
	return r.Value, nil
}

func runDecode(cfg *Config, cmd *decodeCmd, stdin io.Reader, stdout io.Writer) error {
	to, err := convert.ParseFormat(cmd.To)
	if err != nil {
		return err
	}
	data, err := readInput(cmd.Input, stdin)
	if err != nil {
		return err
	}
	v, err := parseTOON(cfg, cmd.Input, data)
	if err != nil {
		return err
	}
	opts, err := encoderOptions(cfg)
	if err != nil {
		return err
	}
	out, err := convert.Encode(v, to, opts)
	if err != nil {
		return err
	}
	return writeOutput(cmd.Output, stdout, out)
}

func runFmt(cfg *Config, cmd *fmtCmd, stdin io.Reader, stdout io.Writer) error {
	if cmd.Write && isStdin(cmd.Input) {
		return fmt.Errorf("fmt: --write needs an input file")
	}
	data, err := readInput(cmd.Input, stdin)
	if err != nil {
		return err
	}
	v, err := parseTOON(cfg, cmd.Input, data)
	if err != nil {
		return err
	}
	opts, err := encoderOptions(cfg)
	if err != nil {
		return err
	}
	out, err := convert.Encode(v, convert.FormatTOON, opts)
	if err != nil {
		return err
	}
	if cmd.Write {
		if string(out) == string(data) {
			log.D.F("%s already formatted", cmd.Input)
			return nil
		}
		return os.WriteFile(cmd.Input, out, 0o644)
	}
	_, err = stdout.Write(out)
	return err
}

// loadSchema reads a schema from a JSON or YAML file.
func loadSchema(path string) (*toon.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var s toon.Schema
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%s: invalid schema: %w", path, err)
		}
		return &s, nil
	}
	return toon.ParseSchema(data)
}

func runValidate(cfg *Config, cmd *validateCmd, stdin io.Reader, stdout io.Writer) error {
	schema, err := loadSchema(cmd.Schema)
	if err != nil {
		return err
	}
	data, err := readInput(cmd.Input, stdin)
	if err != nil {
		return err
	}

	var res *toon.ValidationResult
	if f := convert.DetectFormat(cmd.Input, data); f == convert.FormatTOON {
		plain, err := convert.Decompress(data)
		if err != nil {
			return err
		}
		res = toon.ValidateText(string(plain), schema)
	} else {
		v, err := decodeInput(cmd.Input, "", data)
		if err != nil {
			return err
		}
		res = toon.Validate(v, schema)
	}

	for _, e := range res.Errors {
		fmt.Fprintf(stdout, "%s [%s]\n", e.Error(), e.Code)
	}
	if err := res.Err(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: valid\n", displayName(cmd.Input))
	return nil
}

func runSavings(cfg *Config, cmd *savingsCmd, stdin io.Reader, stdout io.Writer) error {
	inputs := cmd.Inputs
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	opts, err := encoderOptions(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%-24s %10s %10s %8s %8s %8s %9s %9s\n",
		"input", "json_b", "toon_b", "json_t", "toon_t", "saved", "json_zst", "toon_zst")
	for _, name := range inputs {
		data, err := readInput(name, stdin)
		if err != nil {
			return err
		}
		v, err := decodeInput(name, "", data)
		if err != nil {
			return err
		}
		s, err := toon.Compare(v, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", displayName(name), err)
		}
		js, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		text, err := toon.EncodeWithOptions(v, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%-24s %10d %10d %8d %8d %7.1f%% %9d %9d\n",
			truncateName(displayName(name), 24), s.JSONBytes, s.TOONBytes, s.JSONTokens, s.TOONTokens, s.Percent,
			convert.CompressedSize(js), convert.CompressedSize([]byte(text)))
	}
	return nil
}

// truncateName shortens s to maxLen bytes, keeping the end so file names
// stay readable.
func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	tail := s[len(s)-maxLen+3:]
	for len(tail) > 0 && !utf8.RuneStart(tail[0]) {
		tail = tail[1:]
	}
	return "..." + tail
}
