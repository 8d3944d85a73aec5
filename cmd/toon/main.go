// Command toon converts documents to and from TOON.
//
// Usage:
//
//	toon encode [file]              Convert JSON, YAML, TOML or TOON to TOON
//	toon decode [file] --to json    Convert TOON to JSON, YAML or TOML
//	toon fmt [file] [-w]            Re-indent and canonicalise TOON
//	toon validate -s schema [file]  Check a document against a schema
//	toon savings [files...]         Compare JSON and TOON sizes
//	toon watch file [-o out]        Re-encode a file whenever it changes
//	toon env [--usage]              Print the effective configuration
//
// A file of "-" or no file reads stdin. Compressed input (gzip, zstd) is
// detected from its magic bytes.
//
// Global flags:
//
//	-d, --delimiter      comma, pipe, tab or semicolon
//	--indent             spaces per nesting level
//	--length-marker      prefix for nested array counts, e.g. #
//	--strict             fail on lossy output
//	--log-level          off fatal error warn info debug trace
//	--config             config file (default $XDG_CONFIG_HOME/toon/config.yaml)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"

	"github.com/Neumenon/toon/internal/log"
)

type encodeCmd struct {
	Input    string `arg:"positional" default:"-" help:"input file"`
	From     string `arg:"-f,--from" help:"input format: json, yaml, toml or toon (default: detect)"`
	Output   string `arg:"-o,--output" help:"output file (default: stdout)"`
	Compress string `arg:"--compress" help:"compress the output: gzip or zstd"`
}

type decodeCmd struct {
	Input  string `arg:"positional" default:"-" help:"input file"`
	To     string `arg:"-t,--to" default:"json" help:"output format: json, yaml or toml"`
	Output string `arg:"-o,--output" help:"output file (default: stdout)"`
}

type fmtCmd struct {
	Input string `arg:"positional" default:"-" help:"input file"`
	Write bool   `arg:"-w,--write" help:"write the result back to the input file"`
}

type validateCmd struct {
	Schema string `arg:"-s,--schema,required" help:"schema file (JSON or YAML)"`
	Input  string `arg:"positional" default:"-" help:"input file"`
}

type savingsCmd struct {
	Inputs []string `arg:"positional" help:"input files (default: stdin)"`
}

type watchCmd struct {
	Input  string `arg:"positional,required" help:"file to watch"`
	Output string `arg:"-o,--output" help:"output file (default: stdout)"`
}

type envCmd struct {
	Usage bool `arg:"--usage" help:"describe the environment variables instead"`
}

type args struct {
	Delimiter    string `arg:"-d,--delimiter" help:"field delimiter"`
	Indent       int    `arg:"--indent" help:"spaces per nesting level"`
	LengthMarker string `arg:"--length-marker" help:"prefix for nested array counts"`
	Strict       bool   `arg:"--strict" help:"fail on lossy output and field-level parse problems"`
	LogLevel     string `arg:"--log-level" help:"off fatal error warn info debug trace"`
	Config       string `arg:"--config" help:"config file"`

	Encode   *encodeCmd   `arg:"subcommand:encode" help:"convert a document to TOON"`
	Decode   *decodeCmd   `arg:"subcommand:decode" help:"convert TOON to JSON, YAML or TOML"`
	Fmt      *fmtCmd      `arg:"subcommand:fmt" help:"re-indent and canonicalise TOON"`
	Validate *validateCmd `arg:"subcommand:validate" help:"check a document against a schema"`
	Savings  *savingsCmd  `arg:"subcommand:savings" help:"compare JSON and TOON sizes"`
	Watch    *watchCmd    `arg:"subcommand:watch" help:"re-encode a file whenever it changes"`
	Env      *envCmd      `arg:"subcommand:env" help:"print the effective configuration"`
}

func (args) Description() string {
	return "toon converts documents to and from Token-Oriented Object Notation.\n"
}

// apply overrides cfg with the flags that were given.
func (a *args) apply(cfg *Config) {
	if a.Delimiter != "" {
		cfg.Delimiter = a.Delimiter
	}
	if a.Indent > 0 {
		cfg.Indent = a.Indent
	}
	if a.LengthMarker != "" {
		cfg.LengthMarker = a.LengthMarker
	}
	if a.Strict {
		cfg.Strict = true
	}
	if a.LogLevel != "" {
		cfg.LogLevel = a.LogLevel
	}
}

func main() {
	var a args
	p := arg.MustParse(&a)
	if p.Subcommand() == nil {
		p.Fail("missing subcommand")
	}

	cfg, path, err := LoadConfig(a.Config, nil)
	if err != nil {
		fatal("%v", err)
	}
	a.apply(cfg)
	if !log.SetLevel(cfg.LogLevel) {
		fatal("unknown log level %q", cfg.LogLevel)
	}
	if path != "" {
		log.D.F("loaded config from %s", path)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, &a, cfg, os.Stdin, os.Stdout)
	cancel()
	if err != nil {
		fatal("%v", err)
	}
}

func run(ctx context.Context, a *args, cfg *Config, stdin io.Reader, stdout io.Writer) error {
	switch {
	case a.Encode != nil:
		return runEncode(cfg, a.Encode, stdin, stdout)
	case a.Decode != nil:
		return runDecode(cfg, a.Decode, stdin, stdout)
	case a.Fmt != nil:
		return runFmt(cfg, a.Fmt, stdin, stdout)
	case a.Validate != nil:
		return runValidate(cfg, a.Validate, stdin, stdout)
	case a.Savings != nil:
		return runSavings(cfg, a.Savings, stdin, stdout)
	case a.Watch != nil:
		return runWatch(ctx, cfg, a.Watch, stdout)
	case a.Env != nil:
		if a.Env.Usage {
			PrintHelp(cfg, stdout)
		} else {
			PrintEnv(cfg, stdout)
		}
		return nil
	}
	return fmt.Errorf("no command given")
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "toon: "+format+"\n", args...)
	os.Exit(1)
}
