package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"go-simpler.org/env"
	"gopkg.in/yaml.v3"

	"github.com/Neumenon/toon/toon"
)

// configFile is the config path relative to the XDG config directories.
const configFile = "toon/config.yaml"

// Config holds the settings shared by every subcommand. Values come from the
// command line, then the environment, then the config file, then defaults.
type Config struct {
	Delimiter    string `env:"TOON_DELIMITER" yaml:"delimiter" usage:"field delimiter: comma, pipe, tab or semicolon"`
	Indent       int    `env:"TOON_INDENT" yaml:"indent" usage:"spaces per nesting level"`
	LengthMarker string `env:"TOON_LENGTH_MARKER" yaml:"length_marker" usage:"prefix written before nested array counts, e.g. #"`
	Strict       bool   `env:"TOON_STRICT" yaml:"strict" usage:"fail on lossy output and field-level parse problems"`
	LogLevel     string `env:"TOON_LOG_LEVEL" yaml:"log_level" usage:"log level: off fatal error warn info debug trace"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Delimiter: ",",
		Indent:    2,
		LogLevel:  "info",
	}
}

// Env is a set of environment variables that can stand in for the process
// environment.
type Env map[string]string

// LookupEnv returns the value of key.
func (e Env) LookupEnv(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// LoadConfig builds the configuration from the defaults, the config file at
// path and the environment src. An empty path searches the XDG config
// directories and a missing file there is not an error. A nil src reads the
// process environment. The path of the file that was read, if any, is
// returned.
func LoadConfig(path string, src env.Source) (*Config, string, error) {
	cfg := DefaultConfig()

	if path == "" {
		found, err := xdg.SearchConfigFile(configFile)
		if err == nil {
			path = found
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, "", fmt.Errorf("config: %s: %w", path, err)
		}
	}

	opts := &env.Options{SliceSep: ","}
	if src != nil {
		opts.Source = src
	}
	if err := env.Load(cfg, opts); err != nil {
		return nil, "", fmt.Errorf("config: %w", err)
	}
	return cfg, path, nil
}

// Options returns the encoder options for cfg.
func (c *Config) Options() (toon.Options, error) {
	d, err := parseDelimiter(c.Delimiter)
	if err != nil {
		return toon.Options{}, err
	}
	if c.Indent < 0 {
		return toon.Options{}, fmt.Errorf("config: indent must not be negative, got %d", c.Indent)
	}
	if c.LengthMarker != "" && c.LengthMarker != "#" {
		return toon.Options{}, fmt.Errorf("config: unsupported length marker %q, use # or nothing", c.LengthMarker)
	}
	return toon.Options{
		Delimiter:    d,
		Indent:       c.Indent,
		LengthMarker: c.LengthMarker,
		Strict:       c.Strict,
	}, nil
}

// ParseOptions returns the parser options for cfg.
func (c *Config) ParseOptions() (toon.ParseOptions, error) {
	d, err := parseDelimiter(c.Delimiter)
	if err != nil {
		return toon.ParseOptions{}, err
	}
	return toon.ParseOptions{Delimiter: d, Strict: c.Strict}, nil
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", ",", "comma":
		return ',', nil
	case "|", "pipe":
		return '|', nil
	case "\t", `\t`, "tab":
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	}
	return 0, fmt.Errorf("config: unsupported delimiter %q", s)
}

// PrintEnv writes cfg as a shell script of environment assignments.
func PrintEnv(cfg *Config, w io.Writer) {
	t := reflect.TypeOf(*cfg)
	v := reflect.ValueOf(*cfg)
	for i := 0; i < t.NumField(); i++ {
		k := t.Field(i).Tag.Get("env")
		if k == "" {
			continue
		}
		val := fmt.Sprint(v.Field(i).Interface())
		fmt.Fprintf(w, "%s=%s\n", k, shellQuote(val))
	}
}

// PrintHelp writes the environment variables that configure toon.
func PrintHelp(cfg *Config, w io.Writer) {
	fmt.Fprintf(w, "Environment variables that configure toon:\n\n")
	env.Usage(cfg, w, &env.Options{SliceSep: ","})
	fmt.Fprintf(w, "\nThey override %s in the XDG config directories.\n"+
		"Save the current settings with\n\n\ttoon env > toon.env\n", configFile)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// isNotExist reports whether err is a missing-file error.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
