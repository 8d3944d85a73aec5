// bench - TOON benchmark runner
//
// Compares TOON against minified JSON over a corpus of documents:
//   - Bytes, raw and zstd-compressed
//   - Estimated token counts
//
// The corpus is a directory with a manifest.json listing the cases. Cases may
// be JSON, YAML or TOML files.
//
// Output: a table on stdout, optionally CSV and a markdown report.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/alexflint/go-arg"

	"github.com/Neumenon/toon/convert"
	"github.com/Neumenon/toon/internal/log"
	"github.com/Neumenon/toon/toon"
)

type runArgs struct {
	Dir       string `arg:"positional" help:"corpus directory containing manifest.json (default: search for testdata/bench)"`
	CSV       string `arg:"--csv" help:"write per-case results as CSV to this file"`
	Markdown  string `arg:"--md" help:"write a markdown report to this file"`
	Delimiter string `arg:"-d,--delimiter" default:"," help:"TOON delimiter: , | ; or tab"`
	LogLevel  string `arg:"--log-level" default:"info" help:"off fatal error warn info debug trace"`
}

type CaseResult struct {
	Name        string
	Format      string
	JSONBytes   int
	TOONBytes   int
	BytesSaved  int
	BytesPct    float64
	JSONTokens  int
	TOONTokens  int
	TokensSaved int
	TokensPct   float64
	JSONZstd    int
	TOONZstd    int
	Lossy       int
}

type Totals struct {
	JSONBytes, TOONBytes   int
	JSONTokens, TOONTokens int
	JSONZstd, TOONZstd     int
}

func (t *Totals) add(r CaseResult) {
	t.JSONBytes += r.JSONBytes
	t.TOONBytes += r.TOONBytes
	t.JSONTokens += r.JSONTokens
	t.TOONTokens += r.TOONTokens
	t.JSONZstd += r.JSONZstd
	t.TOONZstd += r.TOONZstd
}

type Manifest struct {
	Version     string `json:"version"`
	Description string `json:"description"`
	Cases       []struct {
		Name string `json:"name"`
		File string `json:"file"`
	} `json:"cases"`
}

func main() {
	var args runArgs
	arg.MustParse(&args)
	if !log.SetLevel(args.LogLevel) {
		fatal("unknown log level %q", args.LogLevel)
	}

	dir := args.Dir
	if dir == "" {
		if dir = findTestdata(); dir == "" {
			fatal("cannot find testdata/bench directory")
		}
	}
	delim, err := parseDelimiter(args.Delimiter)
	if err != nil {
		fatal("%v", err)
	}
	opts := toon.DefaultOptions()
	opts.Delimiter = delim

	manifest, err := loadManifest(dir)
	if err != nil {
		fatal("%v", err)
	}
	log.I.F("corpus %s (%d cases)", manifest.Version, len(manifest.Cases))

	results, totals := runCases(dir, manifest, opts)

	if args.CSV != "" {
		if err := writeFile(args.CSV, func(w io.Writer) { writeCSV(w, results) }); err != nil {
			fatal("%v", err)
		}
		log.I.F("CSV written to %s", args.CSV)
	}
	if args.Markdown != "" {
		err := writeFile(args.Markdown, func(w io.Writer) {
			writeMarkdown(w, results, totals, manifest.Version, time.Now())
		})
		if err != nil {
			fatal("%v", err)
		}
		log.I.F("markdown written to %s", args.Markdown)
	}

	writeTable(os.Stdout, results, totals)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "bench: "+format+"\n", args...)
	os.Exit(1)
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case ",", "|", ";":
		return rune(s[0]), nil
	case "tab", "\t":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported delimiter %q", s)
}

func loadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cannot parse manifest: %w", err)
	}
	return &m, nil
}

// runCases measures every case in the manifest. Cases that cannot be read
// or decoded are logged and skipped.
func runCases(dir string, m *Manifest, opts toon.Options) ([]CaseResult, Totals) {
	var (
		results []CaseResult
		totals  Totals
	)
	for _, c := range m.Cases {
		data, err := os.ReadFile(filepath.Join(dir, c.File))
		if err != nil {
			log.W.F("skip %s: %v", c.Name, err)
			continue
		}
		r, err := measure(c.Name, c.File, data, opts)
		if err != nil {
			log.W.F("skip %s: %v", c.Name, err)
			continue
		}
		log.D.F("%s: %d -> %d bytes", c.Name, r.JSONBytes, r.TOONBytes)
		results = append(results, r)
		totals.add(r)
	}
	return results, totals
}

// measure decodes one document and compares its minified JSON and TOON
// forms.
func measure(name, file string, data []byte, opts toon.Options) (CaseResult, error) {
	f := convert.DetectFormat(file, data)
	v, err := convert.Decode(data, f)
	if err != nil {
		return CaseResult{}, err
	}

	r := CaseResult{Name: name, Format: f.String()}
	opts.OnDiagnostic = func(d toon.Diagnostic) {
		r.Lossy++
		log.T.Ln(name, d)
	}
	text, err := toon.EncodeWithOptions(v, opts)
	if err != nil {
		return CaseResult{}, err
	}
	jsonMin, err := v.MarshalJSON()
	if err != nil {
		return CaseResult{}, err
	}

	r.JSONBytes = len(jsonMin)
	r.TOONBytes = len(text)
	r.BytesSaved = r.JSONBytes - r.TOONBytes
	r.BytesPct = percent(r.BytesSaved, r.JSONBytes)
	r.JSONTokens = toon.EstimateTokens(string(jsonMin))
	r.TOONTokens = toon.EstimateTokens(text)
	r.TokensSaved = r.JSONTokens - r.TOONTokens
	r.TokensPct = percent(r.TokensSaved, r.JSONTokens)
	r.JSONZstd = convert.CompressedSize(jsonMin)
	r.TOONZstd = convert.CompressedSize([]byte(text))
	return r, nil
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func findTestdata() string {
	paths := []string{
		"testdata/bench",
		"../testdata/bench",
		"../../testdata/bench",
	}
	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(p, "manifest.json")); err == nil {
			return p
		}
	}
	return ""
}

func writeFile(path string, write func(io.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	write(f)
	return f.Close()
}

func writeTable(w io.Writer, results []CaseResult, t Totals) {
	fmt.Fprintf(w, "%-20s %-5s %8s %8s %7s %8s %8s %7s %9s %9s\n",
		"case", "fmt", "json_b", "toon_b", "bytes%", "json_t", "toon_t", "tok%", "json_zst", "toon_zst")
	for _, r := range results {
		fmt.Fprintf(w, "%-20s %-5s %8d %8d %6.1f%% %8d %8d %6.1f%% %9d %9d\n",
			truncateName(r.Name, 20), r.Format, r.JSONBytes, r.TOONBytes, r.BytesPct,
			r.JSONTokens, r.TOONTokens, r.TokensPct, r.JSONZstd, r.TOONZstd)
	}
	fmt.Fprintf(w, "%-20s %-5s %8d %8d %6.1f%% %8d %8d %6.1f%% %9d %9d\n",
		"TOTAL", "", t.JSONBytes, t.TOONBytes, percent(t.JSONBytes-t.TOONBytes, t.JSONBytes),
		t.JSONTokens, t.TOONTokens, percent(t.JSONTokens-t.TOONTokens, t.JSONTokens), t.JSONZstd, t.TOONZstd)
}

func writeCSV(w io.Writer, results []CaseResult) {
	fmt.Fprintln(w, "name,format,json_bytes,toon_bytes,bytes_saved,bytes_pct,json_tokens,toon_tokens,tokens_saved,tokens_pct,json_zstd,toon_zstd,lossy")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%s,%d,%d,%d,%.1f,%d,%d,%d,%.1f,%d,%d,%d\n",
			r.Name, r.Format, r.JSONBytes, r.TOONBytes, r.BytesSaved, r.BytesPct,
			r.JSONTokens, r.TOONTokens, r.TokensSaved, r.TokensPct, r.JSONZstd, r.TOONZstd, r.Lossy)
	}
}

func writeMarkdown(w io.Writer, results []CaseResult, t Totals, version string, now time.Time) {
	fmt.Fprintf(w, "# TOON Benchmark Results\n\n")
	fmt.Fprintf(w, "**Date:** %s  \n", now.Format("2006-01-02"))
	fmt.Fprintf(w, "**Corpus:** %s (%d cases)  \n\n", version, len(results))

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | JSON (minified) | TOON | Savings |\n")
	fmt.Fprintf(w, "|--------|-----------------|------|---------|\n")
	fmt.Fprintf(w, "| **Bytes** | %d | %d | %d (%.1f%%) |\n",
		t.JSONBytes, t.TOONBytes, t.JSONBytes-t.TOONBytes, percent(t.JSONBytes-t.TOONBytes, t.JSONBytes))
	fmt.Fprintf(w, "| **Tokens** (est.) | ~%d | ~%d | ~%d (%.1f%%) |\n",
		t.JSONTokens, t.TOONTokens, t.JSONTokens-t.TOONTokens, percent(t.JSONTokens-t.TOONTokens, t.JSONTokens))
	fmt.Fprintf(w, "| **zstd bytes** | %d | %d | %d (%.1f%%) |\n\n",
		t.JSONZstd, t.TOONZstd, t.JSONZstd-t.TOONZstd, percent(t.JSONZstd-t.TOONZstd, t.JSONZstd))

	sorted := make([]CaseResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BytesPct > sorted[j].BytesPct
	})

	fmt.Fprintf(w, "## Best Cases (by bytes)\n\n")
	fmt.Fprintf(w, "| Case | JSON | TOON | Saved |\n")
	fmt.Fprintf(w, "|------|------|------|-------|\n")
	for _, r := range sorted[:min(5, len(sorted))] {
		fmt.Fprintf(w, "| %s | %d | %d | %.1f%% |\n", r.Name, r.JSONBytes, r.TOONBytes, r.BytesPct)
	}

	fmt.Fprintf(w, "\n## Lossy Cases\n\n")
	var lossy []CaseResult
	for _, r := range results {
		if r.Lossy > 0 {
			lossy = append(lossy, r)
		}
	}
	if len(lossy) == 0 {
		fmt.Fprintf(w, "_None - every case encodes without loss._\n\n")
	} else {
		fmt.Fprintf(w, "| Case | Diagnostics |\n")
		fmt.Fprintf(w, "|------|-------------|\n")
		for _, r := range lossy {
			fmt.Fprintf(w, "| %s | %d |\n", r.Name, r.Lossy)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "## Methodology\n\n")
	fmt.Fprintf(w, "- **JSON:** minified, keys in document order\n")
	fmt.Fprintf(w, "- **TOON:** default encoder options, tables for uniform arrays of objects\n")
	fmt.Fprintf(w, "- **Tokens:** estimated at ~4 bytes per token\n")
	fmt.Fprintf(w, "- **zstd:** default compression level\n")
}

func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
