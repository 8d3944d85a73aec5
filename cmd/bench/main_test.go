package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Neumenon/toon/toon"
)

const corpus = "../../testdata/bench"

func TestRunCases(t *testing.T) {
	m, err := loadManifest(corpus)
	require.NoError(t, err)
	require.Len(t, m.Cases, 5)

	results, totals := runCases(corpus, m, toon.DefaultOptions())
	require.Len(t, results, len(m.Cases))

	byName := map[string]CaseResult{}
	for _, r := range results {
		byName[r.Name] = r
	}

	users := byName["users_table"]
	require.Equal(t, "json", users.Format)
	require.Positive(t, users.BytesSaved)
	require.Positive(t, users.TokensPct)
	require.Zero(t, users.Lossy)

	require.Equal(t, "yaml", byName["service_config"].Format)
	require.Equal(t, "toml", byName["build_manifest"].Format)
	require.Equal(t, 4, byName["event_log_mixed"].Lossy, "the array and its three objects")

	require.Greater(t, totals.JSONBytes, totals.TOONBytes)
	require.Positive(t, totals.TOONZstd)
}

func TestRunCases_SkipsBrokenCases(t *testing.T) {
	m := &Manifest{}
	m.Cases = append(m.Cases, struct {
		Name string `json:"name"`
		File string `json:"file"`
	}{"missing", "missing.json"})

	results, totals := runCases(corpus, m, toon.DefaultOptions())
	require.Empty(t, results)
	require.Zero(t, totals.JSONBytes)
}

func TestMeasure(t *testing.T) {
	r, err := measure("tags", "tags.json", []byte(`{"tags": ["a", "b"]}`), toon.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, len(`{"tags":["a","b"]}`), r.JSONBytes)
	require.Equal(t, len("tags[2]: a,b"), r.TOONBytes)
	require.Equal(t, r.JSONBytes-r.TOONBytes, r.BytesSaved)

	_, err = measure("bad", "bad.json", []byte(`{`), toon.DefaultOptions())
	require.Error(t, err)

	_, err = measure("strict", "x.json", []byte(`{"x":[1,{"a":1}]}`), toon.StrictOptions())
	require.Error(t, err)
}

func TestReports(t *testing.T) {
	results := []CaseResult{
		{Name: "a", Format: "json", JSONBytes: 100, TOONBytes: 60, BytesSaved: 40, BytesPct: 40},
		{Name: "b", Format: "yaml", JSONBytes: 50, TOONBytes: 45, BytesSaved: 5, BytesPct: 10, Lossy: 2},
	}
	totals := Totals{JSONBytes: 150, TOONBytes: 105}

	var csv bytes.Buffer
	writeCSV(&csv, results)
	lines := strings.Split(strings.TrimSpace(csv.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "a,json,100,60,40,40.0,"))

	var md bytes.Buffer
	writeMarkdown(&md, results, totals, "v1", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	require.Contains(t, md.String(), "# TOON Benchmark Results")
	require.Contains(t, md.String(), "**Date:** 2026-01-02")
	require.Contains(t, md.String(), "| **Bytes** | 150 | 105 | 45 (30.0%) |")
	require.Contains(t, md.String(), "| b | 2 |")

	var table bytes.Buffer
	writeTable(&table, results, totals)
	require.Len(t, strings.Split(strings.TrimSpace(table.String()), "\n"), 4)
}

func TestParseDelimiter(t *testing.T) {
	for in, want := range map[string]rune{",": ',', "|": '|', ";": ';', "tab": '\t'} {
		got, err := parseDelimiter(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := parseDelimiter("::")
	require.Error(t, err)
}
