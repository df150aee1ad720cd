// Package report renders batch results as a table, canonical JSON, or
// aligned plain text.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"ksnum/internal/calc"
)

// Format selects the renderer.
type Format uint8

const (
	FormatTable Format = iota
	FormatJSON
	FormatPlain
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatTable:
		return "table"
	case FormatJSON:
		return "json"
	case FormatPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "plain", "text":
		return FormatPlain, nil
	default:
		return FormatTable, fmt.Errorf("invalid format: %q (expected: table|json|plain)", s)
	}
}

// Options tunes rendering.
type Options struct {
	Timings bool // include per-line elapsed time
}

// Row is the rendered view of one calc.Result.
type Row struct {
	Line    int
	Expr    string
	Value   string
	Err     string
	Cached  bool
	Elapsed time.Duration
}

// Rows flattens results for rendering.
func Rows(results []calc.Result) []Row {
	rows := make([]Row, len(results))
	for i, res := range results {
		row := Row{Line: res.Line, Expr: res.Expr, Cached: res.Cached, Elapsed: res.Elapsed}
		if res.Err != nil {
			row.Err = res.Err.Error()
		} else {
			row.Value = res.Value.String()
		}
		rows[i] = row
	}
	return rows
}

// Summary counts successful and failed rows.
func Summary(rows []Row) (ok, failed int) {
	for _, r := range rows {
		if r.Err != "" {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}

// Write renders results to w in the chosen format.
func Write(w io.Writer, f Format, results []calc.Result, opts Options) error {
	rows := Rows(results)
	switch f {
	case FormatTable:
		return writeTable(w, rows, opts)
	case FormatJSON:
		return writeJSON(w, rows, opts)
	case FormatPlain:
		return writePlain(w, rows, opts)
	default:
		return fmt.Errorf("unknown format: %v", f)
	}
}

func status(r Row) string {
	switch {
	case r.Err != "":
		return "error"
	case r.Cached:
		return "cached"
	default:
		return "ok"
	}
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
}
