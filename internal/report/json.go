package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gowebpki/jcs"
)

type jsonRow struct {
	Line      int      `json:"line"`
	Expr      string   `json:"expr"`
	Value     string   `json:"value,omitempty"`
	Error     string   `json:"error,omitempty"`
	Cached    bool     `json:"cached"`
	ElapsedMS *float64 `json:"elapsed_ms,omitempty"`
}

type jsonDoc struct {
	Results []jsonRow `json:"results"`
	OK      int       `json:"ok"`
	Failed  int       `json:"failed"`
}

// writeJSON emits one RFC 8785 canonical document, so identical batches
// produce byte-identical output.
func writeJSON(w io.Writer, rows []Row, opts Options) error {
	doc := jsonDoc{Results: make([]jsonRow, len(rows))}
	doc.OK, doc.Failed = Summary(rows)
	for i, r := range rows {
		jr := jsonRow{Line: r.Line, Expr: r.Expr, Value: r.Value, Error: r.Err, Cached: r.Cached}
		if opts.Timings {
			ms := float64(r.Elapsed.Microseconds()) / 1000
			jr.ElapsedMS = &ms
		}
		doc.Results[i] = jr
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		return fmt.Errorf("canonicalize report: %w", err)
	}
	canon = append(canon, '\n')
	_, err = w.Write(canon)
	return err
}
