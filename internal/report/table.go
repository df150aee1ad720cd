package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func writeTable(w io.Writer, rows []Row, opts Options) error {
	t := table.NewWriter()
	style := table.StyleLight
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	t.SetOutputMirror(w)

	header := table.Row{"#", "expression", "result", "status"}
	if opts.Timings {
		header = append(header, "time")
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	for _, r := range rows {
		result := r.Value
		if r.Err != "" {
			result = r.Err
		}
		row := table.Row{r.Line, r.Expr, result, status(r)}
		if opts.Timings {
			row = append(row, millis(r.Elapsed))
		}
		t.AppendRow(row)
	}

	ok, failed := Summary(rows)
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d lines", len(rows)), fmt.Sprintf("%d ok", ok), fmt.Sprintf("%d failed", failed)})
	t.Render()
	return nil
}
