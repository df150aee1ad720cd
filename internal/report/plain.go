package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"
)

// writePlain prints "line  expr  = value" with the expression column
// padded by display width, so full-width input still lines up.
func writePlain(w io.Writer, rows []Row, opts Options) error {
	lineWidth, exprWidth := 0, 0
	for _, r := range rows {
		lineWidth = max(lineWidth, len(strconv.Itoa(r.Line)))
		exprWidth = max(exprWidth, runewidth.StringWidth(r.Expr))
	}

	bw := bufio.NewWriter(w)
	for _, r := range rows {
		num := strconv.Itoa(r.Line)
		fmt.Fprintf(bw, "%*s%s  %s  ", lineWidth-len(num), "", num, runewidth.FillRight(r.Expr, exprWidth))
		if r.Err != "" {
			fmt.Fprintf(bw, "! %s", r.Err)
		} else {
			fmt.Fprintf(bw, "= %s", r.Value)
		}
		if r.Cached {
			bw.WriteString(" (cached)")
		}
		if opts.Timings {
			fmt.Fprintf(bw, " [%s]", millis(r.Elapsed))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
