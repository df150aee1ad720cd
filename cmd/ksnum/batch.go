package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ksnum/internal/calc"
	"ksnum/internal/report"
	"ksnum/internal/store"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [flags] file|-",
		Short: "Evaluate a file of expressions, one per line",
		Long: `Batch evaluates every non-blank line of a file (or stdin with "-") in
parallel and prints a report in input order. Lines starting with '#' are
comments. Results are cached on disk keyed by the expression and the
evaluation settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args[0])
		},
	}
	cmd.Flags().Int("jobs", 0, "parallel workers (0 = number of CPUs)")
	cmd.Flags().String("format", "", "report format (table|json|plain)")
	cmd.Flags().Bool("no-cache", false, "neither read nor write the result cache")
	cmd.Flags().Bool("clear-cache", false, "empty the result cache before evaluating")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

// batchLine is one expression and its 1-based line in the input.
type batchLine struct {
	line int
	expr string
}

// readBatch collects the expressions of r, skipping blank and comment lines.
func readBatch(r io.Reader) ([]batchLine, error) {
	var lines []batchLine
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, batchLine{line: n, expr: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", n+1, err)
	}
	return lines, nil
}

func (a *app) runBatch(cmd *cobra.Command, path string) error {
	opts, err := a.evalOptions(cmd)
	if err != nil {
		return err
	}
	bo, err := a.batchOptions(cmd)
	if err != nil {
		return err
	}
	formatStr, err := stringSetting(cmd, "format", a.cfg.Batch.Format)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var lines []batchLine
	if err := a.timer.Measure("read", func() error {
		lines, err = a.readInput(path)
		return err
	}); err != nil {
		return err
	}
	exprs := make([]string, len(lines))
	for i, l := range lines {
		exprs[i] = l.expr
	}

	var results []calc.Result
	err = a.timer.Measure("eval", func() error {
		var err error
		if shouldUseTUI(mode, a.stderr) && len(exprs) > 0 {
			results, err = runBatchWithUI(cmd.Context(), a.stderr, "ksnum batch "+path, exprs, opts, bo)
		} else {
			results, err = calc.EvalBatch(cmd.Context(), exprs, opts, bo)
		}
		return err
	})
	if err != nil {
		return err
	}
	for i := range results {
		results[i].Line = lines[i].line
	}

	if err := a.timer.Measure("render", func() error {
		return report.Write(a.stdout, format, results, report.Options{Timings: a.timings})
	}); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d lines failed", failed, len(results))
	}
	return nil
}

func (a *app) batchOptions(cmd *cobra.Command) (calc.BatchOptions, error) {
	bo := calc.BatchOptions{Jobs: a.cfg.Batch.Jobs}
	if cmd.Flags().Changed("jobs") {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return bo, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		if jobs < 0 {
			return bo, fmt.Errorf("--jobs must be >= 0, got %d", jobs)
		}
		bo.Jobs = jobs
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return bo, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if noCache || !a.cfg.Batch.Cache {
		return bo, nil
	}
	cache, err := store.OpenDefault("ksnum")
	if err != nil {
		// The cache only saves work; run without it.
		fmt.Fprintf(a.stderr, "warning: result cache disabled: %v\n", err)
		return bo, nil
	}
	if clearCache, _ := cmd.Flags().GetBool("clear-cache"); clearCache {
		if err := cache.DropAll(); err != nil {
			return bo, fmt.Errorf("clear cache: %w", err)
		}
	}
	bo.Cache = cache
	return bo, nil
}

func (a *app) readInput(path string) ([]batchLine, error) {
	if path == "-" {
		return readBatch(a.stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readBatch(f)
}
