package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ksnum/internal/calc"
	"ksnum/internal/trace"
	"ksnum/internal/ui"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: `Repl reads expressions and prints their values. On a terminal it opens
an interactive prompt with history (":help" lists its commands); otherwise
it evaluates stdin line by line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRepl(cmd)
		},
	}
}

func (a *app) runRepl(cmd *cobra.Command) error {
	opts, err := a.evalOptions(cmd)
	if err != nil {
		return err
	}
	ctx, span := trace.Start(cmd.Context(), trace.ScopeCommand, "repl")
	defer span.End("")

	if in, ok := a.stdin.(*os.File); ok && isTerminal(in) {
		program := tea.NewProgram(ui.NewREPLModel(ctx, opts, a.timings), tea.WithInput(in), tea.WithOutput(a.stdout), tea.WithContext(ctx))
		_, err := program.Run()
		return err
	}

	// Piped input: one result per line, errors inline, keep going.
	sc := bufio.NewScanner(a.stdin)
	failed := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := calc.Eval(ctx, line, opts)
		if err != nil {
			failed++
			fmt.Fprintf(a.stdout, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(a.stdout, v)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d expressions failed", failed)
	}
	return nil
}
