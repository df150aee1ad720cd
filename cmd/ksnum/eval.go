package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ksnum/internal/calc"
	"ksnum/internal/trace"
)

func newEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [flags] expr...",
		Short: "Evaluate expressions and print their values",
		Long: `Eval evaluates each argument as a separate expression and prints one
value per line. Evaluation stops at the first failing expression.`,
		Example: `  ksnum eval '2^100'
  ksnum eval --precision 30 '1/7'
  ksnum eval --mode int -- '-7 % 2' '10 / 4'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEval(cmd, args)
		},
	}
	cmd.Flags().Bool("functions", false, "list the builtin functions after the results")
	return cmd
}

func (a *app) runEval(cmd *cobra.Command, args []string) error {
	opts, err := a.evalOptions(cmd)
	if err != nil {
		return err
	}
	ctx, span := trace.Start(cmd.Context(), trace.ScopeCommand, "eval")
	defer span.End("")

	values := make([]calc.Value, 0, len(args))
	err = a.timer.Measure("eval", func() error {
		for _, expr := range args {
			v, err := calc.Eval(ctx, expr, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", expr, err)
			}
			values = append(values, v)
		}
		return nil
	})
	// Print what succeeded before reporting the failure.
	for _, v := range values {
		fmt.Fprintln(a.stdout, v)
	}
	if err != nil {
		return err
	}

	if listFns, _ := cmd.Flags().GetBool("functions"); listFns {
		for _, fn := range calc.Functions() {
			fmt.Fprintln(a.stdout, fn)
		}
	}
	return nil
}
