package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"ksnum/internal/calc"
	"ksnum/internal/ui"
)

type batchOutcome struct {
	results []calc.Result
	err     error
}

// runBatchWithUI evaluates the batch in the background while a progress
// view draws on out.
func runBatchWithUI(ctx context.Context, out io.Writer, title string, exprs []string, opts calc.Options, bo calc.BatchOptions) ([]calc.Result, error) {
	events := make(chan calc.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		bo.Sink = calc.ChannelSink{Ch: events}
		res, err := calc.EvalBatch(ctx, exprs, opts, bo)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, exprs, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// Keep the workers unblocked whatever the view did.
	go func() {
		for range events {
		}
	}()

	var outcome batchOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		// The view quit before the batch finished.
		cancel()
		outcome = <-outcomeCh
	}
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
