package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ksnum/internal/check"
	"ksnum/internal/config"
	"ksnum/internal/observ"
	"ksnum/internal/trace"
	"ksnum/internal/version"
)

// Exit codes.
const (
	exitOK        = 0
	exitError     = 1
	exitViolation = 2
)

// app is the state shared by the commands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg      config.Config
	tracer   trace.Tracer
	timer    *observ.Timer
	timings  bool
	cleanups []func()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code. A
// violated numeric precondition is reported with the recent trace events
// and exits with exitViolation; any other panic propagates.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, tracer: trace.Nop, timer: observ.NewTimer()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer func() {
		if v := check.Recover(recover()); v != nil {
			a.reportViolation(v)
			a.close()
			code = exitViolation
		}
	}()

	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ksnum",
		Short:         "Arbitrary-precision integer and decimal calculator",
		Long:          `ksnum evaluates arithmetic over arbitrary-precision integers and base-10 decimals`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(version.Banner() + "\n")

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.String("config", "", "settings file (default: nearest "+config.FileName+")")
	flags.Bool("timings", false, "show timing information")
	flags.String("mode", "", "number type (decimal|int)")
	flags.Int("precision", 0, "fractional digits of '/' in decimal mode")
	flags.Bool("round", false, "round '/' half away from zero instead of truncating")
	flags.Int("max-digits", 0, "largest power of ten a decimal may carry (0: 100000)")

	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|command|expr|debug)")
	flags.String("trace-mode", "", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", trace.DefaultRingSize, "events kept in the trace ring")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval")

	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(newEvalCmd(a), newBatchCmd(a), newReplCmd(a), newVersionCmd())
	return root
}

// setup loads settings and starts tracing and profiling before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if err := applyColor(colorFlag, a.stdout); err != nil {
		return err
	}

	if a.timings, err = flags.GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if err := a.timer.Measure("config", func() error {
		a.cfg, err = loadConfig(configPath)
		return err
	}); err != nil {
		return err
	}

	cleanupTrace, err := a.setupTracing(cmd)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, cleanupTrace)

	cleanupProf, err := setupProfiling(cmd, a.stderr)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, cleanupProf)
	return nil
}

// close releases what setup acquired, newest first, and prints timings.
func (a *app) close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
	if a.timings {
		printTimings(a.stderr, a.timer)
	}
	a.timings = false
}

func (a *app) reportViolation(v *check.Violation) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(a.stderr, "internal check failed: %s\n", v.Message)
	if v.Op != "" {
		fmt.Fprintf(a.stderr, "  in %s\n", v.Op)
	}
	if ring := trace.RingOf(a.tracer); ring != nil {
		fmt.Fprintln(a.stderr, "recent trace events:")
		if err := ring.Dump(a.stderr, trace.FormatText); err != nil {
			fmt.Fprintf(a.stderr, "trace: dump error: %v\n", err)
		}
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

func applyColor(mode string, out io.Writer) error {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
		f, ok := out.(*os.File)
		color.NoColor = color.NoColor || !ok || !isTerminal(f)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
