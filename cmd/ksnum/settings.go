package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ksnum/internal/calc"
)

// evalOptions starts from the [eval] section of the settings file and
// applies the --mode, --precision, --round and --max-digits flags the user
// set.
func (a *app) evalOptions(cmd *cobra.Command) (calc.Options, error) {
	opts, err := a.cfg.Options()
	if err != nil {
		return calc.Options{}, err
	}
	flags := cmd.Root().PersistentFlags()

	if flags.Changed("mode") {
		s, err := flags.GetString("mode")
		if err != nil {
			return calc.Options{}, fmt.Errorf("failed to get mode flag: %w", err)
		}
		if opts.Mode, err = calc.ParseMode(s); err != nil {
			return calc.Options{}, err
		}
	}
	if flags.Changed("precision") {
		n, err := flags.GetInt("precision")
		if err != nil {
			return calc.Options{}, fmt.Errorf("failed to get precision flag: %w", err)
		}
		if n < 0 {
			return calc.Options{}, fmt.Errorf("--precision must be >= 0, got %d", n)
		}
		if n > calc.MaxPrecision {
			return calc.Options{}, fmt.Errorf("--precision must be at most %d, got %d", calc.MaxPrecision, n)
		}
		opts.Precision = n
	}
	if flags.Changed("max-digits") {
		n, err := flags.GetInt("max-digits")
		if err != nil {
			return calc.Options{}, fmt.Errorf("failed to get max-digits flag: %w", err)
		}
		if n < 0 {
			return calc.Options{}, fmt.Errorf("--max-digits must be >= 0, got %d", n)
		}
		opts.MaxDigits = n
	}
	if flags.Changed("round") {
		if opts.Round, err = flags.GetBool("round"); err != nil {
			return calc.Options{}, fmt.Errorf("failed to get round flag: %w", err)
		}
	}
	return opts, nil
}

// stringSetting returns the named flag when the user set it and fallback
// otherwise.
func stringSetting(cmd *cobra.Command, name, fallback string) (string, error) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return "", fmt.Errorf("unknown flag %q", name)
	}
	if !flag.Changed {
		return fallback, nil
	}
	return flag.Value.String(), nil
}
