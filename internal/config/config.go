// Package config loads ksnum.toml, the optional per-directory settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"ksnum/internal/calc"
	"ksnum/internal/report"
	"ksnum/internal/trace"
)

// FileName is the settings file searched for by Find.
const FileName = "ksnum.toml"

// Config mirrors ksnum.toml. Path is empty when defaults are in use.
type Config struct {
	Path  string `toml:"-"`
	Eval  Eval   `toml:"eval"`
	Batch Batch  `toml:"batch"`
	Trace Trace  `toml:"trace"`
}

// Eval is the [eval] section.
type Eval struct {
	Mode      string `toml:"mode"`
	Precision int    `toml:"precision"`
	Round     bool   `toml:"round"`
	MaxDigits int    `toml:"max_digits"`
}

// Batch is the [batch] section.
type Batch struct {
	Jobs   int    `toml:"jobs"`
	Format string `toml:"format"`
	Cache  bool   `toml:"cache"`
}

// Trace is the [trace] section.
type Trace struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		Eval:  Eval{Mode: calc.ModeDecimal.String(), Precision: calc.DefaultOptions().Precision},
		Batch: Batch{Format: report.FormatTable.String(), Cache: true},
		Trace: Trace{Level: trace.LevelOff.String(), Mode: trace.ModeRing.String()},
	}
}

// Find walks up from startDir to locate ksnum.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest ksnum.toml above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over the defaults and validates the result. Unknown
// keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for _, key := range [][]string{
		{"eval", "mode"},
		{"batch", "format"},
		{"trace", "level"},
		{"trace", "mode"},
	} {
		if meta.IsDefined(key...) && strings.TrimSpace(cfg.field(key[0], key[1])) == "" {
			return Config{}, fmt.Errorf("%s: [%s].%s is empty", path, key[0], key[1])
		}
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) field(section, key string) string {
	switch section + "." + key {
	case "eval.mode":
		return c.Eval.Mode
	case "batch.format":
		return c.Batch.Format
	case "trace.level":
		return c.Trace.Level
	case "trace.mode":
		return c.Trace.Mode
	default:
		return ""
	}
}

// Validate checks every value against its allowed set.
func (c Config) Validate() error {
	if _, err := calc.ParseMode(c.Eval.Mode); err != nil {
		return fmt.Errorf("[eval].mode: %w", err)
	}
	if c.Eval.Precision < 0 {
		return fmt.Errorf("[eval].precision must be >= 0, got %d", c.Eval.Precision)
	}
	if c.Eval.Precision > calc.MaxPrecision {
		return fmt.Errorf("[eval].precision must be at most %d, got %d", calc.MaxPrecision, c.Eval.Precision)
	}
	if c.Eval.MaxDigits < 0 {
		return fmt.Errorf("[eval].max_digits must be >= 0, got %d", c.Eval.MaxDigits)
	}
	if c.Batch.Jobs < 0 {
		return fmt.Errorf("[batch].jobs must be >= 0, got %d", c.Batch.Jobs)
	}
	if _, err := report.ParseFormat(c.Batch.Format); err != nil {
		return fmt.Errorf("[batch].format: %w", err)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("[trace].mode: %w", err)
	}
	return nil
}

// Options converts the [eval] section into evaluation options.
func (c Config) Options() (calc.Options, error) {
	mode, err := calc.ParseMode(c.Eval.Mode)
	if err != nil {
		return calc.Options{}, err
	}
	return calc.Options{Mode: mode, Precision: c.Eval.Precision, Round: c.Eval.Round, MaxDigits: c.Eval.MaxDigits}, nil
}
