package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ksnum/internal/calc"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `
[eval]
mode = "int"

[batch]
jobs = 4
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Discover(nested)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Path)
	require.Equal(t, "int", cfg.Eval.Mode)
	require.Equal(t, 4, cfg.Batch.Jobs)
	// Keys left out keep their defaults.
	require.Equal(t, 10, cfg.Eval.Precision)
	require.True(t, cfg.Batch.Cache)
	require.Equal(t, "table", cfg.Batch.Format)

	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, calc.ModeInt, opts.Mode)
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, cfg.Path)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[eval\n", "failed to parse TOML"},
		{"unknown key", "[eval]\nprecison = 3\n", "unknown keys: eval.precison"},
		{"empty mode", "[eval]\nmode = \" \"\n", "[eval].mode is empty"},
		{"bad mode", "[eval]\nmode = \"float\"\n", "[eval].mode"},
		{"negative precision", "[eval]\nprecision = -1\n", "[eval].precision must be >= 0"},
		{"huge precision", "[eval]\nprecision = 1000000000\n", "[eval].precision must be at most 10000"},
		{"negative max digits", "[eval]\nmax_digits = -5\n", "[eval].max_digits must be >= 0"},
		{"negative jobs", "[batch]\njobs = -2\n", "[batch].jobs"},
		{"bad format", "[batch]\nformat = \"xml\"\n", "[batch].format"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"bad trace mode", "[trace]\nmode = \"disk\"\n", "[trace].mode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tc.body)
			_, err := Load(path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[eval]
mode = "decimal"
precision = 4
round = true
max_digits = 5000

[batch]
format = "json"
cache = false

[trace]
level = "expr"
mode = "both"
output = "trace.ndjson"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Eval{Mode: "decimal", Precision: 4, Round: true, MaxDigits: 5000}, cfg.Eval)
	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, 5000, opts.MaxDigits)
	require.Equal(t, Batch{Format: "json"}, cfg.Batch)
	require.Equal(t, Trace{Level: "expr", Mode: "both", Output: "trace.ndjson"}, cfg.Trace)
}
