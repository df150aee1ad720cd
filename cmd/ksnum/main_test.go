package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type invocation struct {
	code   int
	stdout string
	stderr string
}

// invoke runs the CLI against a private settings file with the cache off.
func invoke(t *testing.T, stdin string, args ...string) invocation {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "ksnum.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[batch]\ncache = false\n"), 0o600))

	var out, errOut bytes.Buffer
	full := append([]string{"--color", "off", "--config", cfg}, args...)
	code := run(full, strings.NewReader(stdin), &out, &errOut)
	return invocation{code: code, stdout: out.String(), stderr: errOut.String()}
}

func TestEvalPrintsValues(t *testing.T) {
	res := invoke(t, "", "eval", "2^10", "1/4", "１２＋３")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, "1024\n0.25\n15\n", res.stdout)
}

func TestEvalFlagsOverrideSettings(t *testing.T) {
	res := invoke(t, "", "--mode", "int", "eval", "--", "-7 % 2", "10 / 4")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, "-1\n2\n", res.stdout)

	res = invoke(t, "", "--precision", "3", "--round", "eval", "2/3")
	require.Equal(t, "0.667\n", res.stdout)

	res = invoke(t, "", "--precision", "-1", "eval", "1")
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "--precision must be >= 0")

	res = invoke(t, "", "--precision", "1000000000", "eval", "1/3")
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "--precision must be at most 10000")

	res = invoke(t, "", "eval", "1e300000000 + 1")
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "scale 10^300000000")
}

func TestEvalReportsErrors(t *testing.T) {
	res := invoke(t, "", "eval", "1 + 1", "1 / 0", "3")
	require.Equal(t, exitError, res.code)
	require.Equal(t, "2\n", res.stdout)
	require.Contains(t, res.stderr, "error: 1 / 0: division by zero")
}

func TestViolationExitsWithTraceDump(t *testing.T) {
	res := invoke(t, "", "--trace-level", "expr", "--trace-mode", "ring", "--max-digits", "2147483647",
		"eval", "1e2000000000 * 1e2000000000")
	require.Equal(t, exitViolation, res.code)
	require.Contains(t, res.stderr, "internal check failed")
	require.Contains(t, res.stderr, "recent trace events:")
	require.Contains(t, res.stderr, "eval")
}

func TestTimings(t *testing.T) {
	res := invoke(t, "", "--timings", "eval", "1+1")
	require.Equal(t, exitOK, res.code)
	require.Contains(t, res.stderr, "timings:")
	require.Contains(t, res.stderr, "eval")
}

func TestBatchFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	body := "# powers\n1 + 1\n\n1 / 0\n2 ^ 3\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	res := invoke(t, "", "batch", "--ui", "off", "--format", "plain", "--jobs", "2", path)
	require.Equal(t, exitError, res.code)
	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "2  1 + 1  = 2", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "4  1 / 0  ! division by zero"), lines[1])
	require.Equal(t, "5  2 ^ 3  = 8", lines[2])
	require.Contains(t, res.stderr, "1 of 3 lines failed")
}

func TestBatchFromStdinAsJSON(t *testing.T) {
	res := invoke(t, "10/4\n3*3\n", "batch", "--ui", "off", "--format", "json", "-")
	require.Equal(t, exitOK, res.code, res.stderr)

	var doc struct {
		OK      int `json:"ok"`
		Results []struct {
			Line  int    `json:"line"`
			Value string `json:"value"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	require.Equal(t, 2, doc.OK)
	require.Equal(t, "2.5", doc.Results[0].Value)
	require.Equal(t, 2, doc.Results[1].Line)
}

func TestBatchRejectsBadFlags(t *testing.T) {
	res := invoke(t, "", "batch", "--ui", "sometimes", "-")
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "invalid --ui value")

	res = invoke(t, "", "batch", "--format", "xml", "-")
	require.Equal(t, exitError, res.code)
	require.Contains(t, res.stderr, "invalid format")
}

func TestReplPiped(t *testing.T) {
	res := invoke(t, "1 + 1\n# note\n2 ^ 0.5\n6 * 7\n", "repl")
	require.Equal(t, exitError, res.code)
	require.Equal(t, "2\n", strings.SplitN(res.stdout, "\n", 2)[0]+"\n")
	require.Contains(t, res.stdout, "error: domain error")
	require.True(t, strings.HasSuffix(res.stdout, "42\n"))
}

func TestVersionJSON(t *testing.T) {
	res := invoke(t, "", "version", "--format", "json", "--full")
	require.Equal(t, exitOK, res.code)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	require.Equal(t, "ksnum", payload.Tool)
	require.Equal(t, "unknown", payload.GitCommit)

	res = invoke(t, "", "version")
	require.True(t, strings.HasPrefix(res.stdout, "ksnum "), res.stdout)
}

func TestBadConfigFails(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "ksnum.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[eval]\nmode = \"float\"\n"), 0o600))
	var out, errOut bytes.Buffer
	code := run([]string{"--color", "off", "--config", cfg, "eval", "1"}, strings.NewReader(""), &out, &errOut)
	require.Equal(t, exitError, code)
	require.Contains(t, errOut.String(), "[eval].mode")
}

func TestReadBatch(t *testing.T) {
	lines, err := readBatch(strings.NewReader("  1 + 1  \n\n# c\n\t2\n"))
	require.NoError(t, err)
	require.Equal(t, []batchLine{{line: 1, expr: "1 + 1"}, {line: 4, expr: "2"}}, lines)
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := readUIMode("maybe")
	require.Error(t, err)
	require.False(t, shouldUseTUI(uiModeAuto, &bytes.Buffer{}))
	require.True(t, shouldUseTUI(uiModeOn, nil))
}
