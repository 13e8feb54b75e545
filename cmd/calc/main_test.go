package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"eval", "2+3*4="}, "20"},
		{[]string{"eval", "1", "2", "+", "3", "="}, "15"},
		{[]string{"eval", "16r"}, "4"},
		{[]string{"eval", "1/0="}, "Error"},
		{[]string{"eval", "1/0=7"}, "7"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestEvalTrace(t *testing.T) {
	out, _, err := run(t, "eval", "--trace", "5+2=")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "5 + ")
	assert.Contains(t, lines[3], "normal")
	assert.Equal(t, "7", lines[4])
}

func TestEvalErrors(t *testing.T) {
	_, _, err := run(t, "eval", "2%3")
	assert.Error(t, err)

	_, _, err = run(t, "eval")
	assert.Error(t, err)

	_, _, err = run(t, "--log-level", "loud", "eval", "1")
	assert.Error(t, err)
}

func TestEvalLogsErrors(t *testing.T) {
	_, stderr, err := run(t, "--log-level", "debug", "eval", "0i")
	require.NoError(t, err)
	assert.Contains(t, stderr, "evaluation ended in error")
}

func TestEvalKeymapOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calcx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keymap:\n  x: multiply\n"), 0o644))

	out, _, err := run(t, "--config", path, "eval", "6x7=")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestChart(t *testing.T) {
	out, _, err := run(t, "chart")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph Calculator")

	out, _, err = run(t, "chart", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"initial"`)
}
