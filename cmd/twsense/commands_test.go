package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLintCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), `<div class="text-sm text-lg"></div>`)

	t.Run("soft gate passes on warnings", func(t *testing.T) {
		out, err := execute(t, "lint", "--root", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "index.html:1:13: text-sm is overridden by text-lg (twconflict)")
		assert.Contains(t, out, "2 issues:")
	})

	t.Run("errors fail", func(t *testing.T) {
		_, err := execute(t, "lint", "--root", dir, "--severity", "error")
		assert.Equal(t, 1, exitCode(err))
	})

	t.Run("strict fails on warnings", func(t *testing.T) {
		_, err := execute(t, "lint", "--root", dir, "--strict")
		assert.Equal(t, 1, exitCode(err))
	})

	t.Run("quiet prints nothing", func(t *testing.T) {
		out, err := execute(t, "lint", "--root", dir, "--quiet")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "lint", "--root", dir, "--output-format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"total_issues": 2`)
	})
}

func TestSortCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	writeFile(t, path, "<div class=\"p-4 m-2\"></div>\n")

	out, err := execute(t, "sort", "--root", dir, "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "would sort")
	assert.Contains(t, out, "-<div class=\"p-4 m-2\"></div>")
	assert.Contains(t, out, "+<div class=\"m-2 p-4\"></div>")
	assert.Contains(t, out, "1 changed, 0 unchanged, 0 skipped, 0 failed")

	_, err = execute(t, "sort", "--root", dir, "--check")
	assert.Equal(t, 1, exitCode(err))

	_, err = execute(t, "sort", "--root", dir, "--write")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<div class=\"m-2 p-4\"></div>\n", string(data))

	_, err = execute(t, "sort", "--root", dir, "--check")
	require.NoError(t, err)
}

func TestDescribeCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "describe", "--root", dir, "p-4", "bg-blue-500/50")
	require.NoError(t, err)
	assert.Contains(t, out, "p-4\n  Layout\n    padding: calc(var(--spacing) * 4);\n")
	assert.Contains(t, out, "bg-blue-500/50 rgb(59 130 246 / 0.5)")

	out, err = execute(t, "describe", "--root", dir, "nope")
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, "nope: unknown class")
}

func TestDescribeProjectConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".twsense.yaml"), "project:\n  colors:\n    brand: \"#ff0000\"\n")

	out, err := execute(t, "describe", "--root", dir, "text-brand")
	require.NoError(t, err)
	assert.Contains(t, out, "text-brand #ff0000")
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "__start_twsense")

	_, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestFlagValueCompletion(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"lint", "--output-format", ""}, outputFormats},
		{[]string{"watch", "--severity", ""}, severities},
		{[]string{"sort", "--color", ""}, []string{"auto", "always", "never"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:2], " "), func(t *testing.T) {
			out, err := execute(t, append([]string{cobra.ShellCompRequestCmd}, tt.args...)...)
			require.NoError(t, err)
			for _, v := range tt.want {
				assert.Contains(t, out, v+"\n")
			}
		})
	}
}
