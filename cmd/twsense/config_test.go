package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twsense"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

// resetFlags restores every flag of the command tree to its default, since
// rootCmd is shared between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetKoanf()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return -1
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".twsense.yaml")
	configContent := `
verbose: true
jobs: 4

lint:
  strict: true
  severity: error
  paths:
    - "src/**/*.html"

sort:
  write: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, 4, k.Int("jobs"))
	assert.True(t, k.Bool("lint.strict"))
	assert.Equal(t, "error", k.String("lint.severity"))
	assert.True(t, k.Bool("sort.write"))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	require.NoError(t, loadConfigFromPath("/nonexistent/.twsense.yaml"))

	config := buildSortConfig()
	assert.Equal(t, ".", config.Root)
	assert.Equal(t, twsense.DefaultPatterns, config.Patterns)
	assert.False(t, config.Write)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".twsense.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("lint:\n  strict: false\n"), 0644))

	t.Setenv("TWSENSE_LINT_STRICT", "true")
	t.Setenv("TWSENSE_PROJECT_PREFIX", "tw-")

	require.NoError(t, loadConfigFromPath(configPath))

	assert.True(t, k.Bool("lint.strict"))
	assert.False(t, k.Exists("project.prefix"))
}

func TestBuildLintConfig_Defaults(t *testing.T) {
	resetKoanf()

	config := buildLintConfig(&bytes.Buffer{})
	assert.Equal(t, ".", config.Root)
	assert.Equal(t, twsense.DefaultPatterns, config.Patterns)
	assert.Equal(t, twsense.SeverityWarning, config.Severity)
	assert.Equal(t, twsense.SeverityNone, config.UnknownSeverity)
	assert.False(t, config.Strict)
	assert.False(t, config.CheckSorted)
	assert.Equal(t, 0, config.MaxIssuesPerLinter)
	assert.True(t, config.PrintIssuedLines)
	assert.True(t, config.PrintLinterName)
	assert.False(t, config.UseColors)
}

func TestBuildLintConfig_FromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".twsense.yaml")
	configContent := `
color: always
lint:
  strict: true
  check-sorted: true
  unknown-severity: info
  paths:
    - "src/**/*.tsx"
  max-issues-per-linter: 10
  print-lines: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	config := buildLintConfig(&bytes.Buffer{})
	assert.True(t, config.Strict)
	assert.True(t, config.CheckSorted)
	assert.Equal(t, twsense.SeverityInfo, config.UnknownSeverity)
	assert.Equal(t, []string{"src/**/*.tsx"}, config.Patterns)
	assert.Equal(t, 10, config.MaxIssuesPerLinter)
	assert.False(t, config.PrintIssuedLines)
	assert.True(t, config.UseColors)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".twsense.yaml"), "lint:\n  severity: error\n")
	writeFile(t, filepath.Join(dir, "index.html"), `<div class="text-sm text-lg"></div>`)

	out, err := execute(t, "lint", "--root", dir, "--config", filepath.Join(dir, ".twsense.yaml"), "--severity", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "text-sm is overridden by text-lg")
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetStringsWithFallback(t *testing.T) {
	resetKoanf()
	require.NoError(t, k.Set("config.key", []string{"a"}))

	assert.Equal(t, []string{"a"}, getStringsWithFallback("flag-key", "config.key", nil))
	assert.Equal(t, []string{"d"}, getStringsWithFallback("x", "y", []string{"d"}))
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", "--root", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	data, err := os.ReadFile(filepath.Join(dir, ".twsense.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "project:")
	assert.Contains(t, string(data), "lint:")
	assert.Contains(t, string(data), "sort:")
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".twsense.yaml"), "existing")

	_, err := execute(t, "init", "--root", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".twsense.yaml"), "existing")

	_, err := execute(t, "init", "--root", dir, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".twsense.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "project:")
}

func TestInitConfigLoads(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", "--root", dir)
	require.NoError(t, err)

	resetKoanf()
	require.NoError(t, loadConfigFromPath(filepath.Join(dir, ".twsense.yaml")))
	config := buildLintConfig(&bytes.Buffer{})
	assert.Equal(t, twsense.SeverityWarning, config.Severity)
	assert.Equal(t, twsense.DefaultPatterns, config.Patterns)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "twsense dev\n", out)
}
