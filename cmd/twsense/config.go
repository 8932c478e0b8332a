package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/twsense"
	"github.com/yacobolo/twsense/internal/logging"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".twsense.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// Only flags that were explicitly set override file and env values
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// TWSENSE_PROJECT_* belongs to the project loader, not the CLI
	if err := k.Load(env.Provider("TWSENSE_", ".", func(s string) string {
		// TWSENSE_LINT_STRICT -> lint.strict
		// TWSENSE_VERBOSE -> verbose
		s = strings.ToLower(strings.TrimPrefix(s, "TWSENSE_"))
		if strings.HasPrefix(s, "project_") {
			return ""
		}
		return strings.ReplaceAll(s, "_", ".")
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildLintConfig constructs the library's LintConfig struct from koanf state.
func buildLintConfig(out io.Writer) twsense.LintConfig {
	return twsense.LintConfig{
		Root:               getStringWithFallback("root", "root", "."),
		Patterns:           getStringsWithFallback("paths", "lint.paths", twsense.DefaultPatterns),
		Jobs:               getIntWithFallback("jobs", "jobs", 0),
		Severity:           getStringWithFallback("severity", "lint.severity", twsense.SeverityWarning),
		UnknownSeverity:    getStringWithFallback("unknown-severity", "lint.unknown-severity", twsense.SeverityNone),
		CheckSorted:        getBoolWithFallback("check-sorted", "lint.check-sorted", false),
		Strict:             getBoolWithFallback("strict", "lint.strict", false),
		MaxIssuesPerLinter: getIntWithFallback("max-issues-per-linter", "lint.max-issues-per-linter", 0),
		MaxSameIssues:      getIntWithFallback("max-same-issues", "lint.max-same-issues", 0),
		ShowStats:          true,
		PrintIssuedLines:   getBoolWithFallback("print-lines", "lint.print-lines", true),
		PrintLinterName:    getBoolWithFallback("print-linter-name", "lint.print-linter-name", true),
		UseColors:          twsense.ColorEnabled(getStringWithFallback("color", "color", "auto"), out),
	}
}

// buildSortConfig constructs the library's SortConfig struct from koanf state.
func buildSortConfig() twsense.SortConfig {
	return twsense.SortConfig{
		Root:     getStringWithFallback("root", "root", "."),
		Patterns: getStringsWithFallback("paths", "sort.paths", twsense.DefaultPatterns),
		Jobs:     getIntWithFallback("jobs", "jobs", 0),
		Write:    getBoolWithFallback("write", "sort.write", false),
	}
}

// newLogger builds the CLI logger; --verbose wins over --log-level.
func newLogger() *log.Logger {
	level := getStringWithFallback("log-level", "log-level", "warn")
	if getBoolWithFallback("verbose", "verbose", false) {
		level = "debug"
	}
	logger := logging.New(level)
	logging.SetDefault(logger)
	return logger
}

// newEngine creates an engine with the project at the configured root loaded.
func newEngine(ctx context.Context) (context.Context, *twsense.Engine, error) {
	logger := newLogger()
	engine := twsense.New(twsense.WithLogger(logger))
	root := getStringWithFallback("root", "root", ".")
	if _, err := engine.LoadProject(root); err != nil {
		return ctx, nil, err
	}
	return logging.WithLogger(ctx, logger), engine, nil
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
