package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twsense"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report conflicting Tailwind classes",
	Long: `Scan source files for Tailwind class lists and report classes that set the
same CSS properties under the same variants, so one silently overrides the other.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLint(cmd, cmd.OutOrStdout())
	},
}

func init() {
	f := lintCmd.Flags()
	f.StringSlice("paths", nil, "File patterns to scan (default: all supported files)")
	f.Int("jobs", 0, "Files analyzed concurrently (0 = number of CPUs)")
	f.String("severity", "", "Severity of conflicts: error|warning|info|none (default: warning)")
	f.String("unknown-severity", "", "Severity of unknown classes: error|warning|info|none (default: none)")
	f.Bool("check-sorted", false, "Also report files whose class lists are not sorted")
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json|markdown")
	f.Int("max-issues-per-linter", 0, "Max issues to show per linter (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (twconflict) suffix on issues")
	completeValues(lintCmd, "output-format", outputFormats...)
	completeValues(lintCmd, "severity", severities...)
	completeValues(lintCmd, "unknown-severity", severities...)
}

// runLint is shared between `twsense lint` and `twsense watch`.
func runLint(cmd *cobra.Command, out io.Writer) error {
	ctx, engine, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	return lintOnce(ctx, cmd, engine, out)
}

func lintOnce(ctx context.Context, cmd *cobra.Command, engine *twsense.Engine, out io.Writer) error {
	lintConfig := buildLintConfig(out)

	lintResult, err := engine.Lint(ctx, lintConfig)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "lint.output-format", "")
	format := twsense.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		twsense.WriteOutput(out, lintResult, format, lintConfig)
	}

	// Exit code logic - "Soft Gate" approach: only errors fail the build,
	// unless strict mode treats every issue as fatal
	if lintResult.Failed(lintConfig.Strict) {
		if lintConfig.Strict && !quiet && lintResult.ErrorCount == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "\nStrict mode: issues found")
		}
		return &exitError{code: 1}
	}
	return nil
}
