package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yacobolo/twsense"
	"github.com/yacobolo/twsense/internal/logging"
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Put Tailwind class lists into canonical order",
	Long: `Rewrite every class list of the matched files into Tailwind's canonical
order. Without --write, only report the files that would change.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSort(cmd, cmd.OutOrStdout())
	},
}

func init() {
	f := sortCmd.Flags()
	f.StringSlice("paths", nil, "File patterns to sort (default: all supported files)")
	f.Int("jobs", 0, "Files sorted concurrently (0 = number of CPUs)")
	f.BoolP("write", "w", false, "Rewrite files in place")
	f.Bool("diff", false, "Print a unified diff for every changed file")
	f.Bool("check", false, "Exit 1 when any file is not sorted")
}

func runSort(cmd *cobra.Command, out io.Writer) error {
	ctx, engine, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	sortConfig := buildSortConfig()
	sortConfig.Progress = func(p twsense.Progress) {
		logger.Debug("sorted", logging.FieldPath, p.Path, "status", p.Status, "done", p.Done, "total", p.Total)
	}

	result, err := engine.SortFiles(ctx, sortConfig)
	if err != nil {
		return err
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	showDiff := getBoolWithFallback("diff", "sort.diff", false)
	useColors := twsense.ColorEnabled(getStringWithFallback("color", "color", "auto"), out)

	if !quiet {
		for _, fs := range result.Files {
			switch fs.Status {
			case twsense.StatusChanged:
				verb := "would sort"
				if sortConfig.Write {
					verb = "sorted"
				}
				fmt.Fprintf(out, "%s %s\n", verb, twsense.RenderStyle(twsense.StyleCyan, fs.Path, useColors))
				if showDiff {
					fmt.Fprint(out, twsense.UnifiedDiff(fs.Path, fs.Original, fs.Sorted, useColors))
				}
			case twsense.StatusFailed:
				fmt.Fprintf(out, "%s %s: %v\n", twsense.RenderStyle(twsense.StyleRed, "failed", useColors), fs.Path, fs.Err)
			}
		}
		fmt.Fprintf(out, "%d changed, %d unchanged, %d skipped, %d failed\n",
			result.Changed, result.Unchanged, result.Skipped, result.Failed)
	}

	check := getBoolWithFallback("check", "sort.check", false)
	if result.Failed > 0 || (check && !sortConfig.Write && result.Changed > 0) {
		return &exitError{code: 1}
	}
	return nil
}
