package twsense

import (
	"fmt"
	"io"
	"strings"
)

// VerboseReporter handles detailed statistics
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs detailed linting statistics
func (r *VerboseReporter) PrintStatistics(result LintResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Tailwind Statistics", r.useColors))
	fmt.Fprintln(r.w, "-------------------")

	fmt.Fprintf(r.w, "Files Scanned:     %d (%d skipped)\n", result.FilesScanned, result.Stats.FilesSkipped)
	fmt.Fprintf(r.w, "Classes Found:     %d\n", result.ClassesFound)
	fmt.Fprintf(r.w, "Known Classes:     %d (%.1f%%)\n", result.KnownClasses, result.KnownPercentage())
	fmt.Fprintf(r.w, "Dynamic Tokens:    %d\n", result.DynamicTokens)
	fmt.Fprintf(r.w, "Conflict Groups:   %d\n", result.ConflictGroups)
	fmt.Fprintf(r.w, "Elapsed:           %s\n", result.Elapsed.Round(1e6))
}

// PrintCoverage shows how much of the class usage the catalog understands
func (r *VerboseReporter) PrintCoverage(result LintResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Catalog Coverage", r.useColors))
	fmt.Fprintln(r.w, "----------------")
	printProgressBar(r.w, result.KnownPercentage())
}

// PrintUnsorted lists files whose class lists are out of order
func (r *VerboseReporter) PrintUnsorted(result LintResult) {
	if len(result.UnsortedFiles) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Unsorted Files", r.useColors))
	fmt.Fprintln(r.w, "--------------")
	for i, path := range result.UnsortedFiles {
		if i >= 10 {
			fmt.Fprintf(r.w, "... and %d more\n", len(result.UnsortedFiles)-i)
			break
		}
		fmt.Fprintf(r.w, "%d. %s\n", i+1, path)
	}
	fmt.Fprintln(r.w, RenderStyle(StyleGray, "Run twsense sort --write to fix", r.useColors))
}

// PrintWarnings shows linter warnings
func (r *VerboseReporter) PrintWarnings(result LintResult) {
	if len(result.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "-----------")

	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

// printProgressBar prints a visual progress bar
func printProgressBar(w io.Writer, percentage float64) {
	const barWidth = 20
	filled := min(max(int(percentage/100*barWidth), 0), barWidth)
	fmt.Fprintf(w, "[%s%s] %.1f%%\n", strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), percentage)
}
