package twsense

import (
	"io"
	"os"
)

// OutputFormat represents the linter output format
type OutputFormat string

const (
	// OutputIssues prints issues in golangci-lint format (default)
	OutputIssues OutputFormat = "issues"
	// OutputSummary prints statistics without individual issues
	OutputSummary OutputFormat = "summary"
	// OutputFull prints issues followed by statistics
	OutputFull OutputFormat = "full"
	// OutputJSON prints the machine-readable report
	OutputJSON OutputFormat = "json"
	// OutputMarkdown prints a report suitable for PR comments
	OutputMarkdown OutputFormat = "markdown"
)

// DetermineOutputFormat selects the appropriate output format based on flags
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// Explicit -quiet flag wins (exit code only)
	if quiet {
		return OutputIssues
	}

	switch formatFlag {
	case "issues":
		return OutputIssues
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	case "json":
		return OutputJSON
	case "markdown", "md":
		return OutputMarkdown
	}
	return OutputIssues
}

// WriteOutput writes the lint result in the specified format
func WriteOutput(w io.Writer, result *LintResult, format OutputFormat, config LintConfig) {
	switch format {
	case OutputIssues:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)

	case OutputSummary:
		verbose := NewVerboseReporter(w, config.UseColors)
		verbose.PrintStatistics(*result)
		verbose.PrintCoverage(*result)
		verbose.PrintUnsorted(*result)
		verbose.PrintWarnings(*result)

	case OutputFull:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)

		verbose := NewVerboseReporter(w, reporter.UseColors())
		verbose.PrintStatistics(*result)
		verbose.PrintCoverage(*result)
		verbose.PrintUnsorted(*result)
		verbose.PrintWarnings(*result)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}

	case OutputMarkdown:
		if err := WriteMarkdown(w, result); err != nil {
			os.Stderr.WriteString("Error writing Markdown: " + err.Error() + "\n")
		}
	}
}
