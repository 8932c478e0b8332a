package twsense

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteMarkdown writes the lint result as a Markdown report, grouped by file.
func WriteMarkdown(w io.Writer, result *LintResult) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# Tailwind Lint Report")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "| Metric | Value |")
	fmt.Fprintln(bw, "| --- | --- |")
	fmt.Fprintf(bw, "| Files scanned | %d |\n", result.FilesScanned)
	fmt.Fprintf(bw, "| Classes found | %d |\n", result.ClassesFound)
	fmt.Fprintf(bw, "| Known classes | %d (%.1f%%) |\n", result.KnownClasses, result.KnownPercentage())
	fmt.Fprintf(bw, "| Conflict groups | %d |\n", result.ConflictGroups)
	fmt.Fprintf(bw, "| Errors | %d |\n", result.ErrorCount)
	fmt.Fprintf(bw, "| Warnings | %d |\n", result.WarningCount)

	if len(result.Issues) == 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "No issues found.")
	} else {
		byFile := make(map[string][]Issue)
		for _, issue := range result.Issues {
			byFile[issue.Pos.Filename] = append(byFile[issue.Pos.Filename], issue)
		}
		files := make([]string, 0, len(byFile))
		for f := range byFile {
			files = append(files, f)
		}
		sort.Strings(files)

		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "## Issues")
		for _, f := range files {
			fmt.Fprintln(bw)
			fmt.Fprintf(bw, "### `%s`\n\n", f)
			fmt.Fprintln(bw, "| Line | Col | Severity | Linter | Message |")
			fmt.Fprintln(bw, "| ---: | ---: | --- | --- | --- |")
			for _, issue := range byFile[f] {
				fmt.Fprintf(bw, "| %d | %d | %s | %s | %s |\n",
					issue.Pos.Line, issue.Pos.Column, issue.Severity, issue.FromLinter, escapeMarkdownCell(issue.Text))
			}
		}
	}

	if len(result.UnsortedFiles) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "## Unsorted Files")
		fmt.Fprintln(bw)
		for _, f := range result.UnsortedFiles {
			fmt.Fprintf(bw, "- `%s`\n", f)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "## Warnings")
		fmt.Fprintln(bw)
		for _, warning := range result.Warnings {
			fmt.Fprintf(bw, "- %s\n", warning)
		}
	}

	return bw.Flush()
}

func escapeMarkdownCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
