package twsense

import (
	"encoding/json"
	"io"
	"time"
)

// SchemaVersion identifies the layout of JSONOutput.
const SchemaVersion = "1"

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version       string      `json:"version"`
	Timestamp     string      `json:"timestamp"`
	Summary       JSONSummary `json:"summary"`
	Stats         JSONStats   `json:"stats"`
	Issues        []JSONIssue `json:"issues"`
	UnsortedFiles []string    `json:"unsorted_files"`
	Warnings      []string    `json:"warnings,omitempty"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues  int `json:"total_issues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Truncated    int `json:"truncated"`
	FilesScanned int `json:"files_scanned"`
	FilesSkipped int `json:"files_skipped"`
}

// JSONStats contains class usage statistics
type JSONStats struct {
	ClassesFound    int     `json:"classes_found"`
	KnownClasses    int     `json:"known_classes"`
	KnownPercentage float64 `json:"known_percentage"`
	DynamicTokens   int     `json:"dynamic_tokens"`
	ConflictGroups  int     `json:"conflict_groups"`
	ElapsedMillis   int64   `json:"elapsed_ms"`
}

// JSONIssue represents a single linting issue
type JSONIssue struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Linter      string `json:"linter"`
	Source      string `json:"source,omitempty"`
	Replacement string `json:"replacement,omitempty"`
}

// WriteJSON writes the lint result as indented JSON
func WriteJSON(w io.Writer, result *LintResult) error {
	return writeJSONAt(w, result, time.Now())
}

func writeJSONAt(w io.Writer, result *LintResult, now time.Time) error {
	output := JSONOutput{
		Version:   SchemaVersion,
		Timestamp: now.UTC().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       result.ErrorCount,
			Warnings:     result.WarningCount,
			Truncated:    result.TruncatedCount,
			FilesScanned: result.FilesScanned,
			FilesSkipped: result.Stats.FilesSkipped,
		},
		Stats: JSONStats{
			ClassesFound:    result.ClassesFound,
			KnownClasses:    result.KnownClasses,
			KnownPercentage: result.KnownPercentage(),
			DynamicTokens:   result.DynamicTokens,
			ConflictGroups:  result.ConflictGroups,
			ElapsedMillis:   result.Elapsed.Milliseconds(),
		},
		Issues:        make([]JSONIssue, 0, len(result.Issues)),
		UnsortedFiles: result.UnsortedFiles,
		Warnings:      result.Warnings,
	}
	if output.UnsortedFiles == nil {
		output.UnsortedFiles = []string{}
	}

	for _, issue := range result.Issues {
		ji := JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
		}
		if len(issue.SourceLines) > 0 {
			ji.Source = issue.SourceLines[0]
		}
		if issue.Replacement != nil {
			ji.Replacement = issue.Replacement.NewText
		}
		output.Issues = append(output.Issues, ji)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
