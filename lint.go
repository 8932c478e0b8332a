package twsense

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/twsense/internal/logging"
	"github.com/yacobolo/twsense/internal/scan"
)

// LintConfig holds linting configuration
type LintConfig struct {
	Root     string   // Project root; patterns are relative to it
	Patterns []string // Patterns to scan (e.g., "src/**/*.tsx")
	Jobs     int      // Files analyzed concurrently (0 = GOMAXPROCS)

	Severity        string // Severity of conflicts: error, warning, info, none
	UnknownSeverity string // Severity of unknown classes (default: none)
	CheckSorted     bool   // Report files whose class lists are out of order
	Strict          bool   // Fail on any issue, not only errors

	// golangci-style configuration
	MaxIssuesPerLinter int  // 0 = unlimited (default)
	MaxSameIssues      int  // 0 = unlimited (default)
	ShowStats          bool // Show statistics summary
	PrintIssuedLines   bool // Show source lines with issues (default: true)
	PrintLinterName    bool // Show (twconflict) suffix (default: true)
	UseColors          bool // Enable color output (default: auto-detect)
}

// LintResult contains linting analysis results
type LintResult struct {
	// Issues in golangci-lint format
	Issues           []Issue            // All issues found
	IssuesByCategory map[string][]Issue // Grouped by linter for stats

	// Statistics
	Stats          ScanStats
	FilesScanned   int
	ClassesFound   int // Static class tokens
	KnownClasses   int // Tokens the resolver recognized
	DynamicTokens  int // Template expressions inside class lists
	ConflictGroups int
	UnsortedFiles  []string
	ErrorCount     int
	WarningCount   int
	TruncatedCount int // Issues removed due to limits
	Elapsed        time.Duration

	Warnings []string
}

// KnownPercentage is the share of class tokens the catalog recognized.
func (r *LintResult) KnownPercentage() float64 {
	if r.ClassesFound == 0 {
		return 0
	}
	return float64(r.KnownClasses) / float64(r.ClassesFound) * 100
}

// Failed reports whether the run should fail: any error, or any issue at
// all in strict mode.
func (r *LintResult) Failed(strict bool) bool {
	if strict {
		return len(r.Issues) > 0 || r.TruncatedCount > 0 || len(r.UnsortedFiles) > 0
	}
	return r.ErrorCount > 0
}

type fileLint struct {
	issues    []Issue
	classes   int
	known     int
	dynamic   int
	conflicts int
	unsorted  bool
	warning   string
}

// Lint analyzes every matched file and reports conflicting classes.
func (e *Engine) Lint(ctx context.Context, config LintConfig) (*LintResult, error) {
	start := time.Now()
	if config.Severity == "" {
		config.Severity = SeverityWarning
	}
	if config.UnknownSeverity == "" {
		config.UnknownSeverity = SeverityNone
	}
	for _, s := range []string{config.Severity, config.UnknownSeverity} {
		if !ValidSeverity(s) {
			return nil, fmt.Errorf("invalid severity %q", s)
		}
	}

	// Step 1: Discover files
	files, stats, err := DiscoverFiles(config.Root, config.Patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan files: %w", err)
	}

	// Step 2: Analyze files concurrently, keeping per-file results in order
	perFile := make([]fileLint, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs(config.Jobs))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i] = e.lintFile(gctx, path, config)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lint canceled: %w", err)
	}

	// Step 3: Merge
	result := &LintResult{
		Stats:            stats,
		FilesScanned:     len(files),
		IssuesByCategory: make(map[string][]Issue),
	}
	for i, f := range perFile {
		result.Issues = append(result.Issues, f.issues...)
		result.ClassesFound += f.classes
		result.KnownClasses += f.known
		result.DynamicTokens += f.dynamic
		result.ConflictGroups += f.conflicts
		if f.unsorted {
			result.UnsortedFiles = append(result.UnsortedFiles, files[i])
		}
		if f.warning != "" {
			result.Warnings = append(result.Warnings, f.warning)
		}
	}

	// Step 4: Apply issue limiting if configured
	if config.MaxIssuesPerLinter > 0 || config.MaxSameIssues > 0 {
		result.Issues, result.TruncatedCount = limitIssues(result.Issues, config)
	}
	for _, issue := range result.Issues {
		result.IssuesByCategory[issue.FromLinter] = append(result.IssuesByCategory[issue.FromLinter], issue)
		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		}
	}
	result.Elapsed = time.Since(start)

	logging.FromContext(ctx).Debug("lint finished",
		logging.FieldFilesProcessed, result.FilesScanned,
		logging.FieldConflicts, result.ConflictGroups,
		logging.FieldElapsed, result.Elapsed)
	return result, nil
}

func (e *Engine) lintFile(ctx context.Context, path string, config LintConfig) fileLint {
	var out fileLint
	// #nosec G304 - paths come from glob expansion of user patterns
	content, err := os.ReadFile(path)
	if err != nil {
		out.warning = fmt.Sprintf("cannot read %s: %v", path, err)
		return out
	}
	text := string(content)

	a, err := e.Analyzer(path)
	if err != nil {
		out.warning = err.Error()
		return out
	}
	res, err := a.Analyze(ctx, text, scan.NewSpan(0, len(text)))
	if err != nil {
		out.warning = fmt.Sprintf("analyzing %s: %v", path, err)
		return out
	}

	lines := newLineIndex(text)
	for _, tok := range res.Tokens {
		if tok.Dynamic {
			out.dynamic++
			continue
		}
		out.classes++
		if tok.Known {
			out.known++
		} else if config.UnknownSeverity != SeverityNone {
			out.issues = append(out.issues, lines.issue(path, tok.Span.Start, LinterUnknown,
				fmt.Sprintf(IssueUnknownClass, tok.Text), config.UnknownSeverity))
		}
	}

	for _, d := range res.Diagnostics {
		if d.Winner {
			out.conflicts++
		}
		if config.Severity == SeverityNone {
			continue
		}
		out.issues = append(out.issues, lines.issue(path, d.Span.Start, LinterConflict, d.Message, config.Severity))
	}

	if config.CheckSorted {
		edits, err := a.SortEdits(ctx, text)
		out.unsorted = err == nil && len(edits) > 0
	}
	return out
}

// lineIndex maps byte offsets to 1-based lines and columns.
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts}
}

// position returns the line, column and line text of offset.
func (l *lineIndex) position(offset int) (int, int, string) {
	i := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	i = max(i, 0)
	start := l.starts[i]
	end := len(l.text)
	if i+1 < len(l.starts) {
		end = l.starts[i+1] - 1
	}
	line := strings.TrimRight(l.text[start:end], "\r")
	return i + 1, offset - start + 1, line
}

func (l *lineIndex) issue(path string, offset int, linter, text, severity string) Issue {
	line, col, source := l.position(offset)
	return Issue{
		FromLinter:  linter,
		Text:        text,
		Severity:    severity,
		SourceLines: []string{source},
		Pos:         IssuePos{Filename: path, Offset: offset, Line: line, Column: col},
	}
}

func jobs(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// limitIssues applies max-issues-per-linter and max-same-issues constraints
func limitIssues(issues []Issue, config LintConfig) ([]Issue, int) {
	originalCount := len(issues)

	// Apply max-issues-per-linter
	if config.MaxIssuesPerLinter > 0 {
		perLinter := make(map[string]int)
		var kept []Issue
		for _, issue := range issues {
			if perLinter[issue.FromLinter] < config.MaxIssuesPerLinter {
				kept = append(kept, issue)
				perLinter[issue.FromLinter]++
			}
		}
		issues = kept
	}

	// Apply max-same-issues (deduplication by message text)
	if config.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, config.MaxSameIssues)
	}

	return issues, originalCount - len(issues)
}

// deduplicateSameIssues limits how many times the same message appears
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		count := messageCounts[issue.Text]
		if count < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}

	return filtered
}
