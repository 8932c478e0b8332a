package twsense

// Issue represents a single linting violation in golangci-lint format
type Issue struct {
	FromLinter  string       `json:"FromLinter"`  // "twconflict"
	Text        string       `json:"Text"`        // "text-sm is overridden by text-lg"
	Severity    string       `json:"Severity"`    // "error", "warning", "info"
	SourceLines []string     `json:"SourceLines"` // Lines of code with issue
	Pos         IssuePos     `json:"Pos"`         // File location
	LineRange   *LineRange   `json:"LineRange"`   // Optional range
	Replacement *Replacement `json:"Replacement"` // Optional fix suggestion
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "src/components/Button.tsx"
	Offset   int    `json:"Offset"`   // 0-based byte offset
	Line     int    `json:"Line"`     // 35
	Column   int    `json:"Column"`   // 15 (1-based, exact start of the class)
}

// LineRange specifies a range of lines
type LineRange struct {
	From int `json:"From"`
	To   int `json:"To"`
}

// Replacement is the sorted class list for the region an issue sits in.
type Replacement struct {
	NewText      string
	InlineLength int // Length of text to replace
}

// Severity levels. SeverityNone disables conflict reporting.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
	SeverityNone    = "none"
)

// Linter names
const (
	LinterConflict = "twconflict"
	LinterUnknown  = "twunknown"
)

// Issue messages
const (
	IssueUnknownClass = "unknown Tailwind class %q"
)

// ValidSeverity reports whether s is a known severity level.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo, SeverityNone:
		return true
	}
	return false
}
