package scan

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Dialect identifies the markup or style language of a buffer.
type Dialect int

// Supported dialects.
const (
	DialectUnknown Dialect = iota
	DialectHTML
	DialectRazor
	DialectCSS
	DialectJS
)

var dialectNames = map[Dialect]string{
	DialectUnknown: "unknown",
	DialectHTML:    "html",
	DialectRazor:   "razor",
	DialectCSS:     "css",
	DialectJS:      "js",
}

func (d Dialect) String() string {
	if n, ok := dialectNames[d]; ok {
		return n
	}
	return "unknown"
}

// Scanner finds class-bearing text for one dialect.
type Scanner interface {
	Dialect() Dialect
	// Scopes returns the minimal spans that must be re-evaluated after the
	// changed span was edited.
	Scopes(text string, changed Span) []Span
	// Regions returns the class lists inside a scope.
	Regions(text string, scope Span) []Span
	// Split breaks a region into class tokens.
	Split(text string, region Span) []ClassToken
}

// ForDialect returns the scanner for d, or nil for DialectUnknown.
func ForDialect(d Dialect) Scanner {
	switch d {
	case DialectHTML:
		return htmlScanner{}
	case DialectRazor:
		return razorScanner{}
	case DialectCSS:
		return cssScanner{}
	case DialectJS:
		return jsScanner{}
	default:
		return nil
	}
}

// languageDialects maps linguist language names to dialects.
var languageDialects = map[string]Dialect{
	"HTML":            DialectHTML,
	"HTML+ECR":        DialectHTML,
	"HTML+EEX":        DialectHTML,
	"HTML+ERB":        DialectHTML,
	"HTML+PHP":        DialectHTML,
	"HTML+Razor":      DialectRazor,
	"Vue":             DialectJS,
	"Svelte":          DialectJS,
	"Astro":           DialectJS,
	"JavaScript":      DialectJS,
	"JSX":             DialectJS,
	"TypeScript":      DialectJS,
	"TSX":             DialectJS,
	"CSS":             DialectCSS,
	"SCSS":            DialectCSS,
	"Less":            DialectCSS,
	"PostCSS":         DialectCSS,
	"Templ":           DialectJS,
	"Handlebars":      DialectHTML,
	"Twig":            DialectHTML,
	"Liquid":          DialectHTML,
	"Jinja":           DialectHTML,
	"Blade":           DialectHTML,
	"Go Template":     DialectHTML,
}

// extensionDialects covers extensions linguist leaves ambiguous or unknown.
var extensionDialects = map[string]Dialect{
	".cshtml": DialectRazor,
	".razor":  DialectRazor,
	".html":   DialectHTML,
	".htm":    DialectHTML,
	".js":     DialectJS,
	".jsx":    DialectJS,
	".ts":     DialectJS,
	".tsx":    DialectJS,
	".templ":  DialectJS,
	".css":    DialectCSS,
}

// DetectDialect guesses the dialect from a file name.
func DetectDialect(path string) (Dialect, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if d, ok := extensionDialects[ext]; ok {
		return d, true
	}
	if lang, safe := enry.GetLanguageByExtension(path); safe || lang != "" {
		if d, ok := languageDialects[lang]; ok {
			return d, true
		}
	}
	for _, lang := range enry.GetLanguagesByExtension(path, nil, nil) {
		if d, ok := languageDialects[lang]; ok {
			return d, true
		}
	}
	return DialectUnknown, false
}

// ScanAll returns every region in text, in order.
func ScanAll(s Scanner, text string) []Span {
	var regions []Span
	for _, scope := range s.Scopes(text, NewSpan(0, len(text))) {
		regions = append(regions, s.Regions(text, scope)...)
	}
	return regions
}
