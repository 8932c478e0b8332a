package scan

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

const (
	applyKeyword = "@apply"
	important    = "!important"
)

type cssScanner struct{}

func (cssScanner) Dialect() Dialect { return DialectCSS }

// Scopes widens the changed span to the nearest unescaped '{', '}' or ';' on
// each side and returns the pieces between those delimiters.
func (cssScanner) Scopes(text string, changed Span) []Span {
	changed = changed.Clamp(len(text))
	if strings.TrimSpace(changed.Text(text)) == "" {
		return nil
	}

	start := changed.Start
	for start > 0 && !isCSSBoundary(text, start-1) {
		start--
	}
	end := changed.End()
	for end < len(text) && !isCSSBoundary(text, end) {
		end++
	}

	var scopes []Span
	segment := start
	for i := start; i <= end; i++ {
		if i < end && !isCSSBoundary(text, i) {
			continue
		}
		if i > segment && strings.TrimSpace(text[segment:i]) != "" {
			scopes = append(scopes, NewSpan(segment, i).WithVersion(changed.Version))
		}
		segment = i + 1
	}
	return scopes
}

func isCSSBoundary(text string, i int) bool {
	switch text[i] {
	case '{', '}', ';':
		return i == 0 || text[i-1] != '\\'
	}
	return false
}

// Regions returns the argument list of an @apply rule that opens the scope,
// without the keyword, the trailing ';' or a trailing !important.
func (cssScanner) Regions(text string, scope Span) []Span {
	scope = scope.Clamp(len(text))
	offset, ok := applyArguments(scope.Text(text))
	if !ok {
		return nil
	}

	start, end := scope.Start+offset, scope.End()
	start, end = trimSpace(text, start, end)
	if end > start && text[end-1] == ';' {
		start, end = trimSpace(text, start, end-1)
	}
	if end-start >= len(important) && strings.EqualFold(text[end-len(important):end], important) {
		start, end = trimSpace(text, start, end-len(important))
	}
	if end <= start {
		return nil
	}
	return []Span{NewSpan(start, end).WithVersion(scope.Version)}
}

func (cssScanner) Split(text string, region Span) []ClassToken {
	return splitFields(text, region)
}

// applyArguments lexes the head of a CSS scope and returns the offset just
// past a leading @apply keyword. Whitespace and comments may precede it.
func applyArguments(scope string) (int, bool) {
	lexer := css.NewLexer(parse.NewInputString(scope))
	pos := 0
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.WhitespaceToken, css.CommentToken:
			pos += len(data)
			continue
		case css.AtKeywordToken:
			if strings.EqualFold(string(data), applyKeyword) {
				return pos + len(data), true
			}
		}
		return 0, false
	}
}

func trimSpace(text string, start, end int) (int, int) {
	for start < end && isSpace(text[start]) {
		start++
	}
	for end > start && isSpace(text[end-1]) {
		end--
	}
	return start, end
}
