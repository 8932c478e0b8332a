package scan

import "strings"

var (
	jsAttributes = []string{"class", "className"}

	// HelperFunctions are the call names whose string arguments hold classes.
	HelperFunctions = []string{"clsx", "classnames", "classNames", "cn", "cva", "twMerge", "twJoin", "tw"}
)

type jsScanner struct{}

func (jsScanner) Dialect() Dialect { return DialectJS }

// Scopes works on whole lines so helper calls outside markup are covered.
func (jsScanner) Scopes(text string, changed Span) []Span {
	return tagScopes(plainTags{}, text, changed, true)
}

func (jsScanner) Regions(text string, scope Span) []Span {
	scope = scope.Clamp(len(text))
	var regions []Span
	forEachTag(plainTags{}, text, scope, func(tag Span) {
		regions = append(regions, plainAttributeRegions(text, tag, jsAttributes, true)...)
	})
	regions = append(regions, helperRegions(text, scope)...)
	return sortSpans(regions)
}

func (jsScanner) Split(text string, region Span) []ClassToken {
	return splitTemplate(text, region)
}

// helperRegions returns every string literal passed to a helper call.
func helperRegions(text string, scope Span) []Span {
	var regions []Span
	end := scope.End()
	for _, name := range HelperFunctions {
		for i := scope.Start; i < end; {
			idx := strings.Index(text[i:end], name)
			if idx < 0 {
				break
			}
			at := i + idx
			i = at + len(name)
			if at > 0 && isIdentChar(text[at-1]) {
				continue
			}
			open := skipSpaces(text, at+len(name), end)
			if open >= end || text[open] != '(' {
				continue
			}
			closeAt, strs := callStrings(text, open, end)
			for _, s := range strs {
				s.Version = scope.Version
				regions = append(regions, s)
			}
			i = closeAt
		}
	}
	return regions
}

// callStrings walks the argument list opened at text[open] == '(' and returns
// the offset past the matching ')' along with the contents of every string
// literal inside it.
func callStrings(text string, open, end int) (int, []Span) {
	var strs []Span
	depth := 0
	for i := open; i < end; i++ {
		switch c := text[i]; c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1, strs
			}
		case '"', '\'', '`':
			closeAt := stringEnd(text, i+1, end, c)
			if closeAt > i+1 {
				strs = append(strs, NewSpan(i+1, closeAt))
			}
			i = closeAt
		}
	}
	return end, strs
}

// stringEnd returns the offset of the quote closing a string literal,
// honoring backslash escapes and ${...} in template literals.
func stringEnd(text string, from, end int, quote byte) int {
	depth := 0
	for i := from; i < end; i++ {
		c := text[i]
		switch {
		case c == '\\':
			i++
		case quote == '`' && c == '$' && i+1 < end && text[i+1] == '{':
			depth++
			i++
		case depth > 0 && c == '}':
			depth--
		case depth == 0 && c == quote:
			return i
		}
	}
	return end
}
