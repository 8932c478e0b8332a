package scan

import (
	"sort"
	"strings"
)

// tagBounds locates tags for a markup dialect.
type tagBounds interface {
	// tagStart returns the '<' of the tag containing pos.
	tagStart(text string, pos int) (int, bool)
	// tagEnd returns the offset just past the '>' closing the tag opened at
	// start, or len(text) when the tag never closes.
	tagEnd(text string, start int) int
}

type plainTags struct{}

func (plainTags) tagStart(text string, pos int) (int, bool) {
	pos = min(pos, len(text))
	lt := strings.LastIndexByte(text[:pos], '<')
	if lt < 0 {
		return -1, false
	}
	if plainTagEnd(text, lt) > pos {
		return lt, true
	}
	return -1, false
}

func (plainTags) tagEnd(text string, start int) int {
	return plainTagEnd(text, start)
}

// plainTagEnd skips quoted attribute values and {...} expressions.
func plainTagEnd(text string, start int) int {
	var quote byte
	depth := 0
	for i := start + 1; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || (c == '`' && depth > 0):
			quote = c
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == '>' && depth == 0:
			return i + 1
		}
	}
	return len(text)
}

// tagScopes widens the changed span to the tags it touches. With lines set
// the span is first widened to whole lines.
func tagScopes(bounds tagBounds, text string, changed Span, lines bool) []Span {
	changed = changed.Clamp(len(text))
	start, end := changed.Start, changed.End()
	if lines {
		start, end = lineStart(text, start), lineEnd(text, end)
		start, end = balanceParens(text, start, end)
	}
	if s, ok := bounds.tagStart(text, start); ok {
		start = s
	}
	if s, ok := bounds.tagStart(text, end); ok {
		end = max(end, bounds.tagEnd(text, s))
	}
	if end <= start {
		return nil
	}
	return []Span{NewSpan(start, end).WithVersion(changed.Version)}
}

// forEachTag calls fn with every tag that starts inside scope, clipped to it.
func forEachTag(bounds tagBounds, text string, scope Span, fn func(tag Span)) {
	scope = scope.Clamp(len(text))
	for i := scope.Start; i < scope.End(); {
		lt := strings.IndexByte(text[i:scope.End()], '<')
		if lt < 0 {
			return
		}
		lt += i
		end := min(bounds.tagEnd(text, lt), scope.End())
		fn(NewSpan(lt, end).WithVersion(scope.Version))
		i = max(end, lt+1)
	}
}

// findAttribute returns the offset of the next attribute called one of names
// in [from, end). Attribute names must follow whitespace and be followed by
// '=' or whitespace, so ":class" and "classList" never match.
func findAttribute(text string, from, end int, names []string) (string, int) {
	bestName, best := "", -1
	for _, name := range names {
		for i := from; i < end; {
			idx := strings.Index(text[i:end], name)
			if idx < 0 {
				break
			}
			at := i + idx
			after := at + len(name)
			if at > 0 && isSpace(text[at-1]) && (after >= end || !isIdentChar(text[after]) && text[after] != ':') {
				if best < 0 || at < best {
					bestName, best = name, at
				}
				break
			}
			i = at + 1
		}
	}
	return bestName, best
}

// attributeValue parses `= "value"` after an attribute name ending at pos.
// It returns the opening quote offset and quote character.
func attributeValue(text string, pos, end int, braces bool) (int, byte, bool) {
	j := skipSpaces(text, pos, end)
	if j >= end || text[j] != '=' {
		return 0, 0, false
	}
	j = skipSpaces(text, j+1, end)
	braced := false
	if braces && j < end && text[j] == '{' {
		braced = true
		j = skipSpaces(text, j+1, end)
	}
	if j >= end {
		return 0, 0, false
	}
	switch q := text[j]; {
	case q == '"' || q == '\'':
		return j, q, true
	case q == '`' && braced:
		return j, q, true
	}
	return 0, 0, false
}

func skipSpaces(text string, i, end int) int {
	for i < end && isSpace(text[i]) {
		i++
	}
	return i
}

// plainAttributeRegions returns the quoted values of the named attributes.
func plainAttributeRegions(text string, tag Span, names []string, braces bool) []Span {
	var regions []Span
	end := tag.End()
	for i := tag.Start; i < end; {
		name, at := findAttribute(text, i, end, names)
		if at < 0 {
			break
		}
		open, quote, ok := attributeValue(text, at+len(name), end, braces)
		if !ok {
			i = at + len(name)
			continue
		}
		closeAt := end
		if idx := strings.IndexByte(text[open+1:end], quote); idx >= 0 {
			closeAt = open + 1 + idx
		}
		if closeAt > open+1 {
			regions = append(regions, NewSpan(open+1, closeAt).WithVersion(tag.Version))
		}
		i = closeAt + 1
	}
	return regions
}

func lineStart(text string, pos int) int {
	return strings.LastIndexByte(text[:pos], '\n') + 1
}

func lineEnd(text string, pos int) int {
	if idx := strings.IndexByte(text[pos:], '\n'); idx >= 0 {
		return pos + idx
	}
	return len(text)
}

const (
	maxLineExpansion = 32
	maxParenLookback = 4096
)

// balanceParens grows a line range to cover the call it sits in and any call
// it opens, so a helper call spread over several lines is scanned whole.
func balanceParens(text string, start, end int) (int, int) {
	if open := enclosingParen(text, start); open >= 0 {
		start = lineStart(text, open)
		if closeAt := matchingParen(text, open); closeAt >= end {
			end = lineEnd(text, closeAt)
		}
	}
	for range maxLineExpansion {
		if open, _ := parenBalance(text[start:end]); open == 0 || end >= len(text) {
			break
		}
		end = lineEnd(text, end+1)
	}
	return start, end
}

// enclosingParen returns the unmatched '(' before pos, or -1.
func enclosingParen(text string, pos int) int {
	depth := 0
	for i := pos - 1; i >= 0 && pos-i <= maxParenLookback; i-- {
		switch text[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// matchingParen returns the ')' closing text[open], or len(text)-1.
func matchingParen(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(text) - 1
}

func parenBalance(s string) (open, unmatched int) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			open++
		case ')':
			if open > 0 {
				open--
			} else {
				unmatched++
			}
		}
	}
	return open, unmatched
}

func sortSpans(spans []Span) []Span {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	out := spans[:0]
	for _, s := range spans {
		if n := len(out); n > 0 && out[n-1].Start == s.Start && out[n-1].Length == s.Length {
			continue
		}
		out = append(out, s)
	}
	return out
}
