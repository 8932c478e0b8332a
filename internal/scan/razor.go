package scan

import "strings"

var razorAttributes = []string{"class"}

type razorScanner struct{}

func (razorScanner) Dialect() Dialect { return DialectRazor }

func (razorScanner) Scopes(text string, changed Span) []Span {
	return tagScopes(razorTags{}, text, changed, false)
}

func (razorScanner) Regions(text string, scope Span) []Span {
	var regions []Span
	forEachTag(razorTags{}, text, scope, func(tag Span) {
		end := tag.End()
		for i := tag.Start; i < end; {
			name, at := findAttribute(text, i, end, razorAttributes)
			if at < 0 {
				return
			}
			open, quote, ok := attributeValue(text, at+len(name), end, false)
			if !ok {
				i = at + len(name)
				continue
			}
			closeAt := min(razorValueEnd(text, open+1, quote), end)
			if closeAt > open+1 {
				regions = append(regions, NewSpan(open+1, closeAt).WithVersion(tag.Version))
			}
			i = closeAt + 1
		}
	})
	return regions
}

func (razorScanner) Split(text string, region Span) []ClassToken {
	return splitRazor(text, region)
}

// razorMachine tracks Razor expressions inside markup. Razor mode starts at
// '@' (but "@@" is a literal) and ends at whitespace or the attribute quote
// once parentheses are balanced and no string is open. Parentheses are only
// counted in Razor mode; a '"' toggles the string state unless it is escaped
// inside a string.
type razorMachine struct {
	razor    bool
	depth    int
	inString bool
}

// advance consumes text[i] and reports how many bytes were used and whether
// the byte closes an attribute value delimited by quote. It returns n == 0
// when Razor mode ends at a '>' that the caller must handle.
func (m *razorMachine) advance(text string, i int, quote byte) (int, bool) {
	c := text[i]
	if !m.razor {
		if c == '@' {
			if i+1 < len(text) && text[i+1] == '@' {
				return 2, false
			}
			*m = razorMachine{razor: true}
			return 1, false
		}
		return 1, quote != 0 && c == quote
	}

	switch {
	case c == '"' && m.inString && i > 0 && text[i-1] == '\\':
	case c == '"' && (m.inString || m.depth > 0):
		m.inString = !m.inString
	case m.inString:
	case c == '(':
		m.depth++
	case c == ')' && m.depth > 0:
		m.depth--
	case m.depth > 0:
	case isSpace(c):
		m.razor = false
	case quote != 0 && c == quote:
		m.razor = false
		return 1, true
	case quote == 0 && c == '>':
		m.razor = false
		return 0, false
	}
	return 1, false
}

// razorValueEnd returns the offset of the quote closing an attribute value
// that starts at from, or len(text) when it never closes.
func razorValueEnd(text string, from int, quote byte) int {
	var m razorMachine
	for i := from; i < len(text); {
		n, closes := m.advance(text, i, quote)
		if closes {
			return i
		}
		i += max(n, 1)
	}
	return len(text)
}

type razorTags struct{}

// tagStart walks backward from pos. A ')' closing an "@(...)" or
// "@Name(...)" expression skips the whole expression; any other ')' is plain
// text. '<' outside an expression is the candidate tag start, confirmed by
// replaying the tag forward.
func (razorTags) tagStart(text string, pos int) (int, bool) {
	pos = min(pos, len(text))
	for i := pos - 1; i >= 0; i-- {
		switch text[i] {
		case ')':
			if at, ok := razorExpressionStart(text, i); ok {
				i = at
			}
		case '<':
			if razorTagEnd(text, i) > pos {
				return i, true
			}
			return -1, false
		}
	}
	return -1, false
}

// razorExpressionStart returns the index of the '@' opening the expression
// whose closing ')' is at closeAt. Parentheses inside strings do not count.
// A ')' whose matching '(' is not preceded by '@' or '@Name' is not an
// expression, nor is one with no matching '(' at all.
func razorExpressionStart(text string, closeAt int) (int, bool) {
	depth := 0
	inString := false
	for i := closeAt; i >= 0; i-- {
		c := text[i]
		switch {
		case c == '"' && inString && i > 0 && text[i-1] == '\\':
			i--
		case c == '"':
			inString = !inString
		case inString:
		case c == ')':
			depth++
		case c == '(':
			depth--
			if depth > 0 {
				continue
			}
			j := i
			for j > 0 && (isIdentChar(text[j-1]) || text[j-1] == '.') {
				j--
			}
			if j > 0 && text[j-1] == '@' && (j < 2 || text[j-2] != '@') {
				return j - 1, true
			}
			return 0, false
		}
	}
	return 0, false
}

func (razorTags) tagEnd(text string, start int) int {
	return razorTagEnd(text, start)
}

func razorTagEnd(text string, start int) int {
	var m razorMachine
	for i := start + 1; i < len(text); {
		if m.razor {
			n, _ := m.advance(text, i, 0)
			i += n
			continue
		}
		switch c := text[i]; c {
		case '"', '\'':
			i = razorValueEnd(text, i+1, c) + 1
		case '>':
			return i + 1
		default:
			n, _ := m.advance(text, i, 0)
			i += n
		}
	}
	return len(text)
}

// HasRazorExpression reports whether s contains an unescaped '@'.
func HasRazorExpression(s string) bool {
	return strings.Contains(strings.ReplaceAll(s, "@@", ""), "@")
}
