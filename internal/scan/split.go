package scan

import "strings"

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '-' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// splitFields splits a region on whitespace. Each token keeps its own span,
// so repeated classes map to distinct positions.
func splitFields(text string, region Span) []ClassToken {
	region = region.Clamp(len(text))
	var tokens []ClassToken
	start := -1
	for i := region.Start; i <= region.End(); i++ {
		if i < region.End() && !isSpace(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, ClassToken{
				Text: text[start:i],
				Span: NewSpan(start, i).WithVersion(region.Version),
			})
			start = -1
		}
	}
	return tokens
}

// splitTemplate splits a JS string, keeping ${...} interpolations (which may
// contain spaces) inside one dynamic token.
func splitTemplate(text string, region Span) []ClassToken {
	region = region.Clamp(len(text))
	var tokens []ClassToken
	start, depth := -1, 0
	dynamic := false
	flush := func(end int) {
		if start < 0 {
			return
		}
		tokens = append(tokens, ClassToken{
			Text:    text[start:end],
			Span:    NewSpan(start, end).WithVersion(region.Version),
			Dynamic: dynamic,
		})
		start, dynamic = -1, false
	}

	for i := region.Start; i < region.End(); {
		c := text[i]
		if depth == 0 && isSpace(c) {
			flush(i)
			i++
			continue
		}
		if start < 0 {
			start = i
		}
		switch {
		case c == '$' && i+1 < region.End() && text[i+1] == '{':
			depth++
			dynamic = true
			i += 2
			continue
		case depth > 0 && c == '{':
			depth++
		case depth > 0 && c == '}':
			depth--
		}
		i++
	}
	flush(region.End())
	return tokens
}

// splitRazor splits a Razor attribute value. A Razor expression keeps
// spaces and quotes inside one dynamic token; "@@" is a literal "@".
func splitRazor(text string, region Span) []ClassToken {
	region = region.Clamp(len(text))
	var tokens []ClassToken
	var m razorMachine
	start := -1
	dynamic := false
	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := text[start:end]
		tok := ClassToken{
			Text:    raw,
			Span:    NewSpan(start, end).WithVersion(region.Version),
			Dynamic: dynamic,
		}
		if !dynamic {
			tok.Text = strings.ReplaceAll(raw, "@@", "@")
		}
		tokens = append(tokens, tok)
		start, dynamic = -1, false
	}

	for i := region.Start; i < region.End(); {
		c := text[i]
		if !m.razor && isSpace(c) {
			flush(i)
			i++
			continue
		}
		if start < 0 {
			start = i
		}
		wasRazor := m.razor
		n, _ := m.advance(text, i, 0)
		switch {
		case !wasRazor && m.razor:
			dynamic = true
		case wasRazor && !m.razor && isSpace(c):
			flush(i)
		}
		i += n
	}
	flush(region.End())
	return tokens
}
