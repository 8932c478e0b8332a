// Package scan locates class-bearing regions in source text and splits them
// into class tokens. Scanners are heuristic and never fail: text they cannot
// make sense of simply yields no spans.
package scan

// Span is a half-open byte range [Start, Start+Length) in one version of a
// buffer. Spans do not survive edits.
type Span struct {
	Start   int
	Length  int
	Version int
}

// NewSpan returns the span [start, end).
func NewSpan(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Start: start, Length: end - start}
}

// End returns the exclusive end offset.
func (s Span) End() int { return s.Start + s.Length }

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool { return s.Length <= 0 }

// Contains reports whether pos lies inside the span.
func (s Span) Contains(pos int) bool { return pos >= s.Start && pos < s.End() }

// Overlaps reports whether the spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End() && o.Start < s.End()
}

// Union returns the smallest span covering both.
func (s Span) Union(o Span) Span {
	start, end := min(s.Start, o.Start), max(s.End(), o.End())
	return Span{Start: start, Length: end - start, Version: s.Version}
}

// Text returns the covered text. Out-of-range spans are clamped.
func (s Span) Text(text string) string {
	c := s.Clamp(len(text))
	return text[c.Start:c.End()]
}

// Clamp restricts the span to a buffer of length n.
func (s Span) Clamp(n int) Span {
	start, end := s.Start, s.End()
	start = max(0, min(start, n))
	end = max(start, min(end, n))
	return Span{Start: start, Length: end - start, Version: s.Version}
}

// WithVersion returns a copy stamped with the buffer version.
func (s Span) WithVersion(v int) Span {
	s.Version = v
	return s
}

// ClassToken is one whitespace-separated class in a region. Text is
// unescaped; Span covers the raw source. Dynamic tokens contain a template
// expression and are never resolved.
type ClassToken struct {
	Text    string
	Span    Span
	Dynamic bool
}
