// Package analysis runs the scan, resolve and conflict pipeline over one
// buffer of text.
package analysis

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yacobolo/twsense/internal/csscolor"
	"github.com/yacobolo/twsense/internal/order"
	"github.com/yacobolo/twsense/internal/resolve"
	"github.com/yacobolo/twsense/internal/scan"
)

// SeverityConflict is the severity key of conflict diagnostics.
const SeverityConflict = "tailwind-conflict"

// Token is a class token with what the resolver knows about it.
type Token struct {
	scan.ClassToken
	// Region indexes Result.Regions.
	Region      int
	Known       bool
	Description string
	Color       csscolor.RGBA
	HasColor    bool
}

// Diagnostic reports a class overridden by, or overriding, another class
// in the same region.
type Diagnostic struct {
	Span     scan.Span
	Class    string
	Message  string
	Severity string
	Winner   bool
}

// Result is what one analysis pass found.
type Result struct {
	// Scopes are the spans that must be re-tagged.
	Scopes      []scan.Span
	Regions     []scan.Span
	Tokens      []Token
	Diagnostics []Diagnostic
}

// TokenAt returns the token covering pos.
func (r Result) TokenAt(pos int) (Token, bool) {
	for _, t := range r.Tokens {
		if t.Span.Contains(pos) {
			return t, true
		}
	}
	return Token{}, false
}

// Analyzer ties a dialect scanner to a project's resolver and order engine.
type Analyzer struct {
	scanner  scan.Scanner
	resolver *resolve.Resolver
	order    *order.Engine
}

// New creates an analyzer.
func New(scanner scan.Scanner, resolver *resolve.Resolver, engine *order.Engine) *Analyzer {
	return &Analyzer{scanner: scanner, resolver: resolver, order: engine}
}

// Analyze scans the scopes affected by an edit of changed and resolves every
// class inside them. Pass the whole buffer as changed for a full scan. It
// stops early with ctx's error when ctx is canceled.
func (a *Analyzer) Analyze(ctx context.Context, text string, changed scan.Span) (Result, error) {
	var res Result
	if a.scanner == nil {
		return res, nil
	}
	res.Scopes = a.scanner.Scopes(text, changed.Clamp(len(text)))
	for _, scope := range res.Scopes {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("analysis canceled: %w", err)
		}
		for _, region := range a.scanner.Regions(text, scope) {
			a.analyzeRegion(&res, text, region)
		}
	}
	return res, nil
}

func (a *Analyzer) analyzeRegion(res *Result, text string, region scan.Span) {
	regionIndex := len(res.Regions)
	res.Regions = append(res.Regions, region)

	tokens := a.scanner.Split(text, region)
	var (
		classes []string
		spans   []scan.Span
	)
	for _, tok := range tokens {
		t := Token{ClassToken: tok, Region: regionIndex}
		if !tok.Dynamic {
			if r, ok := a.resolver.Resolve(tok.Text); ok {
				t.Known = true
				t.Description = r.Description
				t.Color, t.HasColor = r.Color, r.HasColor
			}
			classes = append(classes, tok.Text)
			spans = append(spans, tok.Span)
		}
		res.Tokens = append(res.Tokens, t)
	}

	for _, group := range a.order.Conflicts(classes) {
		for _, d := range group.Diagnostics() {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Span:     spans[d.Index],
				Class:    d.Class,
				Message:  d.Message,
				Severity: SeverityConflict,
				Winner:   d.Winner,
			})
		}
	}
}

// Edit replaces Span with Text.
type Edit struct {
	Span scan.Span
	Text string
}

// SortEdits returns the edits that put every class region of text into
// canonical order. Dynamic tokens keep their slots; only static classes
// move. Regions already in order produce no edit.
func (a *Analyzer) SortEdits(ctx context.Context, text string) ([]Edit, error) {
	if a.scanner == nil {
		return nil, nil
	}
	var edits []Edit
	for _, scope := range a.scanner.Scopes(text, scan.NewSpan(0, len(text))) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sort canceled: %w", err)
		}
		for _, region := range a.scanner.Regions(text, scope) {
			if edit, ok := a.sortRegion(text, region); ok {
				edits = append(edits, edit)
			}
		}
	}
	return edits, nil
}

func (a *Analyzer) sortRegion(text string, region scan.Span) (Edit, bool) {
	tokens := a.scanner.Split(text, region)
	var (
		static []int
		names  []string
	)
	for i, tok := range tokens {
		if !tok.Dynamic {
			static = append(static, i)
			names = append(names, tok.Text)
		}
	}
	if len(static) < 2 {
		return Edit{}, false
	}
	perm := a.order.Permutation(names)
	if slices.IsSorted(perm) {
		return Edit{}, false
	}

	raw := make([]string, len(tokens))
	for i, tok := range tokens {
		raw[i] = tok.Span.Text(text)
	}
	sorted := slices.Clone(raw)
	for slot, p := range perm {
		sorted[static[slot]] = raw[static[p]]
	}

	// Slots move, separators stay: a multi-line attribute keeps its line
	// breaks and indentation.
	var b strings.Builder
	for i, tok := range sorted {
		if i > 0 {
			b.WriteString(text[tokens[i-1].Span.End():max(tokens[i].Span.Start, tokens[i-1].Span.End())])
		}
		b.WriteString(tok)
	}
	first, last := tokens[0].Span, tokens[len(tokens)-1].Span
	span := scan.NewSpan(first.Start, last.End())
	return Edit{Span: span, Text: b.String()}, true
}

// Sort applies SortEdits to text.
func (a *Analyzer) Sort(ctx context.Context, text string) (string, bool, error) {
	edits, err := a.SortEdits(ctx, text)
	if err != nil || len(edits) == 0 {
		return text, false, err
	}
	return ApplyEdits(text, edits), true, nil
}

// ApplyEdits applies non-overlapping edits to text.
func ApplyEdits(text string, edits []Edit) string {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int { return b.Span.Start - a.Span.Start })
	for _, e := range sorted {
		s := e.Span.Clamp(len(text))
		text = text[:s.Start] + e.Text + text[s.End():]
	}
	return text
}
