// Package document models one open buffer: it applies edits, tracks the
// span that needs re-scanning and runs at most one scan at a time.
package document

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/yacobolo/twsense/internal/analysis"
	"github.com/yacobolo/twsense/internal/scan"
)

// ErrInvalidChange is returned for edits outside the buffer.
var ErrInvalidChange = errors.New("change outside document")

// Change replaces OldLength bytes at Start with NewText.
type Change struct {
	Start     int
	OldLength int
	NewText   string
}

// Analyzer is the scan pipeline a document runs.
type Analyzer interface {
	Analyze(ctx context.Context, text string, changed scan.Span) (analysis.Result, error)
}

// Result is an analysis of one document version. All spans carry Version.
type Result struct {
	analysis.Result
	Version int
}

// Document holds the text of one buffer. Apply and Rescan may be called
// from different goroutines; Rescan never runs twice at once.
type Document struct {
	analyzer Analyzer
	scanning atomic.Bool

	mu       sync.Mutex
	text     string
	version  int
	dirty    scan.Span
	hasDirty bool
}

// New creates a document. The whole text starts dirty.
func New(text string, analyzer Analyzer) *Document {
	return &Document{
		analyzer: analyzer,
		text:     text,
		dirty:    scan.NewSpan(0, len(text)),
		hasDirty: true,
	}
}

// Text returns the current text and version.
func (d *Document) Text() (string, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text, d.version
}

// Dirty returns the span waiting to be re-scanned.
func (d *Document) Dirty() (scan.Span, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty, d.hasDirty
}

// Apply edits the buffer and bumps its version. The pending dirty span is
// mapped through the edit and widened to cover the inserted text.
func (d *Document) Apply(c Change) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c.Start < 0 || c.OldLength < 0 || c.Start+c.OldLength > len(d.text) {
		return fmt.Errorf("%w: [%d,%d) in %d bytes", ErrInvalidChange, c.Start, c.Start+c.OldLength, len(d.text))
	}
	d.text = d.text[:c.Start] + c.NewText + d.text[c.Start+c.OldLength:]
	d.version++

	inserted := scan.NewSpan(c.Start, c.Start+len(c.NewText))
	if d.hasDirty {
		d.dirty = mapSpan(d.dirty, c).Union(inserted)
	} else {
		d.dirty, d.hasDirty = inserted, true
	}
	return nil
}

// mapSpan moves s to where its text sits after c.
func mapSpan(s scan.Span, c Change) scan.Span {
	delta := len(c.NewText) - c.OldLength
	oldEnd := c.Start + c.OldLength
	switch {
	case s.End() <= c.Start:
		return s
	case s.Start >= oldEnd:
		return scan.NewSpan(s.Start+delta, s.End()+delta)
	default:
		start := min(s.Start, c.Start)
		end := max(s.End()+delta, c.Start+len(c.NewText))
		return scan.NewSpan(start, end)
	}
}

// Rescan analyzes the dirty part of the buffer. It returns false without
// doing anything when another Rescan of this document is running, and
// discards its work when the document changed or ctx was canceled while
// it ran; the dirty span then stays pending for the next call.
func (d *Document) Rescan(ctx context.Context) (Result, bool) {
	if !d.scanning.CompareAndSwap(false, true) {
		return Result{}, false
	}
	defer d.scanning.Store(false)

	d.mu.Lock()
	text, version, dirty, hasDirty := d.text, d.version, d.dirty, d.hasDirty
	d.mu.Unlock()

	if !hasDirty {
		return Result{Version: version}, true
	}

	// A deletion leaves an empty span; look at its neighbours.
	if dirty.IsEmpty() {
		dirty = scan.NewSpan(dirty.Start-1, dirty.End()+1)
	}
	dirty = dirty.Clamp(len(text))

	res, err := d.analyzer.Analyze(ctx, text, dirty)
	if err != nil || ctx.Err() != nil {
		return Result{}, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.version != version {
		return Result{}, false
	}
	d.hasDirty = false
	return stamp(res, version), true
}

func stamp(res analysis.Result, version int) Result {
	for i := range res.Scopes {
		res.Scopes[i] = res.Scopes[i].WithVersion(version)
	}
	for i := range res.Regions {
		res.Regions[i] = res.Regions[i].WithVersion(version)
	}
	for i := range res.Tokens {
		res.Tokens[i].Span = res.Tokens[i].Span.WithVersion(version)
	}
	for i := range res.Diagnostics {
		res.Diagnostics[i].Span = res.Diagnostics[i].Span.WithVersion(version)
	}
	return Result{Result: res, Version: version}
}
