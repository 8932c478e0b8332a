package document

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yacobolo/twsense/internal/logging"
)

// DefaultDebounce is how long the tracker waits for typing to pause.
const DefaultDebounce = 150 * time.Millisecond

// Tracker feeds edits into a Document and re-scans it once edits settle.
// A newer edit cancels a scan still in flight.
type Tracker struct {
	doc      *Document
	debounce time.Duration
	logger   *log.Logger
	results  chan Result
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.debounce = d }
}

// WithLogger sets the logger for rejected edits.
func WithLogger(logger *log.Logger) TrackerOption {
	return func(t *Tracker) { t.logger = logger }
}

// NewTracker creates a tracker for doc.
func NewTracker(doc *Document, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		doc:      doc,
		debounce: DefaultDebounce,
		logger:   logging.Default(),
		results:  make(chan Result, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Results delivers completed scans. It is closed when Run returns.
func (t *Tracker) Results() <-chan Result {
	return t.results
}

// Run applies changes until the channel closes or ctx is done. The
// document is scanned once up front and again after every quiet period.
// When changes closes, a scan in flight is allowed to finish and a document
// that is still dirty is scanned once more before Run returns.
func (t *Tracker) Run(ctx context.Context, changes <-chan Change) error {
	defer close(t.results)

	var (
		wg     sync.WaitGroup
		cancel context.CancelFunc = func() {}
	)
	defer func() {
		cancel()
		wg.Wait()
	}()

	startScan := func() {
		cancel()
		wg.Wait()
		var scanCtx context.Context
		scanCtx, cancel = context.WithCancel(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, ok := t.doc.Rescan(scanCtx)
			if !ok {
				return
			}
			select {
			case t.results <- res:
			case <-scanCtx.Done():
			}
		}()
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case c, ok := <-changes:
			if !ok {
				t.flush(ctx, &wg)
				return nil
			}
			if err := t.doc.Apply(c); err != nil {
				t.logger.Warn("dropping edit", logging.FieldError, err)
				continue
			}
			cancel()
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(t.debounce)

		case <-timer.C:
			startScan()

		case <-ctx.Done():
			return nil
		}
	}
}

// flush lets a scan in flight finish, then scans synchronously if the
// document is still dirty.
func (t *Tracker) flush(ctx context.Context, wg *sync.WaitGroup) {
	wg.Wait()
	if _, dirty := t.doc.Dirty(); !dirty {
		return
	}
	res, ok := t.doc.Rescan(ctx)
	if !ok {
		return
	}
	select {
	case t.results <- res:
	case <-ctx.Done():
	}
}
