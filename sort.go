package twsense

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/twsense/internal/fsutil"
	"github.com/yacobolo/twsense/internal/logging"
)

// FileStatus is the outcome of sorting one file.
type FileStatus int

// File statuses.
const (
	StatusUnchanged FileStatus = iota // already in canonical order
	StatusChanged                     // rewritten, or would be without Write
	StatusSkipped                     // sorted since the last invalidation, or busy
	StatusFailed                      // could not be read, analyzed or written
)

func (s FileStatus) String() string {
	switch s {
	case StatusChanged:
		return "changed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unchanged"
	}
}

// SortConfig holds bulk sort configuration
type SortConfig struct {
	Root     string
	Patterns []string
	Jobs     int  // Files sorted concurrently (0 = GOMAXPROCS)
	Write    bool // Rewrite files in place; otherwise only report
	// Progress is called once per file, never concurrently.
	Progress func(Progress)
}

// Progress reports one finished file of a bulk sort.
type Progress struct {
	Path   string
	Status FileStatus
	Done   int
	Total  int
}

// FileSort is the outcome for one file. Original and Sorted are set for
// changed files.
type FileSort struct {
	Path     string
	Status   FileStatus
	Original string
	Sorted   string
	Err      error
}

// SortResult summarizes a bulk sort.
type SortResult struct {
	Files     []FileSort
	Stats     ScanStats
	Changed   int
	Unchanged int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// SortFiles puts the class lists of every matched file into canonical
// order. Files sorted since the last invalidation are skipped, and no file
// is processed by two calls at once. On cancellation the files finished so
// far are returned together with the error.
func (e *Engine) SortFiles(ctx context.Context, config SortConfig) (*SortResult, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	files, stats, err := DiscoverFiles(config.Root, config.Patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan files: %w", err)
	}

	results := make([]FileSort, len(files))
	var (
		mu   sync.Mutex
		done int
	)
	report := func(fs FileSort) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if config.Progress != nil {
			config.Progress(Progress{Path: fs.Path, Status: fs.Status, Done: done, Total: len(files)})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs(config.Jobs))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fs := e.sortFile(gctx, path, config.Write)
			if fs.Err != nil {
				logger.Warn("sort failed", logging.FieldPath, path, logging.FieldError, fs.Err)
			}
			results[i] = fs
			report(fs)
			return nil
		})
	}
	waitErr := g.Wait()

	result := &SortResult{Stats: stats}
	for _, fs := range results {
		if fs.Path == "" {
			continue
		}
		result.Files = append(result.Files, fs)
		switch fs.Status {
		case StatusChanged:
			result.Changed++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		default:
			result.Unchanged++
		}
	}
	result.Elapsed = time.Since(start)

	logger.Debug("sort finished",
		logging.FieldFilesProcessed, len(result.Files),
		logging.FieldFilesChanged, result.Changed,
		logging.FieldFilesSkipped, result.Skipped,
		logging.FieldElapsed, result.Elapsed)

	if waitErr != nil {
		return result, fmt.Errorf("sort canceled: %w", waitErr)
	}
	return result, nil
}

func (e *Engine) sortFile(ctx context.Context, path string, write bool) FileSort {
	fs := FileSort{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		fs.Status, fs.Err = StatusFailed, err
		return fs
	}
	before := stampOf(info)

	if !e.markers.acquire(path, before) {
		fs.Status = StatusSkipped
		return fs
	}

	c, now, err := e.sortContents(ctx, path, write)
	if err != nil {
		e.markers.release(path, before, false)
		fs.Status, fs.Err = StatusFailed, err
		return fs
	}
	if c.Original == c.Sorted {
		fs.Status = StatusUnchanged
	} else {
		fs.Status = StatusChanged
		fs.Original, fs.Sorted = c.Original, c.Sorted
	}
	e.markers.release(path, now, fs.Status == StatusUnchanged || write)
	return fs
}

type contents struct {
	Original string
	Sorted   string
}

// sortContents sorts one file and returns the stamp the file has afterwards.
func (e *Engine) sortContents(ctx context.Context, path string, write bool) (contents, stamp, error) {
	// #nosec G304 - paths come from glob expansion of user patterns
	raw, err := os.ReadFile(path)
	if err != nil {
		return contents{}, stamp{}, fmt.Errorf("reading %s: %w", path, err)
	}
	original := string(raw)
	sorted, changed, err := e.SortSource(ctx, path, original)
	if err != nil {
		return contents{}, stamp{}, err
	}
	c := contents{Original: original, Sorted: sorted}

	if changed && write {
		if err := fsutil.WriteAtomic(ctx, path, []byte(sorted)); err != nil {
			return contents{}, stamp{}, err
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return contents{}, stamp{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return c, stampOf(info), nil
}
