package projectconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yacobolo/twsense/internal/logging"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a project's configuration into a Store whenever the
// config file or the CSS entry file changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	store     *Store
	root      string
	debounce  time.Duration
	logger    *log.Logger
	load      func(root string) (*Config, error)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatcherLogger sets the logger for reload failures.
func WithWatcherLogger(logger *log.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = logger }
}

// NewWatcher creates a watcher for the project at root.
func NewWatcher(store *Store, root string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fsWatcher: fsw,
		store:     store,
		root:      filepath.Clean(root),
		debounce:  DefaultDebounce,
		logger:    logging.Default(),
		load:      Load,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run loads the configuration once, then watches until ctx is done. It
// returns after the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()

	cfg := w.reload()
	if err := w.fsWatcher.Add(w.root); err != nil {
		return fmt.Errorf("watching directory %s: %w", w.root, err)
	}
	w.watchEntryDir(cfg)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !w.isRelevant(event, cfg) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C
			pending = true

		case <-timerC:
			if pending {
				cfg = w.reload()
				w.watchEntryDir(cfg)
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", logging.FieldRoot, w.root, logging.FieldError, err)

		case <-ctx.Done():
			return nil
		}
	}
}

// reload publishes a fresh configuration. On failure the previous one stays.
func (w *Watcher) reload() *Config {
	cfg, err := w.load(w.root)
	if err != nil {
		w.logger.Error("failed to load project config", logging.FieldRoot, w.root, logging.FieldError, err)
		if current, ok := w.store.Lookup(w.root); ok {
			return current
		}
		cfg = Default(w.root)
	}
	w.store.Replace(cfg)
	w.logger.Debug("project config loaded",
		logging.FieldRoot, w.root,
		logging.FieldVersion, cfg.Version.String(),
		logging.FieldGeneration, cfg.Generation)
	return cfg
}

func (w *Watcher) watchEntryDir(cfg *Config) {
	if cfg == nil || cfg.CSSEntry == "" {
		return
	}
	dir := filepath.Dir(w.entryPath(cfg))
	if dir == w.root {
		return
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		w.logger.Warn("cannot watch css entry", logging.FieldPath, dir, logging.FieldError, err)
	}
}

func (w *Watcher) entryPath(cfg *Config) string {
	if filepath.IsAbs(cfg.CSSEntry) {
		return filepath.Clean(cfg.CSSEntry)
	}
	return filepath.Join(w.root, cfg.CSSEntry)
}

func (w *Watcher) isRelevant(event fsnotify.Event, cfg *Config) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == filepath.Join(w.root, FileName) {
		return true
	}
	return cfg != nil && cfg.CSSEntry != "" && name == w.entryPath(cfg)
}
