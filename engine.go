package twsense

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yacobolo/twsense/internal/analysis"
	"github.com/yacobolo/twsense/internal/catalog"
	"github.com/yacobolo/twsense/internal/csscolor"
	"github.com/yacobolo/twsense/internal/document"
	"github.com/yacobolo/twsense/internal/logging"
	"github.com/yacobolo/twsense/internal/order"
	"github.com/yacobolo/twsense/internal/projectconfig"
	"github.com/yacobolo/twsense/internal/resolve"
	"github.com/yacobolo/twsense/internal/scan"
)

// ErrUnsupportedFile is returned for files no scanner understands.
var ErrUnsupportedFile = errors.New("unsupported file type")

// project is what the engine derives from one published configuration.
type project struct {
	set      *catalog.Set
	resolver *resolve.Resolver
	order    *order.Engine
}

// Engine answers class questions for files of any number of projects. It
// is safe for concurrent use.
type Engine struct {
	registry *catalog.Registry
	store    *projectconfig.Store
	logger   *log.Logger

	mu       sync.Mutex
	projects map[*projectconfig.Config]*project
	markers  *markers
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry shares a catalog registry between engines.
func WithRegistry(r *catalog.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithStore uses an existing project configuration store.
func WithStore(s *projectconfig.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an engine with the embedded catalogs and an empty store.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:   logging.Default(),
		projects: make(map[*projectconfig.Config]*project),
		markers:  newMarkers(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = catalog.NewRegistry(catalog.WithLogger(e.logger))
	}
	if e.store == nil {
		e.store = projectconfig.NewStore()
	}
	e.store.Subscribe(func(old, updated *projectconfig.Config) {
		e.invalidate(old, updated.Root)
	})
	return e
}

// Store returns the project configuration store.
func (e *Engine) Store() *projectconfig.Store { return e.store }

// LoadProject reads the configuration of the project at root and publishes it.
func (e *Engine) LoadProject(root string) (*projectconfig.Config, error) {
	cfg, err := projectconfig.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", root, err)
	}
	e.store.Replace(cfg)
	return cfg, nil
}

// Invalidate forgets which files under root were sorted, so the next
// SortFiles looks at them again.
func (e *Engine) Invalidate(root string) {
	e.invalidate(nil, root)
}

func (e *Engine) invalidate(old *projectconfig.Config, root string) {
	if old != nil {
		e.mu.Lock()
		delete(e.projects, old)
		e.mu.Unlock()
	}
	n := e.markers.clear(root)
	e.logger.Debug("project invalidated", logging.FieldRoot, root, logging.FieldFiles, n)
}

func (e *Engine) project(path string) *project {
	cfg := e.store.For(path)

	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.projects[cfg]; ok {
		return p
	}
	set := e.registry.Get(cfg.Version)
	r := resolve.New(set.Catalog, cfg)
	p := &project{set: set, resolver: r, order: order.New(set.Order, r)}
	e.projects[cfg] = p
	return p
}

// Resolver returns the resolver for the project containing path.
func (e *Engine) Resolver(path string) *resolve.Resolver {
	return e.project(path).resolver
}

// Order returns the sort and conflict engine for the project containing path.
func (e *Engine) Order(path string) *order.Engine {
	return e.project(path).order
}

// Analyzer returns the scan pipeline for path, chosen by file type.
func (e *Engine) Analyzer(path string) (*analysis.Analyzer, error) {
	dialect, ok := scan.DetectDialect(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
	p := e.project(path)
	return analysis.New(scan.ForDialect(dialect), p.resolver, p.order), nil
}

// Analyze scans all of text as the contents of path.
func (e *Engine) Analyze(ctx context.Context, path, text string) (analysis.Result, error) {
	a, err := e.Analyzer(path)
	if err != nil {
		return analysis.Result{}, err
	}
	return a.Analyze(ctx, text, scan.NewSpan(0, len(text)))
}

// Open returns a document model of text for an editor buffer.
func (e *Engine) Open(path, text string) (*document.Document, error) {
	a, err := e.Analyzer(path)
	if err != nil {
		return nil, err
	}
	return document.New(text, a), nil
}

// Describe returns the CSS a class generates in the project of path.
func (e *Engine) Describe(path, class string) (string, bool) {
	return e.project(path).resolver.Describe(class)
}

// Color returns the color a class applies in the project of path.
func (e *Engine) Color(path, class string) (csscolor.RGBA, bool) {
	return e.project(path).resolver.Color(class)
}

// SortSource puts every class list of text into canonical order. Dynamic
// template tokens stay where they are.
func (e *Engine) SortSource(ctx context.Context, path, text string) (string, bool, error) {
	a, err := e.Analyzer(path)
	if err != nil {
		return text, false, err
	}
	return a.Sort(ctx, text)
}

// Sort orders a single class list, e.g. the value of one attribute.
func (e *Engine) Sort(path, classes string) string {
	return e.project(path).order.SortText(classes)
}

// Version returns the Tailwind version used for path.
func (e *Engine) Version(path string) catalog.Version {
	return e.store.For(path).Version
}

// Supported reports whether path has a scanner.
func Supported(path string) bool {
	_, ok := scan.DetectDialect(path)
	return ok && !strings.HasSuffix(path, ".min.js")
}
