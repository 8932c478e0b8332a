package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yacobolo/twsense/internal/csscolor"
	"github.com/yacobolo/twsense/internal/logging"
)

//go:embed data
var embedded embed.FS

// ErrUnknownVersion is returned for versions without a resource directory.
var ErrUnknownVersion = errors.New("unknown tailwind version")

// Resource file names, one set per version directory.
const (
	FileClasses      = "classes.json"
	FileColors       = "colors.json"
	FileSpacing      = "spacing.json"
	FileVariants     = "variants.json"
	FileDescriptions = "descriptions.json"
	FileOrder        = "order.json"
	FileVariantOrder = "variantorder.json"
)

// Set bundles the catalog and order tables of one version.
type Set struct {
	Catalog *Catalog
	Order   *OrderTables
}

type entry struct {
	once sync.Once
	set  *Set
	err  error
}

// Registry loads each version's tables at most once and shares them.
// A failed load is remembered: the version degrades to empty tables.
type Registry struct {
	fsys   fs.FS
	logger *log.Logger

	mu      sync.Mutex
	entries map[Version]*entry
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithFS loads resources from fsys instead of the embedded defaults.
// fsys must contain one directory per version ("v3", "v4").
func WithFS(fsys fs.FS) RegistryOption {
	return func(r *Registry) { r.fsys = fsys }
}

// WithLogger sets the logger used to report load failures.
func WithLogger(logger *log.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates a registry backed by the embedded resources.
func NewRegistry(opts ...RegistryOption) *Registry {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded data missing: %v", err))
	}
	r := &Registry{
		fsys:    sub,
		logger:  logging.Default(),
		entries: make(map[Version]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load returns the tables for v, loading them on first use.
func (r *Registry) Load(v Version) (*Set, error) {
	r.mu.Lock()
	e, ok := r.entries[v]
	if !ok {
		e = &entry{}
		r.entries[v] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.set, e.err = load(r.fsys, v)
		if e.err != nil {
			r.logger.Error("failed to load tailwind resources",
				logging.FieldVersion, v.String(), logging.FieldError, e.err)
			e.set = &Set{Catalog: Empty(v), Order: EmptyOrder()}
			return
		}
		r.logger.Debug("loaded tailwind resources",
			logging.FieldVersion, v.String(),
			"stems", len(e.set.Catalog.Stems),
			"ranked", len(e.set.Order.Classes))
	})
	return e.set, e.err
}

// Get is Load without the error. A failed version yields empty tables.
func (r *Registry) Get(v Version) *Set {
	set, _ := r.Load(v)
	return set
}

func load(fsys fs.FS, v Version) (*Set, error) {
	dir := v.String()
	if _, err := fs.Stat(fsys, dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, dir)
	}

	var (
		stems        []*StemTemplate
		colors       map[string]string
		spacing      map[string]string
		variants     map[string]string
		descriptions map[string]string
		order        []string
		variantOrder []string
	)
	files := []struct {
		name string
		dst  any
	}{
		{FileClasses, &stems},
		{FileColors, &colors},
		{FileSpacing, &spacing},
		{FileVariants, &variants},
		{FileDescriptions, &descriptions},
		{FileOrder, &order},
		{FileVariantOrder, &variantOrder},
	}
	for _, f := range files {
		if err := readJSON(fsys, path.Join(dir, f.name), f.dst); err != nil {
			return nil, err
		}
	}

	cat := Empty(v)
	for _, s := range stems {
		if s == nil || s.Stem == "" {
			continue
		}
		s.values = make(map[string]struct{}, len(s.Values))
		for _, val := range s.Values {
			s.values[val] = struct{}{}
		}
		if existing, ok := cat.Stems[s.Stem]; ok {
			mergeStem(existing, s)
			continue
		}
		cat.Stems[s.Stem] = s
	}
	for name, value := range colors {
		if col, ok := csscolor.Parse(value); ok {
			cat.Colors[name] = col
			continue
		}
		cat.ColorKeywords[name] = value
	}
	cat.Spacing = nonNil(spacing)
	cat.Variants = nonNil(variants)
	cat.Descriptions = nonNil(descriptions)

	return &Set{Catalog: cat, Order: newOrderTables(order, variantOrder)}, nil
}

func readJSON(fsys fs.FS, name string, dst any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func mergeStem(dst, src *StemTemplate) {
	dst.Colors = dst.Colors || src.Colors
	dst.Spacing = dst.Spacing || src.Spacing
	dst.Arbitrary = dst.Arbitrary || src.Arbitrary
	dst.Negative = dst.Negative || src.Negative
	for _, v := range src.Values {
		if !dst.HasValue(v) {
			dst.Values = append(dst.Values, v)
			dst.values[v] = struct{}{}
		}
	}
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
