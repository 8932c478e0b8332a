package projectconfig

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Listener is told when a project's configuration was replaced.
type Listener func(old, updated *Config)

// Store publishes project configurations. Readers never lock; a reload
// replaces a project's Config wholesale.
type Store struct {
	projects   atomic.Pointer[[]*Config]
	generation atomic.Uint64
	fallback   *Config

	mu        sync.Mutex
	listeners []Listener
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{fallback: Default("")}
	empty := []*Config{}
	s.projects.Store(&empty)
	return s
}

// Subscribe registers fn for every future replacement.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Replace publishes cfg for cfg.Root, superseding any previous value.
func (s *Store) Replace(cfg *Config) {
	cfg.Root = filepath.Clean(cfg.Root)
	cfg.Generation = s.generation.Add(1)

	s.mu.Lock()
	current := *s.projects.Load()
	next := make([]*Config, 0, len(current)+1)
	var old *Config
	for _, p := range current {
		if p.Root == cfg.Root {
			old = p
			continue
		}
		next = append(next, p)
	}
	next = append(next, cfg)
	// Longest root first, so lookups find the innermost project.
	sort.SliceStable(next, func(i, j int) bool { return len(next[i].Root) > len(next[j].Root) })
	s.projects.Store(&next)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(old, cfg)
	}
}

// Lookup returns the configuration of the innermost project containing path.
func (s *Store) Lookup(path string) (*Config, bool) {
	path = filepath.Clean(path)
	for _, p := range *s.projects.Load() {
		if path == p.Root || strings.HasPrefix(path, p.Root+string(filepath.Separator)) ||
			(p.Root == "." && !filepath.IsAbs(path)) {
			return p, true
		}
	}
	return nil, false
}

// For returns Lookup's result, or the shared default configuration when
// path is not inside a known project.
func (s *Store) For(path string) *Config {
	if cfg, ok := s.Lookup(path); ok {
		return cfg
	}
	return s.fallback
}

// Generation returns the number of replacements so far.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}
