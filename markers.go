package twsense

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// stamp identifies the contents of a file well enough to skip re-sorting.
type stamp struct {
	modTime time.Time
	size    int64
}

func stampOf(info os.FileInfo) stamp {
	return stamp{modTime: info.ModTime(), size: info.Size()}
}

// markers remembers which files are sorted and which are being processed.
type markers struct {
	mu       sync.Mutex
	sorted   map[string]stamp
	inflight map[string]bool
}

func newMarkers() *markers {
	return &markers{sorted: make(map[string]stamp), inflight: make(map[string]bool)}
}

// acquire claims path for processing. It fails when path is being processed
// or is already sorted at stamp s.
func (m *markers) acquire(path string, s stamp) bool {
	path = filepath.Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight[path] {
		return false
	}
	if prev, ok := m.sorted[path]; ok && prev.size == s.size && prev.modTime.Equal(s.modTime) {
		return false
	}
	m.inflight[path] = true
	return true
}

// release ends processing of path, marking it sorted at s when sorted is true.
func (m *markers) release(path string, s stamp, sorted bool) {
	path = filepath.Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, path)
	if sorted {
		m.sorted[path] = s
	} else {
		delete(m.sorted, path)
	}
}

// clear drops the sorted markers of files under root and returns how many
// were dropped. An empty root clears everything.
func (m *markers) clear(root string) int {
	root = filepath.Clean(root)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for path := range m.sorted {
		if root == "." || root == "" || path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			delete(m.sorted, path)
			n++
		}
	}
	return n
}
