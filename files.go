package twsense

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultPatterns match every file type a scanner understands.
var DefaultPatterns = []string{"**/*.{html,htm,cshtml,razor,templ,js,jsx,ts,tsx,css}"}

// ScanStats tracks file discovery statistics.
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files kept after filtering
	FilesSkipped    int // Generated, vendored, ignored or unsupported files
}

// skippedDirs never hold hand-written markup.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"bin":          true,
	"obj":          true,
	"dist":         true,
	"vendor":       true,
}

// isGenerated reports bundler and minifier output.
func isGenerated(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range []string{".min.js", ".min.css", ".bundle.js", ".g.cshtml"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

// fileFilter applies the skip rules of one project root.
type fileFilter struct {
	root      string
	gitignore *ignore.GitIgnore
}

// newFileFilter loads root/.gitignore. A missing file just disables that
// layer.
func newFileFilter(root string) *fileFilter {
	f := &fileFilter{root: root}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		f.gitignore = gi
	}
	return f
}

// skip reports whether path should be left alone: generated files,
// vendored directories, gitignored paths and unsupported file types.
func (f *fileFilter) skip(path string) bool {
	if isGenerated(path) || !Supported(path) {
		return true
	}
	rel, err := filepath.Rel(f.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if skippedDirs[part] {
			return true
		}
	}
	return f.gitignore != nil && f.gitignore.MatchesPath(filepath.ToSlash(rel))
}

// DiscoverFiles expands glob patterns relative to root into a sorted,
// de-duplicated list of files worth scanning.
func DiscoverFiles(root string, patterns []string) ([]string, ScanStats, error) {
	if root == "" {
		root = "."
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	filter := newFileFilter(root)

	var files []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, fmt.Errorf("expanding pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++
			if filter.skip(match) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, match)
			stats.FilesScanned++
		}
	}

	sort.Strings(files)
	return files, stats, nil
}
