package twsense

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twsense/internal/catalog"
	"github.com/yacobolo/twsense/internal/csscolor"
	"github.com/yacobolo/twsense/internal/projectconfig"
)

func TestEngineDescribeAndColor(t *testing.T) {
	e := New()

	desc, ok := e.Describe("index.html", "p-4")
	require.True(t, ok)
	assert.Equal(t, "padding: calc(var(--spacing) * 4);", desc)

	c, ok := e.Color("index.html", "bg-blue-500/50")
	require.True(t, ok)
	assert.Equal(t, csscolor.RGBA{R: 59, G: 130, B: 246, A: 128}, c)

	_, ok = e.Describe("index.html", "not-a-class")
	assert.False(t, ok)
}

func TestEngineAnalyzeUnsupported(t *testing.T) {
	e := New()
	_, err := e.Analyze(context.Background(), "main.go", "package main")
	require.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = e.Open("main.go", "")
	require.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestEngineSort(t *testing.T) {
	e := New()
	assert.Equal(t, "m-2 p-4 hover:bg-red-500", e.Sort("x.html", "p-4 hover:bg-red-500 m-2"))

	got, changed, err := e.SortSource(context.Background(), "x.html", `<a class="p-4 m-2"></a>`)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, `<a class="m-2 p-4"></a>`, got)
}

func TestEngineProjectReplace(t *testing.T) {
	root := t.TempDir()
	e := New()
	path := filepath.Join(root, "index.html")
	assert.Equal(t, catalog.V4, e.Version(path))

	before := e.Resolver(path)
	assert.Same(t, before, e.Resolver(path))

	cfg := projectconfig.Default(root)
	cfg.Version = catalog.V3
	cfg.CustomColors = map[string]string{"brand": "#ff0000"}
	e.Store().Replace(cfg)

	assert.Equal(t, catalog.V3, e.Version(path))
	after := e.Resolver(path)
	assert.NotSame(t, before, after)

	c, ok := e.Color(path, "text-brand")
	require.True(t, ok)
	assert.Equal(t, csscolor.RGBA{R: 255, A: 255}, c)

	// Files outside the project keep the defaults.
	assert.Equal(t, catalog.V4, e.Version(filepath.Join(filepath.Dir(root), "other.html")))
}

func TestEngineLoadProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".twsense.yaml"), "project:\n  version: v3\n  prefix: tw-\n")

	e := New()
	cfg, err := e.LoadProject(root)
	require.NoError(t, err)
	assert.Equal(t, catalog.V3, cfg.Version)

	path := filepath.Join(root, "index.html")
	_, ok := e.Describe(path, "tw-p-4")
	assert.True(t, ok)
	_, ok = e.Describe(path, "p-4")
	assert.False(t, ok)
}

func TestEngineOpen(t *testing.T) {
	e := New()
	doc, err := e.Open("index.html", `<div class="text-sm text-lg"></div>`)
	require.NoError(t, err)

	res, ok := doc.Rescan(context.Background())
	require.True(t, ok)
	assert.Len(t, res.Tokens, 2)
	assert.Len(t, res.Diagnostics, 2)
}
