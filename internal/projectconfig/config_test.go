package projectconfig

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twsense/internal/catalog"
)

func TestIsClassAllowed(t *testing.T) {
	cfg := Default("/p")
	cfg.Block = []string{"bg-red-*", "float-left"}

	tests := []struct {
		name  string
		allow []string
		class string
		want  bool
	}{
		{"no lists", nil, "p-4", true},
		{"blocked by glob", nil, "bg-red-500", false},
		{"blocked through variants", nil, "hover:md:bg-red-500", false},
		{"blocked important", nil, "!float-left", false},
		{"not blocked", nil, "bg-blue-500", true},
		{"allow list match", []string{"p-*", "m-*"}, "p-4", true},
		{"allow list miss", []string{"p-*"}, "text-sm", false},
		{"block wins over allow", []string{"bg-*"}, "bg-red-500", false},
		{"arbitrary variant base", []string{"p-*"}, "[&:hover]:p-2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *cfg
			c.Allow = tt.allow
			assert.Equal(t, tt.want, c.IsClassAllowed(tt.class))
		})
	}
}

func TestStoreReplaceAndLookup(t *testing.T) {
	store := NewStore()

	outer := Default("/repo")
	inner := Default("/repo/web")
	inner.Prefix = "tw"
	store.Replace(outer)
	store.Replace(inner)

	got, ok := store.Lookup("/repo/web/index.html")
	require.True(t, ok)
	assert.Equal(t, "tw", got.Prefix)

	got, ok = store.Lookup("/repo/api/page.cshtml")
	require.True(t, ok)
	assert.Same(t, outer, got)

	_, ok = store.Lookup("/repository/x.html")
	assert.False(t, ok, "sibling with shared prefix is not inside /repo")

	fallback := store.For("/elsewhere/a.html")
	assert.Same(t, fallback, store.For("/other/b.html"), "default config is shared")
	assert.Equal(t, DefaultVersion, fallback.Version)

	assert.Equal(t, uint64(2), store.Generation())
	assert.Equal(t, uint64(2), inner.Generation)
}

func TestStoreReplaceNotifiesListeners(t *testing.T) {
	store := NewStore()
	var calls [][2]*Config
	store.Subscribe(func(old, updated *Config) {
		calls = append(calls, [2]*Config{old, updated})
	})

	first := Default("/repo")
	second := Default("/repo/")
	store.Replace(first)
	store.Replace(second)

	require.Len(t, calls, 2)
	assert.Nil(t, calls[0][0])
	assert.Same(t, first, calls[1][0])
	assert.Same(t, second, calls[1][1])

	got, ok := store.Lookup("/repo/a.html")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestStoreConcurrentReaders(t *testing.T) {
	store := NewStore()
	store.Replace(Default("/repo"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				cfg := store.For("/repo/file.html")
				assert.Equal(t, "/repo", cfg.Root)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		store.Replace(Default("/repo"))
	}
	wg.Wait()
	assert.Equal(t, uint64(51), store.Generation())
}

func TestLoad(t *testing.T) {
	t.Run("no config file", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultVersion, cfg.Version)
		assert.Empty(t, cfg.Prefix)
	})

	t.Run("yaml settings", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, FileName), `project:
  version: v3
  prefix: tw-
  allow: ["p-*", "m-*"]
  block: ["float-*"]
  colors:
    brand: "#ff0000"
  descriptions:
    p-4: "Standard padding"
`)
		cfg, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, catalog.V3, cfg.Version)
		assert.Equal(t, "tw-", cfg.Prefix)
		assert.Equal(t, []string{"p-*", "m-*"}, cfg.Allow)
		assert.Equal(t, []string{"float-*"}, cfg.Block)
		assert.True(t, cfg.IsCustomColor("brand"))
		assert.Equal(t, "Standard padding", cfg.Descriptions["p-4"])
	})

	t.Run("invalid version", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, FileName), "project:\n  version: v9\n")
		_, err := Load(root)
		require.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("environment override", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, FileName), "project:\n  prefix: tw-\n")
		t.Setenv("TWSENSE_PROJECT_PREFIX", "x-")
		cfg, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, "x-", cfg.Prefix)
	})

	t.Run("css entry theme", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "app.css"), `@import "tailwindcss" prefix(tw);
@theme {
  --color-brand: #0ea5e9;
  --spacing: 0.25rem;
}
`)
		writeFile(t, filepath.Join(root, FileName), `project:
  css: app.css
  colors:
    accent: "#00ff00"
`)
		cfg, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, catalog.V4, cfg.Version)
		assert.Equal(t, "tw", cfg.Prefix)
		assert.Equal(t, "#0ea5e9", cfg.CustomColors["brand"])
		assert.Equal(t, "#00ff00", cfg.CustomColors["accent"])
		v, ok := cfg.Variable("--spacing")
		assert.True(t, ok)
		assert.Equal(t, "0.25rem", v)
	})

	t.Run("missing css entry", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, FileName), "project:\n  css: missing.css\n")
		_, err := Load(root)
		require.Error(t, err)
	})
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		version   catalog.Version
		prefix    string
		variables map[string]string
	}{
		{
			name:      "v3 directives",
			content:   "@tailwind base;\n@tailwind utilities;\n",
			version:   catalog.V3,
			variables: map[string]string{},
		},
		{
			name:      "plain css",
			content:   ".btn { color: red; }",
			variables: map[string]string{},
		},
		{
			name: "theme block",
			content: `@import "tailwindcss";
@theme inline {
  --color-*: initial;
  --color-ink: rgb(10 20 30);
  --font-display: "Satoshi", sans-serif;
  @keyframes spin { to { transform: rotate(360deg); } }
  --radius-card: 12px;
}
--color-outside: red;
`,
			version: catalog.V4,
			variables: map[string]string{
				"--color-ink":    "rgb(10 20 30)",
				"--font-display": `"Satoshi", sans-serif`,
				"--radius-card":  "12px",
			},
		},
		{
			name:      "prefix",
			content:   `@import "tailwindcss" prefix(tw);`,
			version:   catalog.V4,
			prefix:    "tw",
			variables: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme := ParseTheme(tt.content)
			assert.Equal(t, tt.version, theme.Version)
			assert.Equal(t, tt.prefix, theme.Prefix)
			assert.Equal(t, tt.variables, theme.Variables)
		})
	}
}

func TestThemeColors(t *testing.T) {
	theme := Theme{Variables: map[string]string{
		"--color-brand-500": "#123456",
		"--spacing":         "0.25rem",
	}}
	assert.Equal(t, map[string]string{"brand-500": "#123456"}, theme.Colors())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
