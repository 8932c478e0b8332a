// Package projectconfig holds the per-project Tailwind settings (prefix,
// version, theme colors and variables, description overrides, allow and
// block lists) and keeps them current as files change.
package projectconfig

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yacobolo/twsense/internal/catalog"
)

// FileName is the project configuration file looked up in the project root.
const FileName = ".twsense.yaml"

// DefaultVersion applies when neither the config file nor the CSS entry
// names a Tailwind version.
const DefaultVersion = catalog.V4

// Config is one project's settings. It is never mutated after publication;
// reloads build a new Config and swap it into the Store.
type Config struct {
	Root         string
	Prefix       string
	Version      catalog.Version
	CSSEntry     string
	CustomColors map[string]string
	Variables    map[string]string
	Descriptions map[string]string
	Allow        []string
	Block        []string

	// Generation is assigned by the Store on publication.
	Generation uint64
}

// Default returns the configuration used when a project has no settings.
func Default(root string) *Config {
	return &Config{
		Root:         root,
		Version:      DefaultVersion,
		CustomColors: map[string]string{},
		Variables:    map[string]string{},
		Descriptions: map[string]string{},
	}
}

// IsCustomColor reports whether name is a project color.
func (c *Config) IsCustomColor(name string) bool {
	_, ok := c.CustomColors[name]
	return ok
}

// Variable returns the value of a CSS custom property such as "--brand".
func (c *Config) Variable(name string) (string, bool) {
	v, ok := c.Variables[name]
	return v, ok
}

// IsClassAllowed applies the block list, then the allow list. Patterns
// match either the whole token or its variant-stripped base, so "bg-red-*"
// blocks "hover:bg-red-500" too. An empty allow list allows everything.
func (c *Config) IsClassAllowed(class string) bool {
	base := baseClass(class)
	for _, p := range c.Block {
		if matchPattern(p, class) || matchPattern(p, base) {
			return false
		}
	}
	if len(c.Allow) == 0 {
		return true
	}
	for _, p := range c.Allow {
		if matchPattern(p, class) || matchPattern(p, base) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, name string) bool {
	if pattern == name {
		return true
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// baseClass drops the variant chain, keeping colons inside brackets.
func baseClass(class string) string {
	depth, start := 0, 0
	for i := 0; i < len(class); i++ {
		switch class[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ':':
			if depth == 0 {
				start = i + 1
			}
		}
	}
	return strings.TrimPrefix(class[start:], "!")
}
