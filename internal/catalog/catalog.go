// Package catalog holds the per-version Tailwind tables: class stems, colors,
// spacing, variants, descriptions and the canonical sort order.
package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/yacobolo/twsense/internal/csscolor"
)

// Version is a Tailwind major version.
type Version int

// Supported versions.
const (
	V3 Version = 3
	V4 Version = 4
)

// String returns "v3" or "v4".
func (v Version) String() string {
	return "v" + strconv.Itoa(int(v))
}

// ParseVersion accepts "3", "v3", "4", "v4".
func ParseVersion(s string) (Version, bool) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "v") {
	case "3":
		return V3, true
	case "4":
		return V4, true
	}
	return 0, false
}

// Template placeholders used in description and order keys.
const (
	PlaceholderColor     = "{c}"
	PlaceholderSpacing   = "{s}"
	PlaceholderArbitrary = "{a}"
	Wildcard             = "*"
)

// StemTemplate describes what values a class stem accepts.
type StemTemplate struct {
	Stem      string   `json:"stem"`
	Colors    bool     `json:"colors,omitempty"`
	Spacing   bool     `json:"spacing,omitempty"`
	Arbitrary bool     `json:"arbitrary,omitempty"`
	Negative  bool     `json:"negative,omitempty"`
	Values    []string `json:"values,omitempty"`

	values map[string]struct{}
}

// HasValue reports whether v is a registered subvariant. The empty string
// stands for the bare stem (e.g. "flex").
func (t *StemTemplate) HasValue(v string) bool {
	_, ok := t.values[v]
	return ok
}

// Catalog is the immutable class vocabulary of one Tailwind version.
type Catalog struct {
	Version       Version
	Stems         map[string]*StemTemplate
	Variants      map[string]string
	Colors        map[string]csscolor.RGBA
	ColorKeywords map[string]string
	Spacing       map[string]string
	Descriptions  map[string]string
}

// Empty returns a catalog that resolves nothing.
func Empty(v Version) *Catalog {
	return &Catalog{
		Version:       v,
		Stems:         map[string]*StemTemplate{},
		Variants:      map[string]string{},
		Colors:        map[string]csscolor.RGBA{},
		ColorKeywords: map[string]string{},
		Spacing:       map[string]string{},
		Descriptions:  map[string]string{},
	}
}

// Stem returns the template for a dash-joined stem.
func (c *Catalog) Stem(name string) (*StemTemplate, bool) {
	t, ok := c.Stems[name]
	return t, ok
}

// Color returns the RGBA of a named palette color.
func (c *Catalog) Color(name string) (csscolor.RGBA, bool) {
	col, ok := c.Colors[name]
	return col, ok
}

// IsColor reports whether name is a palette color or a color keyword
// such as "current".
func (c *Catalog) IsColor(name string) bool {
	if _, ok := c.Colors[name]; ok {
		return true
	}
	_, ok := c.ColorKeywords[name]
	return ok
}

// ColorValue returns the CSS text for a named color.
func (c *Catalog) ColorValue(name string) (string, bool) {
	if kw, ok := c.ColorKeywords[name]; ok {
		return kw, true
	}
	if name == "transparent" {
		return "transparent", true
	}
	col, ok := c.Colors[name]
	if !ok {
		return "", false
	}
	return col.String(), true
}

// SpacingValue returns the CSS length for a spacing key. Tailwind 4 derives
// spacing from --spacing, so any non-negative multiple of 0.25 is accepted.
func (c *Catalog) SpacingValue(key string) (string, bool) {
	if v, ok := c.Spacing[key]; ok {
		return v, true
	}
	if c.Version < V4 || key == "" {
		return "", false
	}
	n, err := strconv.ParseFloat(key, 64)
	if err != nil || n < 0 || math.IsInf(n, 0) || math.Mod(n*4, 1) != 0 {
		return "", false
	}
	// Reject forms like "1e2" or "+4" that ParseFloat tolerates.
	for i := 0; i < len(key); i++ {
		if (key[i] < '0' || key[i] > '9') && key[i] != '.' {
			return "", false
		}
	}
	return "calc(var(--spacing) * " + key + ")", true
}

// Template returns the normalized template key for a stem and placeholder,
// e.g. Template("bg", PlaceholderColor) == "bg-{c}".
func Template(stem, placeholder string) string {
	return stem + "-" + placeholder
}
