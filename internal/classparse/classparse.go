// Package classparse decomposes a Tailwind utility class into its important
// flag, variant chain, prefix, stem, value and opacity modifier.
package classparse

import (
	"strconv"
	"strings"

	"github.com/yacobolo/twsense/internal/catalog"
	"github.com/yacobolo/twsense/internal/csscolor"
)

// ValueKind classifies the value part of a class.
type ValueKind int

// Value kinds.
const (
	ValueNone ValueKind = iota
	ValueNamed
	ValueArbitraryBracket
	ValueArbitraryParen
)

func (k ValueKind) String() string {
	switch k {
	case ValueNamed:
		return "named"
	case ValueArbitraryBracket:
		return "arbitrary"
	case ValueArbitraryParen:
		return "variable"
	default:
		return "none"
	}
}

// Shape says which description/order template a value selects.
type Shape int

// Value shapes.
const (
	ShapeNone      Shape = iota // bare stem, e.g. "flex"
	ShapeKeyword                // registered subvariant, e.g. "text-sm"
	ShapeColor                  // palette, custom or literal color
	ShapeSpacing                // spacing scale key
	ShapeArbitrary              // non-color arbitrary value
)

// Placeholder returns the template placeholder for the shape.
func (s Shape) Placeholder() string {
	switch s {
	case ShapeColor:
		return catalog.PlaceholderColor
	case ShapeSpacing:
		return catalog.PlaceholderSpacing
	case ShapeArbitrary:
		return catalog.PlaceholderArbitrary
	default:
		return ""
	}
}

// Class is a decomposed utility class.
type Class struct {
	Raw        string
	Important  bool
	Variants   []string
	Prefix     string
	Negative   bool
	Stem       string
	ValueKind  ValueKind
	Shape      Shape
	RawValue   string
	Opacity    int
	HasOpacity bool
}

// Name returns stem and value without negation or opacity, e.g. "bg-red-500".
func (c Class) Name() string {
	if c.ValueKind == ValueNone {
		return c.Stem
	}
	return c.Stem + "-" + c.valueText()
}

// Base returns the class without variants, important flag or prefix, e.g.
// "-mt-4" or "bg-red-500/50".
func (c Class) Base() string {
	var b strings.Builder
	if c.Negative {
		b.WriteByte('-')
	}
	b.WriteString(c.Name())
	if c.HasOpacity {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(c.Opacity))
	}
	return b.String()
}

// VariantKey joins the variant chain, e.g. "md:hover".
func (c Class) VariantKey() string {
	return strings.Join(c.Variants, ":")
}

func (c Class) valueText() string {
	switch c.ValueKind {
	case ValueArbitraryBracket:
		return "[" + c.RawValue + "]"
	case ValueArbitraryParen:
		return "(" + c.RawValue + ")"
	default:
		return c.RawValue
	}
}

// Options tune decomposition for a project.
type Options struct {
	// Prefix is the project class prefix ("tw-" in v3, "tw" in v4).
	Prefix string
	// IsCustomColor reports project colors that extend the palette.
	IsCustomColor func(name string) bool
}

// Decompose parses token against cat. It returns false for anything that is
// not a known utility; it never fails otherwise.
func Decompose(token string, cat *catalog.Catalog, opts Options) (Class, bool) {
	if token == "" || cat == nil {
		return Class{}, false
	}
	c := Class{Raw: token, Opacity: 100}

	variants, base, ok := splitVariants(token)
	if !ok || base == "" {
		return Class{}, false
	}
	c.Variants = variants

	if rest, ok := strings.CutPrefix(base, "!"); ok {
		c.Important, base = true, rest
	} else if rest, ok := strings.CutSuffix(base, "!"); ok {
		c.Important, base = true, rest
	}

	if rest, ok := strings.CutPrefix(base, "-"); ok {
		c.Negative, base = true, rest
	}

	if opts.Prefix != "" {
		if !stripPrefix(&c, &base, cat.Version, opts.Prefix) {
			return Class{}, false
		}
	}
	if base == "" {
		return Class{}, false
	}

	if idx := arbitraryStart(base); idx >= 0 {
		if !decomposeArbitrary(&c, base, idx, cat) {
			return Class{}, false
		}
	} else if !decomposeNamed(&c, base, cat, opts) {
		return Class{}, false
	}

	if c.Negative {
		tmpl, _ := cat.Stem(c.Stem)
		if !tmpl.Negative {
			return Class{}, false
		}
	}
	return c, true
}

// stripPrefix removes the project prefix. Tailwind 3 prefixes the utility
// ("tw-p-4", "-tw-m-2"); Tailwind 4 uses a leading variant ("tw:p-4").
func stripPrefix(c *Class, base *string, version catalog.Version, prefix string) bool {
	if version >= catalog.V4 {
		want := strings.TrimSuffix(prefix, ":")
		if len(c.Variants) == 0 || c.Variants[0] != want {
			return false
		}
		c.Prefix = want
		c.Variants = c.Variants[1:]
		return true
	}
	rest, ok := strings.CutPrefix(*base, prefix)
	if !ok {
		return false
	}
	c.Prefix, *base = prefix, rest
	return true
}

// splitVariants splits on ':' outside brackets and parentheses. The last
// segment is the base class.
func splitVariants(token string) ([]string, string, bool) {
	var variants []string
	depth, start := 0, 0
	for i := 0; i < len(token); i++ {
		switch token[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth < 0 {
				return nil, "", false
			}
		case ':':
			if depth == 0 {
				if i == start {
					return nil, "", false
				}
				variants = append(variants, token[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, "", false
	}
	return variants, token[start:], true
}

// arbitraryStart returns the offset of the first "-[" or "-(" value opener.
func arbitraryStart(base string) int {
	if i := strings.Index(base, "-["); i >= 0 {
		return i + 1
	}
	if i := strings.Index(base, "-("); i >= 0 {
		return i + 1
	}
	return -1
}

func decomposeArbitrary(c *Class, base string, idx int, cat *catalog.Catalog) bool {
	stem := base[:idx-1]
	if stem == "" {
		return false
	}
	tmpl, ok := cat.Stem(stem)
	if !ok || !tmpl.Arbitrary {
		return false
	}

	payload := base[idx:]
	if rest, pct, ok := splitOpacity(payload); ok && (strings.HasSuffix(rest, "]") || strings.HasSuffix(rest, ")")) {
		payload, c.Opacity, c.HasOpacity = rest, pct, true
	}

	switch {
	case len(payload) > 2 && payload[0] == '[' && payload[len(payload)-1] == ']':
		c.ValueKind = ValueArbitraryBracket
	case len(payload) > 2 && payload[0] == '(' && payload[len(payload)-1] == ')':
		c.ValueKind = ValueArbitraryParen
	default:
		return false
	}
	c.RawValue = payload[1 : len(payload)-1]
	if strings.TrimSpace(c.RawValue) == "" {
		return false
	}
	if c.ValueKind == ValueArbitraryParen && !strings.HasPrefix(c.RawValue, "--") {
		return false
	}

	c.Stem = stem
	c.Shape = ShapeArbitrary
	if tmpl.Colors && c.ValueKind == ValueArbitraryBracket {
		if _, ok := csscolor.Parse(c.RawValue); ok {
			c.Shape = ShapeColor
		}
	}
	return true
}

func decomposeNamed(c *Class, base string, cat *catalog.Catalog, opts Options) bool {
	parts := strings.Split(base, "-")
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	for i := len(parts); i >= 1; i-- {
		tmpl, ok := cat.Stem(strings.Join(parts[:i], "-"))
		if !ok {
			continue
		}
		if matchValue(c, tmpl, strings.Join(parts[i:], "-"), cat, opts) {
			c.Stem = tmpl.Stem
			return true
		}
	}
	return false
}

// matchValue accepts value for tmpl. Registered subvariants and spacing keys
// are taken verbatim (so "w-1/2" keeps its slash); colors may carry "/NN".
func matchValue(c *Class, tmpl *catalog.StemTemplate, value string, cat *catalog.Catalog, opts Options) bool {
	switch {
	case tmpl.HasValue(value):
		c.RawValue = value
		if value == "" {
			c.ValueKind, c.Shape = ValueNone, ShapeNone
		} else {
			c.ValueKind, c.Shape = ValueNamed, ShapeKeyword
		}
		return true
	case value == "":
		return false
	case tmpl.Spacing && isSpacing(cat, value):
		c.ValueKind, c.Shape, c.RawValue = ValueNamed, ShapeSpacing, value
		return true
	case tmpl.Colors:
		name, pct, hasOpacity := value, 100, false
		if rest, p, ok := splitOpacity(value); ok {
			name, pct, hasOpacity = rest, p, true
		}
		if !cat.IsColor(name) && (opts.IsCustomColor == nil || !opts.IsCustomColor(name)) {
			return false
		}
		c.ValueKind, c.Shape, c.RawValue = ValueNamed, ShapeColor, name
		c.Opacity, c.HasOpacity = pct, hasOpacity
		return true
	}
	return false
}

func isSpacing(cat *catalog.Catalog, value string) bool {
	_, ok := cat.SpacingValue(value)
	return ok
}

// splitOpacity splits a trailing "/NN" with NN in [0,100] off a non-blank value.
func splitOpacity(value string) (string, int, bool) {
	i := strings.LastIndexByte(value, '/')
	if i <= 0 || i == len(value)-1 {
		return value, 100, false
	}
	digits := value[i+1:]
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return value, 100, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n > 100 {
		return value, 100, false
	}
	rest := value[:i]
	if strings.TrimSpace(rest) == "" {
		return value, 100, false
	}
	return rest, n, true
}
