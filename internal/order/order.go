// Package order sorts classes into Tailwind's canonical order and finds
// classes that set the same CSS properties.
package order

import (
	"slices"
	"strings"

	"github.com/yacobolo/twsense/internal/catalog"
	"github.com/yacobolo/twsense/internal/classparse"
)

// Classifier decomposes class tokens and names the properties they set.
// *resolve.Resolver implements it.
type Classifier interface {
	Decompose(token string) (classparse.Class, bool)
	Properties(token string) ([]string, bool)
}

// Key is a class's position in canonical order.
type Key struct {
	Variants []int
	Base     int
}

// Compare orders keys by their variant ranks element-wise (a shorter chain
// first, so classes without variants lead), then by base rank.
func (k Key) Compare(o Key) int {
	for i := 0; i < len(k.Variants) && i < len(o.Variants); i++ {
		if c := k.Variants[i] - o.Variants[i]; c != 0 {
			return sign(c)
		}
	}
	if c := len(k.Variants) - len(o.Variants); c != 0 {
		return sign(c)
	}
	return sign(k.Base - o.Base)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Engine ranks classes for one catalog version and project.
type Engine struct {
	tables *catalog.OrderTables
	cls    Classifier
}

// New creates an engine. Nil tables behave as empty tables.
func New(tables *catalog.OrderTables, cls Classifier) *Engine {
	if tables == nil {
		tables = catalog.EmptyOrder()
	}
	return &Engine{tables: tables, cls: cls}
}

// Rank returns the canonical key of token. Unknown classes, unknown
// variants and classes missing from the order table are unranked.
func (e *Engine) Rank(token string) (Key, bool) {
	c, ok := e.cls.Decompose(token)
	if !ok {
		return Key{}, false
	}
	base, ok := e.baseRank(c)
	if !ok {
		return Key{}, false
	}
	key := Key{Base: base}
	if len(c.Variants) > 0 {
		key.Variants = make([]int, len(c.Variants))
		for i, v := range c.Variants {
			r, ok := e.tables.VariantRank(v)
			if !ok {
				return Key{}, false
			}
			key.Variants[i] = r
		}
	}
	return key, true
}

// baseRank looks up the class, then its value template, then the stem's
// wildcard entry and finally the bare stem.
func (e *Engine) baseRank(c classparse.Class) (int, bool) {
	keys := []string{c.Name()}
	switch c.Shape {
	case classparse.ShapeColor:
		keys = append(keys, catalog.Template(c.Stem, catalog.PlaceholderColor))
		if c.ValueKind != classparse.ValueNamed {
			keys = append(keys, catalog.Template(c.Stem, catalog.PlaceholderArbitrary))
		}
	case classparse.ShapeSpacing, classparse.ShapeArbitrary:
		keys = append(keys, catalog.Template(c.Stem, c.Shape.Placeholder()))
	}
	keys = append(keys, catalog.Template(c.Stem, catalog.Wildcard), c.Stem)
	return e.tables.ClassRank(keys...)
}

type ranked struct {
	index int
	key   Key
}

// Sort returns classes in canonical order. Ranked classes come first in
// ascending key order; unranked classes follow in their original relative
// order. Equal keys keep their input order.
func (e *Engine) Sort(classes []string) []string {
	out := make([]string, 0, len(classes))
	for _, i := range e.Permutation(classes) {
		out = append(out, classes[i])
	}
	return out
}

// Permutation returns the input indexes of classes in sorted order.
func (e *Engine) Permutation(classes []string) []int {
	known := make([]ranked, 0, len(classes))
	var unknown []int
	for i, class := range classes {
		if key, ok := e.Rank(class); ok {
			known = append(known, ranked{index: i, key: key})
		} else {
			unknown = append(unknown, i)
		}
	}
	slices.SortStableFunc(known, func(a, b ranked) int { return a.key.Compare(b.key) })

	perm := make([]int, 0, len(classes))
	for _, r := range known {
		perm = append(perm, r.index)
	}
	return append(perm, unknown...)
}

// SortText sorts a whitespace-separated class list. Leading and trailing
// whitespace is kept; classes are joined by single spaces.
func (e *Engine) SortText(value string) string {
	fields := strings.Fields(value)
	if len(fields) < 2 {
		return value
	}
	start := len(value) - len(strings.TrimLeft(value, " \t\r\n\f"))
	end := len(strings.TrimRight(value, " \t\r\n\f"))
	return value[:start] + strings.Join(e.Sort(fields), " ") + value[end:]
}
