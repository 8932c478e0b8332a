package catalog

import "strings"

// OrderTables rank classes and variants in Tailwind's canonical order.
type OrderTables struct {
	Classes  map[string]int
	Variants map[string]int
}

// EmptyOrder returns tables with no entries.
func EmptyOrder() *OrderTables {
	return &OrderTables{Classes: map[string]int{}, Variants: map[string]int{}}
}

func newOrderTables(classes, variants []string) *OrderTables {
	t := &OrderTables{
		Classes:  make(map[string]int, len(classes)),
		Variants: make(map[string]int, len(variants)),
	}
	for i, c := range classes {
		if _, dup := t.Classes[c]; !dup {
			t.Classes[c] = i
		}
	}
	for i, v := range variants {
		if _, dup := t.Variants[v]; !dup {
			t.Variants[v] = i
		}
	}
	return t
}

// IsEmpty reports whether no class ranks are known.
func (t *OrderTables) IsEmpty() bool {
	return t == nil || len(t.Classes) == 0
}

// ClassRank returns the rank of the first key found in the table.
func (t *OrderTables) ClassRank(keys ...string) (int, bool) {
	for _, k := range keys {
		if r, ok := t.Classes[k]; ok {
			return r, true
		}
	}
	return 0, false
}

// VariantRank ranks a single variant. Named groups ("group-hover/item") rank
// as their unnamed form, parameterized variants ("data-[open]", "max-[600px]")
// fall back to their "name-*" entry, and arbitrary variants ("[&>*]") rank
// after every known variant.
func (t *OrderTables) VariantRank(variant string) (int, bool) {
	if t == nil || len(t.Variants) == 0 {
		return 0, false
	}
	if strings.HasPrefix(variant, "[") {
		return len(t.Variants), true
	}
	if i := strings.LastIndexByte(variant, '/'); i > 0 && !strings.Contains(variant[i:], "]") {
		variant = variant[:i]
	}
	if r, ok := t.Variants[variant]; ok {
		return r, true
	}
	if strings.HasPrefix(variant, "@") {
		if r, ok := t.Variants["@*"]; ok {
			return r, true
		}
	}
	if i := strings.IndexByte(variant, '-'); i > 0 {
		if r, ok := t.Variants[variant[:i]+"-*"]; ok {
			return r, true
		}
	}
	return 0, false
}
