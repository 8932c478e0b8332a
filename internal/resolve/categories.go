package resolve

import (
	"sort"
	"strings"
)

// Category groups related CSS properties in quick-info output.
type Category string

// Property categories, in display order.
const (
	CategoryLayout     Category = "Layout"
	CategoryTypography Category = "Typography"
	CategoryVisual     Category = "Visual"
	CategoryEffects    Category = "Effects"
	CategoryInternal   Category = "Internal"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryLayout, CategoryTypography, CategoryVisual, CategoryEffects, CategoryInternal}

var categoryMembers = map[Category][]string{
	CategoryVisual: {
		"accent-color", "background", "background-attachment", "background-color",
		"background-image", "background-position", "background-repeat", "background-size",
		"border", "border-color", "border-radius", "border-style", "border-width",
		"box-shadow", "caret-color", "color", "fill", "opacity", "outline",
		"outline-color", "outline-offset", "outline-style", "outline-width", "stroke",
		"stroke-width", "text-decoration-color",
	},
	CategoryLayout: {
		"align-content", "align-items", "align-self", "aspect-ratio", "bottom",
		"box-sizing", "clear", "column-gap", "columns", "display", "flex", "flex-basis",
		"flex-direction", "flex-grow", "flex-shrink", "flex-wrap", "float", "gap",
		"grid-column", "grid-row", "grid-template-columns", "grid-template-rows",
		"height", "inset", "inset-block", "inset-inline", "isolation", "justify-content",
		"justify-items", "justify-self", "left", "margin", "max-height", "max-width",
		"min-height", "min-width", "object-fit", "object-position", "order", "overflow",
		"overflow-x", "overflow-y", "padding", "place-content", "place-items", "position",
		"right", "row-gap", "top", "visibility", "width", "z-index",
	},
	CategoryTypography: {
		"font-family", "font-size", "font-style", "font-variant-numeric", "font-weight",
		"hyphens", "letter-spacing", "line-height", "list-style-type", "text-align",
		"text-decoration-line", "text-overflow", "text-transform", "vertical-align",
		"white-space", "word-break",
	},
	CategoryEffects: {
		"animation", "backdrop-filter", "clip-path", "cursor", "filter", "mask",
		"mix-blend-mode", "pointer-events", "rotate", "scale", "transform",
		"transform-origin", "transition-delay", "transition-duration",
		"transition-property", "transition-timing-function", "translate", "user-select",
	},
}

var propertyCategories = func() map[string]Category {
	m := make(map[string]Category)
	for cat, props := range categoryMembers {
		for _, p := range props {
			m[p] = cat
		}
	}
	return m
}()

// CategoryOf returns the category of a CSS property.
func CategoryOf(property string) Category {
	if cat, ok := propertyCategories[property]; ok {
		return cat
	}
	switch {
	case strings.HasPrefix(property, "--"),
		strings.HasPrefix(property, "-webkit-"),
		strings.HasPrefix(property, "-moz-"):
		return CategoryInternal
	case strings.HasPrefix(property, "border-"), strings.HasPrefix(property, "outline-"):
		return CategoryVisual
	case strings.HasPrefix(property, "font-"), strings.HasPrefix(property, "text-"):
		return CategoryTypography
	case strings.HasPrefix(property, "transition"), strings.HasPrefix(property, "animation"):
		return CategoryEffects
	}
	return CategoryLayout
}

// Categorize groups the declarations of a description, sorted by property
// within each category.
func Categorize(description string) map[Category][]Declaration {
	result := make(map[Category][]Declaration)
	for _, d := range ParseDeclarations(description) {
		cat := CategoryOf(d.Property)
		result[cat] = append(result[cat], d)
	}
	for cat := range result {
		sort.SliceStable(result[cat], func(i, j int) bool {
			return result[cat][i].Property < result[cat][j].Property
		})
	}
	return result
}

// UsesVariable reports whether a value reads a CSS custom property.
func UsesVariable(value string) bool {
	return strings.Contains(value, "var(--")
}
