// Package resolve turns decomposed Tailwind classes into CSS descriptions,
// colors and property sets for one project configuration.
package resolve

import (
	"strconv"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yacobolo/twsense/internal/catalog"
	"github.com/yacobolo/twsense/internal/classparse"
	"github.com/yacobolo/twsense/internal/csscolor"
	"github.com/yacobolo/twsense/internal/projectconfig"
)

// Resolution is everything known about one class token.
type Resolution struct {
	Class        classparse.Class
	Description  string
	Declarations []Declaration
	Properties   []string
	Color        csscolor.RGBA
	HasColor     bool
}

type cached struct {
	res Resolution
	ok  bool
}

// Resolver resolves class tokens against a catalog and a project
// configuration. Both are immutable, so results are memoized for the
// resolver's lifetime. It is safe for concurrent use.
type Resolver struct {
	cat   *catalog.Catalog
	cfg   *projectconfig.Config
	opts  classparse.Options
	cache *gocache.Cache
}

// New creates a resolver. A nil config means project defaults.
func New(cat *catalog.Catalog, cfg *projectconfig.Config) *Resolver {
	if cat == nil {
		cat = catalog.Empty(projectconfig.DefaultVersion)
	}
	if cfg == nil {
		cfg = projectconfig.Default("")
	}
	return &Resolver{
		cat: cat,
		cfg: cfg,
		opts: classparse.Options{
			Prefix:        cfg.Prefix,
			IsCustomColor: cfg.IsCustomColor,
		},
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Catalog returns the catalog the resolver reads.
func (r *Resolver) Catalog() *catalog.Catalog { return r.cat }

// Config returns the project configuration the resolver reads.
func (r *Resolver) Config() *projectconfig.Config { return r.cfg }

// Decompose parses token with the project prefix and colors. Classes the
// project blocks are reported as unknown.
func (r *Resolver) Decompose(token string) (classparse.Class, bool) {
	if !r.cfg.IsClassAllowed(token) {
		return classparse.Class{}, false
	}
	return classparse.Decompose(token, r.cat, r.opts)
}

// Resolve returns the full resolution of token.
func (r *Resolver) Resolve(token string) (Resolution, bool) {
	if v, ok := r.cache.Get(token); ok {
		if c, ok := v.(cached); ok {
			return c.res, c.ok
		}
	}
	res, ok := r.resolve(token)
	r.cache.Set(token, cached{res: res, ok: ok}, gocache.NoExpiration)
	return res, ok
}

// Describe returns the CSS declarations a class generates, e.g.
// "padding: 1rem;".
func (r *Resolver) Describe(token string) (string, bool) {
	res, ok := r.Resolve(token)
	if !ok {
		return "", false
	}
	return res.Description, true
}

// Color returns the color a color utility applies, with its opacity
// modifier folded into the alpha channel.
func (r *Resolver) Color(token string) (csscolor.RGBA, bool) {
	res, ok := r.Resolve(token)
	if !ok || !res.HasColor {
		return csscolor.RGBA{}, false
	}
	return res.Color, true
}

// Properties returns the sorted CSS property names a class sets.
func (r *Resolver) Properties(token string) ([]string, bool) {
	res, ok := r.Resolve(token)
	if !ok || len(res.Properties) == 0 {
		return nil, false
	}
	return res.Properties, true
}

// value is what a template placeholder is replaced with.
type value struct {
	text     string
	color    csscolor.RGBA
	hasColor bool
	// isColor selects the {c} template for arbitrary values.
	isColor bool
}

func (r *Resolver) resolve(token string) (Resolution, bool) {
	c, ok := r.Decompose(token)
	if !ok {
		return Resolution{}, false
	}
	v, ok := r.value(c)
	if !ok {
		return Resolution{}, false
	}
	tmpl, placeholder, negated, ok := r.template(c, v)
	if !ok {
		return Resolution{}, false
	}
	negative := c.Negative && !negated

	text := v.text
	if negative && placeholder != "" {
		text = negate(text)
	}
	if placeholder != "" {
		tmpl = substitute(tmpl, text)
	}

	decls := ParseDeclarations(tmpl)
	if len(decls) == 0 {
		return Resolution{}, false
	}
	for i := range decls {
		if negative && placeholder == "" {
			decls[i].Value = negate(decls[i].Value)
		}
		if c.Important {
			decls[i].Important = true
		}
	}

	return Resolution{
		Class:        c,
		Description:  FormatDeclarations(decls),
		Declarations: decls,
		Properties:   PropertyNames(decls),
		Color:        v.color,
		HasColor:     v.hasColor,
	}, true
}

// template finds the description template. Project overrides win over
// built-ins, and an exact class wins over its normalized template. negated
// reports a template written for the negative class itself.
func (r *Resolver) template(c classparse.Class, v value) (tmpl, placeholder string, negated, ok bool) {
	exact := []string{c.Name()}
	if c.Negative {
		exact = append([]string{"-" + c.Name()}, exact...)
	}

	var placeholders []string
	switch c.Shape {
	case classparse.ShapeColor:
		placeholders = []string{catalog.PlaceholderColor, catalog.PlaceholderArbitrary}
	case classparse.ShapeSpacing:
		placeholders = []string{catalog.PlaceholderSpacing}
	case classparse.ShapeArbitrary:
		if v.isColor {
			placeholders = []string{catalog.PlaceholderColor, catalog.PlaceholderArbitrary}
		} else {
			placeholders = []string{catalog.PlaceholderArbitrary, catalog.PlaceholderSpacing}
		}
	}

	for _, table := range []map[string]string{r.cfg.Descriptions, r.cat.Descriptions} {
		for _, key := range exact {
			if d, ok := table[key]; ok {
				return d, placeholderIn(d), strings.HasPrefix(key, "-"), true
			}
		}
		for _, p := range placeholders {
			if d, ok := table[catalog.Template(c.Stem, p)]; ok {
				return d, p, false, true
			}
		}
	}
	return "", "", false, false
}

func substitute(tmpl, text string) string {
	return strings.NewReplacer(
		catalog.PlaceholderColor, text,
		catalog.PlaceholderSpacing, text,
		catalog.PlaceholderArbitrary, text,
	).Replace(tmpl)
}

func placeholderIn(tmpl string) string {
	for _, p := range []string{catalog.PlaceholderColor, catalog.PlaceholderSpacing, catalog.PlaceholderArbitrary} {
		if strings.Contains(tmpl, p) {
			return p
		}
	}
	return ""
}

func (r *Resolver) value(c classparse.Class) (value, bool) {
	switch c.Shape {
	case classparse.ShapeNone, classparse.ShapeKeyword:
		return value{}, true
	case classparse.ShapeSpacing:
		s, ok := r.cat.SpacingValue(c.RawValue)
		return value{text: s}, ok
	}

	switch c.ValueKind {
	case classparse.ValueNamed:
		return r.namedColor(c)
	case classparse.ValueArbitraryParen:
		return r.variable(c, c.RawValue)
	case classparse.ValueArbitraryBracket:
		raw := unescapeArbitrary(c.RawValue)
		if strings.HasPrefix(raw, "--") {
			return r.variable(c, raw)
		}
		if c.Shape != classparse.ShapeColor && looksLikeColor(raw) {
			// Malformed hex or rgb() literal.
			return value{}, false
		}
		v := value{text: raw}
		if c.Shape == classparse.ShapeColor {
			col, ok := csscolor.Parse(raw)
			if !ok {
				return value{}, false
			}
			v.isColor = true
			v.color, v.hasColor = withOpacity(col, c), true
			v.text = colorText(raw, col, c)
		}
		return v, true
	}
	return value{}, false
}

func (r *Resolver) namedColor(c classparse.Class) (value, bool) {
	name := c.RawValue
	if custom, ok := r.cfg.CustomColors[name]; ok {
		v := value{text: custom, isColor: true}
		if col, parsed := csscolor.Parse(custom); parsed {
			v.color, v.hasColor = withOpacity(col, c), true
			v.text = colorText(custom, col, c)
		} else if c.HasOpacity {
			v.text = colorMix(custom, c.Opacity)
		}
		return v, true
	}

	text, ok := r.cat.ColorValue(name)
	if !ok {
		return value{}, false
	}
	v := value{text: text, isColor: true}
	if col, ok := r.cat.Color(name); ok {
		v.color, v.hasColor = withOpacity(col, c), true
		if c.HasOpacity {
			v.text = v.color.String()
		}
	} else if c.HasOpacity {
		v.text = colorMix(text, c.Opacity)
	}
	return v, true
}

// variable resolves "--name" or "--name, fallback" against the project's
// custom properties. An unbound variable has no description.
func (r *Resolver) variable(c classparse.Class, raw string) (value, bool) {
	name, _, _ := strings.Cut(raw, ",")
	name = strings.TrimSpace(name)
	bound, ok := r.cfg.Variable(name)
	if !ok {
		return value{}, false
	}
	v := value{text: "var(" + raw + ")"}
	tmpl, _ := r.cat.Stem(c.Stem)
	if tmpl != nil && tmpl.Colors {
		if col, ok := csscolor.Parse(bound); ok {
			v.isColor = true
			v.color, v.hasColor = withOpacity(col, c), true
			if c.HasOpacity {
				v.text = colorMix(v.text, c.Opacity)
			}
		}
	}
	return v, true
}

func looksLikeColor(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "#") || strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(")
}

func withOpacity(col csscolor.RGBA, c classparse.Class) csscolor.RGBA {
	if !c.HasOpacity {
		return col
	}
	return col.WithOpacity(c.Opacity)
}

func colorText(raw string, col csscolor.RGBA, c classparse.Class) string {
	if !c.HasOpacity {
		return raw
	}
	return col.WithOpacity(c.Opacity).String()
}

func colorMix(color string, opacity int) string {
	return "color-mix(in oklab, " + color + " " + strconv.Itoa(opacity) + "%, transparent)"
}

// unescapeArbitrary turns underscores into spaces; "\_" keeps a literal
// underscore.
func unescapeArbitrary(raw string) string {
	if !strings.Contains(raw, "_") {
		return raw
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		switch {
		case raw[i] == '\\' && i+1 < len(raw) && raw[i+1] == '_':
			b.WriteByte('_')
			i++
		case raw[i] == '_':
			b.WriteByte(' ')
		default:
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

const spacingCalc = "calc(var(--spacing) * "

// negate flips the sign of a CSS value.
func negate(v string) string {
	switch {
	case v == "", v == "0", v == "0px", v == "auto":
		return v
	case strings.HasPrefix(v, "-"):
		return v[1:]
	case v[0] >= '0' && v[0] <= '9', v[0] == '.':
		return "-" + v
	case strings.HasPrefix(v, spacingCalc) && strings.HasSuffix(v, ")"):
		return spacingCalc + "-" + strings.TrimPrefix(v, spacingCalc)
	}
	return "calc(" + v + " * -1)"
}
