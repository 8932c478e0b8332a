package resolve

import (
	"sort"
	"strings"
)

// Declaration is one `property: value` pair of a description.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// String renders the declaration the way descriptions are written.
func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important;"
	}
	return d.Property + ": " + d.Value + ";"
}

// ParseDeclarations splits a description on ';' outside parentheses,
// brackets and quotes. Fragments without a ':' are dropped.
func ParseDeclarations(description string) []Declaration {
	var decls []Declaration
	for _, part := range splitTopLevel(description, ';') {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		d := Declaration{Property: prop, Value: value}
		if v, ok := strings.CutSuffix(value, "!important"); ok {
			d.Value, d.Important = strings.TrimSpace(v), true
		}
		decls = append(decls, d)
	}
	return decls
}

// FormatDeclarations joins declarations with single spaces.
func FormatDeclarations(decls []Declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

// PropertyNames returns the sorted, distinct property names of decls.
func PropertyNames(decls []Declaration) []string {
	seen := make(map[string]bool, len(decls))
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		if !seen[d.Property] {
			seen[d.Property] = true
			names = append(names, d.Property)
		}
	}
	sort.Strings(names)
	return names
}

func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
