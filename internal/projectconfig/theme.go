package projectconfig

import (
	"bytes"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/yacobolo/twsense/internal/catalog"
)

const colorVariablePrefix = "--color-"

// Theme is what a Tailwind CSS entry file declares about the project.
type Theme struct {
	// Version is V4 for `@import "tailwindcss"` or v4-only at-rules, V3 for
	// `@tailwind` directives, and 0 when the file says nothing.
	Version catalog.Version
	// Prefix comes from `@import "tailwindcss" prefix(tw)`.
	Prefix string
	// Variables holds the custom properties declared in @theme blocks.
	Variables map[string]string
}

// Colors returns the palette additions from --color-* variables, keyed by
// color name ("--color-brand-500" becomes "brand-500").
func (t Theme) Colors() map[string]string {
	colors := make(map[string]string)
	for name, value := range t.Variables {
		if color, ok := strings.CutPrefix(name, colorVariablePrefix); ok && color != "" {
			colors[color] = value
		}
	}
	return colors
}

var v4AtRules = map[string]bool{
	"@theme":          true,
	"@utility":        true,
	"@variant":        true,
	"@custom-variant": true,
	"@source":         true,
	"@plugin":         true,
}

// ParseTheme scans a CSS entry file. Anything it does not understand is
// skipped; it never fails.
func ParseTheme(content string) Theme {
	theme := Theme{Variables: make(map[string]string)}
	lexer := css.NewLexer(parse.NewInputString(content))

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt != css.AtKeywordToken {
			continue
		}

		keyword := strings.ToLower(string(text))
		switch keyword {
		case "@tailwind":
			if theme.Version == 0 {
				theme.Version = catalog.V3
			}
		case "@import":
			theme.handleImport(lexer)
		}
		if v4AtRules[keyword] {
			theme.Version = catalog.V4
		}
		if keyword == "@theme" {
			theme.handleThemeBlock(lexer)
		}
	}
	return theme
}

// handleImport reads an @import up to its ';'.
func (t *Theme) handleImport(lexer *css.Lexer) {
	for {
		tt, text := lexer.Next()
		switch tt {
		case css.ErrorToken, css.SemicolonToken:
			return
		case css.StringToken, css.URLToken:
			if strings.Trim(string(text), `"'`) == "tailwindcss" {
				t.Version = catalog.V4
			}
		case css.FunctionToken:
			if strings.EqualFold(string(text), "prefix(") {
				if tt, ident := lexer.Next(); tt == css.IdentToken {
					t.Prefix = string(ident)
				}
			}
		}
	}
}

// handleThemeBlock reads `@theme [options] { --name: value; ... }`.
func (t *Theme) handleThemeBlock(lexer *css.Lexer) {
	for {
		tt, _ := lexer.Next()
		if tt == css.ErrorToken || tt == css.SemicolonToken {
			return
		}
		if tt == css.LeftBraceToken {
			break
		}
	}

	depth := 0
	for {
		tt, text := lexer.Next()
		switch {
		case tt == css.ErrorToken:
			return
		case tt == css.LeftBraceToken:
			depth++
		case tt == css.RightBraceToken:
			if depth == 0 {
				return
			}
			depth--
		case depth > 0:
		case tt == css.CustomPropertyNameToken, tt == css.IdentToken && bytes.HasPrefix(text, []byte("--")):
			name := string(text)
			value, ok, closed := readDeclarationValue(lexer)
			if ok && !strings.ContainsAny(name, "*") && !strings.HasSuffix(name, "-") {
				t.Variables[name] = value
			}
			if closed {
				return
			}
		}
	}
}

// readDeclarationValue consumes `: value` up to ';' or the closing '}' of
// the block. closed reports that the block ended.
func readDeclarationValue(lexer *css.Lexer) (value string, ok, closed bool) {
	var b strings.Builder
	sawColon := false
	depth := 0
	for {
		tt, text := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return "", false, true
		case css.WhitespaceToken, css.CommentToken:
			if sawColon && b.Len() > 0 {
				b.WriteByte(' ')
			}
			continue
		case css.ColonToken:
			if !sawColon {
				sawColon = true
				continue
			}
		case css.SemicolonToken:
			if depth == 0 {
				return strings.TrimSpace(b.String()), sawColon, false
			}
		case css.LeftBraceToken, css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.RightBraceToken:
			if depth == 0 {
				return strings.TrimSpace(b.String()), sawColon, true
			}
			depth--
		}
		if !sawColon {
			// "--color-*: initial" lexes the name in pieces; skip to the ';'.
			continue
		}
		b.Write(text)
	}
}
