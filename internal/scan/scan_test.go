package scan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func texts(text string, spans []Span) []string {
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.Text(text))
	}
	return out
}

func tokenTexts(tokens []ClassToken) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Text)
	}
	return out
}

func whole(text string) Span { return NewSpan(0, len(text)) }

func TestSpan(t *testing.T) {
	t.Parallel()

	s := NewSpan(2, 5)
	assert.Equal(t, 3, s.Length)
	assert.Equal(t, 5, s.End())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(5))
	assert.True(t, s.Overlaps(NewSpan(4, 9)))
	assert.False(t, s.Overlaps(NewSpan(5, 9)))
	assert.Equal(t, NewSpan(0, 9), NewSpan(0, 1).Union(NewSpan(7, 9)))
	assert.Equal(t, "llo", s.Text("hello"))
	assert.Equal(t, "", NewSpan(10, 20).Text("hello"))
	assert.True(t, NewSpan(3, 1).IsEmpty())
}

func TestCSSApplyScenario(t *testing.T) {
	t.Parallel()

	text := ".a { @apply text-sm text-lg; }"
	s := ForDialect(DialectCSS)

	regions := ScanAll(s, text)
	require.Len(t, regions, 1)
	assert.Equal(t, "text-sm text-lg", regions[0].Text(text))
	assert.Equal(t, strings.Index(text, "text-sm"), regions[0].Start)
}

func TestCSSScopes(t *testing.T) {
	t.Parallel()

	s := cssScanner{}

	tests := []struct {
		name    string
		text    string
		changed string
		want    []string
	}{
		{
			name:    "expands to delimiters",
			text:    ".a { @apply p-4 m-2; color: red; }",
			changed: "p-4",
			want:    []string{" @apply p-4 m-2"},
		},
		{
			name:    "splits at inner delimiters",
			text:    ".a { @apply p-4; color: red; }",
			changed: "p-4; color",
			want:    []string{" @apply p-4", " color: red"},
		},
		{
			name:    "buffer edges",
			text:    "@apply flex",
			changed: "flex",
			want:    []string{"@apply flex"},
		},
		{
			name:    "escaped delimiter is not a boundary",
			text:    `.a\;b { @apply x }`,
			changed: "a",
			want:    []string{`.a\;b `},
		},
		{
			name:    "whitespace only change",
			text:    ".a {   }",
			changed: "  ",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			at := strings.Index(tt.text, tt.changed)
			require.GreaterOrEqual(t, at, 0)
			got := s.Scopes(tt.text, NewSpan(at, at+len(tt.changed)))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, texts(tt.text, got))
		})
	}
}

func TestCSSRegions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"important stripped", ".a { @apply font-bold underline !important; }", []string{"font-bold underline"}},
		{"comment before keyword", ".a { /* x */ @apply p-2; }", []string{"p-2"}},
		{"no semicolon", ".a { @apply p-2 }", []string{"p-2"}},
		{"other at-rule", "@media print { .a { color: red; } }", nil},
		{"apply prefix only", ".a { @applyish p-2; }", nil},
		{"nested rules", "@media (min-width: 1px) { .a { @apply m-1; } .b { @apply m-2; } }", []string{"m-1", "m-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ScanAll(cssScanner{}, tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, texts(tt.text, got))
		})
	}
}

func TestCSSScopesNeverOverlap(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z @;{}\\ -]{0,40}`).Draw(t, "text")
		start := rapid.IntRange(0, len(text)).Draw(t, "start")
		end := rapid.IntRange(start, len(text)).Draw(t, "end")

		scopes := cssScanner{}.Scopes(text, NewSpan(start, end))
		for i, s := range scopes {
			if s.Start < 0 || s.End() > len(text) {
				t.Fatalf("scope %v outside buffer of %d", s, len(text))
			}
			if i > 0 && scopes[i-1].Overlaps(s) {
				t.Fatalf("scopes %v and %v overlap", scopes[i-1], s)
			}
		}
	})
}

func TestHTMLRegions(t *testing.T) {
	t.Parallel()

	text := `<div id="a" class="p-4 m-2"><span :class="x" data-class="y" class='flex'>class="no"</span></div>`
	got := ScanAll(htmlScanner{}, text)
	assert.Equal(t, []string{"p-4 m-2", "flex"}, texts(text, got))
}

func TestHTMLScopes(t *testing.T) {
	t.Parallel()

	text := `<p>hello</p><div title="a>b" class="p-4">x</div>`
	s := htmlScanner{}

	at := strings.Index(text, "p-4")
	scopes := s.Scopes(text, NewSpan(at, at+1))
	require.Len(t, scopes, 1)
	assert.Equal(t, `<div title="a>b" class="p-4">`, scopes[0].Text(text))

	at = strings.Index(text, "hello")
	scopes = s.Scopes(text, NewSpan(at, at+5))
	require.Len(t, scopes, 1)
	assert.Empty(t, s.Regions(text, scopes[0]))

	unterminated := `<div class="p-4`
	scopes = s.Scopes(unterminated, NewSpan(13, 14))
	require.Len(t, scopes, 1)
	assert.Equal(t, unterminated, scopes[0].Text(unterminated))
	assert.Equal(t, []string{"p-4"}, texts(unterminated, s.Regions(unterminated, scopes[0])))
}

func TestJSRegions(t *testing.T) {
	t.Parallel()

	text := "const base = cn(\"px-2 py-1\", active && 'bg-blue-500', { 'font-bold': bold })\n" +
		"export const A = () => <a className=\"underline\" href={url}>x</a>\n" +
		"const B = <b className={`text-${size} italic`} />\n" +
		"const notAHelper = scan(\"p-4\")\n"

	got := texts(text, ScanAll(jsScanner{}, text))
	assert.Equal(t, []string{"px-2 py-1", "bg-blue-500", "font-bold", "underline", "text-${size} italic"}, got)
}

func TestJSMultilineHelper(t *testing.T) {
	t.Parallel()

	text := "const c = clsx(\n  \"p-4\",\n  \"m-2\"\n)\n"
	at := strings.Index(text, "m-2")
	s := jsScanner{}
	var regions []Span
	for _, scope := range s.Scopes(text, NewSpan(at, at+3)) {
		regions = append(regions, s.Regions(text, scope)...)
	}
	assert.Equal(t, []string{"p-4", "m-2"}, texts(text, regions))
}

func TestJSSplitTemplate(t *testing.T) {
	t.Parallel()

	text := "text-${ size } italic ${a}"
	tokens := jsScanner{}.Split(text, whole(text))
	require.Len(t, tokens, 3)
	assert.Equal(t, "text-${ size }", tokens[0].Text)
	assert.True(t, tokens[0].Dynamic)
	assert.Equal(t, "italic", tokens[1].Text)
	assert.False(t, tokens[1].Dynamic)
	assert.True(t, tokens[2].Dynamic)
}

func TestRazorScenario(t *testing.T) {
	t.Parallel()

	text := `<div class="@(isActive ? "active" : "")">`
	s := razorScanner{}

	regions := ScanAll(s, text)
	require.Len(t, regions, 1)
	assert.Equal(t, `@(isActive ? "active" : "")`, regions[0].Text(text))

	tokens := s.Split(text, regions[0])
	require.Len(t, tokens, 1)
	assert.True(t, tokens[0].Dynamic)
	assert.Equal(t, `@(isActive ? "active" : "")`, tokens[0].Text)
}

func TestRazorSplit(t *testing.T) {
	t.Parallel()

	text := `p-4 @(a ? "x y" : "z") bg-@Model.Color @@container:flex m-2 @item.Css`
	tokens := razorScanner{}.Split(text, whole(text))

	assert.Equal(t, []string{
		"p-4",
		`@(a ? "x y" : "z")`,
		"bg-@Model.Color",
		"@container:flex",
		"m-2",
		"@item.Css",
	}, tokenTexts(tokens))
	dynamic := []bool{false, true, true, false, false, true}
	for i, tok := range tokens {
		assert.Equal(t, dynamic[i], tok.Dynamic, tok.Text)
	}
	assert.Equal(t, "@@container:flex", tokens[3].Span.Text(text))
}

func TestRazorEscapedQuote(t *testing.T) {
	t.Parallel()

	text := `<p class="@("a\"b") m-2" id="x">`
	regions := ScanAll(razorScanner{}, text)
	require.Len(t, regions, 1)
	assert.Equal(t, `@("a\"b") m-2`, regions[0].Text(text))
}

func TestRazorTagStartSkipsExpressions(t *testing.T) {
	t.Parallel()

	text := `<div class="@(a < b ? "p-1" : "p-2") m-4">`
	at := strings.Index(text, "m-4")
	scopes := razorScanner{}.Scopes(text, NewSpan(at, at+1))
	require.Len(t, scopes, 1)
	assert.Equal(t, text, scopes[0].Text(text))
	assert.True(t, HasRazorExpression(`@(a)`))
	assert.False(t, HasRazorExpression(`@@media`))

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"static paren in earlier attribute", `<p>x</p><div title=":)" class="p-4 m-2"></div>`, []string{"p-4 m-2"}},
		{"unbalanced open paren", `<div data-a="(" class="p-4 m-2"></div>`, []string{"p-4 m-2"}},
		{"escaped at before paren", `<div title="@@(x)" class="p-4 m-2"></div>`, []string{"p-4 m-2"}},
		{"method call expression", `<div class="@Model.Get(")") p-4 m-2"></div>`, []string{`@Model.Get(")") p-4 m-2`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := razorScanner{}
			at := strings.Index(tt.text, "p-4")
			var regions []Span
			for _, scope := range s.Scopes(tt.text, NewSpan(at, at+3)) {
				regions = append(regions, s.Regions(tt.text, scope)...)
			}
			assert.Equal(t, tt.want, texts(tt.text, regions))
		})
	}
}

func TestRazorEscapeNeverDynamic(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[a-z0-9:-]{1,10}`).Draw(t, "word")
		text := "@@" + word + " " + word
		for _, tok := range splitRazor(text, whole(text)) {
			if tok.Dynamic {
				t.Fatalf("token %q marked dynamic", tok.Text)
			}
		}
	})
}

func TestDuplicateTokensDistinctSpans(t *testing.T) {
	t.Parallel()

	text := "p-4 m-2 p-4"
	for _, d := range []Dialect{DialectHTML, DialectCSS, DialectJS, DialectRazor} {
		tokens := ForDialect(d).Split(text, whole(text))
		require.Len(t, tokens, 3, d.String())
		assert.Equal(t, 0, tokens[0].Span.Start)
		assert.Equal(t, 8, tokens[2].Span.Start)
	}
}

func TestDetectDialect(t *testing.T) {
	t.Parallel()

	tests := map[string]Dialect{
		"index.html":           DialectHTML,
		"Views/Home.cshtml":    DialectRazor,
		"Pages/Counter.razor":  DialectRazor,
		"src/app.css":          DialectCSS,
		"src/App.tsx":          DialectJS,
		"src/App.jsx":          DialectJS,
		"src/main.ts":          DialectJS,
		"components/Card.vue":  DialectJS,
		"components/Nav.templ": DialectJS,
	}
	for path, want := range tests {
		got, ok := DetectDialect(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := DetectDialect("main.go")
	assert.False(t, ok)
	assert.Nil(t, ForDialect(DialectUnknown))
}
