package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/twsense/internal/catalog"
	"github.com/yacobolo/twsense/internal/csscolor"
	"github.com/yacobolo/twsense/internal/order"
	"github.com/yacobolo/twsense/internal/resolve"
	"github.com/yacobolo/twsense/internal/scan"
)

var registry = catalog.NewRegistry()

func newAnalyzer(t *testing.T, d scan.Dialect) *Analyzer {
	t.Helper()
	set, err := registry.Load(catalog.V4)
	require.NoError(t, err)
	r := resolve.New(set.Catalog, nil)
	return New(scan.ForDialect(d), r, order.New(set.Order, r))
}

func full(text string) scan.Span { return scan.NewSpan(0, len(text)) }

func TestAnalyzeHTML(t *testing.T) {
	a := newAnalyzer(t, scan.DialectHTML)
	text := `<div class="bg-blue-500/50 text-sm text-lg custom"></div>`

	res, err := a.Analyze(context.Background(), text, full(text))
	require.NoError(t, err)
	require.Len(t, res.Regions, 1)
	assert.Equal(t, "bg-blue-500/50 text-sm text-lg custom", res.Regions[0].Text(text))
	require.Len(t, res.Tokens, 4)

	bg := res.Tokens[0]
	assert.True(t, bg.Known)
	assert.True(t, bg.HasColor)
	assert.Equal(t, csscolor.RGBA{R: 59, G: 130, B: 246, A: 128}, bg.Color)

	assert.False(t, res.Tokens[3].Known)

	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, "text-sm is overridden by text-lg", res.Diagnostics[0].Message)
	assert.Equal(t, "text-sm", res.Diagnostics[0].Span.Text(text))
	assert.Equal(t, "text-lg overrides text-sm", res.Diagnostics[1].Message)
	assert.Equal(t, SeverityConflict, res.Diagnostics[1].Severity)

	tok, ok := res.TokenAt(len(`<div class="bg-blue-500/50 text-s`))
	require.True(t, ok)
	assert.Equal(t, "font-size: 0.875rem; line-height: 1.25rem;", tok.Description)
}

func TestAnalyzeConflictsPerRegion(t *testing.T) {
	a := newAnalyzer(t, scan.DialectHTML)
	text := `<a class="p-4"></a><b class="p-2"></b>`

	res, err := a.Analyze(context.Background(), text, full(text))
	require.NoError(t, err)
	assert.Len(t, res.Regions, 2)
	assert.Empty(t, res.Diagnostics)
}

func TestAnalyzeCanceled(t *testing.T) {
	a := newAnalyzer(t, scan.DialectHTML)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text := `<div class="p-4"></div>`
	_, err := a.Analyze(ctx, text, full(text))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSort(t *testing.T) {
	tests := []struct {
		name    string
		dialect scan.Dialect
		text    string
		want    string
		changed bool
	}{
		{
			name:    "html attribute",
			dialect: scan.DialectHTML,
			text:    `<div class=" p-4 hover:bg-red-500  m-2 "></div>`,
			want:    `<div class=" m-2 p-4  hover:bg-red-500 "></div>`,
			changed: true,
		},
		{
			name:    "multi-line attribute keeps separators",
			dialect: scan.DialectHTML,
			text:    "<div class=\"p-4\n    hover:bg-red-500\n    m-2\"></div>",
			want:    "<div class=\"m-2\n    p-4\n    hover:bg-red-500\"></div>",
			changed: true,
		},
		{
			name:    "already sorted",
			dialect: scan.DialectHTML,
			text:    `<div class="m-2  p-4"></div>`,
			want:    `<div class="m-2  p-4"></div>`,
		},
		{
			name:    "css apply",
			dialect: scan.DialectCSS,
			text:    ".a { @apply p-4 m-2; }",
			want:    ".a { @apply m-2 p-4; }",
			changed: true,
		},
		{
			name:    "razor keeps dynamic slots",
			dialect: scan.DialectRazor,
			text:    `<div class="p-4 @(on ? "a" : "b") m-2"></div>`,
			want:    `<div class="m-2 @(on ? "a" : "b") p-4"></div>`,
			changed: true,
		},
		{
			name:    "several regions",
			dialect: scan.DialectHTML,
			text:    `<a class="p-4 m-2"></a><b class="text-lg flex"></b>`,
			want:    `<a class="m-2 p-4"></a><b class="flex text-lg"></b>`,
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAnalyzer(t, tt.dialect)
			got, changed, err := a.Sort(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)

			again, changed, err := a.Sort(context.Background(), got)
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, got, again)
		})
	}
}

func TestApplyEdits(t *testing.T) {
	got := ApplyEdits("abcdef", []Edit{
		{Span: scan.NewSpan(0, 1), Text: "X"},
		{Span: scan.NewSpan(4, 6), Text: "YZW"},
	})
	assert.Equal(t, "XbcdYZW", got)
}
