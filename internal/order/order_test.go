package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yacobolo/twsense/internal/catalog"
	"github.com/yacobolo/twsense/internal/resolve"
)

var registry = catalog.NewRegistry()

func newEngine(t testing.TB) *Engine {
	t.Helper()
	set, err := registry.Load(catalog.V4)
	require.NoError(t, err)
	return New(set.Order, resolve.New(set.Catalog, nil))
}

func TestSort(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "margin before padding before variants",
			input: []string{"p-4", "hover:bg-red-500", "m-2"},
			want:  []string{"m-2", "p-4", "hover:bg-red-500"},
		},
		{
			name:  "unknown classes keep relative order at the end",
			input: []string{"foo", "p-4", "bar", "m-2"},
			want:  []string{"m-2", "p-4", "foo", "bar"},
		},
		{
			name:  "font sizes ascending",
			input: []string{"text-lg", "text-sm"},
			want:  []string{"text-sm", "text-lg"},
		},
		{
			name:  "arbitrary variant after named variants",
			input: []string{"[&>*]:p-4", "hover:p-4", "p-4"},
			want:  []string{"p-4", "hover:p-4", "[&>*]:p-4"},
		},
		{
			name:  "equal keys keep input order",
			input: []string{"p-4", "p-2"},
			want:  []string{"p-4", "p-2"},
		},
		{
			name:  "empty",
			input: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Sort(tt.input))
		})
	}
}

func TestSortDeterministic(t *testing.T) {
	e := newEngine(t)
	input := []string{"p-4", "hover:bg-red-500", "m-2"}
	first := e.Sort(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, newEngine(t).Sort(input))
	}
}

func TestSortIdempotent(t *testing.T) {
	e := newEngine(t)
	pool := []string{
		"p-4", "m-2", "-mt-1", "flex", "block", "hidden", "text-sm", "text-lg",
		"bg-red-500", "bg-blue-500/50", "hover:bg-red-500", "md:p-2", "md:hover:p-1",
		"dark:text-white", "w-[10px]", "!font-bold", "unknown", "custom-class",
		"[&>*]:m-1", "group-hover:shadow", "focus:border-blue-500",
	}

	rapid.Check(t, func(t *rapid.T) {
		classes := rapid.SliceOf(rapid.SampledFrom(pool)).Draw(t, "classes")
		once := e.Sort(classes)
		twice := e.Sort(once)
		if len(once) != len(classes) {
			t.Fatalf("sort changed length: %v -> %v", classes, once)
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Fatalf("sort not idempotent: %v -> %v", once, twice)
			}
		}
	})
}

func TestSortText(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, "  m-2 p-4 ", e.SortText("  p-4 \n m-2 "))
	assert.Equal(t, "p-4", e.SortText("p-4"))
	assert.Equal(t, "", e.SortText(""))
}

func TestKeyCompare(t *testing.T) {
	plain := Key{Base: 100}
	varied := Key{Variants: []int{0}, Base: 0}
	deeper := Key{Variants: []int{0, 1}, Base: 0}

	assert.Equal(t, -1, plain.Compare(varied))
	assert.Equal(t, 1, deeper.Compare(varied))
	assert.Equal(t, -1, Key{Variants: []int{1, 9}}.Compare(Key{Variants: []int{2}}))
	assert.Equal(t, 0, plain.Compare(Key{Base: 100}))
}

func TestRankUnknown(t *testing.T) {
	e := newEngine(t)
	_, ok := e.Rank("nosuchvariant:p-4")
	assert.False(t, ok)
	_, ok = e.Rank("not-a-class")
	assert.False(t, ok)
	_, ok = e.Rank("md:p-4")
	assert.True(t, ok)
}

func TestConflicts(t *testing.T) {
	e := newEngine(t)

	groups := e.Conflicts([]string{"text-lg", "p-4", "text-sm"})
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "font-size,line-height", g.Properties)
	require.Len(t, g.Members, 2)
	assert.Equal(t, "text-lg", g.Members[g.Winner].Class)

	diags := g.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, Diagnostic{Index: 2, Class: "text-sm", Message: "text-sm is overridden by text-lg"}, diags[0])
	assert.Equal(t, Diagnostic{Index: 0, Class: "text-lg", Message: "text-lg overrides text-sm", Winner: true}, diags[1])
}

func TestConflictsGrouping(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name    string
		classes []string
		groups  int
	}{
		{"different variants", []string{"p-4", "hover:p-2"}, 0},
		{"same variants", []string{"hover:p-4", "hover:p-2"}, 1},
		{"duplicates", []string{"p-4", "p-4"}, 0},
		{"important separates", []string{"p-4", "!p-2"}, 0},
		{"different properties", []string{"p-4", "m-4", "px-2"}, 0},
		{"unknown ignored", []string{"foo", "foo"}, 0},
		{"two groups", []string{"p-1", "bg-red-500", "p-2", "bg-blue-500"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, e.Conflicts(tt.classes), tt.groups)
		})
	}
}

func TestConflictWinnerTieBreak(t *testing.T) {
	e := newEngine(t)
	// Same template rank: the lexically last base class wins.
	groups := e.Conflicts([]string{"bg-red-500", "bg-blue-500"})
	require.Len(t, groups, 1)
	assert.Equal(t, "bg-red-500", groups[0].Members[groups[0].Winner].Class)

	groups = e.Conflicts([]string{"md:p-4", "md:p-2"})
	require.Len(t, groups, 1)
	assert.Equal(t, "md:p-4", groups[0].Members[groups[0].Winner].Class)

	// Same base: the later occurrence wins.
	groups = e.Conflicts([]string{"!p-4", "p-4!"})
	require.Len(t, groups, 1)
	assert.Equal(t, "p-4!", groups[0].Members[groups[0].Winner].Class)
}

func TestConflictsEmptyOrderTable(t *testing.T) {
	set, err := registry.Load(catalog.V4)
	require.NoError(t, err)
	e := New(catalog.EmptyOrder(), resolve.New(set.Catalog, nil))
	assert.Nil(t, e.Conflicts([]string{"text-sm", "text-lg"}))
}
