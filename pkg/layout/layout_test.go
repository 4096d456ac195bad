package layout

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func boolPtr(b bool) *bool { return &b }

func TestParseDimension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Dimension
		wantErr bool
	}{
		{"", Dimension{}, false},
		{"auto", Dimension{}, false},
		{"50%", Pct(50), false},
		{" 12.5 % ", Pct(12.5), false},
		{"120px", Px(120), false},
		{"120", Px(120), false},
		{"-3", Dimension{}, true},
		{"wide", Dimension{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDimension(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDimensionDecoding(t *testing.T) {
	t.Parallel()

	var fromYAML Constraint
	require.NoError(t, yaml.Unmarshal([]byte("height: 40\nminHeight: '50%'\nmaxHeight: 300px\n"), &fromYAML))
	assert.Equal(t, Px(40), fromYAML.Height)
	assert.Equal(t, Pct(50), fromYAML.MinHeight)
	assert.Equal(t, Px(300), fromYAML.MaxHeight)

	var fromJSON Constraint
	require.NoError(t, json.Unmarshal([]byte(`{"height": 40, "minHeight": "50%", "spanColumns": false}`), &fromJSON))
	assert.Equal(t, Px(40), fromJSON.Height)
	assert.Equal(t, Pct(50), fromJSON.MinHeight)
	assert.False(t, fromJSON.Spans())

	require.Error(t, json.Unmarshal([]byte(`{"height": true}`), &fromJSON))
	require.Error(t, yaml.Unmarshal([]byte("height: tall\n"), &fromYAML))

	out, err := json.Marshal(Pct(50))
	require.NoError(t, err)
	assert.JSONEq(t, `"50%"`, string(out))
}

func TestDistribute(t *testing.T) {
	t.Parallel()

	lines := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, [][]string{lines}, Distribute(lines, 1))
	assert.Equal(t, [][]string{lines}, Distribute(lines, 0))
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e"}}, Distribute(lines, 2))
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, Distribute(lines, 3))
	// ceil(5/4) = 2 lines per column leaves the fourth column empty; it is dropped.
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, Distribute(lines, 4))
	assert.Len(t, Distribute(lines, 10), 5)
	assert.Equal(t, [][]string{nil}, Distribute(nil, 3))
}

func TestDistributeDoesNotAlias(t *testing.T) {
	t.Parallel()

	lines := []string{"a", "b", "c", "d"}
	cols := Distribute(lines, 2)
	cols[0] = append(cols[0], "x")
	assert.Equal(t, []string{"a", "b", "c", "d"}, lines)
}

func TestColumnWidth(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1200, ColumnWidth(1200, 1, 40), 1e-9)
	assert.InDelta(t, 580, ColumnWidth(1200, 2, 40), 1e-9)
	assert.InDelta(t, 1, ColumnWidth(10, 4, 40), 1e-9)
}

func TestResolvePoemContentHeight(t *testing.T) {
	t.Parallel()

	presets, err := BuiltinPresets()
	require.NoError(t, err)
	poem, ok := presets.Get("poem")
	require.True(t, ok)

	canvas := Canvas{Width: 1200, Height: 1200}
	res := Resolve(poem.Sections, canvas, poem.Grid(canvas.Width), poem.Align)

	content, ok := res.Section(SectionContent)
	require.True(t, ok)
	assert.GreaterOrEqual(t, content.Rect.Height, 600.0)
	assert.LessOrEqual(t, content.Rect.Height, 840.0)

	footer, ok := res.Section(SectionFooter)
	require.True(t, ok)
	assert.True(t, footer.Pinned)
	assert.InDelta(t, 96, footer.Rect.Height, 1e-9)
	assert.InDelta(t, 1200-96, footer.Rect.Y, 1e-9)

	title, _ := res.Section(SectionTitle)
	assert.InDelta(t, 180, title.Rect.Height, 1e-9)
	assert.InDelta(t, title.Rect.Y+title.Rect.Height, content.Rect.Y, 1e-9)
	assert.LessOrEqual(t, content.Rect.Y+content.Rect.Height, footer.Rect.Y)
}

func TestResolveInvariantsAcrossPresetsAndCanvases(t *testing.T) {
	t.Parallel()

	presets, err := BuiltinPresets()
	require.NoError(t, err)

	canvases := []Canvas{
		{200, 200}, {1280, 720}, {1920, 1080}, {1080, 1920}, {1200, 1200}, {3840, 2160}, {4000, 200},
	}
	for _, id := range presets.IDs() {
		p, _ := presets.Get(id)
		for _, c := range canvases {
			res := Resolve(p.Sections, c, p.Grid(c.Width), p.Align)
			require.Len(t, res.Sections, len(p.Sections))
			assertInvariants(t, res, c)
		}
	}
}

func TestResolveSharesRemainingSpace(t *testing.T) {
	t.Parallel()

	sections := []Section{
		{Name: "a"},
		{Name: "b", Constraint: Constraint{MaxHeight: Px(100)}},
		{Name: "c"},
		{Name: "f", Constraint: Constraint{Height: Px(100), PinBottom: true}},
	}
	res := Resolve(sections, Canvas{Width: 400, Height: 1000}, Grid{}, AlignTop)

	a, _ := res.Section("a")
	b, _ := res.Section("b")
	c, _ := res.Section("c")
	assert.InDelta(t, 100, b.Rect.Height, 1e-9)
	assert.InDelta(t, 400, a.Rect.Height, 1e-9)
	assert.InDelta(t, 400, c.Rect.Height, 1e-9)
	assert.InDelta(t, 0, a.Rect.Y, 1e-9)
	assert.InDelta(t, 400, b.Rect.Y, 1e-9)
	assert.InDelta(t, 500, c.Rect.Y, 1e-9)
	assertInvariants(t, res, res.Canvas)
}

func TestResolvePinnedSectionsStackFromBottom(t *testing.T) {
	t.Parallel()

	sections := []Section{
		{Name: "upper", Constraint: Constraint{Height: Px(50), PinBottom: true}},
		{Name: "body"},
		{Name: "lower", Constraint: Constraint{PinBottom: true}},
	}
	res := Resolve(sections, Canvas{Width: 300, Height: 600}, Grid{}, AlignTop)

	lower, _ := res.Section("lower")
	upper, _ := res.Section("upper")
	body, _ := res.Section("body")
	assert.InDelta(t, 60, lower.Rect.Height, 1e-9) // 10% default
	assert.InDelta(t, 540, lower.Rect.Y, 1e-9)
	assert.InDelta(t, 490, upper.Rect.Y, 1e-9)
	assert.InDelta(t, 490, body.Rect.Height, 1e-9)
}

func TestResolveConflictingBoundsWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewResolver(zerolog.New(&buf))
	sections := []Section{
		{Name: "content", Constraint: Constraint{MinHeight: Pct(60), MaxHeight: Pct(20)}},
	}
	res := r.Resolve(sections, Canvas{Width: 500, Height: 500}, Grid{}, AlignTop)

	content, _ := res.Section("content")
	assert.InDelta(t, 300, content.Rect.Height, 1e-9)
	assert.Contains(t, buf.String(), "min height exceeds max")
	assert.Contains(t, buf.String(), `"section":"content"`)
}

func TestResolveOverflowShrinksProportionally(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewResolver(zerolog.New(&buf))
	sections := []Section{
		{Name: "a", Constraint: Constraint{Height: Pct(60)}},
		{Name: "b", Constraint: Constraint{Height: Pct(60)}},
		{Name: "f", Constraint: Constraint{Height: Px(100), PinBottom: true}},
	}
	res := r.Resolve(sections, Canvas{Width: 500, Height: 1000}, Grid{}, AlignTop)

	a, _ := res.Section("a")
	b, _ := res.Section("b")
	assert.InDelta(t, a.Rect.Height, b.Rect.Height, 1)
	assert.Contains(t, buf.String(), "overflow")
	assertInvariants(t, res, res.Canvas)
}

func TestResolveGridWidths(t *testing.T) {
	t.Parallel()

	sections := []Section{
		{Name: "title"},
		{Name: "content", Constraint: Constraint{SpanColumns: boolPtr(false)}},
	}
	grid := Grid{Columns: 2, Gutter: 40}
	res := Resolve(sections, Canvas{Width: 1200, Height: 800}, grid, AlignTop)

	title, _ := res.Section("title")
	content, _ := res.Section("content")
	assert.InDelta(t, 1200, title.Rect.Width, 1e-9)
	assert.InDelta(t, 580, content.Rect.Width, 1e-9)
	assert.False(t, content.Spans)

	cols := res.ColumnRects(content)
	require.Len(t, cols, 2)
	assert.InDelta(t, 620, cols[1].X, 1e-9)

	titleCols := res.ColumnRects(title)
	require.Len(t, titleCols, 2)
	assert.InDelta(t, 580, titleCols[0].Width, 1e-9)
}

func TestResolveCenterAlign(t *testing.T) {
	t.Parallel()

	sections := []Section{{Name: "only", Constraint: Constraint{Height: Px(200)}}}
	res := Resolve(sections, Canvas{Width: 400, Height: 1000}, Grid{}, AlignCenter)
	only, _ := res.Section("only")
	assert.InDelta(t, 400, only.Rect.Y, 1e-9)

	res = Resolve(sections, Canvas{Width: 400, Height: 1000}, Grid{}, AlignBottom)
	only, _ = res.Section("only")
	assert.InDelta(t, 800, only.Rect.Y, 1e-9)
}

func TestResolveWidthBounds(t *testing.T) {
	t.Parallel()

	sections := []Section{
		{Name: "narrow", Constraint: Constraint{MaxWidth: Pct(50)}},
		{Name: "fixed", Constraint: Constraint{Width: Px(100)}},
	}
	res := Resolve(sections, Canvas{Width: 800, Height: 400}, Grid{}, AlignTop)
	narrow, _ := res.Section("narrow")
	fixed, _ := res.Section("fixed")
	assert.InDelta(t, 400, narrow.Rect.Width, 1e-9)
	assert.InDelta(t, 200, narrow.Rect.X, 1e-9)
	assert.InDelta(t, 100, fixed.Rect.Width, 1e-9)
}

func TestPresetOverrides(t *testing.T) {
	t.Parallel()

	presets, err := BuiltinPresets()
	require.NoError(t, err)
	poem, _ := presets.Get("POEM")

	over := poem.WithOverrides(map[string]Constraint{
		"content": {MaxHeight: Pct(60)},
		"extra":   {Height: Px(20)},
	})
	require.Len(t, over.Sections, len(poem.Sections)+1)
	assert.Equal(t, Pct(60), over.Sections[1].MaxHeight)
	assert.Equal(t, Pct(50), over.Sections[1].MinHeight)
	assert.Equal(t, "extra", over.Sections[3].Name)

	// The source preset is untouched.
	again, _ := presets.Get("poem")
	assert.Equal(t, Pct(70), again.Sections[1].MaxHeight)
}

func TestParsePresetsErrors(t *testing.T) {
	t.Parallel()

	_, err := ParsePresets([]byte("{}"))
	require.Error(t, err)
	_, err = ParsePresets([]byte("x:\n  align: sideways\n"))
	require.Error(t, err)
	_, err = ParsePresets([]byte("x:\n  sections:\n    - height: 10%\n"))
	require.Error(t, err)

	ps, err := ParsePresets([]byte("x:\n  sections:\n    - name: content\n"))
	require.NoError(t, err)
	x, ok := ps.Get("x")
	require.True(t, ok)
	assert.Equal(t, AlignTop, x.Align)
	assert.Equal(t, 1, x.Columns)
}

func assertInvariants(t *testing.T, res Resolved, c Canvas) {
	t.Helper()

	var stacked, pinned float64
	for _, s := range res.Sections {
		for _, v := range []float64{s.Rect.X, s.Rect.Y, s.Rect.Width, s.Rect.Height} {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "section %s", s.Name)
		}
		require.GreaterOrEqual(t, s.Rect.Width, 1.0, "section %s", s.Name)
		require.GreaterOrEqual(t, s.Rect.Height, 1.0, "section %s", s.Name)
		require.LessOrEqual(t, s.Rect.Width, float64(c.Width), "section %s", s.Name)
		require.GreaterOrEqual(t, s.Rect.Y, 0.0, "section %s", s.Name)
		require.LessOrEqual(t, s.Rect.Y+s.Rect.Height, float64(c.Height), "section %s", s.Name)
		if s.Pinned {
			pinned += s.Rect.Height
		} else {
			stacked += s.Rect.Height
		}
	}
	require.LessOrEqual(t, stacked+pinned, float64(c.Height))
}
