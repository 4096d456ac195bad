package compose

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/GoPoster/pkg/assets"
	"github.com/xob0t/GoPoster/pkg/branding"
	"github.com/xob0t/GoPoster/pkg/effects"
	"github.com/xob0t/GoPoster/pkg/layout"
	"github.com/xob0t/GoPoster/pkg/scene"
	"github.com/xob0t/GoPoster/pkg/theme"
)

func resolved(t *testing.T, preset string, w, h int) (layout.Resolved, float64) {
	t.Helper()
	ps, err := layout.BuiltinPresets()
	require.NoError(t, err)
	p, ok := ps.Get(preset)
	require.True(t, ok, preset)
	canvas := layout.Canvas{Width: w, Height: h}
	return layout.Resolve(p.Sections, canvas, p.Grid(w), p.Align), p.PaddingFor(canvas)
}

func themeByID(t *testing.T, id string) theme.Theme {
	t.Helper()
	cat, err := theme.Builtin()
	require.NoError(t, err)
	th, ok := cat.Get(id)
	require.True(t, ok, id)
	return th
}

func request(t *testing.T, themeID, preset, title, body string) Request {
	t.Helper()
	th := themeByID(t, themeID)
	res, pad := resolved(t, preset, 1200, 1200)
	return Request{
		Title:     title,
		Body:      body,
		Theme:     th,
		Layout:    res,
		Padding:   pad,
		Align:     AlignCenter,
		TitleFont: th.Fonts.Title,
		BodyFont:  th.Fonts.Body,
		Scale:     1,
		Effects:   effects.Generate(effects.ParseAll(th.Effects, zerolog.Nop()), th),
	}
}

func contentNodes(doc *scene.Document) []scene.Text {
	var out []scene.Text
	for _, n := range doc.Nodes {
		if tx, ok := n.(scene.Text); ok && tx.Section == layout.SectionContent {
			out = append(out, tx)
		}
	}
	return out
}

func TestParseAlign(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Align{"left": AlignLeft, " Center ": AlignCenter, "end": AlignRight, "middle": AlignCenter} {
		got, err := ParseAlign(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAlign("justify")
	assert.Error(t, err)
}

func TestComposeNodeOrder(t *testing.T) {
	t.Parallel()

	req := request(t, "default", "poem", "Title", "a short body")
	req.Background = image.NewRGBA(image.Rect(0, 0, 1200, 1200))
	doc := New().Compose(req)

	require.Len(t, doc.Nodes, 4)
	assert.IsType(t, scene.Image{}, doc.Nodes[0])
	assert.Equal(t, layout.SectionTitle, doc.Nodes[1].(scene.Text).Section)
	assert.Equal(t, layout.SectionContent, doc.Nodes[2].(scene.Text).Section)
	assert.Equal(t, "branding", doc.Nodes[3].(scene.Group).ID)
	assert.Equal(t, 1200.0, doc.Width)
}

func TestComposeOmitsMissingSections(t *testing.T) {
	t.Parallel()

	req := request(t, "default", "minimal", "   ", "body text")
	doc := New().Compose(req)

	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, layout.SectionContent, doc.Nodes[0].(scene.Text).Section)
}

func TestComposeTitleIsSingleLine(t *testing.T) {
	t.Parallel()

	req := request(t, "default", "poem", "Two\nlines", "body")
	doc := New().Compose(req)
	title := doc.Nodes[0].(scene.Text)
	assert.Equal(t, []string{"Two lines"}, title.Lines)
}

func TestComposeAlignment(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		align  Align
		anchor scene.Anchor
		x      func(r layout.Rect, pad float64) float64
	}{
		{AlignLeft, scene.AnchorStart, func(r layout.Rect, pad float64) float64 { return r.X + pad }},
		{AlignCenter, scene.AnchorMiddle, func(r layout.Rect, pad float64) float64 { return r.X + r.Width/2 }},
		{AlignRight, scene.AnchorEnd, func(r layout.Rect, pad float64) float64 { return r.X + r.Width - pad }},
	} {
		t.Run(string(tc.align), func(t *testing.T) {
			req := request(t, "default", "poem", "", "some body")
			req.Align = tc.align
			doc := New().Compose(req)

			sec, ok := req.Layout.Section(layout.SectionContent)
			require.True(t, ok)
			body := contentNodes(doc)
			require.Len(t, body, 1)
			assert.Equal(t, tc.anchor, body[0].Anchor)
			assert.InDelta(t, tc.x(sec.Rect, req.Padding), body[0].X, 1e-9)
		})
	}
}

func TestComposeKeepsEveryWord(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	doc := New(WithFonts(assets.New())).Compose(request(t, "default", "poem", "", body))

	var words []string
	for _, n := range contentNodes(doc) {
		for _, l := range n.Lines {
			words = append(words, strings.Fields(l)...)
		}
	}
	assert.Equal(t, strings.Fields(body), words)
}

func TestComposeMeasuredLinesFit(t *testing.T) {
	t.Parallel()

	store := assets.New()
	body := strings.Repeat("WWWW MMMM ", 40)
	req := request(t, "default", "poem", "", body)
	doc := New(WithFonts(store)).Compose(req)

	sec, _ := req.Layout.Section(layout.SectionContent)
	width := sec.Rect.Width - 2*req.Padding
	for _, n := range contentNodes(doc) {
		face, err := store.FontFace(n.Font.Family, n.Font.Weight, n.Font.Size)
		require.NoError(t, err)
		for _, l := range n.Lines {
			assert.LessOrEqual(t, measure(face, l), width, l)
		}
	}
}

func TestComposeAutoFit(t *testing.T) {
	t.Parallel()

	short := contentNodes(New().Compose(request(t, "default", "poem", "", "short")))
	require.Len(t, short, 1)
	assert.Equal(t, 36.0, short[0].Font.Size, "short bodies keep the base size")

	var buf bytes.Buffer
	long := strings.Repeat("word ", 2000)
	nodes := contentNodes(New(WithLogger(zerolog.New(&buf))).Compose(request(t, "default", "poem", "", long)))
	require.Len(t, nodes, 1)
	assert.Less(t, nodes[0].Font.Size, 36.0)
	assert.GreaterOrEqual(t, nodes[0].Font.Size, 22.0, "never below the 0.6 floor")
	assert.Contains(t, buf.String(), `"section":"content"`)

	medium := strings.Repeat("word ", 260)
	nodes = contentNodes(New().Compose(request(t, "default", "poem", "", medium)))
	req := request(t, "default", "poem", "", medium)
	sec, _ := req.Layout.Section(layout.SectionContent)
	assert.LessOrEqual(t, float64(len(nodes[0].Lines))*nodes[0].LineHeight, sec.Rect.Height)
}

func TestComposeColumns(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("column flow text ", 60)
	req := request(t, "paper", "article", "Article", body)
	req.Align = AlignLeft
	nodes := contentNodes(New().Compose(req))

	require.Len(t, nodes, 2)
	assert.Greater(t, nodes[1].X, nodes[0].X)
	assert.Equal(t, nodes[0].Y, nodes[1].Y)
	assert.GreaterOrEqual(t, len(nodes[0].Lines), len(nodes[1].Lines))
}

func TestComposeEffectsAndPaint(t *testing.T) {
	t.Parallel()

	req := request(t, "neon", "poem", "Glow", "body")
	doc := New().Compose(req)

	title := doc.Nodes[0].(scene.Text)
	require.NotEmpty(t, title.Fill.Ref, "gradient fill replaces the solid color")
	_, ok := doc.Defs.Paint(title.Fill.Ref)
	assert.True(t, ok)
	assert.NotEmpty(t, title.Filters)

	body := contentNodes(doc)[0]
	assert.Empty(t, body.Fill.Ref)
	for _, id := range body.Filters {
		_, ok := doc.Defs.Filter(id)
		assert.True(t, ok, id)
	}
}

func TestComposeBrandingFields(t *testing.T) {
	t.Parallel()

	req := request(t, "default", "poem", "", "body")
	req.Branding = branding.Fields{Name: "Kavi"}
	doc := New().Compose(req)

	g := doc.Nodes[len(doc.Nodes)-1].(scene.Group)
	var got []string
	scene.Walk(g.Children, func(n scene.Node) {
		if tx, ok := n.(scene.Text); ok {
			got = append(got, tx.Lines[0])
		}
	})
	assert.Equal(t, []string{"Kavi", branding.Placeholders.Website, branding.Placeholders.Phone, branding.Placeholders.Social}, got)
}

func TestScaleFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, ScaleFor(layout.Canvas{Width: 1200, Height: 1200}))
	assert.Equal(t, 0.6, ScaleFor(layout.Canvas{Width: 1280, Height: 720}))
}
