// Package compose assembles a poster's vector document: the base layer,
// the title, the wrapped and auto-fitted body, and the branding footer,
// each placed in its resolved section and tagged with its effects.
package compose

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"

	"github.com/xob0t/GoPoster/pkg/branding"
	"github.com/xob0t/GoPoster/pkg/effects"
	"github.com/xob0t/GoPoster/pkg/generator"
	"github.com/xob0t/GoPoster/pkg/layout"
	"github.com/xob0t/GoPoster/pkg/scene"
	"github.com/xob0t/GoPoster/pkg/textmetrics"
	"github.com/xob0t/GoPoster/pkg/theme"
)

const (
	// DefaultGlyphAdvance is the average advance of one effective-length
	// unit, as a fraction of the font size.
	DefaultGlyphAdvance = 0.55
	// ReferenceSize is the canvas side theme font sizes are declared for.
	ReferenceSize = 1200
	// fitStep is how many pixels auto-fit removes from the body per try.
	fitStep = 2
)

// Align is the horizontal text alignment within a section.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign accepts left, center and right (and start/end, middle).
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return AlignLeft, nil
	case "center", "centre", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	}
	return "", fmt.Errorf("unknown text alignment %q", s)
}

func (a Align) anchor() scene.Anchor {
	switch a {
	case AlignLeft:
		return scene.AnchorStart
	case AlignRight:
		return scene.AnchorEnd
	}
	return scene.AnchorMiddle
}

// Fonts creates measuring faces. *assets.Store satisfies it.
type Fonts interface {
	FontFace(family, weight string, size float64) (font.Face, error)
}

// Composer builds documents. Safe for concurrent use.
type Composer struct {
	fonts        Fonts
	metrics      *textmetrics.Metrics
	glyphAdvance float64
	minScale     float64
	log          zerolog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithFonts enables measuring wrapped lines against real glyph advances.
func WithFonts(f Fonts) Option {
	return func(c *Composer) {
		c.fonts = f
	}
}

// WithMetrics sets the text metrics used for wrapping.
func WithMetrics(m *textmetrics.Metrics) Option {
	return func(c *Composer) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithGlyphAdvance overrides DefaultGlyphAdvance.
func WithGlyphAdvance(a float64) Option {
	return func(c *Composer) {
		if a > 0 {
			c.glyphAdvance = a
		}
	}
}

// WithMinScale sets the smallest fraction of the body size auto-fit may reach.
func WithMinScale(s float64) Option {
	return func(c *Composer) {
		if s > 0 && s <= 1 {
			c.minScale = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Composer) {
		c.log = l
	}
}

// New creates a Composer.
func New(opts ...Option) *Composer {
	c := &Composer{
		metrics:      textmetrics.Default(),
		glyphAdvance: DefaultGlyphAdvance,
		minScale:     textmetrics.DefaultMinScale,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request is everything one document is built from. Font sizes are in
// reference pixels and are multiplied by Scale.
type Request struct {
	Title      string
	Body       string
	Theme      theme.Theme
	Layout     layout.Resolved
	Padding    float64
	Align      Align
	TitleFont  theme.FontSpec
	BodyFont   theme.FontSpec
	Scale      float64
	Effects    effects.Set
	Background image.Image
	Branding   branding.Fields
}

// ScaleFor is the factor applied to reference font sizes on a canvas.
func ScaleFor(c layout.Canvas) float64 {
	return float64(min(c.Width, c.Height)) / ReferenceSize
}

// Compose builds the document for req. Nodes are emitted in a fixed order:
// base layer, title, content, footer. Sections missing from the layout, and
// an empty title, are skipped.
func (c *Composer) Compose(req Request) *scene.Document {
	if req.Scale <= 0 {
		req.Scale = 1
	}
	if req.Align == "" {
		req.Align = AlignCenter
	}
	canvas := req.Layout.Canvas
	doc := &scene.Document{
		Width:  float64(canvas.Width),
		Height: float64(canvas.Height),
		Defs:   req.Effects.Defs,
	}

	if req.Background != nil {
		doc.Nodes = append(doc.Nodes, scene.Image{
			Width:   doc.Width,
			Height:  doc.Height,
			Src:     req.Background,
			Opacity: 1,
		})
	}

	if title := strings.Join(strings.Fields(req.Title), " "); title != "" {
		if p, ok := req.Layout.Section(layout.SectionTitle); ok {
			doc.Nodes = append(doc.Nodes, c.title(req, p, title))
		}
	}

	if p, ok := req.Layout.Section(layout.SectionContent); ok {
		doc.Nodes = append(doc.Nodes, c.content(req, p)...)
	}

	if p, ok := req.Layout.Section(branding.Section); ok {
		doc.Nodes = append(doc.Nodes, branding.Overlay(p.Rect, req.Theme, req.Branding, branding.Options{
			Scale:        req.Scale,
			Padding:      req.Padding,
			GlyphAdvance: c.glyphAdvance,
			Filters:      req.Effects.FiltersFor(branding.Section),
			Metrics:      c.metrics,
		}))
	}
	return doc
}

func (c *Composer) title(req Request, p layout.Placed, title string) scene.Text {
	inner := inset(p.Rect, req.Padding, true, true)
	spec := req.TitleFont

	size := spec.Size * req.Scale
	size = math.Min(size, p.Rect.Height*0.8)
	if n := c.metrics.EffectiveLength(title); n > 0 {
		size = math.Min(size, inner.Width/(n*c.glyphAdvance))
	}
	size = c.shrinkToWidth(spec, []string{title}, size, inner.Width)
	size = math.Max(math.Floor(size), 1)

	return scene.Text{
		Section:    layout.SectionTitle,
		X:          anchorX(inner, req.Align),
		Y:          p.Rect.Y + p.Rect.Height/2 + size*0.35,
		LineHeight: size * lineHeight(spec),
		Lines:      []string{title},
		Anchor:     req.Align.anchor(),
		Font:       scene.Font{Family: spec.Family, Weight: spec.Weight, Size: size},
		Fill:       c.fill(req, layout.SectionTitle, req.Theme.Colors.Title),
		Filters:    req.Effects.FiltersFor(layout.SectionTitle),
	}
}

// content wraps the body for the column width, stepping the font size down
// until every column fits the section height or the floor is reached.
func (c *Composer) content(req Request, p layout.Placed) []scene.Node {
	spec := req.BodyFont
	lh := lineHeight(spec)
	cols := req.Layout.ColumnRects(p)
	inners := make([]layout.Rect, len(cols))
	for i, col := range cols {
		inners[i] = inset(col, req.Padding, i == 0, i == len(cols)-1)
	}
	width := inners[0].Width
	for _, r := range inners[1:] {
		width = math.Min(width, r.Width)
	}

	base := math.Max(spec.Size*req.Scale, 1)
	floor := math.Max(math.Ceil(base*c.minScale), 1)

	var (
		size   = base
		chunks [][]string
		rows   int
	)
	for {
		lines := c.wrap(req.Body, spec, size, width)
		chunks = layout.Distribute(lines, len(cols))
		rows = 0
		for _, ch := range chunks {
			rows = max(rows, len(ch))
		}
		if float64(rows)*size*lh <= p.Rect.Height || size <= floor {
			break
		}
		size = math.Max(size-fitStep, floor)
	}
	if float64(rows)*size*lh > p.Rect.Height {
		c.log.Warn().
			Str("section", layout.SectionContent).
			Float64("size", size).
			Int("lines", rows).
			Msg("content overflows its section at the minimum font size")
	}

	lineH := size * lh
	top := p.Rect.Y + math.Max(0, (p.Rect.Height-float64(rows)*lineH)/2)
	baseline := top + lineH/2 + size*0.35
	fill := c.fill(req, layout.SectionContent, req.Theme.Colors.Text)
	filters := req.Effects.FiltersFor(layout.SectionContent)

	nodes := make([]scene.Node, 0, len(chunks))
	for i, ch := range chunks {
		if len(ch) == 0 || i >= len(inners) {
			continue
		}
		nodes = append(nodes, scene.Text{
			Section:    layout.SectionContent,
			X:          anchorX(inners[i], req.Align),
			Y:          baseline,
			LineHeight: lineH,
			Lines:      ch,
			Anchor:     req.Align.anchor(),
			Font:       scene.Font{Family: spec.Family, Weight: spec.Weight, Size: size},
			Fill:       fill,
			Filters:    filters,
		})
	}
	return nodes
}

// wrap wraps text for a pixel width at size. With fonts configured, lines
// are measured and the wrap width is tightened until the widest line fits.
func (c *Composer) wrap(text string, spec theme.FontSpec, size, width float64) []string {
	maxEff := width / (size * c.glyphAdvance)
	lines := c.metrics.Wrap(text, maxEff)
	if c.fonts == nil {
		return lines
	}
	face, err := c.fonts.FontFace(spec.Family, spec.Weight, size)
	if err != nil {
		return lines
	}
	defer face.Close()

	for range 4 {
		widest := 0.0
		for _, l := range lines {
			widest = math.Max(widest, measure(face, l))
		}
		if widest <= width || maxEff <= 1 {
			break
		}
		maxEff = math.Max(math.Floor(maxEff*width/widest), 1)
		lines = c.metrics.Wrap(text, maxEff)
	}
	return lines
}

// shrinkToWidth lowers size until every line measures within width.
func (c *Composer) shrinkToWidth(spec theme.FontSpec, lines []string, size, width float64) float64 {
	if c.fonts == nil {
		return size
	}
	face, err := c.fonts.FontFace(spec.Family, spec.Weight, size)
	if err != nil {
		return size
	}
	defer face.Close()

	widest := 0.0
	for _, l := range lines {
		widest = math.Max(widest, measure(face, l))
	}
	if widest > width && widest > 0 {
		return size * width / widest
	}
	return size
}

func (c *Composer) fill(req Request, section, color string) scene.Paint {
	if id := req.Effects.PaintFor(section); id != "" {
		return scene.Ref(id)
	}
	return scene.Solid(generator.ParseHexRGBA(color, scene.Black))
}

func measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

func lineHeight(spec theme.FontSpec) float64 {
	if spec.LineHeight <= 0 {
		return 1.5
	}
	return spec.LineHeight
}

// inset shrinks r horizontally by pad on the requested edges.
func inset(r layout.Rect, pad float64, left, right bool) layout.Rect {
	if left {
		r.X += pad
		r.Width -= pad
	}
	if right {
		r.Width -= pad
	}
	r.Width = math.Max(r.Width, 1)
	return r
}

func anchorX(r layout.Rect, a Align) float64 {
	switch a {
	case AlignLeft:
		return r.X
	case AlignRight:
		return r.X + r.Width
	}
	return r.X + r.Width/2
}
