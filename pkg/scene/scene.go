// Package scene is the resolution-independent vector description of a
// poster: a canvas size, shared definitions (filters and gradient paints)
// and an ordered list of drawable nodes. The composer builds it, the
// rasterizer draws it and WriteSVG serialises it.
package scene

import (
	"image"
	"image/color"
)

// Document is one composed poster.
type Document struct {
	Width  float64
	Height float64
	Defs   Defs
	Nodes  []Node
}

// Defs holds definitions referenced by id from nodes.
type Defs struct {
	Filters []Filter
	Paints  []Gradient
}

// Filter returns the filter with the given id.
func (d Defs) Filter(id string) (Filter, bool) {
	for _, f := range d.Filters {
		if f.ID == id {
			return f, true
		}
	}
	return Filter{}, false
}

// Paint returns the gradient paint with the given id.
func (d Defs) Paint(id string) (Gradient, bool) {
	for _, p := range d.Paints {
		if p.ID == id {
			return p, true
		}
	}
	return Gradient{}, false
}

// Len is the total number of definitions.
func (d Defs) Len() int { return len(d.Filters) + len(d.Paints) }

// FilterKind selects the primitive chain a filter expands to.
type FilterKind string

const (
	// FilterShadow is blur + offset + alpha composite under the source.
	FilterShadow FilterKind = "shadow"
	// FilterGlow is blur + flood color + composite, repeated Intensity times.
	FilterGlow FilterKind = "glow"
	// FilterOutline is morphological dilation + flood + composite.
	FilterOutline FilterKind = "outline"
)

// Filter is a reusable text filter. Which fields apply depends on Kind.
type Filter struct {
	ID        string
	Kind      FilterKind
	Blur      float64 // gaussian standard deviation
	DX, DY    float64
	Radius    float64 // dilation radius
	Intensity int     // number of stacked glow copies
	Color     color.RGBA
	Opacity   float64
}

// GradientType is linear or radial.
type GradientType string

const (
	Linear GradientType = "linear"
	Radial GradientType = "radial"
)

// Units selects the coordinate space of gradient geometry.
type Units string

const (
	// BoundingBox geometry is relative (0..1) to the painted element.
	BoundingBox Units = "objectBoundingBox"
	// UserSpace geometry is in document pixels.
	UserSpace Units = "userSpaceOnUse"
)

// Stop is one gradient color stop.
type Stop struct {
	Offset float64
	Color  color.RGBA
}

// Gradient is a reusable paint. Linear gradients run from (X1,Y1) to
// (X2,Y2); radial gradients are centred at (CX,CY) with radius R.
type Gradient struct {
	ID             string
	Type           GradientType
	Units          Units
	X1, Y1, X2, Y2 float64
	CX, CY, R      float64
	Stops          []Stop
}

// Paint is a solid color, or a reference to a gradient when Ref is set.
type Paint struct {
	Color color.RGBA
	Ref   string
}

// Opaque black and white.
var (
	Black = color.RGBA{A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Solid returns a solid paint.
func Solid(c color.RGBA) Paint { return Paint{Color: c} }

// Ref returns a paint referencing a gradient definition.
func Ref(id string) Paint { return Paint{Ref: id} }

// Node is one drawable element. The set of node types is closed.
type Node interface {
	node()
}

// Image is a raster layer placed in document coordinates.
type Image struct {
	X, Y, Width, Height float64
	Src                 image.Image
	Opacity             float64
}

// Rect is a filled, optionally rounded rectangle.
type Rect struct {
	X, Y, Width, Height float64
	Radius              float64
	Fill                Paint
}

// Anchor is the horizontal text anchor.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Font selects a face by family, weight and size in document pixels.
type Font struct {
	Family string
	Weight string
	Size   float64
}

// Bold reports whether the font weight is bold.
func (f Font) Bold() bool { return f.Weight == "bold" }

// Text is a block of lines sharing one anchor point. Line i sits on the
// baseline Y + i*LineHeight. Filters are applied in order, innermost first.
type Text struct {
	Section    string
	X, Y       float64
	LineHeight float64
	Lines      []string
	Anchor     Anchor
	Font       Font
	Fill       Paint
	Filters    []string
}

// Group gathers nodes under an optional shared filter.
type Group struct {
	ID       string
	Filter   string
	Children []Node
}

func (Image) node() {}
func (Rect) node()  {}
func (Text) node()  {}
func (Group) node() {}

// Walk calls fn for every node in draw order, descending into groups.
func Walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		if g, ok := n.(Group); ok {
			Walk(g.Children, fn)
		}
	}
}
