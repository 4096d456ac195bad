// renderer.go - Rasterizer turning a composed vector document into encoded
// image bytes. Uses a layered approach: base image -> rects -> text, where
// each text block is drawn on its own bounded layer so filters can run on it
// before it is composited onto the canvas.
package raster

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"

	"github.com/xob0t/GoPoster/pkg/assets"
	postererrors "github.com/xob0t/GoPoster/pkg/errors"
	"github.com/xob0t/GoPoster/pkg/generator"
	"github.com/xob0t/GoPoster/pkg/scene"
)

// Supported output dimensions per axis, inclusive.
const (
	MinDimension = 200
	MaxDimension = 4000
)

// Params selects the output size and encoding.
type Params struct {
	Width    int
	Height   int
	Format   generator.Format
	Quality  int
	Optimize bool
}

// Fonts creates drawing faces. *assets.Store satisfies it.
type Fonts interface {
	FontFace(family, weight string, size float64) (font.Face, error)
}

// Rasterizer draws documents. Safe for concurrent use.
type Rasterizer struct {
	fonts  Fonts
	encode func(image.Image, generator.Options) ([]byte, error)
	log    zerolog.Logger
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Rasterizer) {
		r.log = l
	}
}

// New creates a Rasterizer. A nil fonts source uses an asset store that
// only knows the embedded Go fonts.
func New(fonts Fonts, opts ...Option) *Rasterizer {
	if fonts == nil {
		fonts = assets.New()
	}
	r := &Rasterizer{fonts: fonts, encode: generator.EncodeBytes, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CheckDimensions reports whether width and height are both supported.
func CheckDimensions(width, height int) error {
	if width < MinDimension || width > MaxDimension || height < MinDimension || height > MaxDimension {
		return postererrors.NewInvalidDimensionsError(width, height, MinDimension, MaxDimension, "")
	}
	return nil
}

// Rasterize draws doc at the requested size and encodes it. Dimensions are
// checked before any drawing; every later failure is a RenderError.
func (r *Rasterizer) Rasterize(ctx context.Context, doc *scene.Document, p Params) ([]byte, error) {
	if err := CheckDimensions(p.Width, p.Height); err != nil {
		return nil, err
	}
	img, err := r.Draw(ctx, doc, p.Width, p.Height)
	if err != nil {
		return nil, err
	}

	data, err := r.encode(img, generator.Options{
		Format:   p.Format,
		Quality:  p.Quality,
		Optimize: p.Optimize,
	})
	if err != nil {
		return nil, postererrors.NewRenderError("encode", err)
	}
	if len(data) == 0 {
		return nil, postererrors.NewRenderError("encode", errors.New("encoder produced no output"))
	}
	return data, nil
}

// Draw renders doc onto a new width x height canvas, scaling document
// coordinates to fit.
func (r *Rasterizer) Draw(ctx context.Context, doc *scene.Document, width, height int) (*image.RGBA, error) {
	if doc == nil {
		return nil, postererrors.NewRenderError("draw", errors.New("nil document"))
	}
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}
	dw, dh := doc.Width, doc.Height
	if dw <= 0 || dh <= 0 {
		dw, dh = float64(width), float64(height)
	}

	d := &drawing{
		r:   r,
		doc: doc,
		dst: image.NewRGBA(image.Rect(0, 0, width, height)),
		sx:  float64(width) / dw,
		sy:  float64(height) / dh,
	}
	d.s = math.Min(d.sx, d.sy)

	if err := d.nodes(ctx, d.dst, doc.Nodes); err != nil {
		return nil, err
	}
	return d.dst, nil
}

// drawing is the state of one Draw call.
type drawing struct {
	r      *Rasterizer
	doc    *scene.Document
	dst    *image.RGBA
	sx, sy float64
	s      float64 // uniform scale for sizes
}

func (d *drawing) nodes(ctx context.Context, dst *image.RGBA, nodes []scene.Node) error {
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return postererrors.NewRenderError("draw", err)
		}
		var err error
		switch n := n.(type) {
		case scene.Image:
			d.image(dst, n)
		case scene.Rect:
			d.rect(dst, n)
		case scene.Text:
			err = d.text(dst, n)
		case scene.Group:
			err = d.group(ctx, dst, n)
		}
		if err != nil {
			if postererrors.IsRender(err) {
				return err
			}
			return postererrors.NewRenderError("draw", err)
		}
	}
	return nil
}

func (d *drawing) group(ctx context.Context, dst *image.RGBA, g scene.Group) error {
	f, ok := d.doc.Defs.Filter(g.Filter)
	if g.Filter == "" || !ok {
		return d.nodes(ctx, dst, g.Children)
	}
	layer := image.NewRGBA(dst.Bounds())
	if err := d.nodes(ctx, layer, g.Children); err != nil {
		return err
	}
	layer = applyFilter(layer, f, d.s)
	draw.Draw(dst, dst.Bounds(), layer, image.Point{}, draw.Over)
	return nil
}

// image draws a raster node, resizing it when its target size differs.
func (d *drawing) image(dst *image.RGBA, n scene.Image) {
	if n.Src == nil {
		return
	}
	rect := d.pixelRect(n.X, n.Y, n.Width, n.Height)
	if rect.Empty() {
		return
	}
	var src image.Image = n.Src
	if b := n.Src.Bounds(); b.Dx() != rect.Dx() || b.Dy() != rect.Dy() {
		src = imaging.Resize(n.Src, rect.Dx(), rect.Dy(), imaging.Lanczos)
	}
	op := n.Opacity
	if op <= 0 || op >= 1 {
		draw.Draw(dst, rect, src, src.Bounds().Min, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(op * 255))})
	draw.DrawMask(dst, rect, src, src.Bounds().Min, mask, image.Point{}, draw.Over)
}

func (d *drawing) rect(dst *image.RGBA, n scene.Rect) {
	x, y := n.X*d.sx, n.Y*d.sy
	w, h := n.Width*d.sx, n.Height*d.sy
	if w <= 0 || h <= 0 {
		return
	}
	dc := gg.NewContextForRGBA(dst)
	if n.Radius > 0 {
		dc.DrawRoundedRectangle(x, y, w, h, n.Radius*d.s)
	} else {
		dc.DrawRectangle(x, y, w, h)
	}
	d.setFill(dc, n.Fill, x, y, w, h, image.Point{})
	dc.Fill()
}

// setFill sets a solid color or a gradient pattern. Bounding-box gradients
// are mapped onto the given box; user-space gradients are shifted by origin
// when dc draws a layer rather than the canvas.
func (d *drawing) setFill(dc *gg.Context, p scene.Paint, x, y, w, h float64, origin image.Point) {
	if p.Ref != "" {
		if g, ok := d.doc.Defs.Paint(p.Ref); ok {
			dc.SetFillStyle(d.pattern(g, x, y, w, h, origin))
			return
		}
		d.r.log.Warn().Str("effect", p.Ref).Msg("unknown paint, using black")
		dc.SetColor(scene.Black)
		return
	}
	dc.SetColor(p.Color)
}

func (d *drawing) pattern(g scene.Gradient, x, y, w, h float64, origin image.Point) gg.Gradient {
	px := func(v float64) float64 { return v*d.sx - float64(origin.X) }
	py := func(v float64) float64 { return v*d.sy - float64(origin.Y) }
	if g.Units == scene.BoundingBox {
		px = func(v float64) float64 { return x + v*w }
		py = func(v float64) float64 { return y + v*h }
	}

	var grad gg.Gradient
	if g.Type == scene.Radial {
		cx, cy := px(g.CX), py(g.CY)
		r := g.R * d.s
		if g.Units == scene.BoundingBox {
			r = g.R * math.Max(w, h)
		}
		grad = gg.NewRadialGradient(cx, cy, 0, cx, cy, r)
	} else {
		grad = gg.NewLinearGradient(px(g.X1), py(g.Y1), px(g.X2), py(g.Y2))
	}
	for _, st := range g.Stops {
		grad.AddColorStop(st.Offset, st.Color)
	}
	return grad
}

func (d *drawing) pixelRect(x, y, w, h float64) image.Rectangle {
	x0, y0 := int(math.Round(x*d.sx)), int(math.Round(y*d.sy))
	x1, y1 := int(math.Round((x+w)*d.sx)), int(math.Round((y+h)*d.sy))
	return image.Rect(x0, y0, x1, y1)
}
