// text.go - Text blocks drawn on a bounded layer: glyph mask, fill, then
// filters, then composited onto the destination.
package raster

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/GoPoster/pkg/scene"
)

type placedLine struct {
	text string
	x, y float64
}

func (d *drawing) text(dst *image.RGBA, n scene.Text) error {
	if len(n.Lines) == 0 {
		return nil
	}
	size := math.Max(n.Font.Size*d.s, 1)
	face, err := d.r.fonts.FontFace(n.Font.Family, n.Font.Weight, size)
	if err != nil {
		return fmt.Errorf("font %q: %w", n.Font.Family, err)
	}
	defer face.Close()

	anchor := 0.0
	switch n.Anchor {
	case scene.AnchorMiddle:
		anchor = 0.5
	case scene.AnchorEnd:
		anchor = 1
	}

	metrics := face.Metrics()
	ascent, descent := float64(metrics.Ascent.Ceil()), float64(metrics.Descent.Ceil())
	lines := make([]placedLine, 0, len(n.Lines))
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, s := range n.Lines {
		w := float64(font.MeasureString(face, s)) / 64
		x := n.X*d.sx - anchor*w
		y := (n.Y + float64(i)*n.LineHeight) * d.sy
		lines = append(lines, placedLine{text: s, x: x, y: y})
		minX, maxX = math.Min(minX, x), math.Max(maxX, x+w)
	}
	minY := lines[0].y - ascent
	maxY := lines[len(lines)-1].y + descent
	if maxX <= minX {
		return nil
	}

	filters := d.filters(n.Filters)
	margin := filterMargin(filters, d.s)
	box := image.Rect(
		int(math.Floor(minX-margin)), int(math.Floor(minY-margin)),
		int(math.Ceil(maxX+margin)), int(math.Ceil(maxY+margin)),
	)
	if box.Intersect(dst.Bounds()).Empty() {
		return nil
	}
	local := image.Rect(0, 0, box.Dx(), box.Dy())

	mask := image.NewAlpha(local)
	for _, l := range lines {
		drawer := &font.Drawer{
			Dst:  mask,
			Src:  image.Opaque,
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.Int26_6(math.Round((l.x - float64(box.Min.X)) * 64)),
				Y: fixed.Int26_6(math.Round((l.y - float64(box.Min.Y)) * 64)),
			},
		}
		drawer.DrawString(l.text)
	}

	fill := d.textFill(n.Fill, local, minX-float64(box.Min.X), minY-float64(box.Min.Y), maxX-minX, maxY-minY, box.Min)
	layer := image.NewRGBA(local)
	draw.DrawMask(layer, local, fill, image.Point{}, mask, image.Point{}, draw.Over)

	for _, f := range filters {
		layer = applyFilter(layer, f, d.s)
	}
	draw.Draw(dst, box, layer, image.Point{}, draw.Over)
	return nil
}

// textFill returns the source image for a text layer. Gradient paints are
// painted across the text's own bounding box.
func (d *drawing) textFill(p scene.Paint, local image.Rectangle, x, y, w, h float64, origin image.Point) image.Image {
	if p.Ref == "" {
		return image.NewUniform(p.Color)
	}
	dc := gg.NewContext(local.Dx(), local.Dy())
	d.setFill(dc, p, x, y, w, h, origin)
	dc.DrawRectangle(0, 0, float64(local.Dx()), float64(local.Dy()))
	dc.Fill()
	return dc.Image()
}

// filters resolves filter ids, skipping unknown ones with a warning.
func (d *drawing) filters(ids []string) []scene.Filter {
	out := make([]scene.Filter, 0, len(ids))
	for _, id := range ids {
		f, ok := d.doc.Defs.Filter(id)
		if !ok {
			d.r.log.Warn().Str("effect", id).Msg("unknown filter, skipping")
			continue
		}
		out = append(out, f)
	}
	return out
}
