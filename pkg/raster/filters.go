// filters.go - Raster versions of the shadow, glow and outline filters. Each
// takes a layer and returns a new layer of the same bounds with the effect
// composited under the original pixels.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/xob0t/GoPoster/pkg/scene"
)

// filterMargin is how far filters can spread past the glyph bounds.
func filterMargin(filters []scene.Filter, scale float64) float64 {
	m := 2.0
	for _, f := range filters {
		switch f.Kind {
		case scene.FilterShadow:
			m += 3*f.Blur*scale + math.Max(math.Abs(f.DX), math.Abs(f.DY))*scale
		case scene.FilterGlow:
			m += 3 * f.Blur * scale
		case scene.FilterOutline:
			m += f.Radius*scale + 1
		}
	}
	return math.Ceil(m)
}

func applyFilter(layer *image.RGBA, f scene.Filter, scale float64) *image.RGBA {
	opacity := f.Opacity
	if opacity <= 0 {
		opacity = 1
	}

	var under []*image.RGBA
	switch f.Kind {
	case scene.FilterShadow:
		shadow := tint(blurAlpha(layer, f.Blur*scale), f.Color, opacity)
		dx, dy := int(math.Round(f.DX*scale)), int(math.Round(f.DY*scale))
		under = append(under, shift(shadow, dx, dy))
	case scene.FilterGlow:
		halo := tint(blurAlpha(layer, f.Blur*scale), f.Color, opacity)
		for range max(f.Intensity, 1) {
			under = append(under, halo)
		}
	case scene.FilterOutline:
		r := int(math.Round(f.Radius * scale))
		under = append(under, tint(dilateAlpha(layer, r), f.Color, opacity))
	default:
		return layer
	}

	out := image.NewRGBA(layer.Bounds())
	for _, u := range under {
		draw.Draw(out, out.Bounds(), u, u.Bounds().Min, draw.Over)
	}
	draw.Draw(out, out.Bounds(), layer, layer.Bounds().Min, draw.Over)
	return out
}

// blurAlpha returns the layer's alpha channel blurred with a gaussian of
// standard deviation sigma.
func blurAlpha(layer *image.RGBA, sigma float64) *image.Alpha {
	alpha := alphaOf(layer)
	if sigma <= 0 {
		return alpha
	}
	blurred := imaging.Blur(alpha, sigma)
	out := image.NewAlpha(layer.Bounds())
	for i := 0; i < len(out.Pix); i++ {
		out.Pix[i] = blurred.Pix[i*4+3]
	}
	return out
}

func alphaOf(layer *image.RGBA) *image.Alpha {
	out := image.NewAlpha(layer.Bounds())
	for i := 0; i < len(out.Pix); i++ {
		out.Pix[i] = layer.Pix[i*4+3]
	}
	return out
}

// dilateAlpha grows the alpha channel by r pixels using a separable
// square max filter.
func dilateAlpha(layer *image.RGBA, r int) *image.Alpha {
	src := alphaOf(layer)
	if r <= 0 {
		return src
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	tmp := make([]uint8, len(src.Pix))
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			var m uint8
			for k := max(x-r, 0); k <= min(x+r, w-1); k++ {
				m = max(m, row[k])
			}
			tmp[y*src.Stride+x] = m
		}
	}
	out := image.NewAlpha(src.Rect)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var m uint8
			for k := max(y-r, 0); k <= min(y+r, h-1); k++ {
				m = max(m, tmp[k*src.Stride+x])
			}
			out.Pix[y*out.Stride+x] = m
		}
	}
	return out
}

// tint paints c through an alpha mask at the given opacity.
func tint(mask *image.Alpha, c color.RGBA, opacity float64) *image.RGBA {
	out := image.NewRGBA(mask.Rect)
	k := opacity / 255
	for i, a := range mask.Pix {
		if a == 0 {
			continue
		}
		f := float64(a) * k
		o := out.Pix[i*4 : i*4+4 : i*4+4]
		o[0] = uint8(float64(c.R)*f + 0.5)
		o[1] = uint8(float64(c.G)*f + 0.5)
		o[2] = uint8(float64(c.B)*f + 0.5)
		o[3] = uint8(float64(c.A)*f + 0.5)
	}
	return out
}

// shift moves a layer by (dx, dy) within its own bounds.
func shift(src *image.RGBA, dx, dy int) *image.RGBA {
	out := image.NewRGBA(src.Rect)
	draw.Draw(out, src.Rect.Add(image.Pt(dx, dy)), src, src.Rect.Min, draw.Src)
	return out
}
