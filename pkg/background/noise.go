// noise.go — Procedural texture: seeded value-noise layers blended over the
// base color.
package background

import (
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/xob0t/GoPoster/pkg/theme"
)

// Blend modes accepted by NoiseLayer.Blend.
const (
	BlendNormal    = "normal"
	BlendMultiply  = "multiply"
	BlendScreen    = "screen"
	BlendOverlay   = "overlay"
	BlendSoftLight = "soft-light"
)

var defaultLayers = map[string][]theme.NoiseLayer{
	"paper": {
		{Scale: 2, Opacity: 0.22, Blend: BlendMultiply},
		{Scale: 24, Opacity: 0.12, Blend: BlendSoftLight},
	},
	"grain": {
		{Scale: 1, Opacity: 0.15, Blend: BlendOverlay},
	},
	"canvas": {
		{Scale: 3, Opacity: 0.18, Blend: BlendMultiply},
		{Scale: 12, Opacity: 0.10, Blend: BlendScreen},
	},
	"linen": {
		{Scale: 2, Opacity: 0.20, Blend: BlendMultiply},
		{Scale: 8, Opacity: 0.12, Blend: BlendOverlay},
	},
}

// DefaultLayers returns the layer stack used when a texture declares none.
// Unknown kinds get the paper stack.
func DefaultLayers(kind string) []theme.NoiseLayer {
	layers, ok := defaultLayers[strings.ToLower(kind)]
	if !ok {
		layers = defaultLayers["paper"]
	}
	return append([]theme.NoiseLayer(nil), layers...)
}

// SeedFor derives the noise seed from a theme id so a theme always renders
// the same texture.
func SeedFor(themeID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(themeID))
	return h.Sum64()
}

// Noise fills a canvas with base and blends each layer over it in order.
func Noise(width, height int, base color.RGBA, layers []theme.NoiseLayer, seed uint64) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	baseColor, _ := colorful.MakeColor(base)

	type prepared struct {
		scale   float64
		opacity float64
		blend   string
		tint    colorful.Color
		tinted  bool
		seed    uint64
	}
	prep := make([]prepared, 0, len(layers))
	for i, l := range layers {
		if l.Opacity <= 0 {
			continue
		}
		p := prepared{
			scale:   math.Max(l.Scale, 1),
			opacity: math.Min(l.Opacity, 1),
			blend:   strings.ToLower(l.Blend),
			seed:    mix(seed + uint64(i+1)*0x9e3779b97f4a7c15),
		}
		if l.Color != "" {
			if c, err := colorful.Hex(normalizeHex(l.Color)); err == nil {
				p.tint, p.tinted = c, true
			}
		}
		prep = append(prep, p)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := baseColor
			for _, p := range prep {
				n := valueNoise(p.seed, float64(x)/p.scale, float64(y)/p.scale)
				src, alpha := colorful.Color{R: n, G: n, B: n}, p.opacity
				if p.tinted {
					src, alpha = p.tint, n*p.opacity
				}
				c = c.BlendRgb(blend(p.blend, c, src), alpha)
			}
			r, g, b := c.Clamped().RGB255()
			if base.A != 255 {
				r, g, b = premul(r, base.A), premul(g, base.A), premul(b, base.A)
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = r
			dst.Pix[i+1] = g
			dst.Pix[i+2] = b
			dst.Pix[i+3] = base.A
		}
	}
	return dst
}

// blend combines base b with source s per channel.
func blend(mode string, b, s colorful.Color) colorful.Color {
	var f func(b, s float64) float64
	switch mode {
	case BlendMultiply:
		f = func(b, s float64) float64 { return b * s }
	case BlendScreen:
		f = func(b, s float64) float64 { return 1 - (1-b)*(1-s) }
	case BlendOverlay:
		f = func(b, s float64) float64 {
			if b < 0.5 {
				return 2 * b * s
			}
			return 1 - 2*(1-b)*(1-s)
		}
	case BlendSoftLight:
		f = softLight
	default:
		return s
	}
	return colorful.Color{R: f(b.R, s.R), G: f(b.G, s.G), B: f(b.B, s.B)}
}

func softLight(b, s float64) float64 {
	if s <= 0.5 {
		return b - (1-2*s)*b*(1-b)
	}
	var d float64
	if b <= 0.25 {
		d = ((16*b-12)*b + 4) * b
	} else {
		d = math.Sqrt(b)
	}
	return b + (2*s-1)*(d-b)
}

// valueNoise is smooth lattice noise in [0,1).
func valueNoise(seed uint64, x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	ix, iy := int64(x0), int64(y0)
	tx, ty := smooth(x-x0), smooth(y-y0)

	v00 := lattice(seed, ix, iy)
	v10 := lattice(seed, ix+1, iy)
	v01 := lattice(seed, ix, iy+1)
	v11 := lattice(seed, ix+1, iy+1)

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

func smooth(t float64) float64 { return t * t * (3 - 2*t) }

func lattice(seed uint64, x, y int64) float64 {
	h := mix(seed ^ uint64(x)*0x9e3779b97f4a7c15 ^ uint64(y)*0xc2b2ae3d27d4eb4f)
	return float64(h>>11) / (1 << 53)
}

// mix is the splitmix64 finalizer.
func mix(h uint64) uint64 {
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

func premul(v, a uint8) uint8 {
	return uint8(uint32(v) * uint32(a) / 255)
}

// normalizeHex drops an alpha suffix, which colorful.Hex does not accept.
func normalizeHex(s string) string {
	if len(s) == 9 && s[0] == '#' {
		return s[:7]
	}
	return s
}
