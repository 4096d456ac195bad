// color.go — Unified color parsing and solid image creation.
package generator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa" into color.RGBA.
// The keyword "transparent" yields a fully transparent color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return color.RGBA{}, nil
	}
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:9], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha channel in %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return premultiply(r, g, b, alpha), nil
}

// ParseHexRGBA converts a color string to color.RGBA.
// Returns fallback on any parse error (safe default for rendering).
func ParseHexRGBA(hex string, fallback color.RGBA) color.RGBA {
	c, err := ParseColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

// WithOpacity scales every channel of a premultiplied color by opacity.
func WithOpacity(c color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(float64(c.R)*opacity + 0.5),
		G: uint8(float64(c.G)*opacity + 0.5),
		B: uint8(float64(c.B)*opacity + 0.5),
		A: uint8(float64(c.A)*opacity + 0.5),
	}
}

// NewSolidImage creates a uniform solid-color image using draw.Draw (O(1) fill).
func NewSolidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func premultiply(r, g, b, a uint8) color.RGBA {
	if a == 255 {
		return color.RGBA{R: r, G: g, B: b, A: a}
	}
	scale := func(v uint8) uint8 { return uint8((uint16(v)*uint16(a) + 127) / 255) }
	return color.RGBA{R: scale(r), G: scale(g), B: scale(b), A: a}
}
