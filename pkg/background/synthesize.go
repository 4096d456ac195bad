// Package background produces the base canvas layer of a poster.
//
// Synthesize walks a fallback chain: a declared gradient wins; otherwise a
// declared photo is cover-fitted; a photo that cannot be loaded degrades to
// a texture (procedural noise, or the shared remote texture); anything else
// is a flat fill of the theme background color. No step ever fails the
// render.
package background

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/rs/zerolog"

	"github.com/xob0t/GoPoster/pkg/generator"
	"github.com/xob0t/GoPoster/pkg/theme"
)

// Source reports which step of the chain produced the layer.
type Source string

const (
	SourceGradient      Source = "gradient"
	SourceImage         Source = "image"
	SourceTexture       Source = "texture"
	SourceRemoteTexture Source = "remote-texture"
	SourceSolid         Source = "solid"
)

// Assets is the subset of the asset store the synthesizer reads from.
type Assets interface {
	Background(themeID, ref string) (image.Image, error)
	FallbackTexture(ctx context.Context) (image.Image, error)
}

// Synthesizer builds base layers. Safe for concurrent use.
type Synthesizer struct {
	assets Assets
	log    zerolog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the logger used when the chain degrades.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Synthesizer) {
		s.log = l
	}
}

// New creates a Synthesizer. assets may be nil, in which case every photo
// and remote texture counts as missing.
func New(assets Assets, opts ...Option) *Synthesizer {
	s := &Synthesizer{assets: assets, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize renders the base layer for th at width x height.
func (s *Synthesizer) Synthesize(ctx context.Context, width, height int, th theme.Theme) (*image.RGBA, Source) {
	width, height = max(width, 1), max(height, 1)
	bg := th.Background
	base := generator.ParseHexRGBA(th.Colors.Background, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	log := s.log.With().Str("theme", th.ID).Logger()

	switch bg.Type {
	case theme.BackgroundGradient:
		if bg.Gradient != nil && len(bg.Gradient.Stops) >= 2 {
			return Gradient(width, height, *bg.Gradient, base), SourceGradient
		}
		log.Warn().Msg("gradient background without stops, using solid fill")

	case theme.BackgroundImage:
		if s.assets != nil {
			photo, err := s.assets.Background(th.ID, bg.Image)
			if err == nil && photo != nil {
				return CoverFit(photo, width, height, bg.Dim), SourceImage
			}
			log.Warn().Err(err).Msg("background image missing, using texture")
		} else {
			log.Warn().Msg("no asset store, using texture")
		}
		return s.texture(ctx, width, height, th, base, log)

	case theme.BackgroundTexture:
		return s.texture(ctx, width, height, th, base, log)
	}

	return generator.NewSolidImage(width, height, base), SourceSolid
}

func (s *Synthesizer) texture(ctx context.Context, width, height int, th theme.Theme, base color.RGBA, log zerolog.Logger) (*image.RGBA, Source) {
	spec := th.Background.Texture
	if spec != nil && spec.Source == theme.TextureRemote {
		if s.assets != nil {
			tex, err := s.assets.FallbackTexture(ctx)
			if err == nil && tex != nil {
				return Tile(tex, width, height, base), SourceRemoteTexture
			}
			log.Warn().Err(err).Msg("remote texture unavailable, using solid fill")
		}
		return generator.NewSolidImage(width, height, base), SourceSolid
	}

	var layers []theme.NoiseLayer
	kind := "paper"
	if spec != nil {
		layers = spec.Layers
		if spec.Kind != "" {
			kind = spec.Kind
		}
	}
	if len(layers) == 0 {
		layers = DefaultLayers(kind)
	}
	return Noise(width, height, base, layers, SeedFor(th.ID)), SourceTexture
}

// Gradient renders a linear (angle) or radial (center, radius) gradient
// spanning the canvas. Stop offsets must already be normalised.
func Gradient(width, height int, spec theme.GradientSpec, fallback color.RGBA) *image.RGBA {
	w, h := float64(width), float64(height)

	var grad gg.Gradient
	switch spec.Type {
	case theme.GradientRadial:
		cx, cy := orHalf(spec.CenterX)*w, orHalf(spec.CenterY)*h
		r := spec.Radius
		if r <= 0 {
			r = 1
		}
		r *= math.Hypot(w, h) / 2
		grad = gg.NewRadialGradient(cx, cy, 0, cx, cy, r)
	default:
		rad := spec.Angle * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		half := (math.Abs(w*cos) + math.Abs(h*sin)) / 2
		cx, cy := w/2, h/2
		grad = gg.NewLinearGradient(cx-cos*half, cy-sin*half, cx+cos*half, cy+sin*half)
	}
	for _, st := range spec.Stops {
		grad.AddColorStop(st.Offset, generator.ParseHexRGBA(st.Color, fallback))
	}

	dst := generator.NewSolidImage(width, height, fallback)
	dc := gg.NewContextForRGBA(dst)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
	return dst
}

// CoverFit scales photo to cover the canvas, cropping the overflow around
// the center, then darkens it by dim (0..1).
func CoverFit(photo image.Image, width, height int, dim float64) *image.RGBA {
	fitted := imaging.Fill(photo, width, height, imaging.Center, imaging.Lanczos)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), fitted, fitted.Bounds().Min, draw.Src)
	if dim > 0 {
		shade := generator.WithOpacity(color.RGBA{A: 255}, min(dim, 1))
		draw.Draw(dst, dst.Bounds(), &image.Uniform{C: shade}, image.Point{}, draw.Over)
	}
	return dst
}

// Tile repeats tex across the canvas over the base color.
func Tile(tex image.Image, width, height int, base color.RGBA) *image.RGBA {
	dst := generator.NewSolidImage(width, height, base)
	b := tex.Bounds()
	if b.Empty() {
		return dst
	}
	for y := 0; y < height; y += b.Dy() {
		for x := 0; x < width; x += b.Dx() {
			r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
			draw.Draw(dst, r, tex, b.Min, draw.Over)
		}
	}
	return dst
}

func orHalf(v float64) float64 {
	if v <= 0 || v > 1 {
		return 0.5
	}
	return v
}
