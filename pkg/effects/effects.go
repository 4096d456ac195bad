// Package effects turns declared text effects into reusable filter and paint
// definitions that text nodes reference by id.
package effects

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xob0t/GoPoster/pkg/generator"
	"github.com/xob0t/GoPoster/pkg/scene"
	"github.com/xob0t/GoPoster/pkg/theme"
)

// ErrUnknownEffect is returned by Parse for an unrecognised effect type.
var ErrUnknownEffect = errors.New("unknown effect type")

// Kind names an effect variant.
type Kind string

const (
	KindShadow       Kind = "shadow"
	KindGlow         Kind = "glow"
	KindOutline      Kind = "outline"
	KindGradientFill Kind = "gradientFill"
)

// Effect is one of Shadow, Glow, Outline or GradientFill.
type Effect interface {
	Kind() Kind
	// Targets lists the sections the effect applies to; empty means title
	// and content.
	Targets() []string
	effect()
}

// Shadow is a blurred, offset copy of the text alpha drawn beneath it.
type Shadow struct {
	Blur     float64
	Opacity  float64
	OffsetX  float64
	OffsetY  float64
	Color    string
	Sections []string
}

// Glow is a blurred halo of flood color, stacked Intensity times.
type Glow struct {
	Intensity float64
	Spread    float64
	Color     string
	Sections  []string
}

// Outline is a dilated silhouette of flood color drawn beneath the text.
type Outline struct {
	Width    float64
	Color    string
	Sections []string
}

// GradientFill replaces the solid text fill with a gradient paint: linear
// along Angle, or radial from the text's center when Shape is radial.
type GradientFill struct {
	Colors   []string
	Angle    float64
	Shape    theme.GradientType
	Sections []string
}

func (Shadow) Kind() Kind       { return KindShadow }
func (Glow) Kind() Kind         { return KindGlow }
func (Outline) Kind() Kind      { return KindOutline }
func (GradientFill) Kind() Kind { return KindGradientFill }

func (e Shadow) Targets() []string       { return e.Sections }
func (e Glow) Targets() []string         { return e.Sections }
func (e Outline) Targets() []string      { return e.Sections }
func (e GradientFill) Targets() []string { return e.Sections }

func (Shadow) effect()       {}
func (Glow) effect()         {}
func (Outline) effect()      {}
func (GradientFill) effect() {}

// Parse converts a declared spec into a typed Effect.
func Parse(spec theme.EffectSpec) (Effect, error) {
	targets := append([]string(nil), spec.Targets...)
	switch normalizeKind(spec.Type) {
	case KindShadow:
		return Shadow{
			Blur:     spec.Blur,
			Opacity:  spec.Opacity,
			OffsetX:  spec.OffsetX,
			OffsetY:  spec.OffsetY,
			Color:    spec.Color,
			Sections: targets,
		}, nil
	case KindGlow:
		return Glow{Intensity: spec.Intensity, Spread: spec.Spread, Color: spec.Color, Sections: targets}, nil
	case KindOutline:
		return Outline{Width: spec.Width, Color: spec.Color, Sections: targets}, nil
	case KindGradientFill:
		return GradientFill{
			Colors:   append([]string(nil), spec.Colors...),
			Angle:    spec.Angle,
			Shape:    spec.Gradient,
			Sections: targets,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, spec.Type)
	}
}

func normalizeKind(s string) Kind {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)) {
	case "shadow", "dropshadow":
		return KindShadow
	case "glow":
		return KindGlow
	case "outline", "stroke":
		return KindOutline
	case "gradientfill", "gradient":
		return KindGradientFill
	default:
		return Kind(s)
	}
}

// ParseAll parses specs in order, skipping unknown types with a warning.
func ParseAll(specs []theme.EffectSpec, log zerolog.Logger) []Effect {
	out := make([]Effect, 0, len(specs))
	for _, spec := range specs {
		e, err := Parse(spec)
		if err != nil {
			log.Warn().Err(err).Str("effect", spec.Type).Msg("skipping effect")
			continue
		}
		out = append(out, e)
	}
	return out
}

// Set is the generated definitions plus, per section, the filter ids and
// gradient paint to apply.
type Set struct {
	Defs    scene.Defs
	filters map[string][]string
	paints  map[string]string
}

// FiltersFor returns the filter ids applying to a section, in order.
func (s Set) FiltersFor(section string) []string {
	if ids, ok := s.filters[section]; ok {
		return append([]string(nil), ids...)
	}
	return nil
}

// PaintFor returns the gradient paint id for a section, or "".
func (s Set) PaintFor(section string) string {
	return s.paints[section]
}

// MaxGlowIntensity caps how many halo copies a glow stacks.
const MaxGlowIntensity = 10

// DefaultTargets are the sections an effect without targets applies to.
var DefaultTargets = []string{"title", "content"}

// Generate builds one definition per effect with ids "fx-<kind>-<n>", where n
// is the effect's position in the list. Empty colors resolve from the theme:
// shadows use the shadow role, glow and outline the accent, gradient fills
// title then accent.
func Generate(list []Effect, th theme.Theme) Set {
	set := Set{
		filters: map[string][]string{},
		paints:  map[string]string{},
	}

	for n, e := range list {
		id := fmt.Sprintf("fx-%s-%d", e.Kind(), n)
		targets := e.Targets()
		if len(targets) == 0 {
			targets = DefaultTargets
		}

		switch e := e.(type) {
		case Shadow:
			set.Defs.Filters = append(set.Defs.Filters, scene.Filter{
				ID:      id,
				Kind:    scene.FilterShadow,
				Blur:    orDefault(e.Blur, 4),
				DX:      e.OffsetX,
				DY:      e.OffsetY,
				Color:   resolveColor(e.Color, th.Colors.Shadow),
				Opacity: clamp01(orDefault(e.Opacity, 0.5)),
			})
		case Glow:
			spread := orDefault(e.Spread, 6)
			set.Defs.Filters = append(set.Defs.Filters, scene.Filter{
				ID:        id,
				Kind:      scene.FilterGlow,
				Blur:      spread,
				Intensity: min(max(int(math.Round(orDefault(e.Intensity, 1))), 1), MaxGlowIntensity),
				Color:     resolveColor(e.Color, th.Colors.Accent),
				Opacity:   1,
			})
		case Outline:
			set.Defs.Filters = append(set.Defs.Filters, scene.Filter{
				ID:      id,
				Kind:    scene.FilterOutline,
				Radius:  orDefault(e.Width, 2),
				Color:   resolveColor(e.Color, th.Colors.Accent),
				Opacity: 1,
			})
		case GradientFill:
			set.Defs.Paints = append(set.Defs.Paints, gradientPaint(id, e, th))
			for _, t := range targets {
				set.paints[t] = id
			}
			continue
		}
		for _, t := range targets {
			set.filters[t] = append(set.filters[t], id)
		}
	}
	return set
}

// gradientPaint builds a bounding-box gradient with evenly spaced stops.
func gradientPaint(id string, e GradientFill, th theme.Theme) scene.Gradient {
	colors := e.Colors
	if len(colors) == 0 {
		colors = []string{th.Colors.Title, th.Colors.Accent}
	}
	if len(colors) == 1 {
		colors = []string{colors[0], colors[0]}
	}

	fallback := generator.ParseHexRGBA(th.Colors.Text, color.RGBA{A: 255})
	stops := make([]scene.Stop, len(colors))
	for i, c := range colors {
		stops[i] = scene.Stop{
			Offset: float64(i) / float64(len(colors)-1),
			Color:  generator.ParseHexRGBA(c, fallback),
		}
	}

	if e.Shape == theme.GradientRadial {
		return scene.Gradient{
			ID:    id,
			Type:  scene.Radial,
			Units: scene.BoundingBox,
			CX:    0.5, CY: 0.5, R: 0.5,
			Stops: stops,
		}
	}

	x1, y1, x2, y2 := AngleVector(e.Angle)
	return scene.Gradient{
		ID:    id,
		Type:  scene.Linear,
		Units: scene.BoundingBox,
		X1:    x1, Y1: y1, X2: x2, Y2: y2,
		Stops: stops,
	}
}

// AngleVector maps a CSS-style angle in degrees (0 = left to right, 90 = top
// to bottom) to unit-square gradient endpoints.
func AngleVector(deg float64) (x1, y1, x2, y2 float64) {
	rad := deg * math.Pi / 180
	dx, dy := math.Cos(rad)/2, math.Sin(rad)/2
	round := func(v float64) float64 { return math.Round(v*1e6) / 1e6 }
	return round(0.5 - dx), round(0.5 - dy), round(0.5 + dx), round(0.5 + dy)
}

func resolveColor(explicit, fallback string) color.RGBA {
	black := color.RGBA{A: 255}
	if explicit != "" {
		if c, err := generator.ParseColor(explicit); err == nil {
			return c
		}
	}
	return generator.ParseHexRGBA(fallback, black)
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
