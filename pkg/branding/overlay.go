// Package branding builds the footer block pinned to the bottom of every
// poster: a colored band holding the author's name, website, phone and
// social handle at equal horizontal spacing.
package branding

import (
	"math"
	"strings"

	"github.com/xob0t/GoPoster/pkg/generator"
	"github.com/xob0t/GoPoster/pkg/layout"
	"github.com/xob0t/GoPoster/pkg/scene"
	"github.com/xob0t/GoPoster/pkg/textmetrics"
	"github.com/xob0t/GoPoster/pkg/theme"
)

// Section is the layout section the overlay occupies.
const Section = layout.SectionFooter

// Fields are the footer texts. Empty fields are replaced by Placeholders.
type Fields struct {
	Name    string `yaml:"name" json:"name,omitempty"`
	Website string `yaml:"website" json:"website,omitempty"`
	Phone   string `yaml:"phone" json:"phone,omitempty"`
	Social  string `yaml:"social" json:"social,omitempty"`
}

// Placeholders fill fields the caller left empty.
var Placeholders = Fields{
	Name:    "Unknown Author",
	Website: "www.example.com",
	Phone:   "+00 00000 00000",
	Social:  "@handle",
}

// WithPlaceholders returns f with every blank field replaced.
func (f Fields) WithPlaceholders() Fields {
	pick := func(v, def string) string {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		return def
	}
	return Fields{
		Name:    pick(f.Name, Placeholders.Name),
		Website: pick(f.Website, Placeholders.Website),
		Phone:   pick(f.Phone, Placeholders.Phone),
		Social:  pick(f.Social, Placeholders.Social),
	}
}

// Options tune the overlay geometry.
type Options struct {
	// Scale multiplies the theme branding font size.
	Scale float64
	// Padding is the horizontal inset of the field row.
	Padding float64
	// GlyphAdvance is the average glyph width per pixel of font size.
	GlyphAdvance float64
	// Filters are applied to every field.
	Filters []string
	// Metrics sizes long fields down to their slot. Nil uses the default.
	Metrics *textmetrics.Metrics
}

// Overlay returns the footer group for area. Fields are centered in four
// equal slots and shrunk when they would overflow their slot.
func Overlay(area layout.Rect, th theme.Theme, fields Fields, opts Options) scene.Group {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.GlyphAdvance <= 0 {
		opts.GlyphAdvance = 0.55
	}
	if opts.Metrics == nil {
		opts.Metrics = textmetrics.Default()
	}
	fields = fields.WithPlaceholders()

	bg := generator.ParseHexRGBA(th.Colors.BrandingBackground, generator.ParseHexRGBA(th.Colors.Background, scene.White))
	group := scene.Group{
		ID: "branding",
		Children: []scene.Node{scene.Rect{
			X: area.X, Y: area.Y, Width: area.Width, Height: area.Height,
			Fill: scene.Solid(bg),
		}},
	}

	inner := math.Max(area.Width-2*opts.Padding, 1)
	slot := inner / 4
	base := th.Fonts.Branding.Size * opts.Scale
	base = math.Min(base, area.Height*0.45)

	entries := []struct {
		text  string
		color string
	}{
		{fields.Name, th.Colors.Branding.Name},
		{fields.Website, th.Colors.Branding.Website},
		{fields.Phone, th.Colors.Branding.Phone},
		{fields.Social, th.Colors.Branding.Social},
	}
	text := generator.ParseHexRGBA(th.Colors.Text, scene.Black)
	for i, e := range entries {
		size := base
		if n := opts.Metrics.EffectiveLength(e.text); n > 0 {
			size = math.Min(size, slot*0.92/(n*opts.GlyphAdvance))
		}
		size = math.Max(math.Floor(size), 1)
		group.Children = append(group.Children, scene.Text{
			Section:    Section,
			X:          area.X + opts.Padding + slot*(float64(i)+0.5),
			Y:          area.Y + area.Height/2 + size*0.35,
			LineHeight: size,
			Lines:      []string{e.text},
			Anchor:     scene.AnchorMiddle,
			Font: scene.Font{
				Family: th.Fonts.Branding.Family,
				Weight: th.Fonts.Branding.Weight,
				Size:   size,
			},
			Fill:    scene.Solid(generator.ParseHexRGBA(e.color, text)),
			Filters: append([]string(nil), opts.Filters...),
		})
	}
	return group
}
