// Package theme holds the data-driven catalog of named poster presets.
package theme

// Theme is one named preset: palette, typography, background, default effects
// and default layout. Themes are immutable once the catalog is built.
type Theme struct {
	ID         string         `yaml:"id" json:"id" validate:"required"`
	Name       string         `yaml:"name" json:"name"`
	Colors     Colors         `yaml:"colors" json:"colors"`
	Fonts      Fonts          `yaml:"fonts" json:"fonts"`
	Background BackgroundSpec `yaml:"background" json:"background"`
	Effects    []EffectSpec   `yaml:"effects" json:"effects,omitempty" validate:"dive"`
	Layout     string         `yaml:"layout" json:"layout"`
}

// Colors maps color roles to "#rrggbb" / "#rrggbbaa" strings.
type Colors struct {
	Background         string         `yaml:"background" json:"background" validate:"required,color"`
	Text               string         `yaml:"text" json:"text" validate:"required,color"`
	Title              string         `yaml:"title" json:"title" validate:"color"`
	Accent             string         `yaml:"accent" json:"accent" validate:"color"`
	BrandingBackground string         `yaml:"brandingBackground" json:"brandingBackground" validate:"color"`
	Shadow             string         `yaml:"shadow" json:"shadow" validate:"color"`
	Branding           BrandingColors `yaml:"branding" json:"branding"`
}

// BrandingColors styles each footer field independently.
type BrandingColors struct {
	Name    string `yaml:"name" json:"name" validate:"color"`
	Website string `yaml:"website" json:"website" validate:"color"`
	Phone   string `yaml:"phone" json:"phone" validate:"color"`
	Social  string `yaml:"social" json:"social" validate:"color"`
}

// Fonts holds the font spec per text role.
type Fonts struct {
	Title    FontSpec `yaml:"title" json:"title"`
	Body     FontSpec `yaml:"body" json:"body"`
	Branding FontSpec `yaml:"branding" json:"branding"`
}

// FontSpec describes one text role's typography.
type FontSpec struct {
	Family     string  `yaml:"family" json:"family"`
	Size       float64 `yaml:"size" json:"size" validate:"gte=0"`
	Weight     string  `yaml:"weight" json:"weight" validate:"omitempty,oneof=regular bold"`
	LineHeight float64 `yaml:"lineHeight" json:"lineHeight" validate:"gte=0"`
}

// BackgroundKind selects the base layer strategy.
type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
	BackgroundTexture  BackgroundKind = "texture"
	BackgroundNone     BackgroundKind = "none"
)

// BackgroundSpec declares how the base layer is produced.
type BackgroundSpec struct {
	Type     BackgroundKind `yaml:"type" json:"type" validate:"omitempty,oneof=solid gradient image texture none"`
	Gradient *GradientSpec  `yaml:"gradient,omitempty" json:"gradient,omitempty"`
	Image    string         `yaml:"image,omitempty" json:"image,omitempty"` // asset ref; empty means backgrounds/<theme id>
	Texture  *TextureSpec   `yaml:"texture,omitempty" json:"texture,omitempty"`
	Dim      float64        `yaml:"dim,omitempty" json:"dim,omitempty" validate:"gte=0,lte=1"` // black overlay opacity over photos
}

// GradientType is linear or radial.
type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// GradientSpec is a linear (angle) or radial (center/radius) gradient.
type GradientSpec struct {
	Type    GradientType `yaml:"type" json:"type" validate:"omitempty,oneof=linear radial"`
	Angle   float64      `yaml:"angle" json:"angle"`       // degrees, 0 = left→right, 90 = top→bottom
	CenterX float64      `yaml:"centerX" json:"centerX"`   // 0..1, radial only
	CenterY float64      `yaml:"centerY" json:"centerY"`   // 0..1, radial only
	Radius  float64      `yaml:"radius" json:"radius"`     // fraction of the canvas half-diagonal, radial only
	Stops   []ColorStop  `yaml:"stops" json:"stops" validate:"min=2,dive"`
}

// ColorStop is one gradient stop. Offsets are normalised at load time.
type ColorStop struct {
	Offset float64 `yaml:"offset" json:"offset" validate:"gte=0,lte=1"`
	Color  string  `yaml:"color" json:"color" validate:"required,color"`
}

// TextureSource selects where the texture fallback comes from.
type TextureSource string

const (
	TextureProcedural TextureSource = "procedural"
	TextureRemote     TextureSource = "remote"
)

// TextureSpec parameterises the texture fallback layer.
type TextureSpec struct {
	Source TextureSource `yaml:"source" json:"source" validate:"omitempty,oneof=procedural remote"`
	Kind   string        `yaml:"kind" json:"kind"` // paper, grain, canvas, linen
	Layers []NoiseLayer  `yaml:"layers,omitempty" json:"layers,omitempty" validate:"dive"`
}

// NoiseLayer is one random-noise fill blended over the base color.
type NoiseLayer struct {
	Scale   float64 `yaml:"scale" json:"scale" validate:"gte=0"` // cell size in pixels
	Opacity float64 `yaml:"opacity" json:"opacity" validate:"gte=0,lte=1"`
	Blend   string  `yaml:"blend" json:"blend" validate:"omitempty,oneof=normal multiply screen overlay soft-light"`
	Color   string  `yaml:"color" json:"color" validate:"color"`
}

// EffectSpec is the declarative form of a text effect. Type selects which of
// the remaining fields apply; package effects turns it into a typed Effect.
type EffectSpec struct {
	Type      string       `yaml:"type" json:"type" validate:"required"`
	Blur      float64      `yaml:"blur,omitempty" json:"blur,omitempty" validate:"gte=0"`
	Opacity   float64      `yaml:"opacity,omitempty" json:"opacity,omitempty" validate:"gte=0,lte=1"`
	OffsetX   float64      `yaml:"offsetX,omitempty" json:"offsetX,omitempty"`
	OffsetY   float64      `yaml:"offsetY,omitempty" json:"offsetY,omitempty"`
	Intensity float64      `yaml:"intensity,omitempty" json:"intensity,omitempty" validate:"gte=0,lte=10"`
	Spread    float64      `yaml:"spread,omitempty" json:"spread,omitempty" validate:"gte=0"`
	Width     float64      `yaml:"width,omitempty" json:"width,omitempty" validate:"gte=0"`
	Color     string       `yaml:"color,omitempty" json:"color,omitempty" validate:"color"`
	Colors    []string     `yaml:"colors,omitempty" json:"colors,omitempty" validate:"dive,color"`
	Angle     float64      `yaml:"angle,omitempty" json:"angle,omitempty"`
	Gradient  GradientType `yaml:"gradient,omitempty" json:"gradient,omitempty" validate:"omitempty,oneof=linear radial"` // gradientFill shape
	Targets   []string     `yaml:"targets,omitempty" json:"targets,omitempty"`                                            // sections; empty means title and content
}

// Category holds per-content-category defaults.
type Category struct {
	Theme  string `yaml:"theme" json:"theme"`
	Layout string `yaml:"layout" json:"layout"`
	Align  string `yaml:"align" json:"align" validate:"omitempty,oneof=left center right"`
}

// file is the on-disk shape of a catalog.
type file struct {
	Default    string              `yaml:"default"`
	Categories map[string]Category `yaml:"categories" validate:"dive"`
	Themes     []Theme             `yaml:"themes" validate:"min=1,dive"`
}
