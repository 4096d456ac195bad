// Package poster is the render pipeline service: content and options in,
// encoded poster bytes out.
package poster

import (
	"github.com/xob0t/GoPoster/pkg/branding"
	"github.com/xob0t/GoPoster/pkg/layout"
	"github.com/xob0t/GoPoster/pkg/theme"
)

// ── Content types ──

// Content is the text of one poster.
type Content struct {
	Title    string          `yaml:"title" json:"title,omitempty" validate:"max=500"`
	Body     string          `yaml:"body" json:"body" validate:"required,max=20000"`
	Category string          `yaml:"category" json:"category,omitempty"`
	Style    Style           `yaml:"style" json:"style,omitempty"`
	Branding branding.Fields `yaml:"branding" json:"branding,omitempty"`
}

// Style holds per-content typography overrides. Zero values inherit.
type Style struct {
	TextAlign  string  `yaml:"textAlign" json:"textAlign,omitempty" validate:"omitempty,oneof=left center right"`
	TitleSize  float64 `yaml:"titleSize" json:"titleSize,omitempty" validate:"gte=0,lte=400"`
	BodySize   float64 `yaml:"bodySize" json:"bodySize,omitempty" validate:"gte=0,lte=400"`
	LineHeight float64 `yaml:"lineHeight" json:"lineHeight,omitempty" validate:"gte=0,lte=5"`
}

// ── Option types ──

// Resolution is a named preset or explicit custom size. Preset wins when set.
type Resolution struct {
	Preset string `yaml:"preset" json:"preset,omitempty"`
	Width  int    `yaml:"width" json:"width,omitempty"`
	Height int    `yaml:"height" json:"height,omitempty"`
}

// Options control how content is rendered. Zero values inherit from the
// content category, then the theme, then built-in defaults.
type Options struct {
	Theme       string                       `yaml:"theme" json:"theme,omitempty"`
	Resolution  Resolution                   `yaml:"resolution" json:"resolution,omitempty"`
	Format      string                       `yaml:"format" json:"format,omitempty"`
	Quality     int                          `yaml:"quality" json:"quality,omitempty" validate:"gte=0,lte=100"`
	Optimize    bool                         `yaml:"optimize" json:"optimize,omitempty"`
	Effects     []theme.EffectSpec           `yaml:"effects" json:"effects,omitempty" validate:"dive"`
	Layout      string                       `yaml:"layout" json:"layout,omitempty"`
	Constraints map[string]layout.Constraint `yaml:"constraints" json:"constraints,omitempty"`
	Columns     int                          `yaml:"columns" json:"columns,omitempty" validate:"gte=0,lte=6"`
}

// ── Result types ──

// Result is one encoded poster.
type Result struct {
	Bytes    []byte `json:"-"`
	Format   string `json:"format"`
	MIMEType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	ByteSize int    `json:"byteSize"`
	Theme    string `json:"theme"`
	Layout   string `json:"layout"`
}

// Job pairs content with its options, the unit of batch rendering and of
// job files.
type Job struct {
	Name    string  `yaml:"name" json:"name,omitempty"`
	Output  string  `yaml:"output" json:"output,omitempty"`
	Content Content `yaml:"content" json:"content"`
	Options Options `yaml:"options" json:"options"`
}

// BatchResult is the outcome of one batch job, in input order.
type BatchResult struct {
	Job    Job
	Result *Result
	Err    error
}

// ── Resolution presets ──

// Resolutions maps preset names to [width, height].
var Resolutions = map[string][2]int{
	"hd":        {1280, 720},
	"fullHd":    {1920, 1080},
	"2k":        {2560, 1440},
	"4k":        {3840, 2160},
	"square":    {1200, 1200},
	"instagram": {1080, 1080},
	"story":     {1080, 1920},
}

// DefaultResolution is used when no resolution is given.
const DefaultResolution = "square"
