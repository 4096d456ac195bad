// merge.go — Merge options, category defaults and theme defaults into the
// effective render configuration.
package poster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xob0t/GoPoster/pkg/compose"
	"github.com/xob0t/GoPoster/pkg/effects"
	postererrors "github.com/xob0t/GoPoster/pkg/errors"
	"github.com/xob0t/GoPoster/pkg/generator"
	"github.com/xob0t/GoPoster/pkg/layout"
	"github.com/xob0t/GoPoster/pkg/raster"
	"github.com/xob0t/GoPoster/pkg/theme"
)

// config is one render's effective settings.
type config struct {
	theme     theme.Theme
	preset    layout.Preset
	grid      layout.Grid
	canvas    layout.Canvas
	align     compose.Align
	titleFont theme.FontSpec
	bodyFont  theme.FontSpec
	effects   []effects.Effect
	format    generator.Format
	quality   int
	optimize  bool
}

// buildConfig applies precedence explicit option > category default > theme
// default > built-in fallback. Unknown themes and layouts degrade with a
// warning; bad dimensions and formats are errors.
func (r *Renderer) buildConfig(c Content, o Options) (config, error) {
	var cfg config

	canvas, err := r.resolveResolution(o.Resolution)
	if err != nil {
		return cfg, err
	}
	cfg.canvas = canvas

	cfg.format, err = generator.ParseFormat(o.Format)
	if err != nil {
		return cfg, postererrors.NewInvalidContentError("options.format", err.Error(), err)
	}
	cfg.quality = o.Quality
	if cfg.quality == 0 {
		cfg.quality = generator.DefaultQuality
	}
	cfg.optimize = o.Optimize

	category, hasCategory := r.catalog.Category(c.Category)
	if c.Category != "" && !hasCategory {
		r.log.Warn().Str("category", c.Category).Msg("unknown category, ignoring")
	}

	themeID := firstNonEmpty(o.Theme, category.Theme, r.catalog.DefaultID())
	cfg.theme = r.catalog.Lookup(themeID)

	presetID := firstNonEmpty(o.Layout, category.Layout, cfg.theme.Layout, layout.DefaultPreset)
	preset, ok := r.presets.Get(presetID)
	if !ok {
		r.log.Warn().Str("layout", presetID).Str("fallback", layout.DefaultPreset).Msg("layout preset not found")
		preset, _ = r.presets.Get(layout.DefaultPreset)
	}
	if o.Columns > 0 {
		preset.Columns = o.Columns
	}
	cfg.preset = preset.WithOverrides(o.Constraints)
	cfg.grid = cfg.preset.Grid(canvas.Width)

	cfg.align = compose.AlignCenter
	if a := firstNonEmpty(c.Style.TextAlign, category.Align); a != "" {
		if parsed, err := compose.ParseAlign(a); err == nil {
			cfg.align = parsed
		}
	}

	specs := cfg.theme.Effects
	if o.Effects != nil {
		specs = o.Effects
	}
	cfg.effects = effects.ParseAll(specs, r.log.With().Str("theme", cfg.theme.ID).Logger())

	cfg.titleFont = mergeFont(cfg.theme.Fonts.Title, c.Style.TitleSize, c.Style.LineHeight)
	cfg.bodyFont = mergeFont(cfg.theme.Fonts.Body, c.Style.BodySize, c.Style.LineHeight)
	cfg.bodyFont.Size = r.metrics.FontScale(c.Body, cfg.bodyFont.Size)

	return cfg, nil
}

// resolveResolution turns a preset name or custom size into a canvas.
// Custom sizes are clamped to the supported range, or rejected when the
// renderer is strict.
func (r *Renderer) resolveResolution(res Resolution) (layout.Canvas, error) {
	if res.Preset != "" {
		for name, dims := range Resolutions {
			if strings.EqualFold(name, res.Preset) {
				return layout.Canvas{Width: dims[0], Height: dims[1]}, nil
			}
		}
		return layout.Canvas{}, postererrors.NewInvalidDimensionsError(res.Width, res.Height, raster.MinDimension, raster.MaxDimension,
			fmt.Sprintf("unknown resolution preset %q (known: %s)", res.Preset, strings.Join(ResolutionNames(), ", ")))
	}

	if res.Width == 0 && res.Height == 0 {
		dims := Resolutions[DefaultResolution]
		return layout.Canvas{Width: dims[0], Height: dims[1]}, nil
	}
	if res.Width == 0 || res.Height == 0 {
		return layout.Canvas{}, postererrors.NewInvalidDimensionsError(res.Width, res.Height, raster.MinDimension, raster.MaxDimension,
			"custom resolution needs both width and height")
	}

	if r.strict {
		if err := raster.CheckDimensions(res.Width, res.Height); err != nil {
			return layout.Canvas{}, err
		}
		return layout.Canvas{Width: res.Width, Height: res.Height}, nil
	}
	return layout.Canvas{
		Width:  ClampDimension(res.Width),
		Height: ClampDimension(res.Height),
	}, nil
}

// ClampDimension clamps one axis to the supported range.
func ClampDimension(v int) int {
	return min(max(v, raster.MinDimension), raster.MaxDimension)
}

// ResolutionNames lists the resolution presets in sorted order.
func ResolutionNames() []string {
	names := make([]string, 0, len(Resolutions))
	for name := range Resolutions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mergeFont applies non-zero style overrides.
func mergeFont(base theme.FontSpec, size, lineHeight float64) theme.FontSpec {
	if size > 0 {
		base.Size = size
	}
	if lineHeight > 0 {
		base.LineHeight = lineHeight
	}
	return base
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
