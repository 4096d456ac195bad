// catalog.go — Build the read-only theme catalog from a declarative table.
package theme

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/xob0t/GoPoster/internal/validate"
	postererrors "github.com/xob0t/GoPoster/pkg/errors"
)

//go:embed themes.yaml
var builtinThemes []byte

// DefaultID is used when a catalog file does not name its default theme.
const DefaultID = "default"

// Catalog is an immutable lookup table of themes. Safe for concurrent use.
type Catalog struct {
	themes     map[string]Theme
	order      []string
	categories map[string]Category
	defaultID  string
	log        zerolog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the logger used for lookup fallbacks.
func WithLogger(l zerolog.Logger) CatalogOption {
	return func(c *Catalog) {
		c.log = l
	}
}

// Builtin returns the catalog embedded in the binary.
func Builtin(opts ...CatalogOption) (*Catalog, error) {
	return Parse(builtinThemes, opts...)
}

// Load reads a YAML catalog file from disk.
func Load(path string, opts ...CatalogOption) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML bytes. Themes are validated and their
// zero-valued fields filled with defaults; the result is never mutated.
func Parse(data []byte, opts ...CatalogOption) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	c := &Catalog{
		themes:     make(map[string]Theme, len(f.Themes)),
		categories: make(map[string]Category, len(f.Categories)),
		defaultID:  f.Default,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.defaultID == "" {
		c.defaultID = DefaultID
	}

	for _, t := range f.Themes {
		id := strings.ToLower(strings.TrimSpace(t.ID))
		if _, dup := c.themes[id]; dup {
			return nil, fmt.Errorf("duplicate theme id %q", t.ID)
		}
		t.ID = id
		applyThemeDefaults(&t)
		c.themes[id] = t
		c.order = append(c.order, id)
	}

	if _, ok := c.themes[c.defaultID]; !ok {
		return nil, fmt.Errorf("default theme %q is not defined", c.defaultID)
	}

	for name, cat := range f.Categories {
		if cat.Theme != "" {
			if _, ok := c.themes[strings.ToLower(cat.Theme)]; !ok {
				return nil, fmt.Errorf("category %q references unknown theme %q", name, cat.Theme)
			}
		}
		c.categories[strings.ToLower(name)] = cat
	}

	return c, nil
}

// Lookup returns the named theme. Unknown names never fail: a warning is
// logged and the default theme is returned instead.
func (c *Catalog) Lookup(name string) Theme {
	if t, ok := c.Get(name); ok {
		return t
	}
	notFound := &postererrors.ThemeNotFoundError{Name: name, Fallback: c.defaultID}
	c.log.Warn().Err(notFound).Str("theme", name).Msg("unknown theme, using default")
	return c.DefaultTheme()
}

// Get returns the named theme and whether it exists.
func (c *Catalog) Get(name string) (Theme, bool) {
	t, ok := c.themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Theme{}, false
	}
	return t.clone(), true
}

// Has reports whether a theme id is present.
func (c *Catalog) Has(name string) bool {
	_, ok := c.themes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// DefaultTheme returns the designated fallback theme.
func (c *Catalog) DefaultTheme() Theme {
	return c.themes[c.defaultID].clone()
}

// DefaultID returns the id of the fallback theme.
func (c *Catalog) DefaultID() string {
	return c.defaultID
}

// IDs lists theme ids in declaration order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Category returns the defaults declared for a content category.
func (c *Catalog) Category(name string) (Category, bool) {
	cat, ok := c.categories[strings.ToLower(strings.TrimSpace(name))]
	return cat, ok
}

// Categories lists the declared category names, sorted.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for name := range c.categories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// applyThemeDefaults sets sane fallbacks for unset theme fields.
func applyThemeDefaults(t *Theme) {
	if t.Name == "" {
		t.Name = t.ID
	}

	col := &t.Colors
	if col.Title == "" {
		col.Title = col.Text
	}
	if col.Accent == "" {
		col.Accent = col.Title
	}
	if col.BrandingBackground == "" {
		col.BrandingBackground = col.Background
	}
	if col.Shadow == "" {
		col.Shadow = "#000000"
	}
	b := &col.Branding
	for _, field := range []*string{&b.Name, &b.Website, &b.Phone, &b.Social} {
		if *field == "" {
			*field = col.Text
		}
	}

	fillFont(&t.Fonts.Body, FontSpec{Size: 36, Weight: "regular", LineHeight: 1.5})
	fillFont(&t.Fonts.Title, FontSpec{Family: t.Fonts.Body.Family, Size: t.Fonts.Body.Size * 1.5, Weight: "bold", LineHeight: 1.2})
	fillFont(&t.Fonts.Branding, FontSpec{Family: t.Fonts.Body.Family, Size: 22, Weight: "regular", LineHeight: 1.2})

	bg := &t.Background
	if bg.Type == "" {
		switch {
		case bg.Gradient != nil:
			bg.Type = BackgroundGradient
		case bg.Image != "":
			bg.Type = BackgroundImage
		case bg.Texture != nil:
			bg.Type = BackgroundTexture
		default:
			bg.Type = BackgroundSolid
		}
	}
	if bg.Gradient != nil {
		if bg.Gradient.Type == "" {
			bg.Gradient.Type = GradientLinear
		}
		normalizeStops(bg.Gradient.Stops)
	}
	if bg.Texture != nil && bg.Texture.Source == "" {
		bg.Texture.Source = TextureProcedural
	}

	if t.Layout == "" {
		t.Layout = "poem"
	}
}

func fillFont(f *FontSpec, def FontSpec) {
	if f.Family == "" {
		f.Family = def.Family
	}
	if f.Size <= 0 {
		f.Size = def.Size
	}
	if f.Weight == "" {
		f.Weight = def.Weight
	}
	if f.LineHeight <= 0 {
		f.LineHeight = def.LineHeight
	}
}

// normalizeStops spreads stops evenly when no offsets were declared and
// keeps declared offsets non-decreasing.
func normalizeStops(stops []ColorStop) {
	if len(stops) < 2 {
		return
	}
	declared := false
	for _, s := range stops {
		if s.Offset != 0 {
			declared = true
			break
		}
	}
	if !declared {
		for i := range stops {
			stops[i].Offset = float64(i) / float64(len(stops)-1)
		}
		return
	}
	for i := 1; i < len(stops); i++ {
		stops[i].Offset = max(stops[i].Offset, stops[i-1].Offset)
	}
}

func (t Theme) clone() Theme {
	out := t
	if t.Effects != nil {
		out.Effects = make([]EffectSpec, len(t.Effects))
		for i, e := range t.Effects {
			e.Colors = append([]string(nil), e.Colors...)
			e.Targets = append([]string(nil), e.Targets...)
			out.Effects[i] = e
		}
	}
	if t.Background.Gradient != nil {
		g := *t.Background.Gradient
		g.Stops = append([]ColorStop(nil), g.Stops...)
		out.Background.Gradient = &g
	}
	if t.Background.Texture != nil {
		tx := *t.Background.Texture
		tx.Layers = append([]NoiseLayer(nil), tx.Layers...)
		out.Background.Texture = &tx
	}
	return out
}
