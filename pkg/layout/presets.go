// presets.go — Named layout presets loaded from a declarative table.
package layout

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtinPresets []byte

// DefaultPreset is used when a requested preset does not exist.
const DefaultPreset = "poem"

// referenceWidth is the canvas width preset gutters are declared against.
const referenceWidth = 1200

// Preset is a named, ordered set of section constraints.
type Preset struct {
	ID       string    `yaml:"-" json:"id"`
	Align    VAlign    `yaml:"align" json:"align"`
	Padding  float64   `yaml:"padding" json:"padding"`
	Columns  int       `yaml:"columns" json:"columns"`
	Gutter   float64   `yaml:"gutter" json:"gutter"`
	Sections []Section `yaml:"sections" json:"sections"`
}

// Grid returns the preset grid scaled to a canvas width.
func (p Preset) Grid(canvasWidth int) Grid {
	return Grid{
		Columns: max(p.Columns, 1),
		Gutter:  p.Gutter * float64(canvasWidth) / referenceWidth,
	}
}

// PaddingFor returns the inner padding in pixels for a canvas.
func (p Preset) PaddingFor(c Canvas) float64 {
	return p.Padding * float64(min(c.Width, c.Height))
}

// WithOverrides returns a copy with caller constraints merged onto the
// matching sections. Overrides naming a section the preset lacks add it.
func (p Preset) WithOverrides(overrides map[string]Constraint) Preset {
	out := p
	out.Sections = make([]Section, len(p.Sections))
	copy(out.Sections, p.Sections)
	if len(overrides) == 0 {
		return out
	}

	seen := make(map[string]bool, len(out.Sections))
	for i, s := range out.Sections {
		seen[s.Name] = true
		if over, ok := overrides[s.Name]; ok {
			out.Sections[i].Constraint = s.Constraint.Merge(over)
		}
	}

	extra := make([]string, 0)
	for name := range overrides {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out.Sections = append(out.Sections, Section{Name: name, Constraint: overrides[name]})
	}
	return out
}

// Presets is an immutable table of layout presets.
type Presets struct {
	byID map[string]Preset
}

// BuiltinPresets returns the presets embedded in the binary.
func BuiltinPresets() (*Presets, error) {
	return ParsePresets(builtinPresets)
}

// ParsePresets builds a preset table from YAML keyed by preset id.
func ParsePresets(data []byte) (*Presets, error) {
	raw := map[string]Preset{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse layout presets: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse layout presets: no presets defined")
	}

	ps := &Presets{byID: make(map[string]Preset, len(raw))}
	for id, p := range raw {
		id = strings.ToLower(strings.TrimSpace(id))
		p.ID = id
		if p.Align == "" {
			p.Align = AlignTop
		}
		switch p.Align {
		case AlignTop, AlignCenter, AlignBottom:
		default:
			return nil, fmt.Errorf("preset %q: unknown align %q", id, p.Align)
		}
		if p.Columns < 1 {
			p.Columns = 1
		}
		for _, s := range p.Sections {
			if s.Name == "" {
				return nil, fmt.Errorf("preset %q: section without a name", id)
			}
		}
		ps.byID[id] = p
	}
	return ps, nil
}

// Get returns the named preset and whether it exists.
func (ps *Presets) Get(id string) (Preset, bool) {
	p, ok := ps.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Preset{}, false
	}
	return p.WithOverrides(nil), true
}

// IDs lists the preset ids, sorted.
func (ps *Presets) IDs() []string {
	out := make([]string, 0, len(ps.byID))
	for id := range ps.byID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
