// Package layout turns declarative section constraints into pixel geometry.
//
// A layout preset is an ordered list of named sections (title, content,
// footer) with optional explicit sizes, min/max bounds in pixels or canvas
// percentages, a pin-to-bottom flag and a span-columns flag. Resolve turns a
// preset into one concrete rectangle per section.
package layout

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dimension is a length in pixels or as a percentage of a canvas axis.
// The zero value means "unset".
type Dimension struct {
	Value   float64
	Percent bool
}

// Px returns a pixel dimension.
func Px(v float64) Dimension { return Dimension{Value: v} }

// Pct returns a percentage dimension; Pct(50) is half the axis.
func Pct(v float64) Dimension { return Dimension{Value: v, Percent: true} }

// ParseDimension accepts "50%", "120px", "120" or "".
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" {
		return Dimension{}, nil
	}

	d := Dimension{}
	switch {
	case strings.HasSuffix(s, "%"):
		d.Percent = true
		s = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return Dimension{}, fmt.Errorf("invalid dimension %q", s)
	}
	d.Value = v
	return d, nil
}

// IsSet reports whether the dimension was declared.
func (d Dimension) IsSet() bool { return d.Value > 0 }

// Resolve converts the dimension to pixels against an axis length.
func (d Dimension) Resolve(axis float64) float64 {
	if d.Percent {
		return axis * d.Value / 100
	}
	return d.Value
}

func (d Dimension) String() string {
	if !d.IsSet() {
		return ""
	}
	v := strconv.FormatFloat(d.Value, 'f', -1, 64)
	if d.Percent {
		return v + "%"
	}
	return v + "px"
}

// UnmarshalYAML accepts a bare number or a dimension string.
func (d *Dimension) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDimension(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = parsed
	return nil
}

// MarshalYAML writes the canonical string form.
func (d Dimension) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalJSON accepts a JSON number or string.
func (d *Dimension) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*d = Dimension{}
		return nil
	case float64:
		if v < 0 {
			return fmt.Errorf("invalid dimension %v", v)
		}
		*d = Px(v)
		return nil
	case string:
		parsed, err := ParseDimension(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("invalid dimension %s", string(b))
	}
}

// MarshalJSON writes the canonical string form.
func (d Dimension) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Constraint declares how one section is sized and placed.
type Constraint struct {
	Width     Dimension `yaml:"width,omitempty" json:"width,omitempty"`
	Height    Dimension `yaml:"height,omitempty" json:"height,omitempty"`
	MinWidth  Dimension `yaml:"minWidth,omitempty" json:"minWidth,omitempty"`
	MaxWidth  Dimension `yaml:"maxWidth,omitempty" json:"maxWidth,omitempty"`
	MinHeight Dimension `yaml:"minHeight,omitempty" json:"minHeight,omitempty"`
	MaxHeight Dimension `yaml:"maxHeight,omitempty" json:"maxHeight,omitempty"`
	PinBottom bool      `yaml:"pinBottom,omitempty" json:"pinBottom,omitempty"`
	// SpanColumns defaults to true; false confines the section to one grid column.
	SpanColumns *bool `yaml:"spanColumns,omitempty" json:"spanColumns,omitempty"`
}

// Spans reports whether the section spans every grid column.
func (c Constraint) Spans() bool {
	return c.SpanColumns == nil || *c.SpanColumns
}

// Merge overlays the set fields of over onto c.
func (c Constraint) Merge(over Constraint) Constraint {
	out := c
	for _, f := range []struct {
		dst *Dimension
		src Dimension
	}{
		{&out.Width, over.Width},
		{&out.Height, over.Height},
		{&out.MinWidth, over.MinWidth},
		{&out.MaxWidth, over.MaxWidth},
		{&out.MinHeight, over.MinHeight},
		{&out.MaxHeight, over.MaxHeight},
	} {
		if f.src.IsSet() {
			*f.dst = f.src
		}
	}
	if over.PinBottom {
		out.PinBottom = true
	}
	if over.SpanColumns != nil {
		v := *over.SpanColumns
		out.SpanColumns = &v
	}
	return out
}

// Section is a named layout region with its constraint.
type Section struct {
	Name       string `yaml:"name" json:"name"`
	Constraint `yaml:",inline"`
}

// Canonical section names used by the composer.
const (
	SectionTitle   = "title"
	SectionContent = "content"
	SectionFooter  = "footer"
)
