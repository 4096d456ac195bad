// svg.go — Serialise a Document to SVG 1.1 markup.
package scene

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xob0t/GoPoster/pkg/generator"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// Escape replaces the markup-reserved characters < > & ' and ".
func Escape(s string) string {
	return escaper.Replace(s)
}

// SVG returns the document serialised as SVG.
func (d *Document) SVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSVG writes doc as a standalone SVG 1.1 document. Raster layers are
// embedded as PNG data URIs.
func WriteSVG(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	sw := &svgWriter{w: bw}

	sw.printf(`<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	sw.printf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="1.1" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(doc.Width), num(doc.Height), num(doc.Width), num(doc.Height))

	if doc.Defs.Len() > 0 {
		sw.printf("  <defs>\n")
		for _, f := range doc.Defs.Filters {
			sw.filter(f)
		}
		for _, g := range doc.Defs.Paints {
			sw.gradient(g)
		}
		sw.printf("  </defs>\n")
	}

	for _, n := range doc.Nodes {
		sw.node(n, "  ")
	}
	sw.printf("</svg>\n")

	if sw.err != nil {
		return sw.err
	}
	return bw.Flush()
}

type svgWriter struct {
	w   *bufio.Writer
	err error
}

func (s *svgWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *svgWriter) filter(f Filter) {
	id := Escape(f.ID)
	flood, opacity := hexColor(f.Color)
	if f.Opacity > 0 {
		opacity *= f.Opacity
	}

	s.printf(`    <filter id="%s" x="-25%%" y="-25%%" width="150%%" height="150%%">`+"\n", id)
	switch f.Kind {
	case FilterShadow:
		s.printf(`      <feGaussianBlur in="SourceAlpha" stdDeviation="%s"/>`+"\n", num(f.Blur))
		s.printf(`      <feOffset dx="%s" dy="%s" result="offset"/>`+"\n", num(f.DX), num(f.DY))
		s.printf(`      <feFlood flood-color="%s" flood-opacity="%s"/>`+"\n", flood, num(opacity))
		s.printf(`      <feComposite in2="offset" operator="in" result="shadow"/>` + "\n")
		s.printf(`      <feMerge><feMergeNode in="shadow"/><feMergeNode in="SourceGraphic"/></feMerge>` + "\n")
	case FilterGlow:
		s.printf(`      <feGaussianBlur in="SourceAlpha" stdDeviation="%s" result="blur"/>`+"\n", num(f.Blur))
		s.printf(`      <feFlood flood-color="%s" flood-opacity="%s"/>`+"\n", flood, num(opacity))
		s.printf(`      <feComposite in2="blur" operator="in" result="glow"/>` + "\n")
		s.printf("      <feMerge>")
		for i := 0; i < max(f.Intensity, 1); i++ {
			s.printf(`<feMergeNode in="glow"/>`)
		}
		s.printf(`<feMergeNode in="SourceGraphic"/></feMerge>` + "\n")
	case FilterOutline:
		s.printf(`      <feMorphology in="SourceAlpha" operator="dilate" radius="%s" result="dilated"/>`+"\n", num(f.Radius))
		s.printf(`      <feFlood flood-color="%s" flood-opacity="%s"/>`+"\n", flood, num(opacity))
		s.printf(`      <feComposite in2="dilated" operator="in" result="outline"/>` + "\n")
		s.printf(`      <feMerge><feMergeNode in="outline"/><feMergeNode in="SourceGraphic"/></feMerge>` + "\n")
	}
	s.printf("    </filter>\n")
}

func (s *svgWriter) gradient(g Gradient) {
	units := g.Units
	if units == "" {
		units = BoundingBox
	}
	switch g.Type {
	case Radial:
		s.printf(`    <radialGradient id="%s" gradientUnits="%s" cx="%s" cy="%s" r="%s">`+"\n",
			Escape(g.ID), units, num(g.CX), num(g.CY), num(g.R))
	default:
		s.printf(`    <linearGradient id="%s" gradientUnits="%s" x1="%s" y1="%s" x2="%s" y2="%s">`+"\n",
			Escape(g.ID), units, num(g.X1), num(g.Y1), num(g.X2), num(g.Y2))
	}
	for _, st := range g.Stops {
		c, a := hexColor(st.Color)
		s.printf(`      <stop offset="%s" stop-color="%s" stop-opacity="%s"/>`+"\n", num(st.Offset), c, num(a))
	}
	if g.Type == Radial {
		s.printf("    </radialGradient>\n")
	} else {
		s.printf("    </linearGradient>\n")
	}
}

func (s *svgWriter) node(n Node, indent string) {
	switch n := n.(type) {
	case Image:
		s.image(n, indent)
	case Rect:
		s.printf(`%s<rect x="%s" y="%s" width="%s" height="%s"`, indent, num(n.X), num(n.Y), num(n.Width), num(n.Height))
		if n.Radius > 0 {
			s.printf(` rx="%s"`, num(n.Radius))
		}
		s.printf(" %s/>\n", fillAttr(n.Fill))
	case Text:
		s.text(n, indent)
	case Group:
		s.printf("%s<g", indent)
		if n.ID != "" {
			s.printf(` id="%s"`, Escape(n.ID))
		}
		if n.Filter != "" {
			s.printf(` filter="url(#%s)"`, Escape(n.Filter))
		}
		s.printf(">\n")
		for _, c := range n.Children {
			s.node(c, indent+"  ")
		}
		s.printf("%s</g>\n", indent)
	}
}

func (s *svgWriter) image(n Image, indent string) {
	if n.Src == nil || s.err != nil {
		return
	}
	data, err := generator.EncodeBytes(n.Src, generator.Options{Format: generator.PNG})
	if err != nil {
		s.err = fmt.Errorf("embed image: %w", err)
		return
	}
	s.printf(`%s<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none"`,
		indent, num(n.X), num(n.Y), num(n.Width), num(n.Height))
	if n.Opacity > 0 && n.Opacity < 1 {
		s.printf(` opacity="%s"`, num(n.Opacity))
	}
	s.printf(` xlink:href="data:image/png;base64,%s"/>`+"\n", base64.StdEncoding.EncodeToString(data))
}

func (s *svgWriter) text(n Text, indent string) {
	if len(n.Lines) == 0 {
		return
	}
	// The first filter applies to the text element itself; each further
	// filter wraps the previous result in a group.
	outer := indent
	for i := len(n.Filters) - 1; i >= 1; i-- {
		s.printf(`%s<g filter="url(#%s)">`+"\n", outer, Escape(n.Filters[i]))
		outer += "  "
	}

	anchor := n.Anchor
	if anchor == "" {
		anchor = AnchorStart
	}
	weight := "normal"
	if n.Font.Bold() {
		weight = "bold"
	}
	s.printf(`%s<text x="%s" y="%s" font-family="%s" font-size="%s" font-weight="%s" text-anchor="%s" %s`,
		outer, num(n.X), num(n.Y), Escape(n.Font.Family), num(n.Font.Size), weight, anchor, fillAttr(n.Fill))
	if len(n.Filters) > 0 {
		s.printf(` filter="url(#%s)"`, Escape(n.Filters[0]))
	}
	if n.Section != "" {
		s.printf(` class="%s"`, Escape(n.Section))
	}
	s.printf(">")
	for i, line := range n.Lines {
		dy := 0.0
		if i > 0 {
			dy = n.LineHeight
		}
		s.printf(`<tspan x="%s" dy="%s">%s</tspan>`, num(n.X), num(dy), Escape(line))
	}
	s.printf("</text>\n")

	for i := len(n.Filters) - 1; i >= 1; i-- {
		outer = outer[:len(outer)-2]
		s.printf("%s</g>\n", outer)
	}
}

func fillAttr(p Paint) string {
	if p.Ref != "" {
		return fmt.Sprintf(`fill="url(#%s)"`, Escape(p.Ref))
	}
	c, a := hexColor(p.Color)
	if a >= 1 {
		return fmt.Sprintf(`fill="%s"`, c)
	}
	return fmt.Sprintf(`fill="%s" fill-opacity="%s"`, c, num(a))
}

// hexColor converts a premultiplied color to "#rrggbb" plus an opacity.
func hexColor(c color.RGBA) (string, float64) {
	if c.A == 0 {
		return "#000000", 0
	}
	un := func(v uint8) uint8 {
		return uint8(min(255, (uint32(v)*255+uint32(c.A)/2)/uint32(c.A)))
	}
	return fmt.Sprintf("#%02x%02x%02x", un(c.R), un(c.G), un(c.B)), float64(c.A) / 255
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
