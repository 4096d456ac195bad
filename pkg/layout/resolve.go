// resolve.go — Resolve section constraints against a canvas.
package layout

import (
	"math"

	"github.com/rs/zerolog"
)

// Canvas is the output raster size in pixels.
type Canvas struct {
	Width  int
	Height int
}

// Grid describes multi-column text flow. Columns <= 1 disables the grid.
type Grid struct {
	Columns int
	Gutter  float64
}

// Active reports whether more than one column is in use.
func (g Grid) Active() bool { return g.Columns > 1 }

// VAlign places leftover vertical space around the stacked sections.
type VAlign string

const (
	AlignTop    VAlign = "top"
	AlignCenter VAlign = "center"
	AlignBottom VAlign = "bottom"
)

// Rect is a resolved section rectangle in canvas pixels.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Placed is one resolved section.
type Placed struct {
	Name   string
	Rect   Rect
	Pinned bool
	Spans  bool
}

// Resolved is the concrete geometry of every section.
type Resolved struct {
	Canvas   Canvas
	Grid     Grid
	Sections []Placed
}

// Section returns the placed section with the given name.
func (r Resolved) Section(name string) (Placed, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Placed{}, false
}

// ColumnRects splits a placed section into its text columns. A spanning
// section is divided into Grid.Columns columns; a single-column section
// repeats its own width across the grid starting at its left edge.
func (r Resolved) ColumnRects(p Placed) []Rect {
	if !r.Grid.Active() {
		return []Rect{p.Rect}
	}
	colW := p.Rect.Width
	if p.Spans {
		colW = ColumnWidth(p.Rect.Width, r.Grid.Columns, r.Grid.Gutter)
	}
	rects := make([]Rect, r.Grid.Columns)
	for i := range rects {
		rects[i] = Rect{
			X:      p.Rect.X + float64(i)*(colW+r.Grid.Gutter),
			Y:      p.Rect.Y,
			Width:  colW,
			Height: p.Rect.Height,
		}
	}
	return rects
}

// Resolver resolves section constraints. The zero value logs nowhere.
type Resolver struct {
	log zerolog.Logger
}

// NewResolver returns a Resolver that reports normalisations to log.
func NewResolver(log zerolog.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve resolves sections with a silent logger.
func Resolve(sections []Section, canvas Canvas, grid Grid, align VAlign) Resolved {
	return (&Resolver{log: zerolog.Nop()}).Resolve(sections, canvas, grid, align)
}

type working struct {
	Section
	height     float64
	width      float64
	minH, maxH float64
	flex       bool
	pinned     bool
	spans      bool
}

// Resolve turns constraints into rectangles. Explicit sizes win, percentages
// are taken of the matching canvas axis, pinned sections stack up from the
// bottom edge, and sections without a height share what remains, each
// clamped to its own bounds. Resolve never fails: conflicting bounds are
// normalised and overflow is shrunk proportionally, both with a warning.
func (r *Resolver) Resolve(sections []Section, canvas Canvas, grid Grid, align VAlign) Resolved {
	W := float64(max(canvas.Width, 1))
	H := float64(max(canvas.Height, 1))
	if grid.Columns < 1 {
		grid.Columns = 1
	}
	grid.Gutter = max(grid.Gutter, 0)

	ws := make([]working, len(sections))
	for i, s := range sections {
		ws[i] = r.prepare(s, W, H, grid)
	}

	// Pinned sections first: they are excluded from stacking.
	var pinnedTotal float64
	for i := range ws {
		if ws[i].pinned {
			pinnedTotal += ws[i].height
		}
	}
	if budget := max(H-float64(countStacked(ws)), 0); pinnedTotal > budget {
		r.log.Warn().Float64("pinned", pinnedTotal).Float64("canvas", H).Msg("pinned sections exceed canvas, shrinking")
		pinnedTotal = shrinkTo(ws, true, budget)
	}

	available := H - pinnedTotal
	shareFlex(ws, available)

	var stackedTotal float64
	for i := range ws {
		if !ws[i].pinned {
			stackedTotal += ws[i].height
		}
	}
	if stackedTotal > available {
		r.log.Warn().Float64("stacked", stackedTotal).Float64("available", available).Msg("sections overflow canvas, shrinking")
		stackedTotal = shrinkTo(ws, false, available)
	}

	var y float64
	switch align {
	case AlignCenter:
		y = math.Floor((available - stackedTotal) / 2)
	case AlignBottom:
		y = available - stackedTotal
	}

	out := Resolved{Canvas: Canvas{Width: int(W), Height: int(H)}, Grid: grid}
	bottom := H
	placed := make([]Placed, len(ws))
	// Pinned sections stack upward in reverse declaration order so the last
	// one declared sits on the bottom edge.
	for i := len(ws) - 1; i >= 0; i-- {
		if !ws[i].pinned {
			continue
		}
		bottom -= ws[i].height
		placed[i] = ws[i].place(bottom, W)
	}
	for i := range ws {
		if ws[i].pinned {
			continue
		}
		placed[i] = ws[i].place(y, W)
		y += ws[i].height
	}
	out.Sections = placed
	return out
}

func (r *Resolver) prepare(s Section, W, H float64, grid Grid) working {
	w := working{Section: s, pinned: s.PinBottom, spans: s.Spans() || !grid.Active()}

	w.minH = s.MinHeight.Resolve(H)
	w.maxH = math.Inf(1)
	if s.MaxHeight.IsSet() {
		w.maxH = s.MaxHeight.Resolve(H)
	}
	if w.maxH < w.minH {
		r.log.Warn().Str("section", s.Name).Float64("min", w.minH).Float64("max", w.maxH).Msg("min height exceeds max, clamping max to min")
		w.maxH = w.minH
	}

	minW := s.MinWidth.Resolve(W)
	maxW := W
	if s.MaxWidth.IsSet() {
		maxW = s.MaxWidth.Resolve(W)
	}
	if maxW < minW {
		r.log.Warn().Str("section", s.Name).Float64("min", minW).Float64("max", maxW).Msg("min width exceeds max, clamping max to min")
		maxW = minW
	}

	switch {
	case s.Height.IsSet():
		w.height = s.Height.Resolve(H)
	case s.PinBottom:
		w.height = w.minH
		if w.height <= 0 {
			w.height = H * 0.1
		}
	default:
		w.flex = true
	}
	w.height = clampFinite(math.Floor(w.height), 1, H)

	switch {
	case s.Width.IsSet():
		w.width = s.Width.Resolve(W)
	case !w.spans:
		w.width = ColumnWidth(W, grid.Columns, grid.Gutter)
	default:
		w.width = min(max(W, minW), maxW)
	}
	w.width = clampFinite(math.Floor(w.width), 1, W)
	return w
}

// shareFlex divides the space left by fixed sections among flex sections.
// Sections whose share falls outside their bounds are fixed at the bound and
// the remainder is shared again among the rest.
func shareFlex(ws []working, available float64) {
	remaining := available
	var open []int
	for i := range ws {
		switch {
		case ws[i].pinned:
		case ws[i].flex:
			open = append(open, i)
		default:
			remaining -= ws[i].height
		}
	}

	for len(open) > 0 {
		share := max(remaining, 0) / float64(len(open))
		var next []int
		fixed := false
		for _, i := range open {
			switch {
			case share < ws[i].minH:
				ws[i].height = ws[i].minH
			case share > ws[i].maxH:
				ws[i].height = ws[i].maxH
			default:
				next = append(next, i)
				continue
			}
			remaining -= ws[i].height
			fixed = true
		}
		if !fixed {
			for _, i := range next {
				ws[i].height = share
			}
			break
		}
		open = next
	}

	for i := range ws {
		if ws[i].flex {
			ws[i].height = max(math.Floor(ws[i].height), 1)
		}
	}
}

// shrinkTo scales the pinned (or stacked) sections down so their heights sum
// to at most budget, keeping each at least one pixel where possible.
func shrinkTo(ws []working, pinned bool, budget float64) float64 {
	var total float64
	for i := range ws {
		if ws[i].pinned == pinned {
			total += ws[i].height
		}
	}
	if total <= budget || total == 0 {
		return total
	}

	factor := budget / total
	total = 0
	for i := range ws {
		if ws[i].pinned == pinned {
			ws[i].height = max(math.Floor(ws[i].height*factor), 1)
			total += ws[i].height
		}
	}
	for i := range ws {
		if total <= budget {
			break
		}
		if ws[i].pinned != pinned {
			continue
		}
		cut := min(total-budget, ws[i].height-1)
		ws[i].height -= cut
		total -= cut
	}
	return total
}

func countStacked(ws []working) int {
	n := 0
	for _, w := range ws {
		if !w.pinned {
			n++
		}
	}
	return n
}

func (w working) place(y, W float64) Placed {
	x := 0.0
	if w.spans {
		x = math.Floor((W - w.width) / 2)
	}
	return Placed{
		Name:   w.Name,
		Rect:   Rect{X: x, Y: y, Width: w.width, Height: w.height},
		Pinned: w.pinned,
		Spans:  w.spans,
	}
}

func clampFinite(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return lo
	}
	if math.IsInf(v, 1) {
		return hi
	}
	return min(max(v, lo), hi)
}
