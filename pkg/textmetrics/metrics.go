// Package textmetrics sizes and wraps mixed-script text.
//
// Effective length counts runes, weighting runes from visually wide scripts
// (Tamil by default) more heavily than Latin. Font scaling and line wrapping
// are both expressed in effective-length units so a Tamil poem and an English
// one of the same visual width get the same treatment.
package textmetrics

import (
	"math"
	"strings"
	"unicode"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultWideWeight is the cost of one rune from a wide script.
	DefaultWideWeight = 1.5
	// DefaultMaxEffectiveLength is the length above which FontScale shrinks text.
	DefaultMaxEffectiveLength = 500
	// DefaultMinScale floors the shrink factor applied by FontScale.
	DefaultMinScale = 0.6
)

// Metrics measures text with a configurable set of wide scripts.
// The zero value is not usable; use New or Default.
type Metrics struct {
	wide   map[language.Script]struct{}
	weight float64
}

// Option configures Metrics.
type Option func(*Metrics)

// WithWideScripts replaces the set of scripts counted at the wide weight.
func WithWideScripts(scripts ...language.Script) Option {
	return func(m *Metrics) {
		m.wide = make(map[language.Script]struct{}, len(scripts))
		for _, s := range scripts {
			m.wide[s] = struct{}{}
		}
	}
}

// WithWideWeight sets the per-rune cost of wide scripts.
func WithWideWeight(w float64) Option {
	return func(m *Metrics) {
		if w > 0 {
			m.weight = w
		}
	}
}

// New returns Metrics counting Tamil as wide unless overridden.
func New(opts ...Option) *Metrics {
	m := &Metrics{
		wide:   map[language.Script]struct{}{language.Tamil: {}},
		weight: DefaultWideWeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMetrics = New()

// Default returns the shared Tamil-aware Metrics. It is read-only.
func Default() *Metrics { return defaultMetrics }

// EffectiveLength is Default().EffectiveLength.
func EffectiveLength(text string) float64 { return defaultMetrics.EffectiveLength(text) }

// FontScale is Default().FontScale.
func FontScale(text string, base float64, opts ...ScaleOption) float64 {
	return defaultMetrics.FontScale(text, base, opts...)
}

// Wrap is Default().Wrap.
func Wrap(text string, maxEffectiveWidth float64) []string {
	return defaultMetrics.Wrap(text, maxEffectiveWidth)
}

// EffectiveLength returns the weighted rune count of the NFC form of text.
func (m *Metrics) EffectiveLength(text string) float64 {
	if text == "" {
		return 0
	}
	var total float64
	for _, r := range norm.NFC.String(text) {
		total += m.runeWeight(r)
	}
	return total
}

func (m *Metrics) runeWeight(r rune) float64 {
	if r < unicode.MaxASCII {
		return 1
	}
	if _, ok := m.wide[language.LookupScript(r)]; ok {
		return m.weight
	}
	return 1
}

// IsWide reports whether r belongs to one of the wide scripts.
func (m *Metrics) IsWide(r rune) bool {
	_, ok := m.wide[language.LookupScript(r)]
	return ok
}

// ScaleOption tunes FontScale.
type ScaleOption func(*scaleConfig)

type scaleConfig struct {
	maxLength float64
	minScale  float64
}

// WithMaxEffectiveLength sets the length above which text is shrunk.
func WithMaxEffectiveLength(n float64) ScaleOption {
	return func(c *scaleConfig) {
		if n > 0 {
			c.maxLength = n
		}
	}
}

// WithMinScale sets the smallest allowed fraction of the base size.
func WithMinScale(s float64) ScaleOption {
	return func(c *scaleConfig) {
		if s > 0 && s <= 1 {
			c.minScale = s
		}
	}
}

// FontScale returns the font size for text given its base size. Text no
// longer than the max effective length keeps base unchanged; longer text is
// shrunk proportionally, rounded to a whole size, never below minScale*base.
func (m *Metrics) FontScale(text string, base float64, opts ...ScaleOption) float64 {
	cfg := scaleConfig{maxLength: DefaultMaxEffectiveLength, minScale: DefaultMinScale}
	for _, opt := range opts {
		opt(&cfg)
	}

	length := m.EffectiveLength(text)
	if length <= cfg.maxLength {
		return base
	}
	scale := max(cfg.maxLength/length, cfg.minScale)
	size := math.Round(base * scale)
	// Rounding down may dip under the floor for small bases.
	return max(size, math.Ceil(base*cfg.minScale))
}

// Wrap splits text into lines whose effective length does not exceed
// maxEffectiveWidth. Words are never broken; a word longer than the width
// sits on its own line. Newlines are hard breaks and a run of blank lines
// becomes one empty line, kept only between non-empty lines.
func (m *Metrics) Wrap(text string, maxEffectiveWidth float64) []string {
	var lines []string
	blank := false

	for _, para := range strings.Split(norm.NFC.String(text), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			blank = len(lines) > 0
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, m.wrapWords(words, maxEffectiveWidth)...)
	}

	if lines == nil {
		return []string{}
	}
	return lines
}

func (m *Metrics) wrapWords(words []string, width float64) []string {
	var (
		lines   []string
		current strings.Builder
		length  float64
	)
	space := m.EffectiveLength(" ")

	for _, word := range words {
		wl := m.EffectiveLength(word)
		if current.Len() == 0 {
			current.WriteString(word)
			length = wl
			continue
		}
		if length+space+wl <= width {
			current.WriteByte(' ')
			current.WriteString(word)
			length += space + wl
			continue
		}
		lines = append(lines, current.String())
		current.Reset()
		current.WriteString(word)
		length = wl
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
