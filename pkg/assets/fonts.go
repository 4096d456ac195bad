// fonts.go - Font lookup with custom TTF/OTF support and embedded Go font
// fallbacks. Parsed fonts are cached per family and weight; faces are made
// per call because a font.Face is not safe for concurrent use.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontKey is the cache key of a font family and weight.
func FontKey(family, weight string) string {
	return "font:" + strings.ToLower(family) + ":" + normalizeWeight(weight)
}

// Font returns the parsed font for a family and weight. A family that
// cannot be found under the fonts directory falls back to the embedded Go
// fonts with a warning; the error is non-nil only if even that fails.
func (s *Store) Font(family, weight string) (*opentype.Font, error) {
	weight = normalizeWeight(weight)
	key := FontKey(family, weight)
	return s.fonts.Get(key, func() (*opentype.Font, error) {
		if data, path, ok := s.findFontFile(family, weight); ok {
			f, err := opentype.Parse(data)
			if err == nil {
				return f, nil
			}
			s.log.Warn().Err(err).Str("asset", key).Str("path", path).Msg("could not parse font, using embedded")
		} else if s.fontsDir != "" && family != "" && !isEmbeddedFamily(family) {
			s.log.Warn().Str("asset", key).Msg("font not found, using embedded")
		}

		f, err := opentype.Parse(embeddedFont(family, weight))
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		return f, nil
	})
}

// Face returns a new face of the font at size pixels.
func Face(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// FontFace is Font followed by Face.
func (s *Store) FontFace(family, weight string, size float64) (font.Face, error) {
	f, err := s.Font(family, weight)
	if err != nil {
		return nil, err
	}
	return Face(f, size)
}

func (s *Store) findFontFile(family, weight string) ([]byte, string, bool) {
	if s.fontsDir == "" || family == "" {
		return nil, "", false
	}
	names := []string{family, strings.ReplaceAll(family, " ", "")}
	suffix := "Regular"
	if weight == "bold" {
		suffix = "Bold"
	}

	for _, name := range names {
		for _, base := range []string{name + "-" + suffix, name} {
			for _, ext := range []string{".ttf", ".otf"} {
				path := filepath.Join(s.fontsDir, base+ext)
				if data, err := os.ReadFile(path); err == nil {
					return data, path, true
				}
			}
		}
	}
	return nil, "", false
}

func normalizeWeight(w string) string {
	switch strings.ToLower(strings.TrimSpace(w)) {
	case "bold", "700", "800", "900", "semibold", "600":
		return "bold"
	default:
		return "regular"
	}
}

func isEmbeddedFamily(family string) bool {
	switch strings.ToLower(family) {
	case "go", "go mono", "gomono":
		return true
	}
	return false
}

func embeddedFont(family, weight string) []byte {
	mono := strings.Contains(strings.ToLower(family), "mono")
	switch {
	case mono && weight == "bold":
		return gomonobold.TTF
	case mono:
		return gomono.TTF
	case weight == "bold":
		return gobold.TTF
	default:
		return goregular.TTF
	}
}
