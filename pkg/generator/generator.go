// Package generator encodes rendered posters into output image formats.
//
// All output follows a unified pipeline: produce an image.Image first, then
// hand it to the encoder registered for the requested format.
package generator

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
)

// Format names an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WebP Format = "webp"
	AVIF Format = "avif"
	BMP  Format = "bmp"
)

// DefaultQuality is used when Options.Quality is zero.
const DefaultQuality = 90

// Options holds parameters for encoding.
type Options struct {
	Format   Format
	Quality  int  // 1–100, lossy formats only
	Optimize bool // trade encode time for smaller output
}

// Encoder writes an image in one output format.
type Encoder interface {
	Encode(w io.Writer, img image.Image, opts Options) error
	MIMEType() string
}

var encoders = map[Format]Encoder{
	PNG:  pngEncoder{},
	JPEG: jpegEncoder{},
	WebP: webpEncoder{},
	AVIF: avifEncoder{},
	BMP:  bmpEncoder{},
}

// Formats lists the supported formats in a stable order.
func Formats() []Format {
	return []Format{PNG, JPEG, WebP, AVIF, BMP}
}

// ParseFormat normalises a format name ("jpg" → jpeg). Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	case "avif":
		return AVIF, nil
	case "bmp":
		return BMP, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use png, jpeg, webp, avif or bmp", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// MIMEType returns the media type for a format, or "" if unknown.
func MIMEType(f Format) string {
	if enc, ok := encoders[f]; ok {
		return enc.MIMEType()
	}
	return ""
}

// Encode writes img to w using the encoder for opts.Format.
func Encode(w io.Writer, img image.Image, opts Options) error {
	if img == nil {
		return fmt.Errorf("encode %s: nil image", opts.Format)
	}
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return err
	}
	opts.Format = format
	opts.Quality = clampQuality(opts.Quality)

	if err := encoders[format].Encode(w, img, opts); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(img image.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clampQuality(q int) int {
	if q <= 0 {
		return DefaultQuality
	}
	return min(q, 100)
}
