// png.go — PNG and JPEG writers from the standard library codecs.
package generator

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
)

type pngEncoder struct{}

func (pngEncoder) Encode(w io.Writer, img image.Image, opts Options) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if opts.Optimize {
		enc.CompressionLevel = png.BestCompression
	}
	return enc.Encode(w, img)
}

func (pngEncoder) MIMEType() string { return "image/png" }

type jpegEncoder struct{}

func (jpegEncoder) Encode(w io.Writer, img image.Image, opts Options) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: opts.Quality})
}

func (jpegEncoder) MIMEType() string { return "image/jpeg" }
