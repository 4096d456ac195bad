// webp.go — WebP and AVIF writers backed by libwebp/libavif compiled to WASM.
package generator

import (
	"image"
	"io"

	"github.com/gen2brain/avif"
	"github.com/gen2brain/webp"
)

type webpEncoder struct{}

func (webpEncoder) Encode(w io.Writer, img image.Image, opts Options) error {
	o := webp.Options{
		Quality:  opts.Quality,
		Lossless: opts.Quality >= 100,
		Method:   4,
	}
	if opts.Optimize {
		o.Method = 6
	}
	return webp.Encode(w, img, o)
}

func (webpEncoder) MIMEType() string { return "image/webp" }

type avifEncoder struct{}

func (avifEncoder) Encode(w io.Writer, img image.Image, opts Options) error {
	o := avif.Options{
		Quality:           opts.Quality,
		QualityAlpha:      opts.Quality,
		Speed:             8,
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	}
	if opts.Optimize {
		o.Speed = 4
	}
	return avif.Encode(w, img, o)
}

func (avifEncoder) MIMEType() string { return "image/avif" }
