// bmp.go — BMP writer.
package generator

import (
	"image"
	"io"

	"golang.org/x/image/bmp"
)

type bmpEncoder struct{}

func (bmpEncoder) Encode(w io.Writer, img image.Image, _ Options) error {
	return bmp.Encode(w, img)
}

func (bmpEncoder) MIMEType() string { return "image/bmp" }
