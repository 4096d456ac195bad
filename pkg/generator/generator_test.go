package generator

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := NewSolidImage(64, 48, color.RGBA{R: 200, G: 40, B: 90, A: 255})
	for x := 0; x < 64; x++ {
		img.SetRGBA(x, 10, color.RGBA{R: 10, G: 220, B: 10, A: 255})
	}
	return img
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	cases := map[string]Format{
		"":      PNG,
		"png":   PNG,
		".PNG":  PNG,
		"jpg":   JPEG,
		"jpeg":  JPEG,
		"webp":  WebP,
		"avif":  AVIF,
		" bmp ": BMP,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("gif")
	require.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	f, err := FormatFromPath("/tmp/out/card.webp")
	require.NoError(t, err)
	require.Equal(t, WebP, f)

	_, err = FormatFromPath("card.tiff")
	require.Error(t, err)
}

func TestEncodePNGRoundTrip(t *testing.T) {
	t.Parallel()

	for _, optimize := range []bool{false, true} {
		data, err := EncodeBytes(testImage(), Options{Format: PNG, Optimize: optimize})
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		require.Equal(t, 64, img.Bounds().Dx())
		require.Equal(t, 48, img.Bounds().Dy())
	}
}

func TestEncodeJPEGQualityAffectsSize(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x * 2), G: uint8(y * 2), B: uint8((x ^ y) * 2), A: 255})
		}
	}

	low, err := EncodeBytes(src, Options{Format: JPEG, Quality: 10})
	require.NoError(t, err)
	high, err := EncodeBytes(src, Options{Format: JPEG, Quality: 95})
	require.NoError(t, err)

	require.Less(t, len(low), len(high))
	_, err = jpeg.Decode(bytes.NewReader(high))
	require.NoError(t, err)
}

func TestEncodeBMP(t *testing.T) {
	t.Parallel()

	data, err := EncodeBytes(testImage(), Options{Format: BMP})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("BM")))

	img, err := bmp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
}

func TestEncodeWebP(t *testing.T) {
	t.Parallel()

	data, err := EncodeBytes(testImage(), Options{Format: WebP, Quality: 90})
	require.NoError(t, err)
	require.Greater(t, len(data), 12)
	require.Equal(t, "RIFF", string(data[0:4]))
	require.Equal(t, "WEBP", string(data[8:12]))
}

func TestEncodeRejectsNilImage(t *testing.T) {
	t.Parallel()

	_, err := EncodeBytes(nil, Options{Format: PNG})
	require.Error(t, err)
}

func TestMIMEType(t *testing.T) {
	t.Parallel()

	require.Equal(t, "image/webp", MIMEType(WebP))
	require.Equal(t, "image/jpeg", MIMEType(JPEG))
	require.Equal(t, "", MIMEType(Format("tiff")))
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 255}, c)

	c, err = ParseColor("fff")
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, c)

	c, err = ParseColor("#ffffff80")
	require.NoError(t, err)
	require.Equal(t, uint8(0x80), c.A)
	require.Equal(t, uint8(0x80), c.R)

	c, err = ParseColor("transparent")
	require.NoError(t, err)
	require.Equal(t, color.RGBA{}, c)

	_, err = ParseColor("#12")
	require.Error(t, err)
	_, err = ParseColor("")
	require.Error(t, err)
}

func TestParseHexRGBAFallback(t *testing.T) {
	t.Parallel()

	fallback := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	require.Equal(t, fallback, ParseHexRGBA("not-a-color", fallback))
}

func TestWithOpacity(t *testing.T) {
	t.Parallel()

	c := color.RGBA{R: 200, G: 100, B: 0, A: 255}
	require.Equal(t, c, WithOpacity(c, 1))
	require.Equal(t, color.RGBA{}, WithOpacity(c, 0))
	half := WithOpacity(c, 0.5)
	require.Equal(t, uint8(128), half.A)
	require.Equal(t, uint8(100), half.R)
}
