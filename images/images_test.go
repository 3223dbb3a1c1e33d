package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func solidImage(t *testing.T, width, height int) image.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestNormalizeAcceptsJpegAndPng(t *testing.T) {
	img := solidImage(t, 40, 30)

	for name, data := range map[string][]byte{
		"png":  encodePNG(t, img),
		"jpeg": encodeJPEG(t, img),
	} {
		t.Run(name, func(t *testing.T) {
			out, err := Normalize(data)
			require.NoError(t, err)

			decoded, format, err := image.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			require.Equal(t, "jpeg", format)
			require.Equal(t, 40, decoded.Bounds().Dx())
			require.Equal(t, 30, decoded.Bounds().Dy())
		})
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"))
	require.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = Normalize(nil)
	require.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestNormalizeDownscalesOversized(t *testing.T) {
	data := encodeJPEG(t, solidImage(t, 4000, 1000))

	out, err := Normalize(data)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 2000, decoded.Bounds().Dx())
	require.Equal(t, 500, decoded.Bounds().Dy())
}

func TestDownscale(t *testing.T) {
	t.Run("small image untouched", func(t *testing.T) {
		img := solidImage(t, 100, 50)
		require.Equal(t, img, Downscale(img, 2000))
	})

	t.Run("portrait orientation scales on height", func(t *testing.T) {
		out := Downscale(solidImage(t, 1000, 4000), 2000)
		require.Equal(t, 500, out.Bounds().Dx())
		require.Equal(t, 2000, out.Bounds().Dy())
	})
}

func TestToBase64(t *testing.T) {
	require.Equal(t, "aGVsbG8=", ToBase64([]byte("hello")))
	require.Equal(t, "", ToBase64(nil))
}
