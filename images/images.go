// Package images normalizes uploaded document photos before they are
// shipped to the extraction oracle: decode, downscale oversized captures,
// re-encode as JPEG.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ErrUnsupportedImage reports an upload that is not a decodable JPEG or
// PNG image.
var ErrUnsupportedImage = errors.New("unsupported or corrupt image")

// maxDimension caps the long edge of an upload; phone cameras routinely
// produce 4000px captures that only slow down transport.
const maxDimension = 2000

const jpegQuality = 90

// Normalize decodes an uploaded image, downscales it if its long edge
// exceeds maxDimension and re-encodes it as JPEG.
func Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img = Downscale(img, maxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Downscale scales an image down so its long edge is at most maxDim,
// preserving aspect ratio. Images already within bounds pass through
// untouched.
func Downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	longEdge := max(width, height)
	if longEdge <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(longEdge)
	newWidth := int(math.Round(float64(width) * scale))
	newHeight := int(math.Round(float64(height) * scale))

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

// ToBase64 encodes image bytes for JSON transport to the oracle.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
