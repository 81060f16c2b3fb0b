// Package artwork normalizes downloaded cover art before it is embedded in
// encoded tracks: images are scaled down to a bounded size and re-encoded as
// JPEG, the one format every tagging target accepts.
package artwork

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// maxDimension bounds the longer edge of embedded cover art.
const maxDimension = 1000

const jpegQuality = 90

// Prepare decodes cover art, scales it to fit maxDimension while keeping the
// aspect ratio, and returns it as JPEG bytes. Images already within bounds
// are only re-encoded.
func Prepare(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxDimension || height > maxDimension {
		ratio := float64(width) / float64(height)
		if ratio > 1 {
			width = maxDimension
			height = int(float64(maxDimension) / ratio)
		} else {
			height = maxDimension
			width = int(float64(maxDimension) * ratio)
		}

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
