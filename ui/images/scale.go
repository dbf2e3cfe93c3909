package images

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleToFit scales the image down so it fits within maxW x maxH preserving
// aspect ratio. If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	return imaging.Fit(src, maxW, maxH, imaging.NearestNeighbor)
}

// ScaleToWidth resizes the image to the exact width preserving aspect ratio.
// Used for the patch canvas, where the display size is fixed and small
// patches must scale up.
func ScaleToWidth(src image.Image, w int) image.Image {
	if src == nil {
		return nil
	}
	if w < 1 {
		w = 1
	}
	return imaging.Resize(src, w, 0, imaging.NearestNeighbor)
}
