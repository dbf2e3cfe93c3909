package imgproc

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ToGray converts any decoded image to 8-bit grayscale with a zero-origin
// bounds rectangle.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == image.Pt(0, 0) {
		return g
	}
	flat := imaging.Grayscale(img)
	out := image.NewGray(image.Rect(0, 0, flat.Bounds().Dx(), flat.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), flat, flat.Bounds().Min, draw.Src)
	return out
}

// PadGray returns a copy of g zero-padded on the right and bottom so that both
// dimensions are divisible by n. The original content keeps its position at
// the top-left. If g already divides evenly, it is returned unchanged.
func PadGray(g *image.Gray, n int) *image.Gray {
	if n <= 0 {
		return g
	}
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	pw, ph := w, h
	if w%n != 0 {
		pw = w + n - w%n
	}
	if h%n != 0 {
		ph = h + n - h%n
	}
	if pw == w && ph == h && b.Min == image.Pt(0, 0) {
		return g
	}
	out := image.NewGray(image.Rect(0, 0, pw, ph))
	draw.Draw(out, image.Rect(0, 0, w, h), g, b.Min, draw.Src)
	return out
}
