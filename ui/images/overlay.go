package images

import (
	"image"
	"image/color"

	"github.com/soocke/rootmark-go/imgproc"
)

// Mask overlay colors. The tint is blended over marked pixels so the
// underlying intensity stays visible.
var (
	tintColor = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	highlight = color.RGBA{R: 60, G: 120, B: 255, A: 255}
)

const tintAlpha = 110 // out of 255

// Overlay renders the patch pixels with the mask tinted on top. The pixel
// image may have a non-zero origin (sub-image view); the result is always
// zero-based.
func Overlay(pixels *image.Gray, mask *imgproc.Bitmap) *image.RGBA {
	if pixels == nil || mask == nil {
		return nil
	}
	b := pixels.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := pixels.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			c := color.RGBA{R: v, G: v, B: v, A: 255}
			if mask.At(x, y) {
				c = blend(c, tintColor, tintAlpha)
			}
			out.SetRGBA(x, y, c)
		}
	}
	return out
}

// ContextSheet renders the whole source image with every patch mask tinted
// and the current patch outlined, for the zoomed-out preview. src is the
// padded grid source; size is the original image dimensions to crop to.
func ContextSheet(src *image.Gray, masks []MaskRegion, current image.Rectangle, w, h int) *image.RGBA {
	if src == nil || w <= 0 || h <= 0 {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	b := src.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			out.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	for _, m := range masks {
		if m.Mask == nil {
			continue
		}
		for y := 0; y < m.Mask.H; y++ {
			gy := m.Bounds.Min.Y + y
			if gy >= h {
				break
			}
			for x := 0; x < m.Mask.W; x++ {
				gx := m.Bounds.Min.X + x
				if gx >= w {
					break
				}
				if m.Mask.At(x, y) {
					out.SetRGBA(gx, gy, blend(out.RGBAAt(gx, gy), tintColor, tintAlpha))
				}
			}
		}
	}
	drawBorder(out, current.Intersect(image.Rect(0, 0, w, h)))
	return out
}

// MaskRegion pairs a mask with its placement in original-image coordinates.
type MaskRegion struct {
	Mask   *imgproc.Bitmap
	Bounds image.Rectangle
}

func blend(base, top color.RGBA, alpha uint8) color.RGBA {
	a := uint32(alpha)
	inv := 255 - a
	return color.RGBA{
		R: uint8((uint32(top.R)*a + uint32(base.R)*inv) / 255),
		G: uint8((uint32(top.G)*a + uint32(base.G)*inv) / 255),
		B: uint8((uint32(top.B)*a + uint32(base.B)*inv) / 255),
		A: 255,
	}
}

func drawBorder(img *image.RGBA, r image.Rectangle) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, highlight)
		img.SetRGBA(x, r.Max.Y-1, highlight)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, highlight)
		img.SetRGBA(r.Max.X-1, y, highlight)
	}
}
