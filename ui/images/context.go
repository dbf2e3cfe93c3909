package images

import (
	"errors"
	"image"
	"image/draw"
)

// ExtractContext produces the region around 'focus' grown by margin pixels on
// each side, clamped to the frame bounds and guaranteed at least 1x1. Used to
// show a patch together with its surroundings. Returns the context image and
// the rectangle relative to frame.
func ExtractContext(frame *image.Gray, focus image.Rectangle, margin int) (*image.Gray, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	if margin < 0 {
		margin = 0
	}
	roi := focus.Inset(-margin).Intersect(frame.Bounds())
	if roi.Dx() < 1 || roi.Dy() < 1 {
		roi = image.Rect(frame.Bounds().Min.X, frame.Bounds().Min.Y, frame.Bounds().Min.X+1, frame.Bounds().Min.Y+1)
	}
	sub := frame.SubImage(roi)
	out := image.NewGray(image.Rect(0, 0, roi.Dx(), roi.Dy()))
	draw.Draw(out, out.Bounds(), sub, roi.Min, draw.Src)
	return out, roi, nil
}
