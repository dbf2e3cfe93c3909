package imgproc

import (
	"errors"
	"image"
)

// ErrFlatHistogram is returned by Otsu when the image has a single intensity
// value and no threshold separates foreground from background.
var ErrFlatHistogram = errors.New("imgproc: flat histogram, no threshold")

// Otsu computes a global threshold in [0,1] for a grayscale image by
// maximizing inter-class variance over the 256-bin intensity histogram.
func Otsu(g *image.Gray) (float64, error) {
	if g == nil {
		return 0, errors.New("imgproc: nil image")
	}
	var hist [256]int
	b := g.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0, ErrFlatHistogram
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[g.GrayAt(x, y).Y]++
		}
	}

	distinct := 0
	for _, c := range hist {
		if c > 0 {
			distinct++
		}
	}
	if distinct < 2 {
		return 0, ErrFlatHistogram
	}

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	var best float64
	bestT := 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			bestT = t
		}
	}
	return float64(bestT) / 255.0, nil
}

// ApplyThreshold produces a mask with cells set where the normalized pixel
// intensity strictly exceeds t. The mask uses local coordinates; the source
// image may have a non-zero bounds origin.
func ApplyThreshold(g *image.Gray, t float64) *Bitmap {
	b := g.Bounds()
	mask := NewBitmap(b.Dx(), b.Dy())
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			v := float64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255.0
			if v > t {
				mask.Pix[y*mask.W+x] = true
			}
		}
	}
	return mask
}
