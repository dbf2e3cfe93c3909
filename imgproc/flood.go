package imgproc

import "image"

// Flood grows a 4-connected region from seed over the grayscale image and
// returns the region as a mask in local coordinates. A pixel joins the region
// when its normalized intensity deviates from the seed's intensity by at most
// tol. The seed is given in local coordinates; a seed outside the image
// yields an empty mask.
func Flood(g *image.Gray, seed image.Point, tol float64) *Bitmap {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	region := NewBitmap(w, h)
	if seed.X < 0 || seed.Y < 0 || seed.X >= w || seed.Y >= h {
		return region
	}
	if tol < 0 {
		tol = 0
	}

	at := func(x, y int) float64 {
		return float64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255.0
	}
	ref := at(seed.X, seed.Y)

	queue := make([]image.Point, 0, 64)
	queue = append(queue, seed)
	region.Set(seed.X, seed.Y, true)

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !region.In(nx, ny) || region.At(nx, ny) {
				continue
			}
			diff := at(nx, ny) - ref
			if diff < 0 {
				diff = -diff
			}
			if diff <= tol {
				region.Set(nx, ny, true)
				queue = append(queue, image.Pt(nx, ny))
			}
		}
	}
	return region
}
