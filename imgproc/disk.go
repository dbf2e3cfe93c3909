package imgproc

import "image"

// Disk returns the points within Euclidean distance radius of center, clipped
// to the w×h local raster. A negative radius yields no points; radius zero
// yields the center cell alone when it is in range.
func Disk(center image.Point, radius, w, h int) []image.Point {
	if radius < 0 {
		return nil
	}
	pts := make([]image.Point, 0, (2*radius+1)*(2*radius+1))
	rr := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		y := center.Y + dy
		if y < 0 || y >= h {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			x := center.X + dx
			if x < 0 || x >= w {
				continue
			}
			if dx*dx+dy*dy <= rr {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}
