package imgproc

// Bitmap is a fixed-size boolean raster used for patch masks. Coordinates are
// local: (0,0) is the top-left cell regardless of the pixel source's bounds.
// The zero value is not usable; construct with NewBitmap.
type Bitmap struct {
	W, H int
	Pix  []bool
}

// NewBitmap returns an all-false bitmap of the given dimensions.
// Non-positive dimensions are clamped to zero.
func NewBitmap(w, h int) *Bitmap {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Bitmap{W: w, H: h, Pix: make([]bool, w*h)}
}

// In reports whether (x, y) lies inside the bitmap.
func (b *Bitmap) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.W && y < b.H
}

// At returns the cell value; out-of-range reads return false.
func (b *Bitmap) At(x, y int) bool {
	if !b.In(x, y) {
		return false
	}
	return b.Pix[y*b.W+x]
}

// Set writes the cell value; out-of-range writes are ignored.
func (b *Bitmap) Set(x, y int, v bool) {
	if !b.In(x, y) {
		return
	}
	b.Pix[y*b.W+x] = v
}

// Fill sets every cell to v.
func (b *Bitmap) Fill(v bool) {
	for i := range b.Pix {
		b.Pix[i] = v
	}
}

// Clone returns an independent deep copy.
func (b *Bitmap) Clone() *Bitmap {
	if b == nil {
		return nil
	}
	out := &Bitmap{W: b.W, H: b.H, Pix: make([]bool, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// CopyFrom overwrites the receiver's cells with o's. Dimensions must match;
// mismatched copies are ignored.
func (b *Bitmap) CopyFrom(o *Bitmap) {
	if o == nil || b.W != o.W || b.H != o.H {
		return
	}
	copy(b.Pix, o.Pix)
}

// Or sets every cell that is set in o.
func (b *Bitmap) Or(o *Bitmap) {
	if o == nil || b.W != o.W || b.H != o.H {
		return
	}
	for i, v := range o.Pix {
		if v {
			b.Pix[i] = true
		}
	}
}

// AndNot clears every cell that is set in o.
func (b *Bitmap) AndNot(o *Bitmap) {
	if o == nil || b.W != o.W || b.H != o.H {
		return
	}
	for i, v := range o.Pix {
		if v {
			b.Pix[i] = false
		}
	}
}

// Equal reports whether two bitmaps have identical dimensions and cells.
func (b *Bitmap) Equal(o *Bitmap) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.W != o.W || b.H != o.H {
		return false
	}
	for i, v := range b.Pix {
		if v != o.Pix[i] {
			return false
		}
	}
	return true
}

// Count returns the number of set cells.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Pix {
		if v {
			n++
		}
	}
	return n
}
