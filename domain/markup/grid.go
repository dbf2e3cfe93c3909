package markup

import (
	"fmt"
	"image"
	"image/png"
	"os"

	_ "image/jpeg"

	_ "golang.org/x/image/tiff"

	"github.com/soocke/rootmark-go/imgproc"
)

// Grid divides a grayscale source image into an n×n set of equally sized
// patches. The source is zero-padded on the right and bottom so the division
// is exact; exported masks are cropped back to the original dimensions.
// The patch set is replaced wholesale when a new image is loaded.
type Grid struct {
	n            int
	cellW, cellH int
	origW, origH int
	src          *image.Gray
	patches      []*Patch
}

// LoadGrid reads an image file (PNG, JPEG or TIFF) and divides it into
// n patches per side.
func LoadGrid(path string, n int) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return NewGrid(img, n)
}

// NewGrid builds a grid from an already decoded image.
func NewGrid(img image.Image, n int) (*Grid, error) {
	if n <= 0 {
		return nil, fmt.Errorf("patches per side must be positive, got %d", n)
	}
	gray := imgproc.ToGray(img)
	origW, origH := gray.Bounds().Dx(), gray.Bounds().Dy()
	if origW == 0 || origH == 0 {
		return nil, fmt.Errorf("empty image")
	}
	padded := imgproc.PadGray(gray, n)

	g := &Grid{
		n:     n,
		cellW: padded.Bounds().Dx() / n,
		cellH: padded.Bounds().Dy() / n,
		origW: origW,
		origH: origH,
		src:   padded,
	}
	g.patches = make([]*Patch, 0, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			r := image.Rect(col*g.cellW, row*g.cellH, (col+1)*g.cellW, (row+1)*g.cellH)
			view := padded.SubImage(r).(*image.Gray)
			g.patches = append(g.patches, NewPatch(row*n+col, row, col, r, view))
		}
	}
	return g, nil
}

// Source returns the padded grayscale source the patches view into.
func (g *Grid) Source() *image.Gray { return g.src }

// Len returns the number of patches.
func (g *Grid) Len() int { return len(g.patches) }

// PatchesPerSide returns n.
func (g *Grid) PatchesPerSide() int { return g.n }

// CellSize returns the patch dimensions in pixels.
func (g *Grid) CellSize() (w, h int) { return g.cellW, g.cellH }

// Size returns the original (un-padded) image dimensions.
func (g *Grid) Size() (w, h int) { return g.origW, g.origH }

// Patch returns the patch at index i, or nil when out of range.
func (g *Grid) Patch(i int) *Patch {
	if i < 0 || i >= len(g.patches) {
		return nil
	}
	return g.patches[i]
}

// Patches returns the ordered patch slice.
func (g *Grid) Patches() []*Patch { return g.patches }

// Replace installs p as the live patch at index i. Used when an undo or redo
// snapshot becomes the current state.
func (g *Grid) Replace(i int, p *Patch) {
	if i < 0 || i >= len(g.patches) || p == nil {
		return
	}
	g.patches[i] = p
}

// Next returns the patch after index i, or (nil, NoPatch) at the end.
func (g *Grid) Next(i int) (*Patch, int) {
	if i+1 < len(g.patches) {
		return g.patches[i+1], i + 1
	}
	return nil, NoPatch
}

// Prev returns the patch before index i, or (nil, NoPatch) at the start.
func (g *Grid) Prev(i int) (*Patch, int) {
	if i-1 >= 0 {
		return g.patches[i-1], i - 1
	}
	return nil, NoPatch
}

// PatchAt maps a point in original-image coordinates to a patch index, or
// NoPatch when the point lies outside the image.
func (g *Grid) PatchAt(pt image.Point) int {
	if pt.X < 0 || pt.Y < 0 || pt.X >= g.origW || pt.Y >= g.origH {
		return NoPatch
	}
	row := pt.Y / g.cellH
	col := pt.X / g.cellW
	return row*g.n + col
}

// MaskImage assembles the per-patch masks into one grayscale image (255 for
// foreground) cropped to the original dimensions.
func (g *Grid) MaskImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, g.origW, g.origH))
	for _, p := range g.patches {
		mask := p.MaskClone()
		b := p.Bounds()
		for y := 0; y < mask.H; y++ {
			gy := b.Min.Y + y
			if gy >= g.origH {
				break
			}
			for x := 0; x < mask.W; x++ {
				gx := b.Min.X + x
				if gx >= g.origW {
					break
				}
				if mask.At(x, y) {
					out.Pix[gy*out.Stride+gx] = 255
				}
			}
		}
	}
	return out
}

// ApplyMaskImage splits a previously exported mask back into the patches.
// The mask must match the original image dimensions.
func (g *Grid) ApplyMaskImage(m image.Image) error {
	b := m.Bounds()
	if b.Dx() != g.origW || b.Dy() != g.origH {
		return fmt.Errorf("mask is %dx%d, image is %dx%d", b.Dx(), b.Dy(), g.origW, g.origH)
	}
	gray := imgproc.ToGray(m)
	for _, p := range g.patches {
		pb := p.Bounds()
		bm := imgproc.NewBitmap(pb.Dx(), pb.Dy())
		for y := 0; y < bm.H; y++ {
			gy := pb.Min.Y + y
			if gy >= g.origH {
				break
			}
			for x := 0; x < bm.W; x++ {
				gx := pb.Min.X + x
				if gx >= g.origW {
					break
				}
				if gray.GrayAt(gx, gy).Y >= 128 {
					bm.Set(x, y, true)
				}
			}
		}
		if err := p.SetMask(bm); err != nil {
			return err
		}
	}
	return nil
}

// SaveMask writes the combined mask as a PNG file.
func (g *Grid) SaveMask(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mask file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, g.MaskImage()); err != nil {
		return fmt.Errorf("encode mask: %w", err)
	}
	return nil
}

// LoadMask reads a saved mask image and applies it to the patches.
func (g *Grid) LoadMask(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mask: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode mask %s: %w", path, err)
	}
	return g.ApplyMaskImage(img)
}
