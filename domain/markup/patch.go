package markup

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/soocke/rootmark-go/imgproc"
)

// revCounter hands out globally unique patch revisions. Renders are cached by
// (index, revision), so a revision must never repeat, including across
// snapshot restores.
var revCounter atomic.Uint64

func nextRev() uint64 { return revCounter.Add(1) }

// Patch is one tile of the source image together with its editable mask.
// Pixel data is a read-only view into the parent image; the mask and
// threshold are the mutable state captured by undo snapshots. All mutating
// methods hold the patch mutex so a snapshot-then-mutate pair from one user
// action cannot interleave with another.
type Patch struct {
	mu sync.Mutex

	index    int
	row, col int
	bounds   image.Rectangle
	pixels   *image.Gray

	mask      *imgproc.Bitmap
	threshold float64
	rev       uint64

	// Re-applying a flood at the same seed (tolerance adjustment) restores
	// the pre-flood mask first so the fill refines in place.
	preFlood      *imgproc.Bitmap
	lastFloodAdd  *image.Point
	lastFloodRem  *image.Point
}

// NewPatch builds a patch over the given sub-image view. The initial
// threshold comes from Otsu's method; images with a flat histogram fall back
// to threshold 1 (empty mask).
func NewPatch(index, row, col int, bounds image.Rectangle, pixels *image.Gray) *Patch {
	p := &Patch{
		index:     index,
		row:       row,
		col:       col,
		bounds:    bounds,
		pixels:    pixels,
		mask:      imgproc.NewBitmap(bounds.Dx(), bounds.Dy()),
		threshold: 1,
		rev:       nextRev(),
	}
	if t, err := imgproc.Otsu(pixels); err == nil {
		_ = p.SetThreshold(t)
	}
	return p
}

// Index returns the ordinal position of the patch in the grid.
func (p *Patch) Index() int { return p.index }

// GridPos returns the (row, col) position of the patch in the grid.
func (p *Patch) GridPos() (row, col int) { return p.row, p.col }

// Bounds returns the patch rectangle in parent-image coordinates.
func (p *Patch) Bounds() image.Rectangle { return p.bounds }

// Pixels returns the read-only grayscale view of the patch.
func (p *Patch) Pixels() *image.Gray { return p.pixels }

// Threshold returns the current threshold in [0,1].
func (p *Patch) Threshold() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.threshold
}

// Mask returns the live mask. Callers must treat it as read-only; mutations
// go through the patch methods.
func (p *Patch) Mask() *imgproc.Bitmap {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mask
}

// MaskClone returns an independent copy of the mask.
func (p *Patch) MaskClone() *imgproc.Bitmap {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mask.Clone()
}

// Revision identifies the current mask/threshold state for render caching.
func (p *Patch) Revision() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rev
}

// SetThreshold recomputes the whole mask from the pixel data at the given
// threshold. Values outside [0,1] return ErrValueRange and leave both mask
// and threshold untouched. The recompute is not incremental: manual edits to
// the mask are discarded, so callers snapshot first.
func (p *Patch) SetThreshold(v float64) error {
	if v < 0 || v > 1 {
		return ErrValueRange
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.threshold = v
	p.mask = imgproc.ApplyThreshold(p.pixels, v)
	p.resetFloodMemoryLocked()
	p.rev = nextRev()
	return nil
}

// AddRegion sets all mask cells within radius of center (patch-local
// coordinates), clipped to the patch. Negative radii return ErrValueRange.
func (p *Patch) AddRegion(center image.Point, radius int) error {
	return p.paint(center, radius, true)
}

// RemoveRegion clears all mask cells within radius of center.
func (p *Patch) RemoveRegion(center image.Point, radius int) error {
	return p.paint(center, radius, false)
}

func (p *Patch) paint(center image.Point, radius int, value bool) error {
	if radius < 0 {
		return ErrValueRange
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pt := range imgproc.Disk(center, radius, p.mask.W, p.mask.H) {
		p.mask.Set(pt.X, pt.Y, value)
	}
	p.resetFloodMemoryLocked()
	p.rev = nextRev()
	return nil
}

// FloodAddRegion grows a region from seed under the intensity tolerance and
// merges it into the mask. Calling again with the same seed first restores
// the pre-flood mask, so adjusting the tolerance refines the same fill
// instead of stacking fills. Seeds outside the patch are a no-op.
func (p *Patch) FloodAddRegion(seed image.Point, tolerance float64) error {
	if tolerance < 0 {
		return ErrValueRange
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mask.In(seed.X, seed.Y) {
		return nil
	}
	if p.lastFloodAdd != nil && *p.lastFloodAdd == seed && p.preFlood != nil {
		p.mask = p.preFlood.Clone()
	} else {
		p.preFlood = p.mask.Clone()
	}
	region := imgproc.Flood(p.pixels, seed, tolerance)
	p.mask.Or(region)
	s := seed
	p.lastFloodAdd = &s
	p.lastFloodRem = nil
	p.rev = nextRev()
	return nil
}

// FloodRemoveRegion is the clearing counterpart of FloodAddRegion.
func (p *Patch) FloodRemoveRegion(seed image.Point, tolerance float64) error {
	if tolerance < 0 {
		return ErrValueRange
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mask.In(seed.X, seed.Y) {
		return nil
	}
	if p.lastFloodRem != nil && *p.lastFloodRem == seed && p.preFlood != nil {
		p.mask = p.preFlood.Clone()
	} else {
		p.preFlood = p.mask.Clone()
	}
	region := imgproc.Flood(p.pixels, seed, tolerance)
	p.mask.AndNot(region)
	s := seed
	p.lastFloodRem = &s
	p.lastFloodAdd = nil
	p.rev = nextRev()
	return nil
}

// ClearMask marks the whole patch as background ("no root") and resets the
// threshold to 1 so a later threshold recompute stays empty.
func (p *Patch) ClearMask() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mask.Fill(false)
	p.threshold = 1
	p.resetFloodMemoryLocked()
	p.rev = nextRev()
}

// SetMask installs a mask loaded from disk. Dimensions must match the patch.
func (p *Patch) SetMask(m *imgproc.Bitmap) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m == nil || m.W != p.mask.W || m.H != p.mask.H {
		return ErrValueRange
	}
	p.mask = m.Clone()
	p.resetFloodMemoryLocked()
	p.rev = nextRev()
	return nil
}

// Clone returns a deep snapshot of the mutable patch state. The pixel view is
// shared (read-only by contract); mask and threshold are independent copies,
// so later mutation of the live patch never reaches the snapshot. Flood
// re-apply memory is intentionally not carried over.
func (p *Patch) Clone() *Patch {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &Patch{
		index:     p.index,
		row:       p.row,
		col:       p.col,
		bounds:    p.bounds,
		pixels:    p.pixels,
		mask:      p.mask.Clone(),
		threshold: p.threshold,
		rev:       nextRev(),
	}
}

// StateEqual reports whether two patches hold the same mask and threshold.
func (p *Patch) StateEqual(o *Patch) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Threshold() == o.Threshold() && p.Mask().Equal(o.Mask())
}

func (p *Patch) resetFloodMemoryLocked() {
	p.preFlood = nil
	p.lastFloodAdd = nil
	p.lastFloodRem = nil
}
