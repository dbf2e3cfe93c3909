package view

import (
	"image"

	"github.com/soocke/rootmark-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PatchCanvas displays the current patch overlay scaled to a fixed width and
// translates pointer events back into patch-local pixel coordinates.
type PatchCanvas interface {
	UpdatePatch(img image.Image)
	Reset()
}

// CanvasHandlers receives translated pointer events. Coordinates are
// patch-local pixels.
type CanvasHandlers struct {
	OnClick     func(pos image.Point)
	OnDragStart func()
	OnDrag      func(pos image.Point)
	OnDragEnd   func()
}

type patchCanvas struct {
	label     *LabelWidget
	prevPhoto *Img // last Tk photo image instance, disposed before replace
	displayW  int
	patchW    int
	patchH    int
	handlers  CanvasHandlers
	dragging  bool
}

// NewPatchCanvas creates the canvas label, grids it and wires pointer events.
// displayW is the fixed on-screen width; patches are scaled to it.
func NewPatchCanvas(row, displayW int, handlers CanvasHandlers) PatchCanvas {
	if displayW < 64 {
		displayW = 64
	}
	placeholder := image.NewRGBA(image.Rect(0, 0, displayW, displayW))
	photo := NewPhoto(Data(images.EncodePNG(placeholder)))
	label := Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(label, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))

	v := &patchCanvas{label: label, prevPhoto: photo, displayW: displayW, handlers: handlers}

	Bind(label, "<Button-1>", Command(func(e *Event) {
		if v.handlers.OnClick != nil {
			v.handlers.OnClick(v.toPatch(e.X, e.Y))
		}
	}))
	Bind(label, "<B1-Motion>", Command(func(e *Event) {
		if !v.dragging {
			v.dragging = true
			if v.handlers.OnDragStart != nil {
				v.handlers.OnDragStart()
			}
		}
		if v.handlers.OnDrag != nil {
			v.handlers.OnDrag(v.toPatch(e.X, e.Y))
		}
	}))
	Bind(label, "<ButtonRelease-1>", Command(func(e *Event) {
		if v.dragging {
			v.dragging = false
			if v.handlers.OnDragEnd != nil {
				v.handlers.OnDragEnd()
			}
		}
	}))
	return v
}

// UpdatePatch scales the patch render to the display width and swaps the
// label photo, disposing the previous one to keep Tk image memory flat.
func (v *patchCanvas) UpdatePatch(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	b := img.Bounds()
	v.patchW, v.patchH = b.Dx(), b.Dy()
	scaled := images.ScaleToWidth(img, v.displayW)
	pngBytes := images.EncodePNG(scaled)
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}

// Reset restores the blank placeholder.
func (v *patchCanvas) Reset() {
	if v == nil || v.label == nil {
		return
	}
	placeholder := image.NewRGBA(image.Rect(0, 0, v.displayW, v.displayW))
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(images.EncodePNG(placeholder)))
	v.label.Configure(Image(v.prevPhoto))
	v.patchW, v.patchH = 0, 0
}

// toPatch maps a label coordinate back to a patch-local pixel.
func (v *patchCanvas) toPatch(x, y int) image.Point {
	if v.patchW <= 0 || v.patchH <= 0 {
		return image.Pt(x, y)
	}
	px := x * v.patchW / v.displayW
	displayH := v.displayW * v.patchH / v.patchW
	if displayH <= 0 {
		displayH = 1
	}
	py := y * v.patchH / displayH
	if px < 0 {
		px = 0
	}
	if py < 0 {
		py = 0
	}
	if px >= v.patchW {
		px = v.patchW - 1
	}
	if py >= v.patchH {
		py = v.patchH - 1
	}
	return image.Pt(px, py)
}
