package view

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/rootmark-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	previewMaxW = 800
	previewMaxH = 600
)

// PreviewWindow shows the zoomed-out context sheet in a separate toplevel.
// Clicking a location jumps the editor to the patch under the cursor.
type PreviewWindow struct {
	logger    *slog.Logger
	win       *ToplevelWidget
	label     *LabelWidget
	prevPhoto *Img

	// Source dimensions of the last sheet, for mapping clicks back to
	// original image coordinates.
	srcW, srcH   int
	dispW, dispH int

	onNavigate func(pt image.Point)
	onOpen     func()
}

// NewPreviewWindow returns a closed preview window. onNavigate receives
// clicks in original-image coordinates; onOpen fires when the window is
// (re)opened so the sheet can be drawn immediately.
func NewPreviewWindow(logger *slog.Logger, onNavigate func(pt image.Point), onOpen func()) *PreviewWindow {
	return &PreviewWindow{logger: logger, onNavigate: onNavigate, onOpen: onOpen}
}

// SetOnOpen installs the open callback. The presenters are wired after the
// view is built, so this cannot be a constructor argument.
func (v *PreviewWindow) SetOnOpen(fn func()) {
	if v != nil {
		v.onOpen = fn
	}
}

// OpenOrFocus opens the window, or raises it when already open.
func (v *PreviewWindow) OpenOrFocus() {
	if v == nil {
		return
	}
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2))
	win.WmTitle("Image Preview")
	v.win = win
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+120+120", previewMaxW+20, previewMaxH+20))
	WmAttributes(win.Window, "-topmost", 1)
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.close)

	placeholder := image.NewRGBA(image.Rect(0, 0, previewMaxW, previewMaxH))
	v.prevPhoto = NewPhoto(Data(images.EncodePNG(placeholder)))
	v.label = win.Label(Image(v.prevPhoto), Borderwidth(1), Relief("sunken"))
	Grid(v.label, Row(0), Column(0), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))

	Bind(v.label, "<Button-1>", Command(func(e *Event) {
		if v.onNavigate == nil || v.srcW <= 0 || v.dispW <= 0 {
			return
		}
		x := e.X * v.srcW / v.dispW
		y := e.Y * v.srcH / v.dispH
		v.onNavigate(image.Pt(x, y))
	}))
	Bind(win, "<Escape>", Command(v.close))

	if v.onOpen != nil {
		v.onOpen()
	}
}

// Visible reports whether the window is open.
func (v *PreviewWindow) Visible() bool { return v != nil && v.win != nil }

// UpdatePreview scales and displays the context sheet.
func (v *PreviewWindow) UpdatePreview(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	b := img.Bounds()
	v.srcW, v.srcH = b.Dx(), b.Dy()
	scaled := images.ScaleToFit(img, previewMaxW, previewMaxH)
	sb := scaled.Bounds()
	v.dispW, v.dispH = sb.Dx(), sb.Dy()
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(images.EncodePNG(scaled)))
	v.label.Configure(Image(v.prevPhoto))
}

func (v *PreviewWindow) close() {
	if v == nil || v.win == nil {
		return
	}
	Destroy(v.win)
	v.win = nil
	v.label = nil
	v.prevPhoto = nil
}
