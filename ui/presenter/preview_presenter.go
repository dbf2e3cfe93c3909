package presenter

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/soocke/rootmark-go/domain/markup"
	"github.com/soocke/rootmark-go/ui/images"
	"github.com/soocke/rootmark-go/ui/model"
)

// PreviewView shows the zoomed-out context sheet in its own window.
type PreviewView interface {
	Visible() bool
	UpdatePreview(img image.Image)
}

// PreviewPresenter refreshes the whole-image preview. Rendering the full
// sheet is expensive, so refreshes are debounced: the sheet redraws only
// once no edit has happened for the configured quiet period.
type PreviewPresenter struct {
	sess     *markup.Session
	model    *model.MarkupModel
	view     PreviewView
	debounce time.Duration
	stale    atomic.Bool
}

// NewPreviewPresenter wires the presenter and registers it as a session
// observer. Non-positive debounce falls back to one second.
func NewPreviewPresenter(sess *markup.Session, m *model.MarkupModel, view PreviewView, debounce time.Duration) *PreviewPresenter {
	if debounce <= 0 {
		debounce = time.Second
	}
	p := &PreviewPresenter{sess: sess, model: m, view: view, debounce: debounce}
	if sess != nil {
		sess.BindTo(p.Invalidate)
	}
	return p
}

// Invalidate marks the sheet stale. Safe from any goroutine. The view also
// calls it when the preview window opens so it draws immediately.
func (p *PreviewPresenter) Invalidate() {
	if p == nil {
		return
	}
	p.stale.Store(true)
}

// Tick redraws the sheet when it is stale, the window is visible, and the
// quiet period has elapsed.
func (p *PreviewPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.view == nil {
		return
	}
	if !p.stale.Load() || !p.view.Visible() {
		return
	}
	if !p.model.QuietSince(now, p.debounce) {
		return
	}
	img := p.renderSheet()
	if img == nil {
		return
	}
	p.stale.Store(false)
	p.view.UpdatePreview(img)
}

func (p *PreviewPresenter) renderSheet() image.Image {
	g := p.sess.Grid()
	if g == nil {
		return nil
	}
	regions := make([]images.MaskRegion, 0, g.Len())
	for _, patch := range g.Patches() {
		regions = append(regions, images.MaskRegion{Mask: patch.MaskClone(), Bounds: patch.Bounds()})
	}
	current := image.Rectangle{}
	if patch := p.sess.CurrentPatch(); patch != nil {
		current = patch.Bounds()
	}
	w, h := g.Size()
	sheet := images.ContextSheet(g.Source(), regions, current, w, h)
	if sheet == nil {
		return nil
	}
	return sheet
}
