package presenter

import (
	"fmt"
	"image"
	"time"

	"github.com/soocke/rootmark-go/domain/markup"
	"github.com/soocke/rootmark-go/ui/images"
	"github.com/soocke/rootmark-go/ui/model"
)

// EditorView displays the current patch render and the status labels.
type EditorView interface {
	SetPatchImage(img image.Image)
	SetContextImage(img image.Image)
	SetStatusLabel(text string)
	SetToolLabel(text string)
}

// MarkupPresenter reflects the editing session onto the view. Edits mark the
// model stale; the next Tick renders the current patch overlay (through the
// render cache) and refreshes the labels. Ticks run on the UI thread.
type MarkupPresenter struct {
	sess  *markup.Session
	model *model.MarkupModel
	cache *images.RenderCache
	view  EditorView
}

// NewMarkupPresenter wires the presenter and registers it as a session
// observer.
func NewMarkupPresenter(sess *markup.Session, m *model.MarkupModel, cache *images.RenderCache, view EditorView) *MarkupPresenter {
	p := &MarkupPresenter{sess: sess, model: m, cache: cache, view: view}
	if sess != nil {
		sess.BindTo(p.OnEdit)
	}
	return p
}

// OnEdit is invoked by the session after any mutation or navigation. It may
// run on a background fill goroutine; it only flips atomic flags.
func (p *MarkupPresenter) OnEdit() {
	if p == nil {
		return
	}
	p.model.MarkEdited(time.Now())
}

// Tick renders pending changes to the view.
func (p *MarkupPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.view == nil {
		return
	}
	if !p.model.TakePending() {
		return
	}
	patch := p.sess.CurrentPatch()
	if patch == nil {
		p.view.SetStatusLabel("No image loaded")
		return
	}
	p.view.SetPatchImage(p.render(patch))
	p.view.SetContextImage(p.renderContext(patch))
	p.view.SetStatusLabel(p.status(patch))
	p.view.SetToolLabel(p.toolInfo())
}

// renderContext crops the patch plus half a cell of surrounding pixels from
// the grid source, so the user sees where the patch sits.
func (p *MarkupPresenter) renderContext(patch *markup.Patch) image.Image {
	g := p.sess.Grid()
	if g == nil {
		return nil
	}
	cw, _ := g.CellSize()
	ctx, _, err := images.ExtractContext(g.Source(), patch.Bounds(), cw/2)
	if err != nil {
		return nil
	}
	return ctx
}

func (p *MarkupPresenter) render(patch *markup.Patch) image.Image {
	idx, rev := patch.Index(), patch.Revision()
	if img, ok := p.cache.Get(idx, rev); ok {
		return img
	}
	img := images.Overlay(patch.Pixels(), patch.MaskClone())
	p.cache.Put(idx, rev, img)
	return img
}

func (p *MarkupPresenter) status(patch *markup.Patch) string {
	row, col := patch.GridPos()
	total := 0
	if g := p.sess.Grid(); g != nil {
		total = g.Len()
	}
	s := fmt.Sprintf("Patch (%d,%d)  %d/%d", row, col, patch.Index()+1, total)
	if p.model.Dirty() {
		s += "  *unsaved"
	}
	return s
}

func (p *MarkupPresenter) toolInfo() string {
	t := p.sess.ActiveTool()
	if t == nil {
		return ""
	}
	switch v := t.(type) {
	case *markup.ThresholdTool:
		return fmt.Sprintf("%s  threshold=%.2f", v.Name(), v.Threshold())
	case *markup.AddRegionTool:
		return fmt.Sprintf("%s  radius=%d", v.Name(), v.Radius())
	case *markup.RemoveRegionTool:
		return fmt.Sprintf("%s  radius=%d", v.Name(), v.Radius())
	case *markup.FloodAddTool:
		return fmt.Sprintf("%s  tolerance=%.2f", v.Name(), v.Tolerance())
	case *markup.FloodRemoveTool:
		return fmt.Sprintf("%s  tolerance=%.2f", v.Name(), v.Tolerance())
	default:
		return t.Name()
	}
}
