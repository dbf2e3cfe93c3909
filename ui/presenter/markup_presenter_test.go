package presenter

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/soocke/rootmark-go/config"
	"github.com/soocke/rootmark-go/domain/markup"
	"github.com/soocke/rootmark-go/ui/images"
	"github.com/soocke/rootmark-go/ui/model"
)

type fakeEditorView struct {
	img     image.Image
	ctx     image.Image
	renders int
	status  string
	tool    string
}

func (v *fakeEditorView) SetPatchImage(img image.Image)   { v.img = img; v.renders++ }
func (v *fakeEditorView) SetContextImage(img image.Image) { v.ctx = img }
func (v *fakeEditorView) SetStatusLabel(s string)         { v.status = s }
func (v *fakeEditorView) SetToolLabel(s string)           { v.tool = s }

func testSessionWithGrid(t *testing.T, w, h, n int) *markup.Session {
	t.Helper()
	s := markup.NewSession(config.DefaultConfig(), nil)
	img := image.NewGray(image.Rect(0, 0, w, h))
	for x := w / 2; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	g, err := markup.NewGrid(img, n)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	s.SetGrid(g)
	return s
}

func TestMarkupPresenter_RendersOnlyWhenPending(t *testing.T) {
	sess := testSessionWithGrid(t, 8, 8, 2)
	m := model.NewMarkupModel()
	view := &fakeEditorView{}
	p := NewMarkupPresenter(sess, m, images.NewRenderCache(8), view)

	now := time.Unix(0, 0)
	p.Tick(now)
	if view.renders != 0 {
		t.Fatal("tick without pending flag rendered")
	}

	m.MarkEdited(now)
	p.Tick(now)
	if view.renders != 1 || view.img == nil {
		t.Fatalf("renders = %d, want 1 with image", view.renders)
	}
	if view.ctx == nil {
		t.Fatal("context thumbnail missing")
	}
	// 4x4 corner patch plus a 2px margin, clamped at the image edge.
	if b := view.ctx.Bounds(); b.Dx() != 6 || b.Dy() != 6 {
		t.Errorf("context is %dx%d, want 6x6", b.Dx(), b.Dy())
	}
	p.Tick(now)
	if view.renders != 1 {
		t.Fatal("render repeated without new edits")
	}
}

func TestMarkupPresenter_ObservesSessionEdits(t *testing.T) {
	sess := testSessionWithGrid(t, 8, 8, 2)
	m := model.NewMarkupModel()
	view := &fakeEditorView{}
	p := NewMarkupPresenter(sess, m, images.NewRenderCache(8), view)

	sess.Activate(markup.ToolAddRegion)
	sess.Click(image.Pt(1, 1))
	p.Tick(time.Now())
	if view.renders == 0 {
		t.Fatal("session edit did not reach the view")
	}
	if !strings.Contains(view.status, "*unsaved") {
		t.Errorf("status %q missing dirty marker", view.status)
	}
	if !strings.Contains(view.tool, "radius=") {
		t.Errorf("tool label %q missing brush radius", view.tool)
	}
}

func TestMarkupPresenter_StatusShowsPatchPosition(t *testing.T) {
	sess := testSessionWithGrid(t, 8, 8, 2)
	m := model.NewMarkupModel()
	view := &fakeEditorView{}
	p := NewMarkupPresenter(sess, m, images.NewRenderCache(8), view)

	sess.NavigateTo(3)
	p.Tick(time.Now())
	if !strings.Contains(view.status, "(1,1)") || !strings.Contains(view.status, "4/4") {
		t.Errorf("status = %q, want patch (1,1) 4/4", view.status)
	}
}

func TestMarkupPresenter_NoGridShowsPlaceholder(t *testing.T) {
	sess := markup.NewSession(config.DefaultConfig(), nil)
	m := model.NewMarkupModel()
	view := &fakeEditorView{}
	p := NewMarkupPresenter(sess, m, images.NewRenderCache(8), view)

	m.MarkEdited(time.Now())
	p.Tick(time.Now())
	if view.renders != 0 {
		t.Error("rendered without a patch")
	}
	if view.status != "No image loaded" {
		t.Errorf("status = %q", view.status)
	}
}

func TestMarkupPresenter_CacheReusesUnchangedRender(t *testing.T) {
	sess := testSessionWithGrid(t, 8, 8, 2)
	m := model.NewMarkupModel()
	view := &fakeEditorView{}
	cache := images.NewRenderCache(8)
	p := NewMarkupPresenter(sess, m, cache, view)

	m.MarkEdited(time.Now())
	p.Tick(time.Now())
	first := view.img

	// Navigate away and back without edits: same revision, cached render.
	sess.Activate(markup.ToolNextPatch)
	sess.Activate(markup.ToolPreviousPatch)
	p.Tick(time.Now())
	if view.img != first {
		t.Error("unchanged patch was re-rendered instead of cache hit")
	}
}
