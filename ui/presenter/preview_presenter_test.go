package presenter

import (
	"image"
	"testing"
	"time"

	"github.com/soocke/rootmark-go/ui/model"
)

type fakePreviewView struct {
	visible bool
	img     image.Image
	updates int
}

func (v *fakePreviewView) Visible() bool                { return v.visible }
func (v *fakePreviewView) UpdatePreview(img image.Image) { v.img = img; v.updates++ }

func TestPreviewPresenter_DebouncesRedraw(t *testing.T) {
	sess := testSessionWithGrid(t, 8, 8, 2)
	m := model.NewMarkupModel()
	view := &fakePreviewView{visible: true}
	p := NewPreviewPresenter(sess, m, view, time.Second)

	now := time.Unix(100, 0)
	m.MarkEdited(now)
	p.Invalidate()

	p.Tick(now.Add(200 * time.Millisecond))
	if view.updates != 0 {
		t.Fatal("redrew inside the quiet period")
	}
	p.Tick(now.Add(time.Second))
	if view.updates != 1 || view.img == nil {
		t.Fatalf("updates = %d, want 1 after quiet period", view.updates)
	}
	b := view.img.Bounds()
	if b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("sheet is %dx%d, want 8x8", b.Dx(), b.Dy())
	}

	// No new edits: no further redraws.
	p.Tick(now.Add(2 * time.Second))
	if view.updates != 1 {
		t.Error("redrew without invalidation")
	}
}

func TestPreviewPresenter_SkipsHiddenWindow(t *testing.T) {
	sess := testSessionWithGrid(t, 8, 8, 2)
	m := model.NewMarkupModel()
	view := &fakePreviewView{visible: false}
	p := NewPreviewPresenter(sess, m, view, time.Second)

	p.Invalidate()
	p.Tick(time.Unix(200, 0))
	if view.updates != 0 {
		t.Fatal("redrew while hidden")
	}

	// Once visible, the pending invalidation is honored.
	view.visible = true
	p.Tick(time.Unix(201, 0))
	if view.updates != 1 {
		t.Fatal("pending invalidation lost while hidden")
	}
}

func TestPreviewPresenter_SessionEditsInvalidate(t *testing.T) {
	sess := testSessionWithGrid(t, 8, 8, 2)
	m := model.NewMarkupModel()
	view := &fakePreviewView{visible: true}
	p := NewPreviewPresenter(sess, m, view, time.Second)

	// SetGrid happened before wiring; simulate an edit notification.
	sess.NavigateTo(1)
	if !p.stale.Load() {
		t.Fatal("session notification did not invalidate")
	}
}

func TestSessionPresenter_FormatsDurations(t *testing.T) {
	sm := model.NewSessionModel()
	mm := model.NewMarkupModel()
	var gotSession, gotTotal time.Duration
	view := sessionViewFunc(func(s, total time.Duration) { gotSession, gotTotal = s, total })
	p := NewSessionPresenter(sm, mm, view)

	base := time.Unix(0, 0)
	mm.SetLoaded(true)
	p.Tick(base)
	p.Tick(base.Add(5 * time.Second))
	if gotSession != 5*time.Second || gotTotal != 5*time.Second {
		t.Fatalf("session=%v total=%v, want 5s/5s", gotSession, gotTotal)
	}
}

type sessionViewFunc func(session, total time.Duration)

func (f sessionViewFunc) SetSession(s, t time.Duration) { f(s, t) }

func TestLoop_TicksAllAndReschedules(t *testing.T) {
	scheduled := 0
	l := NewLoop(nil, nil, nil, func() { scheduled++ })
	l.Tick()
	if scheduled != 1 {
		t.Fatal("scheduler not invoked")
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
