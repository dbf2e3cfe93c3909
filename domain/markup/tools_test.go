package markup

import (
	"image"
	"testing"

	"github.com/soocke/rootmark-go/domain/history"
)

func newTestHistory() *history.Manager[*Patch] {
	return history.NewManager[*Patch](history.DefaultLimit)
}

// syncDispatch makes background fills run inline for deterministic tests.
func syncDispatch(tb *toolBase) {
	tb.dispatch = func(f func()) { f() }
}

func TestThresholdToolAdjustDirectionIsInverted(t *testing.T) {
	p := singlePatch(t, grayImg(4, 4, bimodal(4)))
	tool := NewThresholdTool(newTestHistory(), nil, 0.01)
	tool.BindPatch(p)
	start := tool.Threshold()

	tool.OnAdjust(1)
	if tool.Threshold() >= start {
		t.Errorf("adjust up raised the threshold: %v -> %v", start, tool.Threshold())
	}
	tool.OnAdjust(-1)
	if d := tool.Threshold() - start; d > 1e-9 || d < -1e-9 {
		t.Errorf("adjust down did not restore: %v != %v", tool.Threshold(), start)
	}
}

func TestThresholdToolSingleUndoEntryPerRun(t *testing.T) {
	p := singlePatch(t, grayImg(4, 4, bimodal(4)))
	h := newTestHistory()
	tool := NewThresholdTool(h, nil, 0.01)
	tool.BindPatch(p)
	before := p.Clone()

	for i := 0; i < 5; i++ {
		tool.OnAdjust(1)
	}
	if tag, ok := h.PeekTag(); !ok || tag != TagThresholdAdjust {
		t.Fatalf("PeekTag = (%q, %v)", tag, ok)
	}
	snap, _, ok := h.Undo(p.Clone())
	if !ok {
		t.Fatal("nothing to undo")
	}
	if !snap.StateEqual(before) {
		t.Error("single undo did not revert the whole adjust run")
	}
	if h.CanUndo() {
		t.Error("run produced more than one undo entry")
	}

	// Rebinding re-arms: the next run gets its own entry.
	tool.BindPatch(p)
	tool.OnAdjust(1)
	if !h.CanUndo() {
		t.Error("new run after rebind pushed no entry")
	}
}

func TestThresholdToolRejectsOutOfRangeSilently(t *testing.T) {
	p := singlePatch(t, grayImg(4, 4, bimodal(4)))
	h := newTestHistory()
	tool := NewThresholdTool(h, nil, 0.01)
	tool.BindPatch(p)

	tool.SetThreshold(1.5)
	tool.SetThreshold(-0.2)
	if h.CanUndo() {
		t.Error("rejected value pushed an undo entry")
	}
	if tool.Threshold() != p.Threshold() {
		t.Error("rejected value changed the tool threshold")
	}
}

func TestBrushClickPushesThenPaints(t *testing.T) {
	p := singlePatch(t, grayImg(6, 6, func(x, y int) uint8 { return 0 }))
	h := newTestHistory()
	tool := NewAddRegionTool(h, nil, 1)
	tool.BindPatch(p)

	tool.OnClick(image.Pt(3, 3))
	if p.Mask().Count() == 0 {
		t.Fatal("click painted nothing")
	}
	snap, tag, ok := h.Undo(p.Clone())
	if !ok || tag != TagAddRegion {
		t.Fatalf("Undo = (_, %q, %v)", tag, ok)
	}
	if snap.Mask().Count() != 0 {
		t.Error("snapshot was taken after the edit")
	}
}

func TestBrushDragPushesPerStepWithGestureTag(t *testing.T) {
	p := singlePatch(t, grayImg(8, 8, func(x, y int) uint8 { return 0 }))
	h := newTestHistory()
	tool := NewAddRegionTool(h, nil, 0)
	tool.BindPatch(p)
	syncDispatch(&tool.toolBase)

	tool.OnDrag(image.Pt(1, 1), "g1")
	tool.OnDrag(image.Pt(2, 2), "g1")
	if got := p.Mask().Count(); got != 2 {
		t.Fatalf("drag painted %d cells, want 2", got)
	}
	tag, ok := h.PeekTag()
	if !ok || tag != TagAddRegionDrag+"_g1" {
		t.Fatalf("PeekTag = (%q, %v)", tag, ok)
	}
	// One entry per step.
	if _, _, ok := h.Undo(p.Clone()); !ok {
		t.Fatal("missing first entry")
	}
	if _, _, ok := h.Undo(p.Clone()); !ok {
		t.Fatal("missing second entry")
	}
	if h.CanUndo() {
		t.Error("extra undo entries pushed")
	}
}

func TestBrushAdjustChangesRadiusWithFloorZero(t *testing.T) {
	tool := NewRemoveRegionTool(newTestHistory(), nil, 1)
	tool.OnAdjust(1)
	if tool.Radius() != 2 {
		t.Errorf("radius = %d, want 2", tool.Radius())
	}
	tool.OnAdjust(-1)
	tool.OnAdjust(-1)
	tool.OnAdjust(-1)
	if tool.Radius() != 0 {
		t.Errorf("radius = %d, want floor 0", tool.Radius())
	}
}

func TestFloodClickThenAdjustsShareOneUndoEntry(t *testing.T) {
	img := grayImg(6, 2, func(x, y int) uint8 {
		switch {
		case x < 2:
			return 50
		case x < 4:
			return 60
		default:
			return 200
		}
	})
	p := singlePatch(t, img)
	p.ClearMask()
	before := p.Clone()

	h := newTestHistory()
	tool := NewFloodAddTool(h, nil, 0.01, 0.02)
	tool.BindPatch(p)

	tool.OnClick(image.Pt(0, 0))
	if got := p.Mask().Count(); got != 4 {
		t.Fatalf("initial fill marked %d cells, want 4", got)
	}
	tool.OnAdjust(1)
	tool.OnAdjust(1)
	if got := p.Mask().Count(); got != 8 {
		t.Fatalf("adjusted fill marked %d cells, want 8", got)
	}

	snap, tag, ok := h.Undo(p.Clone())
	if !ok || tag != TagFloodAdd {
		t.Fatalf("Undo = (_, %q, %v)", tag, ok)
	}
	if !snap.StateEqual(before) {
		t.Error("single undo did not revert the click plus both adjusts")
	}
	if h.CanUndo() {
		t.Error("tolerance adjustments pushed extra entries")
	}
}

func TestFloodAdjustWithoutClickOnlyChangesTolerance(t *testing.T) {
	p := singlePatch(t, grayImg(4, 4, bimodal(4)))
	before := p.MaskClone()
	h := newTestHistory()
	tool := NewFloodRemoveTool(h, nil, 0.05, 0.01)
	tool.BindPatch(p)

	tool.OnAdjust(1)
	if !p.Mask().Equal(before) {
		t.Error("adjust without a seed mutated the mask")
	}
	if d := tool.Tolerance() - 0.06; d > 1e-9 || d < -1e-9 {
		t.Errorf("tolerance = %v, want 0.06", tool.Tolerance())
	}
	if h.CanUndo() {
		t.Error("adjust pushed an undo entry")
	}
}

func TestFloodToleranceNeverGoesNegative(t *testing.T) {
	tool := NewFloodAddTool(newTestHistory(), nil, 0.01, 0.05)
	tool.OnAdjust(-1)
	if tool.Tolerance() != 0.01 {
		t.Errorf("tolerance = %v, want unchanged 0.01", tool.Tolerance())
	}
}

func TestNoRootClearsAndAdvances(t *testing.T) {
	g, err := NewGrid(grayImg(4, 4, bimodal(4)), 2)
	if err != nil {
		t.Fatal(err)
	}
	var gotPatch *Patch
	gotIdx := -99
	h := newTestHistory()
	tool := NewNoRootTool(h, nil, func(p *Patch, i int) { gotPatch, gotIdx = p, i })
	tool.BindGrid(g)
	tool.BindPatch(g.Patch(0))

	tool.OnActivate(0)
	if g.Patch(0).Mask().Count() != 0 {
		t.Error("mask not cleared")
	}
	if g.Patch(0).Threshold() != 1 {
		t.Error("threshold not reset")
	}
	if gotIdx != 1 || gotPatch != g.Patch(1) {
		t.Errorf("advance = (%v, %d), want patch 1", gotPatch, gotIdx)
	}
	if tag, ok := h.PeekTag(); !ok || tag != TagNoRoot {
		t.Fatalf("PeekTag = (%q, %v)", tag, ok)
	}
}

func TestNavigationToolsReportSentinelAtEdges(t *testing.T) {
	g, err := NewGrid(grayImg(4, 4, bimodal(4)), 2)
	if err != nil {
		t.Fatal(err)
	}
	var gotPatch *Patch
	gotIdx := -99
	nav := func(p *Patch, i int) { gotPatch, gotIdx = p, i }

	prev := NewPreviousPatchTool(nil, nav)
	prev.BindGrid(g)
	prev.OnActivate(0)
	if gotPatch != nil || gotIdx != NoPatch {
		t.Errorf("Prev at 0 = (%v, %d), want (nil, NoPatch)", gotPatch, gotIdx)
	}

	next := NewNextPatchTool(nil, nav)
	next.BindGrid(g)
	next.OnActivate(g.Len() - 1)
	if gotPatch != nil || gotIdx != NoPatch {
		t.Errorf("Next at last = (%v, %d), want (nil, NoPatch)", gotPatch, gotIdx)
	}

	next.OnActivate(0)
	if gotIdx != 1 {
		t.Errorf("Next(0) landed at %d", gotIdx)
	}
}

func TestUndoRedoToolsRoundTrip(t *testing.T) {
	p := singlePatch(t, grayImg(6, 6, func(x, y int) uint8 { return 0 }))
	h := newTestHistory()
	brush := NewAddRegionTool(h, nil, 1)
	brush.BindPatch(p)
	brush.OnClick(image.Pt(3, 3))
	edited := p.Clone()

	live := p
	restore := func(snap *Patch, tag string) { live = snap }

	undo := NewUndoTool(h, nil, restore)
	undo.BindPatch(live)
	undo.OnActivate(0)
	if live.Mask().Count() != 0 {
		t.Fatal("undo did not restore the pre-edit mask")
	}

	redo := NewRedoTool(h, nil, restore)
	redo.BindPatch(live)
	redo.OnActivate(0)
	if !live.StateEqual(edited) {
		t.Fatal("redo did not restore the edit")
	}
}

func TestUndoToolEmptyStackIsNoOp(t *testing.T) {
	p := singlePatch(t, grayImg(4, 4, bimodal(4)))
	called := false
	tool := NewUndoTool(newTestHistory(), nil, func(*Patch, string) { called = true })
	tool.BindPatch(p)
	tool.OnActivate(0)
	if called {
		t.Error("restore called with empty undo stack")
	}
}
