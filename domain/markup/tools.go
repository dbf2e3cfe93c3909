package markup

import (
	"image"
	"log/slog"

	"github.com/soocke/rootmark-go/domain/history"
	"github.com/soocke/rootmark-go/eventlog"
)

// Tool is one user action mode. Each variant implements only the hooks it
// needs; the embedded base provides no-op defaults for the rest.
//
// Markup tools (threshold, brushes, floods) stay active after use and react
// to OnClick/OnDrag/OnAdjust. One-shot tools (navigation, no-root, undo,
// redo) perform their whole action in OnActivate and the session then
// restores the previously active tool.
type Tool interface {
	ID() ToolID
	Name() string
	Shortcut() string
	Group() string
	Persistent() bool

	// BindPatch points the tool at the patch currently on display. Tools
	// never own the patch.
	BindPatch(p *Patch)
	// BindGrid points navigation tools at the active patch collection.
	BindGrid(g *Grid)
	// SetHistory swaps in the undo manager for the displayed patch.
	SetHistory(h *history.Manager[*Patch])
	// BindTo registers a zero-argument observer invoked after any mutation.
	BindTo(cb func())

	OnClick(pos image.Point)
	OnDrag(pos image.Point, dragID string)
	OnAdjust(direction int)
	OnActivate(currentIndex int)
}

// toolBase carries the shared identity fields and plumbing for all tools.
type toolBase struct {
	id         ToolID
	name       string
	shortcut   string
	group      string
	persistent bool

	patch     *Patch
	grid      *Grid
	hist      *history.Manager[*Patch]
	events    *eventlog.Logger
	observers []func()

	// dispatch runs expensive fills off the interactive path. Tests replace
	// it with a synchronous variant.
	dispatch func(func())
}

func newToolBase(id ToolID, name, shortcut, group string, persistent bool, hist *history.Manager[*Patch], events *eventlog.Logger) toolBase {
	return toolBase{
		id:         id,
		name:       name,
		shortcut:   shortcut,
		group:      group,
		persistent: persistent,
		hist:       hist,
		events:     events,
		dispatch:   func(f func()) { go f() },
	}
}

func (t *toolBase) ID() ToolID       { return t.id }
func (t *toolBase) Name() string     { return t.name }
func (t *toolBase) Shortcut() string { return t.shortcut }
func (t *toolBase) Group() string    { return t.group }
func (t *toolBase) Persistent() bool { return t.persistent }

func (t *toolBase) BindPatch(p *Patch)                    { t.patch = p }
func (t *toolBase) BindGrid(g *Grid)                      { t.grid = g }
func (t *toolBase) SetHistory(h *history.Manager[*Patch]) { t.hist = h }
func (t *toolBase) BindTo(cb func())                      { t.observers = append(t.observers, cb) }

func (t *toolBase) OnClick(pos image.Point)               {}
func (t *toolBase) OnDrag(pos image.Point, dragID string) {}
func (t *toolBase) OnAdjust(direction int)                {}
func (t *toolBase) OnActivate(currentIndex int)           {}

func (t *toolBase) notify() {
	for _, cb := range t.observers {
		cb()
	}
}

func (t *toolBase) logEvent(typ string, attrs ...slog.Attr) {
	if t.patch == nil {
		return
	}
	row, col := t.patch.GridPos()
	t.events.Log(typ, row, col, attrs...)
}

func (t *toolBase) push(tag string) {
	if t.hist == nil || t.patch == nil {
		return
	}
	t.hist.Push(t.patch.Clone(), tag)
}

// NavFunc receives the destination of a navigation action, or (nil, NoPatch)
// when no further patch exists.
type NavFunc func(p *Patch, index int)

// RestoreFunc receives a snapshot popped from the undo or redo stack; the
// receiver installs it as the live patch.
type RestoreFunc func(p *Patch, tag string)

// --- Threshold -------------------------------------------------------------

// ThresholdTool recomputes the patch mask from its pixel data at an
// adjustable threshold. A run of adjustments shares a single undo entry:
// the pre-run state is pushed on the first adjustment after the tool is
// (re)bound, and later nudges refine in place.
type ThresholdTool struct {
	toolBase
	threshold float64
	increment float64
	armed     bool
}

func NewThresholdTool(hist *history.Manager[*Patch], events *eventlog.Logger, increment float64) *ThresholdTool {
	if increment <= 0 {
		increment = 0.01
	}
	return &ThresholdTool{
		toolBase:  newToolBase(ToolThreshold, "Threshold Tool", "t", GroupMarkup, true, hist, events),
		increment: increment,
	}
}

func (t *ThresholdTool) BindPatch(p *Patch) {
	t.toolBase.BindPatch(p)
	t.armed = false
	if p != nil {
		t.threshold = p.Threshold()
	}
}

// Threshold returns the tool's current threshold value.
func (t *ThresholdTool) Threshold() float64 { return t.threshold }

// SetIncrement changes the per-adjust step; non-positive values are ignored.
func (t *ThresholdTool) SetIncrement(v float64) {
	if v > 0 {
		t.increment = v
	}
}

// SetThreshold applies a threshold directly, e.g. from a slider. Out-of-range
// values are ignored without mutation or notification.
func (t *ThresholdTool) SetThreshold(v float64) {
	if v < 0 || v > 1 || t.patch == nil {
		return
	}
	if !t.armed {
		t.push(TagThresholdAdjust)
		t.armed = true
	}
	if err := t.patch.SetThreshold(v); err != nil {
		return
	}
	t.threshold = v
	t.logEvent("threshold_change", slog.Float64("threshold", v))
	t.notify()
}

// OnAdjust nudges the threshold. Direction is inverted: growing the marked
// region is the intuitive "up", which means lowering the threshold.
func (t *ThresholdTool) OnAdjust(direction int) {
	if direction < 0 {
		t.SetThreshold(t.threshold + t.increment)
	} else {
		t.SetThreshold(t.threshold - t.increment)
	}
}

// --- Brushes ---------------------------------------------------------------

// brushTool is the shared implementation of the add and remove paint brushes.
type brushTool struct {
	toolBase
	radius         int
	clickTag       string
	dragTag        string
	paint          func(p *Patch, pos image.Point, radius int) error
	brushObservers []func(int)
}

// Radius returns the current brush radius in pixels.
func (t *brushTool) Radius() int { return t.radius }

// SetRadius sets the brush radius; negative values are rejected silently.
func (t *brushTool) SetRadius(r int) {
	if r < 0 {
		return
	}
	t.radius = r
	for _, cb := range t.brushObservers {
		cb(t.radius)
	}
	t.logEvent("brush_size_change", slog.Int("brush_radius", t.radius))
}

// BindBrush subscribes to brush radius changes (cursor display).
func (t *brushTool) BindBrush(cb func(int)) { t.brushObservers = append(t.brushObservers, cb) }

func (t *brushTool) OnAdjust(direction int) {
	if direction > 0 {
		t.SetRadius(t.radius + 1)
	} else {
		t.SetRadius(t.radius - 1)
	}
}

// OnClick performs one discrete paint edit, snapshotting first.
func (t *brushTool) OnClick(pos image.Point) {
	if t.patch == nil {
		return
	}
	t.push(t.clickTag)
	t.draw(pos)
}

// OnDrag pushes one snapshot per drag step, tagged with the gesture id so a
// shell can coalesce the stroke visually, then dispatches the fill to a
// background worker so dragging stays responsive. Snapshots are pushed
// synchronously in event order even when fills complete out of order.
func (t *brushTool) OnDrag(pos image.Point, dragID string) {
	if t.patch == nil {
		return
	}
	tag := t.dragTag
	if dragID != "" {
		tag += "_" + dragID
	}
	t.push(tag)
	patch := t.patch
	t.dispatch(func() { t.drawOn(patch, pos) })
}

func (t *brushTool) OnActivate(currentIndex int) {
	for _, cb := range t.brushObservers {
		cb(t.radius)
	}
}

func (t *brushTool) draw(pos image.Point) { t.drawOn(t.patch, pos) }

func (t *brushTool) drawOn(p *Patch, pos image.Point) {
	if p == nil {
		return
	}
	if err := t.paint(p, pos, t.radius); err != nil {
		return
	}
	t.logEvent(t.clickTag, slog.Int("x", pos.X), slog.Int("y", pos.Y), slog.Int("brush_radius", t.radius))
	t.notify()
}

// AddRegionTool paints foreground into the mask.
type AddRegionTool struct{ brushTool }

func NewAddRegionTool(hist *history.Manager[*Patch], events *eventlog.Logger, radius int) *AddRegionTool {
	if radius < 0 {
		radius = 15
	}
	return &AddRegionTool{brushTool{
		toolBase: newToolBase(ToolAddRegion, "Add Region Tool", "a", GroupMarkup, true, hist, events),
		radius:   radius,
		clickTag: TagAddRegion,
		dragTag:  TagAddRegionDrag,
		paint: func(p *Patch, pos image.Point, r int) error {
			return p.AddRegion(pos, r)
		},
	}}
}

// RemoveRegionTool erases foreground from the mask.
type RemoveRegionTool struct{ brushTool }

func NewRemoveRegionTool(hist *history.Manager[*Patch], events *eventlog.Logger, radius int) *RemoveRegionTool {
	if radius < 0 {
		radius = 15
	}
	return &RemoveRegionTool{brushTool{
		toolBase: newToolBase(ToolRemoveRegion, "Remove Region Tool", "r", GroupMarkup, true, hist, events),
		radius:   radius,
		clickTag: TagRemoveRegion,
		dragTag:  TagRemoveRegionDrag,
		paint: func(p *Patch, pos image.Point, r int) error {
			return p.RemoveRegion(pos, r)
		},
	}}
}

// --- Floods ----------------------------------------------------------------

// floodTool shares the flood add/remove behavior. The initial click snapshots
// and fills; subsequent tolerance adjustments re-run the fill from the same
// seed without pushing new undo entries, so one undo reverts the whole
// adjusted fill.
type floodTool struct {
	toolBase
	tolerance float64
	increment float64
	prevSeed  *image.Point
	tag       string
	fill      func(p *Patch, seed image.Point, tol float64) error
}

// Tolerance returns the current flood tolerance.
func (t *floodTool) Tolerance() float64 { return t.tolerance }

// SetTolerance replaces the tolerance; negative values are ignored.
func (t *floodTool) SetTolerance(v float64) {
	if v >= 0 {
		t.tolerance = v
	}
}

// SetIncrement changes the per-adjust step; non-positive values are ignored.
func (t *floodTool) SetIncrement(v float64) {
	if v > 0 {
		t.increment = v
	}
}

func (t *floodTool) BindPatch(p *Patch) {
	t.toolBase.BindPatch(p)
	t.prevSeed = nil
}

func (t *floodTool) OnClick(pos image.Point) {
	if t.patch == nil {
		return
	}
	seed := pos
	t.prevSeed = &seed
	t.push(t.tag)
	t.apply(pos)
}

// OnAdjust changes the tolerance and refines the previous fill in place.
// No new undo entry: the click already captured the before state.
func (t *floodTool) OnAdjust(direction int) {
	next := t.tolerance
	if direction > 0 {
		next += t.increment
	} else {
		next -= t.increment
	}
	if next < 0 {
		return
	}
	t.tolerance = next
	t.logEvent("flood_tolerance_change", slog.Float64("tolerance", t.tolerance))
	if t.prevSeed != nil {
		t.apply(*t.prevSeed)
	}
}

func (t *floodTool) apply(seed image.Point) {
	if t.patch == nil {
		return
	}
	if err := t.fill(t.patch, seed, t.tolerance); err != nil {
		return
	}
	t.logEvent(t.tag, slog.Int("x", seed.X), slog.Int("y", seed.Y), slog.Float64("tolerance", t.tolerance))
	t.notify()
}

// FloodAddTool grows a foreground region from the clicked seed.
type FloodAddTool struct{ floodTool }

func NewFloodAddTool(hist *history.Manager[*Patch], events *eventlog.Logger, tolerance, increment float64) *FloodAddTool {
	if tolerance < 0 {
		tolerance = 0.05
	}
	if increment <= 0 {
		increment = 0.01
	}
	return &FloodAddTool{floodTool{
		toolBase:  newToolBase(ToolFloodAdd, "Flood Add Tool", "f", GroupMarkup, true, hist, events),
		tolerance: tolerance,
		increment: increment,
		tag:       TagFloodAdd,
		fill: func(p *Patch, seed image.Point, tol float64) error {
			return p.FloodAddRegion(seed, tol)
		},
	}}
}

// FloodRemoveTool clears a region grown from the clicked seed.
type FloodRemoveTool struct{ floodTool }

func NewFloodRemoveTool(hist *history.Manager[*Patch], events *eventlog.Logger, tolerance, increment float64) *FloodRemoveTool {
	if tolerance < 0 {
		tolerance = 0.05
	}
	if increment <= 0 {
		increment = 0.01
	}
	return &FloodRemoveTool{floodTool{
		toolBase:  newToolBase(ToolFloodRemove, "Flood Remove Tool", "l", GroupMarkup, true, hist, events),
		tolerance: tolerance,
		increment: increment,
		tag:       TagFloodRemove,
		fill: func(p *Patch, seed image.Point, tol float64) error {
			return p.FloodRemoveRegion(seed, tol)
		},
	}}
}

// --- One-shot tools --------------------------------------------------------

// NoRootTool marks the whole patch as background and advances to the next
// patch in one action.
type NoRootTool struct {
	toolBase
	nav NavFunc
}

func NewNoRootTool(hist *history.Manager[*Patch], events *eventlog.Logger, nav NavFunc) *NoRootTool {
	return &NoRootTool{
		toolBase: newToolBase(ToolNoRoot, "No Root Tool", "x", GroupNavigation, false, hist, events),
		nav:      nav,
	}
}

func (t *NoRootTool) OnActivate(currentIndex int) {
	if t.patch == nil {
		return
	}
	t.push(TagNoRoot)
	t.patch.ClearMask()
	t.logEvent(TagNoRoot)
	t.notify()
	if t.grid == nil || t.nav == nil {
		return
	}
	p, idx := t.grid.Next(currentIndex)
	t.nav(p, idx)
}

// PreviousPatchTool moves to the previous patch; at index 0 it reports
// (nil, NoPatch) and the session no-ops.
type PreviousPatchTool struct {
	toolBase
	nav NavFunc
}

func NewPreviousPatchTool(events *eventlog.Logger, nav NavFunc) *PreviousPatchTool {
	return &PreviousPatchTool{
		toolBase: newToolBase(ToolPreviousPatch, "Previous Patch", "Left", GroupNavigation, false, nil, events),
		nav:      nav,
	}
}

func (t *PreviousPatchTool) OnActivate(currentIndex int) {
	if t.grid == nil || t.nav == nil {
		return
	}
	t.logEvent("previous_patch")
	p, idx := t.grid.Prev(currentIndex)
	t.nav(p, idx)
}

// NextPatchTool moves to the next patch; at the last index it reports
// (nil, NoPatch).
type NextPatchTool struct {
	toolBase
	nav NavFunc
}

func NewNextPatchTool(events *eventlog.Logger, nav NavFunc) *NextPatchTool {
	return &NextPatchTool{
		toolBase: newToolBase(ToolNextPatch, "Next Patch", "Right", GroupNavigation, false, nil, events),
		nav:      nav,
	}
}

func (t *NextPatchTool) OnActivate(currentIndex int) {
	if t.grid == nil || t.nav == nil {
		return
	}
	t.logEvent("next_patch")
	p, idx := t.grid.Next(currentIndex)
	t.nav(p, idx)
}

// UndoTool pops the undo stack. The live patch state moves to the redo stack
// inside the manager; the restore callback installs the popped snapshot.
type UndoTool struct {
	toolBase
	restore RestoreFunc
}

func NewUndoTool(hist *history.Manager[*Patch], events *eventlog.Logger, restore RestoreFunc) *UndoTool {
	return &UndoTool{
		toolBase: newToolBase(ToolUndo, "Undo", "Ctrl+z", GroupHistory, false, hist, events),
		restore:  restore,
	}
}

func (t *UndoTool) OnActivate(currentIndex int) {
	if t.hist == nil || t.patch == nil || t.restore == nil {
		return
	}
	snap, tag, ok := t.hist.Undo(t.patch.Clone())
	if !ok {
		return
	}
	t.logEvent("undo", slog.String("tag", tag))
	t.restore(snap, tag)
	t.notify()
}

// RedoTool pops the redo stack, symmetric to UndoTool.
type RedoTool struct {
	toolBase
	restore RestoreFunc
}

func NewRedoTool(hist *history.Manager[*Patch], events *eventlog.Logger, restore RestoreFunc) *RedoTool {
	return &RedoTool{
		toolBase: newToolBase(ToolRedo, "Redo", "Ctrl+r", GroupHistory, false, hist, events),
		restore:  restore,
	}
}

func (t *RedoTool) OnActivate(currentIndex int) {
	if t.hist == nil || t.patch == nil || t.restore == nil {
		return
	}
	snap, tag, ok := t.hist.Redo(t.patch.Clone())
	if !ok {
		return
	}
	t.logEvent("redo", slog.String("tag", tag))
	t.restore(snap, tag)
	t.notify()
}
