package markup

import (
	"image"
	"log/slog"

	"github.com/google/uuid"

	"github.com/soocke/rootmark-go/config"
	"github.com/soocke/rootmark-go/domain/history"
	"github.com/soocke/rootmark-go/eventlog"
)

// Session is the editing state machine. It owns the tool set, routes input
// events to the single active tool, walks the patch grid, and parks one undo
// manager per patch so history survives navigation. All methods are called
// from the UI thread; the session itself is not goroutine safe.
type Session struct {
	cfg    *config.Config
	events *eventlog.Logger

	grid  *Grid
	index int

	tools     map[ToolID]Tool
	toolOrder []ToolID
	active    Tool

	histories map[int]*history.Manager[*Patch]

	dragID string

	observers []func()
}

// NewSession wires the full tool set. The session starts without a grid;
// input events are ignored until SetGrid.
func NewSession(cfg *config.Config, events *eventlog.Logger) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Session{
		cfg:       cfg,
		events:    events,
		index:     NoPatch,
		tools:     make(map[ToolID]Tool),
		histories: make(map[int]*history.Manager[*Patch]),
	}

	nav := NavFunc(s.navigateTo)
	restore := RestoreFunc(s.restore)

	for _, t := range []Tool{
		NewThresholdTool(nil, events, cfg.ThresholdIncrement),
		NewAddRegionTool(nil, events, cfg.BrushRadius),
		NewRemoveRegionTool(nil, events, cfg.BrushRadius),
		NewNoRootTool(nil, events, nav),
		NewFloodAddTool(nil, events, cfg.FloodTolerance, cfg.FloodIncrement),
		NewFloodRemoveTool(nil, events, cfg.FloodTolerance, cfg.FloodIncrement),
		NewPreviousPatchTool(events, nav),
		NewNextPatchTool(events, nav),
		NewUndoTool(nil, events, restore),
		NewRedoTool(nil, events, restore),
	} {
		s.tools[t.ID()] = t
		s.toolOrder = append(s.toolOrder, t.ID())
	}
	s.active = s.tools[ToolThreshold]
	return s
}

// ApplyConfig pushes updated tool parameters to the tool set, e.g. after the
// user edits the parameter form.
func (s *Session) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.cfg = cfg
	if t, ok := s.tools[ToolThreshold].(*ThresholdTool); ok {
		t.SetIncrement(cfg.ThresholdIncrement)
	}
	if t, ok := s.tools[ToolAddRegion].(*AddRegionTool); ok {
		t.SetRadius(cfg.BrushRadius)
	}
	if t, ok := s.tools[ToolRemoveRegion].(*RemoveRegionTool); ok {
		t.SetRadius(cfg.BrushRadius)
	}
	if t, ok := s.tools[ToolFloodAdd].(*FloodAddTool); ok {
		t.SetTolerance(cfg.FloodTolerance)
		t.SetIncrement(cfg.FloodIncrement)
	}
	if t, ok := s.tools[ToolFloodRemove].(*FloodRemoveTool); ok {
		t.SetTolerance(cfg.FloodTolerance)
		t.SetIncrement(cfg.FloodIncrement)
	}
}

// Tools returns the tool set in registration order, for toolbar construction.
func (s *Session) Tools() []Tool {
	out := make([]Tool, 0, len(s.toolOrder))
	for _, id := range s.toolOrder {
		out = append(out, s.tools[id])
	}
	return out
}

// Tool returns the tool with the given id, or nil.
func (s *Session) Tool(id ToolID) Tool { return s.tools[id] }

// ActiveTool returns the currently active (persistent) tool.
func (s *Session) ActiveTool() Tool { return s.active }

// BindTo registers an observer invoked after navigation, restores, and any
// tool mutation.
func (s *Session) BindTo(cb func()) {
	s.observers = append(s.observers, cb)
	for _, t := range s.tools {
		t.BindTo(cb)
	}
}

// SetGrid installs a freshly loaded grid, drops all parked histories, and
// displays the first patch.
func (s *Session) SetGrid(g *Grid) {
	s.grid = g
	s.histories = make(map[int]*history.Manager[*Patch])
	for _, t := range s.tools {
		t.BindGrid(g)
	}
	if g == nil || g.Len() == 0 {
		s.index = NoPatch
		s.bindCurrent()
		return
	}
	s.navigateTo(g.Patch(0), 0)
}

// Grid returns the active grid, which may be nil before the first load.
func (s *Session) Grid() *Grid { return s.grid }

// CurrentIndex returns the displayed patch index, or NoPatch.
func (s *Session) CurrentIndex() int { return s.index }

// CurrentPatch returns the displayed patch, or nil.
func (s *Session) CurrentPatch() *Patch {
	if s.grid == nil {
		return nil
	}
	return s.grid.Patch(s.index)
}

// History returns the undo manager parked for the displayed patch, creating
// it on first use.
func (s *Session) History() *history.Manager[*Patch] {
	if s.index == NoPatch {
		return nil
	}
	return s.historyFor(s.index)
}

func (s *Session) historyFor(i int) *history.Manager[*Patch] {
	h, ok := s.histories[i]
	if !ok {
		h = history.NewManager[*Patch](s.cfg.UndoDepth)
		s.histories[i] = h
	}
	return h
}

// Activate switches to or fires the tool with the given id. Persistent tools
// become the active tool; one-shot tools act and the previously active tool
// stays in effect.
func (s *Session) Activate(id ToolID) {
	t, ok := s.tools[id]
	if !ok {
		return
	}
	if t.Persistent() {
		s.active = t
		s.events.SetActiveTool(t.Name())
		s.logEvent("tool_activate", slog.String("tool", id.String()))
		t.OnActivate(s.index)
		s.notify()
		return
	}
	s.logEvent("tool_activate", slog.String("tool", id.String()))
	t.OnActivate(s.index)
}

// Click routes a press at patch-local coordinates to the active tool.
func (s *Session) Click(pos image.Point) {
	if s.CurrentPatch() == nil {
		return
	}
	s.active.OnClick(pos)
}

// StartDrag opens a drag gesture and returns its id. Each gesture gets a
// fresh id so its undo entries are distinguishable from other strokes.
func (s *Session) StartDrag() string {
	s.dragID = uuid.NewString()
	return s.dragID
}

// Drag routes one drag step to the active tool under the open gesture id.
// Without StartDrag the step is treated as its own gesture.
func (s *Session) Drag(pos image.Point) {
	if s.CurrentPatch() == nil {
		return
	}
	s.active.OnDrag(pos, s.dragID)
}

// EndDrag closes the current gesture.
func (s *Session) EndDrag() { s.dragID = "" }

// Adjust routes a parameter nudge (mouse wheel, +/- keys) to the active tool.
func (s *Session) Adjust(direction int) {
	if s.CurrentPatch() == nil {
		return
	}
	s.active.OnAdjust(direction)
}

// NavigateTo jumps directly to patch index i, e.g. from a click on the
// context sheet. Out-of-range indices are ignored.
func (s *Session) NavigateTo(i int) {
	if s.grid == nil {
		return
	}
	p := s.grid.Patch(i)
	if p == nil {
		return
	}
	s.navigateTo(p, i)
}

// navigateTo is the shared landing point for all navigation. A nil patch
// means the edge of the grid was hit and the current patch stays.
func (s *Session) navigateTo(p *Patch, i int) {
	if p == nil || i == NoPatch {
		s.logEvent("navigation_blocked")
		return
	}
	s.index = i
	s.bindCurrent()
	s.logEvent("patch_change", slog.Int("index", i))
	s.notify()
}

// restore installs an undo/redo snapshot as the live patch and rebinds the
// tools to it.
func (s *Session) restore(p *Patch, tag string) {
	if p == nil || s.grid == nil || s.index == NoPatch {
		return
	}
	s.grid.Replace(s.index, p)
	s.bindCurrent()
}

// bindCurrent points every tool at the displayed patch and its parked
// history.
func (s *Session) bindCurrent() {
	p := s.CurrentPatch()
	var h *history.Manager[*Patch]
	if s.index != NoPatch {
		h = s.historyFor(s.index)
	}
	for _, t := range s.tools {
		t.BindPatch(p)
		t.SetHistory(h)
	}
}

func (s *Session) notify() {
	for _, cb := range s.observers {
		cb()
	}
}

func (s *Session) logEvent(typ string, attrs ...slog.Attr) {
	row, col := -1, -1
	if p := s.CurrentPatch(); p != nil {
		row, col = p.GridPos()
	}
	s.events.Log(typ, row, col, attrs...)
}
