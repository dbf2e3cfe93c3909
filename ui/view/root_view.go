package view

import (
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/rootmark-go/config"
	"github.com/soocke/rootmark-go/domain/markup"
	"github.com/soocke/rootmark-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	patchDisplayWidth = 512
	contextThumbSize  = 192
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session   SessionStats
	ToolPanel ToolPanel
	Canvas    PatchCanvas
	Preview   *PreviewWindow

	// Widgets
	StatusLabel  *LabelWidget
	ToolLabel    *LabelWidget
	ContextLabel *LabelWidget

	ctxPhoto *Img
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetPatchImage(img image.Image)
	SetContextImage(img image.Image)
	SetStatusLabel(text string)
	SetToolLabel(text string)
	SetSession(session, total time.Duration)
	Visible() bool
	UpdatePreview(img image.Image)
}

// RootHandlers are invoked on user actions.
type RootHandlers struct {
	OnTool      func(id markup.ToolID)
	OnClick     func(pos image.Point)
	OnDragStart func()
	OnDrag      func(pos image.Point)
	OnDragEnd   func()
	OnAdjust    func(direction int)
	OnSaveMask  func()
	OnLoadMask  func()
	OnNavigate  func(pt image.Point)
	OnApplied   ToolPanelApplied
	OnExit      func()
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout: toolbar column, patch canvas, status labels
// and the parameter form. tools come in registration order, grouped by their
// Group for the toolbar.
func (rv *RootView) Build(tools []markup.Tool, handlers RootHandlers) {
	if rv == nil {
		return
	}

	// Row 0: status labels and session stats
	rv.StatusLabel = Label(Txt("No image loaded"), Borderwidth(1), Relief("ridge"))
	Grid(rv.StatusLabel, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.ToolLabel = Label(Txt(""), Borderwidth(1), Relief("ridge"))
	Grid(rv.ToolLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.Session = NewSessionStats(nil, 0, 3)

	// Toolbar: one column of buttons, grouped with heading labels.
	toolbar := Frame()
	Grid(toolbar, Row(1), Column(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	row := 0
	lastGroup := ""
	for _, t := range tools {
		if t.Group() != lastGroup {
			lastGroup = t.Group()
			heading := Label(Txt(lastGroup), Anchor("w"))
			Grid(heading, In(toolbar), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.3m"))
			row++
		}
		id := t.ID()
		btn := Button(Txt(t.Name()), Command(func() {
			if handlers.OnTool != nil {
				handlers.OnTool(id)
			}
		}))
		Grid(btn, In(toolbar), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.1m"))
		row++
		rv.bindShortcut(t.Shortcut(), func() {
			if handlers.OnTool != nil {
				handlers.OnTool(id)
			}
		})
	}
	saveBtn := Button(Txt("Save Mask"), Command(func() {
		if handlers.OnSaveMask != nil {
			handlers.OnSaveMask()
		}
	}))
	Grid(saveBtn, In(toolbar), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.3m"))
	row++
	loadBtn := Button(Txt("Load Mask"), Command(func() {
		if handlers.OnLoadMask != nil {
			handlers.OnLoadMask()
		}
	}))
	Grid(loadBtn, In(toolbar), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.1m"))
	row++
	previewBtn := Button(Txt("Preview"), Command(func() { rv.Preview.OpenOrFocus() }))
	Grid(previewBtn, In(toolbar), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.1m"))
	row++
	exitBtn := Button(Txt("Exit"), Command(func() {
		if handlers.OnExit != nil {
			handlers.OnExit()
		}
	}))
	Grid(exitBtn, In(toolbar), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.3m"))

	// Patch canvas
	rv.Canvas = NewPatchCanvas(1, patchDisplayWidth, CanvasHandlers{
		OnClick:     handlers.OnClick,
		OnDragStart: handlers.OnDragStart,
		OnDrag:      handlers.OnDrag,
		OnDragEnd:   handlers.OnDragEnd,
	})

	// Parameter adjustment keys
	if handlers.OnAdjust != nil {
		Bind(App, "<Up>", Command(func() { handlers.OnAdjust(1) }))
		Bind(App, "<Down>", Command(func() { handlers.OnAdjust(-1) }))
		Bind(App, "<plus>", Command(func() { handlers.OnAdjust(1) }))
		Bind(App, "<minus>", Command(func() { handlers.OnAdjust(-1) }))
	}

	// Context thumbnail below the toolbar, patch plus its surroundings.
	rv.ContextLabel = Label(Borderwidth(1), Relief("sunken"))
	Grid(rv.ContextLabel, Row(2), Column(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))

	// Tool parameter form below the canvas
	rv.ToolPanel = NewToolPanel(rv.cfg, rv.cfgPath, rv.logger, handlers.OnApplied)
	rv.ToolPanel.Build(2)

	// Preview window (closed until requested)
	rv.Preview = NewPreviewWindow(rv.logger, handlers.OnNavigate, nil)
}

// bindShortcut maps a tool shortcut string to a Tk key binding on the root.
func (rv *RootView) bindShortcut(shortcut string, fire func()) {
	if shortcut == "" {
		return
	}
	var event string
	switch {
	case strings.HasPrefix(shortcut, "Ctrl+"):
		event = "<Control-" + strings.TrimPrefix(shortcut, "Ctrl+") + ">"
	case len(shortcut) == 1:
		event = "<Key-" + shortcut + ">"
	default:
		event = "<" + shortcut + ">"
	}
	Bind(App, event, Command(func() { fire() }))
}

// SetPatchImage updates the patch canvas.
func (rv *RootView) SetPatchImage(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.UpdatePatch(img)
	}
}

// SetContextImage swaps the context thumbnail, disposing the previous Tk
// photo like the patch canvas does.
func (rv *RootView) SetContextImage(img image.Image) {
	if rv == nil || rv.ContextLabel == nil || img == nil {
		return
	}
	scaled := images.ScaleToWidth(img, contextThumbSize)
	if rv.ctxPhoto != nil {
		rv.ctxPhoto.Delete()
	}
	rv.ctxPhoto = NewPhoto(Data(images.EncodePNG(scaled)))
	rv.ContextLabel.Configure(Image(rv.ctxPhoto))
}

// SetStatusLabel updates the patch status text.
func (rv *RootView) SetStatusLabel(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

// SetToolLabel updates the active tool text.
func (rv *RootView) SetToolLabel(text string) {
	if rv != nil && rv.ToolLabel != nil {
		rv.ToolLabel.Configure(Txt(text))
	}
}

// SetSession updates both session and total editing durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

// Visible reports whether the preview window is open.
func (rv *RootView) Visible() bool {
	if rv == nil {
		return false
	}
	return rv.Preview.Visible()
}

// UpdatePreview proxies to the preview window.
func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil {
		rv.Preview.UpdatePreview(img)
	}
}

// SetConfigEditable toggles tool panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ToolPanel != nil {
		rv.ToolPanel.SetEditable(enabled)
	}
}
