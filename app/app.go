package app

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "modernc.org/tk9.0"

	"github.com/soocke/rootmark-go/config"
	"github.com/soocke/rootmark-go/debug"
	"github.com/soocke/rootmark-go/domain/markup"
	"github.com/soocke/rootmark-go/ui/theme"
	"github.com/soocke/rootmark-go/ui/view"
)

const tick = 100 * time.Millisecond

type app struct {
	c         *AppContainer
	cfgPath   string
	imagePath string
	afterID   string
}

// NewApp configures the Tk root window and wraps the container.
func NewApp(title string, width, height int, c *AppContainer, cfgPath, imagePath string) *app {
	a := &app{c: c, cfgPath: cfgPath, imagePath: imagePath}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the view, wires presenters, loads the requested image and
// enters the Tk event loop.
func (a *app) Start() {
	theme.InitStyles()

	a.c.RootView.Build(a.c.Edit.Tools(), view.RootHandlers{
		OnTool:      a.c.Edit.Activate,
		OnClick:     a.c.Edit.Click,
		OnDragStart: func() { a.c.Edit.StartDrag() },
		OnDrag:      a.c.Edit.Drag,
		OnDragEnd:   a.c.Edit.EndDrag,
		OnAdjust:    a.c.Edit.Adjust,
		OnSaveMask:  a.saveMask,
		OnLoadMask:  a.loadMask,
		OnNavigate:  a.navigateTo,
		OnApplied:   func(cfg *config.Config) { a.c.Edit.ApplyConfig(cfg) },
		OnExit:      a.exitHandler,
	})

	a.c.WirePresenters(a.scheduleUpdate)
	a.c.RootView.Preview.SetOnOpen(a.c.PreviewPresenter.Invalidate)

	// Parameter edits only make sense against a loaded image.
	a.c.RootView.SetConfigEditable(false)
	if a.imagePath != "" {
		a.loadImage(a.imagePath)
	}

	if a.c.Config.Debug {
		debug.StartGoroutineLogger(2*time.Second, a.c.Logger)
		debug.StartMemLogger(2*time.Second, a.c.Logger)
	}

	a.scheduleUpdate()
	App.Wait()
}

func (a *app) scheduleUpdate() {
	// TclAfter keeps ticks on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.c.Events.Close()
	if err := a.c.Config.Save(a.cfgPath); err != nil {
		a.c.Logger.Error("config save on exit failed", "error", err)
	}
	Destroy(App)
}

// loadImage divides the image into patches and starts the editing session.
// A previously exported mask next to the image is picked up automatically.
func (a *app) loadImage(path string) {
	grid, err := markup.LoadGrid(path, a.c.Config.PatchesPerSide)
	if err != nil {
		a.c.Logger.Error("image load failed", "path", path, "error", err)
		a.c.UI.SetStatusLabel(fmt.Sprintf("Load failed: %v", err))
		if a.c.Edit.Grid() == nil {
			a.c.RootView.Canvas.Reset()
		}
		return
	}
	a.imagePath = path
	a.c.Config.LastLoadDir = filepath.Dir(path)
	a.c.Cache.Purge()
	a.c.Edit.SetGrid(grid)
	a.c.Markup.SetLoaded(true)
	a.c.RootView.SetConfigEditable(true)
	a.c.Logger.Info("image loaded", "path", path, "patches", grid.Len())

	if mp := a.maskPath(); mp != "" {
		if _, err := os.Stat(mp); err == nil {
			if err := grid.LoadMask(mp); err != nil {
				a.c.Logger.Warn("saved mask load failed", "path", mp, "error", err)
			} else {
				a.c.Logger.Info("saved mask restored", "path", mp)
				a.c.Markup.Refresh()
				a.c.PreviewPresenter.Invalidate()
			}
		}
	}
}

func (a *app) saveMask() {
	g := a.c.Edit.Grid()
	if g == nil {
		return
	}
	mp := a.maskPath()
	if mp == "" {
		return
	}
	if err := g.SaveMask(mp); err != nil {
		a.c.Logger.Error("mask save failed", "path", mp, "error", err)
		return
	}
	a.c.Config.LastSaveDir = filepath.Dir(mp)
	a.c.Markup.MarkSaved()
	a.c.Markup.Refresh()
	a.c.Logger.Info("mask saved", "path", mp)
}

func (a *app) loadMask() {
	g := a.c.Edit.Grid()
	if g == nil {
		return
	}
	mp := a.maskPath()
	if mp == "" {
		return
	}
	if err := g.LoadMask(mp); err != nil {
		a.c.Logger.Error("mask load failed", "path", mp, "error", err)
		return
	}
	a.c.Cache.Purge()
	a.c.Markup.Refresh()
	a.c.PreviewPresenter.Invalidate()
	a.c.Logger.Info("mask loaded", "path", mp)
}

func (a *app) navigateTo(pt image.Point) {
	g := a.c.Edit.Grid()
	if g == nil {
		return
	}
	if i := g.PatchAt(pt); i != markup.NoPatch {
		a.c.Edit.NavigateTo(i)
	}
}

// maskPath derives the mask file path from the loaded image: image.png gets
// image_mask.png, in the autosave directory when one is configured.
func (a *app) maskPath() string {
	if a.imagePath == "" {
		return ""
	}
	base := filepath.Base(a.imagePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + "_mask.png"
	dir := filepath.Dir(a.imagePath)
	if a.c.Config.AutosaveDir != "" {
		dir = a.c.Config.AutosaveDir
	}
	return filepath.Join(dir, name)
}
