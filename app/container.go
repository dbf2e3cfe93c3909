package app

import (
	"log/slog"

	"github.com/soocke/rootmark-go/config"
	"github.com/soocke/rootmark-go/domain/markup"
	"github.com/soocke/rootmark-go/eventlog"
	"github.com/soocke/rootmark-go/ui/images"
	"github.com/soocke/rootmark-go/ui/model"
	"github.com/soocke/rootmark-go/ui/presenter"
	"github.com/soocke/rootmark-go/ui/view"
)

// AppContainer assembles models, the editing session, presenters and the root view.
type AppContainer struct {
	Config   *config.Config
	Logger   *slog.Logger
	Events   *eventlog.Logger
	Markup   *model.MarkupModel
	Session  *model.SessionModel
	Edit     *markup.Session
	Cache    *images.RenderCache
	RootView *view.RootView
	UI       view.UI

	// Presenters, wired after the view is built.
	MarkupPresenter  *presenter.MarkupPresenter
	PreviewPresenter *presenter.PreviewPresenter
	SessionPresenter *presenter.SessionPresenter
	Loop             *presenter.Loop
}

// BuildContainer constructs the non-widget components. The view widgets and
// presenters are wired by the app once the Tk root exists.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string) *AppContainer {
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Events = eventlog.New(logger)
	c.Markup = model.NewMarkupModel()
	c.Session = model.NewSessionModel()
	c.Edit = markup.NewSession(cfg, c.Events)
	c.Cache = images.NewRenderCache(4 * cfg.PatchesPerSide)
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView
	return c
}

// WirePresenters creates the presenters against the built view and starts the
// update loop chain.
func (c *AppContainer) WirePresenters(schedule func()) {
	c.MarkupPresenter = presenter.NewMarkupPresenter(c.Edit, c.Markup, c.Cache, c.UI)
	c.PreviewPresenter = presenter.NewPreviewPresenter(c.Edit, c.Markup, c.UI, c.Config.PreviewDebounce())
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Markup, c.UI)
	c.Loop = presenter.NewLoop(c.MarkupPresenter, c.PreviewPresenter, c.SessionPresenter, schedule)
}
