package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/rootmark-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ToolPanel encapsulates the tool parameter form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ToolPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

// ToolPanelApplied is invoked after a successful apply so the session can
// pick up the new parameters.
type ToolPanelApplied func(cfg *config.Config)

type toolPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applied  ToolPanelApplied
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by internal field id
}

// NewToolPanel creates the view bound to cfg.
func NewToolPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, applied ToolPanelApplied) ToolPanel {
	return &toolPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, applied: applied, widgets: make(map[string]*TextWidget)}
}

func (v *toolPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("brushRadius", "Brush Radius Px", fmt.Sprintf("%d", c.BrushRadius))
	makeRow("thresholdIncrement", "Threshold Increment", fmt.Sprintf("%.3f", c.ThresholdIncrement))
	makeRow("floodTolerance", "Flood Tolerance", fmt.Sprintf("%.3f", c.FloodTolerance))
	makeRow("floodIncrement", "Flood Increment", fmt.Sprintf("%.3f", c.FloodIncrement))
	makeRow("previewDebounceMs", "Preview Delay Ms", fmt.Sprintf("%d", c.PreviewDebounceMs))
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *toolPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *toolPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *toolPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignFloat := func(id string, dst *float64) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if f, ok := parseFloatField(strings.TrimSpace(v.text(w))); ok {
			*dst = f
		}
	}
	assignInt := func(id string, dst *int) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if i, ok := parseIntField(strings.TrimSpace(v.text(w))); ok {
			*dst = i
		}
	}
	assignInt("brushRadius", &cfg.BrushRadius)
	assignFloat("thresholdIncrement", &cfg.ThresholdIncrement)
	assignFloat("floodTolerance", &cfg.FloodTolerance)
	assignFloat("floodIncrement", &cfg.FloodIncrement)
	assignInt("previewDebounceMs", &cfg.PreviewDebounceMs)
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
	if v.applied != nil {
		v.applied(v.cfg)
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
