package app

import (
	"path/filepath"
	"testing"

	"github.com/soocke/rootmark-go/config"
)

func TestMaskPathDerivation(t *testing.T) {
	a := &app{c: &AppContainer{Config: config.DefaultConfig()}}
	if got := a.maskPath(); got != "" {
		t.Fatalf("maskPath without image = %q, want empty", got)
	}

	a.imagePath = filepath.Join("data", "root_scan.tiff")
	want := filepath.Join("data", "root_scan_mask.png")
	if got := a.maskPath(); got != want {
		t.Fatalf("maskPath = %q, want %q", got, want)
	}

	a.c.Config.AutosaveDir = filepath.Join("var", "autosave")
	want = filepath.Join("var", "autosave", "root_scan_mask.png")
	if got := a.maskPath(); got != want {
		t.Fatalf("maskPath with autosave dir = %q, want %q", got, want)
	}
}
