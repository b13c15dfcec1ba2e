package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/config"
	"github.com/milk9111/spritepreview/skin"
	"github.com/milk9111/spritepreview/workspace"
)

var testLayout = workspace.Layout{
	Display:         common.Size{W: 640, H: 480},
	ToolbarWidth:    120,
	StatusBarHeight: 16,
}

func TestSessionMirrorsSample(t *testing.T) {
	s := NewSession(config.NewMemory(), skin.Default(), testLayout)
	ed, err := s.OpenSample("walker")
	if err != nil {
		t.Fatalf("OpenSample: %v", err)
	}
	s.Workspace.SetFrame(4)

	dv := s.Preview.DocView()
	if dv == nil || dv.Document() != ed.Document() || dv.Editor().Frame() != 4 {
		t.Fatalf("preview not mirroring the sample")
	}
	for range 10 {
		s.Update()
	}
	if dv.Editor().Frame() != 4 {
		t.Fatalf("static preview advanced to %d", dv.Editor().Frame())
	}
}

func TestOpenSampleUnknown(t *testing.T) {
	s := NewSession(config.NewMemory(), skin.Default(), testLayout)
	if _, err := s.OpenSample("nope"); err == nil {
		t.Fatalf("expected error")
	}
	if s.Preview.Visible() {
		t.Fatalf("preview opened without a document")
	}
}

func TestCloseFlushesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := NewSession(cfg, skin.Default(), testLayout)
	if _, err := s.OpenSample("blink"); err != nil {
		t.Fatalf("OpenSample: %v", err)
	}
	moved := common.NewRect(10, 10, 160, 120)
	s.Preview.OnResize(moved)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	again, err := config.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got, ok := again.WindowBounds(); !ok || got != moved {
		t.Fatalf("saved bounds = %v ok=%v", got, ok)
	}
	if !again.PreviewEnabled() {
		t.Fatalf("enabled flag lost")
	}
}

func TestReloadedDisablesPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := NewSession(cfg, skin.Default(), testLayout)
	if _, err := s.OpenSample("walker"); err != nil {
		t.Fatalf("OpenSample: %v", err)
	}

	data := []byte("mini_editor:\n  enabled: false\npreview:\n  speed_multiplier: 2\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	s.Reloaded()

	if s.Preview.Enabled() || s.Preview.Visible() || s.Preview.DocView() != nil {
		t.Fatalf("preview still enabled after reload")
	}
	if s.Preview.Speed() != 2 {
		t.Fatalf("speed = %v", s.Preview.Speed())
	}
}

func TestWatchCreatesSettingsDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pixeled")
	cfg, err := config.Load(filepath.Join(dir, "settings.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := NewSession(cfg, skin.Default(), testLayout)
	if err := s.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer s.Close()
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("settings dir not created: %v", err)
	}
}

func TestAutosaveDoesNotRevertDisable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := NewSession(cfg, skin.Default(), testLayout)
	if err := s.Watch(); err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer s.Close()
	if _, err := s.OpenSample("walker"); err != nil {
		t.Fatalf("OpenSample: %v", err)
	}

	cfg.SetSpeedMultiplier(2)
	for range saveEvery {
		s.Update()
	}
	if cfg.Dirty() {
		t.Fatalf("autosave did not run")
	}

	// the watcher reports the autosave after the user already turned the
	// preview off
	s.Preview.SetEnabled(false)
	time.Sleep(200 * time.Millisecond)
	s.Update()

	if s.Preview.Enabled() || s.Preview.Visible() || s.Preview.DocView() != nil {
		t.Fatalf("disable reverted: enabled=%v visible=%v", s.Preview.Enabled(), s.Preview.Visible())
	}
	if cfg.PreviewEnabled() {
		t.Fatalf("store enabled flag reverted")
	}
}
