package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/spritepreview/config"
	"github.com/milk9111/spritepreview/editor"
	"github.com/milk9111/spritepreview/preview"
	"github.com/milk9111/spritepreview/skin"
	"github.com/milk9111/spritepreview/sprite"
	"github.com/milk9111/spritepreview/workspace"
)

// saveEvery is how many ticks pass between flushes of dirty settings.
const saveEvery = editor.TicksPerSecond

// Session wires the workspace, the preview window and the settings store
// together. Both the interactive editor and the scenario runner drive one.
type Session struct {
	Workspace *workspace.Workspace
	Preview   *preview.Window
	Config    *config.Store
	Theme     *skin.Theme

	watcher *config.Watcher
	ticks   int
}

func NewSession(cfg *config.Store, theme *skin.Theme, layout workspace.Layout) *Session {
	ws := workspace.New(layout)
	win := preview.NewWindow(ws, cfg, theme)
	ws.OnActiveChanged(win.OnPrimaryEditorChanged)
	return &Session{
		Workspace: ws,
		Preview:   win,
		Config:    cfg,
		Theme:     theme,
	}
}

// Watch reloads the settings file whenever it changes on disk. It is a no-op
// for stores without a backing file.
func (s *Session) Watch() error {
	if s.Config.Path() == "" || s.watcher != nil {
		return nil
	}
	// the directory is watched, so it must exist before the first save
	if err := os.MkdirAll(filepath.Dir(s.Config.Path()), 0755); err != nil {
		return fmt.Errorf("app: watch %s: %w", s.Config.Path(), err)
	}
	w, err := config.NewWatcher(s.Config.Path())
	if err != nil {
		return err
	}
	s.watcher = w
	return nil
}

// OpenSample opens one of the embedded sample sprites.
func (s *Session) OpenSample(name string) (*editor.Editor, error) {
	doc, err := sprite.LoadSample(name)
	if err != nil {
		return nil, err
	}
	return s.Workspace.Open(doc), nil
}

// OpenFile opens a sprite file from disk.
func (s *Session) OpenFile(path string) (*editor.Editor, error) {
	doc, err := sprite.Load(path)
	if err != nil {
		return nil, err
	}
	return s.Workspace.Open(doc), nil
}

// Update runs one tick: settings reloads, then every editor including the
// preview's own.
func (s *Session) Update() {
	s.ticks++
	if s.watcher != nil {
		reloaded, err := s.watcher.Drain(s.Config)
		if err != nil {
			log.Printf("config: reload %s: %v", s.Config.Path(), err)
		}
		if reloaded {
			s.Reloaded()
		}
	}
	s.Workspace.Update()
	s.Preview.Update()
	if s.ticks%saveEvery == 0 && s.Config.Dirty() {
		if err := s.Config.Save(); err != nil {
			log.Printf("config: %v", err)
		}
	}
}

// SetTheme swaps the skin used by the preview window.
func (s *Session) SetTheme(theme *skin.Theme) {
	s.Theme = theme
	s.Preview.SetTheme(theme)
}

// Reloaded applies freshly loaded settings.
func (s *Session) Reloaded() {
	s.Preview.ReloadSettings()
}

// Close tears the preview down, stops watching and flushes settings.
func (s *Session) Close() error {
	s.Preview.Close()
	var errs []error
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("app: close watcher: %w", err))
		}
		s.watcher = nil
	}
	if err := s.Config.Save(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
