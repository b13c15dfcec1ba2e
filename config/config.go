package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/milk9111/spritepreview/common"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsFS embed.FS

var (
	ErrUnknownKey = errors.New("config: unknown key")
	ErrWrongType  = errors.New("config: wrong value type")
)

// Key names one persisted setting as "section.name".
type Key string

const (
	KeyEnabled         Key = "mini_editor.enabled"
	KeyWindowBounds    Key = "mini_editor.window_bounds"
	KeyPlayOnce        Key = "preview.play_once"
	KeySpeedMultiplier Key = "preview.speed_multiplier"
)

// Keys lists every setting the store knows.
var Keys = []Key{KeyEnabled, KeyWindowBounds, KeyPlayOnce, KeySpeedMultiplier}

type MiniEditorSection struct {
	Enabled      bool         `yaml:"enabled"`
	WindowBounds *common.Rect `yaml:"window_bounds,omitempty"`
}

type PreviewSection struct {
	PlayOnce        bool    `yaml:"play_once"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
}

type Settings struct {
	MiniEditor MiniEditorSection `yaml:"mini_editor"`
	Preview    PreviewSection    `yaml:"preview"`
}

// Store holds the settings file in memory. It is not safe for concurrent use;
// the UI goroutine owns it.
type Store struct {
	path     string
	settings Settings
	// base is the settings as last read from or written to disk, and disk
	// the bytes they came from
	base  Settings
	disk  []byte
	dirty bool
}

// Defaults returns the embedded default settings.
func Defaults() (Settings, error) {
	var s Settings
	data, err := defaultsFS.ReadFile("defaults.yaml")
	if err != nil {
		return s, fmt.Errorf("config: read defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("config: unmarshal defaults: %w", err)
	}
	return s, nil
}

// NewMemory returns a store with default settings that is never written to
// disk.
func NewMemory() *Store {
	s, err := Defaults()
	if err != nil {
		panic(err.Error())
	}
	return &Store{settings: s, base: s}
}

// Load reads path over the embedded defaults. A missing file is not an error;
// Save will create it.
func Load(path string) (*Store, error) {
	st := &Store{path: path}
	data, err := st.readFile()
	if err != nil {
		return nil, err
	}
	s, err := st.parse(data)
	if err != nil {
		return nil, err
	}
	st.settings, st.base, st.disk = s, s, data
	return st, nil
}

func (st *Store) readFile() ([]byte, error) {
	data, err := os.ReadFile(st.path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, nil
	default:
		return nil, fmt.Errorf("config: read %s: %w", st.path, err)
	}
}

func (st *Store) parse(data []byte) (Settings, error) {
	s, err := Defaults()
	if err != nil {
		return s, err
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("config: unmarshal %s: %w", st.path, err)
		}
	}
	return s, nil
}

// Reload re-reads the backing file. Settings changed in memory since the last
// load or save keep their in-memory value.
func (st *Store) Reload() error {
	_, err := st.Refresh()
	return err
}

// Refresh is Reload that skips files whose bytes match what the store last
// read or wrote, so the store's own saves are not read back. It reports
// whether the file was applied.
func (st *Store) Refresh() (bool, error) {
	if st == nil || st.path == "" {
		return false, nil
	}
	data, err := st.readFile()
	if err != nil {
		return false, err
	}
	if bytes.Equal(data, st.disk) {
		return false, nil
	}
	s, err := st.parse(data)
	if err != nil {
		return false, err
	}
	st.settings = mergeSettings(st.base, st.settings, s)
	st.base, st.disk = s, data
	st.dirty = !sameSettings(st.settings, s)
	return true, nil
}

// mergeSettings starts from disk and keeps every field local changed
// relative to base.
func mergeSettings(base, local, disk Settings) Settings {
	out := disk
	if local.MiniEditor.Enabled != base.MiniEditor.Enabled {
		out.MiniEditor.Enabled = local.MiniEditor.Enabled
	}
	if !sameRect(local.MiniEditor.WindowBounds, base.MiniEditor.WindowBounds) {
		out.MiniEditor.WindowBounds = local.MiniEditor.WindowBounds
	}
	if local.Preview.PlayOnce != base.Preview.PlayOnce {
		out.Preview.PlayOnce = local.Preview.PlayOnce
	}
	if local.Preview.SpeedMultiplier != base.Preview.SpeedMultiplier {
		out.Preview.SpeedMultiplier = local.Preview.SpeedMultiplier
	}
	return out
}

func sameSettings(a, b Settings) bool {
	return a.MiniEditor.Enabled == b.MiniEditor.Enabled &&
		sameRect(a.MiniEditor.WindowBounds, b.MiniEditor.WindowBounds) &&
		a.Preview == b.Preview
}

func sameRect(a, b *common.Rect) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Save writes the settings when they changed since the last load or save.
func (st *Store) Save() error {
	if st == nil || st.path == "" || !st.dirty {
		return nil
	}
	data, err := yaml.Marshal(&st.settings)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(st.path), 0755); err != nil {
		return fmt.Errorf("config: save %s: %w", st.path, err)
	}
	if err := os.WriteFile(st.path, data, 0644); err != nil {
		return fmt.Errorf("config: save %s: %w", st.path, err)
	}
	st.base, st.disk = st.settings, data
	st.dirty = false
	return nil
}

func (st *Store) Path() string { return st.path }

func (st *Store) Settings() Settings { return st.settings }

func (st *Store) Dirty() bool { return st.dirty }

func (st *Store) PreviewEnabled() bool { return st.settings.MiniEditor.Enabled }

func (st *Store) SetPreviewEnabled(v bool) {
	if st.settings.MiniEditor.Enabled != v {
		st.settings.MiniEditor.Enabled = v
		st.dirty = true
	}
}

// WindowBounds returns the saved preview window rectangle, false when none was
// saved.
func (st *Store) WindowBounds() (common.Rect, bool) {
	r := st.settings.MiniEditor.WindowBounds
	if r == nil || r.IsEmpty() {
		return common.Rect{}, false
	}
	return *r, true
}

func (st *Store) SetWindowBounds(r common.Rect) {
	if cur := st.settings.MiniEditor.WindowBounds; cur != nil && *cur == r {
		return
	}
	st.settings.MiniEditor.WindowBounds = &r
	st.dirty = true
}

func (st *Store) PlayOnce() bool { return st.settings.Preview.PlayOnce }

func (st *Store) SetPlayOnce(v bool) {
	if st.settings.Preview.PlayOnce != v {
		st.settings.Preview.PlayOnce = v
		st.dirty = true
	}
}

// SpeedMultiplier returns the preview animation speed, 1 when unset.
func (st *Store) SpeedMultiplier() float64 {
	if m := st.settings.Preview.SpeedMultiplier; m > 0 {
		return m
	}
	return 1
}

func (st *Store) SetSpeedMultiplier(m float64) {
	if m <= 0 || st.settings.Preview.SpeedMultiplier == m {
		return
	}
	st.settings.Preview.SpeedMultiplier = m
	st.dirty = true
}

// Get returns the value stored under key.
func (st *Store) Get(key Key) (any, error) {
	switch key {
	case KeyEnabled:
		return st.PreviewEnabled(), nil
	case KeyWindowBounds:
		r, _ := st.WindowBounds()
		return r, nil
	case KeyPlayOnce:
		return st.PlayOnce(), nil
	case KeySpeedMultiplier:
		return st.SpeedMultiplier(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set stores v under key. Integers are accepted for the speed multiplier.
func (st *Store) Set(key Key, v any) error {
	switch key {
	case KeyEnabled, KeyPlayOnce:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: %s wants bool, got %T", ErrWrongType, key, v)
		}
		if key == KeyEnabled {
			st.SetPreviewEnabled(b)
		} else {
			st.SetPlayOnce(b)
		}
		return nil
	case KeyWindowBounds:
		r, ok := v.(common.Rect)
		if !ok {
			return fmt.Errorf("%w: %s wants rect, got %T", ErrWrongType, key, v)
		}
		st.SetWindowBounds(r)
		return nil
	case KeySpeedMultiplier:
		switch n := v.(type) {
		case float64:
			st.SetSpeedMultiplier(n)
		case int:
			st.SetSpeedMultiplier(float64(n))
		case int64:
			st.SetSpeedMultiplier(float64(n))
		default:
			return fmt.Errorf("%w: %s wants number, got %T", ErrWrongType, key, v)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, key)
}
