package skin

import (
	"embed"
	"fmt"
	"os"

	"github.com/milk9111/spritepreview/common"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var skinFS embed.FS

// PartID names one themed bitmap.
type PartID string

const (
	WindowCloseNormal   PartID = "window_close_button_normal"
	WindowCloseHot      PartID = "window_close_button_hot"
	WindowCloseSelected PartID = "window_close_button_selected"

	WindowPlayNormal   PartID = "window_play_button_normal"
	WindowPlayHot      PartID = "window_play_button_hot"
	WindowPlaySelected PartID = "window_play_button_selected"

	WindowStopNormal   PartID = "window_stop_button_normal"
	WindowStopHot      PartID = "window_stop_button_hot"
	WindowStopSelected PartID = "window_stop_button_selected"

	WindowCenterNormal   PartID = "window_center_button_normal"
	WindowCenterHot      PartID = "window_center_button_hot"
	WindowCenterSelected PartID = "window_center_button_selected"
)

// PartSet is the normal/hot/selected triple a button draws from.
type PartSet struct {
	Normal   PartID
	Hot      PartID
	Selected PartID
}

var (
	ClosePartSet  = PartSet{WindowCloseNormal, WindowCloseHot, WindowCloseSelected}
	PlayPartSet   = PartSet{WindowPlayNormal, WindowPlayHot, WindowPlaySelected}
	StopPartSet   = PartSet{WindowStopNormal, WindowStopHot, WindowStopSelected}
	CenterPartSet = PartSet{WindowCenterNormal, WindowCenterHot, WindowCenterSelected}
)

// Pick returns the part for the given interaction state.
func (ps PartSet) Pick(hot, selected bool) PartID {
	switch {
	case selected:
		return ps.Selected
	case hot:
		return ps.Hot
	default:
		return ps.Normal
	}
}

// Glyph is the procedural shape a part is drawn with.
type Glyph string

const (
	GlyphCross  Glyph = "cross"
	GlyphPlay   Glyph = "play"
	GlyphStop   Glyph = "stop"
	GlyphCenter Glyph = "center"
)

type Part struct {
	W     int    `yaml:"w"`
	H     int    `yaml:"h"`
	Glyph Glyph  `yaml:"glyph"`
	Color string `yaml:"color"`
}

// Theme holds part metrics in unscaled pixels plus the GUI scale.
type Theme struct {
	Name           string          `yaml:"name"`
	Scale          int             `yaml:"scale"`
	MiniScrollbar  int             `yaml:"mini_scrollbar_size"`
	TitleBarHeight int             `yaml:"title_bar_height"`
	Parts          map[PartID]Part `yaml:"parts"`
}

// Default loads the embedded theme.
func Default() *Theme {
	data, err := skinFS.ReadFile("default.yaml")
	if err != nil {
		panic("skin: read default.yaml: " + err.Error())
	}
	t, err := Parse(data)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// Load reads a theme file from disk.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("skin: load %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Theme, error) {
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("skin: unmarshal: %w", err)
	}
	if t.Scale <= 0 {
		t.Scale = 1
	}
	for _, set := range []PartSet{ClosePartSet, PlayPartSet, StopPartSet, CenterPartSet} {
		for _, id := range []PartID{set.Normal, set.Hot, set.Selected} {
			if _, ok := t.Parts[id]; !ok {
				return nil, fmt.Errorf("skin: missing part %s", id)
			}
		}
	}
	return &t, nil
}

// GUIScale is the integer multiplier applied to every themed metric.
func (t *Theme) GUIScale() int {
	if t == nil || t.Scale <= 0 {
		return 1
	}
	return t.Scale
}

// Size returns the on-screen size of a part.
func (t *Theme) Size(id PartID) common.Size {
	if t == nil {
		return common.Size{}
	}
	p := t.Parts[id]
	s := t.GUIScale()
	return common.Size{W: p.W * s, H: p.H * s}
}

func (t *Theme) Part(id PartID) (Part, bool) {
	if t == nil {
		return Part{}, false
	}
	p, ok := t.Parts[id]
	return p, ok
}

func (t *Theme) MiniScrollbarSize() int {
	if t == nil {
		return 0
	}
	return t.MiniScrollbar * t.GUIScale()
}

func (t *Theme) TitleBar() int {
	if t == nil {
		return 0
	}
	return t.TitleBarHeight * t.GUIScale()
}
