package sprite

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrNoFrames = errors.New("sprite: no frames")
	ErrNoLayers = errors.New("sprite: no layers")
	ErrBadSize  = errors.New("sprite: width and height must be positive")
)

// DefaultFrameDuration is used for frames without an explicit duration, in
// milliseconds.
const DefaultFrameDuration = 100

// Frame is a zero-based frame index.
type Frame int

// Layer is one stacked image plane of a sprite.
type Layer struct {
	Name   string `yaml:"name"`
	Hidden bool   `yaml:"hidden"`
}

// Cel is the image of one layer at one frame. Rows are palette keys, one rune
// per pixel. A linked cel reuses the rows of the cel at Link on the same layer.
type Cel struct {
	Layer int      `yaml:"layer"`
	Frame Frame    `yaml:"frame"`
	X     int      `yaml:"x"`
	Y     int      `yaml:"y"`
	Rows  []string `yaml:"rows,omitempty"`
	Link  *Frame   `yaml:"link,omitempty"`
}

// Sprite is the editable image: layers x frames plus the frame tags that
// group frames into animations.
type Sprite struct {
	Width     int               `yaml:"width"`
	Height    int               `yaml:"height"`
	Layers    []Layer           `yaml:"layers"`
	Durations []int             `yaml:"durations"`
	Tags      []FrameTag        `yaml:"tags,omitempty"`
	Palette   map[string]string `yaml:"palette,omitempty"`
	Cels      []Cel             `yaml:"cels,omitempty"`
}

func (s *Sprite) FrameCount() int {
	if s == nil {
		return 0
	}
	return len(s.Durations)
}

func (s *Sprite) LastFrame() Frame {
	return Frame(s.FrameCount() - 1)
}

// ClampFrame limits f to the sprite's frame range.
func (s *Sprite) ClampFrame(f Frame) Frame {
	if f < 0 || s.FrameCount() == 0 {
		return 0
	}
	if last := s.LastFrame(); f > last {
		return last
	}
	return f
}

// FrameDuration returns the duration of frame f in milliseconds.
func (s *Sprite) FrameDuration(f Frame) int {
	if s == nil || f < 0 || int(f) >= len(s.Durations) {
		return DefaultFrameDuration
	}
	if d := s.Durations[f]; d > 0 {
		return d
	}
	return DefaultFrameDuration
}

func (s *Sprite) ClampLayer(l int) int {
	if s == nil || l < 0 || len(s.Layers) == 0 {
		return 0
	}
	if l >= len(s.Layers) {
		return len(s.Layers) - 1
	}
	return l
}

// Cel returns the cel for layer/frame with links resolved, or nil.
func (s *Sprite) Cel(layer int, frame Frame) *Cel {
	c := s.rawCel(layer, frame)
	if c == nil || c.Link == nil {
		return c
	}
	src := s.rawCel(layer, *c.Link)
	if src == nil || src.Link != nil {
		return nil
	}
	resolved := *c
	resolved.Rows = src.Rows
	resolved.Link = nil
	return &resolved
}

func (s *Sprite) rawCel(layer int, frame Frame) *Cel {
	if s == nil {
		return nil
	}
	for i := range s.Cels {
		if s.Cels[i].Layer == layer && s.Cels[i].Frame == frame {
			return &s.Cels[i]
		}
	}
	return nil
}

// Validate checks the structural invariants Parse relies on.
func (s *Sprite) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return ErrBadSize
	}
	if len(s.Layers) == 0 {
		return ErrNoLayers
	}
	if len(s.Durations) == 0 {
		return ErrNoFrames
	}
	for i, t := range s.Tags {
		if t.From < 0 || t.To > s.LastFrame() || t.From > t.To {
			return fmt.Errorf("sprite: tag %d (%q) range %d-%d outside 0-%d", i, t.Name, t.From, t.To, s.LastFrame())
		}
		if !t.Direction.valid() {
			return fmt.Errorf("sprite: tag %q: unknown direction %q", t.Name, t.Direction)
		}
	}
	for key := range s.Palette {
		if len([]rune(key)) != 1 {
			return fmt.Errorf("sprite: palette key %q must be a single character", key)
		}
	}
	for i, c := range s.Cels {
		if c.Layer < 0 || c.Layer >= len(s.Layers) {
			return fmt.Errorf("sprite: cel %d: layer %d out of range", i, c.Layer)
		}
		if c.Frame < 0 || c.Frame > s.LastFrame() {
			return fmt.Errorf("sprite: cel %d: frame %d out of range", i, c.Frame)
		}
		if c.Link != nil {
			if *c.Link == c.Frame {
				return fmt.Errorf("sprite: cel %d links to itself", i)
			}
			src := s.rawCel(c.Layer, *c.Link)
			if src == nil {
				return fmt.Errorf("sprite: cel %d: link to missing frame %d", i, *c.Link)
			}
			if src.Link != nil {
				return fmt.Errorf("sprite: cel %d: link to linked cel at frame %d", i, *c.Link)
			}
		}
	}
	return nil
}

// DocumentID identifies an open document for the lifetime of the process.
type DocumentID uint64

var nextDocumentID atomic.Uint64

// Document is an open sprite file.
type Document struct {
	ID     DocumentID
	Name   string
	Path   string
	Sprite *Sprite
}

func NewDocument(name string, s *Sprite) *Document {
	return &Document{
		ID:     DocumentID(nextDocumentID.Add(1)),
		Name:   name,
		Sprite: s,
	}
}
