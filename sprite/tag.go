package sprite

// Direction controls how playback walks the frames of a tag.
type Direction string

const (
	Forward  Direction = "forward"
	Reverse  Direction = "reverse"
	PingPong Direction = "pingpong"
)

func (d Direction) valid() bool {
	switch d {
	case "", Forward, Reverse, PingPong:
		return true
	}
	return false
}

// FrameTag names an inclusive range of frames that animate together.
type FrameTag struct {
	Name      string    `yaml:"name"`
	From      Frame     `yaml:"from"`
	To        Frame     `yaml:"to"`
	Direction Direction `yaml:"direction,omitempty"`
}

func (t *FrameTag) Contains(f Frame) bool {
	return t != nil && f >= t.From && f <= t.To
}

// Len is the number of frames in the tag.
func (t *FrameTag) Len() int {
	if t == nil {
		return 0
	}
	return int(t.To-t.From) + 1
}

func (t *FrameTag) Dir() Direction {
	if t == nil || t.Direction == "" {
		return Forward
	}
	return t.Direction
}

// AnimationTag returns the tag that loops at frame f: the narrowest tag
// containing f, the first declared on ties. Nil when no tag covers f.
func (s *Sprite) AnimationTag(f Frame) *FrameTag {
	if s == nil {
		return nil
	}
	var found *FrameTag
	for i := range s.Tags {
		t := &s.Tags[i]
		if !t.Contains(f) {
			continue
		}
		if found == nil || t.Len() < found.Len() {
			found = t
		}
	}
	return found
}

// TagByName returns the first tag named name.
func (s *Sprite) TagByName(name string) *FrameTag {
	if s == nil {
		return nil
	}
	for i := range s.Tags {
		if s.Tags[i].Name == name {
			return &s.Tags[i]
		}
	}
	return nil
}
