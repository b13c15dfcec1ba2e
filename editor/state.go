package editor

import "github.com/milk9111/spritepreview/sprite"

// TicksPerSecond is the update rate Editor.Update is called at.
const TicksPerSecond = 60

// StateKind tags the concrete state an editor is in.
type StateKind int

const (
	StateNone StateKind = iota
	StateNavigating
	StatePlaying
)

func (k StateKind) String() string {
	switch k {
	case StateNavigating:
		return "navigating"
	case StatePlaying:
		return "playing"
	default:
		return "none"
	}
}

// State is one node of the editor state machine. Each state owns its
// enter/exit and per-tick logic.
type State interface {
	Kind() StateKind
	Enter(e *Editor)
	Exit(e *Editor)
	// Update advances the state by ms milliseconds of wall time.
	Update(e *Editor, ms float64)
}

func kindOf(s State) StateKind {
	if s == nil {
		return StateNone
	}
	return s.Kind()
}

// NavigateState is the idle state: scrolling and zooming only, no animation.
type NavigateState struct{}

func NewNavigateState() *NavigateState { return &NavigateState{} }

func (*NavigateState) Kind() StateKind { return StateNavigating }
func (*NavigateState) Enter(e *Editor) {}
func (*NavigateState) Exit(e *Editor) {}
func (*NavigateState) Update(e *Editor, ms float64) {}

// PlayState animates the editor through the tag active at the frame playback
// started on, or the whole sprite when no tag covers it.
type PlayState struct {
	playOnce bool

	tag      *sprite.FrameTag
	from, to sprite.Frame
	dir      sprite.Direction
	backward bool
	elapsed  float64
}

func NewPlayState(playOnce bool) *PlayState {
	return &PlayState{playOnce: playOnce}
}

func (*PlayState) Kind() StateKind { return StatePlaying }

func (p *PlayState) PlayOnce() bool { return p != nil && p.playOnce }

// Tag returns the tag being looped, nil when the whole sprite plays.
func (p *PlayState) Tag() *sprite.FrameTag {
	if p == nil {
		return nil
	}
	return p.tag
}

func (p *PlayState) Enter(e *Editor) {
	s := e.Sprite()
	p.tag = s.AnimationTag(e.frame)
	p.elapsed = 0
	if p.tag != nil {
		p.from, p.to, p.dir = p.tag.From, p.tag.To, p.tag.Dir()
	} else {
		p.from, p.to, p.dir = 0, s.LastFrame(), sprite.Forward
	}
	p.backward = p.dir == sprite.Reverse
}

func (p *PlayState) Exit(e *Editor) {}

// Update advances playback by ms scaled by the editor's speed multiplier.
func (p *PlayState) Update(e *Editor, ms float64) {
	s := e.Sprite()
	if s == nil || s.FrameCount() == 0 {
		e.Stop()
		return
	}
	p.elapsed += ms * e.speed
	for {
		dur := float64(s.FrameDuration(e.frame))
		if p.elapsed < dur {
			return
		}
		p.elapsed -= dur

		next, wrapped := p.next(e.frame)
		if wrapped && p.playOnce {
			e.Stop()
			return
		}
		e.frame = next
	}
}

// next returns the frame after cur and whether the step completed a pass over
// the range.
func (p *PlayState) next(cur sprite.Frame) (sprite.Frame, bool) {
	switch p.dir {
	case sprite.Reverse:
		if cur-1 < p.from {
			return p.to, true
		}
		return cur - 1, false
	case sprite.PingPong:
		if p.from == p.to {
			return cur, true
		}
		if !p.backward {
			if cur+1 > p.to {
				p.backward = true
				return cur - 1, false
			}
			return cur + 1, false
		}
		if cur-1 < p.from {
			p.backward = false
			return cur + 1, true
		}
		return cur - 1, false
	default:
		if cur+1 > p.to {
			return p.from, true
		}
		return cur + 1, false
	}
}
