package preview

import (
	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/skin"
)

type MessageKind int

const (
	MsgMouseDown MessageKind = iota
	MsgMouseUp
	MsgMouseMove
	MsgSetCursor
)

type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
)

// Message is one input event routed to a decorative control. Pos is in
// screen coordinates.
type Message struct {
	Kind   MessageKind
	Button MouseButton
	Pos    common.Point
}

type Cursor int

const (
	CursorNone Cursor = iota
	CursorArrow
	CursorMove
	CursorResize
)

// DecorativeControl is a button drawn on a window's border rather than in its
// client area. It positions itself from the window bounds.
type DecorativeControl interface {
	SetDecorativeBounds(window common.Rect)
	Bounds() common.Rect
	Parts() skin.PartSet
	// Part is the part to draw for the current hot/selected state.
	Part() skin.PartID
	HandleMessage(msg Message) bool
	Cursor() Cursor
}

// buttonBase tracks the hot/selected/capture state shared by every
// decorative button.
type buttonBase struct {
	theme    *skin.Theme
	bounds   common.Rect
	hot      bool
	selected bool
	captured bool
	capBtn   MouseButton
}

func (b *buttonBase) Bounds() common.Rect { return b.bounds }

func (b *buttonBase) Selected() bool { return b.selected }

func (b *buttonBase) SetSelected(v bool) { b.selected = v }

func (b *buttonBase) Captured() bool { return b.captured }

func (b *buttonBase) Cursor() Cursor { return CursorArrow }

func (b *buttonBase) scale() int { return b.theme.GUIScale() }

// closeWidth is the width of the window's close box, the anchor every other
// decorative button is laid out from.
func (b *buttonBase) closeWidth() int {
	return b.theme.Size(skin.WindowCloseNormal).W
}

func (b *buttonBase) place(window common.Rect, x int, size common.Size) {
	b.bounds = common.Rect{X: x, Y: window.Y + 3*b.scale(), W: size.W, H: size.H}
}

// track updates hot from a mouse position and reports whether it is inside.
func (b *buttonBase) track(p common.Point) bool {
	in := b.bounds.Contains(p)
	b.hot = in
	return in
}

// CloseButton is the window's close box.
type CloseButton struct {
	buttonBase
	OnClick func()
}

func NewCloseButton(theme *skin.Theme) *CloseButton {
	return &CloseButton{buttonBase: buttonBase{theme: theme}}
}

func (c *CloseButton) SetDecorativeBounds(window common.Rect) {
	size := c.theme.Size(skin.WindowCloseNormal)
	c.place(window, window.X2()-3*c.scale()-size.W, size)
}

func (c *CloseButton) Parts() skin.PartSet { return skin.ClosePartSet }

func (c *CloseButton) Part() skin.PartID { return c.Parts().Pick(c.hot, c.selected) }

func (c *CloseButton) HandleMessage(msg Message) bool {
	return c.handlePress(msg, func() {
		c.selected = false
		if c.OnClick != nil {
			c.OnClick()
		}
	})
}

// handlePress implements push-button behaviour for the left button: selected
// while pressed inside, click on release inside.
func (b *buttonBase) handlePress(msg Message, click func()) bool {
	switch msg.Kind {
	case MsgMouseDown:
		if msg.Button != ButtonLeft || !b.track(msg.Pos) {
			return false
		}
		b.captured, b.capBtn = true, ButtonLeft
		b.selected = true
		return true
	case MsgMouseMove:
		in := b.track(msg.Pos)
		if b.captured && b.capBtn == ButtonLeft {
			b.selected = in
			return true
		}
		return false
	case MsgMouseUp:
		if !b.captured || b.capBtn != ButtonLeft || msg.Button != ButtonLeft {
			return false
		}
		b.captured = false
		if b.track(msg.Pos) {
			click()
		} else {
			b.selected = false
		}
		return true
	case MsgSetCursor:
		return b.bounds.Contains(msg.Pos)
	}
	return false
}

// CenterButton toggles whether the preview follows the primary editor's
// viewport. It starts selected.
type CenterButton struct {
	buttonBase
	pressedState bool
	OnClick      func()
}

func NewCenterButton(theme *skin.Theme) *CenterButton {
	return &CenterButton{buttonBase: buttonBase{theme: theme, selected: true}}
}

func (c *CenterButton) SetDecorativeBounds(window common.Rect) {
	s := c.scale()
	play := c.theme.Size(skin.WindowPlayNormal)
	size := c.theme.Size(skin.WindowCenterNormal)
	x := window.X2() - 3*s - play.W - 1*s - c.closeWidth() - size.W - 1*s
	c.place(window, x, size)
}

func (c *CenterButton) Parts() skin.PartSet { return skin.CenterPartSet }

func (c *CenterButton) Part() skin.PartID { return c.Parts().Pick(c.hot, c.selected) }

func (c *CenterButton) HandleMessage(msg Message) bool {
	switch msg.Kind {
	case MsgMouseDown:
		if msg.Button != ButtonLeft || !c.track(msg.Pos) {
			return false
		}
		c.captured, c.capBtn = true, ButtonLeft
		c.pressedState = c.selected
		return true
	case MsgMouseUp:
		if !c.captured || msg.Button != ButtonLeft {
			return false
		}
		c.captured = false
		if c.track(msg.Pos) {
			c.selected = !c.pressedState
			if c.OnClick != nil {
				c.OnClick()
			}
		}
		return true
	case MsgMouseMove:
		c.track(msg.Pos)
		return c.captured
	case MsgSetCursor:
		return c.bounds.Contains(msg.Pos)
	}
	return false
}

// PlayButton switches between play and stop icons. A right click opens the
// speed popup instead of toggling.
type PlayButton struct {
	buttonBase
	playing bool
	OnClick func()
	OnPopup func()
}

func NewPlayButton(theme *skin.Theme) *PlayButton {
	return &PlayButton{buttonBase: buttonBase{theme: theme}}
}

func (p *PlayButton) IsPlaying() bool { return p.playing }

// Stop resets the button to its stopped visual without emitting a click.
func (p *PlayButton) Stop() { p.playing = false }

func (p *PlayButton) SetDecorativeBounds(window common.Rect) {
	s := p.scale()
	size := p.theme.Size(skin.WindowPlayNormal)
	p.place(window, window.X2()-3*s-size.W-1*s-p.closeWidth(), size)
}

func (p *PlayButton) Parts() skin.PartSet {
	if p.playing {
		return skin.StopPartSet
	}
	return skin.PlayPartSet
}

func (p *PlayButton) Part() skin.PartID { return p.Parts().Pick(p.hot, p.selected) }

func (p *PlayButton) HandleMessage(msg Message) bool {
	switch msg.Kind {
	case MsgMouseDown:
		if msg.Button == ButtonRight && p.track(msg.Pos) {
			p.captured, p.capBtn = true, ButtonRight
			return true
		}
	case MsgMouseUp:
		if p.captured && p.capBtn == ButtonRight && msg.Button == ButtonRight {
			p.captured = false
			if p.OnPopup != nil {
				p.OnPopup()
			}
			p.selected = false
			return true
		}
	}
	return p.handlePress(msg, func() {
		p.selected = false
		p.playing = !p.playing
		if p.OnClick != nil {
			p.OnClick()
		}
	})
}
