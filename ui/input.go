package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/preview"
)

// MouseTracker turns ebiten's polled mouse state into preview messages.
type MouseTracker struct {
	last common.Point
	init bool
}

// Poll returns this tick's messages in the order they should be handled.
func (m *MouseTracker) Poll() []preview.Message {
	x, y := ebiten.CursorPosition()
	p := common.Point{X: x, Y: y}
	var msgs []preview.Message
	if !m.init || p != m.last {
		msgs = append(msgs, preview.Message{Kind: preview.MsgMouseMove, Pos: p})
	}
	m.last, m.init = p, true

	buttons := []struct {
		eb  ebiten.MouseButton
		btn preview.MouseButton
	}{
		{ebiten.MouseButtonLeft, preview.ButtonLeft},
		{ebiten.MouseButtonRight, preview.ButtonRight},
	}
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			msgs = append(msgs, preview.Message{Kind: preview.MsgMouseDown, Button: b.btn, Pos: p})
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			msgs = append(msgs, preview.Message{Kind: preview.MsgMouseUp, Button: b.btn, Pos: p})
		}
	}
	return msgs
}

func (m *MouseTracker) Pos() common.Point { return m.last }

// ApplyCursor maps a preview cursor onto the system cursor.
func ApplyCursor(c preview.Cursor) {
	shape := ebiten.CursorShapeDefault
	switch c {
	case preview.CursorMove:
		shape = ebiten.CursorShapeMove
	case preview.CursorResize:
		shape = ebiten.CursorShapeNWSEResize
	}
	if ebiten.CursorShape() != shape {
		ebiten.SetCursorShape(shape)
	}
}
