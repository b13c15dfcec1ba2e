package preview

import "github.com/milk9111/spritepreview/common"

func (w *Window) titleBar() common.Rect {
	return common.Rect{X: w.bounds.X, Y: w.bounds.Y, W: w.bounds.W, H: w.theme.TitleBar()}
}

func (w *Window) resizeGrip() common.Rect {
	g := 4 * w.theme.GUIScale()
	return common.Rect{X: w.bounds.X2() - g, Y: w.bounds.Y2() - g, W: g, H: g}
}

// HandleMessage routes input to the decorative controls first, then to the
// title bar (move) and bottom-right grip (resize). It reports whether the
// window consumed the message.
func (w *Window) HandleMessage(msg Message) bool {
	if !w.visible {
		return false
	}
	if w.drag != dragNone {
		return w.handleDrag(msg)
	}
	for _, c := range w.Controls() {
		if c.HandleMessage(msg) {
			return true
		}
		// the close box may have hidden the window
		if !w.visible {
			return true
		}
	}
	if msg.Kind != MsgMouseDown || msg.Button != ButtonLeft {
		return w.bounds.Contains(msg.Pos) && msg.Kind != MsgMouseMove
	}
	switch {
	case w.resizeGrip().Contains(msg.Pos):
		w.drag = dragResize
	case w.titleBar().Contains(msg.Pos):
		w.drag = dragMove
	default:
		return w.bounds.Contains(msg.Pos)
	}
	w.dragAnchor = msg.Pos
	w.dragStart = w.bounds
	return true
}

func (w *Window) handleDrag(msg Message) bool {
	dx := msg.Pos.X - w.dragAnchor.X
	dy := msg.Pos.Y - w.dragAnchor.Y
	b := w.dragStart
	switch w.drag {
	case dragMove:
		b = b.Offset(dx, dy)
	case dragResize:
		b.W = max(minWindowSize, b.W+dx)
		b.H = max(minWindowSize+w.theme.TitleBar(), b.H+dy)
	}
	switch msg.Kind {
	case MsgMouseMove:
		w.setBounds(b)
	case MsgMouseUp:
		w.drag = dragNone
		w.OnResize(b)
	}
	return true
}

// CursorAt returns the cursor to show over p, CursorNone outside the window.
func (w *Window) CursorAt(p common.Point) Cursor {
	if !w.visible {
		return CursorNone
	}
	for _, c := range w.Controls() {
		if c.HandleMessage(Message{Kind: MsgSetCursor, Pos: p}) {
			return c.Cursor()
		}
	}
	switch {
	case w.drag == dragResize || w.resizeGrip().Contains(p):
		return CursorResize
	case w.drag == dragMove || w.titleBar().Contains(p):
		return CursorMove
	case w.bounds.Contains(p):
		return CursorArrow
	}
	return CursorNone
}
