package workspace

import (
	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/editor"
	"github.com/milk9111/spritepreview/sprite"
)

// SpeedMenu presents the playback speed popup. Show returns false when the
// user dismissed it.
type SpeedMenu interface {
	Show(current editor.PlaybackOptions) (editor.PlaybackOptions, bool)
}

// Layout is the screen real estate the workspace reports to floating windows.
type Layout struct {
	Display         common.Size
	ToolbarWidth    int
	StatusBarHeight int
}

// Workspace is the host side of the editor: the open editors, which one is
// active, and the notifications sent when the active editor changes.
type Workspace struct {
	editors map[editor.ID]*editor.Editor
	order   []editor.ID
	active  editor.ID

	layout    Layout
	listeners []func(*editor.Editor)
	speedMenu SpeedMenu

	indicatorDirty bool
}

func New(layout Layout) *Workspace {
	return &Workspace{
		editors: make(map[editor.ID]*editor.Editor),
		layout:  layout,
	}
}

// OnActiveChanged registers fn to be called with the active editor (nil when
// none) every time it changes or its layer, frame or viewport moves.
func (w *Workspace) OnActiveChanged(fn func(*editor.Editor)) {
	if w == nil || fn == nil {
		return
	}
	w.listeners = append(w.listeners, fn)
}

// Notify tells listeners the active editor changed state.
func (w *Workspace) Notify() {
	if w == nil {
		return
	}
	ed := w.ActiveEditor()
	for _, fn := range w.listeners {
		fn(ed)
	}
}

// Open creates an editor for doc and makes it active.
func (w *Workspace) Open(doc *sprite.Document) *editor.Editor {
	ed := editor.New(doc)
	ed.SetViewport(w.canvasSize())
	ed.CenterInSpritePoint(common.Rect{W: doc.Sprite.Width, H: doc.Sprite.Height}.Center())
	w.editors[ed.ID()] = ed
	w.order = append(w.order, ed.ID())
	w.Activate(ed.ID())
	return ed
}

// Close removes an editor. Listeners see the replacement active editor before
// the closed one is released.
func (w *Workspace) Close(id editor.ID) {
	ed, ok := w.editors[id]
	if !ok {
		return
	}
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.active == id {
		w.active = 0
		if n := len(w.order); n > 0 {
			w.active = w.order[n-1]
		}
		w.Notify()
	}
	delete(w.editors, id)
	ed.Close()
}

// Activate focuses an open editor.
func (w *Workspace) Activate(id editor.ID) {
	if _, ok := w.editors[id]; !ok || w.active == id {
		return
	}
	w.active = id
	w.Notify()
}

// ActivateNext cycles focus through the open editors.
func (w *Workspace) ActivateNext() {
	if len(w.order) < 2 {
		return
	}
	next := w.order[0]
	for i, id := range w.order {
		if id == w.active {
			next = w.order[(i+1)%len(w.order)]
			break
		}
	}
	w.Activate(next)
}

func (w *Workspace) ActiveEditor() *editor.Editor {
	if w == nil || w.active == 0 {
		return nil
	}
	return w.editors[w.active]
}

// Lookup resolves a weak editor handle. It fails for closed editors.
func (w *Workspace) Lookup(id editor.ID) (*editor.Editor, bool) {
	if w == nil || id == 0 {
		return nil, false
	}
	ed, ok := w.editors[id]
	if !ok || ed.Closed() {
		return nil, false
	}
	return ed, true
}

func (w *Workspace) Editors() []*editor.Editor {
	out := make([]*editor.Editor, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.editors[id])
	}
	return out
}

// SetFrame moves the active editor to frame f.
func (w *Workspace) SetFrame(f sprite.Frame) {
	ed := w.ActiveEditor()
	if ed == nil {
		return
	}
	ed.SetFrame(f)
	w.Notify()
}

// StepFrame moves the active editor by delta frames, wrapping around.
func (w *Workspace) StepFrame(delta int) {
	ed := w.ActiveEditor()
	if ed == nil || ed.Sprite().FrameCount() == 0 {
		return
	}
	n := ed.Sprite().FrameCount()
	f := (int(ed.Frame()) + delta%n + n) % n
	w.SetFrame(sprite.Frame(f))
}

func (w *Workspace) SetLayer(l int) {
	ed := w.ActiveEditor()
	if ed == nil {
		return
	}
	ed.SetLayer(l)
	w.Notify()
}

// Scroll pans the active editor by dx/dy sprite pixels.
func (w *Workspace) Scroll(dx, dy float64) {
	ed := w.ActiveEditor()
	if ed == nil {
		return
	}
	x, y := ed.Scroll()
	ed.SetScroll(x+dx, y+dy)
	w.Notify()
}

func (w *Workspace) SetZoom(z editor.Zoom) {
	ed := w.ActiveEditor()
	if ed == nil {
		return
	}
	ed.SetZoom(z)
	w.Notify()
}

// SetLayout updates the display metrics and resizes every editor viewport.
func (w *Workspace) SetLayout(l Layout) {
	if w.layout == l {
		return
	}
	w.layout = l
	for _, ed := range w.editors {
		ed.SetViewport(w.canvasSize())
	}
	w.Notify()
}

func (w *Workspace) canvasSize() common.Size {
	return common.Size{
		W: max(0, w.layout.Display.W-w.layout.ToolbarWidth),
		H: max(0, w.layout.Display.H-w.layout.StatusBarHeight),
	}
}

func (w *Workspace) DisplaySize() common.Size { return w.layout.Display }
func (w *Workspace) ToolbarWidth() int        { return w.layout.ToolbarWidth }
func (w *Workspace) StatusBarHeight() int     { return w.layout.StatusBarHeight }

// AnimationTag resolves the tag that loops at frame f of s.
func (w *Workspace) AnimationTag(s *sprite.Sprite, f sprite.Frame) *sprite.FrameTag {
	return s.AnimationTag(f)
}

// InvalidateIndicator marks the toolbar's preview indicator for redraw.
func (w *Workspace) InvalidateIndicator() {
	if w != nil {
		w.indicatorDirty = true
	}
}

// TakeIndicatorInvalidation reports and clears a pending indicator redraw.
func (w *Workspace) TakeIndicatorInvalidation() bool {
	dirty := w.indicatorDirty
	w.indicatorDirty = false
	return dirty
}

func (w *Workspace) SetSpeedMenu(m SpeedMenu) { w.speedMenu = m }

func (w *Workspace) ShowSpeedMenu(current editor.PlaybackOptions) (editor.PlaybackOptions, bool) {
	if w == nil || w.speedMenu == nil {
		return current, false
	}
	return w.speedMenu.Show(current)
}

// Update ticks every open editor once.
func (w *Workspace) Update() {
	for _, id := range w.order {
		w.editors[id].Update()
	}
}
