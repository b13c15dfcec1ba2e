package editor

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/sprite"
)

var ErrNoDocument = errors.New("editor: no document")

// ID identifies an editor for the lifetime of the process. It is the weak
// handle other components keep instead of a pointer.
type ID uint64

var nextEditorID atomic.Uint64

// Zoom is a rational scale factor, Num/Den screen pixels per sprite pixel.
type Zoom struct {
	Num int
	Den int
}

var ZoomOne = Zoom{Num: 1, Den: 1}

func (z Zoom) Scale() float64 {
	if z.Num <= 0 || z.Den <= 0 {
		return 1
	}
	return float64(z.Num) / float64(z.Den)
}

// Editor is one view over a document: a current layer and frame, a zoomed
// viewport scrolled over the sprite, and a state machine that can animate it.
type Editor struct {
	id  ID
	doc *sprite.Document

	layer int
	frame sprite.Frame

	zoom     Zoom
	viewport common.Size
	// sprite-space position of the viewport's top-left corner
	scrollX, scrollY float64

	state State
	speed float64

	subscribers []subscriber
	nextSubID   int
	closed      bool
}

// New creates an editor bound to doc in NavigateState.
func New(doc *sprite.Document) *Editor {
	e := &Editor{
		id:    ID(nextEditorID.Add(1)),
		doc:   doc,
		zoom:  ZoomOne,
		speed: 1,
	}
	e.state = NewNavigateState()
	e.state.Enter(e)
	return e
}

func (e *Editor) ID() ID {
	if e == nil {
		return 0
	}
	return e.id
}

func (e *Editor) Document() *sprite.Document {
	if e == nil {
		return nil
	}
	return e.doc
}

func (e *Editor) Sprite() *sprite.Sprite {
	if e == nil || e.doc == nil {
		return nil
	}
	return e.doc.Sprite
}

func (e *Editor) Layer() int {
	if e == nil {
		return 0
	}
	return e.layer
}

func (e *Editor) SetLayer(l int) {
	if e == nil {
		return
	}
	e.layer = e.Sprite().ClampLayer(l)
}

func (e *Editor) Frame() sprite.Frame {
	if e == nil {
		return 0
	}
	return e.frame
}

func (e *Editor) SetFrame(f sprite.Frame) {
	if e == nil {
		return
	}
	e.frame = e.Sprite().ClampFrame(f)
}

func (e *Editor) Zoom() Zoom {
	if e == nil {
		return ZoomOne
	}
	return e.zoom
}

// SetZoom changes the scale keeping the viewport center fixed in sprite space.
func (e *Editor) SetZoom(z Zoom) {
	if e == nil || z.Num <= 0 || z.Den <= 0 {
		return
	}
	cx, cy := e.viewportCenter()
	e.zoom = z
	e.centerOn(cx, cy)
}

// SetViewport sets the on-screen size of the editor in pixels, keeping the
// top-left sprite position.
func (e *Editor) SetViewport(size common.Size) {
	if e == nil {
		return
	}
	e.viewport = size
}

func (e *Editor) Viewport() common.Size {
	if e == nil {
		return common.Size{}
	}
	return e.viewport
}

// Scroll returns the sprite-space position shown at the viewport's top-left.
func (e *Editor) Scroll() (float64, float64) {
	if e == nil {
		return 0, 0
	}
	return e.scrollX, e.scrollY
}

func (e *Editor) SetScroll(x, y float64) {
	if e == nil {
		return
	}
	e.scrollX, e.scrollY = x, y
}

// visibleSize is the viewport size in sprite pixels.
func (e *Editor) visibleSize() (float64, float64) {
	s := e.zoom.Scale()
	return float64(e.viewport.W) / s, float64(e.viewport.H) / s
}

func (e *Editor) viewportCenter() (float64, float64) {
	w, h := e.visibleSize()
	return e.scrollX + w/2, e.scrollY + h/2
}

func (e *Editor) centerOn(x, y float64) {
	w, h := e.visibleSize()
	e.scrollX = x - w/2
	e.scrollY = y - h/2
}

// ViewportCenter returns the sprite-space point under the viewport's center.
func (e *Editor) ViewportCenter() common.Point {
	if e == nil {
		return common.Point{}
	}
	x, y := e.viewportCenter()
	return common.Point{X: int(math.Round(x)), Y: int(math.Round(y))}
}

// VisibleSpriteBounds returns the part of the sprite currently on screen, in
// sprite coordinates.
func (e *Editor) VisibleSpriteBounds() common.Rect {
	s := e.Sprite()
	if s == nil {
		return common.Rect{}
	}
	w, h := e.visibleSize()
	x1 := int(math.Floor(e.scrollX))
	y1 := int(math.Floor(e.scrollY))
	x2 := int(math.Ceil(e.scrollX + w))
	y2 := int(math.Ceil(e.scrollY + h))
	view := common.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
	return view.Intersect(common.Rect{W: s.Width, H: s.Height})
}

// CenterInSpritePoint scrolls so that p sits under the viewport center.
func (e *Editor) CenterInSpritePoint(p common.Point) {
	if e == nil {
		return
	}
	e.centerOn(float64(p.X), float64(p.Y))
}

// SpriteToScreen maps a sprite-space point to viewport-local pixels.
func (e *Editor) SpriteToScreen(x, y float64) (float64, float64) {
	if e == nil {
		return 0, 0
	}
	s := e.zoom.Scale()
	return (x - e.scrollX) * s, (y - e.scrollY) * s
}

// ScreenToSprite maps viewport-local pixels to sprite space.
func (e *Editor) ScreenToSprite(x, y float64) (float64, float64) {
	if e == nil {
		return 0, 0
	}
	s := e.zoom.Scale()
	return x/s + e.scrollX, y/s + e.scrollY
}

func (e *Editor) State() State {
	if e == nil {
		return nil
	}
	return e.state
}

// SetState exits the current state, enters s and notifies subscribers.
func (e *Editor) SetState(s State) {
	if e == nil || s == nil || e.closed {
		return
	}
	prev := e.state
	if prev != nil {
		prev.Exit(e)
	}
	e.state = s
	s.Enter(e)
	e.emit(StateEvent{Editor: e, From: kindOf(prev), To: s.Kind()})
}

func (e *Editor) IsPlaying() bool {
	return e != nil && kindOf(e.state) == StatePlaying
}

// Play starts animating from the current frame. When already playing only the
// play-once policy is updated so a running loop keeps its position.
func (e *Editor) Play(playOnce bool) error {
	if e == nil || e.doc == nil || e.Sprite() == nil {
		return ErrNoDocument
	}
	if ps, ok := e.state.(*PlayState); ok {
		ps.playOnce = playOnce
		return nil
	}
	e.SetState(NewPlayState(playOnce))
	return nil
}

// Stop returns a playing editor to NavigateState on the frame it reached.
func (e *Editor) Stop() {
	if !e.IsPlaying() {
		return
	}
	e.SetState(NewNavigateState())
}

func (e *Editor) AnimationSpeedMultiplier() float64 {
	if e == nil {
		return 1
	}
	return e.speed
}

func (e *Editor) SetAnimationSpeedMultiplier(m float64) {
	if e == nil || m <= 0 {
		return
	}
	e.speed = m
}

// Update advances the current state by one tick.
func (e *Editor) Update() {
	e.Advance(1000.0 / TicksPerSecond)
}

// Advance runs the current state for ms milliseconds.
func (e *Editor) Advance(ms float64) {
	if e == nil || e.state == nil || e.closed {
		return
	}
	e.state.Update(e, ms)
}

// Close stops playback and drops every subscriber. A closed editor ignores
// further state changes.
func (e *Editor) Close() {
	if e == nil || e.closed {
		return
	}
	e.subscribers = nil
	e.Stop()
	e.closed = true
}

func (e *Editor) Closed() bool {
	return e == nil || e.closed
}
