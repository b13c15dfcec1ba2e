package preview

import (
	"fmt"

	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/editor"
	"github.com/milk9111/spritepreview/skin"
	"github.com/milk9111/spritepreview/sprite"
)

// Host is the application side the preview window mirrors.
type Host interface {
	ActiveEditor() *editor.Editor
	// Lookup resolves a weak editor handle, failing once the editor closed.
	Lookup(id editor.ID) (*editor.Editor, bool)
	AnimationTag(s *sprite.Sprite, f sprite.Frame) *sprite.FrameTag
	DisplaySize() common.Size
	ToolbarWidth() int
	StatusBarHeight() int
	InvalidateIndicator()
	ShowSpeedMenu(current editor.PlaybackOptions) (editor.PlaybackOptions, bool)
}

// Settings is the persisted state the window reads and writes.
type Settings interface {
	PreviewEnabled() bool
	SetPreviewEnabled(bool)
	WindowBounds() (common.Rect, bool)
	SetWindowBounds(common.Rect)
	PlayOnce() bool
	SetPlayOnce(bool)
	SpeedMultiplier() float64
	SetSpeedMultiplier(float64)
}

const minWindowSize = 32

type dragMode int

const (
	dragNone dragMode = iota
	dragMove
	dragResize
)

// Window is a floating preview of the active editor. It keeps a secondary
// editor on the same document in step with the primary one and can loop the
// frame tag under the primary's current frame.
type Window struct {
	host     Host
	settings Settings
	theme    *skin.Theme

	enabled  bool
	refFrame sprite.Frame
	speed    float64
	tracked  editor.ID
	docView  *DocView

	bounds  common.Rect
	visible bool

	closeBtn *CloseButton
	center   *CenterButton
	play     *PlayButton

	// set while the window drives the secondary editor itself, so the
	// transitions it causes are not mistaken for playback ending
	inSync bool

	drag       dragMode
	dragAnchor common.Point
	dragStart  common.Rect

	trace func(string)
}

func NewWindow(host Host, settings Settings, theme *skin.Theme) *Window {
	w := &Window{
		host:     host,
		settings: settings,
		theme:    theme,
		enabled:  settings.PreviewEnabled(),
		speed:    settings.SpeedMultiplier(),
		closeBtn: NewCloseButton(theme),
		center:   NewCenterButton(theme),
		play:     NewPlayButton(theme),
	}
	w.closeBtn.OnClick = w.OnWindowClosedByUser
	w.center.OnClick = w.OnCenterClicked
	w.play.OnClick = w.OnPlayClicked
	w.play.OnPopup = w.OnPopupSpeed
	return w
}

// SetTrace installs a sink for lifecycle messages (open, close, doc view
// rebuilds).
func (w *Window) SetTrace(fn func(string)) { w.trace = fn }

func (w *Window) tracef(format string, args ...any) {
	if w.trace != nil {
		w.trace(fmt.Sprintf(format, args...))
	}
}

func (w *Window) Enabled() bool { return w.enabled }

func (w *Window) Visible() bool { return w.visible }

func (w *Window) Bounds() common.Rect { return w.bounds }

func (w *Window) DocView() *DocView { return w.docView }

func (w *Window) RefFrame() sprite.Frame { return w.refFrame }

func (w *Window) Speed() float64 { return w.speed }

func (w *Window) CenterButton() *CenterButton { return w.center }

func (w *Window) PlayButton() *PlayButton { return w.play }

func (w *Window) CloseButton() *CloseButton { return w.closeBtn }

// Controls returns the decorative controls in hit-test order.
func (w *Window) Controls() []DecorativeControl {
	return []DecorativeControl{w.closeBtn, w.play, w.center}
}

// Tracked resolves the primary editor being mirrored, if it is still alive.
func (w *Window) Tracked() (*editor.Editor, bool) {
	if w.tracked == 0 {
		return nil, false
	}
	return w.host.Lookup(w.tracked)
}

// ClientBounds is the area below the title bar the secondary editor draws in.
func (w *Window) ClientBounds() common.Rect {
	tb := w.theme.TitleBar()
	r := w.bounds
	r.Y += tb
	r.H = max(0, r.H-tb)
	return r
}

// SetEnabled turns mirroring on or off and re-syncs with the active editor.
func (w *Window) SetEnabled(v bool) {
	w.enabled = v
	w.settings.SetPreviewEnabled(v)
	w.OnPrimaryEditorChanged(w.host.ActiveEditor())
}

// OnPrimaryEditorChanged brings the preview in line with primary. The host
// calls it whenever the active editor, its layer, frame or viewport changes.
func (w *Window) OnPrimaryEditorChanged(primary *editor.Editor) {
	if !w.enabled || primary == nil || primary.Document() == nil {
		w.hide()
		w.tracked = 0
		return
	}
	if w.host.ActiveEditor() != primary {
		return
	}
	w.tracked = primary.ID()

	if !w.visible {
		w.open()
	}

	w.inSync = true
	defer func() { w.inSync = false }()

	forceCenter := false
	if w.docView == nil || w.docView.Document() != primary.Document() {
		w.releaseDocView()
		w.docView = newDocView(primary.Document(), w.onSecondaryStateChanged)
		w.docView.setViewport(w.ClientBounds())

		sec := w.docView.Editor()
		sec.SetZoom(editor.ZoomOne)
		sec.SetLayer(primary.Layer())
		sec.SetFrame(primary.Frame())
		sec.SetState(editor.NewNavigateState())
		sec.SetAnimationSpeedMultiplier(w.speed)
		forceCenter = true
		w.tracef("preview: docview %s", primary.Document().Name)
	}
	sec := w.docView.Editor()

	if w.center.Selected() || forceCenter {
		sec.CenterInSpritePoint(primary.VisibleSpriteBounds().Center())
	}

	if !w.play.IsPlaying() {
		sec.Stop()
		sec.SetLayer(primary.Layer())
		sec.SetFrame(primary.Frame())
		return
	}

	s := primary.Sprite()
	if sec.IsPlaying() {
		if w.host.AnimationTag(s, primary.Frame()) != w.host.AnimationTag(s, w.refFrame) {
			sec.Stop()
		}
	}
	if !sec.IsPlaying() {
		sec.SetFrame(primary.Frame())
		w.refFrame = primary.Frame()
	}
	if err := sec.Play(w.settings.PlayOnce()); err != nil {
		w.play.Stop()
	}
}

// OnWindowClosedByUser handles the close box: mirroring is switched off and
// the host redraws its preview indicator.
func (w *Window) OnWindowClosedByUser() {
	w.enabled = false
	w.settings.SetPreviewEnabled(false)
	w.hide()
	w.tracked = 0
	w.host.InvalidateIndicator()
}

// onSecondaryStateChanged resets the play button when playback ends on its
// own, e.g. a play-once loop reaching its last frame.
func (w *Window) onSecondaryStateChanged(evt editor.StateEvent) {
	if w.inSync || !evt.Stopped() {
		return
	}
	w.play.Stop()
}

// OnResize applies user-set bounds and re-syncs so the secondary viewport
// follows the new client area.
func (w *Window) OnResize(bounds common.Rect) {
	w.setBounds(bounds)
	if ed := w.host.ActiveEditor(); ed != nil {
		w.OnPrimaryEditorChanged(ed)
	}
}

func (w *Window) OnCenterClicked() {
	if !w.center.Selected() {
		return
	}
	if ed := w.host.ActiveEditor(); ed != nil {
		w.OnPrimaryEditorChanged(ed)
	}
}

// OnPlayClicked starts the secondary editor from its own frame, or stops it
// and snaps back to the primary's frame.
func (w *Window) OnPlayClicked() {
	sec := w.docView.Editor()
	if sec == nil || sec.Document() == nil {
		return
	}
	if w.play.IsPlaying() {
		w.refFrame = sec.Frame()
		if err := sec.Play(w.settings.PlayOnce()); err != nil {
			w.play.Stop()
		}
		return
	}
	sec.Stop()
	if primary, ok := w.Tracked(); ok {
		sec.SetFrame(primary.Frame())
	}
}

// OnPopupSpeed asks the host for a new playback speed and play-once policy.
func (w *Window) OnPopupSpeed() {
	sec := w.docView.Editor()
	if sec == nil || sec.Document() == nil {
		return
	}
	cur := editor.PlaybackOptions{Speed: sec.AnimationSpeedMultiplier(), PlayOnce: w.settings.PlayOnce()}
	choice, ok := w.host.ShowSpeedMenu(cur)
	if !ok {
		return
	}
	sec.SetAnimationSpeedMultiplier(choice.Speed)
	w.speed = sec.AnimationSpeedMultiplier()
	w.settings.SetSpeedMultiplier(w.speed)
	w.settings.SetPlayOnce(choice.PlayOnce)
	if sec.IsPlaying() {
		if err := sec.Play(choice.PlayOnce); err != nil {
			w.play.Stop()
		}
	}
}

// ReloadSettings picks up settings changed behind the window's back, such as
// an edited settings file.
func (w *Window) ReloadSettings() {
	w.speed = w.settings.SpeedMultiplier()
	sec := w.docView.Editor()
	sec.SetAnimationSpeedMultiplier(w.speed)
	if sec.IsPlaying() {
		if err := sec.Play(w.settings.PlayOnce()); err != nil {
			w.play.Stop()
		}
	}
	if en := w.settings.PreviewEnabled(); en != w.enabled {
		w.SetEnabled(en)
	}
}

// SetTheme switches skins, re-laying out the controls for the new metrics.
func (w *Window) SetTheme(theme *skin.Theme) {
	if theme == nil {
		return
	}
	w.theme = theme
	w.closeBtn.theme = theme
	w.center.theme = theme
	w.play.theme = theme
	w.setBounds(w.bounds)
}

func (w *Window) UncheckCenterButton() {
	if w.center.Selected() {
		w.center.SetSelected(false)
	}
}

// Update ticks the secondary editor.
func (w *Window) Update() {
	if ed := w.docView.Editor(); ed != nil {
		ed.Update()
	}
}

// Close tears the window down for good, persisting whether it was enabled.
func (w *Window) Close() {
	w.settings.SetPreviewEnabled(w.enabled)
	w.hide()
	w.tracked = 0
}

// DefaultBounds places the window in the bottom-right corner of the canvas,
// clear of the toolbar and status bar.
func (w *Window) DefaultBounds() common.Rect {
	d := w.host.DisplaySize()
	sb := w.theme.MiniScrollbarSize()
	width, height := d.W/4, d.H/4
	return common.Rect{
		X: d.W - width - w.host.ToolbarWidth() - 2*sb,
		Y: d.H - height - w.host.StatusBarHeight() - 2*sb,
		W: width,
		H: height,
	}
}

func (w *Window) open() {
	b := w.DefaultBounds()
	if saved, ok := w.settings.WindowBounds(); ok {
		b = saved
	}
	w.setBounds(b)
	w.visible = true
	w.tracef("preview: open %s", b)
}

// hide releases the doc view before the window disappears so a doc view
// never outlives visibility.
func (w *Window) hide() {
	w.releaseDocView()
	if !w.visible {
		return
	}
	w.settings.SetWindowBounds(w.bounds)
	w.visible = false
	w.drag = dragNone
	w.tracef("preview: close")
}

func (w *Window) releaseDocView() {
	if w.docView == nil {
		return
	}
	w.docView.Close()
	w.docView = nil
	w.tracef("preview: release docview")
}

func (w *Window) setBounds(b common.Rect) {
	w.bounds = b
	for _, c := range w.Controls() {
		c.SetDecorativeBounds(b)
	}
	w.docView.setViewport(w.ClientBounds())
}
