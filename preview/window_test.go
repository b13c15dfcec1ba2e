package preview_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/config"
	"github.com/milk9111/spritepreview/editor"
	"github.com/milk9111/spritepreview/preview"
	"github.com/milk9111/spritepreview/skin"
	"github.com/milk9111/spritepreview/sprite"
	"github.com/milk9111/spritepreview/workspace"
)

type fakeMenu struct {
	calls  int
	got    editor.PlaybackOptions
	choice editor.PlaybackOptions
	ok     bool
}

func (m *fakeMenu) Show(cur editor.PlaybackOptions) (editor.PlaybackOptions, bool) {
	m.calls++
	m.got = cur
	return m.choice, m.ok
}

type fixture struct {
	ws    *workspace.Workspace
	st    *config.Store
	win   *preview.Window
	menu  *fakeMenu
	trace []string
}

func newFixture(t *testing.T, enabled bool) *fixture {
	t.Helper()
	f := &fixture{
		ws: workspace.New(workspace.Layout{
			Display:         common.Size{W: 800, H: 600},
			ToolbarWidth:    40,
			StatusBarHeight: 20,
		}),
		st:   config.NewMemory(),
		menu: &fakeMenu{},
	}
	f.st.SetPreviewEnabled(enabled)
	f.ws.SetSpeedMenu(f.menu)
	f.win = preview.NewWindow(f.ws, f.st, skin.Default())
	f.win.SetTrace(func(s string) { f.trace = append(f.trace, s) })
	f.ws.OnActiveChanged(f.win.OnPrimaryEditorChanged)
	return f
}

// animDoc has 16 frames: T1 covers 0-9 and T2 covers 10-15.
func animDoc(name string) *sprite.Document {
	durations := make([]int, 16)
	for i := range durations {
		durations[i] = 100
	}
	return sprite.NewDocument(name, &sprite.Sprite{
		Width:     64,
		Height:    32,
		Layers:    []sprite.Layer{{Name: "bg"}, {Name: "fg"}},
		Durations: durations,
		Tags: []sprite.FrameTag{
			{Name: "T1", From: 0, To: 9},
			{Name: "T2", From: 10, To: 15},
		},
	})
}

func click(w *preview.Window, c preview.DecorativeControl, btn preview.MouseButton) {
	p := c.Bounds().Center()
	w.HandleMessage(preview.Message{Kind: preview.MsgMouseDown, Button: btn, Pos: p})
	w.HandleMessage(preview.Message{Kind: preview.MsgMouseUp, Button: btn, Pos: p})
}

func (f *fixture) secondary(t *testing.T) *editor.Editor {
	t.Helper()
	dv := f.win.DocView()
	if dv == nil {
		t.Fatalf("no doc view")
	}
	return dv.Editor()
}

func TestDisabledWindowNeverBuildsDocView(t *testing.T) {
	f := newFixture(t, false)
	a := f.ws.Open(animDoc("a"))
	f.ws.SetFrame(4)
	f.ws.SetLayer(1)
	f.ws.Open(animDoc("b"))
	f.ws.Activate(a.ID())
	f.win.OnPrimaryEditorChanged(a)
	f.win.OnResize(common.NewRect(0, 0, 100, 100))

	if f.win.DocView() != nil || f.win.Visible() {
		t.Fatalf("disabled window built a doc view (visible=%v)", f.win.Visible())
	}
	if len(f.trace) != 0 {
		t.Fatalf("unexpected lifecycle: %v", f.trace)
	}
}

func TestStaticMirror(t *testing.T) {
	f := newFixture(t, true)
	doc := animDoc("d")
	f.ws.Open(doc)
	f.ws.SetLayer(1)
	f.ws.SetFrame(3)

	sec := f.secondary(t)
	if sec.Document() != doc || sec.Layer() != 1 || sec.Frame() != 3 || sec.IsPlaying() {
		t.Fatalf("secondary = doc %p layer %d frame %d playing %v", sec.Document(), sec.Layer(), sec.Frame(), sec.IsPlaying())
	}
	if sec.Zoom() != editor.ZoomOne {
		t.Fatalf("secondary zoom = %v", sec.Zoom())
	}
	if !f.win.Visible() {
		t.Fatalf("window hidden")
	}
}

func TestDocumentChangeRebuildsOnce(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))
	old := f.win.DocView()
	oldEd := old.Editor()
	f.trace = nil

	b := animDoc("b")
	f.ws.Open(b)

	want := []string{"preview: release docview", "preview: docview b"}
	if diff := cmp.Diff(want, f.trace); diff != "" {
		t.Fatalf("lifecycle mismatch (-want +got):\n%s", diff)
	}
	if !oldEd.Closed() || oldEd.Subscribers() != 0 {
		t.Fatalf("old secondary still live: closed=%v subs=%d", oldEd.Closed(), oldEd.Subscribers())
	}
	if f.win.DocView() == old || f.win.DocView().Document() != b {
		t.Fatalf("doc view not rebuilt for b")
	}

	// same document again: no rebuild
	f.trace = nil
	f.ws.SetFrame(2)
	if len(f.trace) != 0 {
		t.Fatalf("unexpected rebuild: %v", f.trace)
	}
}

func TestCenterFollowsPrimary(t *testing.T) {
	f := newFixture(t, true)
	primary := f.ws.Open(animDoc("a"))
	f.ws.SetZoom(editor.Zoom{Num: 32, Den: 1})
	f.ws.Scroll(10, 5)

	sec := f.secondary(t)
	want := primary.VisibleSpriteBounds().Center()
	if got := sec.ViewportCenter(); got != want {
		t.Fatalf("secondary center = %v, want %v", got, want)
	}

	f.win.UncheckCenterButton()
	if f.win.CenterButton().Selected() {
		t.Fatalf("center still selected")
	}
	f.ws.Scroll(-6, -3)
	if got := sec.ViewportCenter(); got != want {
		t.Fatalf("unchecked center moved to %v", got)
	}

	// checking it again recenters immediately
	click(f.win, f.win.CenterButton(), preview.ButtonLeft)
	if !f.win.CenterButton().Selected() {
		t.Fatalf("center not reselected")
	}
	if got, want := sec.ViewportCenter(), primary.VisibleSpriteBounds().Center(); got != want {
		t.Fatalf("secondary center = %v, want %v", got, want)
	}
}

func TestPlayAcrossTagBoundary(t *testing.T) {
	f := newFixture(t, true)
	f.st.SetPlayOnce(true)
	f.ws.Open(animDoc("a"))
	f.ws.SetFrame(5)

	click(f.win, f.win.PlayButton(), preview.ButtonLeft)
	sec := f.secondary(t)
	if !f.win.PlayButton().IsPlaying() || !sec.IsPlaying() {
		t.Fatalf("play click did not start playback")
	}
	ps := sec.State().(*editor.PlayState)
	if sec.Frame() != 5 || f.win.RefFrame() != 5 || !ps.PlayOnce() || ps.Tag().Name != "T1" {
		t.Fatalf("playing frame %d ref %d once %v tag %v", sec.Frame(), f.win.RefFrame(), ps.PlayOnce(), ps.Tag())
	}

	// same tag: the running loop is left alone
	f.ws.SetFrame(7)
	if sec.State() != ps || f.win.RefFrame() != 5 {
		t.Fatalf("loop restarted inside the same tag")
	}

	f.ws.SetFrame(12)
	ps2, ok := sec.State().(*editor.PlayState)
	if !ok || ps2 == ps {
		t.Fatalf("playback not restarted at tag boundary")
	}
	if sec.Frame() != 12 || f.win.RefFrame() != 12 || ps2.Tag().Name != "T2" || !ps2.PlayOnce() {
		t.Fatalf("restart frame %d ref %d tag %v", sec.Frame(), f.win.RefFrame(), ps2.Tag())
	}
	if !f.win.PlayButton().IsPlaying() {
		t.Fatalf("restart reset the play button")
	}
}

func TestPlayOnceEndResetsButton(t *testing.T) {
	f := newFixture(t, true)
	f.st.SetPlayOnce(true)
	f.ws.Open(animDoc("a"))
	f.ws.SetFrame(8)
	click(f.win, f.win.PlayButton(), preview.ButtonLeft)

	// two frames of 100ms remain in T1
	for range 30 {
		f.win.Update()
	}
	sec := f.secondary(t)
	if sec.IsPlaying() || f.win.PlayButton().IsPlaying() {
		t.Fatalf("play-once did not stop: editor %v button %v", sec.IsPlaying(), f.win.PlayButton().IsPlaying())
	}
	if sec.Frame() != 9 {
		t.Fatalf("stopped on frame %d", sec.Frame())
	}
}

func TestStopClickReturnsToPrimaryFrame(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))
	f.ws.SetFrame(2)
	click(f.win, f.win.PlayButton(), preview.ButtonLeft)
	for range 20 {
		f.win.Update()
	}
	sec := f.secondary(t)
	if sec.Frame() == 2 {
		t.Fatalf("playback did not advance")
	}
	click(f.win, f.win.PlayButton(), preview.ButtonLeft)
	if sec.IsPlaying() || sec.Frame() != 2 {
		t.Fatalf("stop left playing=%v frame=%d", sec.IsPlaying(), sec.Frame())
	}
}

func TestDisableReleasesDocView(t *testing.T) {
	cases := []struct {
		name    string
		disable func(f *fixture)
		redraw  bool
	}{
		{"set_enabled", func(f *fixture) { f.win.SetEnabled(false) }, false},
		{"close_box", func(f *fixture) { click(f.win, f.win.CloseButton(), preview.ButtonLeft) }, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.ws.Open(animDoc("a"))
			f.ws.TakeIndicatorInvalidation()
			sec := f.secondary(t)

			c.disable(f)

			if f.win.DocView() != nil || f.win.Visible() || f.win.Enabled() {
				t.Fatalf("still live: docview=%v visible=%v", f.win.DocView() != nil, f.win.Visible())
			}
			if !sec.Closed() {
				t.Fatalf("secondary editor not closed")
			}
			if f.st.PreviewEnabled() {
				t.Fatalf("enabled flag not persisted")
			}
			if got := f.ws.TakeIndicatorInvalidation(); got != c.redraw {
				t.Fatalf("indicator invalidated = %v, want %v", got, c.redraw)
			}
			if _, ok := f.win.Tracked(); ok {
				t.Fatalf("primary still tracked")
			}
		})
	}
}

func TestDisableKeepsSpeedAndRefFrame(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))
	f.ws.SetFrame(4)
	click(f.win, f.win.PlayButton(), preview.ButtonLeft)
	f.menu.choice, f.menu.ok = editor.PlaybackOptions{Speed: 2}, true
	click(f.win, f.win.PlayButton(), preview.ButtonRight)

	f.win.SetEnabled(false)
	if f.win.RefFrame() != 4 || f.win.Speed() != 2 {
		t.Fatalf("ref %d speed %v after disable", f.win.RefFrame(), f.win.Speed())
	}
	f.win.SetEnabled(true)
	if got := f.secondary(t).AnimationSpeedMultiplier(); got != 2 {
		t.Fatalf("rebuilt secondary speed = %v", got)
	}
}

func TestRightClickOpensSpeedPopup(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))
	click(f.win, f.win.PlayButton(), preview.ButtonLeft)
	f.menu.choice, f.menu.ok = editor.PlaybackOptions{Speed: 0.5, PlayOnce: true}, true

	play := f.win.PlayButton()
	p := play.Bounds().Center()
	f.win.HandleMessage(preview.Message{Kind: preview.MsgMouseDown, Button: preview.ButtonRight, Pos: p})
	if !play.Captured() {
		t.Fatalf("right press did not capture")
	}
	f.win.HandleMessage(preview.Message{Kind: preview.MsgMouseUp, Button: preview.ButtonRight, Pos: p})

	if f.menu.calls != 1 {
		t.Fatalf("popup shown %d times", f.menu.calls)
	}
	if f.menu.got != (editor.PlaybackOptions{Speed: 1}) {
		t.Fatalf("menu got %+v", f.menu.got)
	}
	if play.Selected() || play.Captured() || !play.IsPlaying() {
		t.Fatalf("after popup: selected=%v captured=%v playing=%v", play.Selected(), play.Captured(), play.IsPlaying())
	}
	sec := f.secondary(t)
	if sec.AnimationSpeedMultiplier() != 0.5 || f.st.SpeedMultiplier() != 0.5 || !f.st.PlayOnce() {
		t.Fatalf("choice not applied: speed %v stored %v once %v", sec.AnimationSpeedMultiplier(), f.st.SpeedMultiplier(), f.st.PlayOnce())
	}
	if !sec.State().(*editor.PlayState).PlayOnce() {
		t.Fatalf("running loop kept the old play-once policy")
	}
}

func TestDismissedPopupChangesNothing(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))
	click(f.win, f.win.PlayButton(), preview.ButtonRight)
	if f.menu.calls != 1 {
		t.Fatalf("popup shown %d times", f.menu.calls)
	}
	if f.st.SpeedMultiplier() != 1 || f.secondary(t).AnimationSpeedMultiplier() != 1 {
		t.Fatalf("dismissed popup applied a choice")
	}
	if f.win.PlayButton().IsPlaying() {
		t.Fatalf("right click toggled play")
	}
}

func TestBackgroundEditorIgnored(t *testing.T) {
	f := newFixture(t, true)
	a := f.ws.Open(animDoc("a"))
	b := f.ws.Open(animDoc("b"))
	f.win.OnPrimaryEditorChanged(a)

	if f.win.DocView().Document() != b.Document() {
		t.Fatalf("mirrored a background editor")
	}
	if ed, ok := f.win.Tracked(); !ok || ed != b {
		t.Fatalf("tracked = %v", ed)
	}
}

func TestNoActiveEditorHides(t *testing.T) {
	f := newFixture(t, true)
	a := f.ws.Open(animDoc("a"))
	f.ws.Close(a.ID())

	if f.win.Visible() || f.win.DocView() != nil {
		t.Fatalf("window survived its last editor")
	}
	// mirroring resumes with the next document
	f.ws.Open(animDoc("b"))
	if !f.win.Visible() || f.win.DocView() == nil {
		t.Fatalf("window did not come back")
	}
}

func TestTrackedHandleGoesStale(t *testing.T) {
	f := newFixture(t, true)
	a := f.ws.Open(animDoc("a"))
	f.ws.Open(animDoc("b"))
	f.ws.Activate(a.ID())
	f.ws.Close(a.ID())

	ed, ok := f.win.Tracked()
	if !ok || ed.Document().Name != "b" {
		t.Fatalf("tracked = %v ok=%v", ed, ok)
	}
	if _, ok := f.ws.Lookup(a.ID()); ok {
		t.Fatalf("closed editor still resolves")
	}
}

func TestWindowBounds(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))

	// 800x600 display, 40px toolbar, 20px status bar, 12px mini scrollbars
	want := common.NewRect(536, 406, 200, 150)
	if got := f.win.Bounds(); got != want {
		t.Fatalf("default bounds = %v, want %v", got, want)
	}
	if got := f.win.ClientBounds(); got != common.NewRect(536, 440, 200, 116) {
		t.Fatalf("client bounds = %v", got)
	}

	moved := common.NewRect(100, 80, 240, 180)
	f.win.OnResize(moved)
	if got := f.secondary(t).Viewport(); got != (common.Size{W: 240, H: 146}) {
		t.Fatalf("secondary viewport = %v", got)
	}

	f.win.SetEnabled(false)
	if got, ok := f.st.WindowBounds(); !ok || got != moved {
		t.Fatalf("saved bounds = %v ok=%v", got, ok)
	}
	f.win.SetEnabled(true)
	if got := f.win.Bounds(); got != moved {
		t.Fatalf("reopened at %v, want %v", got, moved)
	}
}

func TestCloseWindowPersists(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))
	sec := f.secondary(t)
	f.win.Close()

	if !f.st.PreviewEnabled() {
		t.Fatalf("enabled not persisted")
	}
	if _, ok := f.st.WindowBounds(); !ok {
		t.Fatalf("bounds not persisted")
	}
	if !sec.Closed() || f.win.DocView() != nil {
		t.Fatalf("doc view survived Close")
	}
}

func TestDragTitleBarMovesWindow(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))
	start := f.win.Bounds()
	grab := common.Point{X: start.X + 10, Y: start.Y + 4}

	if c := f.win.CursorAt(grab); c != preview.CursorMove {
		t.Fatalf("cursor over title bar = %v", c)
	}
	f.win.HandleMessage(preview.Message{Kind: preview.MsgMouseDown, Button: preview.ButtonLeft, Pos: grab})
	f.win.HandleMessage(preview.Message{Kind: preview.MsgMouseMove, Pos: common.Point{X: grab.X - 50, Y: grab.Y - 30}})
	f.win.HandleMessage(preview.Message{Kind: preview.MsgMouseUp, Button: preview.ButtonLeft, Pos: common.Point{X: grab.X - 50, Y: grab.Y - 30}})

	if got, want := f.win.Bounds(), start.Offset(-50, -30); got != want {
		t.Fatalf("bounds = %v, want %v", got, want)
	}
	if got := f.win.PlayButton().Bounds(); !strings.HasPrefix(got.String(), "[642,") {
		t.Fatalf("controls did not follow: play at %v", got)
	}
}

func TestSetThemeRelaysControls(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))

	th := *skin.Default()
	th.Scale = 1
	f.win.SetTheme(&th)

	if got, want := f.win.CloseButton().Bounds(), common.NewRect(724, 409, 9, 11); got != want {
		t.Fatalf("close bounds = %v, want %v", got, want)
	}
	if got := f.secondary(t).Viewport(); got != (common.Size{W: 200, H: 133}) {
		t.Fatalf("secondary viewport = %v", got)
	}
}

func TestSpeedChoiceOnBrokenDocumentStopsButton(t *testing.T) {
	f := newFixture(t, true)
	doc := animDoc("a")
	f.ws.Open(doc)
	click(f.win, f.win.PlayButton(), preview.ButtonLeft)
	if !f.win.PlayButton().IsPlaying() {
		t.Fatalf("play click did not start playback")
	}

	// the sprite went away under a running loop, so Play fails
	doc.Sprite = nil
	f.menu.choice, f.menu.ok = editor.PlaybackOptions{Speed: 2, PlayOnce: true}, true
	click(f.win, f.win.PlayButton(), preview.ButtonRight)

	if f.menu.calls != 1 {
		t.Fatalf("popup shown %d times", f.menu.calls)
	}
	if f.win.PlayButton().IsPlaying() {
		t.Fatalf("play button still on after Play failed")
	}
}

func TestReloadSettingsUpdatesRunningLoop(t *testing.T) {
	f := newFixture(t, true)
	f.ws.Open(animDoc("a"))
	f.ws.SetFrame(3)
	click(f.win, f.win.PlayButton(), preview.ButtonLeft)
	sec := f.secondary(t)
	ps := sec.State().(*editor.PlayState)
	if ps.PlayOnce() {
		t.Fatalf("loop started in play-once mode")
	}

	f.st.SetPlayOnce(true)
	f.st.SetSpeedMultiplier(3)
	f.win.ReloadSettings()

	if sec.State() != ps {
		t.Fatalf("reload restarted the loop")
	}
	if !ps.PlayOnce() || sec.AnimationSpeedMultiplier() != 3 {
		t.Fatalf("after reload: once=%v speed=%v", ps.PlayOnce(), sec.AnimationSpeedMultiplier())
	}
	if !f.win.PlayButton().IsPlaying() {
		t.Fatalf("reload reset the play button")
	}
}
