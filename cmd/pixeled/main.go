package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spritepreview/app"
	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/config"
	"github.com/milk9111/spritepreview/editor"
	"github.com/milk9111/spritepreview/preview"
	"github.com/milk9111/spritepreview/skin"
	"github.com/milk9111/spritepreview/sprite"
	"github.com/milk9111/spritepreview/ui"
	"github.com/milk9111/spritepreview/workspace"
)

const (
	toolbarWidth    = 140
	statusBarHeight = 18
)

type Game struct {
	session  *app.Session
	toolbar  *ui.Toolbar
	renderer *ui.PreviewRenderer
	frames   *ui.FrameCache
	mouse    ui.MouseTracker
	skinPath string

	panning bool
	panFrom common.Point
}

func (g *Game) Update() error {
	ws := g.session.Workspace
	win := g.session.Preview

	g.toolbar.UI.Update()
	for _, msg := range g.mouse.Poll() {
		// presses over the toolbar belong to ebitenui; drags and releases
		// still reach whoever captured the press
		if msg.Kind == preview.MsgMouseDown && g.toolbar.Contains(msg.Pos) {
			continue
		}
		if win.HandleMessage(msg) {
			continue
		}
		g.handleCanvasMouse(msg)
	}
	ui.ApplyCursor(win.CursorAt(g.mouse.Pos()))

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		ws.StepFrame(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		ws.StepFrame(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		if ed := ws.ActiveEditor(); ed != nil {
			ws.SetLayer(ed.Layer() + 1)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		if ed := ws.ActiveEditor(); ed != nil {
			ws.SetLayer(ed.Layer() - 1)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		ws.ActivateNext()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		win.SetEnabled(!win.Enabled())
		ws.InvalidateIndicator()
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		if ed := ws.ActiveEditor(); ed != nil {
			doc := ed.Document()
			ws.Close(ed.ID())
			g.frames.Forget(doc.ID)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.reloadSkin()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.zoomBy(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		g.zoomBy(-1)
	}

	g.session.Update()
	if ws.TakeIndicatorInvalidation() {
		g.toolbar.SetPreviewIndicator(win.Enabled())
	}
	g.toolbar.SetStatus(ws.ActiveEditor())
	return nil
}

// handleCanvasMouse pans the primary editor with a left drag.
func (g *Game) handleCanvasMouse(msg preview.Message) {
	ws := g.session.Workspace
	ed := ws.ActiveEditor()
	if ed == nil {
		return
	}
	switch {
	case msg.Kind == preview.MsgMouseDown && msg.Button == preview.ButtonLeft:
		g.panning, g.panFrom = true, msg.Pos
	case msg.Kind == preview.MsgMouseMove && g.panning:
		s := ed.Zoom().Scale()
		ws.Scroll(float64(g.panFrom.X-msg.Pos.X)/s, float64(g.panFrom.Y-msg.Pos.Y)/s)
		g.panFrom = msg.Pos
	case msg.Kind == preview.MsgMouseUp:
		g.panning = false
	}
}

func (g *Game) reloadSkin() {
	if g.skinPath == "" {
		return
	}
	theme, err := skin.Load(g.skinPath)
	if err != nil {
		log.Printf("skin: reload %s: %v", g.skinPath, err)
		return
	}
	g.session.SetTheme(theme)
	g.renderer.Icons.SetTheme(theme)
}

func (g *Game) zoomBy(step int) {
	ed := g.session.Workspace.ActiveEditor()
	if ed == nil {
		return
	}
	z := ed.Zoom()
	n := max(1, min(32, z.Num+step))
	g.session.Workspace.SetZoom(editor.Zoom{Num: n, Den: 1})
}

func (g *Game) Draw(screen *ebiten.Image) {
	ws := g.session.Workspace
	l := layoutFor(screen.Bounds().Dx(), screen.Bounds().Dy())
	canvas := common.Rect{W: l.Display.W - l.ToolbarWidth, H: l.Display.H - l.StatusBarHeight}
	ui.DrawEditor(screen, ws.ActiveEditor(), canvas, g.frames)
	g.renderer.Draw(screen, g.session.Preview)
	g.toolbar.UI.Draw(screen)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  arrows: frame/layer  tab: next sprite  w: close  p: preview  +/-: zoom  f5: reload skin", ebiten.ActualFPS()), 4, l.Display.H-statusBarHeight+2)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.session.Workspace.SetLayout(layoutFor(outsideWidth, outsideHeight))
	return outsideWidth, outsideHeight
}

func layoutFor(w, h int) workspace.Layout {
	return workspace.Layout{
		Display:         common.Size{W: w, H: h},
		ToolbarWidth:    toolbarWidth,
		StatusBarHeight: statusBarHeight,
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pixeled.yaml"
	}
	return filepath.Join(dir, "pixeled", "settings.yaml")
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "settings file (created on exit)")
	skinPath := flag.String("skin", "", "optional skin YAML overriding the built-in theme")
	samples := flag.String("samples", strings.Join(sprite.Samples(), ","), "comma separated embedded samples to open")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	theme := skin.Default()
	if *skinPath != "" {
		theme, err = skin.Load(*skinPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	w, h := 1280, 800
	session := app.NewSession(cfg, theme, layoutFor(w, h))
	if err := session.Watch(); err != nil {
		log.Printf("config: not watching %s: %v", cfg.Path(), err)
	}
	session.Preview.SetTrace(func(s string) { log.Print(s) })

	face, err := ui.LoadFace(13)
	if err != nil {
		log.Fatal(err)
	}
	frames := ui.NewFrameCache()
	game := &Game{
		session:  session,
		frames:   frames,
		skinPath: *skinPath,
		renderer: &ui.PreviewRenderer{
			Icons:  ui.NewIcons(theme),
			Frames: frames,
			Face:   face,
		},
	}
	ws := session.Workspace
	win := session.Preview
	game.toolbar = ui.NewToolbar(face, toolbarWidth, ui.ToolbarActions{
		TogglePreview: func() {
			win.SetEnabled(!win.Enabled())
			ws.InvalidateIndicator()
		},
		FreeView:     win.UncheckCenterButton,
		PrevFrame:    func() { ws.StepFrame(-1) },
		NextFrame:    func() { ws.StepFrame(1) },
		NextDocument: ws.ActivateNext,
	})
	game.toolbar.Speed.Resubmit = win.OnPopupSpeed
	ws.SetSpeedMenu(game.toolbar.Speed)
	game.toolbar.SetPreviewIndicator(win.Enabled())

	for _, name := range strings.Split(*samples, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := session.OpenSample(name); err != nil {
			log.Printf("failed to open sample %s: %v", name, err)
		}
	}
	for _, path := range flag.Args() {
		if _, err := session.OpenFile(path); err != nil {
			log.Printf("failed to open %s: %v", path, err)
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("pixeled")

	runErr := ebiten.RunGame(game)
	if err := session.Close(); err != nil {
		log.Printf("failed to save settings: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
