package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/spritepreview/app"
	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/config"
	"github.com/milk9111/spritepreview/editor"
	"github.com/milk9111/spritepreview/preview"
	"github.com/milk9111/spritepreview/skin"
	"github.com/milk9111/spritepreview/sprite"
	"github.com/milk9111/spritepreview/workspace"
)

//go:embed scenarios/*.tengo
var scenariosFS embed.FS

var simLayout = workspace.Layout{
	Display:         common.Size{W: 800, H: 600},
	ToolbarWidth:    40,
	StatusBarHeight: 20,
}

// Scenarios lists the embedded scenario names.
func Scenarios() []string {
	entries, err := fs.ReadDir(scenariosFS, "scenarios")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// LoadScenario returns the source of an embedded scenario.
func LoadScenario(name string) ([]byte, error) {
	b, err := scenariosFS.ReadFile(path.Join("scenarios", name+".tengo"))
	if err != nil {
		return nil, fmt.Errorf("previewsim: unknown scenario %q", name)
	}
	return b, nil
}

// scriptMenu answers the speed popup with whatever the script queued.
type scriptMenu struct {
	next  *editor.PlaybackOptions
	shown int
}

func (m *scriptMenu) Show(current editor.PlaybackOptions) (editor.PlaybackOptions, bool) {
	m.shown++
	if m.next == nil {
		return current, false
	}
	choice := *m.next
	m.next = nil
	return choice, true
}

// Runner drives a headless session from a tengo script.
type Runner struct {
	Session *app.Session

	menu     *scriptMenu
	failures []string
	logf     func(format string, args ...any)
}

func NewRunner(cfg *config.Store, logf func(format string, args ...any)) *Runner {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	s := app.NewSession(cfg, skin.Default(), simLayout)
	menu := &scriptMenu{}
	s.Workspace.SetSpeedMenu(menu)
	s.Preview.SetTrace(func(msg string) { logf("%s", msg) })
	return &Runner{Session: s, menu: menu, logf: logf}
}

// Run executes src and reports failed expectations as an error.
func (r *Runner) Run(ctx context.Context, name string, src []byte) error {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add("sim", r.engine()); err != nil {
		return err
	}
	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("previewsim: compile %s: %w", name, err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("previewsim: run %s: %w", name, err)
	}
	if len(r.failures) > 0 {
		return fmt.Errorf("previewsim: %s: %s", name, strings.Join(r.failures, "; "))
	}
	return nil
}

// State snapshots what the preview mirrors.
func (r *Runner) State() map[string]any {
	ws := r.Session.Workspace
	win := r.Session.Preview
	st := map[string]any{
		"enabled":         win.Enabled(),
		"visible":         win.Visible(),
		"playing":         win.PlayButton().IsPlaying(),
		"center":          win.CenterButton().Selected(),
		"ref_frame":       int(win.RefFrame()),
		"speed":           win.Speed(),
		"play_once":       r.Session.Config.PlayOnce(),
		"menu_shown":      r.menu.shown,
		"document":        "",
		"primary_frame":   -1,
		"primary_layer":   -1,
		"preview_frame":   -1,
		"preview_layer":   -1,
		"preview_playing": false,
	}
	if ed := ws.ActiveEditor(); ed != nil {
		st["primary_frame"] = int(ed.Frame())
		st["primary_layer"] = ed.Layer()
	}
	if dv := win.DocView(); dv != nil {
		sec := dv.Editor()
		st["document"] = dv.Document().Name
		st["preview_frame"] = int(sec.Frame())
		st["preview_layer"] = sec.Layer()
		st["preview_playing"] = sec.IsPlaying()
	}
	b := win.Bounds()
	st["bounds"] = []any{b.X, b.Y, b.W, b.H}
	return st
}

// Snapshot renders the preview's current frame scaled to its client area.
func (r *Runner) Snapshot() (*image.RGBA, bool) {
	win := r.Session.Preview
	dv := win.DocView()
	if dv == nil {
		return nil, false
	}
	sec := dv.Editor()
	img := sec.Sprite().Thumbnail(sec.Frame(), win.ClientBounds().Size())
	return img, !img.Bounds().Empty()
}

func (r *Runner) click(name string, button preview.MouseButton) error {
	win := r.Session.Preview
	var c preview.DecorativeControl
	switch name {
	case "play":
		c = win.PlayButton()
	case "center":
		c = win.CenterButton()
	case "close":
		c = win.CloseButton()
	default:
		return fmt.Errorf("unknown control %q", name)
	}
	if !win.Visible() {
		return errors.New("preview window is not visible")
	}
	p := c.Bounds().Center()
	win.HandleMessage(preview.Message{Kind: preview.MsgMouseMove, Pos: p})
	win.HandleMessage(preview.Message{Kind: preview.MsgMouseDown, Button: button, Pos: p})
	win.HandleMessage(preview.Message{Kind: preview.MsgMouseUp, Button: button, Pos: p})
	return nil
}

func (r *Runner) engine() *tengo.ImmutableMap {
	ws := r.Session.Workspace
	win := r.Session.Preview
	values := map[string]tengo.Object{}

	values["open"] = &tengo.UserFunction{Name: "open", Value: func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		ed, err := r.Session.OpenSample(name)
		if err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		return &tengo.Int{Value: int64(ed.ID())}, nil
	}}

	values["close_editor"] = &tengo.UserFunction{Name: "close_editor", Value: func(args ...tengo.Object) (tengo.Object, error) {
		ed := ws.ActiveEditor()
		if ed == nil {
			return tengo.FalseValue, nil
		}
		ws.Close(ed.ID())
		return tengo.TrueValue, nil
	}}

	values["next"] = &tengo.UserFunction{Name: "next", Value: func(args ...tengo.Object) (tengo.Object, error) {
		ws.ActivateNext()
		return tengo.UndefinedValue, nil
	}}

	values["set_frame"] = &tengo.UserFunction{Name: "set_frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		ws.SetFrame(sprite.Frame(n))
		return tengo.UndefinedValue, nil
	}}

	values["step"] = &tengo.UserFunction{Name: "step", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		ws.StepFrame(n)
		return tengo.UndefinedValue, nil
	}}

	values["set_layer"] = &tengo.UserFunction{Name: "set_layer", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		ws.SetLayer(n)
		return tengo.UndefinedValue, nil
	}}

	values["scroll"] = &tengo.UserFunction{Name: "scroll", Value: func(args ...tengo.Object) (tengo.Object, error) {
		dx, err := floatArg(args, 0)
		if err != nil {
			return nil, err
		}
		dy, err := floatArg(args, 1)
		if err != nil {
			return nil, err
		}
		ws.Scroll(dx, dy)
		return tengo.UndefinedValue, nil
	}}

	values["zoom"] = &tengo.UserFunction{Name: "zoom", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		ws.SetZoom(editor.Zoom{Num: max(1, n), Den: 1})
		return tengo.UndefinedValue, nil
	}}

	values["enable"] = &tengo.UserFunction{Name: "enable", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		win.SetEnabled(!args[0].IsFalsy())
		ws.InvalidateIndicator()
		return tengo.UndefinedValue, nil
	}}

	values["click"] = &tengo.UserFunction{Name: "click", Value: func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		if err := r.click(name, preview.ButtonLeft); err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		return tengo.TrueValue, nil
	}}

	// speed(multiplier, play_once) right-clicks play and picks from the popup;
	// speed() with no arguments dismisses it.
	values["speed"] = &tengo.UserFunction{Name: "speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		r.menu.next = nil
		if len(args) > 0 {
			m, err := floatArg(args, 0)
			if err != nil {
				return nil, err
			}
			once := len(args) > 1 && !args[1].IsFalsy()
			r.menu.next = &editor.PlaybackOptions{Speed: m, PlayOnce: once}
		}
		if err := r.click("play", preview.ButtonRight); err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		return tengo.TrueValue, nil
	}}

	values["resize"] = &tengo.UserFunction{Name: "resize", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var v [4]int
		for i := range v {
			n, err := intArg(args, i)
			if err != nil {
				return nil, err
			}
			v[i] = n
		}
		win.OnResize(common.NewRect(v[0], v[1], v[2], v[3]))
		return tengo.UndefinedValue, nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n := 1
		if len(args) > 0 {
			v, err := intArg(args, 0)
			if err != nil {
				return nil, err
			}
			n = v
		}
		for range n {
			r.Session.Update()
		}
		return tengo.UndefinedValue, nil
	}}

	values["state"] = &tengo.UserFunction{Name: "state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return tengo.FromInterface(r.State())
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		r.logf("script: %s", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	values["expect"] = &tengo.UserFunction{Name: "expect", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		if !args[0].IsFalsy() {
			return tengo.TrueValue, nil
		}
		msg := "expectation failed"
		if len(args) > 1 {
			msg = objectAsString(args[1])
		}
		r.failures = append(r.failures, msg)
		r.logf("FAIL: %s", msg)
		return tengo.FalseValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return strings.Trim(obj.String(), "\"")
}

func stringArg(args []tengo.Object, i int) (string, error) {
	if len(args) <= i {
		return "", tengo.ErrWrongNumArguments
	}
	s, ok := tengo.ToString(args[i])
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("arg %d", i), Expected: "string", Found: args[i].TypeName()}
	}
	return strings.TrimSpace(s), nil
}

func intArg(args []tengo.Object, i int) (int, error) {
	if len(args) <= i {
		return 0, tengo.ErrWrongNumArguments
	}
	n, ok := tengo.ToInt(args[i])
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("arg %d", i), Expected: "int", Found: args[i].TypeName()}
	}
	return n, nil
}

func floatArg(args []tengo.Object, i int) (float64, error) {
	if len(args) <= i {
		return 0, tengo.ErrWrongNumArguments
	}
	f, ok := tengo.ToFloat64(args[i])
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("arg %d", i), Expected: "float", Found: args[i].TypeName()}
	}
	return f, nil
}
