package ui

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/editor"
)

// ToolbarActions are the callbacks the toolbar buttons trigger.
type ToolbarActions struct {
	TogglePreview func()
	FreeView      func()
	PrevFrame     func()
	NextFrame     func()
	NextDocument  func()
}

// Toolbar is the right-hand panel: document status plus the preview
// indicator.
type Toolbar struct {
	UI *ebitenui.UI

	panel      *widget.Container
	docLabel   *widget.Label
	frameLabel *widget.Label
	previewBtn *widget.Button
	Speed      *SpeedPopup
}

func NewToolbar(face text.Face, width int, actions ToolbarActions) *Toolbar {
	fontFace := face
	ui := &ebitenui.UI{}
	ui.PrimaryTheme = newTheme(&fontFace)
	labelColor := &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}

	tb := &Toolbar{UI: ui}
	tb.panel = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width, 0),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(6),
				widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(6)),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
	)

	tb.docLabel = widget.NewLabel(widget.LabelOpts.Text("(no document)", &fontFace, labelColor))
	tb.frameLabel = widget.NewLabel(widget.LabelOpts.Text("", &fontFace, labelColor))
	tb.panel.AddChild(tb.docLabel, tb.frameLabel)

	button := func(label string, fn func()) *widget.Button {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(ui.PrimaryTheme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, &fontFace, ui.PrimaryTheme.ButtonTheme.TextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(width-12, 28),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if fn != nil {
					fn()
				}
			}),
		)
		tb.panel.AddChild(btn)
		return btn
	}
	tb.previewBtn = button("Preview: Off", actions.TogglePreview)
	button("Free view", actions.FreeView)
	button("< Frame", actions.PrevFrame)
	button("Frame >", actions.NextFrame)
	button("Next sprite", actions.NextDocument)

	tb.Speed = newSpeedPopup(ui.PrimaryTheme, &fontFace, labelColor)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	tb.panel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchVertical:    true,
	}
	tb.Speed.container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
	}
	root.AddChild(tb.panel, tb.Speed.container)
	ui.Container = root
	return tb
}

// SetPreviewIndicator redraws the preview toggle label.
func (tb *Toolbar) SetPreviewIndicator(enabled bool) {
	label := "Preview: Off"
	if enabled {
		label = "Preview: On"
	}
	if t := tb.previewBtn.Text(); t != nil {
		t.Label = label
	}
}

// SetStatus shows the active editor's document, frame and layer.
func (tb *Toolbar) SetStatus(ed *editor.Editor) {
	if ed == nil || ed.Document() == nil {
		tb.docLabel.Label = "(no document)"
		tb.frameLabel.Label = ""
		return
	}
	s := ed.Sprite()
	tb.docLabel.Label = ed.Document().Name
	layer := ""
	if l := ed.Layer(); l < len(s.Layers) {
		layer = s.Layers[l].Name
	}
	tb.frameLabel.Label = fmt.Sprintf("frame %d/%d  %s", ed.Frame()+1, s.FrameCount(), layer)
}

// Contains reports whether p falls on a toolbar widget, so canvas input can
// skip it.
func (tb *Toolbar) Contains(p common.Point) bool {
	if tb.Speed.Visible() {
		return true
	}
	r := tb.panel.GetWidget().Rect
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}
