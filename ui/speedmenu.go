package ui

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/spritepreview/editor"
)

// SpeedPopup is the speed menu behind a right click on the preview's play
// button. The first Show opens the popup and reports no choice; once the user
// picks a speed the popup calls Resubmit, and the next Show returns the pick.
type SpeedPopup struct {
	container *widget.Container
	onceBtn   *widget.Button

	playOnce bool
	pending  *editor.PlaybackOptions

	// Resubmit re-runs the request that opened the popup.
	Resubmit func()
}

func newSpeedPopup(theme *widget.Theme, fontFace *text.Face, labelColor *widget.LabelColor) *SpeedPopup {
	sp := &SpeedPopup{}
	sp.container = widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(4),
				widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(8)),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{24, 24, 24, 240})),
	)
	sp.container.AddChild(widget.NewLabel(widget.LabelOpts.Text("Playback speed", fontFace, labelColor)))

	button := func(label string, fn func()) *widget.Button {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(120, 24),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				fn()
			}),
		)
		sp.container.AddChild(btn)
		return btn
	}
	for _, v := range editor.SpeedChoices {
		button(fmt.Sprintf("%gx", v), func() { sp.choose(v) })
	}
	sp.onceBtn = button("Play once: Off", func() {
		sp.playOnce = !sp.playOnce
		sp.updateOnceLabel()
	})
	button("Cancel", sp.hide)
	sp.hide()
	return sp
}

// Show implements workspace.SpeedMenu.
func (sp *SpeedPopup) Show(current editor.PlaybackOptions) (editor.PlaybackOptions, bool) {
	if sp.pending != nil {
		choice := *sp.pending
		sp.pending = nil
		return choice, true
	}
	sp.playOnce = current.PlayOnce
	sp.updateOnceLabel()
	sp.container.GetWidget().Visibility = widget.Visibility_Show
	return current, false
}

func (sp *SpeedPopup) Visible() bool {
	return sp.container.GetWidget().Visibility == widget.Visibility_Show
}

func (sp *SpeedPopup) choose(speed float64) {
	sp.pending = &editor.PlaybackOptions{Speed: speed, PlayOnce: sp.playOnce}
	sp.hide()
	if sp.Resubmit != nil {
		sp.Resubmit()
	}
	sp.pending = nil
}

func (sp *SpeedPopup) hide() {
	sp.container.GetWidget().Visibility = widget.Visibility_Hide
}

func (sp *SpeedPopup) updateOnceLabel() {
	label := "Play once: Off"
	if sp.playOnce {
		label = "Play once: On"
	}
	if t := sp.onceBtn.Text(); t != nil {
		t.Label = label
	}
}
