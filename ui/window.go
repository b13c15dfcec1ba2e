package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/spritepreview/preview"
)

// PreviewRenderer draws the floating preview window.
type PreviewRenderer struct {
	Icons  *Icons
	Frames *FrameCache
	Face   text.Face
}

func (r *PreviewRenderer) Draw(screen *ebiten.Image, w *preview.Window) {
	if !w.Visible() {
		return
	}
	b := w.Bounds()
	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), windowColor, false)

	tb := w.ClientBounds().Y - b.Y
	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(tb), titleBarColor, false)
	if r.Face != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(b.X+6), float64(b.Y+3))
		op.ColorScale.ScaleWithColor(titleTextColor)
		text.Draw(screen, r.title(w), r.Face, op)
	}

	if dv := w.DocView(); dv != nil {
		DrawEditor(screen, dv.Editor(), w.ClientBounds(), r.Frames)
	}

	for _, c := range w.Controls() {
		img := r.Icons.Image(c.Part())
		if img == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		cb := c.Bounds()
		op.GeoM.Translate(float64(cb.X), float64(cb.Y))
		screen.DrawImage(img, op)
	}
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, titleBarColor, false)
}

func (r *PreviewRenderer) title(w *preview.Window) string {
	ed := w.DocView().Editor()
	if ed == nil {
		return "Preview"
	}
	return fmt.Sprintf("%d/%d", ed.Frame()+1, ed.Sprite().FrameCount())
}
