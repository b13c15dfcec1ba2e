package ui

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/spritepreview/common"
	"github.com/milk9111/spritepreview/editor"
	"github.com/milk9111/spritepreview/sprite"
)

type frameKey struct {
	doc   sprite.DocumentID
	frame sprite.Frame
}

// FrameCache holds one composited image per document frame.
type FrameCache struct {
	images map[frameKey]*ebiten.Image
}

func NewFrameCache() *FrameCache {
	return &FrameCache{images: make(map[frameKey]*ebiten.Image)}
}

func (c *FrameCache) Frame(doc *sprite.Document, f sprite.Frame) *ebiten.Image {
	key := frameKey{doc: doc.ID, frame: f}
	if img, ok := c.images[key]; ok {
		return img
	}
	rgba := doc.Sprite.Composite(f)
	if rgba.Bounds().Empty() {
		return nil
	}
	img := ebiten.NewImageFromImage(rgba)
	c.images[key] = img
	return img
}

// Forget drops the cached frames of doc, e.g. after it is closed.
func (c *FrameCache) Forget(doc sprite.DocumentID) {
	for k, img := range c.images {
		if k.doc == doc {
			img.Deallocate()
			delete(c.images, k)
		}
	}
}

// DrawEditor draws ed's current frame into area of dst, honoring its zoom and
// scroll. Everything outside area is clipped.
func DrawEditor(dst *ebiten.Image, ed *editor.Editor, area common.Rect, cache *FrameCache) {
	if ed == nil || ed.Document() == nil || area.IsEmpty() {
		return
	}
	clip := image.Rect(area.X, area.Y, area.X2(), area.Y2()).Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	sub := dst.SubImage(clip).(*ebiten.Image)

	s := ed.Sprite()
	x0, y0 := ed.SpriteToScreen(0, 0)
	x1, y1 := ed.SpriteToScreen(float64(s.Width), float64(s.Height))
	ox, oy := float64(area.X), float64(area.Y)
	bg := image.Rect(int(ox+x0), int(oy+y0), int(ox+x1), int(oy+y1)).Intersect(clip)
	drawChecker(sub, bg)

	img := cache.Frame(ed.Document(), ed.Frame())
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(ed.Zoom().Scale(), ed.Zoom().Scale())
	op.GeoM.Translate(ox+x0, oy+y0)
	op.Filter = ebiten.FilterNearest
	sub.DrawImage(img, op)
}

// drawChecker fills r with a screen-aligned checkerboard.
func drawChecker(dst *ebiten.Image, r image.Rectangle) {
	if r.Empty() {
		return
	}
	vector.FillRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), checkerLight, false)
	const cell = 8
	for y := r.Min.Y - r.Min.Y%cell; y < r.Max.Y; y += cell {
		for x := r.Min.X - r.Min.X%cell; x < r.Max.X; x += cell {
			if (x/cell+y/cell)%2 == 0 {
				continue
			}
			c := image.Rect(x, y, x+cell, y+cell).Intersect(r)
			vector.FillRect(dst, float32(c.Min.X), float32(c.Min.Y), float32(c.Dx()), float32(c.Dy()), checkerDark, false)
		}
	}
}
