package skin

import (
	"image"

	"github.com/milk9111/spritepreview/common"
)

// Raster draws a part at GUI scale. Glyphs are laid out on the unscaled pixel
// grid and each grid pixel becomes a scale x scale block.
func (t *Theme) Raster(id PartID) *image.RGBA {
	p, ok := t.Part(id)
	if !ok || p.W <= 0 || p.H <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	s := t.GUIScale()
	col := common.ParseHexColor(p.Color)
	inside := glyphMask(p.Glyph, p.W, p.H)

	rgba := image.NewRGBA(image.Rect(0, 0, p.W*s, p.H*s))
	for gy := 0; gy < p.H; gy++ {
		for gx := 0; gx < p.W; gx++ {
			if !inside(gx, gy) {
				continue
			}
			for y := gy * s; y < (gy+1)*s; y++ {
				for x := gx * s; x < (gx+1)*s; x++ {
					rgba.SetRGBA(x, y, col)
				}
			}
		}
	}
	return rgba
}

// glyphMask returns the pixel test for a glyph on a w x h grid with a one
// pixel margin.
func glyphMask(g Glyph, w, h int) func(x, y int) bool {
	x0, y0, x1, y1 := 1, 1, w-2, h-2
	in := func(x, y int) bool { return x >= x0 && x <= x1 && y >= y0 && y <= y1 }
	cx, cy := float64(w-1)/2, float64(h-1)/2

	switch g {
	case GlyphCross:
		side := min(x1-x0, y1-y0)
		oy := y0 + (y1-y0-side)/2
		return func(x, y int) bool {
			dx, dy := x-x0, y-oy
			return in(x, y) && dy >= 0 && dy <= side && (dx == dy || dx == side-dy)
		}
	case GlyphPlay:
		// right-pointing triangle, widest row at the vertical middle
		half := float64(y1-y0) / 2
		return func(x, y int) bool {
			if !in(x, y) {
				return false
			}
			d := float64(y) - cy
			if d < 0 {
				d = -d
			}
			reach := float64(x1-x0) * (1 - d/(half+0.5))
			return float64(x-x0) <= reach
		}
	case GlyphStop:
		return func(x, y int) bool { return in(x, y) && y >= y0+1 && y <= y1-1 }
	case GlyphCenter:
		r := min(cx, cy) - 1
		return func(x, y int) bool {
			dx, dy := float64(x)-cx, float64(y)-cy
			dd := dx*dx + dy*dy
			ring := dd <= r*r && dd >= (r-1)*(r-1)
			return in(x, y) && (ring || dd <= 0.5)
		}
	}
	return func(x, y int) bool { return false }
}
