package sprite

import (
	"image"
	"unicode/utf8"

	"github.com/milk9111/spritepreview/common"
	"golang.org/x/image/draw"
)

// Composite flattens the visible layers of frame f, bottom layer first.
// Runes missing from the palette are transparent.
func (s *Sprite) Composite(f Frame) *image.RGBA {
	if s == nil || s.Width <= 0 || s.Height <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	colors := make(map[rune]*image.Uniform, len(s.Palette))
	for k, hex := range s.Palette {
		r, _ := utf8.DecodeRuneInString(k)
		colors[r] = image.NewUniform(common.ParseHexColor(hex))
	}
	for l, layer := range s.Layers {
		if layer.Hidden {
			continue
		}
		cel := s.Cel(l, f)
		if cel == nil {
			continue
		}
		for y, row := range cel.Rows {
			x := 0
			for _, r := range row {
				if src, ok := colors[r]; ok {
					p := image.Pt(cel.X+x, cel.Y+y)
					draw.Draw(dst, image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}, src, image.Point{}, draw.Over)
				}
				x++
			}
		}
	}
	return dst
}

// Thumbnail renders frame f scaled to fit within size, keeping pixels square.
func (s *Sprite) Thumbnail(f Frame, size common.Size) *image.RGBA {
	src := s.Composite(f)
	sb := src.Bounds()
	if sb.Empty() || size.W <= 0 || size.H <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	k := max(1, min(size.W/sb.Dx(), size.H/sb.Dy()))
	dst := image.NewRGBA(image.Rect(0, 0, sb.Dx()*k, sb.Dy()*k))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}
