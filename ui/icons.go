package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spritepreview/skin"
)

// Icons caches the rastered skin parts as GPU images.
type Icons struct {
	theme  *skin.Theme
	images map[skin.PartID]*ebiten.Image
}

func NewIcons(theme *skin.Theme) *Icons {
	return &Icons{theme: theme, images: make(map[skin.PartID]*ebiten.Image)}
}

func (ic *Icons) Image(id skin.PartID) *ebiten.Image {
	if img, ok := ic.images[id]; ok {
		return img
	}
	rgba := ic.theme.Raster(id)
	if rgba.Bounds().Empty() {
		return nil
	}
	img := ebiten.NewImageFromImage(rgba)
	ic.images[id] = img
	return img
}

// SetTheme swaps the skin and drops every cached image.
func (ic *Icons) SetTheme(theme *skin.Theme) {
	for _, img := range ic.images {
		img.Deallocate()
	}
	ic.theme = theme
	ic.images = make(map[skin.PartID]*ebiten.Image)
}
