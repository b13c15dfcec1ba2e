package ui

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	panelColor     = color.RGBA{40, 40, 40, 255}
	windowColor    = color.RGBA{28, 28, 34, 255}
	titleBarColor  = color.RGBA{58, 58, 70, 255}
	titleTextColor = colornames.Lightgray
	checkerLight   = color.RGBA{110, 110, 110, 255}
	checkerDark    = color.RGBA{90, 90, 90, 255}
)

// solidNineSlice returns a solid color *image.NineSlice for widget backgrounds.
func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

// LoadFace builds the UI font from the embedded Go Regular TTF.
func LoadFace(size float64) (text.Face, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("ui: load font: %w", err)
	}
	return &text.GoTextFace{Source: s, Size: size}, nil
}

func newTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(panelColor),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{255, 205, 117, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle:     color.Black,
				Hover:    color.Black,
				Pressed:  color.Black,
				Disabled: color.Gray{Y: 128},
			},
		},
	}
}
