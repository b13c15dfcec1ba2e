package common

import (
	"fmt"
	"image/color"
)

// ParseHexColor parses "#rrggbb" or "#rrggbbaa". Anything else yields opaque
// magenta so bad palette entries stand out.
func ParseHexColor(s string) color.RGBA {
	c := color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	var r, g, b, a uint32
	switch {
	case len(s) == 7 && s[0] == '#':
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err == nil {
			c = color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
		}
	case len(s) == 9 && s[0] == '#':
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x%02x", &r, &g, &b, &a); err == nil {
			c = color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
		}
	}
	return c
}
