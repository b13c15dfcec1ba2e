package skin

import (
	"strings"
	"testing"

	"github.com/milk9111/spritepreview/common"
)

func TestDefaultTheme(t *testing.T) {
	th := Default()
	if th.GUIScale() != 2 {
		t.Fatalf("GUIScale = %d", th.GUIScale())
	}
	if got := th.Size(WindowPlayNormal); got != (common.Size{W: 18, H: 22}) {
		t.Fatalf("Size(play) = %v", got)
	}
	if th.MiniScrollbarSize() != 12 {
		t.Fatalf("MiniScrollbarSize = %d", th.MiniScrollbarSize())
	}
	p, ok := th.Part(WindowStopHot)
	if !ok || p.Glyph != GlyphStop {
		t.Fatalf("Part(stop hot) = %+v ok=%v", p, ok)
	}
}

func TestPick(t *testing.T) {
	cases := []struct {
		hot, selected bool
		want          PartID
	}{
		{false, false, WindowPlayNormal},
		{true, false, WindowPlayHot},
		{true, true, WindowPlaySelected},
		{false, true, WindowPlaySelected},
	}
	for _, c := range cases {
		if got := PlayPartSet.Pick(c.hot, c.selected); got != c.want {
			t.Fatalf("Pick(%v,%v) = %s, want %s", c.hot, c.selected, got, c.want)
		}
	}
}

func TestParseMissingPart(t *testing.T) {
	_, err := Parse([]byte("scale: 1\nparts:\n  window_close_button_normal: {w: 1, h: 1}\n"))
	if err == nil || !strings.Contains(err.Error(), "missing part") {
		t.Fatalf("expected missing part error, got %v", err)
	}
}

func TestRaster(t *testing.T) {
	th := Default()
	cases := []struct {
		id     PartID
		gx, gy int
	}{
		// grid pixels known to be inside each glyph
		{WindowCloseNormal, 1, 2},
		{WindowPlayNormal, 1, 5},
		{WindowStopHot, 4, 5},
		{WindowCenterSelected, 4, 5},
	}
	for _, c := range cases {
		t.Run(string(c.id), func(t *testing.T) {
			img := th.Raster(c.id)
			if got := img.Bounds().Size(); got.X != 18 || got.Y != 22 {
				t.Fatalf("size = %v", got)
			}
			p, _ := th.Part(c.id)
			want := common.ParseHexColor(p.Color)
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					if got := img.RGBAAt(c.gx*2+dx, c.gy*2+dy); got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", c.gx*2+dx, c.gy*2+dy, got, want)
					}
				}
			}
			if img.RGBAAt(0, 0).A != 0 {
				t.Fatalf("margin not transparent")
			}
		})
	}
}
