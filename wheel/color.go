package wheel

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV converts a colour with h, s and v in [0, 1] to opaque RGBA. A hue of 1
// wraps to 0. Channels are truncated, not rounded.
func HSV(h, s, v float64) color.RGBA {
	h = clamp01(h)
	if h >= 1 {
		h = 0
	}
	c := colorful.Hsv(h*360, clamp01(s), clamp01(v))
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 0xFF}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func channel(v float64) uint8 {
	return uint8(clamp01(v) * 255)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
