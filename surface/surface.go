// Package surface draws primitives into an RGB565 hal.Framebuffer.
package surface

import (
	"errors"
	"image"
	"image/color"
	"math"

	"hyperhue/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	ErrNoFramebuffer     = errors.New("surface: no framebuffer")
	ErrUnsupportedFormat = errors.New("surface: framebuffer is not RGB565")
)

// Surface is a canvas over a framebuffer. Drawing is clipped to the
// framebuffer bounds; nothing reaches the output until Present.
type Surface struct {
	fb     hal.Framebuffer
	buf    []byte
	stride int
	w      int
	h      int
}

var _ drivers.Displayer = (*Surface)(nil)

func New(fb hal.Framebuffer) (*Surface, error) {
	if fb == nil {
		return nil, ErrNoFramebuffer
	}
	if fb.Format() != hal.PixelFormatRGB565 {
		return nil, ErrUnsupportedFormat
	}
	buf := fb.Buffer()
	if buf == nil || fb.Width() <= 0 || fb.Height() <= 0 {
		return nil, ErrNoFramebuffer
	}
	return &Surface{
		fb:     fb,
		buf:    buf,
		stride: fb.StrideBytes(),
		w:      fb.Width(),
		h:      fb.Height(),
	}, nil
}

func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }

// Present pushes the canvas to the output.
func (s *Surface) Present() error { return s.fb.Present() }

func (s *Surface) Fill(c color.RGBA) {
	s.fb.ClearRGB(c.R, c.G, c.B)
}

// FillCircle fills a disk of radius r around center.
func (s *Surface) FillCircle(center image.Point, r int, c color.RGBA) {
	if r < 0 {
		return
	}
	pixel := rgb565From888(c.R, c.G, c.B)
	for y := -r; y <= r; y++ {
		dx := int(math.Sqrt(float64(r*r - y*y)))
		s.fillRect(center.X-dx, center.Y+y, dx*2+1, 1, pixel)
	}
}

// Line draws a segment from a to b. Widths above one stamp a square brush
// centred on the path.
func (s *Surface) Line(a, b image.Point, c color.RGBA, width int) {
	pixel := rgb565From888(c.R, c.G, c.B)
	if width <= 1 {
		s.walkLine(a, b, func(x, y int) { s.setPixel(x, y, pixel) })
		return
	}
	off := width / 2
	s.walkLine(a, b, func(x, y int) { s.fillRect(x-off, y-off, width, width, pixel) })
}

// walkLine visits every Bresenham step from a to b.
func (s *Surface) walkLine(a, b image.Point, plot func(x, y int)) {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Text draws s centred on center using a small bitmap font.
func (s *Surface) Text(center image.Point, text string, c color.RGBA) {
	font := &proggy.TinySZ8pt7b
	_, w := tinyfont.LineWidth(font, text)
	x := int16(center.X) - int16(w/2)
	// tinyfont positions text by its baseline.
	y := int16(center.Y) + int16(font.YAdvance)/3
	tinyfont.WriteLine(s, font, x, y, text, c)
}

// RGBAAt reads back a pixel, expanded from RGB565.
func (s *Surface) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return color.RGBA{}
	}
	off := y*s.stride + x*2
	p := uint16(s.buf[off]) | uint16(s.buf[off+1])<<8
	r := uint8(((p >> 11) & 0x1F) * 255 / 31)
	g := uint8(((p >> 5) & 0x3F) * 255 / 63)
	b := uint8((p & 0x1F) * 255 / 31)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// Size, SetPixel and Display make the surface a drivers.Displayer.

func (s *Surface) Size() (x, y int16) { return int16(s.w), int16(s.h) }

func (s *Surface) SetPixel(x, y int16, c color.RGBA) {
	s.setPixel(int(x), int(y), rgb565From888(c.R, c.G, c.B))
}

func (s *Surface) Display() error { return s.Present() }

func (s *Surface) setPixel(x, y int, pixel uint16) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return
	}
	off := y*s.stride + x*2
	s.buf[off] = byte(pixel)
	s.buf[off+1] = byte(pixel >> 8)
}

func (s *Surface) fillRect(x0, y0, w, h int, pixel uint16) {
	x1 := minInt(x0+w, s.w)
	y1 := minInt(y0+h, s.h)
	x0 = maxInt(x0, 0)
	y0 = maxInt(y0, 0)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for y := y0; y < y1; y++ {
		row := y * s.stride
		for x := x0; x < x1; x++ {
			off := row + x*2
			s.buf[off] = lo
			s.buf[off+1] = hi
		}
	}
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
