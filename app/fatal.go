package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"hyperhue/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// showFatal logs err and paints it onto the display, black on white. Boards
// without a console only have the panel to report on.
func showFatal(h hal.HAL, err error) {
	if h == nil || err == nil {
		return
	}
	if l := h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf("hyperhue: fatal: %v", err))
	}

	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 || fb.Buffer() == nil {
		return
	}
	fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	lineHeight := int16(font.YAdvance)
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 || lineHeight <= 0 {
		_ = fb.Present()
		return
	}

	// Round panels lose their corners; keep text within the middle square.
	margin := int16(fb.Width()) / 7
	cols := (int16(fb.Width()) - 2*margin) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	d := fatalDisplay{fb: fb}
	fg := color.RGBA{A: 255}
	y := margin + lineHeight
	for _, line := range []string{"hyperhue:", err.Error()} {
		for len(line) > 0 && y < int16(fb.Height())-margin {
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, margin, y, chunk, fg)
			y += lineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

// fatalDisplay draws straight into a framebuffer without a surface, which
// may be what failed.
type fatalDisplay struct {
	fb hal.Framebuffer
}

func (d fatalDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d fatalDisplay) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	buf := d.fb.Buffer()
	pixel := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
	off := iy*d.fb.StrideBytes() + ix*2
	if off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d fatalDisplay) Display() error { return nil }

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
