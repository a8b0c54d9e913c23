package hal

import "errors"

var errShortDevice = errors.New("device memory smaller than visible area")

// blitRGB565 converts an RGB565 canvas into packed device pixels. dst rows
// are lineLength bytes apart and the visible area starts at (xoff, yoff).
func blitRGB565(dst []byte, lineLength, xoff, yoff int, layout pixelLayout, src []byte, stride, width, height int) error {
	bpp := layout.bytesPerPixel
	last := (yoff+height-1)*lineLength + (xoff+width)*bpp
	if height > 0 && last > len(dst) {
		return errShortDevice
	}

	fast := layout.isRGB565()
	for y := 0; y < height; y++ {
		srow := src[y*stride : y*stride+width*2]
		doff := (y+yoff)*lineLength + xoff*bpp
		drow := dst[doff : doff+width*bpp]
		if fast {
			copy(drow, srow)
			continue
		}
		for x := 0; x < width; x++ {
			r, g, b := rgb888From565(uint16(srow[2*x]) | uint16(srow[2*x+1])<<8)
			layout.put(drow[x*bpp:], r, g, b)
		}
	}
	return nil
}
