package hal

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// bitField mirrors struct fb_bitfield: where a colour channel sits inside a
// device pixel.
type bitField struct {
	Offset, Length, MsbRight uint32
}

// pixelLayout describes a packed truecolor device pixel.
type pixelLayout struct {
	bytesPerPixel int
	red           bitField
	green         bitField
	blue          bitField
	transp        bitField
}

var layoutRGB565 = pixelLayout{
	bytesPerPixel: 2,
	red:           bitField{Offset: 11, Length: 5},
	green:         bitField{Offset: 5, Length: 6},
	blue:          bitField{Offset: 0, Length: 5},
}

func (l pixelLayout) isRGB565() bool {
	return l.bytesPerPixel == 2 &&
		l.red.Offset == 11 && l.red.Length == 5 &&
		l.green.Offset == 5 && l.green.Length == 6 &&
		l.blue.Offset == 0 && l.blue.Length == 5
}

// put packs r, g, b into dst (little-endian, bytesPerPixel long).
func (l pixelLayout) put(dst []byte, r, g, b uint8) {
	v := channelBits(r, l.red) | channelBits(g, l.green) | channelBits(b, l.blue)
	if l.transp.Length > 0 {
		v |= channelBits(0xFF, l.transp)
	}
	for i := 0; i < l.bytesPerPixel && i < len(dst); i++ {
		dst[i] = byte(v >> (8 * i))
	}
}

func channelBits(c uint8, f bitField) uint32 {
	if f.Length == 0 {
		return 0
	}
	if f.Length >= 8 {
		return uint32(c) << (f.Offset + f.Length - 8)
	}
	return uint32(c>>(8-f.Length)) << f.Offset
}
