//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/gc9a01"
)

// RoundLCDSize is the edge length of the GC9A01 panel.
const RoundLCDSize = 240

type roundLCDHAL struct {
	logger printLogger
	fb     *roundLCDFramebuffer
	touch  *touchHub
}

// New returns the HAL of an RP2040 board with a 240×240 GC9A01 round LCD and
// a CST816 touch controller (Waveshare RP2040-Touch-LCD-1.28 wiring).
//
// LCD: SPI1 GP10 (SCK) / GP11 (SDO), DC GP8, CS GP9, RST GP12, BL GP25.
// Touch: I2C1 GP6 (SDA) / GP7 (SCL), address 0x15.
func New() HAL {
	machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		Frequency: 40_000_000,
	})
	lcd := gc9a01.New(machine.SPI1, machine.GP12, machine.GP8, machine.GP9, machine.GP25)
	lcd.Configure(gc9a01.Config{})

	h := &roundLCDHAL{
		fb: &roundLCDFramebuffer{
			memFramebuffer: newMemFramebuffer(RoundLCDSize, RoundLCDSize),
			lcd:            &lcd,
			chunk:          make([]byte, RoundLCDSize*2*roundLCDChunkRows),
		},
		touch: &touchHub{},
	}

	err := machine.I2C1.Configure(machine.I2CConfig{
		SDA:       machine.GP6,
		SCL:       machine.GP7,
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		h.logger.WriteLineString("touch: i2c: " + err.Error())
		return h
	}
	go pollRoundLCDTouch(&i2cPanel{bus: machine.I2C1, addr: 0x15}, h.touch)
	return h
}

func (h *roundLCDHAL) Logger() Logger   { return h.logger }
func (h *roundLCDHAL) Display() Display { return display{fb: h.fb} }
func (h *roundLCDHAL) Input() Input     { return input{touch: h.touch} }
func (h *roundLCDHAL) Close() error     { return nil }

const roundLCDChunkRows = 8

type roundLCDFramebuffer struct {
	*memFramebuffer

	lcd   *gc9a01.Device
	chunk []byte
}

// Present streams the canvas to the panel a few rows at a time. The canvas
// is little-endian RGB565, the panel wants big-endian.
func (f *roundLCDFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rowBytes := f.width * 2
	for y := 0; y < f.height; y += roundLCDChunkRows {
		rows := roundLCDChunkRows
		if y+rows > f.height {
			rows = f.height - y
		}
		n := rows * rowBytes
		src := f.buf[y*f.stride : y*f.stride+n]
		dst := f.chunk[:n]
		for i := 0; i+1 < n; i += 2 {
			dst[i] = src[i+1]
			dst[i+1] = src[i]
		}
		if err := f.lcd.DrawRGBBitmap8(0, int16(y), dst, int16(f.width), int16(rows)); err != nil {
			return err
		}
	}
	f.frames++
	return nil
}

type i2cPanel struct {
	bus  drivers.I2C
	addr uint16
}

func (p *i2cPanel) Tx(w, r []byte) error { return p.bus.Tx(p.addr, w, r) }

func pollRoundLCDTouch(p *i2cPanel, hub *touchHub) {
	tr := newPanelTracker(PanelTransform{Width: RoundLCDSize, Height: RoundLCDSize})
	scratch := make([]byte, panelMaxPoints*panelPointSize)
	for {
		points, err := readPanel(p, scratch)
		if err == nil {
			for _, ev := range tr.update(points) {
				hub.emit(ev)
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type printLogger struct{}

func (printLogger) WriteLineString(s string) { println(s) }
func (printLogger) WriteLineBytes(b []byte)  { println(string(b)) }
