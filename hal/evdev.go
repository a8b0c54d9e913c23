package hal

import "encoding/binary"

// Linux input event codes used by the evdev sources.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0x00

	absX            = 0x00
	absY            = 0x01
	absMTSlot       = 0x2f
	absMTPositionX  = 0x35
	absMTPositionY  = 0x36
	absMTTrackingID = 0x39

	keyEsc   = 1
	keyQ     = 16
	btnTouch = 0x14a
)

type inputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// decodeInputEvents decodes whole struct input_event records of the given
// size (16 bytes with a 32-bit timeval, 24 with a 64-bit one). A trailing
// partial record is ignored and its length returned as rest.
func decodeInputEvents(buf []byte, size int) (events []inputEvent, rest int) {
	if size != 16 && size != 24 {
		return nil, len(buf)
	}
	tv := size - 8
	for len(buf) >= size {
		rec := buf[:size]
		events = append(events, inputEvent{
			Type:  binary.LittleEndian.Uint16(rec[tv : tv+2]),
			Code:  binary.LittleEndian.Uint16(rec[tv+2 : tv+4]),
			Value: int32(binary.LittleEndian.Uint32(rec[tv+4 : tv+8])),
		})
		buf = buf[size:]
	}
	return events, len(buf)
}

// absRange is the reported span of an absolute axis.
type absRange struct {
	Min int32
	Max int32
}

// scale maps v from the axis range onto [0, span).
func (r absRange) scale(v int32, span int) int {
	if r.Max <= r.Min {
		return int(v)
	}
	return span * int(v-r.Min) / int(r.Max-r.Min)
}

// evdevDecoder folds an evdev stream into touch and key events. Only the
// primary contact (MT slot 0, or the legacy single-touch axes) is tracked.
type evdevDecoder struct {
	xr, yr absRange
	width  int
	height int

	slot    int32
	x, y    int
	pressed bool
	dirty   bool

	onTouch func(TouchEvent)
	onKey   func(KeyCode, bool)
}

func (d *evdevDecoder) feed(ev inputEvent) {
	switch ev.Type {
	case evSyn:
		if ev.Code == synReport && d.dirty {
			d.dirty = false
			if d.onTouch != nil {
				d.onTouch(TouchEvent{X: d.x, Y: d.y, Pressed: d.pressed})
			}
		}
	case evKey:
		switch ev.Code {
		case btnTouch:
			d.pressed = ev.Value != 0
			d.dirty = true
		case keyEsc:
			d.key(KeyEscape, ev.Value != 0)
		case keyQ:
			d.key(KeyQ, ev.Value != 0)
		}
	case evAbs:
		switch ev.Code {
		case absMTSlot:
			d.slot = ev.Value
		case absX:
			d.x = d.xr.scale(ev.Value, d.width)
			d.dirty = true
		case absY:
			d.y = d.yr.scale(ev.Value, d.height)
			d.dirty = true
		case absMTPositionX:
			if d.slot == 0 {
				d.x = d.xr.scale(ev.Value, d.width)
				d.dirty = true
			}
		case absMTPositionY:
			if d.slot == 0 {
				d.y = d.yr.scale(ev.Value, d.height)
				d.dirty = true
			}
		case absMTTrackingID:
			if d.slot == 0 {
				d.pressed = ev.Value != -1
				d.dirty = true
			}
		}
	}
}

func (d *evdevDecoder) key(code KeyCode, press bool) {
	if d.onKey != nil {
		d.onKey(code, press)
	}
}
