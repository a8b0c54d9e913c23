package hal

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func encodeInputEvents(size int, evs ...inputEvent) []byte {
	buf := make([]byte, 0, size*len(evs))
	for _, ev := range evs {
		rec := make([]byte, size)
		tv := size - 8
		binary.LittleEndian.PutUint16(rec[tv:], ev.Type)
		binary.LittleEndian.PutUint16(rec[tv+2:], ev.Code)
		binary.LittleEndian.PutUint32(rec[tv+4:], uint32(ev.Value))
		buf = append(buf, rec...)
	}
	return buf
}

func TestDecodeInputEvents(t *testing.T) {
	want := []inputEvent{
		{Type: evAbs, Code: absX, Value: 1234},
		{Type: evAbs, Code: absMTTrackingID, Value: -1},
		{Type: evSyn, Code: synReport},
	}
	for _, size := range []int{16, 24} {
		buf := encodeInputEvents(size, want...)
		buf = append(buf, 1, 2, 3)

		got, rest := decodeInputEvents(buf, size)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("decodeInputEvents(size=%d) = %+v, want %+v", size, got, want)
		}
		if rest != 3 {
			t.Fatalf("decodeInputEvents(size=%d) rest = %d, want 3", size, rest)
		}
	}
}

func TestDecodeInputEventsBadSize(t *testing.T) {
	got, rest := decodeInputEvents(make([]byte, 40), 20)
	if got != nil || rest != 40 {
		t.Fatalf("decodeInputEvents(size=20) = %v, %d, want nil, 40", got, rest)
	}
}

func TestAbsRangeScale(t *testing.T) {
	r := absRange{Min: 0, Max: 4096}
	if got := r.scale(2048, 480); got != 240 {
		t.Fatalf("scale(2048) = %d, want 240", got)
	}
	if got := (absRange{}).scale(77, 480); got != 77 {
		t.Fatalf("empty range scale(77) = %d, want 77", got)
	}
}

func TestEvdevDecoderMultiTouch(t *testing.T) {
	var touches []TouchEvent
	dec := &evdevDecoder{
		xr: absRange{Min: 0, Max: 480}, yr: absRange{Min: 0, Max: 480},
		width: 480, height: 480,
		onTouch: func(ev TouchEvent) { touches = append(touches, ev) },
	}
	for _, ev := range []inputEvent{
		{Type: evAbs, Code: absMTSlot, Value: 0},
		{Type: evAbs, Code: absMTTrackingID, Value: 7},
		{Type: evAbs, Code: absMTPositionX, Value: 100},
		{Type: evAbs, Code: absMTPositionY, Value: 200},
		{Type: evSyn, Code: synReport},
		// A second finger must not move the primary contact.
		{Type: evAbs, Code: absMTSlot, Value: 1},
		{Type: evAbs, Code: absMTPositionX, Value: 400},
		{Type: evSyn, Code: synReport},
		{Type: evAbs, Code: absMTSlot, Value: 0},
		{Type: evAbs, Code: absMTTrackingID, Value: -1},
		{Type: evSyn, Code: synReport},
	} {
		dec.feed(ev)
	}

	want := []TouchEvent{
		{X: 100, Y: 200, Pressed: true},
		{X: 100, Y: 200, Pressed: false},
	}
	if !reflect.DeepEqual(touches, want) {
		t.Fatalf("touches = %+v, want %+v", touches, want)
	}
}

func TestEvdevDecoderSingleTouchAndKeys(t *testing.T) {
	var touches []TouchEvent
	kbd := newChanKeyboard()
	dec := &evdevDecoder{
		xr: absRange{Min: 0, Max: 1000}, yr: absRange{Min: 0, Max: 1000},
		width: 500, height: 500,
		onTouch: func(ev TouchEvent) { touches = append(touches, ev) },
		onKey:   kbd.emit,
	}
	for _, ev := range []inputEvent{
		{Type: evKey, Code: btnTouch, Value: 1},
		{Type: evAbs, Code: absX, Value: 500},
		{Type: evAbs, Code: absY, Value: 100},
		{Type: evSyn, Code: synReport},
		{Type: evKey, Code: keyEsc, Value: 1},
		{Type: evSyn, Code: synReport},
	} {
		dec.feed(ev)
	}

	if len(touches) != 1 || touches[0] != (TouchEvent{X: 250, Y: 50, Pressed: true}) {
		t.Fatalf("touches = %+v, want one press at (250,50)", touches)
	}
	select {
	case ev := <-kbd.Events():
		if ev.Code != KeyEscape || !ev.Press {
			t.Fatalf("key = %+v, want Escape press", ev)
		}
	default:
		t.Fatal("no key event")
	}
}
