package hal

import (
	"errors"
	"reflect"
	"testing"
)

type fakePanelBus struct {
	regs map[byte][]byte
	err  error
}

func (b *fakePanelBus) Tx(w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	copy(r, b.regs[w[0]])
	return nil
}

func TestDecodePanelPoints(t *testing.T) {
	data := []byte{
		0x81, 0x2C, 0x10, 0xF0, 0, 0, // contact 1 touching at (0x12C, 0x0F0)
		0x40, 0x05, 0x21, 0x02, 0, 0, // contact 2 lifted at (0x005, 0x102)
	}
	got := decodePanelPoints(data, 2)
	want := []panelPoint{
		{id: 1, x: 0x12C, y: 0x0F0, event: panelEventContact},
		{id: 2, x: 0x005, y: 0x102, event: panelEventUp},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("decodePanelPoints() = %+v, want %+v", got, want)
	}
}

func TestDecodePanelPointsShortBuffer(t *testing.T) {
	got := decodePanelPoints(make([]byte, 7), 3)
	if len(got) != 1 {
		t.Fatalf("decodePanelPoints() len = %d, want 1", len(got))
	}
}

func TestReadPanel(t *testing.T) {
	bus := &fakePanelBus{regs: map[byte][]byte{
		panelRegCount:  {0x01},
		panelRegPoints: {0x00, 0x64, 0x00, 0xC8, 0, 0},
	}}
	points, err := readPanel(bus, make([]byte, panelMaxPoints*panelPointSize))
	if err != nil {
		t.Fatalf("readPanel: %v", err)
	}
	if len(points) != 1 || points[0].x != 100 || points[0].y != 200 {
		t.Fatalf("readPanel() = %+v, want one point at (100,200)", points)
	}

	bus.regs[panelRegCount] = []byte{0x00}
	points, err = readPanel(bus, make([]byte, panelMaxPoints*panelPointSize))
	if err != nil || points != nil {
		t.Fatalf("readPanel() = %v, %v, want nil, nil", points, err)
	}

	bus.err = errors.New("nack")
	if _, err := readPanel(bus, make([]byte, panelMaxPoints*panelPointSize)); err == nil {
		t.Fatal("readPanel() err = nil, want bus error")
	}
}

func TestPanelTransform(t *testing.T) {
	tr := PanelTransform{Width: 480, Height: 480, SwapXY: true, InvertX: true}
	x, y := tr.apply(10, 20)
	if x != 459 || y != 10 {
		t.Fatalf("apply(10,20) = (%d,%d), want (459,10)", x, y)
	}
}

func TestPanelTrackerReleasesVanishedPoints(t *testing.T) {
	tr := newPanelTracker(PanelTransform{Width: 480, Height: 480})

	evs := tr.update([]panelPoint{{id: 0, x: 5, y: 6, event: panelEventDown}})
	if len(evs) != 1 || !evs[0].Pressed {
		t.Fatalf("update(down) = %+v, want one pressed event", evs)
	}

	evs = tr.update(nil)
	want := []TouchEvent{{ID: 0, X: 5, Y: 6, Pressed: false}}
	if !reflect.DeepEqual(evs, want) {
		t.Fatalf("update(nil) = %+v, want %+v", evs, want)
	}

	if evs := tr.update(nil); len(evs) != 0 {
		t.Fatalf("update(nil) again = %+v, want none", evs)
	}
}

func TestPanelTrackerExplicitLift(t *testing.T) {
	tr := newPanelTracker(PanelTransform{})
	tr.update([]panelPoint{{id: 3, x: 1, y: 1, event: panelEventContact}})
	evs := tr.update([]panelPoint{{id: 3, x: 2, y: 2, event: panelEventUp}})
	if len(evs) != 1 || evs[0].Pressed || evs[0].X != 2 {
		t.Fatalf("update(up) = %+v, want single release at x=2", evs)
	}
	if len(tr.active) != 0 {
		t.Fatalf("active = %v, want empty", tr.active)
	}
}
