package hal

import "sort"

// Capacitive controllers of the FocalTech family (FT5x06, FT6x36) and the
// CST816 clones used on round panels share one register block: the number
// of active points at 0x02, then six bytes per point starting at 0x03.
const (
	panelRegCount  = 0x02
	panelRegPoints = 0x03
	panelPointSize = 6
	panelMaxPoints = 5
)

const (
	panelEventDown    = 0
	panelEventUp      = 1
	panelEventContact = 2
)

type panelPoint struct {
	id    int
	x     int
	y     int
	event uint8
}

// panelBus is the one I2C operation the panel needs.
type panelBus interface {
	Tx(w, r []byte) error
}

// readPanel fetches the current point report.
func readPanel(bus panelBus, scratch []byte) ([]panelPoint, error) {
	var count [1]byte
	if err := bus.Tx([]byte{panelRegCount}, count[:]); err != nil {
		return nil, err
	}
	n := int(count[0] & 0x0F)
	if n > panelMaxPoints {
		n = panelMaxPoints
	}
	if n == 0 {
		return nil, nil
	}
	data := scratch[:n*panelPointSize]
	if err := bus.Tx([]byte{panelRegPoints}, data); err != nil {
		return nil, err
	}
	return decodePanelPoints(data, n), nil
}

func decodePanelPoints(data []byte, count int) []panelPoint {
	if count > len(data)/panelPointSize {
		count = len(data) / panelPointSize
	}
	points := make([]panelPoint, 0, count)
	for i := 0; i < count; i++ {
		p := data[i*panelPointSize : (i+1)*panelPointSize]
		points = append(points, panelPoint{
			event: p[0] >> 6,
			x:     int(p[0]&0x0F)<<8 | int(p[1]),
			id:    int(p[2] >> 4),
			y:     int(p[2]&0x0F)<<8 | int(p[3]),
		})
	}
	return points
}

// PanelTransform maps raw controller coordinates onto the canvas for the way
// the panel is mounted. Width and Height are the raw coordinate span.
type PanelTransform struct {
	Width   int
	Height  int
	SwapXY  bool
	InvertX bool
	InvertY bool
}

func (t PanelTransform) apply(x, y int) (int, int) {
	if t.SwapXY {
		x, y = y, x
	}
	if t.InvertX {
		x = t.Width - 1 - x
	}
	if t.InvertY {
		y = t.Height - 1 - y
	}
	return x, y
}

// panelTracker turns successive point reports into touch events. Points that
// vanish from a report without an explicit lift are released at their last
// position.
type panelTracker struct {
	t      PanelTransform
	active map[int]TouchEvent
}

func newPanelTracker(t PanelTransform) *panelTracker {
	return &panelTracker{t: t, active: make(map[int]TouchEvent)}
}

func (p *panelTracker) update(points []panelPoint) []TouchEvent {
	var out []TouchEvent
	seen := make(map[int]bool, len(points))
	for _, pt := range points {
		x, y := p.t.apply(pt.x, pt.y)
		ev := TouchEvent{ID: pt.id, X: x, Y: y, Pressed: pt.event != panelEventUp}
		seen[pt.id] = true
		if ev.Pressed {
			p.active[pt.id] = ev
		} else {
			delete(p.active, pt.id)
		}
		out = append(out, ev)
	}

	var gone []int
	for id := range p.active {
		if !seen[id] {
			gone = append(gone, id)
		}
	}
	sort.Ints(gone)
	for _, id := range gone {
		ev := p.active[id]
		ev.Pressed = false
		delete(p.active, id)
		out = append(out, ev)
	}
	return out
}
