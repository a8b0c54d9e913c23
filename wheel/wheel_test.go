package wheel

import (
	"image"
	"math"
	"testing"

	"hyperhue/hal"
)

var scenario = Geometry{Center: image.Pt(240, 247), InnerRadius: 150, OuterRadius: 240, GuardBand: 40}

func TestGeometryValidate(t *testing.T) {
	if err := DefaultGeometry().Validate(); err != nil {
		t.Fatalf("DefaultGeometry().Validate() = %v", err)
	}
	for _, g := range []Geometry{
		{InnerRadius: 150, OuterRadius: 150, GuardBand: 40},
		{InnerRadius: 200, OuterRadius: 150, GuardBand: 40},
		{InnerRadius: 0, OuterRadius: 150, GuardBand: 1},
		{InnerRadius: 150, OuterRadius: 240, GuardBand: 0},
		{InnerRadius: 150, OuterRadius: 240, GuardBand: 150},
	} {
		if err := g.Validate(); err == nil {
			t.Fatalf("Validate(%+v) = nil, want error", g)
		}
	}
}

func TestGeometryScale(t *testing.T) {
	got := DefaultGeometry().Scale(0.5)
	want := Geometry{Center: image.Pt(120, 124), InnerRadius: 75, OuterRadius: 120, GuardBand: 20}
	if got != want {
		t.Fatalf("Scale(0.5) = %+v, want %+v", got, want)
	}
}

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		d    float64
		want Zone
	}{
		{0, ZoneValue},
		{109.9, ZoneValue},
		{110, ZoneGuard},
		{130, ZoneGuard},
		{150, ZoneGuard},
		{150.1, ZoneHue},
		{240, ZoneHue},
		{5000, ZoneHue},
	} {
		if got := scenario.Classify(tc.d); got != tc.want {
			t.Fatalf("Classify(%v) = %v, want %v", tc.d, got, tc.want)
		}
	}
}

func TestPolar(t *testing.T) {
	c := image.Pt(10, 10)
	for _, tc := range []struct {
		x, y   int
		d, deg float64
	}{
		{20, 10, 10, 0},
		{10, 0, 10, 90},
		{0, 10, 10, 180},
		{10, 20, 10, 270},
		{13, 14, 5, 360 - math.Atan2(4, 3)*180/math.Pi},
	} {
		d, deg := Polar(c, tc.x, tc.y)
		if math.Abs(d-tc.d) > 1e-9 || math.Abs(deg-tc.deg) > 1e-9 {
			t.Fatalf("Polar(%d,%d) = (%v,%v), want (%v,%v)", tc.x, tc.y, d, deg, tc.d, tc.deg)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	for _, tc := range []struct {
		deg, want float64
	}{
		{0, 0},
		{90, 0.25},
		{180, 0.5},
		{360, 0},
		{720 + 90, 0.25},
		{-90, 0.75},
		{-720 - 180, 0.5},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	} {
		if got := NormalizeAngle(tc.deg); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("NormalizeAngle(%v) = %v, want %v", tc.deg, got, tc.want)
		}
	}
	for deg := -3600.0; deg <= 3600; deg += 7.3 {
		if got := NormalizeAngle(deg); got < 0 || got >= 1 {
			t.Fatalf("NormalizeAngle(%v) = %v, outside [0,1)", deg, got)
		}
	}
	if got := NormalizeAngle(-1e-15); got < 0 || got >= 1 {
		t.Fatalf("NormalizeAngle(-1e-15) = %v, outside [0,1)", got)
	}
}

func TestScenario(t *testing.T) {
	c := scenario.Center

	s := NewState(Color{Hue: 0.1, Value: 0.9})
	if s.Apply(Map(scenario, c.X-150, c.Y)) {
		t.Fatal("touch at distance 150 changed state")
	}
	if got := s.Color(); got != (Color{Hue: 0.1, Value: 0.9}) {
		t.Fatalf("Color() = %v after guard touch", got)
	}

	s.Apply(Map(scenario, c.X-100, c.Y))
	if got := s.Color(); got.Value != 0.5 || got.Hue != 0.1 {
		t.Fatalf("Color() = %v, want value 0.5 hue 0.1", got)
	}

	s.Apply(Map(scenario, c.X, c.Y-200))
	if got := s.Color(); math.Abs(got.Hue-0.25) > 1e-9 || got.Value != 0.5 {
		t.Fatalf("Color() = %v, want hue 0.25 value 0.5", got)
	}
}

func TestGuardBandIsNoOp(t *testing.T) {
	for _, prior := range []Color{DefaultColor(), {Hue: 0.3, Value: 0.7}, {}} {
		s := NewState(prior)
		for deg := 0; deg < 360; deg += 15 {
			for _, r := range []float64{110, 125, 149.5} {
				theta := float64(deg) * math.Pi / 180
				x := scenario.Center.X + int(math.Round(r*math.Cos(theta)))
				y := scenario.Center.Y - int(math.Round(r*math.Sin(theta)))
				smp := Map(scenario, x, y)
				if smp.Zone != ZoneGuard {
					continue
				}
				if s.Apply(smp) {
					t.Fatalf("guard touch (%d,%d) changed state", x, y)
				}
			}
		}
		if got := s.Color(); got != prior {
			t.Fatalf("Color() = %v, want %v", got, prior)
		}
	}
}

func TestZonesUpdateOneComponent(t *testing.T) {
	c := scenario.Center
	for _, p := range []image.Point{{c.X + 50, c.Y - 50}, {c.X - 3, c.Y + 90}, {c.X + 1, c.Y}} {
		s := NewState(Color{Hue: 0.4, Value: 0.2})
		_, deg := Polar(c, p.X, p.Y)
		s.Apply(Map(scenario, p.X, p.Y))
		got := s.Color()
		if got.Hue != 0.4 || got.Value != NormalizeAngle(deg) {
			t.Fatalf("value touch %v: Color() = %v", p, got)
		}
	}
	for _, p := range []image.Point{{c.X + 200, c.Y}, {c.X - 120, c.Y + 120}, {-1000, -1000}} {
		s := NewState(Color{Hue: 0.4, Value: 0.2})
		_, deg := Polar(c, p.X, p.Y)
		s.Apply(Map(scenario, p.X, p.Y))
		got := s.Color()
		if got.Value != 0.2 || got.Hue != NormalizeAngle(deg) {
			t.Fatalf("hue touch %v: Color() = %v", p, got)
		}
	}
}

func TestHSV(t *testing.T) {
	for _, tc := range []struct {
		h, s, v float64
		r, g, b uint8
	}{
		{0, 1, 1, 255, 0, 0},
		{0.25, 1, 1, 127, 255, 0},
		{0.5, 1, 1, 0, 255, 255},
		{0, 1, 0.5, 127, 0, 0},
		{1, 1, 1, 255, 0, 0},
		{0.3, 1, 0, 0, 0, 0},
	} {
		got := HSV(tc.h, tc.s, tc.v)
		if got.R != tc.r || got.G != tc.g || got.B != tc.b || got.A != 0xFF {
			t.Fatalf("HSV(%v,%v,%v) = %v, want (%d,%d,%d)", tc.h, tc.s, tc.v, got, tc.r, tc.g, tc.b)
		}
	}
	if got := Hex(HSV(0.5, 1, 1)); got != "#00ffff" {
		t.Fatalf("Hex() = %q, want #00ffff", got)
	}
}

func TestControllerTouch(t *testing.T) {
	ctrl, err := NewController(scenario, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	c := scenario.Center
	ctrl.Touch(hal.TouchEvent{X: c.X - 100, Y: c.Y, Pressed: true})
	ctrl.Touch(hal.TouchEvent{X: c.X - 150, Y: c.Y, Pressed: true})
	ctrl.Touch(hal.TouchEvent{X: c.X, Y: c.Y - 200, Pressed: false})

	if got := ctrl.State().Color(); got.Value != 0.5 || math.Abs(got.Hue-0.25) > 1e-9 {
		t.Fatalf("Color() = %v, want hue 0.25 value 0.5", got)
	}
	if n, ignored := ctrl.Stats(); n != 3 || ignored != 1 {
		t.Fatalf("Stats() = %d, %d, want 3, 1", n, ignored)
	}

	if _, err := NewController(Geometry{}, nil); err == nil {
		t.Fatal("NewController(zero geometry) err = nil")
	}
}
