package wheel

import (
	"image"
	"math"
)

// Polar returns the distance of (x, y) from center and its angle in degrees
// within [0, 360). Screen-right is 0 and screen-up is 90.
func Polar(center image.Point, x, y int) (distance, degrees float64) {
	dx := float64(x - center.X)
	dy := float64(center.Y - y)
	distance = math.Hypot(dx, dy)
	degrees = math.Atan2(dy, dx) * 180 / math.Pi
	if degrees < 0 {
		degrees += 360
	}
	return distance, degrees
}

// NormalizeAngle reduces any angle in degrees to a fraction of a turn in
// [0, 1). Non-finite angles map to 0.
func NormalizeAngle(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	f := math.Mod(deg, 360)
	if f < 0 {
		f += 360
	}
	n := f / 360
	if n >= 1 {
		return 0
	}
	return n
}

// Sample is a touch point resolved against a Geometry.
type Sample struct {
	Zone     Zone
	Distance float64
	// Angle is the normalised angle in [0, 1).
	Angle float64
}

// Map resolves a canvas point. Points off the canvas are valid.
func Map(g Geometry, x, y int) Sample {
	d, deg := Polar(g.Center, x, y)
	return Sample{
		Zone:     g.Classify(d),
		Distance: d,
		Angle:    NormalizeAngle(deg),
	}
}
