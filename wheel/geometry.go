// Package wheel maps touches on a round display to a hue/value colour and
// redraws the colour wheel at a fixed cadence.
package wheel

import (
	"errors"
	"fmt"
	"image"
)

var ErrInvalidGeometry = errors.New("wheel: invalid geometry")

// Geometry places the wheel on the canvas. Center may be offset from the
// canvas middle to calibrate a panel.
type Geometry struct {
	Center      image.Point
	InnerRadius int
	OuterRadius int
	// GuardBand is the width of the dead ring just inside InnerRadius.
	GuardBand int
}

// minInnerRadius keeps the black centre disk (InnerRadius-30) non-empty.
const minInnerRadius = 31

// DefaultGeometry fits a 480x480 round panel.
func DefaultGeometry() Geometry {
	return Geometry{
		Center:      image.Pt(240, 247),
		InnerRadius: 150,
		OuterRadius: 240,
		GuardBand:   40,
	}
}

func (g Geometry) Validate() error {
	switch {
	case g.InnerRadius < minInnerRadius:
		return fmt.Errorf("%w: inner radius %d is below %d", ErrInvalidGeometry, g.InnerRadius, minInnerRadius)
	case g.OuterRadius <= g.InnerRadius:
		return fmt.Errorf("%w: outer radius %d must exceed inner radius %d", ErrInvalidGeometry, g.OuterRadius, g.InnerRadius)
	case g.GuardBand <= 0 || g.GuardBand >= g.InnerRadius:
		return fmt.Errorf("%w: guard band %d must be in (0, %d)", ErrInvalidGeometry, g.GuardBand, g.InnerRadius)
	}
	return nil
}

// Scale returns g resized by f around the origin. Used to fit the 480px
// layout onto smaller panels.
func (g Geometry) Scale(f float64) Geometry {
	s := func(v int) int { return int(float64(v)*f + 0.5) }
	return Geometry{
		Center:      image.Pt(s(g.Center.X), s(g.Center.Y)),
		InnerRadius: s(g.InnerRadius),
		OuterRadius: s(g.OuterRadius),
		GuardBand:   s(g.GuardBand),
	}
}

// Zone is the part of the wheel a touch lands in.
type Zone uint8

const (
	ZoneGuard Zone = iota
	ZoneValue
	ZoneHue
)

func (z Zone) String() string {
	switch z {
	case ZoneGuard:
		return "guard"
	case ZoneValue:
		return "value"
	case ZoneHue:
		return "hue"
	default:
		return fmt.Sprintf("Zone(%d)", uint8(z))
	}
}

// Classify partitions distances from the centre. The guard band includes
// both of its edges; anything past it is hue, however far out.
func (g Geometry) Classify(distance float64) Zone {
	lo := float64(g.InnerRadius - g.GuardBand)
	switch {
	case distance < lo:
		return ZoneValue
	case distance <= float64(g.InnerRadius):
		return ZoneGuard
	default:
		return ZoneHue
	}
}
