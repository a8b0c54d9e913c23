package wheel

import (
	"fmt"
	"sync"
)

// Color is the selected colour. Saturation is always 1.
type Color struct {
	Hue   float64
	Value float64
}

// DefaultColor is full-brightness red.
func DefaultColor() Color { return Color{Hue: 0, Value: 1} }

func (c Color) String() string {
	return fmt.Sprintf("hue=%.3f value=%.3f", c.Hue, c.Value)
}

// State holds the selected colour. It is written from touch callbacks and
// read by the frame loop.
type State struct {
	mu sync.Mutex
	c  Color
}

func NewState(c Color) *State {
	return &State{c: c}
}

func (s *State) Color() Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c
}

// Apply updates the colour from a sample and reports whether it changed.
// Guard band samples are dropped.
func (s *State) Apply(smp Sample) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.c
	switch smp.Zone {
	case ZoneValue:
		s.c.Value = smp.Angle
	case ZoneHue:
		s.c.Hue = smp.Angle
	default:
		return false
	}
	return s.c != prev
}
