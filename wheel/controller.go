package wheel

import (
	"sync/atomic"

	"hyperhue/hal"
)

// Controller turns touch events into colour updates. Touch only writes
// state; drawing happens in the Loop.
type Controller struct {
	g     Geometry
	state *State

	touches atomic.Uint64
	ignored atomic.Uint64
}

func NewController(g Geometry, state *State) (*Controller, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if state == nil {
		state = NewState(DefaultColor())
	}
	return &Controller{g: g, state: state}, nil
}

func (c *Controller) State() *State { return c.state }

// Touch is a hal.TouchHandler. Every contact report is applied, including
// releases, so the last reported point wins.
func (c *Controller) Touch(ev hal.TouchEvent) {
	c.touches.Add(1)
	s := Map(c.g, ev.X, ev.Y)
	if s.Zone == ZoneGuard {
		c.ignored.Add(1)
		return
	}
	c.state.Apply(s)
}

// Stats reports how many touch events were seen and how many fell in the
// guard band.
func (c *Controller) Stats() (touches, ignored uint64) {
	return c.touches.Load(), c.ignored.Load()
}
