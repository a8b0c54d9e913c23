// Package app wires a HAL to the colour wheel.
package app

import (
	"context"
	"errors"
	"fmt"

	"hyperhue/hal"
	"hyperhue/internal/buildinfo"
	"hyperhue/surface"
	"hyperhue/wheel"
)

// Options configures the wheel independently of the backend.
type Options struct {
	Geometry   wheel.Geometry
	FPS        int
	Oversample int
	Label      bool
	Verbose    bool
	// MaxFrames stops after that many frames; 0 runs until quit.
	MaxFrames uint64
}

func DefaultOptions() Options {
	return Options{
		Geometry:   wheel.DefaultGeometry(),
		FPS:        wheel.DefaultFPS,
		Oversample: wheel.DefaultOversample,
	}
}

// App owns the wheel state and its frame loop for one HAL.
type App struct {
	h     hal.HAL
	log   hal.Logger
	touch hal.Touch
	ctrl  *wheel.Controller
	loop  *wheel.Loop

	detached bool
}

// New registers the touch handler and prepares the frame loop. The HAL is
// not closed on error.
func New(h hal.HAL, opts Options) (*App, error) {
	if h == nil {
		return nil, errors.New("app: nil HAL")
	}
	log := h.Logger()

	disp := h.Display()
	if disp == nil {
		return nil, errors.New("app: no display")
	}
	canvas, err := surface.New(disp.Framebuffer())
	if err != nil {
		return nil, err
	}

	r, err := wheel.NewRenderer(opts.Geometry, wheel.RenderOptions{
		Oversample: opts.Oversample,
		Label:      opts.Label,
	})
	if err != nil {
		return nil, err
	}
	state := wheel.NewState(wheel.DefaultColor())
	ctrl, err := wheel.NewController(opts.Geometry, state)
	if err != nil {
		return nil, err
	}

	a := &App{h: h, log: log, ctrl: ctrl}
	var kbd hal.Keyboard
	if in := h.Input(); in != nil {
		kbd = in.Keyboard()
		a.touch = in.Touch()
	}
	if a.touch == nil {
		a.touch = hal.NullTouch{}
	}
	a.loop = wheel.NewLoop(canvas, r, state, kbd, wheel.LoopConfig{
		FPS:       opts.FPS,
		MaxFrames: opts.MaxFrames,
		Logger:    log,
		Verbose:   opts.Verbose,
	})
	a.touch.OnTouch(ctrl.Touch)

	g := opts.Geometry
	b := canvas.Bounds()
	a.logf("hyperhue %s: canvas %dx%d, centre %v, radii %d/%d, guard %d",
		buildinfo.Short(), b.Dx(), b.Dy(), g.Center, g.InnerRadius, g.OuterRadius, g.GuardBand)
	return a, nil
}

// Step advances one frame, starting the loop on first use. It is the
// hal.Step of window backends.
func (a *App) Step(ctx context.Context) error {
	if a.loop.Phase() == wheel.PhaseIdle {
		if err := a.loop.Start(); err != nil {
			return err
		}
	}
	err := a.loop.Step(ctx)
	if a.loop.Phase() == wheel.PhaseStopped {
		a.detach()
	}
	return err
}

// Run drives the loop until it stops, then closes the HAL.
func (a *App) Run(ctx context.Context) error {
	err := a.loop.Run(ctx)
	a.detach()
	return errors.Join(err, a.h.Close())
}

// Controller exposes the touch controller, mostly for tests and stats.
func (a *App) Controller() *wheel.Controller { return a.ctrl }

// Frames reports how many frames were presented.
func (a *App) Frames() uint64 { return a.loop.Frames() }

// detach stops touch delivery once rendering has ended.
func (a *App) detach() {
	if a.detached {
		return
	}
	a.detached = true
	a.touch.OnTouch(nil)
	touches, ignored := a.ctrl.Stats()
	a.logf("hyperhue: %d frames, %d touches (%d in guard band)", a.loop.Frames(), touches, ignored)
}

func (a *App) logf(format string, args ...any) {
	if a.log == nil {
		return
	}
	a.log.WriteLineString(fmt.Sprintf(format, args...))
}
