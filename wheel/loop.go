package wheel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hyperhue/hal"

	"golang.org/x/time/rate"
)

// ErrStopped is returned by Step once the loop has stopped cleanly.
var ErrStopped = fmt.Errorf("wheel: stopped: %w", hal.ErrQuit)

var ErrNotStarted = errors.New("wheel: loop not started")

const DefaultFPS = 30

// Phase is the frame loop state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseStopped:
		return "stopped"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

type LoopConfig struct {
	FPS int
	// MaxFrames stops the loop after that many presented frames; 0 runs
	// until told to quit.
	MaxFrames uint64
	Logger    hal.Logger
	// Verbose logs the selected colour whenever it changes.
	Verbose bool
}

// Loop redraws the wheel from State at a fixed cadence. Step and Run must be
// called from a single goroutine.
type Loop struct {
	canvas Canvas
	r      *Renderer
	state  *State
	keys   <-chan hal.KeyEvent
	cfg    LoopConfig

	phase  Phase
	frames uint64
	last   Color
	logged bool
}

// NewLoop builds an idle loop. kbd may be nil.
func NewLoop(canvas Canvas, r *Renderer, state *State, kbd hal.Keyboard, cfg LoopConfig) *Loop {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	l := &Loop{canvas: canvas, r: r, state: state, cfg: cfg}
	if kbd != nil {
		l.keys = kbd.Events()
	}
	return l
}

func (l *Loop) Phase() Phase { return l.phase }

// Frames is the number of frames presented so far.
func (l *Loop) Frames() uint64 { return l.frames }

// Start clears the canvas and draws the hue ring.
func (l *Loop) Start() error {
	if l.phase != PhaseIdle {
		return fmt.Errorf("wheel: start in phase %v", l.phase)
	}
	l.canvas.Fill(black)
	l.r.DrawHueRing(l.canvas)
	l.phase = PhaseRunning
	l.logf("wheel: running at %d fps, %d spokes", l.cfg.FPS, l.r.Spokes())
	return nil
}

// Step renders and presents one frame. It returns ErrStopped, without
// drawing, once ctx is done or a quit key was pressed. A failed present
// stops the loop and is returned as is.
func (l *Loop) Step(ctx context.Context) error {
	switch l.phase {
	case PhaseIdle:
		return ErrNotStarted
	case PhaseStopped:
		return ErrStopped
	}

	if ctx.Err() != nil || l.quitRequested() {
		l.stop()
		return ErrStopped
	}

	sel := l.state.Color()
	l.r.DrawFrame(l.canvas, sel)
	if err := l.canvas.Present(); err != nil {
		l.phase = PhaseStopped
		return fmt.Errorf("wheel: present frame %d: %w", l.frames+1, err)
	}
	l.frames++

	if l.cfg.Verbose && (!l.logged || sel != l.last) {
		l.logf("wheel: %s %s", Hex(l.r.SelectedColor(sel)), sel)
		l.last, l.logged = sel, true
	}
	if l.cfg.MaxFrames > 0 && l.frames >= l.cfg.MaxFrames {
		l.stop()
	}
	return nil
}

// Run starts the loop and steps it at FPS until it stops. A clean stop
// returns nil.
func (l *Loop) Run(ctx context.Context) error {
	if l.phase == PhaseIdle {
		if err := l.Start(); err != nil {
			return err
		}
	}

	interval := time.Second / time.Duration(l.cfg.FPS)
	lim := rate.NewLimiter(rate.Every(interval), 1)
	for {
		if err := lim.Wait(ctx); err != nil && ctx.Err() == nil {
			// Wait refuses when the deadline comes before the next token.
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
		if err := l.Step(ctx); err != nil {
			if errors.Is(err, hal.ErrQuit) {
				return nil
			}
			return err
		}
		if l.phase == PhaseStopped {
			return nil
		}
	}
}

func (l *Loop) quitRequested() bool {
	if l.keys == nil {
		return false
	}
	quit := false
	for {
		select {
		case ev, ok := <-l.keys:
			if !ok {
				l.keys = nil
				return quit
			}
			if ev.Press && isQuitKey(ev.Code) {
				quit = true
			}
		default:
			return quit
		}
	}
}

func isQuitKey(code hal.KeyCode) bool {
	switch code {
	case hal.KeyEscape, hal.KeyQ, hal.KeyQuit:
		return true
	}
	return false
}

func (l *Loop) stop() {
	if l.phase == PhaseStopped {
		return
	}
	l.phase = PhaseStopped
	l.logf("wheel: stopped after %d frames", l.frames)
}

func (l *Loop) logf(format string, args ...any) {
	if l.cfg.Logger == nil {
		return
	}
	l.cfg.Logger.WriteLineString(fmt.Sprintf(format, args...))
}
