package wheel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hyperhue/hal"
)

type fakeKeyboard struct {
	ch chan hal.KeyEvent
}

func newFakeKeyboard() *fakeKeyboard {
	return &fakeKeyboard{ch: make(chan hal.KeyEvent, 8)}
}

func (k *fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type captureLogger struct {
	lines []string
}

func (l *captureLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *captureLogger) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func newTestLoop(t *testing.T, c Canvas, kbd hal.Keyboard, cfg LoopConfig) (*Loop, *State) {
	t.Helper()
	state := NewState(DefaultColor())
	return NewLoop(c, newTestRenderer(t, RenderOptions{}), state, kbd, cfg), state
}

func TestLoopPhases(t *testing.T) {
	c := &recordingCanvas{}
	l, _ := newTestLoop(t, c, nil, LoopConfig{})
	ctx := context.Background()

	if l.Phase() != PhaseIdle {
		t.Fatalf("Phase() = %v, want idle", l.Phase())
	}
	if err := l.Step(ctx); err != ErrNotStarted {
		t.Fatalf("Step before Start err = %v, want ErrNotStarted", err)
	}
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(c.fills) != 1 || len(c.lines) != 360*DefaultOversample {
		t.Fatalf("Start drew %d fills, %d lines", len(c.fills), len(c.lines))
	}
	if err := l.Start(); err == nil {
		t.Fatal("second Start err = nil")
	}
	for i := 0; i < 3; i++ {
		if err := l.Step(ctx); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if c.presents != 3 || l.Frames() != 3 {
		t.Fatalf("presents = %d, frames = %d, want 3", c.presents, l.Frames())
	}
}

func TestLoopQuitKeyStopsWithoutDrawing(t *testing.T) {
	for _, code := range []hal.KeyCode{hal.KeyEscape, hal.KeyQ, hal.KeyQuit} {
		c := &recordingCanvas{}
		kbd := newFakeKeyboard()
		l, _ := newTestLoop(t, c, kbd, LoopConfig{})
		ctx := context.Background()
		if err := l.Start(); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if err := l.Step(ctx); err != nil {
			t.Fatalf("Step: %v", err)
		}

		kbd.ch <- hal.KeyEvent{Code: code, Press: true}
		c.reset()
		err := l.Step(ctx)
		if !errors.Is(err, ErrStopped) || !errors.Is(err, hal.ErrQuit) {
			t.Fatalf("Step after %v err = %v, want ErrStopped", code, err)
		}
		if l.Phase() != PhaseStopped {
			t.Fatalf("Phase() = %v, want stopped", l.Phase())
		}
		if len(c.lines) != 0 || len(c.circles) != 0 || c.presents != 1 {
			t.Fatalf("drew after quit: %d lines, %d circles, %d presents", len(c.lines), len(c.circles), c.presents)
		}
		if err := l.Step(ctx); !errors.Is(err, ErrStopped) {
			t.Fatalf("Step after stop err = %v", err)
		}
	}
}

func TestLoopIgnoresOtherKeys(t *testing.T) {
	kbd := newFakeKeyboard()
	l, _ := newTestLoop(t, &recordingCanvas{}, kbd, LoopConfig{})
	_ = l.Start()
	kbd.ch <- hal.KeyEvent{Code: hal.KeyUnknown, Press: true}
	kbd.ch <- hal.KeyEvent{Code: hal.KeyEscape, Press: false}
	if err := l.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}
	close(kbd.ch)
	if err := l.Step(context.Background()); err != nil {
		t.Fatalf("Step with closed keyboard: %v", err)
	}
}

func TestLoopPresentErrorIsFatal(t *testing.T) {
	c := &recordingCanvas{err: errPresent}
	l, _ := newTestLoop(t, c, nil, LoopConfig{})
	err := l.Run(context.Background())
	if !errors.Is(err, errPresent) {
		t.Fatalf("Run err = %v, want present error", err)
	}
	if errors.Is(err, hal.ErrQuit) {
		t.Fatal("present error reported as a clean stop")
	}
	if l.Phase() != PhaseStopped {
		t.Fatalf("Phase() = %v, want stopped", l.Phase())
	}
}

func TestLoopRunMaxFrames(t *testing.T) {
	c := &recordingCanvas{}
	log := &captureLogger{}
	l, state := newTestLoop(t, c, nil, LoopConfig{FPS: 1000, MaxFrames: 4, Logger: log, Verbose: true})
	state.Apply(Map(scenario, scenario.Center.X-100, scenario.Center.Y))

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.presents != 4 {
		t.Fatalf("presents = %d, want 4", c.presents)
	}
	colours := 0
	for _, line := range log.lines {
		if strings.Contains(line, "#7f0000") {
			colours++
		}
	}
	if colours != 1 {
		t.Fatalf("colour logged %d times, want once: %q", colours, log.lines)
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	c := &recordingCanvas{}
	l, _ := newTestLoop(t, c, nil, LoopConfig{FPS: 200})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if c.presents == 0 {
		t.Fatal("no frames before cancel")
	}
	if l.Phase() != PhaseStopped {
		t.Fatalf("Phase() = %v, want stopped", l.Phase())
	}
}

func TestLoopRunStopsOnQuitKey(t *testing.T) {
	kbd := newFakeKeyboard()
	kbd.ch <- hal.KeyEvent{Code: hal.KeyQuit, Press: true}
	c := &recordingCanvas{}
	l, _ := newTestLoop(t, c, kbd, LoopConfig{})
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.presents != 0 {
		t.Fatalf("presents = %d, want 0", c.presents)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseRunning.String() != "running" || Phase(9).String() != "Phase(9)" {
		t.Fatalf("Phase.String() = %q, %q", PhaseRunning, Phase(9))
	}
}
