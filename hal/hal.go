package hal

import (
	"context"
	"errors"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// ErrQuit ends a runner cleanly when a Step returns it (possibly wrapped).
var ErrQuit = errors.New("quit")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb, stored little-endian.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEscape
	KeyQ
	// KeyQuit is synthesized by backends when the output is being closed
	// (window close button, device hangup).
	KeyQuit
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// TouchEvent is a single contact report in canvas pixel space.
//
// X and Y may fall outside the canvas when the panel is larger than the
// visible area or badly calibrated.
type TouchEvent struct {
	ID      int
	X       int
	Y       int
	Pressed bool
}

// TouchHandler receives touch events. It is invoked from the touch source's
// own goroutine and must not block.
type TouchHandler func(TouchEvent)

// Touch is an asynchronous touch event source.
type Touch interface {
	// OnTouch registers h as the receiver of all subsequent events,
	// replacing any previous handler. A nil h drops events.
	OnTouch(h TouchHandler)
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Touch() Touch
}

// HAL provides the only contact point between the wheel and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	// Close releases display and input resources.
	Close() error
}

// Step advances an application by one frame. Returning an error wrapping
// ErrQuit stops the runner without reporting a failure.
type Step func(ctx context.Context) error
