package hal

import "sync"

// touchHub holds the registered TouchHandler and fans events into it.
type touchHub struct {
	mu sync.Mutex
	h  TouchHandler
}

func (t *touchHub) OnTouch(h TouchHandler) {
	t.mu.Lock()
	t.h = h
	t.mu.Unlock()
}

func (t *touchHub) emit(ev TouchEvent) {
	t.mu.Lock()
	h := t.h
	t.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

// NullTouch never produces events.
type NullTouch struct{}

func (NullTouch) OnTouch(TouchHandler) {}

type chanKeyboard struct {
	ch chan KeyEvent
}

func newChanKeyboard() *chanKeyboard {
	return &chanKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *chanKeyboard) Events() <-chan KeyEvent { return k.ch }

// emit drops the event when nobody is draining the queue.
func (k *chanKeyboard) emit(code KeyCode, press bool) {
	select {
	case k.ch <- KeyEvent{Code: code, Press: press}:
	default:
	}
}

type input struct {
	kbd   Keyboard
	touch Touch
}

func (in input) Keyboard() Keyboard { return in.kbd }

func (in input) Touch() Touch {
	if in.touch == nil {
		return NullTouch{}
	}
	return in.touch
}

type display struct {
	fb Framebuffer
}

func (d display) Framebuffer() Framebuffer { return d.fb }
