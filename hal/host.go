//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"sync"
)

// Output backends accepted by OpenHost.
const (
	OutputFBDev    = "fbdev"
	OutputHeadless = "headless"
)

// Touch sources accepted by OpenHost.
const (
	TouchNone       = "none"
	TouchEvdev      = "evdev"
	TouchHyperPixel = "hyperpixel"
)

// HostConfig selects the devices of a non-window host HAL.
type HostConfig struct {
	Output    string
	FBDevPath string

	// Width and Height size the headless canvas.
	Width  int
	Height int
	// Snapshot, when set, receives the last headless frame as PNG on Close.
	Snapshot string

	Touch       string
	TouchDevice string
	// KeyDevice is an optional evdev keyboard for Escape/Q.
	KeyDevice string
	Panel     PanelConfig
}

type hostHAL struct {
	logger Logger
	fb     Framebuffer
	kbd    *chanKeyboard
	touch  Touch

	closeOnce sync.Once
	closers   []func() error
	closeErr  error
}

// OpenHost opens the framebuffer and input devices named by cfg.
func OpenHost(cfg HostConfig, logger Logger) (HAL, error) {
	if logger == nil {
		logger = NewLogger(os.Stdout)
	}
	h := &hostHAL{logger: logger, kbd: newChanKeyboard()}

	switch cfg.Output {
	case OutputFBDev:
		fb, err := openFBDev(cfg.FBDevPath)
		if err != nil {
			return nil, err
		}
		h.fb = fb
		h.closers = append(h.closers, fb.Close)
	case OutputHeadless, "":
		if cfg.Width <= 0 || cfg.Height <= 0 {
			return nil, fmt.Errorf("invalid headless size %dx%d", cfg.Width, cfg.Height)
		}
		fb := newMemFramebuffer(cfg.Width, cfg.Height)
		h.fb = fb
		if cfg.Snapshot != "" {
			path := cfg.Snapshot
			h.closers = append(h.closers, func() error { return writeSnapshot(path, fb) })
		}
	default:
		return nil, fmt.Errorf("unknown output %q", cfg.Output)
	}

	w, ht := h.fb.Width(), h.fb.Height()
	switch cfg.Touch {
	case TouchNone, "":
		h.touch = NullTouch{}
	case TouchEvdev:
		dev, err := openEvdev(cfg.TouchDevice, w, ht, true, h.kbd, logger)
		if err != nil {
			return nil, errors.Join(err, h.Close())
		}
		h.touch = dev
		h.closers = append(h.closers, dev.Close)
	case TouchHyperPixel:
		panel, err := openPeriphPanel(cfg.Panel, logger)
		if err != nil {
			return nil, errors.Join(err, h.Close())
		}
		h.touch = panel
		h.closers = append(h.closers, panel.Close)
	default:
		return nil, errors.Join(fmt.Errorf("unknown touch source %q", cfg.Touch), h.Close())
	}

	if cfg.KeyDevice != "" {
		dev, err := openEvdev(cfg.KeyDevice, w, ht, false, h.kbd, logger)
		if err != nil {
			logger.WriteLineString(fmt.Sprintf("keys: %v", err))
		} else {
			h.closers = append(h.closers, dev.Close)
		}
	}
	return h, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return display{fb: h.fb} }
func (h *hostHAL) Input() Input     { return input{kbd: h.kbd, touch: h.touch} }

// Close releases devices in reverse order of opening. It is safe to call
// more than once.
func (h *hostHAL) Close() error {
	h.closeOnce.Do(func() {
		var errs []error
		for i := len(h.closers) - 1; i >= 0; i-- {
			errs = append(errs, h.closers[i]())
		}
		h.closeErr = errors.Join(errs...)
	})
	return h.closeErr
}

func writeSnapshot(path string, fb *memFramebuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, snapshotImage(fb)); err != nil {
		f.Close()
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return f.Close()
}

func snapshotImage(fb *memFramebuffer) *image.NRGBA {
	raw := make([]byte, len(fb.buf))
	fb.snapshotRGB565(raw)
	img := image.NewNRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			off := y*fb.stride + x*2
			r, g, b := rgb888From565(uint16(raw[off]) | uint16(raw[off+1])<<8)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 0xFF
		}
	}
	return img
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogger returns a Logger writing one line per call to w.
func NewLogger(w io.Writer) Logger {
	return &hostLogger{w: w}
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
