//go:build !tinygo

package app

import (
	"context"
	"errors"
	"fmt"

	"hyperhue/hal"
)

// Backends accepted by RunHost.
const (
	BackendAuto     = "auto"
	BackendFBDev    = "fbdev"
	BackendWindow   = "window"
	BackendHeadless = "headless"
)

// HostOptions is everything a desktop or Linux board run needs.
type HostOptions struct {
	Backend string
	Host    hal.HostConfig
	Window  hal.WindowConfig
	App     Options
}

// RunHost opens the selected backend and runs the wheel until it stops.
// BackendAuto tries the framebuffer device first and falls back to a window.
func RunHost(ctx context.Context, opts HostOptions, log hal.Logger) error {
	switch opts.Backend {
	case BackendFBDev:
		return runDevice(ctx, hal.OutputFBDev, opts, log)
	case BackendHeadless:
		return runDevice(ctx, hal.OutputHeadless, opts, log)
	case BackendWindow:
		return runWindow(ctx, opts, log)
	case BackendAuto, "":
		err := runDevice(ctx, hal.OutputFBDev, opts, log)
		var openErr *openError
		if !errors.As(err, &openErr) {
			return err
		}
		log.WriteLineString(fmt.Sprintf("fbdev: %v; falling back to window", openErr.err))
		return runWindow(ctx, opts, log)
	default:
		return fmt.Errorf("unknown backend %q", opts.Backend)
	}
}

// openError marks failures to open devices, as opposed to failures while
// running.
type openError struct {
	err error
}

func (e *openError) Error() string { return e.err.Error() }
func (e *openError) Unwrap() error { return e.err }

func runDevice(ctx context.Context, output string, opts HostOptions, log hal.Logger) error {
	cfg := opts.Host
	cfg.Output = output
	h, err := hal.OpenHost(cfg, log)
	if err != nil {
		return &openError{err: err}
	}
	log.WriteLineString(fmt.Sprintf("backend: %s, touch: %s", output, touchName(cfg.Touch)))

	a, err := New(h, opts.App)
	if err != nil {
		return errors.Join(err, h.Close())
	}
	return a.Run(ctx)
}

func runWindow(ctx context.Context, opts HostOptions, log hal.Logger) error {
	cfg := opts.Window
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	if cfg.TPS <= 0 {
		cfg.TPS = opts.App.FPS
	}
	log.WriteLineString(fmt.Sprintf("backend: window %dx%d", cfg.Width, cfg.Height))
	return hal.RunWindow(ctx, cfg, func(h hal.HAL) (hal.Step, error) {
		a, err := New(h, opts.App)
		if err != nil {
			return nil, err
		}
		return a.Step, nil
	})
}

func touchName(s string) string {
	if s == "" {
		return hal.TouchNone
	}
	return s
}
