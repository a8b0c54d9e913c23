// Package config loads hyperhue settings from a TOML file, the environment
// and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"hyperhue/app"
	"hyperhue/hal"
	"hyperhue/wheel"

	"github.com/BurntSushi/toml"
)

// EnvFBDev overrides the framebuffer device path.
const EnvFBDev = "SDL_FBDEV"

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	// Backend is auto, fbdev, window or headless.
	Backend string        `toml:"backend"`
	Verbose bool          `toml:"verbose"`
	Display DisplayConfig `toml:"display"`
	Touch   TouchConfig   `toml:"touch"`
	Wheel   WheelConfig   `toml:"wheel"`
}

type DisplayConfig struct {
	FBDev  string `toml:"fbdev"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	// Scale enlarges the desktop window.
	Scale int `toml:"scale"`
	// Frames stops after that many frames; 0 runs until quit.
	Frames   uint64 `toml:"frames"`
	Snapshot string `toml:"snapshot"`
}

type TouchConfig struct {
	// Source is none, evdev or hyperpixel.
	Source string `toml:"source"`
	Device string `toml:"device"`
	Keys   string `toml:"keys"`

	Bus       string `toml:"bus"`
	Addr      int    `toml:"addr"`
	Interrupt string `toml:"interrupt"`
	PollMS    int    `toml:"poll_ms"`

	SwapXY  bool `toml:"swap_xy"`
	InvertX bool `toml:"invert_x"`
	InvertY bool `toml:"invert_y"`
}

type WheelConfig struct {
	CenterX     int  `toml:"center_x"`
	CenterY     int  `toml:"center_y"`
	InnerRadius int  `toml:"inner_radius"`
	OuterRadius int  `toml:"outer_radius"`
	GuardBand   int  `toml:"guard_band"`
	FPS         int  `toml:"fps"`
	Oversample  int  `toml:"oversample"`
	Label       bool `toml:"label"`
}

// Default matches a HyperPixel 2.0 Round on a Raspberry Pi.
func Default() Config {
	g := wheel.DefaultGeometry()
	p := hal.HyperPixelRound()
	return Config{
		Backend: app.BackendAuto,
		Display: DisplayConfig{
			FBDev:  "/dev/fb0",
			Width:  480,
			Height: 480,
			Scale:  1,
		},
		Touch: TouchConfig{
			Source:    hal.TouchHyperPixel,
			Device:    "/dev/input/event0",
			Bus:       p.Bus,
			Addr:      int(p.Addr),
			Interrupt: p.InterruptPin,
			PollMS:    int(p.Poll / time.Millisecond),
		},
		Wheel: WheelConfig{
			CenterX:     g.Center.X,
			CenterY:     g.Center.Y,
			InnerRadius: g.InnerRadius,
			OuterRadius: g.OuterRadius,
			GuardBand:   g.GuardBand,
			FPS:         wheel.DefaultFPS,
			Oversample:  wheel.DefaultOversample,
		},
	}
}

// Load reads path over the defaults. Unknown keys are an error so typos do
// not silently fall back to defaults.
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("parsing %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return c, nil
}

// ApplyEnv applies environment overrides read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvFBDev); v != "" {
		c.Display.FBDev = v
	}
}

func (c Config) Geometry() wheel.Geometry {
	return wheel.Geometry{
		Center:      image.Pt(c.Wheel.CenterX, c.Wheel.CenterY),
		InnerRadius: c.Wheel.InnerRadius,
		OuterRadius: c.Wheel.OuterRadius,
		GuardBand:   c.Wheel.GuardBand,
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case app.BackendAuto, app.BackendFBDev, app.BackendWindow, app.BackendHeadless:
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend)
	}
	switch c.Touch.Source {
	case hal.TouchNone, hal.TouchEvdev, hal.TouchHyperPixel:
	default:
		return fmt.Errorf("%w: touch source %q", ErrInvalid, c.Touch.Source)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("%w: display size %dx%d", ErrInvalid, c.Display.Width, c.Display.Height)
	}
	if c.Display.Scale < 1 {
		return fmt.Errorf("%w: window scale %d", ErrInvalid, c.Display.Scale)
	}
	if c.Wheel.FPS < 1 || c.Wheel.FPS > 240 {
		return fmt.Errorf("%w: fps %d not in [1, 240]", ErrInvalid, c.Wheel.FPS)
	}
	if c.Wheel.Oversample < 1 || c.Wheel.Oversample > 16 {
		return fmt.Errorf("%w: oversample %d not in [1, 16]", ErrInvalid, c.Wheel.Oversample)
	}
	if c.Touch.Addr < 0 || c.Touch.Addr > 0x7F {
		return fmt.Errorf("%w: i2c address %#x", ErrInvalid, c.Touch.Addr)
	}
	if err := c.Geometry().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (c Config) Options() app.Options {
	return app.Options{
		Geometry:   c.Geometry(),
		FPS:        c.Wheel.FPS,
		Oversample: c.Wheel.Oversample,
		Label:      c.Wheel.Label,
		Verbose:    c.Verbose,
		MaxFrames:  c.Display.Frames,
	}
}

func (c Config) HostOptions() app.HostOptions {
	return app.HostOptions{
		Backend: c.Backend,
		Host: hal.HostConfig{
			FBDevPath:   c.Display.FBDev,
			Width:       c.Display.Width,
			Height:      c.Display.Height,
			Snapshot:    c.Display.Snapshot,
			Touch:       c.Touch.Source,
			TouchDevice: c.Touch.Device,
			KeyDevice:   c.Touch.Keys,
			Panel: hal.PanelConfig{
				Bus:          c.Touch.Bus,
				Addr:         uint16(c.Touch.Addr),
				InterruptPin: c.Touch.Interrupt,
				Poll:         time.Duration(c.Touch.PollMS) * time.Millisecond,
				Transform: hal.PanelTransform{
					Width:   c.Display.Width,
					Height:  c.Display.Height,
					SwapXY:  c.Touch.SwapXY,
					InvertX: c.Touch.InvertX,
					InvertY: c.Touch.InvertY,
				},
			},
		},
		Window: hal.WindowConfig{
			Width:  c.Display.Width,
			Height: c.Display.Height,
			Scale:  c.Display.Scale,
			TPS:    c.Wheel.FPS,
		},
		App: c.Options(),
	}
}
