package config

import (
	"flag"
	"os"
)

// Flags binds command-line overrides. Only flags given on the command line
// override the file and the environment.
type Flags struct {
	fs *flag.FlagSet

	path     string
	backend  string
	fbdev    string
	width    int
	height   int
	scale    int
	frames   uint64
	snapshot string
	touch    string
	device   string
	keys     string
	fps      int
	label    bool
	verbose  bool
}

func NewFlags(fs *flag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: fs}
	fs.StringVar(&f.path, "config", "", "TOML config `file`.")
	fs.StringVar(&f.backend, "backend", d.Backend, "Output backend: auto, fbdev, window or headless.")
	fs.StringVar(&f.fbdev, "fbdev", d.Display.FBDev, "Framebuffer `device` (also $"+EnvFBDev+").")
	fs.IntVar(&f.width, "width", d.Display.Width, "Canvas width for window and headless output.")
	fs.IntVar(&f.height, "height", d.Display.Height, "Canvas height for window and headless output.")
	fs.IntVar(&f.scale, "scale", d.Display.Scale, "Window scale factor.")
	fs.Uint64Var(&f.frames, "frames", 0, "Stop after N frames (0 = run until quit).")
	fs.StringVar(&f.snapshot, "snapshot", "", "Write the last headless frame to this PNG `file`.")
	fs.StringVar(&f.touch, "touch", d.Touch.Source, "Touch source: none, evdev or hyperpixel.")
	fs.StringVar(&f.device, "touch-device", d.Touch.Device, "evdev touch `device`.")
	fs.StringVar(&f.keys, "keys", "", "evdev keyboard `device` for Esc/Q.")
	fs.IntVar(&f.fps, "fps", d.Wheel.FPS, "Frames per second.")
	fs.BoolVar(&f.label, "label", false, "Show the selected colour as hex in the centre.")
	fs.BoolVar(&f.verbose, "verbose", false, "Log the selected colour when it changes.")
	return f
}

// Path is the -config file, empty when not given.
func (f *Flags) Path() string { return f.path }

// Apply copies explicitly set flags into c.
func (f *Flags) Apply(c *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "backend":
			c.Backend = f.backend
		case "fbdev":
			c.Display.FBDev = f.fbdev
		case "width":
			c.Display.Width = f.width
		case "height":
			c.Display.Height = f.height
		case "scale":
			c.Display.Scale = f.scale
		case "frames":
			c.Display.Frames = f.frames
		case "snapshot":
			c.Display.Snapshot = f.snapshot
		case "touch":
			c.Touch.Source = f.touch
		case "touch-device":
			c.Touch.Device = f.device
		case "keys":
			c.Touch.Keys = f.keys
		case "fps":
			c.Wheel.FPS = f.fps
		case "label":
			c.Wheel.Label = f.label
		case "verbose":
			c.Verbose = f.verbose
		}
	})
}

// Resolve builds the effective config: defaults, then the -config file, then
// the environment, then flags. The result is validated.
func (f *Flags) Resolve(getenv func(string) string) (Config, error) {
	c := Default()
	if f.path != "" {
		var err error
		if c, err = Load(f.path); err != nil {
			return Config{}, err
		}
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	c.ApplyEnv(getenv)
	f.Apply(&c)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
