//go:build tinygo

package main

import (
	"hyperhue/app"
	"hyperhue/hal"
)

func main() {
	h := hal.New()
	opts := app.DefaultOptions()
	if fb := h.Display().Framebuffer(); fb != nil && fb.Width() != 480 {
		opts.Geometry = opts.Geometry.Scale(float64(fb.Width()) / 480)
	}
	app.Run(h, opts)
}
