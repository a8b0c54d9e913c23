//go:build tinygo

package app

import (
	"context"
	"fmt"

	"hyperhue/hal"
)

// Run starts the wheel on h and never returns. Failures are shown on the
// display.
func Run(h hal.HAL, opts Options) {
	defer func() {
		if r := recover(); r != nil {
			showFatal(h, fmt.Errorf("panic: %v", r))
			select {}
		}
	}()

	a, err := New(h, opts)
	if err != nil {
		showFatal(h, err)
		select {}
	}
	if err := a.Run(context.Background()); err != nil {
		showFatal(h, err)
	}
	select {}
}
