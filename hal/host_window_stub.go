//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"
)

// WindowConfig controls the desktop window backend.
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	TPS    int
	Logger Logger
}

func RunWindow(_ context.Context, _ WindowConfig, _ func(HAL) (Step, error)) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
