//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"
	"os"

	"hyperhue/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowConfig controls the desktop window backend.
type WindowConfig struct {
	Width  int
	Height int
	// Scale multiplies the window size on screen.
	Scale int
	// TPS is the update rate and therefore the frame rate of the app.
	TPS    int
	Logger Logger
}

type windowHAL struct {
	logger Logger
	fb     *memFramebuffer
	kbd    *chanKeyboard
	touch  touchHub
}

func (h *windowHAL) Logger() Logger   { return h.logger }
func (h *windowHAL) Display() Display { return display{fb: h.fb} }
func (h *windowHAL) Input() Input     { return input{kbd: h.kbd, touch: &h.touch} }
func (h *windowHAL) Close() error     { return nil }

// RunWindow opens a desktop window that shows the framebuffer and turns
// mouse and touch input into touch events. Each update calls the app's step
// once. It blocks until the step returns ErrQuit, fails, or the window is
// closed.
func RunWindow(ctx context.Context, cfg WindowConfig, newApp func(HAL) (Step, error)) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("invalid window size")
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 30
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewLogger(os.Stdout)
	}

	h := &windowHAL{
		logger: logger,
		fb:     newMemFramebuffer(cfg.Width, cfg.Height),
		kbd:    newChanKeyboard(),
	}
	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{ctx: ctx, h: h, step: step}
	ebiten.SetWindowTitle("hyperhue (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(cfg.TPS)
	err = ebiten.RunGame(g)
	return errors.Join(err, h.Close())
}

type hostGame struct {
	ctx     context.Context
	h       *windowHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    Step

	mouseDown bool
	lastMouse image.Point
}

func (g *hostGame) Update() error {
	g.pollKeys()
	g.pollPointer()
	if g.step == nil {
		return nil
	}
	if err := g.step(g.ctx); err != nil {
		if errors.Is(err, ErrQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *hostGame) pollKeys() {
	k := g.h.kbd
	if ebiten.IsWindowBeingClosed() {
		k.emit(KeyQuit, true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		k.emit(KeyEscape, true)
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyEscape) {
		k.emit(KeyEscape, false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		k.emit(KeyQ, true)
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyQ) {
		k.emit(KeyQ, false)
	}
}

// pollPointer reports every active touch each update, plus the left mouse
// button as contact 0 when no touch is active.
func (g *hostGame) pollPointer() {
	ids := ebiten.AppendTouchIDs(nil)
	for _, id := range ids {
		x, y := ebiten.TouchPosition(id)
		g.h.touch.emit(TouchEvent{ID: int(id), X: x, Y: y, Pressed: true})
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		g.h.touch.emit(TouchEvent{ID: int(id), X: x, Y: y, Pressed: false})
	}
	if len(ids) > 0 {
		return
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.mouseDown = true
		g.lastMouse = image.Pt(x, y)
		g.h.touch.emit(TouchEvent{X: x, Y: y, Pressed: true})
		return
	}
	if g.mouseDown {
		g.mouseDown = false
		g.h.touch.emit(TouchEvent{X: g.lastMouse.X, Y: g.lastMouse.Y, Pressed: false})
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
