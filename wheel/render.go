package wheel

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Canvas is the drawing surface the wheel renders onto.
type Canvas interface {
	Fill(c color.RGBA)
	FillCircle(center image.Point, r int, c color.RGBA)
	Line(a, b image.Point, c color.RGBA, width int)
	Present() error
}

// labeler is implemented by canvases that can draw text.
type labeler interface {
	Text(center image.Point, s string, c color.RGBA)
}

const (
	DefaultOversample = 3

	spokeWidth = 3
	// Ring widths inside InnerRadius: the selected colour band and the black
	// gap around the value disk.
	selectedInset = 10
	blackInset    = 30
)

var (
	black = color.RGBA{A: 0xFF}
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

type RenderOptions struct {
	// Oversample is the number of spokes per degree.
	Oversample int
	// Label draws the selected colour as #rrggbb in the centre.
	Label bool
}

// Renderer draws the wheel as radial spokes.
type Renderer struct {
	g    Geometry
	opts RenderOptions
}

func NewRenderer(g Geometry, opts RenderOptions) (*Renderer, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if opts.Oversample < 0 {
		return nil, fmt.Errorf("wheel: oversample %d is negative", opts.Oversample)
	}
	if opts.Oversample == 0 {
		opts.Oversample = DefaultOversample
	}
	return &Renderer{g: g, opts: opts}, nil
}

func (r *Renderer) Geometry() Geometry { return r.g }

// Spokes is the number of lines drawn per full turn.
func (r *Renderer) Spokes() int { return 360 * r.opts.Oversample }

// DrawHueRing draws the outer hue annulus. It only needs drawing once; frames
// never paint past InnerRadius.
func (r *Renderer) DrawHueRing(c Canvas) {
	n := r.Spokes()
	for i := 0; i < n; i++ {
		a := float64(i) / float64(n)
		c.Line(r.point(a, r.g.InnerRadius), r.point(a, r.g.OuterRadius), HSV(a, 1, 1), spokeWidth)
	}
}

// DrawFrame draws everything inside the hue ring for the colour sel.
func (r *Renderer) DrawFrame(c Canvas, sel Color) {
	selected := r.SelectedColor(sel)
	c.FillCircle(r.g.Center, r.g.InnerRadius-selectedInset, selected)
	c.FillCircle(r.g.Center, r.g.InnerRadius-blackInset, black)

	n := r.Spokes()
	edge := r.g.InnerRadius - r.g.GuardBand
	for i := 0; i < n; i++ {
		a := float64(i) / float64(n)
		c.Line(r.g.Center, r.point(a, edge), HSV(sel.Hue, 1, a), spokeWidth)
	}

	if r.opts.Label {
		if l, ok := c.(labeler); ok {
			l.Text(r.g.Center, Hex(selected), white)
		}
	}
}

// SelectedColor is the RGB colour of sel at full saturation.
func (r *Renderer) SelectedColor(sel Color) color.RGBA {
	return HSV(sel.Hue, 1, sel.Value)
}

// point is the canvas point at radius rad and turn fraction a, using the
// same orientation as Polar.
func (r *Renderer) point(a float64, rad int) image.Point {
	theta := a * 2 * math.Pi
	return image.Point{
		X: r.g.Center.X + int(math.Round(float64(rad)*math.Cos(theta))),
		Y: r.g.Center.Y - int(math.Round(float64(rad)*math.Sin(theta))),
	}
}
