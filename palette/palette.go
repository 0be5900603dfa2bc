// Package palette turns escape results into colours.
package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/fractalexplorer/field"
	"github.com/stewi1014/fractalexplorer/programs"
)

var ErrUnknownPalette = errors.New("unknown palette")

var Background = color.RGBA{A: 255}

type Palette interface {
	Color(programs.Result) color.RGBA
}

// Classic fades from blue to red over every 255 iterations.
type Classic struct{}

func (Classic) Color(r programs.Result) color.RGBA {
	if !r.Escaped() {
		return Background
	}
	n := uint8(r % 255)
	return color.RGBA{R: n, G: 0, B: 255 - n, A: 255}
}

const wheelSteps = 255

// Wheel cycles through the six edges of the RGB hue ring, one step per
// iteration.
type Wheel struct {
	colours []mgl32.Vec3
}

func NewWheel() *Wheel {
	corners := []mgl32.Vec3{
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 0},
		{0, 1, 1},
		{0, 0, 1},
		{1, 0, 1},
	}

	w := &Wheel{colours: make([]mgl32.Vec3, 0, len(corners)*wheelSteps)}
	for i, from := range corners {
		to := corners[(i+1)%len(corners)]
		step := to.Sub(from).Mul(1 / float32(wheelSteps))
		for s := 0; s < wheelSteps; s++ {
			w.colours = append(w.colours, from.Add(step.Mul(float32(s))))
		}
	}
	return w
}

func (w *Wheel) Color(r programs.Result) color.RGBA {
	if !r.Escaped() {
		return Background
	}
	colour := w.colours[int(r)%len(w.colours)]
	return color.RGBA{
		R: uint8(colour[0] * 255),
		G: uint8(colour[1] * 255),
		B: uint8(colour[2] * 255),
		A: 255,
	}
}

func Names() []string {
	return []string{"classic", "wheel"}
}

func Lookup(name string) (Palette, error) {
	switch name {
	case "classic":
		return Classic{}, nil
	case "wheel":
		return NewWheel(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

// Paint colours every cell of grid into img, which must have the same size.
func Paint(p Palette, grid *field.Grid, img *image.RGBA) {
	b := img.Bounds()
	if b.Dx() != grid.Width || b.Dy() != grid.Height {
		panic(fmt.Sprintf("palette: image is %dx%d, grid is %dx%d", b.Dx(), b.Dy(), grid.Width, grid.Height))
	}

	for y := 0; y < grid.Height; y++ {
		row := grid.Row(y)
		pix := img.Pix[y*img.Stride : y*img.Stride+grid.Width*4]
		for x, r := range row {
			c := p.Color(r)
			pix[x*4+0] = c.R
			pix[x*4+1] = c.G
			pix[x*4+2] = c.B
			pix[x*4+3] = c.A
		}
	}
}
