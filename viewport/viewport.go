// Package viewport maps square raster pixels onto a window of the complex
// plane and moves that window as the user zooms in.
package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Offsets of the top-left pixel, in units of Scale, chosen so the default view
// frames the Mandelbrot set rather than the origin.
const (
	offsetX = 1.5
	offsetY = 1.0
)

type Viewport struct {
	Scale      float64
	Center     mgl64.Vec2
	ZoomSteps  int
	ZoomFactor float64
}

func New(zoomFactor float64) Viewport {
	return Viewport{
		Scale:      1,
		ZoomFactor: zoomFactor,
	}
}

// PixelToComplex returns the point of the complex plane under pixel (px, py)
// of a square raster screenWidth pixels across.
func (v Viewport) PixelToComplex(px, py float64, screenWidth int) (cx, cy float64) {
	w := float64(screenWidth)
	cx = v.Scale*(px/w*2-offsetX) + v.Center[0]
	cy = v.Scale*(py/w*2-offsetY) + v.Center[1]
	return cx, cy
}

// ZoomIn re-centres on the point under (px, py) and divides the scale by the
// zoom factor. The point is taken from the view before the scale changes.
func (v *Viewport) ZoomIn(px, py float64, screenWidth int) {
	cx, cy := v.PixelToComplex(px, py, screenWidth)
	v.Center = mgl64.Vec2{cx, cy}
	v.Scale /= v.ZoomFactor
	v.ZoomSteps++
}

func (v *Viewport) Reset() {
	*v = New(v.ZoomFactor)
}

// Magnification is ZoomFactor^ZoomSteps.
func (v Viewport) Magnification() float64 {
	return math.Pow(v.ZoomFactor, float64(v.ZoomSteps))
}

// PixelSpacing is the distance between neighbouring pixels in the complex plane.
func (v Viewport) PixelSpacing(screenWidth int) float64 {
	return 2 * v.Scale / float64(screenWidth)
}

// PrecisionExhausted reports whether neighbouring pixels have become too close
// together for float64 to tell apart near the centre. Past this point each
// further zoom mostly magnifies rounding error.
func (v Viewport) PrecisionExhausted(screenWidth int) bool {
	extent := math.Max(math.Abs(v.Center[0]), math.Abs(v.Center[1])) + (offsetX+0.5)*v.Scale
	ulp := math.Nextafter(extent, math.Inf(1)) - extent
	return v.PixelSpacing(screenWidth) <= 4*ulp
}
