package viewport

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPixelToComplexCorners(t *testing.T) {
	v := New(2)

	tests := []struct {
		px, py float64
		cx, cy float64
	}{
		{0, 0, -1.5, -1.0},
		{800, 800, 0.5, 1.0},
		{400, 400, -0.5, 0},
		{800, 0, 0.5, -1.0},
	}

	for _, tt := range tests {
		cx, cy := v.PixelToComplex(tt.px, tt.py, 800)
		if cx != tt.cx || cy != tt.cy {
			t.Errorf("PixelToComplex(%g, %g, 800) = (%g, %g), want (%g, %g)", tt.px, tt.py, cx, cy, tt.cx, tt.cy)
		}
	}
}

func TestZoomInUsesPreviousScale(t *testing.T) {
	v := New(2)
	wantX, wantY := v.PixelToComplex(400, 400, 800)

	v.ZoomIn(400, 400, 800)

	if v.Scale != 0.5 {
		t.Errorf("Scale = %g, want 0.5", v.Scale)
	}
	if v.Center != (mgl64.Vec2{wantX, wantY}) {
		t.Errorf("Center = %v, want (%g, %g)", v.Center, wantX, wantY)
	}
	if v.ZoomSteps != 1 {
		t.Errorf("ZoomSteps = %d, want 1", v.ZoomSteps)
	}
}

func TestZoomInOffCentre(t *testing.T) {
	v := New(2)
	v.ZoomIn(200, 600, 800)

	// (200/800*2 - 1.5, 600/800*2 - 1) = (-1, 0.5)
	if v.Center != (mgl64.Vec2{-1, 0.5}) {
		t.Fatalf("Center = %v, want (-1, 0.5)", v.Center)
	}

	v.ZoomIn(0, 0, 800)
	// 0.5*(-1.5) - 1, 0.5*(-1) + 0.5
	if v.Center != (mgl64.Vec2{-1.75, 0}) {
		t.Errorf("Center = %v, want (-1.75, 0)", v.Center)
	}
	if v.Scale != 0.25 {
		t.Errorf("Scale = %g, want 0.25", v.Scale)
	}
}

func TestScaleStrictlyDecreases(t *testing.T) {
	v := New(2)
	prev := v.Scale
	for i := 0; i < 40; i++ {
		v.ZoomIn(123, 456, 800)
		if !(v.Scale < prev) || v.Scale <= 0 {
			t.Fatalf("step %d: scale %g after %g", i, v.Scale, prev)
		}
		prev = v.Scale
	}
	if got, want := v.Magnification(), math.Pow(2, 40); got != want {
		t.Errorf("Magnification() = %g, want %g", got, want)
	}
}

func TestReset(t *testing.T) {
	v := New(3)
	v.ZoomIn(10, 10, 800)
	v.Reset()

	if v != New(3) {
		t.Errorf("Reset() = %+v, want %+v", v, New(3))
	}
}

func TestPrecisionExhausted(t *testing.T) {
	v := New(2)
	for i := 0; i < 10; i++ {
		v.ZoomIn(400, 400, 800)
	}
	if v.PrecisionExhausted(800) {
		t.Fatalf("precision exhausted after %d steps", v.ZoomSteps)
	}

	for i := 0; i < 60; i++ {
		v.ZoomIn(400, 400, 800)
	}
	if !v.PrecisionExhausted(800) {
		t.Fatalf("precision not exhausted after %d steps (spacing %g)", v.ZoomSteps, v.PixelSpacing(800))
	}
}
