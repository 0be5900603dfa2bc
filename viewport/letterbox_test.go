package viewport

import "testing"

func TestLetterboxToRaster(t *testing.T) {
	tests := []struct {
		box    Letterbox
		wx, wy float64
		px, py float64
		ok     bool
	}{
		{Letterbox{800, 800, 800}, 400, 400, 400, 400, true},
		{Letterbox{400, 400, 800}, 100, 300, 200, 600, true},
		{Letterbox{1000, 800, 800}, 100, 0, 0, 0, true},
		{Letterbox{1000, 800, 800}, 50, 10, -50, 10, false},
		{Letterbox{800, 1000, 800}, 800, 900, 800, 800, false},
		{Letterbox{0, 0, 800}, 1, 1, 0, 0, false},
	}

	for _, tt := range tests {
		px, py, ok := tt.box.ToRaster(tt.wx, tt.wy)
		if px != tt.px || py != tt.py || ok != tt.ok {
			t.Errorf("%+v.ToRaster(%g, %g) = (%g, %g, %v), want (%g, %g, %v)",
				tt.box, tt.wx, tt.wy, px, py, ok, tt.px, tt.py, tt.ok)
		}
	}
}

func TestLetterboxScale(t *testing.T) {
	sx, sy := Letterbox{1000, 500, 800}.Scale()
	if sx != 0.5 || sy != 1 {
		t.Errorf("Scale() = (%g, %g), want (0.5, 1)", sx, sy)
	}
	sx, sy = Letterbox{0, 500, 800}.Scale()
	if sx != 1 || sy != 1 {
		t.Errorf("Scale() of empty window = (%g, %g), want (1, 1)", sx, sy)
	}
}
