package viewport

// Letterbox fits a square raster of Size pixels into the middle of a window,
// keeping it square.
type Letterbox struct {
	WindowWidth, WindowHeight int
	Size                      int
}

func (l Letterbox) side() float64 {
	return float64(min(l.WindowWidth, l.WindowHeight))
}

// Scale is the fraction of the window the raster covers on each axis.
func (l Letterbox) Scale() (sx, sy float64) {
	if l.WindowWidth <= 0 || l.WindowHeight <= 0 {
		return 1, 1
	}
	side := l.side()
	return side / float64(l.WindowWidth), side / float64(l.WindowHeight)
}

// ToRaster converts a window position to a raster pixel. ok is false when the
// position falls in the bars around the raster.
func (l Letterbox) ToRaster(wx, wy float64) (px, py float64, ok bool) {
	if l.WindowWidth <= 0 || l.WindowHeight <= 0 {
		return 0, 0, false
	}
	side := l.side()
	offX := (float64(l.WindowWidth) - side) / 2
	offY := (float64(l.WindowHeight) - side) / 2

	size := float64(l.Size)
	px = (wx - offX) * size / side
	py = (wy - offY) * size / side
	ok = px >= 0 && px < size && py >= 0 && py < size
	return px, py, ok
}
