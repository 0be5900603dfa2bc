package field

import (
	"fmt"

	"github.com/stewi1014/fractalexplorer/programs"
)

// Grid holds one escape result per pixel, row-major.
type Grid struct {
	Width, Height int
	Cells         []programs.Result
}

func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("field: grid dimensions must be positive, got %dx%d", width, height))
	}

	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]programs.Result, width*height),
	}
}

func (g *Grid) At(x, y int) programs.Result {
	return g.Cells[y*g.Width+x]
}

// Row returns the cells of row y. Writes through the slice land in the grid.
func (g *Grid) Row(y int) []programs.Result {
	start := y * g.Width
	return g.Cells[start : start+g.Width : start+g.Width]
}

func (g *Grid) Equal(other *Grid) bool {
	if g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for i, r := range g.Cells {
		if other.Cells[i] != r {
			return false
		}
	}
	return true
}
