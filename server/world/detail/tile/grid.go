package tile

import (
	"errors"
	"fmt"
)

// ErrDimension is returned by Grid.Validate if a grid does not match the
// expected chunk resolution.
var ErrDimension = errors.New("tile grid dimension mismatch")

// Grid is a square grid of tile codes, one per macro-tile of a chunk. Rows are
// stored consecutively.
type Grid struct {
	Dim   int
	Codes []Code
}

// NewGrid returns an empty grid of dim x dim codes.
func NewGrid(dim int) Grid {
	return Grid{Dim: dim, Codes: make([]Code, dim*dim)}
}

// GridOf builds a grid from rows. All rows must have the same length as the
// number of rows.
func GridOf(rows ...[]Code) (Grid, error) {
	g := NewGrid(len(rows))
	for y, row := range rows {
		if len(row) != len(rows) {
			return Grid{}, fmt.Errorf("%w: row %v has %v codes, expected %v", ErrDimension, y, len(row), len(rows))
		}
		copy(g.Codes[y*g.Dim:], row)
	}
	return g, nil
}

// At returns the code at row y, column x.
func (g Grid) At(y, x int) Code {
	return g.Codes[y*g.Dim+x]
}

// Set changes the code at row y, column x.
func (g Grid) Set(y, x int, c Code) {
	g.Codes[y*g.Dim+x] = c
}

// Validate checks that the grid is a square of dim x dim codes.
func (g Grid) Validate(dim int) error {
	if g.Dim != dim {
		return fmt.Errorf("%w: grid is %vx%v, expected %vx%v", ErrDimension, g.Dim, g.Dim, dim, dim)
	}
	if len(g.Codes) != g.Dim*g.Dim {
		return fmt.Errorf("%w: grid holds %v codes, expected %v", ErrDimension, len(g.Codes), g.Dim*g.Dim)
	}
	return nil
}
