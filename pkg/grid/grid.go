package grid

import (
	"math"

	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/geom"
)

// Canvas describes the output bounds, the tiling dimensions and the template
// group replicated into every cell.
type Canvas struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Base   geom.Group `json:"base"`
	Rows   int        `json:"rows"`
	Cols   int        `json:"cols"`
}

// Validate checks rows >= 1, cols >= 1, a cell count that fits in an int
// and finite positive width and height.
func (c Canvas) Validate() error {
	if !positiveFinite(c.Width) || !positiveFinite(c.Height) {
		return errors.New(errors.ErrCodeInvalidCanvas,
			"canvas size must be finite and positive, got %gx%g", c.Width, c.Height)
	}
	if c.Rows < 1 || c.Cols < 1 {
		return errors.New(errors.ErrCodeInvalidCanvas,
			"grid must have at least one row and column, got %dx%d", c.Rows, c.Cols)
	}
	if c.Rows > math.MaxInt/c.Cols {
		return errors.New(errors.ErrCodeInvalidCanvas,
			"grid of %dx%d has too many cells", c.Rows, c.Cols)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Spacing returns the horizontal and vertical distance between pivots.
func (c Canvas) Spacing() (dx, dy float64) {
	return c.Width / float64(c.Cols+1), c.Height / float64(c.Rows+1)
}

// Pivot returns the center of cell (row, col).
func (c Canvas) Pivot(row, col int) geom.Point {
	dx, dy := c.Spacing()
	return geom.Point{X: float64(col+1) * dx, Y: float64(row+1) * dy}
}

// CellCount returns rows x cols, or 0 for a degenerate grid or one whose
// count overflows an int.
func (c Canvas) CellCount() int {
	if c.Rows < 1 || c.Cols < 1 || c.Rows > math.MaxInt/c.Cols {
		return 0
	}
	return c.Rows * c.Cols
}

// Cell is one tiled copy of the base group.
type Cell struct {
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Pivot  geom.Point `json:"pivot"`
	Shapes geom.Group `json:"shapes"`
}

// ShapeCount returns the total number of shapes across cells.
func ShapeCount(cells []Cell) int {
	n := 0
	for _, c := range cells {
		n += len(c.Shapes)
	}
	return n
}

// compose walks the grid row-major, hands each cell a translated copy of the
// base group and lets fn apply mode-specific transforms.
func compose(c Canvas, fn func(cell *Cell)) []Cell {
	cells := make([]Cell, 0, c.CellCount())
	for row := 0; row < c.Rows; row++ {
		for col := 0; col < c.Cols; col++ {
			pivot := c.Pivot(row, col)
			shapes := c.Base.Clone()
			shapes.Translate(pivot.X, pivot.Y)
			cell := Cell{Row: row, Col: col, Pivot: pivot, Shapes: shapes}
			if fn != nil {
				fn(&cell)
			}
			cells = append(cells, cell)
		}
	}
	return cells
}
