package dataset

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// UnstructuredGrid is a data set with explicit point coordinates and
// explicit cell connectivity. A grid without cells is a plain point cloud.
type UnstructuredGrid struct {
	points []r3.Vector
	cells  []Cell
	bounds Bounds
}

// NewUnstructuredGrid validates the cell connectivity against the points and
// returns the grid. The slices are owned by the grid afterwards.
func NewUnstructuredGrid(points []r3.Vector, cells []Cell) (*UnstructuredGrid, error) {
	for i, c := range cells {
		if err := c.Validate(len(points)); err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
	}

	b := EmptyBounds()
	for _, p := range points {
		b = b.Extend(p)
	}

	return &UnstructuredGrid{
		points: points,
		cells:  cells,
		bounds: b,
	}, nil
}

// NewPointCloud returns a grid with points and no cells.
func NewPointCloud(points ...r3.Vector) *UnstructuredGrid {
	ug, _ := NewUnstructuredGrid(points, nil)
	return ug
}

func (ug *UnstructuredGrid) Kind() string { return KindUnstructuredGrid }

func (ug *UnstructuredGrid) NumberOfPoints() int { return len(ug.points) }

func (ug *UnstructuredGrid) NumberOfCells() int { return len(ug.cells) }

func (ug *UnstructuredGrid) Point(id int) r3.Vector { return ug.points[id] }

func (ug *UnstructuredGrid) Points() []r3.Vector { return ug.points }

func (ug *UnstructuredGrid) Cell(id int) Cell { return ug.cells[id] }

func (ug *UnstructuredGrid) Bounds() Bounds { return ug.bounds }

// FindPoint scans all points for the closest one. Callers that query many
// locations should build a locator over Points instead. A location with a
// NaN coordinate has no closest point and returns -1.
func (ug *UnstructuredGrid) FindPoint(x r3.Vector) int {
	closest := -1
	best := math.Inf(1)
	for i, p := range ug.points {
		d := p.Sub(x).Norm2()
		if d < best || (closest < 0 && math.IsInf(d, 1)) {
			closest = i
			best = d
		}
	}
	return closest
}
