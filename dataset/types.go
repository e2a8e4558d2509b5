package dataset

import (
	"math"

	"github.com/golang/geo/r3"
)

// Kind names for the data objects in this package
const (
	KindUnstructuredGrid = "unstructured_grid"
	KindImageData        = "image_data"
	KindTable            = "table"
	KindMultiBlock       = "multiblock"
)

// DataObject is the unit handed to the selection pipeline
type DataObject interface {
	Kind() string
}

// DataSet is a data object with point and cell geometry
type DataSet interface {
	DataObject

	NumberOfPoints() int
	NumberOfCells() int

	// Point returns the coordinates of point id.
	Point(id int) r3.Vector

	// FindPoint returns the id of the point geometrically closest to x,
	// or -1 if the data set has no point there. It does not take a radius.
	FindPoint(x r3.Vector) int

	// Cell returns the cell with the given id.
	Cell(id int) Cell

	Bounds() Bounds
}

// PointStorage is implemented by data sets that keep their point
// coordinates in an explicit, indexable array.
type PointStorage interface {
	DataSet

	// Points returns the point coordinates. The slice must not be modified.
	Points() []r3.Vector
}

// HasPointStorage reports whether ds exposes explicit point storage.
func HasPointStorage(ds DataSet) (PointStorage, bool) {
	ps, ok := ds.(PointStorage)
	return ps, ok
}

// Bounds is an axis aligned bounding box. The zero value is not empty;
// use EmptyBounds for a box that can be extended.
type Bounds struct {
	Min, Max r3.Vector
}

// EmptyBounds returns a box that contains nothing
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: r3.Vector{X: inf, Y: inf, Z: inf},
		Max: r3.Vector{X: -inf, Y: -inf, Z: -inf},
	}
}

// Empty reports whether the box contains no points.
func (b Bounds) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to include p.
func (b Bounds) Extend(p r3.Vector) Bounds {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
	return b
}

// Contains reports whether p lies inside the box, widened by tol on each side.
func (b Bounds) Contains(p r3.Vector, tol float64) bool {
	return p.X >= b.Min.X-tol && p.X <= b.Max.X+tol &&
		p.Y >= b.Min.Y-tol && p.Y <= b.Max.Y+tol &&
		p.Z >= b.Min.Z-tol && p.Z <= b.Max.Z+tol
}

// Diagonal returns the length of the box diagonal, 0 for an empty box.
func (b Bounds) Diagonal() float64 {
	if b.Empty() {
		return 0
	}
	return b.Max.Sub(b.Min).Norm()
}

// Table is a data object without geometry, like the row data of a
// spreadsheet. It is never a DataSet.
type Table struct {
	Rows int
}

func (t *Table) Kind() string { return KindTable }
