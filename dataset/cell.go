package dataset

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// CellType identifies the shape of a cell and the ordering of its points
type CellType uint8

const (
	CellEmpty CellType = iota
	CellVertex
	CellTetra
	CellVoxel
	CellWedge
	CellHexahedron
)

var cellTypeNames = map[CellType]string{
	CellEmpty:      "empty",
	CellVertex:     "vertex",
	CellTetra:      "tetra",
	CellVoxel:      "voxel",
	CellWedge:      "wedge",
	CellHexahedron: "hexahedron",
}

var cellTypePoints = map[CellType]int{
	CellEmpty:      0,
	CellVertex:     1,
	CellTetra:      4,
	CellVoxel:      8,
	CellWedge:      6,
	CellHexahedron: 8,
}

func (t CellType) String() string {
	if s, ok := cellTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("CellType(%d)", t)
}

// NumberOfPoints is the number of point ids a cell of this type references.
func (t CellType) NumberOfPoints() int {
	return cellTypePoints[t]
}

// ParseCellType returns the cell type with the given name
func ParseCellType(s string) (CellType, error) {
	for t, name := range cellTypeNames {
		if name == s {
			return t, nil
		}
	}
	return CellEmpty, fmt.Errorf("unknown cell type %q", s)
}

func (t CellType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *CellType) UnmarshalText(b []byte) error {
	ct, err := ParseCellType(string(b))
	if err != nil {
		return err
	}
	*t = ct
	return nil
}

// containmentTolerance is the slack allowed on barycentric coordinates
// so points on a shared face are found in at least one of the cells.
const containmentTolerance = 1e-9

// Tetrahedral decompositions, indices into Cell.PointIDs. Neighbouring
// tetrahedra split each quad face along the same diagonal, so the union is
// exact for cells with planar faces.
var (
	hexahedronTetras = [][4]int{
		{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6},
		{0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
	}
	wedgeTetras = [][4]int{
		{0, 1, 2, 3}, {1, 2, 3, 4}, {2, 3, 4, 5},
	}
	tetraTetras = [][4]int{
		{0, 1, 2, 3},
	}
)

// Cell is a single cell of a data set. Point orderings follow the common
// conventions: tetra 0-3; voxel with x varying fastest, then y, then z;
// wedge with the bottom triangle 0-2 and the top triangle 3-5; hexahedron
// with the bottom quad 0-3 and the top quad 4-7, both counter clockwise.
type Cell struct {
	Type     CellType `yaml:"type"`
	PointIDs []int    `yaml:"points,flow"`
}

// Validate checks the number of point ids against the cell type.
func (c Cell) Validate(numPoints int) error {
	if want := c.Type.NumberOfPoints(); len(c.PointIDs) != want {
		return fmt.Errorf("%s cell needs %d points, got %d", c.Type, want, len(c.PointIDs))
	}
	for _, id := range c.PointIDs {
		if id < 0 || id >= numPoints {
			return fmt.Errorf("%s cell references point %d, data set has %d points", c.Type, id, numPoints)
		}
	}
	return nil
}

// Centroid returns the average of the cell's points.
func (c Cell) Centroid(ds DataSet) r3.Vector {
	var sum r3.Vector
	if len(c.PointIDs) == 0 {
		return sum
	}
	for _, id := range c.PointIDs {
		sum = sum.Add(ds.Point(id))
	}
	return sum.Mul(1 / float64(len(c.PointIDs)))
}

// Bounds returns the bounding box of the cell's points.
func (c Cell) Bounds(ds DataSet) Bounds {
	b := EmptyBounds()
	for _, id := range c.PointIDs {
		b = b.Extend(ds.Point(id))
	}
	return b
}

// Contains reports whether x lies inside (or on the boundary of) the cell.
func (c Cell) Contains(ds DataSet, x r3.Vector) bool {
	switch c.Type {
	case CellVertex:
		return ds.Point(c.PointIDs[0]).Sub(x).Norm2() == 0
	case CellVoxel:
		b := c.Bounds(ds)
		return b.Contains(x, containmentTolerance*b.Diagonal())
	case CellTetra:
		return c.tetrasContain(ds, tetraTetras, x)
	case CellWedge:
		return c.tetrasContain(ds, wedgeTetras, x)
	case CellHexahedron:
		return c.tetrasContain(ds, hexahedronTetras, x)
	default:
		return false
	}
}

func (c Cell) tetrasContain(ds DataSet, tetras [][4]int, x r3.Vector) bool {
	for _, tet := range tetras {
		if tetraContains(
			ds.Point(c.PointIDs[tet[0]]),
			ds.Point(c.PointIDs[tet[1]]),
			ds.Point(c.PointIDs[tet[2]]),
			ds.Point(c.PointIDs[tet[3]]),
			x,
		) {
			return true
		}
	}
	return false
}

// tetraContains tests x against the barycentric coordinates of the
// tetrahedron (a, b, c, d). Degenerate tetrahedra contain nothing.
func tetraContains(a, b, c, d, x r3.Vector) bool {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := d.Sub(a)

	det := v0.Dot(v1.Cross(v2))
	scale := v0.Norm() * v1.Norm() * v2.Norm()
	if scale == 0 || math.Abs(det) <= 1e-12*scale {
		return false
	}

	w := x.Sub(a)
	l1 := w.Dot(v1.Cross(v2)) / det
	l2 := v0.Dot(w.Cross(v2)) / det
	l3 := v0.Dot(v1.Cross(w)) / det
	l0 := 1 - l1 - l2 - l3

	const tol = -containmentTolerance
	return l0 >= tol && l1 >= tol && l2 >= tol && l3 >= tol
}
