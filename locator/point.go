package locator

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// PointLocator answers closest point queries over a fixed point list.
// It is immutable once built and safe for concurrent use.
type PointLocator struct {
	tree *kdtree.Tree
	n    int
}

// NewPointLocator builds the index. points is copied, not retained.
func NewPointLocator(points []r3.Vector) *PointLocator {
	return &PointLocator{
		tree: newTree(points),
		n:    len(points),
	}
}

// NumberOfPoints is the number of points the locator was built over
func (pl *PointLocator) NumberOfPoints() int { return pl.n }

// FindClosestPoint returns the id of the point nearest to x and its squared
// distance, or -1 for an empty locator. Equidistant points are resolved by
// the tree traversal order.
func (pl *PointLocator) FindClosestPoint(x r3.Vector) (int, float64) {
	if pl.tree == nil {
		return -1, 0
	}
	c, dist2 := pl.tree.Nearest(entry{pos: x})
	if c == nil {
		return -1, 0
	}
	return c.(entry).id, dist2
}

// FindClosestPointWithinRadius returns the id of the point nearest to x if
// its distance is at most radius, with the squared distance. It returns -1
// when no point lies within radius, including for locations with NaN
// coordinates.
func (pl *PointLocator) FindClosestPointWithinRadius(radius float64, x r3.Vector) (int, float64) {
	id, dist2 := pl.FindClosestPoint(x)
	if id < 0 || !(dist2 <= radius*radius) {
		return -1, dist2
	}
	return id, dist2
}
