package locator

import (
	"math"
	"slices"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"

	"go.ntppool.org/locselect/dataset"
)

// reachSlack widens every reach slightly so vertices are not lost to rounding
const reachSlack = 1 + 1e-9

// CellLocator finds the cell of a data set containing a location. Cells are
// indexed by centroid and grouped by reach, the largest centroid to vertex
// distance of a cell, in power of two classes. A query searches each class
// tree only as far as the largest reach in that class, so a few large cells
// do not widen the search among small ones. Candidates are then filtered by
// their own reach and tested for containment. A CellLocator is immutable
// once built and safe for concurrent use.
type CellLocator struct {
	ds      dataset.DataSet
	classes []reachClass
	reach2  []float64 // per cell squared reach
	bounds  dataset.Bounds
	padding float64
}

type reachClass struct {
	tree   *kdtree.Tree
	reach2 float64
}

// NewCellLocator indexes all cells of ds. A data set without cells gives
// a locator that never finds anything.
func NewCellLocator(ds dataset.DataSet) *CellLocator {
	n := ds.NumberOfCells()
	centroids := make([]r3.Vector, n)
	reach2 := make([]float64, n)
	bounds := dataset.EmptyBounds()

	type group struct {
		centroids []r3.Vector
		ids       []int
		reach     float64
	}
	groups := map[int]*group{}

	for id := range n {
		cell := ds.Cell(id)
		c := cell.Centroid(ds)
		centroids[id] = c

		reach := 0.0
		for _, pid := range cell.PointIDs {
			p := ds.Point(pid)
			bounds = bounds.Extend(p)
			reach = math.Max(reach, p.Sub(c).Norm())
		}
		reach *= reachSlack
		reach2[id] = reach * reach

		_, exp := math.Frexp(reach)
		g, ok := groups[exp]
		if !ok {
			g = &group{}
			groups[exp] = g
		}
		g.centroids = append(g.centroids, c)
		g.ids = append(g.ids, id)
		g.reach = math.Max(g.reach, reach)
	}

	exps := make([]int, 0, len(groups))
	for exp := range groups {
		exps = append(exps, exp)
	}
	slices.Sort(exps)

	classes := make([]reachClass, 0, len(exps))
	for _, exp := range exps {
		g := groups[exp]
		classes = append(classes, reachClass{
			tree:   newTreeWithIDs(g.centroids, g.ids),
			reach2: g.reach * g.reach,
		})
	}

	return &CellLocator{
		ds:      ds,
		classes: classes,
		reach2:  reach2,
		bounds:  bounds,
		padding: 1e-9 * bounds.Diagonal(),
	}
}

// FindCell returns the id of the cell containing x, or -1. When x lies on
// a boundary shared by several cells the lowest cell id is returned.
func (cl *CellLocator) FindCell(x r3.Vector) int {
	for _, id := range cl.candidates(x) {
		if cl.ds.Cell(id).Contains(cl.ds, x) {
			return id
		}
	}
	return -1
}

// candidates returns, in increasing id order, the cells whose reach
// extends to x.
func (cl *CellLocator) candidates(x r3.Vector) []int {
	if len(cl.classes) == 0 || !cl.bounds.Contains(x, cl.padding) {
		return nil
	}

	q := entry{pos: x}
	var ids []int
	for _, class := range cl.classes {
		keep := kdtree.NewDistKeeper(class.reach2)
		class.tree.NearestSet(keep, q)

		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			id := c.Comparable.(entry).id
			if c.Dist <= cl.reach2[id] {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids
}
