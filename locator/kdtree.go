package locator

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// entry is a point in the tree carrying the id it was built from
type entry struct {
	pos r3.Vector
	id  int
}

func coord(v r3.Vector, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Compare returns the signed distance of e from the plane through c
// perpendicular to dimension d.
func (e entry) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return coord(e.pos, d) - coord(c.(entry).pos, d)
}

func (e entry) Dims() int { return 3 }

// Distance is the squared euclidean distance.
func (e entry) Distance(c kdtree.Comparable) float64 {
	return e.pos.Sub(c.(entry).pos).Norm2()
}

// entries implements kdtree.Interface; the tree reorders it in place.
type entries []entry

func (p entries) Index(i int) kdtree.Comparable { return p[i] }
func (p entries) Len() int                      { return len(p) }
func (p entries) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

func (p entries) Pivot(d kdtree.Dim) int {
	return plane{entries: p, dim: d}.Pivot()
}

// plane sorts entries along one dimension for median partitioning.
type plane struct {
	entries
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return coord(p.entries[i].pos, p.dim) < coord(p.entries[j].pos, p.dim)
}

func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.entries = p.entries[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
}

func newTree(positions []r3.Vector) *kdtree.Tree {
	return newTreeWithIDs(positions, nil)
}

// newTreeWithIDs builds a tree whose entry i carries ids[i], or i when ids
// is nil.
func newTreeWithIDs(positions []r3.Vector, ids []int) *kdtree.Tree {
	if len(positions) == 0 {
		return nil
	}
	list := make(entries, len(positions))
	for i, p := range positions {
		id := i
		if ids != nil {
			id = ids[i]
		}
		list[i] = entry{pos: p, id: id}
	}
	return kdtree.New(list, false)
}
