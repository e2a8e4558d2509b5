package locselect

import (
	"go.ntppool.org/locselect/dataset"
	"go.ntppool.org/locselect/locator"
	"go.ntppool.org/locselect/selection"
)

// matcher marks the elements of one block identified by the locations it
// was built with. performed is false when the block was skipped without
// touching insidedness; matched counts locations that selected an element.
type matcher interface {
	association() selection.Association
	execute(ds dataset.DataSet, insidedness []int8) (performed bool, matched int)
}

// pointMatcher selects the closest point within radius of each location
type pointMatcher struct {
	locations *selection.Array
	radius    float64
}

func (m *pointMatcher) association() selection.Association {
	return selection.AssociationPoints
}

func (m *pointMatcher) execute(ds dataset.DataSet, insidedness []int8) (bool, int) {
	numPoints := ds.NumberOfPoints()
	if numPoints <= 0 {
		return false, 0
	}

	var pl *locator.PointLocator
	if ps, ok := dataset.HasPointStorage(ds); ok {
		pl = locator.NewPointLocator(ps.Points())
	}

	clear(insidedness[:numPoints])
	radius2 := m.radius * m.radius

	matched := 0
	for i := range m.locations.Tuples() {
		x := m.locations.Location(i)

		var ptID int
		if pl != nil {
			ptID, _ = pl.FindClosestPointWithinRadius(m.radius, x)
		} else {
			// TODO: build a locator here too once implicit data sets can
			// hand out their points without materializing them.
			ptID = ds.FindPoint(x)
			if ptID >= 0 && !(ds.Point(ptID).Sub(x).Norm2() <= radius2) {
				ptID = -1
			}
		}

		if ptID >= 0 {
			insidedness[ptID] = 1
			matched++
		}
	}

	return true, matched
}

// cellMatcher selects the cell containing each location
type cellMatcher struct {
	locations *selection.Array
	radius    float64 // unused by containment queries
}

func (m *cellMatcher) association() selection.Association {
	return selection.AssociationCells
}

func (m *cellMatcher) execute(ds dataset.DataSet, insidedness []int8) (bool, int) {
	cl := locator.NewCellLocator(ds)

	numCells := len(insidedness)
	clear(insidedness)

	matched := 0
	for i := range m.locations.Tuples() {
		cid := cl.FindCell(m.locations.Location(i))
		if cid >= 0 && cid < numCells {
			insidedness[cid] = 1
			matched++
		}
	}

	return true, matched
}
