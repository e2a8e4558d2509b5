package locselect

import (
	"go.ntppool.org/locselect/dataset"
	"go.ntppool.org/locselect/selection"
)

// InsidednessArray holds one entry per point or cell of a block; 1 means
// selected. The selector only ever writes into Values, it never resizes it.
type InsidednessArray struct {
	Name   string
	Values []int8
}

// NewInsidednessArray returns an array of n unselected entries.
func NewInsidednessArray(name string, n int) *InsidednessArray {
	return &InsidednessArray{Name: name, Values: make([]int8, n)}
}

// Len is the number of entries
func (a *InsidednessArray) Len() int { return len(a.Values) }

// Selected counts the selected entries.
func (a *InsidednessArray) Selected() int {
	n := 0
	for _, v := range a.Values {
		if v != 0 {
			n++
		}
	}
	return n
}

// SelectedIDs returns the ids of the selected entries in increasing order.
func (a *InsidednessArray) SelectedIDs() []int {
	var ids []int
	for i, v := range a.Values {
		if v != 0 {
			ids = append(ids, i)
		}
	}
	return ids
}

// Invert flips every entry.
func (a *InsidednessArray) Invert() {
	for i, v := range a.Values {
		if v != 0 {
			a.Values[i] = 0
		} else {
			a.Values[i] = 1
		}
	}
}

// ElementCount is the size of the insidedness array a block needs for the
// given association, or -1 when the block has no such elements.
func ElementCount(block dataset.DataObject, assoc selection.Association) int {
	ds, ok := block.(dataset.DataSet)
	if !ok {
		return -1
	}
	switch assoc {
	case selection.AssociationPoints:
		return ds.NumberOfPoints()
	case selection.AssociationCells:
		return ds.NumberOfCells()
	default:
		return -1
	}
}
