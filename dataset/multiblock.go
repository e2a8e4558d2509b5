package dataset

import "reflect"

// MultiBlock is a composite data object. Blocks may be nested
// MultiBlocks and may be nil (an empty slot).
type MultiBlock struct {
	Blocks []DataObject
}

// NewMultiBlock returns a composite of the given blocks
func NewMultiBlock(blocks ...DataObject) *MultiBlock {
	return &MultiBlock{Blocks: blocks}
}

func (mb *MultiBlock) Kind() string { return KindMultiBlock }

// Leaf is a non-composite block together with its flat index
type Leaf struct {
	FlatIndex int
	Block     DataObject
}

// Leaves returns the non-composite, non-nil blocks in pre-order. Flat
// indices count every node of the tree, starting with 0 for mb itself,
// so a leaf keeps its index when empty slots or siblings change shape.
func (mb *MultiBlock) Leaves() []Leaf {
	if mb == nil {
		return nil
	}
	var leaves []Leaf
	index := 0
	var walk func(*MultiBlock)
	walk = func(m *MultiBlock) {
		for _, b := range m.Blocks {
			index++
			if isNil(b) {
				continue
			}
			if child, ok := b.(*MultiBlock); ok {
				walk(child)
				continue
			}
			leaves = append(leaves, Leaf{FlatIndex: index, Block: b})
		}
	}
	walk(mb)
	return leaves
}

// LeavesOf returns the leaves of obj; a non-composite object is its own
// single leaf with flat index 0.
func LeavesOf(obj DataObject) []Leaf {
	if isNil(obj) {
		return nil
	}
	if mb, ok := obj.(*MultiBlock); ok {
		return mb.Leaves()
	}
	return []Leaf{{FlatIndex: 0, Block: obj}}
}

// isNil reports whether obj is nil or a nil pointer of a concrete type
func isNil(obj DataObject) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
