// Package selection describes what a selection run should select: the
// content type of the criterion, the kind of element it targets and the
// criterion data itself.
package selection

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// ContentType is the kind of criterion a Node carries
type ContentType uint8

const (
	ContentUnset ContentType = iota
	ContentGlobalIDs
	ContentPedigreeIDs
	ContentValues
	ContentIndices
	ContentFrustum
	ContentLocations
	ContentThresholds
	ContentBlocks
	ContentBlockSelectors
	ContentQuery
	ContentUser
)

var contentTypeNames = []string{
	"unset",
	"global_ids",
	"pedigree_ids",
	"values",
	"indices",
	"frustum",
	"locations",
	"thresholds",
	"blocks",
	"block_selectors",
	"query",
	"user",
}

func (c ContentType) String() string {
	if int(c) < len(contentTypeNames) {
		return contentTypeNames[c]
	}
	return fmt.Sprintf("ContentType(%d)", c)
}

// ParseContentType returns the content type with the given name
func ParseContentType(s string) (ContentType, error) {
	for i, name := range contentTypeNames {
		if name == s {
			return ContentType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown content type %q", s)
}

func (c ContentType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ContentType) UnmarshalText(b []byte) error {
	v, err := ParseContentType(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// FieldType is the kind of element a Node selects
type FieldType uint8

const (
	FieldCell FieldType = iota
	FieldPoint
	FieldField
	FieldVertex
	FieldEdge
	FieldRow
)

var fieldTypeNames = []string{"cell", "point", "field", "vertex", "edge", "row"}

func (f FieldType) String() string {
	if int(f) < len(fieldTypeNames) {
		return fieldTypeNames[f]
	}
	return fmt.Sprintf("FieldType(%d)", f)
}

// ParseFieldType returns the field type with the given name
func ParseFieldType(s string) (FieldType, error) {
	for i, name := range fieldTypeNames {
		if name == s {
			return FieldType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field type %q", s)
}

func (f FieldType) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *FieldType) UnmarshalText(b []byte) error {
	v, err := ParseFieldType(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Association is the attribute association of a data object that a field
// type maps to.
type Association int8

const (
	AssociationNone Association = iota - 1
	AssociationPoints
	AssociationCells
	AssociationVertices
	AssociationEdges
	AssociationRows
)

func (a Association) String() string {
	switch a {
	case AssociationNone:
		return "none"
	case AssociationPoints:
		return "points"
	case AssociationCells:
		return "cells"
	case AssociationVertices:
		return "vertices"
	case AssociationEdges:
		return "edges"
	case AssociationRows:
		return "rows"
	}
	return fmt.Sprintf("Association(%d)", a)
}

// Association converts the selection field type to the attribute
// association it selects from. Field data has no association.
func (f FieldType) Association() Association {
	switch f {
	case FieldCell:
		return AssociationCells
	case FieldPoint:
		return AssociationPoints
	case FieldVertex:
		return AssociationVertices
	case FieldEdge:
		return AssociationEdges
	case FieldRow:
		return AssociationRows
	default:
		return AssociationNone
	}
}

// Array is a flat array of fixed width tuples
type Array struct {
	Components int
	Data       []float64

	// tuple count of a zero width array, which Data cannot carry
	zeroWidth int
}

// NewArray returns an array of the given tuples. All tuples must have the
// same width.
func NewArray(tuples [][]float64) (*Array, error) {
	a := &Array{}
	for i, t := range tuples {
		if i == 0 {
			a.Components = len(t)
			a.Data = make([]float64, 0, len(tuples)*len(t))
		}
		if len(t) != a.Components {
			return nil, fmt.Errorf("tuple %d has %d components, expected %d", i, len(t), a.Components)
		}
		a.Data = append(a.Data, t...)
	}
	if a.Components == 0 {
		a.zeroWidth = len(tuples)
	}
	return a, nil
}

// NewLocationArray returns a three component array of the given locations.
func NewLocationArray(locations ...r3.Vector) *Array {
	a := &Array{Components: 3, Data: make([]float64, 0, 3*len(locations))}
	for _, l := range locations {
		a.Data = append(a.Data, l.X, l.Y, l.Z)
	}
	return a
}

// Tuples is the number of tuples in the array
func (a *Array) Tuples() int {
	if a == nil {
		return 0
	}
	if a.Components <= 0 {
		return a.zeroWidth
	}
	return len(a.Data) / a.Components
}

// Tuple returns tuple i. The returned slice aliases the array.
func (a *Array) Tuple(i int) []float64 {
	return a.Data[i*a.Components : (i+1)*a.Components]
}

// Location returns tuple i of a three component array as a vector.
func (a *Array) Location(i int) r3.Vector {
	t := a.Data[i*3 : i*3+3]
	return r3.Vector{X: t[0], Y: t[1], Z: t[2]}
}

// Properties are the optional settings of a Node
type Properties struct {
	// Epsilon is the search radius for location selections
	Epsilon *float64

	// Inverse selects everything the criterion does not match
	Inverse bool
}

// Node is one selection criterion
type Node struct {
	ContentType   ContentType
	FieldType     FieldType
	SelectionList *Array
	Properties    Properties
}

// EpsilonOr returns the Epsilon property, or def when it is not set.
func (n *Node) EpsilonOr(def float64) float64 {
	if n.Properties.Epsilon == nil {
		return def
	}
	return *n.Properties.Epsilon
}

// NewLocationNode returns a location node for the given field type.
func NewLocationNode(ft FieldType, locations ...r3.Vector) *Node {
	return &Node{
		ContentType:   ContentLocations,
		FieldType:     ft,
		SelectionList: NewLocationArray(locations...),
	}
}

// WithEpsilon sets the Epsilon property and returns n.
func (n *Node) WithEpsilon(eps float64) *Node {
	n.Properties.Epsilon = &eps
	return n
}
