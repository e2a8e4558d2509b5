package selection

import (
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTypeAssociation(t *testing.T) {
	tests := []struct {
		ft   FieldType
		want Association
	}{
		{FieldCell, AssociationCells},
		{FieldPoint, AssociationPoints},
		{FieldField, AssociationNone},
		{FieldVertex, AssociationVertices},
		{FieldEdge, AssociationEdges},
		{FieldRow, AssociationRows},
		{FieldType(42), AssociationNone},
	}

	for _, tt := range tests {
		t.Run(tt.ft.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ft.Association())
		})
	}
}

func TestParseNames(t *testing.T) {
	ct, err := ParseContentType("locations")
	require.NoError(t, err)
	assert.Equal(t, ContentLocations, ct)

	_, err = ParseContentType("somewhere")
	assert.Error(t, err)

	ft, err := ParseFieldType("edge")
	require.NoError(t, err)
	assert.Equal(t, FieldEdge, ft)

	assert.Equal(t, "ContentType(99)", ContentType(99).String())
	assert.Equal(t, "rows", AssociationRows.String())
}

func TestArray(t *testing.T) {
	a, err := NewArray([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Components)
	assert.Equal(t, 2, a.Tuples())
	assert.Equal(t, []float64{4, 5, 6}, a.Tuple(1))
	assert.Equal(t, r3.Vector{X: 4, Y: 5, Z: 6}, a.Location(1))

	_, err = NewArray([][]float64{{1, 2, 3}, {4, 5}})
	assert.Error(t, err)

	empty, err := NewArray(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Tuples())

	var nilArray *Array
	assert.Equal(t, 0, nilArray.Tuples())
}

func TestNodeEpsilon(t *testing.T) {
	n := NewLocationNode(FieldPoint, r3.Vector{X: 1})
	assert.Equal(t, 0.0, n.EpsilonOr(0))
	n.WithEpsilon(0.25)
	assert.Equal(t, 0.25, n.EpsilonOr(0))
	assert.Equal(t, 1, n.SelectionList.Tuples())
}

func TestLoad(t *testing.T) {
	n, err := Load(strings.NewReader(`
field_type: cell
epsilon: 0.5
inverse: true
selection_list:
  - [0.25, 0.25, 0.25]
  - [1, 2, 3]
`))
	require.NoError(t, err)
	assert.Equal(t, ContentLocations, n.ContentType)
	assert.Equal(t, FieldCell, n.FieldType)
	require.NotNil(t, n.Properties.Epsilon)
	assert.Equal(t, 0.5, *n.Properties.Epsilon)
	assert.True(t, n.Properties.Inverse)
	assert.Equal(t, 2, n.SelectionList.Tuples())
	assert.Equal(t, r3.Vector{X: 1, Y: 2, Z: 3}, n.SelectionList.Location(1))
}

func TestLoadKeepsTupleWidth(t *testing.T) {
	n, err := Load(strings.NewReader("selection_list: [[1, 2], [3, 4]]\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n.SelectionList.Components)
	assert.Nil(t, n.Properties.Epsilon)

	_, err = Load(strings.NewReader("selection_list: [[1, 2], [3, 4, 5]]\n"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("content_type: nowhere\n"))
	assert.Error(t, err)

	zero, err := Load(strings.NewReader("selection_list: [[], []]\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, zero.SelectionList.Components)
	assert.Equal(t, 2, zero.SelectionList.Tuples(), "zero width tuples are still counted")
}
