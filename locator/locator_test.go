package locator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ntppool.org/locselect/dataset"
)

func randomPoints(rng *rand.Rand, n int) []r3.Vector {
	points := make([]r3.Vector, n)
	for i := range points {
		points[i] = r3.Vector{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	}
	return points
}

func bruteForceClosest(points []r3.Vector, x r3.Vector) (int, float64) {
	best, bestDist := -1, 0.0
	for i, p := range points {
		d := p.Sub(x).Norm2()
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func TestPointLocatorMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := randomPoints(rng, 2000)
	pl := NewPointLocator(points)
	require.Equal(t, 2000, pl.NumberOfPoints())

	for range 500 {
		q := r3.Vector{X: rng.Float64()*1.2 - 0.1, Y: rng.Float64()*1.2 - 0.1, Z: rng.Float64()*1.2 - 0.1}
		wantID, wantDist := bruteForceClosest(points, q)
		gotID, gotDist := pl.FindClosestPoint(q)
		assert.InDelta(t, wantDist, gotDist, 1e-15)
		if gotID != wantID {
			// only acceptable for an exact tie
			assert.Equal(t, wantDist, points[gotID].Sub(q).Norm2())
		}
	}
}

func TestPointLocatorWithinRadius(t *testing.T) {
	points := []r3.Vector{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	pl := NewPointLocator(points)

	tests := []struct {
		name   string
		radius float64
		x      r3.Vector
		want   int
	}{
		{"coincident_zero_radius", 0, r3.Vector{X: 1}, 1},
		{"near_zero_radius", 0, r3.Vector{X: 0.01}, -1},
		{"near_within_radius", 0.1, r3.Vector{X: 0.01}, 0},
		{"far", 0.1, r3.Vector{X: 5, Y: 5, Z: 5}, -1},
		{"on_radius", 0.5, r3.Vector{X: 0, Y: 0, Z: 1.5}, 3},
		{"nan_location", 0.1, r3.Vector{X: math.NaN()}, -1},
		{"nan_location_infinite_radius", math.Inf(1), r3.Vector{Y: math.NaN()}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _ := pl.FindClosestPointWithinRadius(tt.radius, tt.x)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestPointLocatorEmpty(t *testing.T) {
	pl := NewPointLocator(nil)
	id, _ := pl.FindClosestPointWithinRadius(100, r3.Vector{})
	assert.Equal(t, -1, id)
}

func TestCellLocator(t *testing.T) {
	img, err := dataset.NewImageData(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1}, [3]int{5, 4, 3})
	require.NoError(t, err)
	cl := NewCellLocator(img)

	for id := range img.NumberOfCells() {
		c := img.Cell(id).Centroid(img)
		assert.Equal(t, id, cl.FindCell(c), "centroid of cell %d", id)
	}

	assert.Equal(t, -1, cl.FindCell(r3.Vector{X: -0.5, Y: 0.5, Z: 0.5}))
	assert.Equal(t, -1, cl.FindCell(r3.Vector{X: 10, Y: 10, Z: 10}))

	// on the face shared by cells 0 and 1
	assert.Equal(t, 0, cl.FindCell(r3.Vector{X: 1, Y: 0.5, Z: 0.5}))
}

func TestCellLocatorMixedCells(t *testing.T) {
	ug, err := dataset.NewUnstructuredGrid(
		[]r3.Vector{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
			{X: 10, Y: 10, Z: 10}, {X: 14, Y: 10, Z: 10}, {X: 14, Y: 14, Z: 10}, {X: 10, Y: 14, Z: 10},
			{X: 10, Y: 10, Z: 14}, {X: 14, Y: 10, Z: 14}, {X: 14, Y: 14, Z: 14}, {X: 10, Y: 14, Z: 14},
		},
		[]dataset.Cell{
			{Type: dataset.CellTetra, PointIDs: []int{0, 1, 2, 3}},
			{Type: dataset.CellHexahedron, PointIDs: []int{4, 5, 6, 7, 8, 9, 10, 11}},
		},
	)
	require.NoError(t, err)
	cl := NewCellLocator(ug)

	assert.Equal(t, 0, cl.FindCell(r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}))
	assert.Equal(t, 1, cl.FindCell(r3.Vector{X: 13.9, Y: 10.1, Z: 13.9}))
	assert.Equal(t, -1, cl.FindCell(r3.Vector{X: 5, Y: 5, Z: 5}))
}

// gradedMesh is a 10x10x10 block of small tetrahedra next to one large
// voxel. It returns the grid and the id of the voxel.
func gradedMesh(t *testing.T) (*dataset.UnstructuredGrid, int) {
	t.Helper()
	var points []r3.Vector
	var cells []dataset.Cell

	for i := range 1000 {
		o := r3.Vector{X: float64(i % 10), Y: float64((i / 10) % 10), Z: float64(i / 100)}
		base := len(points)
		points = append(points,
			o,
			o.Add(r3.Vector{X: 0.5}),
			o.Add(r3.Vector{Y: 0.5}),
			o.Add(r3.Vector{Z: 0.5}),
		)
		cells = append(cells, dataset.Cell{
			Type:     dataset.CellTetra,
			PointIDs: []int{base, base + 1, base + 2, base + 3},
		})
	}

	base := len(points)
	for k := range 2 {
		for j := range 2 {
			for i := range 2 {
				points = append(points, r3.Vector{
					X: 20 + 100*float64(i),
					Y: 100 * float64(j),
					Z: 100 * float64(k),
				})
			}
		}
	}
	ids := make([]int, 8)
	for i := range ids {
		ids[i] = base + i
	}
	cells = append(cells, dataset.Cell{Type: dataset.CellVoxel, PointIDs: ids})

	ug, err := dataset.NewUnstructuredGrid(points, cells)
	require.NoError(t, err)
	return ug, len(cells) - 1
}

func TestCellLocatorGradedMesh(t *testing.T) {
	ug, voxel := gradedMesh(t)
	cl := NewCellLocator(ug)

	small := r3.Vector{X: 3.1, Y: 4.1, Z: 5.1}
	want := 3 + 10*4 + 100*5
	assert.Equal(t, want, cl.FindCell(small))

	// the large voxel must not pull the small cells into every query
	assert.LessOrEqual(t, len(cl.candidates(small)), 4)

	assert.Equal(t, voxel, cl.FindCell(r3.Vector{X: 70, Y: 50, Z: 50}))
	assert.Equal(t, -1, cl.FindCell(r3.Vector{X: 3.6, Y: 4.6, Z: 5.6}))
}

func TestCellLocatorNaN(t *testing.T) {
	img, err := dataset.NewImageData(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1}, [3]int{2, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, -1, NewCellLocator(img).FindCell(r3.Vector{X: math.NaN(), Y: 0.5, Z: 0.5}))
}

func TestCellLocatorNoCells(t *testing.T) {
	cl := NewCellLocator(dataset.NewPointCloud(r3.Vector{}, r3.Vector{X: 1}))
	assert.Equal(t, -1, cl.FindCell(r3.Vector{}))
}
