package dataset

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// ImageData is a uniform rectilinear grid. Point coordinates are computed
// from the origin and spacing; there is no point array, so ImageData does
// not implement PointStorage. Cells are voxels.
type ImageData struct {
	Origin     r3.Vector
	Spacing    r3.Vector
	Dimensions [3]int
}

// NewImageData checks the grid parameters.
func NewImageData(origin, spacing r3.Vector, dims [3]int) (*ImageData, error) {
	for i, d := range dims {
		if d < 0 {
			return nil, fmt.Errorf("dimension %d is negative (%d)", i, d)
		}
	}
	if spacing.X < 0 || spacing.Y < 0 || spacing.Z < 0 {
		return nil, fmt.Errorf("spacing must not be negative, got %v", spacing)
	}
	return &ImageData{Origin: origin, Spacing: spacing, Dimensions: dims}, nil
}

func (img *ImageData) Kind() string { return KindImageData }

func (img *ImageData) NumberOfPoints() int {
	return img.Dimensions[0] * img.Dimensions[1] * img.Dimensions[2]
}

// cellDims is the number of cells along each axis. An axis with a single
// point still has one layer of flat cells.
func (img *ImageData) cellDims() [3]int {
	var cd [3]int
	for i, d := range img.Dimensions {
		switch {
		case d <= 0:
			return [3]int{}
		case d == 1:
			cd[i] = 1
		default:
			cd[i] = d - 1
		}
	}
	return cd
}

func (img *ImageData) NumberOfCells() int {
	if img.NumberOfPoints() == 0 {
		return 0
	}
	cd := img.cellDims()
	return cd[0] * cd[1] * cd[2]
}

func (img *ImageData) pointID(i, j, k int) int {
	return i + img.Dimensions[0]*(j+img.Dimensions[1]*k)
}

func (img *ImageData) Point(id int) r3.Vector {
	nx, ny := img.Dimensions[0], img.Dimensions[1]
	i := id % nx
	j := (id / nx) % ny
	k := id / (nx * ny)
	return r3.Vector{
		X: img.Origin.X + float64(i)*img.Spacing.X,
		Y: img.Origin.Y + float64(j)*img.Spacing.Y,
		Z: img.Origin.Z + float64(k)*img.Spacing.Z,
	}
}

// FindPoint returns the grid node nearest to x. The grid is axis aligned,
// so rounding each axis and clamping it to the extent gives the closest
// node also for locations outside the grid. NaN coordinates return -1.
func (img *ImageData) FindPoint(x r3.Vector) int {
	if img.NumberOfPoints() == 0 {
		return -1
	}
	coords := [3]float64{x.X - img.Origin.X, x.Y - img.Origin.Y, x.Z - img.Origin.Z}
	spacing := [3]float64{img.Spacing.X, img.Spacing.Y, img.Spacing.Z}

	var loc [3]int
	for a := range 3 {
		if math.IsNaN(coords[a]) {
			return -1
		}
		if spacing[a] == 0 {
			continue
		}
		f := math.Floor(coords[a]/spacing[a] + 0.5)
		last := float64(img.Dimensions[a] - 1)
		switch {
		case f < 0:
			loc[a] = 0
		case f > last:
			loc[a] = img.Dimensions[a] - 1
		default:
			loc[a] = int(f)
		}
	}
	return img.pointID(loc[0], loc[1], loc[2])
}

// Cell returns the voxel with the given id.
func (img *ImageData) Cell(id int) Cell {
	cd := img.cellDims()
	i := id % cd[0]
	j := (id / cd[0]) % cd[1]
	k := id / (cd[0] * cd[1])

	step := [3]int{}
	for a, d := range img.Dimensions {
		if d > 1 {
			step[a] = 1
		}
	}

	ids := make([]int, 0, 8)
	for _, dk := range []int{0, step[2]} {
		for _, dj := range []int{0, step[1]} {
			for _, di := range []int{0, step[0]} {
				ids = append(ids, img.pointID(i+di, j+dj, k+dk))
			}
		}
	}
	return Cell{Type: CellVoxel, PointIDs: ids}
}

func (img *ImageData) Bounds() Bounds {
	if img.NumberOfPoints() == 0 {
		return EmptyBounds()
	}
	return EmptyBounds().
		Extend(img.Origin).
		Extend(img.Point(img.NumberOfPoints() - 1))
}
