package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/geo/r3"
	"gopkg.in/yaml.v3"
)

// ErrUnknownKind is returned for documents with an unsupported kind
var ErrUnknownKind = errors.New("unknown data object kind")

// document is the YAML representation shared by all data object kinds
type document struct {
	Kind string `yaml:"kind"`

	// unstructured_grid
	Points [][3]float64 `yaml:"points"`
	Cells  []Cell       `yaml:"cells"`

	// image_data
	Origin     [3]float64 `yaml:"origin"`
	Spacing    [3]float64 `yaml:"spacing"`
	Dimensions [3]int     `yaml:"dimensions"`

	// table
	Rows int `yaml:"rows"`

	// multiblock; nil entries are empty slots
	Blocks []*document `yaml:"blocks"`
}

// LoadFile reads a data object document from a YAML file.
func LoadFile(path string) (DataObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	obj, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

// Load decodes a single data object document.
func Load(r io.Reader) (DataObject, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding data object: %w", err)
	}
	return doc.build()
}

func vec(v [3]float64) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

func (doc *document) build() (DataObject, error) {
	switch doc.Kind {
	case KindUnstructuredGrid:
		points := make([]r3.Vector, len(doc.Points))
		for i, p := range doc.Points {
			points[i] = vec(p)
		}
		ug, err := NewUnstructuredGrid(points, doc.Cells)
		if err != nil {
			return nil, err
		}
		return ug, nil

	case KindImageData:
		spacing := doc.Spacing
		if spacing == [3]float64{} {
			spacing = [3]float64{1, 1, 1}
		}
		img, err := NewImageData(vec(doc.Origin), vec(spacing), doc.Dimensions)
		if err != nil {
			return nil, err
		}
		return img, nil

	case KindTable:
		return &Table{Rows: doc.Rows}, nil

	case KindMultiBlock:
		mb := &MultiBlock{Blocks: make([]DataObject, len(doc.Blocks))}
		for i, b := range doc.Blocks {
			if b == nil {
				continue
			}
			obj, err := b.build()
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			mb.Blocks[i] = obj
		}
		return mb, nil

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, doc.Kind)
	}
}
