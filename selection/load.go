package selection

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// document is the YAML form of a Node. The tuple width of the
// selection list is taken as written; it is validated by the consumer.
type document struct {
	ContentType   ContentType `yaml:"content_type"`
	FieldType     FieldType   `yaml:"field_type"`
	Epsilon       *float64    `yaml:"epsilon"`
	Inverse       bool        `yaml:"inverse"`
	SelectionList [][]float64 `yaml:"selection_list"`
}

// LoadFile reads a selection node from a YAML file.
func LoadFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Load decodes a selection node. The content type defaults to locations
// and the field type to point when omitted.
func Load(r io.Reader) (*Node, error) {
	doc := document{
		ContentType: ContentLocations,
		FieldType:   FieldPoint,
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding selection: %w", err)
	}

	list, err := NewArray(doc.SelectionList)
	if err != nil {
		return nil, fmt.Errorf("selection_list: %w", err)
	}

	return &Node{
		ContentType:   doc.ContentType,
		FieldType:     doc.FieldType,
		SelectionList: list,
		Properties: Properties{
			Epsilon: doc.Epsilon,
			Inverse: doc.Inverse,
		},
	}, nil
}
