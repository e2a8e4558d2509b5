// Package cli implements the locselect command line.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"go.ntppool.org/locselect/dataset"
	"go.ntppool.org/locselect/selection"
)

// Root is the top level command
type Root struct {
	Select  SelectCmd  `cmd:"" help:"select the points or cells identified by locations"`
	Watch   WatchCmd   `cmd:"" help:"re-run a selection whenever its inputs change"`
	Version VersionCmd `cmd:"" help:"print version and exit"`
}

// Inputs are the flags shared by select and watch
type Inputs struct {
	Dataset   string   `name:"dataset" short:"d" required:"" type:"path" env:"LOCSELECT_DATASET" help:"YAML data set document"`
	Selection string   `name:"selection" short:"s" type:"path" env:"LOCSELECT_SELECTION" help:"YAML selection node document"`
	Epsilon   *float64 `name:"epsilon" help:"search radius for point selections, overrides the selection document"`
	Field     string   `name:"field" help:"field type to select (point or cell), overrides the selection document"`
	Locations []string `name:"location" short:"l" sep:"none" help:"location as x,y,z (repeatable), added to the selection document"`
	Inverse   bool     `name:"inverse" help:"select the elements that were not matched"`
	Workers   int      `name:"workers" default:"0" env:"LOCSELECT_WORKERS" help:"blocks evaluated concurrently, 0 uses GOMAXPROCS"`
}

func (in *Inputs) load() (dataset.DataObject, *selection.Node, error) {
	input, err := dataset.LoadFile(in.Dataset)
	if err != nil {
		return nil, nil, err
	}
	node, err := in.node()
	if err != nil {
		return nil, nil, err
	}
	return input, node, nil
}

// node reads the selection document, if any, and applies the flag overrides
func (in *Inputs) node() (*selection.Node, error) {
	node := &selection.Node{
		ContentType: selection.ContentLocations,
		FieldType:   selection.FieldPoint,
	}

	if in.Selection != "" {
		n, err := selection.LoadFile(in.Selection)
		if err != nil {
			return nil, err
		}
		node = n
	}

	if in.Field != "" {
		ft, err := selection.ParseFieldType(in.Field)
		if err != nil {
			return nil, fmt.Errorf("--field: %w", err)
		}
		node.FieldType = ft
	}

	if in.Epsilon != nil {
		eps := *in.Epsilon
		node.Properties.Epsilon = &eps
	}

	if in.Inverse {
		node.Properties.Inverse = true
	}

	if len(in.Locations) > 0 {
		var tuples [][]float64
		for i := range node.SelectionList.Tuples() {
			tuples = append(tuples, node.SelectionList.Tuple(i))
		}
		for _, s := range in.Locations {
			t, err := parseLocation(s)
			if err != nil {
				return nil, err
			}
			tuples = append(tuples, t)
		}
		list, err := selection.NewArray(tuples)
		if err != nil {
			return nil, fmt.Errorf("--location: %w", err)
		}
		node.SelectionList = list
	}

	return node, nil
}

// parseLocation splits "x,y,z" into its components. The component count is
// not checked here; the selector reports lists that are not 3-d.
func parseLocation(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	t := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid location %q: %w", s, err)
		}
		t[i] = v
	}
	return t, nil
}
