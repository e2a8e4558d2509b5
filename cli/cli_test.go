package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ntppool.org/locselect/locselect"
	"go.ntppool.org/locselect/selection"
)

const cloudDoc = `
kind: unstructured_grid
points:
  - [0, 0, 0]
  - [1, 0, 0]
  - [0, 1, 0]
  - [0, 0, 1]
`

const tetraDoc = `
kind: multiblock
blocks:
  - kind: unstructured_grid
    points: [[0, 0, 0], [1, 0, 0], [0, 1, 0], [0, 0, 1]]
    cells:
      - {type: tetra, points: [0, 1, 2, 3]}
  - kind: table
    rows: 3
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"1,2,3", []float64{1, 2, 3}, false},
		{" 0.5, -1 ,2e-3", []float64{0.5, -1, 0.002}, false},
		{"1,2", []float64{1, 2}, false},
		{"1,,3", nil, true},
		{"x,y,z", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLocation(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputsNode(t *testing.T) {
	dir := t.TempDir()
	selPath := writeFile(t, dir, "sel.yaml", `
field_type: cell
epsilon: 0.25
selection_list:
  - [0.1, 0.1, 0.1]
`)

	t.Run("defaults", func(t *testing.T) {
		in := &Inputs{Locations: []string{"1,2,3"}}
		node, err := in.node()
		require.NoError(t, err)
		assert.Equal(t, selection.ContentLocations, node.ContentType)
		assert.Equal(t, selection.FieldPoint, node.FieldType)
		assert.Equal(t, 1, node.SelectionList.Tuples())
		assert.Nil(t, node.Properties.Epsilon)
	})

	t.Run("document", func(t *testing.T) {
		in := &Inputs{Selection: selPath}
		node, err := in.node()
		require.NoError(t, err)
		assert.Equal(t, selection.FieldCell, node.FieldType)
		assert.Equal(t, 0.25, node.EpsilonOr(0))
		assert.Equal(t, 1, node.SelectionList.Tuples())
	})

	t.Run("overrides", func(t *testing.T) {
		eps := 2.0
		in := &Inputs{
			Selection: selPath,
			Field:     "point",
			Epsilon:   &eps,
			Inverse:   true,
			Locations: []string{"5,5,5"},
		}
		node, err := in.node()
		require.NoError(t, err)
		assert.Equal(t, selection.FieldPoint, node.FieldType)
		assert.Equal(t, 2.0, node.EpsilonOr(0))
		assert.True(t, node.Properties.Inverse)
		require.Equal(t, 2, node.SelectionList.Tuples())
		assert.Equal(t, []float64{5, 5, 5}, node.SelectionList.Tuple(1))
	})

	t.Run("unknown_field", func(t *testing.T) {
		_, err := (&Inputs{Field: "voxel"}).node()
		assert.Error(t, err)
	})

	t.Run("mixed_widths", func(t *testing.T) {
		_, err := (&Inputs{Locations: []string{"1,2,3", "1,2"}}).node()
		assert.Error(t, err)
	})
}

func TestSelectText(t *testing.T) {
	dir := t.TempDir()
	cmd := &SelectCmd{Inputs: Inputs{
		Dataset:   writeFile(t, dir, "cloud.yaml", cloudDoc),
		Locations: []string{"0.01,0,0"},
	}}
	eps := 0.1
	cmd.Epsilon = &eps

	var buf bytes.Buffer
	require.NoError(t, cmd.run(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "Association:  points")
	assert.Contains(t, out, "Selected:     1")
	assert.Contains(t, out, "block 0 (unstructured_grid): 1 of 4 selected [0]")
}

func TestSelectJSON(t *testing.T) {
	dir := t.TempDir()
	cmd := &SelectCmd{
		Inputs: Inputs{
			Dataset:   writeFile(t, dir, "tetra.yaml", tetraDoc),
			Field:     "cell",
			Locations: []string{"0.25,0.25,0.25"},
		},
		JSON: true,
	}

	var buf bytes.Buffer
	require.NoError(t, cmd.run(context.Background(), &buf))

	var r report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))

	assert.Equal(t, "cells", r.Association)
	assert.Equal(t, 1, r.Selected)
	assert.NotEmpty(t, r.RunID)
	require.Len(t, r.Blocks, 2)

	assert.Equal(t, 1, r.Blocks[0].FlatIndex)
	assert.True(t, r.Blocks[0].Evaluated)
	assert.Equal(t, []int{0}, r.Blocks[0].Selected)

	assert.Equal(t, 2, r.Blocks[1].FlatIndex)
	assert.Equal(t, "table", r.Blocks[1].Kind)
	assert.False(t, r.Blocks[1].Evaluated)
	assert.Equal(t, []int{}, r.Blocks[1].Selected)
}

func TestSelectConfigurationError(t *testing.T) {
	dir := t.TempDir()
	cmd := &SelectCmd{Inputs: Inputs{
		Dataset:   writeFile(t, dir, "cloud.yaml", cloudDoc),
		Locations: []string{"1,2"},
	}}

	err := cmd.run(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, locselect.ErrUnsupportedDimension)
}

func TestSelectMissingDataset(t *testing.T) {
	cmd := &SelectCmd{Inputs: Inputs{
		Dataset:   filepath.Join(t.TempDir(), "missing.yaml"),
		Locations: []string{"1,2,3"},
	}}
	err := cmd.run(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestKongParsing(t *testing.T) {
	var root Root
	parser, err := kong.New(&root, kong.Name("locselect"))
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{
		"select",
		"--dataset", "data.yaml",
		"-l", "1,2,3",
		"-l", "4,5,6",
		"--epsilon", "0.5",
		"--field", "cell",
		"--json",
	})
	require.NoError(t, err)

	assert.Equal(t, "select", kctx.Command())
	assert.Equal(t, []string{"1,2,3", "4,5,6"}, root.Select.Locations)
	require.NotNil(t, root.Select.Epsilon)
	assert.Equal(t, 0.5, *root.Select.Epsilon)
	assert.Equal(t, "cell", root.Select.Field)
	assert.True(t, root.Select.JSON)
	assert.Equal(t, 0, root.Select.Workers)
}

func TestKongWatchDefaults(t *testing.T) {
	t.Setenv("LOCSELECT_WORKERS", "3")

	var root Root
	parser, err := kong.New(&root, kong.Name("locselect"))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"watch", "--dataset", "data.yaml"})
	require.NoError(t, err)

	assert.Equal(t, 9000, root.Watch.MetricsPort)
	assert.Equal(t, 250*time.Millisecond, root.Watch.Debounce)
	assert.Equal(t, 3, root.Watch.Workers)
	assert.Nil(t, root.Watch.Epsilon)
}

func TestWatchRerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cloud.yaml", cloudDoc)

	cmd := &WatchCmd{
		Inputs:   Inputs{Dataset: path},
		Debounce: 20 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- cmd.watch(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// unrelated files in the directory are ignored
	writeFile(t, dir, "other.yaml", cloudDoc)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	writeFile(t, dir, "cloud.yaml", cloudDoc)
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchRetriesFailures(t *testing.T) {
	dir := t.TempDir()
	cmd := &WatchCmd{Inputs: Inputs{Dataset: writeFile(t, dir, "cloud.yaml", cloudDoc)}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- cmd.watch(ctx, func(context.Context) error {
			if runs.Add(1) == 1 {
				return errors.New("first run fails")
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 10*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
