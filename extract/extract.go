// Package extract runs a location selection over a data set or every leaf
// of a composite data set and collects the per-block insidedness arrays.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/tracing"

	"go.ntppool.org/locselect/dataset"
	"go.ntppool.org/locselect/locselect"
	"go.ntppool.org/locselect/runid"
	"go.ntppool.org/locselect/selection"
)

// ArrayName is the name given to every insidedness array
const ArrayName = "vtkInsidedness"

// Extractor evaluates selection nodes. The zero value is usable.
type Extractor struct {
	// Workers bounds the number of blocks evaluated at once; zero means
	// runtime.GOMAXPROCS(0).
	Workers int
	Log     *slog.Logger
	Metrics *locselect.Metrics
}

// BlockResult is the outcome for one leaf of the input
type BlockResult struct {
	FlatIndex int
	Kind      string

	// Evaluated is false when the selector skipped the block, for example
	// a table or a point selection on a block without points. Array is
	// nil when the block has no elements of the selected association.
	Evaluated bool
	Array     *locselect.InsidednessArray
}

// Selected is the number of selected elements, zero when not evaluated
func (br BlockResult) Selected() int {
	if !br.Evaluated || br.Array == nil {
		return 0
	}
	return br.Array.Selected()
}

// SelectedIDs returns the selected element ids of an evaluated block
func (br BlockResult) SelectedIDs() []int {
	if !br.Evaluated || br.Array == nil {
		return nil
	}
	return br.Array.SelectedIDs()
}

// Result of one Run, blocks ordered by flat index
type Result struct {
	RunID       ulid.ULID
	Association selection.Association
	Inverse     bool
	Blocks      []BlockResult
}

// Selected sums the selected elements over all blocks
func (r *Result) Selected() int {
	n := 0
	for _, b := range r.Blocks {
		n += b.Selected()
	}
	return n
}

// Block returns the result for the leaf with the given flat index
func (r *Result) Block(flatIndex int) (BlockResult, bool) {
	for _, b := range r.Blocks {
		if b.FlatIndex == flatIndex {
			return b, true
		}
	}
	return BlockResult{}, false
}

// Run evaluates node against input. Configuration errors from the selector
// are returned; a node without locations gives a result with no evaluated
// blocks. Cancellation is checked before each block.
func (e *Extractor) Run(ctx context.Context, node *selection.Node, input dataset.DataObject) (*Result, error) {
	id, err := runid.Make(time.Now())
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}

	ctx, span := tracing.Start(ctx, "extract.Run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("run_id", id.String())),
	)
	defer span.End()

	log := e.Log
	if log == nil {
		log = logger.FromContext(ctx)
	}
	log = log.With("runID", id.String())
	ctx = logger.NewContext(ctx, log)

	sl := locselect.New(log, e.Metrics)
	err = sl.Initialize(ctx, node, ArrayName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer sl.Finalize()

	assoc := sl.Association()
	res := &Result{
		RunID:       id,
		Association: assoc,
		Inverse:     node != nil && node.Properties.Inverse,
	}

	leaves := dataset.LeavesOf(input)
	res.Blocks = make([]BlockResult, len(leaves))
	for i, leaf := range leaves {
		res.Blocks[i] = BlockResult{FlatIndex: leaf.FlatIndex, Kind: leaf.Block.Kind()}
	}

	span.SetAttributes(
		attribute.String("association", assoc.String()),
		attribute.Int("blocks", len(leaves)),
	)

	if !sl.Enabled() {
		log.DebugContext(ctx, "selector disabled, no blocks evaluated", "blocks", len(leaves))
		return res, nil
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, leaf := range leaves {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res.Blocks[i] = e.evaluate(gctx, sl, leaf, res.Inverse)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "selection complete",
		"association", assoc.String(),
		"blocks", len(leaves),
		"selected", res.Selected())

	return res, nil
}

func (e *Extractor) evaluate(ctx context.Context, sl *locselect.Selector, leaf dataset.Leaf, inverse bool) BlockResult {
	ctx, span := tracing.Start(ctx, "extract.evaluateBlock",
		trace.WithAttributes(
			attribute.Int("flat_index", leaf.FlatIndex),
			attribute.String("kind", leaf.Block.Kind()),
		),
	)
	defer span.End()

	br := BlockResult{FlatIndex: leaf.FlatIndex, Kind: leaf.Block.Kind()}

	n := locselect.ElementCount(leaf.Block, sl.Association())
	if n < 0 {
		return br
	}

	br.Array = locselect.NewInsidednessArray(sl.ArrayName(), n)
	br.Evaluated = sl.ComputeSelectedElementsForBlock(ctx, leaf.Block, br.Array, uint(leaf.FlatIndex), 0, 0)

	if br.Evaluated && inverse {
		br.Array.Invert()
	}

	span.SetAttributes(
		attribute.Bool("evaluated", br.Evaluated),
		attribute.Int("selected", br.Selected()),
	)

	return br
}
