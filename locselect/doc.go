// Package locselect selects the points or cells of a data set that lie at
// a list of 3D locations.
//
// The result of a selection is an insidedness array: one signed byte per
// point or per cell of a block, 1 for selected and 0 for not selected.
//
// # Matchers
//
// A Selector owns at most one matcher, chosen by Initialize from the
// selection node's field type:
//   - points: every location selects the closest point of the block if it
//     is no further away than the node's epsilon (default 0). Blocks with
//     explicit point storage are searched through a static point locator
//     built once per block; other blocks fall back to their own point lookup
//     followed by a distance check.
//   - cells: every location selects the cell containing it, found through a
//     static cell locator built once per block.
//
// # Lifecycle
//
//	sl := locselect.New(log, metrics)
//	if err := sl.Initialize(ctx, node, "insidedness"); err != nil {
//	    // logged already; sl is disabled
//	}
//	for _, block := range blocks {
//	    arr := locselect.NewInsidednessArray(sl.ArrayName(), n)
//	    sl.ComputeSelectedElementsForBlock(ctx, block, arr, idx, 0, 0)
//	}
//	sl.Finalize()
//
// Blocks are independent: ComputeSelectedElementsForBlock may be called
// concurrently for different blocks and arrays between Initialize and
// Finalize.
package locselect
