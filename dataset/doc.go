// Package dataset provides the geometric data model the location selector
// operates on.
//
// A DataObject is anything that can be handed to the selection pipeline as a
// block. DataSet is the geometric subset: it has points, cells and a
// point lookup primitive. Data sets that keep their point coordinates in an
// explicit array also implement PointStorage; callers that can make use of a
// static point index check for that capability instead of the concrete type.
//
// # Types
//
//   - UnstructuredGrid: explicit points and cell connectivity
//   - ImageData: implicit uniform grid, points are computed from the origin
//     and spacing and never stored
//   - Table: rows without geometry
//   - MultiBlock: a composite of other data objects
//
// Documents describing any of these can be loaded from YAML with Load or
// LoadFile.
package dataset
