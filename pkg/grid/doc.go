// Package grid lays a base shape group out across a rows x cols canvas.
//
// # Layout
//
// Cells are spaced uniformly: spacing = dimension / (count + 1), so the grid
// is centered with a half-spacing margin on each side. The pivot of cell
// (row, col) is
//
//	((col+1) * width/(cols+1), (row+1) * height/(rows+1))
//
// Cells are produced in row-major order (row outer, col inner). That order is
// the emission order of shapes in the serialized output.
//
// # Modes
//
// Three composition modes exist, each as a function and as a [Mode] value:
//
//   - [Tile] / [Plain]: copy the base group and translate it to the pivot.
//   - [TileUniform] / [Uniform]: additionally apply one transform list to
//     every shape, using the cell pivot as rotate/scale center.
//   - [TileRandom] / [Random]: additionally apply 0-2 transforms per cell,
//     picked cyclically from a candidate set, either to one target shape or
//     to every shape independently.
//
// The base group is never mutated: each cell works on its own deep copy, and
// cells share no state.
package grid
