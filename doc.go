// Package hmat provides a heterogeneous matrix: a table whose rows each hold
// a different element type, addressed by the type the caller asks for.
//
// Every row is a sparse, growable sequence of optional values. A column is
// the cross-section of all rows at one index; it is never stored on its own.
//
// # Quick Start
//
// Build a matrix by pushing typed rows:
//
//	m := hmat.New[uint]()
//	m = hmat.Must(hmat.Extend[float32](m))
//	m = hmat.Must(hmat.Extend[int32](m))
//
// Rows are found by element type, never by position:
//
//	ints, _ := hmat.RowMut[int32](m)
//	ints.Place(0, -5)
//
// # Columns
//
// ColRef copies a column out, ColMut hands out pointers into the rows,
// TakeCol moves a column out and PlaceCol writes one back:
//
//	col, _ := hmat.TakeCol(m, 0)     // column 0 is now empty
//	cell, _ := hmat.At[int32](col)
//	cell.Place(-4)
//	_ = hmat.PlaceCol(m, 1, col)     // absent slots of col leave m untouched
//
// # Views
//
// Reform builds a read-only view exposing a subset of the rows in any order.
// Views share rows with their source, so reads are always current:
//
//	ref, _ := hmat.Reform(m, hmat.KeyOf[int32](), hmat.KeyOf[float32]())
//	for idx, col := range ref.Cols(ref.Width()) {
//	    ...
//	}
//
// # Writers
//
// A Writer stages edits against a view and commits them later in one step.
// Within a row, all sets run first, then all updates, then all unsets:
//
//	w, _ := hmat.NewWriter(ref)
//	_ = hmat.UpdateCol(w, 0, func(v *int32) { *v++ })
//	_ = hmat.SetCol[int32](w, 0, 3)
//	_ = m.Apply(w)                   // slot 0 holds 4
//
// Writers staged independently can be combined with Merge before applying.
//
// # Type keys
//
// Go has no type-level recursion, so the row stack is a flat list indexed by
// Key, the identity of an element type. Keys are validated at construction:
// a matrix or view never holds the same element type twice, and a lookup of
// a type that is not there fails with ErrRowNotFound.
//
// # Encoding
//
// Rows encode as arrays of nullable values. Marshal and Unmarshal wrap the
// whole matrix in a self-describing payload using any codec of package codec,
// optionally compressed with LZ4 or ZSTD. Since null marks an absent slot, a
// present value that encodes as null (a nil pointer, slice or map) comes back
// absent.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. Views must not be read
// while a mutable row or column of the same matrix is being written.
package hmat
