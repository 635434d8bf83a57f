package hmat

import "iter"

// ColIter walks the columns 0..numCols-1 of a view. It is not restartable;
// build a new one from the same view to iterate again.
type ColIter struct {
	ref     *Ref
	cur     int
	numCols int
}

// Iter returns an iterator over the first numCols columns of r.
// Use r.Width() to cover every column any row has grown to.
func (r *Ref) Iter(numCols int) *ColIter {
	return &ColIter{
		ref:     r,
		numCols: max(numCols, 0),
	}
}

// Next returns the next column and its index. ok is false once the
// iterator is exhausted, or when the column cannot be read, which also
// exhausts the iterator.
func (it *ColIter) Next() (idx int, col *HCol, ok bool) {
	if it.cur == it.numCols {
		return 0, nil, false
	}
	col, err := ColRef(it.ref, it.cur)
	if err != nil {
		it.cur = it.numCols
		return 0, nil, false
	}
	idx = it.cur
	it.cur++
	return idx, col, true
}

// Remaining returns the number of columns still to be produced.
func (it *ColIter) Remaining() int {
	return it.numCols - it.cur
}

// Cols returns a range-over-func sequence of the first numCols columns.
// Each call starts a fresh walk.
//
//	for idx, col := range ref.Cols(ref.Width()) {
//	    cell, _ := hmat.At[int32](col)
//	    ...
//	}
func (r *Ref) Cols(numCols int) iter.Seq2[int, *HCol] {
	return func(yield func(int, *HCol) bool) {
		it := r.Iter(numCols)
		for {
			idx, col, ok := it.Next()
			if !ok || !yield(idx, col) {
				return
			}
		}
	}
}

// OccupiedCols iterates, in ascending order, over the column indices at
// which at least one row of the view holds a value.
func (r *Ref) OccupiedCols() iter.Seq[int] {
	return occupied(r.rows)
}
