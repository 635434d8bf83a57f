package hmat

import (
	"fmt"
	"slices"

	"github.com/hupe1980/hmat/internal/conv"
)

// ColRef returns the values of column idx, one slot per row of src, in the
// row order of src. The source is not modified.
//
// Indices beyond a row's length, and negative indices, yield absent slots.
func ColRef(src Source, idx int) (*HCol, error) {
	if isNilSource(src) {
		return nil, ErrNilMatrix
	}
	return newCol(src, func(r row) any { return r.copyCell(idx) }), nil
}

// ColMut returns pointers to the values of column idx of m.
func ColMut(m *HMat, idx int) (*HColMut, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	keys := m.idx.keys
	c := &HColMut{
		keys: keys[:len(keys):len(keys)],
		ptrs: make([]any, len(m.rows)),
		pos:  make(map[Key]int, len(keys)),
	}
	for i, r := range m.rows {
		c.ptrs[i] = r.ptr(idx)
		c.pos[keys[i]] = i
	}
	return c, nil
}

// TakeCol moves column idx out of m. Every slot of the column is absent in m
// afterwards; row lengths are unchanged.
func TakeCol(m *HMat, idx int) (*HCol, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	return newCol(m, func(r row) any { return r.takeCell(idx) }), nil
}

// PlaceCol writes col into column idx of m.
//
// Placing is a partial overwrite: a present slot of col replaces the value in
// m, an absent slot leaves the value in m untouched. Placing a column never
// clears anything. col must have the row keys of m in storage order,
// otherwise ErrShapeMismatch is returned and m is unchanged.
func PlaceCol(m *HMat, idx int, col *HCol) error {
	if m == nil || col == nil {
		return ErrNilMatrix
	}
	if _, err := conv.Index(idx); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}
	if !slices.Equal(col.keys[col.base:], m.idx.keys) {
		return fmt.Errorf("%w: column %s does not fit %s", ErrShapeMismatch,
			describe(col.keys[col.base:]), m)
	}
	for i, r := range m.rows {
		r.placeCell(idx, col.cells[col.base+i])
	}
	return nil
}
