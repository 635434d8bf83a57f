package hmat

// HCol is one column of a matrix held outside of it: one optional value per
// row type, in the row order of the matrix or view it came from.
//
// Columns are produced by ColRef, TakeCol and NewCol and consumed by
// PlaceCol. Individual slots are reached with At; SubCol returns the nested
// column that starts at a given row type.
type HCol struct {
	keys  []Key
	cells []any // *Cell[T] per level
	pos   map[Key]int
	base  int
}

func newCol(src Source, cell func(r row) any) *HCol {
	rows := src.rowList()
	keys := src.keyList()
	c := &HCol{
		keys:  keys[:len(keys):len(keys)],
		cells: make([]any, len(rows)),
		pos:   make(map[Key]int, len(keys)),
	}
	for i, r := range rows {
		c.cells[i] = cell(r)
		c.pos[keys[i]] = i
	}
	return c
}

// NewCol returns a column shaped like src with every slot absent.
// Fill it through At and hand it to PlaceCol.
func NewCol(src Source) (*HCol, error) {
	if isNilSource(src) {
		return nil, ErrNilMatrix
	}
	return newCol(src, func(r row) any { return r.emptyCell() }), nil
}

// Len returns the number of levels.
func (c *HCol) Len() int {
	return len(c.keys) - c.base
}

// Keys returns the row keys of the column, head first.
func (c *HCol) Keys() []Key {
	out := make([]Key, c.Len())
	copy(out, c.keys[c.base:])
	return out
}

// IsEmpty reports whether every slot is absent.
func (c *HCol) IsEmpty() bool {
	for _, cell := range c.cells[c.base:] {
		if cell.(interface{ IsSet() bool }).IsSet() {
			return false
		}
	}
	return true
}

func (c *HCol) lookup(k Key) (int, bool) {
	i, ok := c.pos[k]
	if !ok || i < c.base || i >= len(c.cells) {
		return 0, false
	}
	return i, true
}

// At returns the slot of element type D.
//
// The cell is shared with c: Place, Take and GetMut act on the column.
func At[D any](c *HCol) (*Cell[D], error) {
	if c == nil {
		return nil, ErrNilMatrix
	}
	k := KeyOf[D]()
	i, ok := c.lookup(k)
	if !ok {
		return nil, &RowNotFoundError{Key: k}
	}
	return c.cells[i].(*Cell[D]), nil
}

// SubCol returns the nested column that starts at the level of element
// type D and runs to the end of c.
//
// The sub-column shares its cells with c.
func SubCol[D any](c *HCol) (*HCol, error) {
	if c == nil {
		return nil, ErrNilMatrix
	}
	k := KeyOf[D]()
	i, ok := c.lookup(k)
	if !ok {
		return nil, &RowNotFoundError{Key: k}
	}
	return &HCol{
		keys:  c.keys,
		cells: c.cells,
		pos:   c.pos,
		base:  i,
	}, nil
}

// HColMut is a column of pointers into the rows of a matrix, as returned by
// ColMut. Writing through a pointer changes the matrix.
//
// The pointers are only valid until the next Place that grows their row.
type HColMut struct {
	keys []Key
	ptrs []any // *T per level, nil when absent
	pos  map[Key]int
}

// Len returns the number of levels.
func (c *HColMut) Len() int {
	return len(c.keys)
}

// Keys returns the row keys of the column, head first.
func (c *HColMut) Keys() []Key {
	out := make([]Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// ColMutAt returns the pointer for element type D, nil when the slot is
// absent.
func ColMutAt[D any](c *HColMut) (*D, error) {
	if c == nil {
		return nil, ErrNilMatrix
	}
	k := KeyOf[D]()
	i, ok := c.pos[k]
	if !ok {
		return nil, &RowNotFoundError{Key: k}
	}
	return c.ptrs[i].(*D), nil
}
