package hmat

// Ref is a read-only view of a matrix that exposes a caller-chosen subset of
// its rows in a caller-chosen order.
//
// A Ref shares the rows of its source, so reads always observe the current
// values. It must not outlive the source, and must not be read while a row
// obtained from RowMut or a column from ColMut is being written. Any number
// of views may be used at the same time.
type Ref struct {
	rows []row
	idx  keyIndex
	opts options
}

// Reform builds a view over src exposing the rows of keys, in that order.
//
// It fails with a *RowNotFoundError when src has no row for one of the
// keys, with ErrDuplicateRow when a key is requested twice, and with
// ErrEmptyView when no key is given. src may itself be a view.
//
//	ref, err := hmat.Reform(m, hmat.KeyOf[float32](), hmat.KeyOf[int32]())
func Reform(src Source, keys ...Key) (*Ref, error) {
	if isNilSource(src) {
		return nil, ErrNilMatrix
	}
	opts := src.settings()

	ref, err := reform(src, keys)
	opts.logger.LogReform(keys, err)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func reform(src Source, keys []Key) (*Ref, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyView
	}
	ref := &Ref{
		rows: make([]row, 0, len(keys)),
		idx:  newKeyIndex(len(keys)),
		opts: src.settings(),
	}
	for _, k := range keys {
		r, ok := src.rowByKey(k)
		if !ok {
			return nil, &RowNotFoundError{Key: k}
		}
		if err := ref.idx.add(k); err != nil {
			return nil, err
		}
		ref.rows = append(ref.rows, r)
	}
	return ref, nil
}

// Len returns the number of rows in the view.
func (r *Ref) Len() int {
	return len(r.rows)
}

// Keys returns the row keys of the view in view order.
func (r *Ref) Keys() []Key {
	return r.idx.snapshot()
}

// Has reports whether the view exposes a row for k.
func (r *Ref) Has(k Key) bool {
	_, ok := r.idx.lookup(k)
	return ok
}

// Width returns the length of the longest row in the view.
func (r *Ref) Width() int {
	return width(r.rows)
}

// String returns a short description such as "Ref[float32, int32]".
func (r *Ref) String() string {
	return "Ref" + describe(r.idx.keys)
}

func (r *Ref) rowByKey(k Key) (row, bool) {
	i, ok := r.idx.lookup(k)
	if !ok {
		return nil, false
	}
	return r.rows[i], true
}

func (r *Ref) rowList() []row { return r.rows }

func (r *Ref) keyList() []Key { return r.idx.keys }

func (r *Ref) settings() options { return r.opts }
