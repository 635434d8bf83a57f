package hmat

// Source is anything rows can be resolved against: an *HMat or a *Ref.
//
// Resolution is purely by element type; the caller never states at which
// position a row lives.
type Source interface {
	rowByKey(k Key) (row, bool)
	rowList() []row
	keyList() []Key
	settings() options
}

var (
	_ Source = (*HMat)(nil)
	_ Source = (*Ref)(nil)
)

// RowRef returns the row of element type D for reading.
//
// It returns a *RowNotFoundError (matching ErrRowNotFound) when src has no
// row of D.
func RowRef[D any](src Source) (RowReader[D], error) {
	r, err := lookupRow[D](src)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// RowMut returns the row of element type D for in-place modification.
//
// Only an owning matrix hands out mutable rows; views are read-only.
func RowMut[D any](m *HMat) (*Row[D], error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	return lookupRow[D](m)
}

func lookupRow[D any](src Source) (*Row[D], error) {
	if isNilSource(src) {
		return nil, ErrNilMatrix
	}
	k := KeyOf[D]()
	r, ok := src.rowByKey(k)
	if !ok {
		return nil, &RowNotFoundError{Key: k}
	}
	return r.(*Row[D]), nil
}

func isNilSource(src Source) bool {
	switch s := src.(type) {
	case nil:
		return true
	case *HMat:
		return s == nil
	case *Ref:
		return s == nil
	default:
		return false
	}
}
