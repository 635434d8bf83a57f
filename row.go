package hmat

import (
	"iter"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/hmat/codec"
	"github.com/hupe1980/hmat/internal/conv"
	"github.com/hupe1980/hmat/internal/presence"
)

// Row is a sparse, growable sequence of optional values of one type,
// indexed by position from 0.
//
// Reads beyond the current length return absent. Place grows the row and
// leaves every newly created intermediate slot absent. Nothing shrinks a row.
//
// The zero value is an empty row ready to use.
type Row[T any] struct {
	vals    []T
	present *presence.Set
}

// NewRow returns an empty row.
func NewRow[T any]() *Row[T] {
	return &Row[T]{present: presence.New()}
}

// NewRowFrom returns a row holding opts at positions 0..len(opts)-1.
func NewRowFrom[T any](opts ...Opt[T]) *Row[T] {
	r := &Row[T]{
		vals:    make([]T, len(opts)),
		present: presence.New(),
	}
	for i, o := range opts {
		if v, ok := o.Get(); ok {
			r.vals[i] = v
			r.present.Add(uint32(i))
		}
	}
	return r
}

func (r *Row[T]) set() *presence.Set {
	if r.present == nil {
		r.present = presence.New()
	}
	return r.present
}

func (r *Row[T]) has(i int) bool {
	return i >= 0 && i < len(r.vals) && r.present != nil && r.present.Contains(uint32(i))
}

// Len returns the number of slots, present or not.
func (r *Row[T]) Len() int {
	return len(r.vals)
}

// Count returns the number of present slots.
func (r *Row[T]) Count() int {
	if r.present == nil {
		return 0
	}
	return int(r.present.Cardinality())
}

// Get returns the value at i and whether it is present.
func (r *Row[T]) Get(i int) (T, bool) {
	if !r.has(i) {
		var zero T
		return zero, false
	}
	return r.vals[i], true
}

// GetMut returns a pointer to the value at i, or nil when absent.
//
// The pointer addresses the row's backing storage and is only valid until
// the next Place that grows the row.
func (r *Row[T]) GetMut(i int) *T {
	if !r.has(i) {
		return nil
	}
	return &r.vals[i]
}

// Take clears slot i and returns the value it held.
// The row keeps its length.
func (r *Row[T]) Take(i int) (T, bool) {
	var zero T
	if !r.has(i) {
		return zero, false
	}
	old := r.vals[i]
	r.vals[i] = zero
	r.present.Remove(uint32(i))
	return old, true
}

// Place stores v at i and returns the value previously stored there.
//
// Place panics if i is negative or does not fit a uint32, like slice
// indexing does.
func (r *Row[T]) Place(i int, v T) (T, bool) {
	pos, err := conv.Index(i)
	if err != nil {
		panic("hmat: " + err.Error())
	}
	if i >= len(r.vals) {
		r.vals = append(r.vals, make([]T, i+1-len(r.vals))...)
	}
	old, ok := r.Get(i)
	r.vals[i] = v
	r.set().Add(pos)
	return old, ok
}

// All iterates over the present slots in ascending index order.
func (r *Row[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if r.present == nil {
			return
		}
		for idx := range r.present.Iterator() {
			if !yield(int(idx), r.vals[idx]) {
				return
			}
		}
	}
}

// Opts returns every slot as an optional value.
func (r *Row[T]) Opts() []Opt[T] {
	out := make([]Opt[T], len(r.vals))
	for i, v := range r.All() {
		out[i] = Some(v)
	}
	return out
}

// Clone returns a copy of the row. Values are copied with assignment.
func (r *Row[T]) Clone() *Row[T] {
	out := &Row[T]{
		vals:    make([]T, len(r.vals)),
		present: presence.New(),
	}
	copy(out.vals, r.vals)
	if r.present != nil {
		out.present = r.present.Clone()
	}
	return out
}

// MarshalJSON encodes the row as an array of nullable values. Present values
// that encode as null, such as nil pointers, decode as absent.
func (r *Row[T]) MarshalJSON() ([]byte, error) {
	return codec.JSON{}.Marshal(r.Opts())
}

// UnmarshalJSON replaces the row with an array of nullable values.
func (r *Row[T]) UnmarshalJSON(b []byte) error {
	var opts optList[T]
	if err := (codec.JSON{}).Unmarshal(b, &opts); err != nil {
		return err
	}
	*r = *NewRowFrom(opts...)
	return nil
}

// MarshalYAML encodes the row as a sequence of nullable values.
func (r *Row[T]) MarshalYAML() (any, error) {
	return r.Opts(), nil
}

// UnmarshalYAML replaces the row with a sequence of nullable values.
func (r *Row[T]) UnmarshalYAML(n *yaml.Node) error {
	var opts optList[T]
	if err := n.Decode(&opts); err != nil {
		return err
	}
	*r = *NewRowFrom(opts...)
	return nil
}

// RowReader is the read-only surface of a row, as exposed by views.
type RowReader[T any] interface {
	Len() int
	Count() int
	Get(i int) (T, bool)
	All() iter.Seq2[int, T]
}

var _ RowReader[int] = (*Row[int])(nil)

// row is the type-erased handle a matrix keeps for each of its rows.
// Every method is implemented by *Row[T]; values cross the boundary as
// *Cell[T] or *T.
type row interface {
	key() Key
	length() int
	presentSet() *presence.Set
	copyCell(i int) any
	ptr(i int) any
	takeCell(i int) any
	placeCell(i int, cell any)
	emptyCell() any
	newBucket() bucket
	cloneRow() row
	emptyRow() row
	encodable() any
	decode(raw *codec.Raw, c codec.Codec) (row, error)
	assign(other row)
}

func (r *Row[T]) key() Key { return KeyOf[T]() }

func (r *Row[T]) length() int { return len(r.vals) }

func (r *Row[T]) presentSet() *presence.Set { return r.set() }

func (r *Row[T]) copyCell(i int) any {
	v, ok := r.Get(i)
	return &Cell[T]{value: v, ok: ok}
}

func (r *Row[T]) ptr(i int) any { return r.GetMut(i) }

func (r *Row[T]) takeCell(i int) any {
	v, ok := r.Take(i)
	return &Cell[T]{value: v, ok: ok}
}

// placeCell writes a present cell and leaves the slot untouched otherwise.
func (r *Row[T]) placeCell(i int, cell any) {
	c := cell.(*Cell[T])
	if v, ok := c.Get(); ok {
		r.Place(i, v)
	}
}

func (r *Row[T]) emptyCell() any { return &Cell[T]{} }

func (r *Row[T]) newBucket() bucket { return &modList[T]{} }

func (r *Row[T]) cloneRow() row { return r.Clone() }

func (r *Row[T]) emptyRow() row { return NewRow[T]() }

func (r *Row[T]) encodable() any { return r.Opts() }

// assign replaces the contents of r with those of other, keeping r's
// identity so that views holding r see the new values.
func (r *Row[T]) assign(other row) { *r = *other.(*Row[T]) }

func (r *Row[T]) decode(raw *codec.Raw, c codec.Codec) (row, error) {
	var opts optList[T]
	if err := raw.Decode(c, &opts); err != nil {
		return nil, err
	}
	return NewRowFrom(opts...), nil
}
