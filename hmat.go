package hmat

import (
	"fmt"
	"iter"
	"strings"

	"github.com/hupe1980/hmat/internal/presence"
)

// HMat is a heterogeneous matrix: a stack of rows, each of a distinct
// element type.
//
// Rows are kept in storage order, which is push order: the row created by New
// is row 0, the next Extend adds row 1, and so on. Columns, writers and the
// encoded form all follow storage order.
//
// The zero value is an empty matrix with default options; Extend adds its
// first row. An HMat is not safe for concurrent use.
type HMat struct {
	rows []row
	idx  keyIndex
	opts options
}

// New creates a matrix with a single empty row of T.
func New[T any](optFns ...Option) *HMat {
	return newMat(NewRow[T](), optFns)
}

// NewWith creates a matrix with a single row of T holding values.
func NewWith[T any](values []Opt[T], optFns ...Option) *HMat {
	return newMat(NewRowFrom(values...), optFns)
}

func newMat(r row, optFns []Option) *HMat {
	m := &HMat{
		idx:  newKeyIndex(4),
		opts: buildOptions(defaultOptions(), optFns),
	}
	_ = m.idx.add(r.key())
	m.rows = append(m.rows, r)
	m.opts.metricsCollector.RecordExtend(1, nil)
	m.opts.logger.LogExtend(r.key(), 1, nil)
	return m
}

// Extend pushes a new empty row of E onto m and returns m.
//
// If m already has a row of E, Extend returns ErrDuplicateRow and m is left
// unchanged.
func Extend[E any](m *HMat) (*HMat, error) {
	return m.push(NewRow[E]())
}

// ExtendWith pushes a new row of E holding values onto m and returns m.
func ExtendWith[E any](m *HMat, values ...Opt[E]) (*HMat, error) {
	return m.push(NewRowFrom(values...))
}

// Must is a helper that wraps a call returning (*HMat, error) and panics if
// the error is non-nil. It is intended for matrix declarations whose row
// types are known to be distinct.
//
//	m := hmat.Must(hmat.Extend[float32](hmat.New[uint]()))
func Must(m *HMat, err error) *HMat {
	if err != nil {
		panic(err)
	}
	return m
}

func (m *HMat) push(r row) (*HMat, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	opts := m.settings()
	if err := m.idx.add(r.key()); err != nil {
		opts.metricsCollector.RecordExtend(len(m.rows), err)
		opts.logger.LogExtend(r.key(), len(m.rows), err)
		return m, err
	}
	m.rows = append(m.rows, r)
	opts.metricsCollector.RecordExtend(len(m.rows), nil)
	opts.logger.LogExtend(r.key(), len(m.rows), nil)
	return m, nil
}

// Len returns the number of rows.
func (m *HMat) Len() int {
	return len(m.rows)
}

// Keys returns the row keys in storage order.
func (m *HMat) Keys() []Key {
	return m.idx.snapshot()
}

// Has reports whether m has a row for k.
func (m *HMat) Has(k Key) bool {
	_, ok := m.idx.lookup(k)
	return ok
}

// Width returns the length of the longest row, i.e. the number of columns
// any row has grown to.
func (m *HMat) Width() int {
	return width(m.rows)
}

// OccupiedCols iterates, in ascending order, over the column indices at
// which at least one row holds a value.
func (m *HMat) OccupiedCols() iter.Seq[int] {
	return occupied(m.rows)
}

// Clone returns a deep copy of the matrix with the same options.
// Element values are copied with assignment.
func (m *HMat) Clone() *HMat {
	out := &HMat{
		rows: make([]row, len(m.rows)),
		idx:  m.idx.clone(),
		opts: m.opts,
	}
	for i, r := range m.rows {
		out.rows[i] = r.cloneRow()
	}
	return out
}

// String returns a short description such as "HMat[uint, float32, int32]".
func (m *HMat) String() string {
	return "HMat" + describe(m.idx.keys)
}

// Ref returns a view over every row in storage order.
func (m *HMat) Ref() *Ref {
	ref, _ := Reform(m, m.idx.keys...)
	return ref
}

func (m *HMat) rowByKey(k Key) (row, bool) {
	i, ok := m.idx.lookup(k)
	if !ok {
		return nil, false
	}
	return m.rows[i], true
}

func (m *HMat) rowList() []row { return m.rows }

func (m *HMat) keyList() []Key { return m.idx.keys }

func (m *HMat) settings() options { return m.opts.withDefaults() }

func width(rows []row) int {
	w := 0
	for _, r := range rows {
		w = max(w, r.length())
	}
	return w
}

func occupied(rows []row) iter.Seq[int] {
	return func(yield func(int) bool) {
		sets := make([]*presence.Set, len(rows))
		for i, r := range rows {
			sets[i] = r.presentSet()
		}
		for idx := range presence.Union(sets...).Iterator() {
			if !yield(int(idx)) {
				return
			}
		}
	}
}

func describe(keys []Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(names, ", "))
}
