package hmat

import (
	"fmt"
	"time"

	"github.com/hupe1980/hmat/internal/conv"
)

// Writer collects row edits to apply to a matrix later, in one step.
//
// A writer is built from a view (or matrix) and has one bucket per row type
// of it. Edits can be staged while only read-only views are held; HMat.Apply
// commits them. Within a bucket, edits do not run in queue order: all sets
// run first, then all updates, then all unsets, each class in queue order.
// So a set is visible to every update of the same bucket, and an unset wins
// over both.
//
// A writer is consumed by HMat.Apply or by being merged into another writer.
type Writer struct {
	buckets  []bucket
	idx      keyIndex
	opts     options
	consumed bool
}

// NewWriter returns an empty writer whose buckets mirror the row types of
// src, in the same order.
func NewWriter(src Source) (*Writer, error) {
	if isNilSource(src) {
		return nil, ErrNilMatrix
	}
	rows := src.rowList()
	w := &Writer{
		buckets: make([]bucket, len(rows)),
		idx:     newKeyIndex(len(rows)),
		opts:    src.settings(),
	}
	for i, r := range rows {
		w.buckets[i] = r.newBucket()
		_ = w.idx.add(r.key())
	}
	return w, nil
}

// SetCol stages storing v at column idx of the row of D.
func SetCol[D any](w *Writer, idx int, v D) error {
	return stage(w, RowMod[D]{Kind: ModSet, Index: idx, Value: v})
}

// UnsetCol stages clearing column idx of the row of D.
func UnsetCol[D any](w *Writer, idx int) error {
	return stage(w, RowMod[D]{Kind: ModUnset, Index: idx})
}

// UpdateCol stages mutating the value at column idx of the row of D with f.
// If the slot is absent when the edit runs, f is not called.
func UpdateCol[D any](w *Writer, idx int, f func(*D)) error {
	if f == nil {
		return ErrNilFunc
	}
	return stage(w, RowMod[D]{Kind: ModUpdate, Index: idx, Fn: f})
}

func stage[D any](w *Writer, m RowMod[D]) error {
	l, err := bucketOf[D](w)
	if err != nil {
		return err
	}
	if _, err := conv.Index(m.Index); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}
	l.push(m)
	return nil
}

func bucketOf[D any](w *Writer) (*modList[D], error) {
	if w == nil {
		return nil, ErrNilMatrix
	}
	if w.consumed {
		return nil, ErrWriterConsumed
	}
	k := KeyOf[D]()
	i, ok := w.idx.lookup(k)
	if !ok {
		return nil, &RowNotFoundError{Key: k}
	}
	return w.buckets[i].(*modList[D]), nil
}

// Mods returns a copy of the edits staged for the row of D, in queue order.
func Mods[D any](w *Writer) ([]RowMod[D], error) {
	l, err := bucketOf[D](w)
	if err != nil {
		return nil, err
	}
	out := make([]RowMod[D], len(l.mods))
	copy(out, l.mods)
	return out, nil
}

// Len returns the number of staged edits across all buckets.
func (w *Writer) Len() int {
	n := 0
	for _, b := range w.buckets {
		n += b.len()
	}
	return n
}

// Keys returns the bucket keys in order.
func (w *Writer) Keys() []Key {
	return w.idx.snapshot()
}

// Consumed reports whether the writer was applied or merged away.
func (w *Writer) Consumed() bool {
	return w.consumed
}

func (w *Writer) consume() {
	for _, b := range w.buckets {
		b.reset()
	}
	w.consumed = true
}

// Merge moves the edits of other into w. For each bucket of other, its
// edits are appended to the bucket of the same row type in w; both sides
// keep their internal order, and the priority classes are applied later by
// HMat.Apply.
//
// Every bucket of other must exist in w, otherwise ErrShapeMismatch is
// returned and neither writer changes. On success other is consumed.
func (w *Writer) Merge(other *Writer) error {
	if w == nil || other == nil {
		return ErrNilMatrix
	}
	mods := other.Len()
	err := w.merge(other)
	w.opts.logger.LogMerge(mods, err)
	w.opts.metricsCollector.RecordMerge(mods, err)
	if err != nil {
		return err
	}
	other.consume()
	return nil
}

func (w *Writer) merge(other *Writer) error {
	if w.consumed || other.consumed {
		return ErrWriterConsumed
	}
	if w == other {
		return fmt.Errorf("%w: writer merged into itself", ErrShapeMismatch)
	}

	targets := make([]int, len(other.buckets))
	for i, k := range other.idx.keys {
		j, ok := w.idx.lookup(k)
		if !ok {
			return fmt.Errorf("%w: no bucket for %s in writer %s", ErrShapeMismatch, k, describe(w.idx.keys))
		}
		targets[i] = j
	}

	for i, b := range other.buckets {
		w.buckets[targets[i]].absorb(b)
	}
	return nil
}

// Apply commits every edit of w to m and consumes w.
//
// Each bucket is resolved to the row of the same element type in m. If any
// bucket has no such row, nothing is written and a *RowNotFoundError is
// returned.
func (m *HMat) Apply(w *Writer) error {
	if m == nil || w == nil {
		return ErrNilMatrix
	}

	start := time.Now()
	mods := w.Len()
	err := m.apply(w)
	opts := m.settings()
	opts.metricsCollector.RecordApply(mods, time.Since(start), err)
	opts.logger.LogApply(len(w.buckets), mods, err)
	return err
}

func (m *HMat) apply(w *Writer) error {
	if w.consumed {
		return ErrWriterConsumed
	}

	targets := make([]row, len(w.buckets))
	for i, k := range w.idx.keys {
		r, ok := m.rowByKey(k)
		if !ok {
			return &RowNotFoundError{Key: k}
		}
		targets[i] = r
	}

	for i, b := range w.buckets {
		b.applyTo(targets[i])
	}
	w.consume()
	return nil
}
