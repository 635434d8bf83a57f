// Package presence tracks which slots of a sparse row hold a value.
package presence

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a set of slot indices backed by a 32-bit Roaring bitmap.
// The zero value is not usable; call New.
type Set struct {
	rb *roaring.Bitmap
}

// New creates a new empty set.
func New() *Set {
	return &Set{
		rb: roaring.New(),
	}
}

// Add marks slot idx as present.
func (s *Set) Add(idx uint32) {
	s.rb.Add(idx)
}

// Remove marks slot idx as absent.
func (s *Set) Remove(idx uint32) {
	s.rb.Remove(idx)
}

// Contains reports whether slot idx is present.
func (s *Set) Contains(idx uint32) bool {
	return s.rb.Contains(idx)
}

// IsEmpty returns true if no slot is present.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of present slots.
func (s *Set) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{
		rb: s.rb.Clone(),
	}
}

// Iterator returns the present slots in ascending order.
func (s *Set) Iterator() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Union returns a new set holding every slot present in any of sets.
// Nil and empty sets are skipped.
func Union(sets ...*Set) *Set {
	bms := make([]*roaring.Bitmap, 0, len(sets))
	for _, s := range sets {
		if s != nil && !s.IsEmpty() {
			bms = append(bms, s.rb)
		}
	}
	if len(bms) == 0 {
		return New()
	}
	return &Set{
		rb: roaring.FastOr(bms...),
	}
}
