package hmat

import (
	"fmt"
	"slices"
)

// ModKind is the kind of a pending row edit. Its numeric value is the apply
// priority: lower kinds run first.
type ModKind uint8

const (
	// ModSet stores a value (priority 0).
	ModSet ModKind = iota
	// ModUpdate mutates a present value in place (priority 1).
	ModUpdate
	// ModUnset clears a slot (priority 2).
	ModUnset
)

// Priority returns the apply-time priority class of k.
func (k ModKind) Priority() int {
	return int(k)
}

func (k ModKind) String() string {
	switch k {
	case ModSet:
		return "set"
	case ModUpdate:
		return "update"
	case ModUnset:
		return "unset"
	default:
		return fmt.Sprintf("ModKind(%d)", uint8(k))
	}
}

// RowMod is one pending edit of a Row[T].
type RowMod[T any] struct {
	Kind  ModKind
	Index int
	// Value is the stored value of a ModSet.
	Value T
	// Fn is the mutator of a ModUpdate. It runs at most once.
	Fn func(*T)
}

func (m RowMod[T]) apply(r *Row[T]) {
	switch m.Kind {
	case ModSet:
		r.Place(m.Index, m.Value)
	case ModUnset:
		r.Take(m.Index)
	case ModUpdate:
		// An update of an absent slot is dropped.
		if v := r.GetMut(m.Index); v != nil {
			m.Fn(v)
		}
	}
}

// bucket is the type-erased edit list of one row type inside a Writer.
type bucket interface {
	len() int
	absorb(other bucket)
	applyTo(r row)
	reset()
}

type modList[T any] struct {
	mods []RowMod[T]
}

func (l *modList[T]) len() int { return len(l.mods) }

func (l *modList[T]) push(m RowMod[T]) {
	l.mods = append(l.mods, m)
}

func (l *modList[T]) absorb(other bucket) {
	l.mods = append(l.mods, other.(*modList[T]).mods...)
}

// applyTo runs the edits sorted by priority class; the sort is stable, so
// edits of one class keep their queue order.
func (l *modList[T]) applyTo(r row) {
	target := r.(*Row[T])
	slices.SortStableFunc(l.mods, func(a, b RowMod[T]) int {
		return a.Kind.Priority() - b.Kind.Priority()
	})
	for _, m := range l.mods {
		m.apply(target)
	}
}

func (l *modList[T]) reset() {
	clear(l.mods)
	l.mods = nil
}
