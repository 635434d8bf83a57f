package hmat

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Opt is an optional value. The zero value is absent.
//
// Opt encodes as the plain value when present and as null when absent, in
// both JSON and YAML. A present value that itself encodes as null, such as a
// nil pointer, slice or map, is therefore indistinguishable from an absent one
// and decodes as absent.
type Opt[T any] struct {
	value T
	ok    bool
}

// Some returns a present optional holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, ok: true}
}

// None returns an absent optional.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether the value is present.
func (o Opt[T]) IsSome() bool {
	return o.ok
}

// OrElse returns the value, or def when absent.
func (o Opt[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}

var jsonNull = []byte("null")

// MarshalJSON implements json.Marshaler.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return jsonNull, nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (o Opt[T]) MarshalYAML() (any, error) {
	if !o.ok {
		return nil, nil
	}
	return o.value, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Opt[T]) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := n.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// optList is the encoded form of a row. yaml.v3 skips unmarshalers on null
// items and drops them from plain slices, so sequences are walked by hand to
// keep every null in its slot.
type optList[T any] []Opt[T]

func (l *optList[T]) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("hmat: expected a sequence of values, got %s", n.ShortTag())
	}
	out := make(optList[T], len(n.Content))
	for i, item := range n.Content {
		if err := out[i].UnmarshalYAML(item); err != nil {
			return fmt.Errorf("hmat: item %d: %w", i, err)
		}
	}
	*l = out
	return nil
}

// Cell is a single optional slot of a column.
//
// Cells returned by At are shared with their column, so Place and Take act
// on the column itself.
type Cell[T any] struct {
	value T
	ok    bool
}

// Get returns the value and whether it is present.
func (c *Cell[T]) Get() (T, bool) {
	return c.value, c.ok
}

// GetMut returns a pointer to the value, or nil when absent.
func (c *Cell[T]) GetMut() *T {
	if !c.ok {
		return nil
	}
	return &c.value
}

// Take clears the slot and returns its previous value.
func (c *Cell[T]) Take() (T, bool) {
	old, ok := c.value, c.ok
	var zero T
	c.value, c.ok = zero, false
	return old, ok
}

// Place stores v and returns the previous value.
func (c *Cell[T]) Place(v T) (T, bool) {
	old, ok := c.value, c.ok
	c.value, c.ok = v, true
	return old, ok
}

// IsSet reports whether the slot holds a value.
func (c *Cell[T]) IsSet() bool {
	return c.ok
}

// Opt returns the slot as an optional value.
func (c *Cell[T]) Opt() Opt[T] {
	return Opt[T]{value: c.value, ok: c.ok}
}
