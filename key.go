package hmat

import "reflect"

// Key identifies a row by its element type.
//
// Keys replace a stored discriminant: every row, column cell and writer
// bucket is found by the Key of the type the caller asks for. Two keys are
// equal exactly when their element types are identical.
type Key struct {
	t reflect.Type
}

// KeyOf returns the key of element type T.
func KeyOf[T any]() Key {
	return Key{t: reflect.TypeFor[T]()}
}

// String returns the Go type name, e.g. "int32" or "pkg.Point".
// It is the tag written next to each row by Marshal.
func (k Key) String() string {
	if k.t == nil {
		return "<nil>"
	}
	return k.t.String()
}

// IsZero reports whether k does not name a type.
func (k Key) IsZero() bool {
	return k.t == nil
}

// keyIndex maps keys to their position in a flat stack and rejects
// duplicates on insert.
type keyIndex struct {
	keys []Key
	pos  map[Key]int
}

func newKeyIndex(capacity int) keyIndex {
	return keyIndex{
		keys: make([]Key, 0, capacity),
		pos:  make(map[Key]int, capacity),
	}
}

func (ki *keyIndex) add(k Key) error {
	if _, ok := ki.pos[k]; ok {
		return &DuplicateRowError{Key: k}
	}
	if ki.pos == nil {
		ki.pos = make(map[Key]int)
	}
	ki.pos[k] = len(ki.keys)
	ki.keys = append(ki.keys, k)
	return nil
}

func (ki *keyIndex) lookup(k Key) (int, bool) {
	i, ok := ki.pos[k]
	return i, ok
}

func (ki *keyIndex) len() int { return len(ki.keys) }

// snapshot returns a copy of the key sequence.
func (ki *keyIndex) snapshot() []Key {
	out := make([]Key, len(ki.keys))
	copy(out, ki.keys)
	return out
}

func (ki *keyIndex) clone() keyIndex {
	out := newKeyIndex(len(ki.keys))
	for _, k := range ki.keys {
		_ = out.add(k)
	}
	return out
}
