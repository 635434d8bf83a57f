package hmat

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hmat/codec"
)

type point struct {
	X, Y int
}

// newTestMat returns HMat[uint, float32, int32] with column 0 = (0, 0.5, -5).
func newTestMat(t *testing.T, optFns ...Option) *HMat {
	t.Helper()

	m := New[uint](optFns...)
	m, err := Extend[float32](m)
	require.NoError(t, err)
	m, err = Extend[int32](m)
	require.NoError(t, err)

	u, err := RowMut[uint](m)
	require.NoError(t, err)
	u.Place(0, 0)
	f, err := RowMut[float32](m)
	require.NoError(t, err)
	f.Place(0, 0.5)
	i, err := RowMut[int32](m)
	require.NoError(t, err)
	i.Place(0, -5)

	return m
}

func TestNew(t *testing.T) {
	m := New[int]()

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []Key{KeyOf[int]()}, m.Keys())
	assert.True(t, m.Has(KeyOf[int]()))
	assert.False(t, m.Has(KeyOf[string]()))
	assert.Equal(t, 0, m.Width())
	assert.Equal(t, "HMat[int]", m.String())
}

func TestNewWith(t *testing.T) {
	m := NewWith([]Opt[string]{Some("a"), None[string](), Some("c")})

	r, err := RowRef[string](m)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, 3, m.Width())
}

func TestExtend_StorageOrder(t *testing.T) {
	m := newTestMat(t)

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []Key{KeyOf[uint](), KeyOf[float32](), KeyOf[int32]()}, m.Keys())
	assert.Equal(t, "HMat[uint, float32, int32]", m.String())
}

func TestExtend_Duplicate(t *testing.T) {
	m := newTestMat(t)

	got, err := Extend[float32](m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateRow))
	assert.Same(t, m, got)
	assert.Equal(t, 3, m.Len())

	var dup *DuplicateRowError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, KeyOf[float32](), dup.Key)
	assert.Contains(t, err.Error(), "float32")
}

func TestExtend_Nil(t *testing.T) {
	_, err := Extend[int](nil)
	assert.ErrorIs(t, err, ErrNilMatrix)
}

func TestHMat_ZeroValue(t *testing.T) {
	var m HMat
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "HMat[]", m.String())

	_, err := ExtendWith(&m, Some(int32(3)))
	require.NoError(t, err)
	_, err = Extend[int32](&m)
	assert.ErrorIs(t, err, ErrDuplicateRow)
	assert.Equal(t, []Key{KeyOf[int32]()}, m.Keys())

	w, err := NewWriter(&m)
	require.NoError(t, err)
	require.NoError(t, SetCol[int32](w, 1, 4))
	require.NoError(t, m.Apply(w))

	data, err := Marshal(&m)
	require.NoError(t, err)
	assert.Equal(t, codec.Default.Name(), string(data[7:7+int(data[6])]))

	got := New[int32]()
	require.NoError(t, Unmarshal(data, got))
	r, _ := RowRef[int32](got)
	assert.Equal(t, []Opt[int32]{Some[int32](3), Some[int32](4)}, r.(*Row[int32]).Opts())
}

func TestExtendWith(t *testing.T) {
	m := Must(ExtendWith(New[int](), Some(point{1, 2})))

	r, err := RowRef[point](m)
	require.NoError(t, err)
	v, ok := r.Get(0)
	require.True(t, ok)
	assert.Equal(t, point{1, 2}, v)
}

func TestMust_Panics(t *testing.T) {
	assert.Panics(t, func() {
		Must(Extend[int](New[int]()))
	})
}

func TestKeyOf_DistinctTypes(t *testing.T) {
	type myInt int

	assert.Equal(t, KeyOf[int](), KeyOf[int]())
	assert.NotEqual(t, KeyOf[int](), KeyOf[myInt]())
	assert.NotEqual(t, KeyOf[int](), KeyOf[*int]())
	assert.Equal(t, "int", KeyOf[int]().String())
	assert.Equal(t, "hmat.point", KeyOf[point]().String())

	var zero Key
	assert.True(t, zero.IsZero())
	assert.Equal(t, "<nil>", zero.String())
	assert.False(t, KeyOf[int]().IsZero())
}

func TestRowRef_NotFound(t *testing.T) {
	m := newTestMat(t)

	_, err := RowRef[string](m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRowNotFound)

	var nf *RowNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, KeyOf[string](), nf.Key)

	_, err = RowMut[int64](m)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestRowRef_NilSource(t *testing.T) {
	var m *HMat
	_, err := RowRef[int](m)
	assert.ErrorIs(t, err, ErrNilMatrix)

	_, err = RowRef[int](nil)
	assert.ErrorIs(t, err, ErrNilMatrix)

	var ref *Ref
	_, err = RowRef[int](ref)
	assert.ErrorIs(t, err, ErrNilMatrix)
}

func TestRowMut_WritesThrough(t *testing.T) {
	m := newTestMat(t)

	r, err := RowMut[int32](m)
	require.NoError(t, err)
	r.Place(4, 40)

	read, err := RowRef[int32](m)
	require.NoError(t, err)
	v, ok := read.Get(4)
	assert.True(t, ok)
	assert.Equal(t, int32(40), v)
	assert.Equal(t, 5, m.Width())
}

func TestOccupiedCols(t *testing.T) {
	m := newTestMat(t)
	Must(ExtendWith[string](m))

	f, _ := RowMut[float32](m)
	f.Place(7, 1)
	s, _ := RowMut[string](m)
	s.Place(3, "x")
	s.Place(7, "y")

	assert.Equal(t, []int{0, 3, 7}, slices.Collect(m.OccupiedCols()))

	TakeCol(m, 0)
	assert.Equal(t, []int{3, 7}, slices.Collect(m.OccupiedCols()))
}

func TestClone(t *testing.T) {
	m := newTestMat(t)
	c := m.Clone()

	i, _ := RowMut[int32](m)
	i.Place(0, 99)
	Must(Extend[string](m))

	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Has(KeyOf[string]()))

	ci, err := RowRef[int32](c)
	require.NoError(t, err)
	v, _ := ci.Get(0)
	assert.Equal(t, int32(-5), v)

	// The clone keeps its own index.
	_, err = Extend[string](c)
	assert.NoError(t, err)
}
