package hmat

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCollector struct {
	mock.Mock
}

func (m *mockCollector) RecordExtend(rows int, err error) {
	m.Called(rows, err)
}

func (m *mockCollector) RecordApply(mods int, duration time.Duration, err error) {
	m.Called(mods, duration, err)
}

func (m *mockCollector) RecordMerge(mods int, err error) {
	m.Called(mods, err)
}

func (m *mockCollector) RecordMarshal(op string, bytes int, duration time.Duration, err error) {
	m.Called(op, bytes, duration, err)
}

func TestMetrics_MockCollector(t *testing.T) {
	mc := &mockCollector{}
	mc.On("RecordExtend", 1, nil).Once()
	mc.On("RecordExtend", 2, nil).Once()
	mc.On("RecordExtend", 2, mock.MatchedBy(func(err error) bool {
		return err != nil
	})).Once()
	mc.On("RecordApply", 2, mock.AnythingOfType("time.Duration"), nil).Once()
	mc.On("RecordMerge", 1, nil).Once()
	mc.On("RecordMarshal", "marshal", mock.AnythingOfType("int"), mock.AnythingOfType("time.Duration"), nil).Once()
	mc.On("RecordMarshal", "unmarshal", mock.AnythingOfType("int"), mock.AnythingOfType("time.Duration"), nil).Once()

	m := New[int32](WithMetricsCollector(mc))
	m = Must(Extend[string](m))
	_, err := Extend[string](m)
	require.Error(t, err)

	a, err := NewWriter(m)
	require.NoError(t, err)
	require.NoError(t, SetCol[int32](a, 0, 1))
	b, err := NewWriter(m)
	require.NoError(t, err)
	require.NoError(t, SetCol(b, 0, "x"))
	require.NoError(t, a.Merge(b))
	require.NoError(t, m.Apply(a))

	data, err := Marshal(m)
	require.NoError(t, err)
	require.NoError(t, Unmarshal(data, m))

	mc.AssertExpectations(t)
}

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}
	m := New[int32](WithMetricsCollector(mc))
	Must(Extend[uint](m))
	_, _ = Extend[uint](m)

	w, _ := NewWriter(m)
	require.NoError(t, SetCol[int32](w, 0, 1))
	require.NoError(t, UnsetCol[uint](w, 0))
	require.NoError(t, m.Apply(w))
	assert.Error(t, m.Apply(w))

	other, _ := NewWriter(m)
	assert.Error(t, other.Merge(w))

	data, err := Marshal(m)
	require.NoError(t, err)
	require.NoError(t, Unmarshal(data, m))
	assert.Error(t, Unmarshal([]byte("junk"), m))

	stats := mc.GetStats()
	assert.Equal(t, int64(3), stats.ExtendCount)
	assert.Equal(t, int64(1), stats.ExtendErrors)
	assert.Equal(t, int64(2), stats.ApplyCount)
	assert.Equal(t, int64(1), stats.ApplyErrors)
	assert.Equal(t, int64(2), stats.ApplyMods)
	assert.Equal(t, int64(1), stats.MergeCount)
	assert.Equal(t, int64(1), stats.MergeErrors)
	assert.Equal(t, int64(1), stats.MarshalCount)
	assert.Equal(t, int64(len(data)), stats.MarshalBytes)
	assert.Equal(t, int64(2), stats.UnmarshalCount)
	assert.Equal(t, int64(1), stats.UnmarshalErrors)
	assert.GreaterOrEqual(t, stats.ApplyAvgNanos, int64(0))
}

func TestOptions_Inherited(t *testing.T) {
	mc := &BasicMetricsCollector{}
	m := New[int32](WithMetricsCollector(mc))

	// Views and writers carry the options of their matrix.
	ref := m.Ref()
	w, err := NewWriter(ref)
	require.NoError(t, err)
	other, err := NewWriter(ref)
	require.NoError(t, err)
	require.NoError(t, w.Merge(other))

	assert.Equal(t, int64(1), mc.GetStats().MergeCount)
}

func TestWithNilOptions(t *testing.T) {
	m := New[int](WithMetricsCollector(nil), WithLogger(nil), WithCodec(nil))

	_, err := Extend[string](m)
	require.NoError(t, err)
	data, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "go-json", string(data[7:7+int(data[6])]))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := New[int32](WithLogger(logger))
	_, _ = Extend[int32](m)
	_, _ = Reform(m, KeyOf[string]())
	w, _ := NewWriter(m)
	_ = SetCol[int32](w, 0, 1)
	require.NoError(t, m.Apply(w))
	_, err := Marshal(m)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"extend completed"`)
	assert.Contains(t, out, `"msg":"extend rejected"`)
	assert.Contains(t, out, `"type":"int32"`)
	assert.Contains(t, out, `"msg":"reform rejected"`)
	assert.Contains(t, out, `"msg":"apply completed"`)
	assert.Contains(t, out, `"mods":1`)
	assert.Contains(t, out, `"msg":"marshal completed"`)
	assert.Contains(t, out, `"codec":"go-json"`)
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil)).WithRows(3)
	logger.Info("hello")
	assert.Contains(t, buf.String(), "rows=3")

	assert.NotNil(t, NewLogger(nil))
	assert.NotNil(t, NewJSONLogger(slog.LevelInfo))
	assert.NotNil(t, NewTextLogger(slog.LevelInfo))

	noop := NoopLogger()
	assert.False(t, noop.Enabled(t.Context(), slog.LevelError))
}
