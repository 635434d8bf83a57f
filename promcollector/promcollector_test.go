package promcollector

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hmat"
)

// gathered returns the summed counter, gauge or histogram-count value of every
// series of the named family whose labels include want.
func gathered(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	var sum float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if !hasLabels(m, want) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				sum += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				sum += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return sum
}

func hasLabels(m *dto.Metric, want map[string]string) bool {
	for k, v := range want {
		found := false
		for _, lp := range m.GetLabel() {
			if lp.GetName() == k && lp.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(WithRegisterer(reg))
	require.NoError(t, err)

	m := hmat.New[int32](hmat.WithMetricsCollector(c))
	m = hmat.Must(hmat.Extend[string](m))
	_, err = hmat.Extend[string](m)
	require.Error(t, err)

	a, err := hmat.NewWriter(m)
	require.NoError(t, err)
	require.NoError(t, hmat.SetCol[int32](a, 0, 1))
	b, err := hmat.NewWriter(m)
	require.NoError(t, err)
	require.NoError(t, hmat.SetCol(b, 1, "x"))
	require.NoError(t, a.Merge(b))
	require.NoError(t, m.Apply(a))
	require.Error(t, m.Apply(a))

	data, err := hmat.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, hmat.Unmarshal(data, m))

	assert.Equal(t, 2.0, gathered(t, reg, "hmat_extends_total", map[string]string{"status": "success"}))
	assert.Equal(t, 1.0, gathered(t, reg, "hmat_extends_total", map[string]string{"status": "error"}))
	assert.Equal(t, 2.0, gathered(t, reg, "hmat_rows", nil))

	assert.Equal(t, 1.0, gathered(t, reg, "hmat_applies_total", map[string]string{"status": "success"}))
	assert.Equal(t, 1.0, gathered(t, reg, "hmat_applies_total", map[string]string{"status": "error"}))
	assert.Equal(t, 2.0, gathered(t, reg, "hmat_applied_mods_total", nil))
	assert.Equal(t, 2.0, gathered(t, reg, "hmat_apply_duration_seconds", nil))

	assert.Equal(t, 1.0, gathered(t, reg, "hmat_merges_total", map[string]string{"status": "success"}))
	assert.Equal(t, 1.0, gathered(t, reg, "hmat_merged_mods_total", nil))

	assert.Equal(t, 1.0, gathered(t, reg, "hmat_codec_operations_total", map[string]string{"op": "marshal", "status": "success"}))
	assert.Equal(t, 1.0, gathered(t, reg, "hmat_codec_operations_total", map[string]string{"op": "unmarshal", "status": "success"}))
	assert.Equal(t, float64(len(data)), gathered(t, reg, "hmat_codec_bytes_total", map[string]string{"op": "marshal"}))
	assert.Equal(t, 2.0, gathered(t, reg, "hmat_codec_duration_seconds", nil))
}

func TestCollector_Options(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(
		WithRegisterer(reg),
		WithNamespace("grid"),
		WithBuckets([]float64{0.001, 0.01}),
		WithConstLabels(prometheus.Labels{"matrix": "a"}),
	)
	require.NoError(t, err)

	hmat.New[int](hmat.WithMetricsCollector(c))

	assert.Equal(t, 1.0, gathered(t, reg, "grid_extends_total", map[string]string{"matrix": "a"}))
	assert.Equal(t, 0.0, gathered(t, reg, "hmat_extends_total", nil))
}

func TestCollector_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(WithRegisterer(reg))
	require.NoError(t, err)

	_, err = New(WithRegisterer(reg))
	require.Error(t, err)
	assert.ErrorIs(t, err, errAlreadyRegistered)

	// A different namespace does not collide.
	_, err = New(WithRegisterer(reg), WithNamespace("other"))
	assert.NoError(t, err)

	c.Unregister(reg)
	_, err = New(WithRegisterer(reg))
	assert.NoError(t, err)
}
