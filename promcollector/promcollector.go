// Package promcollector exports matrix metrics to Prometheus.
//
//	c, err := promcollector.New(promcollector.WithRegisterer(reg))
//	if err != nil { ... }
//	m := hmat.New[int32](hmat.WithMetricsCollector(c))
package promcollector

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/hmat"
)

type options struct {
	namespace  string
	registerer prometheus.Registerer
	buckets    []float64
	labels     prometheus.Labels
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace sets the metric name prefix. Default: "hmat".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithRegisterer sets where the metrics are registered.
// Default: prometheus.DefaultRegisterer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		if r != nil {
			o.registerer = r
		}
	}
}

// WithBuckets sets the latency histogram buckets in seconds.
func WithBuckets(b []float64) Option {
	return func(o *options) {
		o.buckets = b
	}
}

// WithConstLabels attaches labels to every metric.
func WithConstLabels(l prometheus.Labels) Option {
	return func(o *options) {
		o.labels = l
	}
}

// Collector implements hmat.MetricsCollector on Prometheus metrics.
type Collector struct {
	extends      *prometheus.CounterVec
	rows         prometheus.Gauge
	applies      *prometheus.CounterVec
	appliedMods  prometheus.Counter
	applyLatency prometheus.Histogram
	merges       *prometheus.CounterVec
	mergedMods   prometheus.Counter
	codecOps     *prometheus.CounterVec
	codecBytes   *prometheus.CounterVec
	codecLatency *prometheus.HistogramVec
}

var _ hmat.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics.
func New(optFns ...Option) (*Collector, error) {
	o := options{
		namespace:  "hmat",
		registerer: prometheus.DefaultRegisterer,
		buckets:    prometheus.ExponentialBuckets(1e-6, 4, 10),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	c := &Collector{
		extends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "extends_total",
			Help:        "Row pushes by status.",
			ConstLabels: o.labels,
		}, []string{"status"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   o.namespace,
			Name:        "rows",
			Help:        "Row count after the last successful push.",
			ConstLabels: o.labels,
		}),
		applies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "applies_total",
			Help:        "Writer applies by status.",
			ConstLabels: o.labels,
		}, []string{"status"}),
		appliedMods: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "applied_mods_total",
			Help:        "Row edits committed by successful applies.",
			ConstLabels: o.labels,
		}),
		applyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "apply_duration_seconds",
			Help:        "Latency of writer applies.",
			Buckets:     o.buckets,
			ConstLabels: o.labels,
		}),
		merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "merges_total",
			Help:        "Writer merges by status.",
			ConstLabels: o.labels,
		}, []string{"status"}),
		mergedMods: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "merged_mods_total",
			Help:        "Row edits moved by successful merges.",
			ConstLabels: o.labels,
		}),
		codecOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "codec_operations_total",
			Help:        "Marshal and unmarshal calls by status.",
			ConstLabels: o.labels,
		}, []string{"op", "status"}),
		codecBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "codec_bytes_total",
			Help:        "Encoded bytes produced or consumed.",
			ConstLabels: o.labels,
		}, []string{"op"}),
		codecLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "codec_duration_seconds",
			Help:        "Latency of marshal and unmarshal calls.",
			Buckets:     o.buckets,
			ConstLabels: o.labels,
		}, []string{"op"}),
	}

	cols := c.collectors()
	for i, col := range cols {
		if err := o.registerer.Register(col); err != nil {
			for _, done := range cols[:i] {
				o.registerer.Unregister(done)
			}
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return nil, errors.Join(errAlreadyRegistered, err)
			}
			return nil, err
		}
	}

	return c, nil
}

var errAlreadyRegistered = errors.New("promcollector: metrics already registered")

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.extends, c.rows,
		c.applies, c.appliedMods, c.applyLatency,
		c.merges, c.mergedMods,
		c.codecOps, c.codecBytes, c.codecLatency,
	}
}

// Unregister removes the metrics from r, which should be the registerer
// the Collector was created with.
func (c *Collector) Unregister(r prometheus.Registerer) {
	for _, col := range c.collectors() {
		r.Unregister(col)
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordExtend implements hmat.MetricsCollector.
func (c *Collector) RecordExtend(rows int, err error) {
	c.extends.WithLabelValues(status(err)).Inc()
	if err == nil {
		c.rows.Set(float64(rows))
	}
}

// RecordApply implements hmat.MetricsCollector.
func (c *Collector) RecordApply(mods int, d time.Duration, err error) {
	c.applies.WithLabelValues(status(err)).Inc()
	c.applyLatency.Observe(d.Seconds())
	if err == nil {
		c.appliedMods.Add(float64(mods))
	}
}

// RecordMerge implements hmat.MetricsCollector.
func (c *Collector) RecordMerge(mods int, err error) {
	c.merges.WithLabelValues(status(err)).Inc()
	if err == nil {
		c.mergedMods.Add(float64(mods))
	}
}

// RecordMarshal implements hmat.MetricsCollector.
func (c *Collector) RecordMarshal(op string, bytes int, d time.Duration, err error) {
	c.codecOps.WithLabelValues(op, status(err)).Inc()
	c.codecLatency.WithLabelValues(op).Observe(d.Seconds())
	if err == nil {
		c.codecBytes.WithLabelValues(op).Add(float64(bytes))
	}
}
