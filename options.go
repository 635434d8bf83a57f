package hmat

import (
	"log/slog"

	"github.com/hupe1980/hmat/codec"
	"github.com/hupe1980/hmat/internal/compress"
)

type options struct {
	codec            codec.Codec
	compression      Compression
	metricsCollector MetricsCollector
	logger           *Logger
}

func defaultOptions() options {
	return options{
		codec:            codec.Default,
		compression:      CompressionNone,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

// withDefaults fills the fields a zero options value leaves unset.
func (o options) withDefaults() options {
	d := defaultOptions()
	if o.codec == nil {
		o.codec = d.codec
	}
	if o.metricsCollector == nil {
		o.metricsCollector = d.metricsCollector
	}
	if o.logger == nil {
		o.logger = d.logger
	}
	return o
}

func buildOptions(base options, optFns []Option) options {
	o := base
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Option configures a matrix at construction, or a single Marshal call.
//
// Matrices extended from a configured matrix, and the views and writers built
// from it, inherit its options.
type Option func(*options)

// WithCodec configures the codec used by Marshal.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// Compression selects the block compression applied by Marshal.
type Compression = compress.Type

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone = compress.None
	// CompressionLZ4 selects LZ4 (fast).
	CompressionLZ4 = compress.LZ4
	// CompressionZSTD selects ZSTD (better ratio).
	CompressionZSTD = compress.ZSTD
)

// WithCompression configures the compression used by Marshal.
// Unmarshal detects the compression from the payload header.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hmat.BasicMetricsCollector{}
//	m := hmat.New[int32](hmat.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("Applies: %d, Avg latency: %dns\n", stats.ApplyCount, stats.ApplyAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hmat.NewJSONLogger(slog.LevelDebug)
//	m := hmat.New[int32](hmat.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}
