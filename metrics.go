package hmat

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// promcollector provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordExtend is called after each row push; rows is the row count
	// after the push.
	RecordExtend(rows int, err error)

	// RecordApply is called after a writer was applied.
	// mods is the number of staged edits, duration the time taken.
	RecordApply(mods int, duration time.Duration, err error)

	// RecordMerge is called after two writers were merged.
	RecordMerge(mods int, err error)

	// RecordMarshal is called after a matrix was encoded or decoded.
	// op is "marshal" or "unmarshal", bytes the encoded size.
	RecordMarshal(op string, bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExtend(int, error)                         {}
func (NoopMetricsCollector) RecordApply(int, time.Duration, error)           {}
func (NoopMetricsCollector) RecordMerge(int, error)                          {}
func (NoopMetricsCollector) RecordMarshal(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ExtendCount     atomic.Int64
	ExtendErrors    atomic.Int64
	ApplyCount      atomic.Int64
	ApplyErrors     atomic.Int64
	ApplyMods       atomic.Int64
	ApplyTotalNanos atomic.Int64
	MergeCount      atomic.Int64
	MergeErrors     atomic.Int64
	MergeMods       atomic.Int64
	MarshalCount    atomic.Int64
	MarshalErrors   atomic.Int64
	MarshalBytes    atomic.Int64
	UnmarshalCount  atomic.Int64
	UnmarshalErrors atomic.Int64
}

// RecordExtend implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExtend(rows int, err error) {
	b.ExtendCount.Add(1)
	if err != nil {
		b.ExtendErrors.Add(1)
	}
}

// RecordApply implements MetricsCollector.
func (b *BasicMetricsCollector) RecordApply(mods int, duration time.Duration, err error) {
	b.ApplyCount.Add(1)
	b.ApplyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ApplyErrors.Add(1)
		return
	}
	b.ApplyMods.Add(int64(mods))
}

// RecordMerge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMerge(mods int, err error) {
	b.MergeCount.Add(1)
	if err != nil {
		b.MergeErrors.Add(1)
		return
	}
	b.MergeMods.Add(int64(mods))
}

// RecordMarshal implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMarshal(op string, bytes int, duration time.Duration, err error) {
	switch op {
	case "unmarshal":
		b.UnmarshalCount.Add(1)
		if err != nil {
			b.UnmarshalErrors.Add(1)
		}
	default:
		b.MarshalCount.Add(1)
		if err != nil {
			b.MarshalErrors.Add(1)
			return
		}
		b.MarshalBytes.Add(int64(bytes))
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ExtendCount:     b.ExtendCount.Load(),
		ExtendErrors:    b.ExtendErrors.Load(),
		ApplyCount:      b.ApplyCount.Load(),
		ApplyErrors:     b.ApplyErrors.Load(),
		ApplyMods:       b.ApplyMods.Load(),
		ApplyAvgNanos:   b.getAvgApplyNanos(),
		MergeCount:      b.MergeCount.Load(),
		MergeErrors:     b.MergeErrors.Load(),
		MergeMods:       b.MergeMods.Load(),
		MarshalCount:    b.MarshalCount.Load(),
		MarshalErrors:   b.MarshalErrors.Load(),
		MarshalBytes:    b.MarshalBytes.Load(),
		UnmarshalCount:  b.UnmarshalCount.Load(),
		UnmarshalErrors: b.UnmarshalErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgApplyNanos() int64 {
	count := b.ApplyCount.Load()
	if count == 0 {
		return 0
	}
	return b.ApplyTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ExtendCount     int64
	ExtendErrors    int64
	ApplyCount      int64
	ApplyErrors     int64
	ApplyMods       int64
	ApplyAvgNanos   int64
	MergeCount      int64
	MergeErrors     int64
	MergeMods       int64
	MarshalCount    int64
	MarshalErrors   int64
	MarshalBytes    int64
	UnmarshalCount  int64
	UnmarshalErrors int64
}
