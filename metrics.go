package recotarget

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordFill is called after a collection has been filled from events.
	// profiles is the collection size, err is nil if successful.
	RecordFill(profiles int, duration time.Duration, err error)

	// RecordCompare is called after one testing collection has been compared
	// with one learning collection. comparisons is the number of profile
	// pairs.
	RecordCompare(comparisons int64, duration time.Duration, err error)

	// RecordScore is called after each testing target has been scored.
	RecordScore(target int, score float64, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFill(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordCompare(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordScore(int, float64, error)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FillCount         atomic.Int64
	FillProfiles      atomic.Int64
	FillErrors        atomic.Int64
	FillTotalNanos    atomic.Int64
	CompareCount      atomic.Int64
	ComparePairs      atomic.Int64
	CompareErrors     atomic.Int64
	CompareTotalNanos atomic.Int64
	ScoreCount        atomic.Int64
	ScoreErrors       atomic.Int64
}

// RecordFill implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFill(profiles int, duration time.Duration, err error) {
	b.FillCount.Add(1)
	b.FillTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FillErrors.Add(1)
		return
	}
	b.FillProfiles.Add(int64(profiles))
}

// RecordCompare implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompare(comparisons int64, duration time.Duration, err error) {
	b.CompareCount.Add(1)
	b.CompareTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CompareErrors.Add(1)
		return
	}
	b.ComparePairs.Add(comparisons)
}

// RecordScore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScore(_ int, _ float64, err error) {
	b.ScoreCount.Add(1)
	if err != nil {
		b.ScoreErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FillCount:       b.FillCount.Load(),
		FillProfiles:    b.FillProfiles.Load(),
		FillErrors:      b.FillErrors.Load(),
		FillAvgNanos:    avg(b.FillTotalNanos.Load(), b.FillCount.Load()),
		CompareCount:    b.CompareCount.Load(),
		ComparePairs:    b.ComparePairs.Load(),
		CompareErrors:   b.CompareErrors.Load(),
		CompareAvgNanos: avg(b.CompareTotalNanos.Load(), b.CompareCount.Load()),
		ScoreCount:      b.ScoreCount.Load(),
		ScoreErrors:     b.ScoreErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FillCount       int64
	FillProfiles    int64
	FillErrors      int64
	FillAvgNanos    int64
	CompareCount    int64
	ComparePairs    int64
	CompareErrors   int64
	CompareAvgNanos int64
	ScoreCount      int64
	ScoreErrors     int64
}
