package model

import (
	"math"
)

// MetricKind is the discriminant of a MetricResult.
type MetricKind uint8

const (
	MetricKindInvalid MetricKind = iota
	MetricKindPercentiles
	MetricKindStats
)

func (k MetricKind) String() string {
	switch k {
	case MetricKindPercentiles:
		return "Percentiles"
	case MetricKindStats:
		return "Stats"
	case MetricKindInvalid:
	}
	return "Invalid"
}

// MetricResult is a tagged union of the metric aggregations.
// Exactly one field is set.
type MetricResult struct {
	Percentiles *PercentilesCollector `json:"Percentiles,omitempty" yaml:"Percentiles,omitempty" msgpack:"Percentiles,omitempty"`
	Stats       *Stats                `json:"Stats,omitempty" yaml:"Stats,omitempty" msgpack:"Stats,omitempty"`
}

// NewPercentilesMetric wraps a percentile sketch.
func NewPercentilesMetric(p PercentilesCollector) MetricResult {
	return MetricResult{Percentiles: &p}
}

// NewStatsMetric wraps a stats summary.
func NewStatsMetric(s Stats) MetricResult {
	return MetricResult{Stats: &s}
}

// Kind returns the set variant, or MetricKindInvalid.
func (m MetricResult) Kind() MetricKind {
	switch {
	case m.Percentiles != nil && m.Stats == nil:
		return MetricKindPercentiles
	case m.Stats != nil && m.Percentiles == nil:
		return MetricKindStats
	default:
		return MetricKindInvalid
	}
}

// PercentilesCollector is a minimal quantile sketch: the raw sample counts in
// bucket order.
type PercentilesCollector struct {
	Buckets []uint64 `json:"buckets" yaml:"buckets" msgpack:"buckets"`
}

// Stats is a count/sum/min/max summary.
type Stats struct {
	Count uint64  `json:"count" yaml:"count" msgpack:"count"`
	Sum   float64 `json:"sum" yaml:"sum" msgpack:"sum"`
	Min   float64 `json:"min" yaml:"min" msgpack:"min"`
	Max   float64 `json:"max" yaml:"max" msgpack:"max"`
}

// DefaultStats returns the empty summary: no samples, Min set to the lowest
// and Max to the highest finite float64. Infinities are avoided because JSON
// cannot carry them.
func DefaultStats() Stats {
	return Stats{
		Count: 0,
		Sum:   0,
		Min:   -math.MaxFloat64,
		Max:   math.MaxFloat64,
	}
}

// Collect adds a sample to s. The first sample replaces the default bounds.
func (s *Stats) Collect(v float64) {
	if s.Count == 0 {
		s.Min, s.Max = v, v
	} else {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Count++
	s.Sum += v
}
