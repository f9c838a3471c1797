package model

import (
	"fmt"
	"strings"
)

// String returns a one-line summary of the tree: the collection names with
// their variant and size. Large payloads are never printed in full.
func (a AggregationResults) String() string {
	var sb strings.Builder
	writeSummary(&sb, &a)
	return sb.String()
}

// TreeStats counts the nodes of a tree, for logging.
type TreeStats struct {
	Depth         int
	Metrics       int
	Buckets       int
	BucketEntries int
	Samples       int
}

// Summarize walks the tree once and counts its nodes.
func Summarize(a AggregationResults) TreeStats {
	var s TreeStats
	summarize(&a, 1, &s)
	return s
}

func summarize(a *AggregationResults, depth int, s *TreeStats) {
	s.Depth = max(s.Depth, depth)
	for _, m := range a.Metrics.All() {
		s.Metrics++
		if m.Percentiles != nil {
			s.Samples += len(m.Percentiles.Buckets)
		}
	}
	for _, b := range a.Buckets.All() {
		s.Buckets++
		switch b.Kind() {
		case BucketKindHistogramVec:
			for i := range b.HistogramVec.Buckets {
				s.BucketEntries++
				summarize(&b.HistogramVec.Buckets[i].SubAggregation, depth+1, s)
			}
		case BucketKindHistogramKeyed:
			for _, e := range b.HistogramKeyed.Buckets {
				s.BucketEntries++
				summarize(&e.SubAggregation, depth+1, s)
			}
		case BucketKindTerms:
			for _, e := range b.Terms.Entries {
				s.BucketEntries++
				summarize(&e.SubAggregation, depth+1, s)
			}
		case BucketKindInvalid:
		}
	}
}

func writeSummary(sb *strings.Builder, a *AggregationResults) {
	sb.WriteString("AggregationResults{metrics: ")
	if a.Metrics == nil {
		sb.WriteString("None")
	} else {
		sb.WriteByte('[')
		i := 0
		for name, m := range a.Metrics.All() {
			if i > 0 {
				sb.WriteString(", ")
			}
			i++
			switch m.Kind() {
			case MetricKindPercentiles:
				fmt.Fprintf(sb, "%s: Percentiles(%d)", name, len(m.Percentiles.Buckets))
			case MetricKindStats:
				fmt.Fprintf(sb, "%s: Stats{count: %d, sum: %g, min: %g, max: %g}",
					name, m.Stats.Count, m.Stats.Sum, m.Stats.Min, m.Stats.Max)
			case MetricKindInvalid:
				fmt.Fprintf(sb, "%s: Invalid", name)
			}
		}
		sb.WriteByte(']')
	}
	sb.WriteString(", buckets: ")
	if a.Buckets == nil {
		sb.WriteString("None")
	} else {
		sb.WriteByte('[')
		i := 0
		for name, b := range a.Buckets.All() {
			if i > 0 {
				sb.WriteString(", ")
			}
			i++
			switch b.Kind() {
			case BucketKindHistogramVec:
				fmt.Fprintf(sb, "%s: HistogramVec(%s, %d)", name, fmtColumnType(b.HistogramVec.ColumnType), len(b.HistogramVec.Buckets))
			case BucketKindHistogramKeyed:
				fmt.Fprintf(sb, "%s: HistogramKeyed(%s, %d)", name, fmtColumnType(b.HistogramKeyed.ColumnType), len(b.HistogramKeyed.Buckets))
			case BucketKindTerms:
				fmt.Fprintf(sb, "%s: Terms(%d, other: %d)", name, len(b.Terms.Entries), b.Terms.SumOtherDocCount)
			case BucketKindInvalid:
				fmt.Fprintf(sb, "%s: Invalid", name)
			}
		}
		sb.WriteByte(']')
	}
	sb.WriteByte('}')
}
