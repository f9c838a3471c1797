package generator

import (
	"fmt"

	"github.com/ValentinKolb/aggbench/lib/model"
)

// DefaultSize is the number of percentile counts and histogram entries of the
// artificial tree.
const DefaultSize = 10_000

// ArtificialScenario is the scenario name of the artificial tree.
const ArtificialScenario = "Aggregation Artificial"

// Artificial builds the artificial benchmark tree:
//
//   - metrics "percentiles": Percentiles with counts [0, size)
//   - metrics "stats": model.DefaultStats()
//   - buckets "histogram": HistogramVec without column type and size entries
//     {key: 10.0, doc_count: 100, sub_aggregation: Leaf()}
//
// Every call returns a fresh, unshared tree with identical content.
func Artificial(size int) model.AggregationResults {
	if size < 0 {
		size = 0
	}

	counts := make([]uint64, size)
	for i := range counts {
		counts[i] = uint64(i)
	}

	entries := make([]model.HistogramBucketEntry, size)
	for i := range entries {
		entries[i] = model.HistogramBucketEntry{
			Key:            10.0,
			DocCount:       100,
			SubAggregation: Leaf(),
		}
	}

	return model.AggregationResults{
		Metrics: model.NewVecWithNames[model.MetricResult](2).
			MustPush("percentiles", model.NewPercentilesMetric(model.PercentilesCollector{Buckets: counts})).
			MustPush("stats", model.NewStatsMetric(model.DefaultStats())),
		Buckets: model.NewVecWithNames[model.BucketResult](1).
			MustPush("histogram", model.NewHistogramVecBucket(model.HistogramVec{Buckets: entries})),
	}
}

// Leaf builds the nested leaf of the artificial tree: no metrics and a single
// keyed histogram "bucket2" with the entry 10 -> {10.0, 100, empty}.
func Leaf() model.AggregationResults {
	return model.AggregationResults{
		Buckets: model.NewVecWithNames[model.BucketResult](1).
			MustPush("bucket2", model.NewHistogramKeyedBucket(model.HistogramKeyed{
				Buckets: map[uint64]model.HistogramBucketEntry{
					10: {Key: 10.0, DocCount: 100},
				},
			})),
	}
}

// Shape parameterizes Generate.
type Shape struct {
	// Depth is the number of nested sub aggregation levels below the root.
	Depth int
	// Width is the number of entries per bucket.
	Width int
	// Percentiles is the number of counts per Percentiles metric.
	Percentiles int
}

// String returns a compact name usable as a sub test name.
func (s Shape) String() string {
	return fmt.Sprintf("depth=%d/width=%d/percentiles=%d", s.Depth, s.Width, s.Percentiles)
}

// Shapes is a set of shapes from trivial to moderately large, for
// property style tests.
var Shapes = []Shape{
	{Depth: 0, Width: 0, Percentiles: 0},
	{Depth: 0, Width: 1, Percentiles: 1},
	{Depth: 1, Width: 3, Percentiles: 5},
	{Depth: 2, Width: 4, Percentiles: 16},
	{Depth: 3, Width: 3, Percentiles: 8},
	{Depth: 5, Width: 1, Percentiles: 2},
	{Depth: 1, Width: 40, Percentiles: 500},
}

// Generate builds a deterministic tree of the given shape. Every level
// rotates through all metric and bucket variants, column types (including
// none) and absent, empty and populated collections, so that a single tree
// covers every encoding path. Values are derived from the position in the
// tree, never from randomness.
func Generate(s Shape) model.AggregationResults {
	g := shapeGen{shape: s}
	return g.level(0, 0)
}

type shapeGen struct {
	shape Shape
}

// level builds one aggregation level. seed is unique per node and drives all
// derived values.
func (g *shapeGen) level(depth int, seed uint64) model.AggregationResults {
	var out model.AggregationResults

	// collections cycle through present, absent and present-but-empty
	switch seed % 3 {
	case 0:
		out.Metrics = g.metrics(seed)
		out.Buckets = g.buckets(depth, seed)
	case 1:
		out.Buckets = g.buckets(depth, seed)
	case 2:
		out.Metrics = model.NewVecWithNames[model.MetricResult](0)
		if depth < g.shape.Depth {
			out.Buckets = g.buckets(depth, seed)
		}
	}
	return out
}

func (g *shapeGen) metrics(seed uint64) *model.VecWithNames[model.MetricResult] {
	counts := make([]uint64, g.shape.Percentiles)
	for i := range counts {
		counts[i] = seed*31 + uint64(i)*uint64(i)
	}

	stats := model.DefaultStats()
	for i := range g.shape.Width {
		stats.Collect(float64(seed) + float64(i)*0.25 - 3)
	}

	return model.NewVecWithNames[model.MetricResult](3).
		MustPush("percentiles", model.NewPercentilesMetric(model.PercentilesCollector{Buckets: counts})).
		MustPush("stats", model.NewStatsMetric(stats)).
		MustPush("stats_default", model.NewStatsMetric(model.DefaultStats()))
}

func (g *shapeGen) buckets(depth int, seed uint64) *model.VecWithNames[model.BucketResult] {
	out := model.NewVecWithNames[model.BucketResult](3)
	leaf := depth >= g.shape.Depth

	sub := func(i int) model.AggregationResults {
		if leaf {
			return model.AggregationResults{}
		}
		return g.level(depth+1, seed*7+uint64(i)+1)
	}

	vec := model.HistogramVec{
		ColumnType: g.columnType(seed),
		Buckets:    make([]model.HistogramBucketEntry, g.shape.Width),
	}
	for i := range vec.Buckets {
		vec.Buckets[i] = model.HistogramBucketEntry{
			// descending keys: bucket order is not sorted order
			Key:            float64(g.shape.Width-i) * 0.5,
			DocCount:       seed + uint64(i),
			SubAggregation: sub(i),
		}
	}
	out.MustPush("histogram", model.NewHistogramVecBucket(vec))

	keyed := model.HistogramKeyed{
		ColumnType: g.columnType(seed + 1),
		Buckets:    make(map[uint64]model.HistogramBucketEntry, g.shape.Width),
	}
	for i := range g.shape.Width {
		k := uint64(i)*1000 + seed
		keyed.Buckets[k] = model.HistogramBucketEntry{
			Key:            float64(k),
			DocCount:       uint64(i) + 1,
			SubAggregation: sub(i + g.shape.Width),
		}
	}
	out.MustPush("keyed", model.NewHistogramKeyedBucket(keyed))

	terms := model.TermsResult{
		Entries:                 make(map[string]model.TermBucketEntry, g.shape.Width),
		SumOtherDocCount:        seed * 3,
		DocCountErrorUpperBound: seed % 5,
	}
	for i := range g.shape.Width {
		terms.Entries[fmt.Sprintf("term-%d-%d", seed, i)] = model.TermBucketEntry{
			DocCount:       uint64(g.shape.Width - i),
			SubAggregation: sub(i + 2*g.shape.Width),
		}
	}
	out.MustPush("terms", model.NewTermsBucket(terms))

	return out
}

// columnType cycles through all tags and "no column type".
func (g *shapeGen) columnType(seed uint64) *model.ColumnType {
	n := uint64(len(model.ColumnTypes) + 1)
	i := seed % n
	if i == uint64(len(model.ColumnTypes)) {
		return nil
	}
	return model.ColumnTypePtr(model.ColumnTypes[i])
}
