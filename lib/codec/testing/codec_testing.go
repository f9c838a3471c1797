package testing

import (
	"fmt"
	"math"
	"testing"

	"github.com/ValentinKolb/aggbench/lib/codec"
	"github.com/ValentinKolb/aggbench/lib/generator"
	"github.com/ValentinKolb/aggbench/lib/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CodecFactory is a function that creates a new codec instance
type CodecFactory[P any] func() codec.ICodec[model.AggregationResults, P]

// Option adjusts the conformance suite for a codec.
type Option func(*suiteConfig)

type suiteConfig struct {
	truncation bool
}

// WithoutTruncation skips the truncated payload test. Text formats without a
// closing delimiter (YAML) can decode a truncated document successfully.
func WithoutTruncation() Option {
	return func(c *suiteConfig) {
		c.truncation = false
	}
}

// RunCodecTests runs the conformance suite for a codec of aggregation trees.
func RunCodecTests[P any](t *testing.T, name string, factory CodecFactory[P], opts ...Option) {
	cfg := suiteConfig{truncation: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	t.Run(name, func(t *testing.T) {
		t.Run("Name", func(t *testing.T) {
			assert.NotEmpty(t, factory().Name())
		})

		t.Run("ArtificialScenario", func(t *testing.T) {
			testArtificialScenario(t, factory())
		})

		t.Run("GeneratedShapes", func(t *testing.T) {
			testGeneratedShapes(t, factory())
		})

		t.Run("OrderPreservation", func(t *testing.T) {
			testOrderPreservation(t, factory())
		})

		t.Run("AbsenceVsEmptiness", func(t *testing.T) {
			testAbsenceVsEmptiness(t, factory())
		})

		t.Run("KeyedMapCompleteness", func(t *testing.T) {
			testKeyedMapCompleteness(t, factory())
		})

		t.Run("Floats", func(t *testing.T) {
			testFloats(t, factory())
		})

		t.Run("ColumnTypes", func(t *testing.T) {
			testColumnTypes(t, factory())
		})

		t.Run("InputNotMutated", func(t *testing.T) {
			testInputNotMutated(t, factory())
		})

		if cfg.truncation {
			t.Run("TruncatedPayload", func(t *testing.T) {
				testTruncatedPayload(t, factory())
			})
		}
	})
}

// roundTrip serializes and deserializes value and verifies the result.
func roundTrip[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P], value model.AggregationResults) model.AggregationResults {
	t.Helper()
	size, payload, err := c.Serialize(value)
	require.NoError(t, err, "serialize")
	require.Greater(t, size, 0, "serialized size")

	got, err := c.Deserialize(payload)
	require.NoError(t, err, "deserialize")
	require.NoError(t, model.Verify(value, got))
	return got
}

func testArtificialScenario[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P]) {
	size := generator.DefaultSize
	if testing.Short() {
		size = 500
	}
	roundTrip(t, c, generator.Artificial(size))
}

func testGeneratedShapes[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P]) {
	for _, shape := range generator.Shapes {
		t.Run(shape.String(), func(t *testing.T) {
			roundTrip(t, c, generator.Generate(shape))
		})
	}
}

func testOrderPreservation[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P]) {
	names := []string{"c", "a", "b", "zz", "0", "A"}

	metrics := model.NewVecWithNames[model.MetricResult](len(names))
	buckets := model.NewVecWithNames[model.BucketResult](len(names))
	for i, name := range names {
		require.NoError(t, metrics.Push(name, model.NewPercentilesMetric(model.PercentilesCollector{Buckets: []uint64{uint64(i)}})))
		entries := make([]model.HistogramBucketEntry, 0, 3)
		for _, k := range []float64{3, 1, 2} {
			entries = append(entries, model.HistogramBucketEntry{Key: k, DocCount: uint64(i)})
		}
		require.NoError(t, buckets.Push(name, model.NewHistogramVecBucket(model.HistogramVec{Buckets: entries})))
	}

	got := roundTrip(t, c, model.AggregationResults{Metrics: metrics, Buckets: buckets})
	assert.Equal(t, names, got.Metrics.Keys)
	assert.Equal(t, names, got.Buckets.Keys)

	first, _ := got.Buckets.Get("c")
	keys := make([]float64, 0, 3)
	for _, e := range first.HistogramVec.Buckets {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []float64{3, 1, 2}, keys)
}

func testAbsenceVsEmptiness[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P]) {
	absent := model.AggregationResults{
		Buckets: model.NewVecWithNames[model.BucketResult](1).MustPush("h", model.NewHistogramVecBucket(model.HistogramVec{
			Buckets: []model.HistogramBucketEntry{{Key: 1, DocCount: 1}},
		})),
	}
	got := roundTrip(t, c, absent)
	assert.Nil(t, got.Metrics, "absent metrics must stay absent")
	h, _ := got.Buckets.Get("h")
	assert.Nil(t, h.HistogramVec.Buckets[0].SubAggregation.Metrics)
	assert.Nil(t, h.HistogramVec.Buckets[0].SubAggregation.Buckets)

	empty := model.AggregationResults{
		Metrics: model.NewVecWithNames[model.MetricResult](0),
		Buckets: model.NewVecWithNames[model.BucketResult](0),
	}
	got = roundTrip(t, c, empty)
	require.NotNil(t, got.Metrics, "empty metrics must stay present")
	require.NotNil(t, got.Buckets, "empty buckets must stay present")
	assert.Equal(t, 0, got.Metrics.Len())
	assert.Equal(t, 0, got.Buckets.Len())
}

func testKeyedMapCompleteness[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P]) {
	const n = 257
	keyed := model.HistogramKeyed{
		ColumnType: model.ColumnTypePtr(model.ColumnTypeU64),
		Buckets:    make(map[uint64]model.HistogramBucketEntry, n),
	}
	terms := model.TermsResult{Entries: make(map[string]model.TermBucketEntry, n)}
	for i := range uint64(n) {
		k := i * 7919
		if i == n-1 {
			k = 1 << 53
		}
		keyed.Buckets[k] = model.HistogramBucketEntry{Key: float64(i), DocCount: i + 1}
		terms.Entries[fmt.Sprintf("term %03d", i)] = model.TermBucketEntry{DocCount: k}
	}
	terms.Entries["true"] = model.TermBucketEntry{DocCount: 1}
	terms.Entries["10"] = model.TermBucketEntry{DocCount: 2}
	terms.Entries[""] = model.TermBucketEntry{DocCount: 3}

	tree := model.AggregationResults{
		Buckets: model.NewVecWithNames[model.BucketResult](2).
			MustPush("keyed", model.NewHistogramKeyedBucket(keyed)).
			MustPush("terms", model.NewTermsBucket(terms)),
	}
	got := roundTrip(t, c, tree)

	gk, _ := got.Buckets.Get("keyed")
	require.Len(t, gk.HistogramKeyed.Buckets, n)
	for k, e := range keyed.Buckets {
		require.Contains(t, gk.HistogramKeyed.Buckets, k)
		require.Equal(t, e.DocCount, gk.HistogramKeyed.Buckets[k].DocCount)
	}

	gt, _ := got.Buckets.Get("terms")
	require.Len(t, gt.Terms.Entries, n+3)
}

func testFloats[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P]) {
	values := []float64{0, 0.1 + 0.2, -1.5e300, 5e-324, math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64, 1 << 60}

	metrics := model.NewVecWithNames[model.MetricResult](len(values))
	entries := make([]model.HistogramBucketEntry, 0, len(values))
	for i, v := range values {
		metrics.MustPush(fmt.Sprintf("s%d", i), model.NewStatsMetric(model.Stats{Count: uint64(i), Sum: v, Min: v / 3, Max: v * 0.5}))
		entries = append(entries, model.HistogramBucketEntry{Key: v})
	}
	roundTrip(t, c, model.AggregationResults{
		Metrics: metrics,
		Buckets: model.NewVecWithNames[model.BucketResult](1).MustPush("h", model.NewHistogramVecBucket(model.HistogramVec{Buckets: entries})),
	})

	counts := []uint64{0, 1, math.MaxUint32, 1 << 53, math.MaxInt64}
	roundTrip(t, c, model.AggregationResults{
		Metrics: model.NewVecWithNames[model.MetricResult](1).MustPush("p", model.NewPercentilesMetric(model.PercentilesCollector{Buckets: counts})),
	})
}

func testColumnTypes[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P]) {
	buckets := model.NewVecWithNames[model.BucketResult](len(model.ColumnTypes) + 1)
	for _, ct := range model.ColumnTypes {
		buckets.MustPush(ct.String(), model.NewHistogramVecBucket(model.HistogramVec{ColumnType: model.ColumnTypePtr(ct)}))
	}
	buckets.MustPush("none", model.NewHistogramVecBucket(model.HistogramVec{}))

	got := roundTrip(t, c, model.AggregationResults{Buckets: buckets})
	for _, ct := range model.ColumnTypes {
		b, ok := got.Buckets.Get(ct.String())
		require.True(t, ok)
		require.NotNil(t, b.HistogramVec.ColumnType, ct.String())
		assert.Equal(t, ct, *b.HistogramVec.ColumnType)
	}
	none, _ := got.Buckets.Get("none")
	assert.Nil(t, none.HistogramVec.ColumnType)
}

func testInputNotMutated[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P]) {
	shape := generator.Shape{Depth: 2, Width: 3, Percentiles: 10}
	value := generator.Generate(shape)
	_, _, err := c.Serialize(value)
	require.NoError(t, err)
	require.NoError(t, model.Verify(generator.Generate(shape), value))
}

func testTruncatedPayload[P any](t *testing.T, c codec.ICodec[model.AggregationResults, P]) {
	_, payload, err := c.Serialize(generator.Artificial(20))
	require.NoError(t, err)

	truncated, ok := Truncate(payload)
	if !ok {
		t.Skipf("payload type %T cannot be truncated", payload)
	}
	require.NotPanics(t, func() {
		_, err = c.Deserialize(truncated)
	})
	require.Error(t, err)

	var decodeErr codec.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

// Truncate drops the last byte of a string or byte slice payload. It reports
// false for other payload types.
func Truncate[P any](payload P) (P, bool) {
	switch p := any(payload).(type) {
	case []byte:
		if len(p) == 0 {
			return payload, false
		}
		return any(p[:len(p)-1]).(P), true
	case string:
		if len(p) == 0 {
			return payload, false
		}
		return any(p[:len(p)-1]).(P), true
	default:
		return payload, false
	}
}
