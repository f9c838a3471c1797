package model

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleTree builds a small tree touching every variant.
func sampleTree() AggregationResults {
	leaf := func() AggregationResults {
		return AggregationResults{
			Buckets: NewVecWithNames[BucketResult](1).MustPush("bucket2", NewHistogramKeyedBucket(HistogramKeyed{
				ColumnType: ColumnTypePtr(ColumnTypeI64),
				Buckets: map[uint64]HistogramBucketEntry{
					10: {Key: 10, DocCount: 100},
					20: {Key: 20, DocCount: 7, SubAggregation: AggregationResults{Metrics: NewVecWithNames[MetricResult](0)}},
				},
			})),
		}
	}

	stats := DefaultStats()
	stats.Collect(3.5)

	return AggregationResults{
		Metrics: NewVecWithNames[MetricResult](2).
			MustPush("percentiles", NewPercentilesMetric(PercentilesCollector{Buckets: []uint64{0, 1, 2, math.MaxUint64}})).
			MustPush("stats", NewStatsMetric(stats)),
		Buckets: NewVecWithNames[BucketResult](2).
			MustPush("histogram", NewHistogramVecBucket(HistogramVec{
				Buckets: []HistogramBucketEntry{
					{Key: 10.0, DocCount: 100, SubAggregation: leaf()},
					{Key: math.Copysign(0, -1), DocCount: 1},
				},
			})).
			MustPush("terms", NewTermsBucket(TermsResult{
				Entries: map[string]TermBucketEntry{
					"alpha": {DocCount: 3, SubAggregation: leaf()},
					"beta":  {DocCount: 1},
				},
				SumOtherDocCount:        12,
				DocCountErrorUpperBound: 2,
			})),
	}
}

// --------------------------------------------------------------------------
// VecWithNames
// --------------------------------------------------------------------------

// TestVecWithNamesPush tests that names stay unique and in insertion order.
func TestVecWithNamesPush(t *testing.T) {
	v := NewVecWithNames[int](0)
	require.NoError(t, v.Push("a", 1))
	require.NoError(t, v.Push("b", 2))
	require.NoError(t, v.Push("c", 3))
	assert.Error(t, v.Push("b", 4))

	assert.Equal(t, 3, v.Len())
	got, ok := v.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
	_, ok = v.Get("x")
	assert.False(t, ok)

	var names []string
	for name := range v.All() {
		names = append(names, name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

// TestVecWithNamesNil tests that a nil collection behaves as absent.
func TestVecWithNamesNil(t *testing.T) {
	var v *VecWithNames[int]
	assert.Equal(t, 0, v.Len())
	_, ok := v.Get("a")
	assert.False(t, ok)
	for range v.All() {
		t.Fatal("nil collection must not yield")
	}
}

// --------------------------------------------------------------------------
// Stats
// --------------------------------------------------------------------------

// TestDefaultStats tests the default Stats value.
func TestDefaultStats(t *testing.T) {
	assert.Equal(t, Stats{Count: 0, Sum: 0, Min: -math.MaxFloat64, Max: math.MaxFloat64}, DefaultStats())

	// the default must be representable in JSON
	_, err := json.Marshal(DefaultStats())
	assert.NoError(t, err)
}

// TestStatsCollect tests that Collect updates the running sum and bounds.
func TestStatsCollect(t *testing.T) {
	s := DefaultStats()
	for _, v := range []float64{4, -2, 10} {
		s.Collect(v)
	}
	assert.Equal(t, Stats{Count: 3, Sum: 12, Min: -2, Max: 10}, s)
}

// --------------------------------------------------------------------------
// Verify
// --------------------------------------------------------------------------

// TestVerifyEqual tests that identical trees verify.
func TestVerifyEqual(t *testing.T) {
	require.NoError(t, Verify(sampleTree(), sampleTree()))
	require.NoError(t, sampleTree().Verify(sampleTree()))
	require.NoError(t, Verify(AggregationResults{}, AggregationResults{}))
}

// TestVerifyMismatchPath tests the path reported for the first difference.
func TestVerifyMismatchPath(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *AggregationResults)
		path   string
	}{
		{
			name: "doc count in vec",
			mutate: func(a *AggregationResults) {
				a.Buckets.Values[0].HistogramVec.Buckets[1].DocCount = 2
			},
			path: `buckets["histogram"].HistogramVec[1].doc_count`,
		},
		{
			name: "histogram key",
			mutate: func(a *AggregationResults) {
				a.Buckets.Values[0].HistogramVec.Buckets[1].Key = 0.5
			},
			path: `buckets["histogram"].HistogramVec[1].key`,
		},
		{
			name: "percentile count",
			mutate: func(a *AggregationResults) {
				a.Metrics.Values[0].Percentiles.Buckets[2] = 5
			},
			path: `metrics["percentiles"].Percentiles.buckets[2]`,
		},
		{
			name: "stats max",
			mutate: func(a *AggregationResults) {
				a.Metrics.Values[1].Stats.Max = math.Inf(1)
			},
			path: `metrics["stats"].Stats.max`,
		},
		{
			name: "absent metrics",
			mutate: func(a *AggregationResults) {
				a.Metrics = nil
			},
			path: "metrics",
		},
		{
			name: "terms tail",
			mutate: func(a *AggregationResults) {
				a.Buckets.Values[1].Terms.SumOtherDocCount = 0
			},
			path: `buckets["terms"].Terms.sum_other_doc_count`,
		},
		{
			name: "variant",
			mutate: func(a *AggregationResults) {
				a.Metrics.Values[1] = NewPercentilesMetric(PercentilesCollector{})
			},
			path: `metrics["stats"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleTree()
			tt.mutate(&got)

			err := Verify(sampleTree(), got)
			require.Error(t, err)
			var mismatch MismatchError
			require.True(t, errors.As(err, &mismatch))
			assert.Equal(t, tt.path, mismatch.Path)
		})
	}
}

// TestVerifyFloatEquality tests that floats compare by IEEE value with NaN
// equal to NaN.
func TestVerifyFloatEquality(t *testing.T) {
	withSum := func(sum float64) AggregationResults {
		return AggregationResults{Metrics: NewVecWithNames[MetricResult](1).
			MustPush("s", NewStatsMetric(Stats{Sum: sum}))}
	}
	negZero := math.Copysign(0, -1)

	assert.NoError(t, Verify(withSum(negZero), withSum(0)))
	assert.NoError(t, Verify(withSum(0), withSum(negZero)))
	assert.NoError(t, Verify(withSum(math.NaN()), withSum(math.Float64frombits(0x7ff8000000000001))))
	assert.ErrorContains(t, Verify(withSum(math.NaN()), withSum(0)), `mismatch at metrics["s"].Stats.sum: NaN`)
	assert.Error(t, Verify(withSum(1), withSum(math.Nextafter(1, 2))))

	// a -0 histogram key that comes back as +0 still verifies
	got := sampleTree()
	got.Buckets.Values[0].HistogramVec.Buckets[1].Key = 0
	assert.NoError(t, Verify(sampleTree(), got))
}

// TestVerifyOrderSensitive tests that named collections compare in order.
func TestVerifyOrderSensitive(t *testing.T) {
	a := AggregationResults{Metrics: NewVecWithNames[MetricResult](2).
		MustPush("a", NewStatsMetric(DefaultStats())).
		MustPush("b", NewStatsMetric(DefaultStats()))}
	b := AggregationResults{Metrics: NewVecWithNames[MetricResult](2).
		MustPush("b", NewStatsMetric(DefaultStats())).
		MustPush("a", NewStatsMetric(DefaultStats()))}
	assert.Error(t, Verify(a, b))
}

// TestVerifyAbsenceVsEmptiness tests that absent and empty collections
// differ.
func TestVerifyAbsenceVsEmptiness(t *testing.T) {
	absent := AggregationResults{}
	empty := AggregationResults{Metrics: NewVecWithNames[MetricResult](0)}
	assert.Error(t, Verify(absent, empty))
	assert.Error(t, Verify(empty, absent))

	// nil and empty slices inside a present collection are the same value
	nilSlices := AggregationResults{Metrics: &VecWithNames[MetricResult]{}}
	assert.NoError(t, Verify(empty, nilSlices))
}

// TestVerifyKeyedMapOrderInsensitive tests that keyed maps compare as sets.
func TestVerifyKeyedMapOrderInsensitive(t *testing.T) {
	a := HistogramKeyed{Buckets: map[uint64]HistogramBucketEntry{}}
	b := HistogramKeyed{Buckets: map[uint64]HistogramBucketEntry{}}
	for i := uint64(0); i < 100; i++ {
		a.Buckets[i] = HistogramBucketEntry{Key: float64(i), DocCount: i}
	}
	for i := uint64(100); i > 0; i-- {
		b.Buckets[i-1] = HistogramBucketEntry{Key: float64(i - 1), DocCount: i - 1}
	}
	ta := AggregationResults{Buckets: NewVecWithNames[BucketResult](1).MustPush("k", NewHistogramKeyedBucket(a))}
	tb := AggregationResults{Buckets: NewVecWithNames[BucketResult](1).MustPush("k", NewHistogramKeyedBucket(b))}
	assert.NoError(t, Verify(ta, tb))

	delete(b.Buckets, 50)
	b.Buckets[1000] = HistogramBucketEntry{}
	assert.Error(t, Verify(ta, tb))
}

// --------------------------------------------------------------------------
// Validate
// --------------------------------------------------------------------------

// TestValidate tests the structural invariants of a tree.
func TestValidate(t *testing.T) {
	require.NoError(t, sampleTree().Validate())

	dup := sampleTree()
	dup.Metrics.Keys[1] = "percentiles"
	assert.ErrorContains(t, dup.Validate(), "duplicate name")

	noVariant := sampleTree()
	noVariant.Buckets.Values[1] = BucketResult{}
	assert.ErrorContains(t, noVariant.Validate(), `buckets["terms"]`)

	twoVariants := sampleTree()
	twoVariants.Metrics.Values[0].Stats = &Stats{}
	assert.Error(t, twoVariants.Validate())

	badColumn := sampleTree()
	badColumn.Buckets.Values[0].HistogramVec.ColumnType = ColumnTypePtr(ColumnType(42))
	assert.ErrorContains(t, badColumn.Validate(), "column_type")

	misaligned := sampleTree()
	misaligned.Metrics.Keys = misaligned.Metrics.Keys[:1]
	assert.Error(t, misaligned.Validate())
}

// --------------------------------------------------------------------------
// Binary representation
// --------------------------------------------------------------------------

// TestBinaryRoundTrip tests binary round trips of absent and populated trees.
func TestBinaryRoundTrip(t *testing.T) {
	for _, tree := range []AggregationResults{{}, {Buckets: NewVecWithNames[BucketResult](0)}, sampleTree()} {
		data, err := tree.EncodeBinary(nil)
		require.NoError(t, err)

		var got AggregationResults
		require.NoError(t, got.DecodeBinary(data))
		require.NoError(t, Verify(tree, got))
	}
}

// TestBinaryDeterministic tests that binary encoding is stable despite map
// iteration order.
func TestBinaryDeterministic(t *testing.T) {
	a, err := sampleTree().EncodeBinary(nil)
	require.NoError(t, err)
	for range 10 {
		b, err := sampleTree().EncodeBinary(nil)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
}

// TestBinaryOwnsDecodedData tests that decoded trees do not alias the input
// buffer.
func TestBinaryOwnsDecodedData(t *testing.T) {
	data, err := sampleTree().EncodeBinary(nil)
	require.NoError(t, err)

	var got AggregationResults
	require.NoError(t, got.DecodeBinary(data))
	clear(data)
	assert.Equal(t, []string{"percentiles", "stats"}, got.Metrics.Keys)
	assert.NoError(t, Verify(sampleTree(), got))
}

// TestBinaryTruncated tests that every truncation of a payload fails to
// decode.
func TestBinaryTruncated(t *testing.T) {
	data, err := sampleTree().EncodeBinary(nil)
	require.NoError(t, err)

	for n := 0; n < len(data); n++ {
		var got AggregationResults
		assert.Error(t, got.DecodeBinary(data[:n]), "prefix of %d bytes", n)
	}

	var got AggregationResults
	assert.Error(t, got.DecodeBinary(append(slices.Clone(data), 0)), "trailing byte")
}

// TestBinaryHugeLength tests that an oversized length prefix fails without
// allocating it.
func TestBinaryHugeLength(t *testing.T) {
	// present metrics with a claimed length of 2^63
	data := []byte{1, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	var got AggregationResults
	assert.Error(t, got.DecodeBinary(data))
}

// TestBinaryEncodeInvalid tests that an empty union cannot be encoded.
func TestBinaryEncodeInvalid(t *testing.T) {
	tree := sampleTree()
	tree.Metrics.Values[0] = MetricResult{}
	_, err := tree.EncodeBinary(nil)
	assert.Error(t, err)
}

// --------------------------------------------------------------------------
// ColumnType
// --------------------------------------------------------------------------

// TestColumnTypeText tests the text form of column types.
func TestColumnTypeText(t *testing.T) {
	for _, c := range ColumnTypes {
		text, err := c.MarshalText()
		require.NoError(t, err)
		var got ColumnType
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, c, got)
	}
	_, err := ColumnType(8).MarshalText()
	assert.Error(t, err)
	_, err = ParseColumnType("f64")
	assert.Error(t, err)
}

// TestColumnTypeGobKeepsZeroTag tests that GOB keeps a present zero column
// type.
func TestColumnTypeGobKeepsZeroTag(t *testing.T) {
	in := HistogramVec{ColumnType: ColumnTypePtr(ColumnTypeI64)}

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(in))
	var out HistogramVec
	require.NoError(t, gob.NewDecoder(&buf).Decode(&out))

	require.NotNil(t, out.ColumnType)
	assert.Equal(t, ColumnTypeI64, *out.ColumnType)
}

// TestSummaryString tests the one line summary of a tree.
func TestSummaryString(t *testing.T) {
	s := sampleTree().String()
	assert.Contains(t, s, "percentiles: Percentiles(4)")
	assert.Contains(t, s, "histogram: HistogramVec(None, 2)")
	assert.Equal(t, "AggregationResults{metrics: None, buckets: None}", AggregationResults{}.String())

	stats := Summarize(sampleTree())
	assert.Equal(t, 3, stats.Depth)
	assert.Equal(t, 4, stats.Samples)
}
