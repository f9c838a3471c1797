package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MismatchError reports that a decoded tree differs from the original. Path
// points at the first differing node, e.g.
// buckets["histogram"].HistogramVec[17].doc_count.
type MismatchError struct {
	Path   string
	Reason string
}

// Error returns the error message for MismatchError.
func (m MismatchError) Error() string {
	if m.Path == "" {
		return "mismatch: " + m.Reason
	}
	return fmt.Sprintf("mismatch at %s: %s", m.Path, m.Reason)
}

// NewMismatchError creates a MismatchError for path.
func NewMismatchError(path, reason string) MismatchError {
	return MismatchError{Path: path, Reason: reason}
}

// Verify compares two trees structurally. Named collections and HistogramVec
// entries are compared in order, HistogramKeyed and Terms maps as sets of
// key/value pairs. Floats compare by IEEE value, so -0 equals +0; NaN equals
// NaN. A nil collection only equals
// another nil collection; nil and empty slices or maps are equal.
func Verify(orig, got AggregationResults) error {
	v := verifier{}
	if !v.results(&orig, &got) {
		return NewMismatchError(v.path(), v.reason)
	}
	return nil
}

// verifier walks two trees in lockstep. The path is only rendered on
// mismatch, so segments are stored unformatted.
type verifier struct {
	segs   []string
	reason string
}

func (v *verifier) push(seg string) { v.segs = append(v.segs, seg) }
func (v *verifier) pop() { v.segs = v.segs[:len(v.segs)-1] }

func (v *verifier) path() string {
	var sb strings.Builder
	for i, s := range v.segs {
		if i > 0 && !strings.HasPrefix(s, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func (v *verifier) fail(format string, args ...any) bool {
	v.reason = fmt.Sprintf(format, args...)
	return false
}

func (v *verifier) results(a, b *AggregationResults) bool {
	v.push("metrics")
	if !verifyNamed(v, a.Metrics, b.Metrics, v.metric) {
		return false
	}
	v.pop()
	v.push("buckets")
	if !verifyNamed(v, a.Buckets, b.Buckets, v.bucket) {
		return false
	}
	v.pop()
	return true
}

func verifyNamed[T any](v *verifier, a, b *VecWithNames[T], elem func(a, b *T) bool) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil:
		return v.fail("expected absent collection, got %d entries", b.Len())
	case b == nil:
		return v.fail("expected %d entries, got absent collection", a.Len())
	}
	if len(a.Keys) != len(b.Keys) || len(a.Values) != len(b.Values) {
		return v.fail("length %d/%d, got %d/%d", len(a.Keys), len(a.Values), len(b.Keys), len(b.Values))
	}
	for i := range a.Keys {
		if a.Keys[i] != b.Keys[i] {
			return v.fail("name at position %d: %q, got %q", i, a.Keys[i], b.Keys[i])
		}
	}
	for i := range a.Values {
		v.push("[" + strconv.Quote(a.Keys[i]) + "]")
		if !elem(&a.Values[i], &b.Values[i]) {
			return false
		}
		v.pop()
	}
	return true
}

func (v *verifier) metric(a, b *MetricResult) bool {
	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return v.fail("metric variant %s, got %s", ka, kb)
	}
	switch ka {
	case MetricKindPercentiles:
		v.push("Percentiles.buckets")
		ab, bb := a.Percentiles.Buckets, b.Percentiles.Buckets
		if len(ab) != len(bb) {
			return v.fail("length %d, got %d", len(ab), len(bb))
		}
		for i := range ab {
			if ab[i] != bb[i] {
				v.push("[" + strconv.Itoa(i) + "]")
				return v.fail("%d, got %d", ab[i], bb[i])
			}
		}
		v.pop()
		return true
	case MetricKindStats:
		v.push("Stats")
		sa, sb := a.Stats, b.Stats
		if sa.Count != sb.Count {
			v.push("count")
			return v.fail("%d, got %d", sa.Count, sb.Count)
		}
		if !v.float("sum", sa.Sum, sb.Sum) || !v.float("min", sa.Min, sb.Min) || !v.float("max", sa.Max, sb.Max) {
			return false
		}
		v.pop()
		return true
	case MetricKindInvalid:
		return v.fail("invalid metric variant")
	}
	return v.fail("unknown metric variant %d", ka)
}

func (v *verifier) bucket(a, b *BucketResult) bool {
	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return v.fail("bucket variant %s, got %s", ka, kb)
	}
	switch ka {
	case BucketKindHistogramVec:
		v.push("HistogramVec")
		if !v.columnType(a.HistogramVec.ColumnType, b.HistogramVec.ColumnType) {
			return false
		}
		ab, bb := a.HistogramVec.Buckets, b.HistogramVec.Buckets
		if len(ab) != len(bb) {
			return v.fail("length %d, got %d", len(ab), len(bb))
		}
		for i := range ab {
			v.push("[" + strconv.Itoa(i) + "]")
			if !v.histogramEntry(&ab[i], &bb[i]) {
				return false
			}
			v.pop()
		}
		v.pop()
		return true
	case BucketKindHistogramKeyed:
		v.push("HistogramKeyed")
		if !v.columnType(a.HistogramKeyed.ColumnType, b.HistogramKeyed.ColumnType) {
			return false
		}
		am, bm := a.HistogramKeyed.Buckets, b.HistogramKeyed.Buckets
		if len(am) != len(bm) {
			return v.fail("%d keys, got %d", len(am), len(bm))
		}
		for k, ae := range am {
			v.push("[" + strconv.FormatUint(k, 10) + "]")
			be, ok := bm[k]
			if !ok {
				return v.fail("key missing")
			}
			if !v.histogramEntry(&ae, &be) {
				return false
			}
			v.pop()
		}
		v.pop()
		return true
	case BucketKindTerms:
		v.push("Terms")
		ta, tb := a.Terms, b.Terms
		if ta.SumOtherDocCount != tb.SumOtherDocCount {
			v.push("sum_other_doc_count")
			return v.fail("%d, got %d", ta.SumOtherDocCount, tb.SumOtherDocCount)
		}
		if ta.DocCountErrorUpperBound != tb.DocCountErrorUpperBound {
			v.push("doc_count_error_upper_bound")
			return v.fail("%d, got %d", ta.DocCountErrorUpperBound, tb.DocCountErrorUpperBound)
		}
		if len(ta.Entries) != len(tb.Entries) {
			v.push("entries")
			return v.fail("%d keys, got %d", len(ta.Entries), len(tb.Entries))
		}
		for k, ae := range ta.Entries {
			v.push("[" + strconv.Quote(k) + "]")
			be, ok := tb.Entries[k]
			if !ok {
				return v.fail("key missing")
			}
			if ae.DocCount != be.DocCount {
				v.push("doc_count")
				return v.fail("%d, got %d", ae.DocCount, be.DocCount)
			}
			v.push("sub_aggregation")
			if !v.results(&ae.SubAggregation, &be.SubAggregation) {
				return false
			}
			v.pop()
			v.pop()
		}
		v.pop()
		return true
	case BucketKindInvalid:
		return v.fail("invalid bucket variant")
	}
	return v.fail("unknown bucket variant %d", ka)
}

func (v *verifier) histogramEntry(a, b *HistogramBucketEntry) bool {
	if !v.float("key", a.Key, b.Key) {
		return false
	}
	if a.DocCount != b.DocCount {
		v.push("doc_count")
		return v.fail("%d, got %d", a.DocCount, b.DocCount)
	}
	v.push("sub_aggregation")
	if !v.results(&a.SubAggregation, &b.SubAggregation) {
		return false
	}
	v.pop()
	return true
}

func (v *verifier) columnType(a, b *ColumnType) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil || *a != *b:
		v.push("column_type")
		return v.fail("%s, got %s", fmtColumnType(a), fmtColumnType(b))
	}
	return true
}

// float uses IEEE equality, except that any NaN equals any NaN.
func (v *verifier) float(field string, a, b float64) bool {
	if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
		v.push(field)
		return v.fail("%v (%#016x), got %v (%#016x)", a, math.Float64bits(a), b, math.Float64bits(b))
	}
	return true
}

func fmtColumnType(c *ColumnType) string {
	if c == nil {
		return "None"
	}
	return c.String()
}
