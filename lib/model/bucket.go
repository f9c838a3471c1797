package model

// BucketKind is the discriminant of a BucketResult.
type BucketKind uint8

const (
	BucketKindInvalid BucketKind = iota
	BucketKindHistogramVec
	BucketKindHistogramKeyed
	BucketKindTerms
)

func (k BucketKind) String() string {
	switch k {
	case BucketKindHistogramVec:
		return "HistogramVec"
	case BucketKindHistogramKeyed:
		return "HistogramKeyed"
	case BucketKindTerms:
		return "Terms"
	case BucketKindInvalid:
	}
	return "Invalid"
}

// BucketResult is a tagged union of the bucket aggregations. HistogramVec and
// HistogramKeyed are two encodings of the same histogram. Exactly one field is
// set.
type BucketResult struct {
	HistogramVec   *HistogramVec   `json:"HistogramVec,omitempty" yaml:"HistogramVec,omitempty" msgpack:"HistogramVec,omitempty"`
	HistogramKeyed *HistogramKeyed `json:"HistogramKeyed,omitempty" yaml:"HistogramKeyed,omitempty" msgpack:"HistogramKeyed,omitempty"`
	Terms          *TermsResult    `json:"Terms,omitempty" yaml:"Terms,omitempty" msgpack:"Terms,omitempty"`
}

// NewHistogramVecBucket wraps an ordered histogram.
func NewHistogramVecBucket(h HistogramVec) BucketResult {
	return BucketResult{HistogramVec: &h}
}

// NewHistogramKeyedBucket wraps a keyed histogram.
func NewHistogramKeyedBucket(h HistogramKeyed) BucketResult {
	return BucketResult{HistogramKeyed: &h}
}

// NewTermsBucket wraps a term aggregation result.
func NewTermsBucket(t TermsResult) BucketResult {
	return BucketResult{Terms: &t}
}

// Kind returns the set variant, or BucketKindInvalid.
func (b BucketResult) Kind() BucketKind {
	kind, n := BucketKindInvalid, 0
	if b.HistogramVec != nil {
		kind, n = BucketKindHistogramVec, n+1
	}
	if b.HistogramKeyed != nil {
		kind, n = BucketKindHistogramKeyed, n+1
	}
	if b.Terms != nil {
		kind, n = BucketKindTerms, n+1
	}
	if n != 1 {
		return BucketKindInvalid
	}
	return kind
}

// HistogramVec is a histogram whose entries keep bucket order.
type HistogramVec struct {
	ColumnType *ColumnType            `json:"column_type" yaml:"column_type" msgpack:"column_type"`
	Buckets    []HistogramBucketEntry `json:"buckets" yaml:"buckets" msgpack:"buckets"`
}

// HistogramKeyed is a histogram keyed by bucket key. Map order carries no
// meaning.
type HistogramKeyed struct {
	ColumnType *ColumnType                     `json:"column_type" yaml:"column_type" msgpack:"column_type"`
	Buckets    map[uint64]HistogramBucketEntry `json:"buckets" yaml:"buckets" msgpack:"buckets"`
}

// TermsResult is a top-N term aggregation. SumOtherDocCount counts documents
// outside the returned terms, DocCountErrorUpperBound bounds the per-term error.
type TermsResult struct {
	Entries                 map[string]TermBucketEntry `json:"entries" yaml:"entries" msgpack:"entries"`
	SumOtherDocCount        uint64                     `json:"sum_other_doc_count" yaml:"sum_other_doc_count" msgpack:"sum_other_doc_count"`
	DocCountErrorUpperBound uint64                     `json:"doc_count_error_upper_bound" yaml:"doc_count_error_upper_bound" msgpack:"doc_count_error_upper_bound"`
}

// HistogramBucketEntry is one histogram bucket. SubAggregation makes the tree
// recursive.
type HistogramBucketEntry struct {
	Key            float64            `json:"key" yaml:"key" msgpack:"key"`
	DocCount       uint64             `json:"doc_count" yaml:"doc_count" msgpack:"doc_count"`
	SubAggregation AggregationResults `json:"sub_aggregation" yaml:"sub_aggregation" msgpack:"sub_aggregation"`
}

// TermBucketEntry is one term bucket.
type TermBucketEntry struct {
	DocCount       uint64             `json:"doc_count" yaml:"doc_count" msgpack:"doc_count"`
	SubAggregation AggregationResults `json:"sub_aggregation" yaml:"sub_aggregation" msgpack:"sub_aggregation"`
}
