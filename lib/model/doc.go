// Package model defines the aggregation result tree that every codec in
// aggbench is measured against: buckets nesting metrics nesting further
// buckets, with keyed maps and tagged unions at every level.
//
// Key Components:
//
//   - AggregationResults: Root of a tree. Holds two optional, ordered
//     name -> value collections (VecWithNames) for metrics and buckets. A nil
//     collection ("this level produced nothing") is distinct from an empty one.
//
//   - MetricResult / BucketResult / Key: Tagged unions modelled as structs with
//     one pointer field per variant, exactly one of which is set. Kind() returns
//     the active variant; consumers switch over it exhaustively.
//
//   - HistogramBucketEntry / TermBucketEntry: Bucket entries whose
//     SubAggregation field makes the tree recursive.
//
//   - ColumnType: Closed enumeration of eight single byte tags.
//
//   - Verify: Structural equality with a path to the first difference. Floats
//     compare by IEEE value, named collections and HistogramVec in order,
//     keyed maps as sets.
//
//   - EncodeBinary / DecodeBinary: A compact positional binary representation
//     used by the hand-written binary codec. Decoding is bounds checked and
//     owns its data.
//
// Field names and union discriminants are the same in every text format:
//
//	{"metrics": {"values": [{"Stats": {"count": 0, ...}}], "keys": ["stats"]},
//	 "buckets": null}
//
// Trees are built once per scenario and never mutated while being measured.
package model
