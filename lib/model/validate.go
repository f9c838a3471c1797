package model

import (
	"fmt"
)

// MaxDepth bounds the nesting of sub aggregations accepted by Validate and by
// the binary decoder.
const MaxDepth = 512

// Validate checks the invariants the type system cannot express: every union
// has exactly one variant, names are unique per collection, Keys and Values
// line up, column types are known tags and nesting stays below MaxDepth.
func (a AggregationResults) Validate() error {
	return validateResults(&a, "", 0)
}

func validateResults(a *AggregationResults, path string, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("%s: nesting exceeds %d levels", orRoot(path), MaxDepth)
	}
	if err := validateNamed(a.Metrics, path+"metrics", func(p string, m *MetricResult) error {
		return validateMetric(m, p)
	}); err != nil {
		return err
	}
	return validateNamed(a.Buckets, path+"buckets", func(p string, b *BucketResult) error {
		return validateBucket(b, p, depth)
	})
}

func validateNamed[T any](v *VecWithNames[T], path string, elem func(string, *T) error) error {
	if v == nil {
		return nil
	}
	if len(v.Keys) != len(v.Values) {
		return fmt.Errorf("%s: %d names for %d values", path, len(v.Keys), len(v.Values))
	}
	seen := make(map[string]struct{}, len(v.Keys))
	for i, k := range v.Keys {
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%s: duplicate name %q", path, k)
		}
		seen[k] = struct{}{}
		if err := elem(fmt.Sprintf("%s[%q]", path, k), &v.Values[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateMetric(m *MetricResult, path string) error {
	switch m.Kind() {
	case MetricKindPercentiles, MetricKindStats:
		return nil
	case MetricKindInvalid:
	}
	return fmt.Errorf("%s: metric must have exactly one variant", path)
}

func validateBucket(b *BucketResult, path string, depth int) error {
	switch b.Kind() {
	case BucketKindHistogramVec:
		h := b.HistogramVec
		if err := validateColumnType(h.ColumnType, path+".HistogramVec"); err != nil {
			return err
		}
		for i := range h.Buckets {
			p := fmt.Sprintf("%s.HistogramVec[%d].sub_aggregation.", path, i)
			if err := validateResults(&h.Buckets[i].SubAggregation, p, depth+1); err != nil {
				return err
			}
		}
		return nil
	case BucketKindHistogramKeyed:
		h := b.HistogramKeyed
		if err := validateColumnType(h.ColumnType, path+".HistogramKeyed"); err != nil {
			return err
		}
		for k, e := range h.Buckets {
			p := fmt.Sprintf("%s.HistogramKeyed[%d].sub_aggregation.", path, k)
			if err := validateResults(&e.SubAggregation, p, depth+1); err != nil {
				return err
			}
		}
		return nil
	case BucketKindTerms:
		for k, e := range b.Terms.Entries {
			p := fmt.Sprintf("%s.Terms[%q].sub_aggregation.", path, k)
			if err := validateResults(&e.SubAggregation, p, depth+1); err != nil {
				return err
			}
		}
		return nil
	case BucketKindInvalid:
	}
	return fmt.Errorf("%s: bucket must have exactly one variant", path)
}

func validateColumnType(c *ColumnType, path string) error {
	if c != nil && !c.Valid() {
		return fmt.Errorf("%s.column_type: invalid discriminant %d", path, uint8(*c))
	}
	return nil
}

func orRoot(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
