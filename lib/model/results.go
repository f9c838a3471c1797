package model

import (
	"fmt"
	"iter"
)

// VecWithNames is an ordered name -> value collection. Names are unique within
// one collection and iteration follows insertion order.
//
// Values and Keys are parallel slices. Both are exported so that every codec
// can see them without custom hooks.
type VecWithNames[T any] struct {
	Values []T      `json:"values" yaml:"values" msgpack:"values"`
	Keys   []string `json:"keys" yaml:"keys" msgpack:"keys"`
}

// NewVecWithNames creates an empty collection with room for n entries.
func NewVecWithNames[T any](n int) *VecWithNames[T] {
	return &VecWithNames[T]{
		Values: make([]T, 0, n),
		Keys:   make([]string, 0, n),
	}
}

// Push appends a named value. It fails if the name is already present.
func (v *VecWithNames[T]) Push(name string, value T) error {
	for _, k := range v.Keys {
		if k == name {
			return fmt.Errorf("duplicate name %q", name)
		}
	}
	v.Keys = append(v.Keys, name)
	v.Values = append(v.Values, value)
	return nil
}

// MustPush is Push for statically known names. It panics on duplicates.
func (v *VecWithNames[T]) MustPush(name string, value T) *VecWithNames[T] {
	if err := v.Push(name, value); err != nil {
		panic(err)
	}
	return v
}

// Get returns the value stored under name.
func (v *VecWithNames[T]) Get(name string) (T, bool) {
	if v != nil {
		for i, k := range v.Keys {
			if k == name {
				return v.Values[i], true
			}
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of entries. A nil collection has length 0.
func (v *VecWithNames[T]) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Keys)
}

// All iterates name/value pairs in insertion order.
func (v *VecWithNames[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		if v == nil {
			return
		}
		for i, k := range v.Keys {
			if !yield(k, v.Values[i]) {
				return
			}
		}
	}
}

// AggregationResults is the root of an aggregation result tree.
//
// A nil Metrics or Buckets means the level produced no metrics or buckets.
// It is different from a present but empty collection and must survive a
// round trip as nil.
type AggregationResults struct {
	Metrics *VecWithNames[MetricResult] `json:"metrics" yaml:"metrics" msgpack:"metrics"`
	Buckets *VecWithNames[BucketResult] `json:"buckets" yaml:"buckets" msgpack:"buckets"`
}

// Verify implements the value contract of the benchmark runner.
func (a AggregationResults) Verify(other AggregationResults) error {
	return Verify(a, other)
}
