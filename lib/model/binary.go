package model

import (
	"encoding/binary"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// Binary representation
//
// The layout is positional and little endian:
//
//	option    : 0x00 (absent) | 0x01 value
//	union     : variant index byte, then the variant
//	length    : uvarint
//	string    : length, then the raw bytes
//	u64 / f64 : 8 bytes (f64 as its IEEE 754 bit pattern)
//
// HistogramKeyed and Terms maps are written in ascending key order so equal
// trees produce equal bytes.

// ErrShortBuffer is returned when a binary payload ends early.
var ErrShortBuffer = errors.New("binary: unexpected end of payload")

// Not MarshalBinary/UnmarshalBinary: gob, msgpack and cbor would call those
// instead of their own encoding.

// EncodeBinary appends the binary representation of a to b.
func (a AggregationResults) EncodeBinary(b []byte) ([]byte, error) {
	return appendResults(b, &a, 0)
}

// DecodeBinary decodes a payload written by EncodeBinary. The payload must be
// consumed completely. Decoded strings are copied, so data may be reused after
// the call returns.
func (a *AggregationResults) DecodeBinary(data []byte) error {
	r := reader{buf: data}
	var out AggregationResults
	if err := r.results(&out, 0); err != nil {
		return err
	}
	if r.pos != len(r.buf) {
		return fmt.Errorf("binary: %d trailing bytes", len(r.buf)-r.pos)
	}
	*a = out
	return nil
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

func appendResults(b []byte, a *AggregationResults, depth int) ([]byte, error) {
	if depth > MaxDepth {
		return b, fmt.Errorf("binary: nesting exceeds %d levels", MaxDepth)
	}
	var err error
	if b, err = appendNamed(b, a.Metrics, func(b []byte, m *MetricResult) ([]byte, error) {
		return appendMetric(b, m)
	}); err != nil {
		return b, err
	}
	return appendNamed(b, a.Buckets, func(b []byte, r *BucketResult) ([]byte, error) {
		return appendBucket(b, r, depth)
	})
}

func appendNamed[T any](b []byte, v *VecWithNames[T], elem func([]byte, *T) ([]byte, error)) ([]byte, error) {
	if v == nil {
		return append(b, 0), nil
	}
	if len(v.Keys) != len(v.Values) {
		return b, fmt.Errorf("binary: %d names for %d values", len(v.Keys), len(v.Values))
	}
	b = append(b, 1)
	b = binary.AppendUvarint(b, uint64(len(v.Keys)))
	var err error
	for i, k := range v.Keys {
		b = appendString(b, k)
		if b, err = elem(b, &v.Values[i]); err != nil {
			return b, err
		}
	}
	return b, nil
}

func appendMetric(b []byte, m *MetricResult) ([]byte, error) {
	switch m.Kind() {
	case MetricKindPercentiles:
		b = append(b, 0)
		b = binary.AppendUvarint(b, uint64(len(m.Percentiles.Buckets)))
		for _, c := range m.Percentiles.Buckets {
			b = binary.LittleEndian.AppendUint64(b, c)
		}
		return b, nil
	case MetricKindStats:
		b = append(b, 1)
		b = binary.LittleEndian.AppendUint64(b, m.Stats.Count)
		b = appendFloat(b, m.Stats.Sum)
		b = appendFloat(b, m.Stats.Min)
		return appendFloat(b, m.Stats.Max), nil
	case MetricKindInvalid:
	}
	return b, errors.New("binary: metric must have exactly one variant")
}

func appendBucket(b []byte, r *BucketResult, depth int) ([]byte, error) {
	var err error
	switch r.Kind() {
	case BucketKindHistogramVec:
		b = append(b, 0)
		if b, err = appendColumnType(b, r.HistogramVec.ColumnType); err != nil {
			return b, err
		}
		b = binary.AppendUvarint(b, uint64(len(r.HistogramVec.Buckets)))
		for i := range r.HistogramVec.Buckets {
			if b, err = appendEntry(b, &r.HistogramVec.Buckets[i], depth); err != nil {
				return b, err
			}
		}
		return b, nil
	case BucketKindHistogramKeyed:
		b = append(b, 1)
		if b, err = appendColumnType(b, r.HistogramKeyed.ColumnType); err != nil {
			return b, err
		}
		m := r.HistogramKeyed.Buckets
		b = binary.AppendUvarint(b, uint64(len(m)))
		for _, k := range slices.Sorted(maps.Keys(m)) {
			e := m[k]
			b = binary.LittleEndian.AppendUint64(b, k)
			if b, err = appendEntry(b, &e, depth); err != nil {
				return b, err
			}
		}
		return b, nil
	case BucketKindTerms:
		b = append(b, 2)
		m := r.Terms.Entries
		b = binary.AppendUvarint(b, uint64(len(m)))
		for _, k := range slices.Sorted(maps.Keys(m)) {
			e := m[k]
			b = appendString(b, k)
			b = binary.LittleEndian.AppendUint64(b, e.DocCount)
			if b, err = appendResults(b, &e.SubAggregation, depth+1); err != nil {
				return b, err
			}
		}
		b = binary.LittleEndian.AppendUint64(b, r.Terms.SumOtherDocCount)
		return binary.LittleEndian.AppendUint64(b, r.Terms.DocCountErrorUpperBound), nil
	case BucketKindInvalid:
	}
	return b, errors.New("binary: bucket must have exactly one variant")
}

func appendEntry(b []byte, e *HistogramBucketEntry, depth int) ([]byte, error) {
	b = appendFloat(b, e.Key)
	b = binary.LittleEndian.AppendUint64(b, e.DocCount)
	return appendResults(b, &e.SubAggregation, depth+1)
}

func appendColumnType(b []byte, c *ColumnType) ([]byte, error) {
	if c == nil {
		return append(b, 0), nil
	}
	if !c.Valid() {
		return b, fmt.Errorf("binary: invalid column type discriminant %d", uint8(*c))
	}
	return append(b, 1, byte(*c)), nil
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendFloat(b []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// reader is a bounds checked cursor over a payload. It never panics on
// malformed input; every read past the end yields ErrShortBuffer.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) u8() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrShortBuffer
	}
	c := r.buf[r.pos]
	r.pos++
	return c, nil
}

func (r *reader) u64() (uint64, error) {
	if r.remaining() < 8 {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) f64() (float64, error) {
	v, err := r.u64()
	return math.Float64frombits(v), err
}

// length reads an element count. Each element needs at least minSize bytes,
// which caps allocations by the size of the payload.
func (r *reader) length(minSize int) (int, error) {
	n, k := binary.Uvarint(r.buf[r.pos:])
	if k == 0 {
		return 0, ErrShortBuffer
	}
	if k < 0 {
		return 0, errors.New("binary: length overflows 64 bits")
	}
	r.pos += k
	if n > uint64(r.remaining()/minSize) {
		return 0, fmt.Errorf("binary: length %d exceeds payload", n)
	}
	return int(n), nil
}

func (r *reader) str() (string, error) {
	n, err := r.length(1)
	if err != nil {
		return "", err
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}

func (r *reader) option() (bool, error) {
	tag, err := r.u8()
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("binary: invalid option tag %d", tag)
}

func (r *reader) results(a *AggregationResults, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("binary: nesting exceeds %d levels", MaxDepth)
	}
	var err error
	if a.Metrics, err = readNamed(r, func(m *MetricResult) error {
		return r.metric(m)
	}); err != nil {
		return err
	}
	a.Buckets, err = readNamed(r, func(b *BucketResult) error {
		return r.bucket(b, depth)
	})
	return err
}

func readNamed[T any](r *reader, elem func(*T) error) (*VecWithNames[T], error) {
	present, err := r.option()
	if err != nil || !present {
		return nil, err
	}
	// name length byte + variant byte
	n, err := r.length(2)
	if err != nil {
		return nil, err
	}
	v := NewVecWithNames[T](n)
	seen := make(map[string]struct{}, n)
	for range n {
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("binary: duplicate name %q", name)
		}
		seen[name] = struct{}{}
		var value T
		if err := elem(&value); err != nil {
			return nil, err
		}
		v.Keys = append(v.Keys, name)
		v.Values = append(v.Values, value)
	}
	return v, nil
}

func (r *reader) metric(m *MetricResult) error {
	tag, err := r.u8()
	if err != nil {
		return err
	}
	switch tag {
	case 0:
		n, err := r.length(8)
		if err != nil {
			return err
		}
		p := PercentilesCollector{Buckets: make([]uint64, n)}
		for i := range p.Buckets {
			p.Buckets[i], _ = r.u64()
		}
		m.Percentiles = &p
		return nil
	case 1:
		if r.remaining() < 32 {
			return ErrShortBuffer
		}
		var s Stats
		s.Count, _ = r.u64()
		s.Sum, _ = r.f64()
		s.Min, _ = r.f64()
		s.Max, _ = r.f64()
		m.Stats = &s
		return nil
	}
	return fmt.Errorf("binary: invalid metric variant %d", tag)
}

func (r *reader) bucket(b *BucketResult, depth int) error {
	tag, err := r.u8()
	if err != nil {
		return err
	}
	switch tag {
	case 0:
		var h HistogramVec
		if h.ColumnType, err = r.columnType(); err != nil {
			return err
		}
		// key + doc_count + two absent options
		n, err := r.length(18)
		if err != nil {
			return err
		}
		h.Buckets = make([]HistogramBucketEntry, n)
		for i := range h.Buckets {
			if err := r.entry(&h.Buckets[i], depth); err != nil {
				return err
			}
		}
		b.HistogramVec = &h
		return nil
	case 1:
		var h HistogramKeyed
		if h.ColumnType, err = r.columnType(); err != nil {
			return err
		}
		n, err := r.length(26)
		if err != nil {
			return err
		}
		h.Buckets = make(map[uint64]HistogramBucketEntry, n)
		for range n {
			k, err := r.u64()
			if err != nil {
				return err
			}
			if _, dup := h.Buckets[k]; dup {
				return fmt.Errorf("binary: duplicate histogram key %d", k)
			}
			var e HistogramBucketEntry
			if err := r.entry(&e, depth); err != nil {
				return err
			}
			h.Buckets[k] = e
		}
		b.HistogramKeyed = &h
		return nil
	case 2:
		var t TermsResult
		n, err := r.length(11)
		if err != nil {
			return err
		}
		t.Entries = make(map[string]TermBucketEntry, n)
		for range n {
			k, err := r.str()
			if err != nil {
				return err
			}
			if _, dup := t.Entries[k]; dup {
				return fmt.Errorf("binary: duplicate term %q", k)
			}
			var e TermBucketEntry
			if e.DocCount, err = r.u64(); err != nil {
				return err
			}
			if err := r.results(&e.SubAggregation, depth+1); err != nil {
				return err
			}
			t.Entries[k] = e
		}
		if t.SumOtherDocCount, err = r.u64(); err != nil {
			return err
		}
		if t.DocCountErrorUpperBound, err = r.u64(); err != nil {
			return err
		}
		b.Terms = &t
		return nil
	}
	return fmt.Errorf("binary: invalid bucket variant %d", tag)
}

func (r *reader) entry(e *HistogramBucketEntry, depth int) error {
	var err error
	if e.Key, err = r.f64(); err != nil {
		return err
	}
	if e.DocCount, err = r.u64(); err != nil {
		return err
	}
	return r.results(&e.SubAggregation, depth+1)
}

func (r *reader) columnType() (*ColumnType, error) {
	present, err := r.option()
	if err != nil || !present {
		return nil, err
	}
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	c := ColumnType(tag)
	if !c.Valid() {
		return nil, fmt.Errorf("binary: invalid column type discriminant %d", tag)
	}
	return &c, nil
}
