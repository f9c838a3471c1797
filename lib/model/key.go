package model

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key is a generic bucket identifier: either a string or an f64.
// Exactly one of the fields is set.
//
// Equality and hashing are structural per variant. Floats compare by raw bit
// pattern, so NaN equals an identical NaN and -0 differs from +0, which makes
// Key usable as a map key. Keys of different variants are never equal.
type Key struct {
	Str *string  `json:"Str,omitempty" yaml:"Str,omitempty" msgpack:"Str,omitempty"`
	F64 *float64 `json:"F64,omitempty" yaml:"F64,omitempty" msgpack:"F64,omitempty"`
}

// KeyKind is the discriminant of a Key.
type KeyKind uint8

const (
	KeyKindInvalid KeyKind = iota
	KeyKindStr
	KeyKindF64
)

// StrKey creates a string key.
func StrKey(s string) Key {
	return Key{Str: &s}
}

// F64Key creates a float key.
func F64Key(f float64) Key {
	return Key{F64: &f}
}

// Kind returns the variant of k, or KeyKindInvalid when zero or both
// variants are set.
func (k Key) Kind() KeyKind {
	switch {
	case k.Str != nil && k.F64 == nil:
		return KeyKindStr
	case k.F64 != nil && k.Str == nil:
		return KeyKindF64
	default:
		return KeyKindInvalid
	}
}

// Equal compares two keys by variant and value.
func (k Key) Equal(other Key) bool {
	if k.Kind() != other.Kind() {
		return false
	}
	switch k.Kind() {
	case KeyKindStr:
		return *k.Str == *other.Str
	case KeyKindF64:
		return math.Float64bits(*k.F64) == math.Float64bits(*other.F64)
	case KeyKindInvalid:
		return true
	}
	return false
}

// Hash returns a 64 bit hash consistent with Equal.
func (k Key) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(k.Kind())})
	switch k.Kind() {
	case KeyKindStr:
		_, _ = d.WriteString(*k.Str)
	case KeyKindF64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(*k.F64))
		_, _ = d.Write(b[:])
	case KeyKindInvalid:
	}
	return d.Sum64()
}

// Compare orders keys: all string keys sort before all float keys, strings
// compare lexically and floats numerically. The second return value is false
// when the keys are not comparable (a NaN or an invalid key is involved).
func (k Key) Compare(other Key) (int, bool) {
	kk, ok := k.Kind(), other.Kind()
	if kk == KeyKindInvalid || ok == KeyKindInvalid {
		return 0, false
	}
	if kk != ok {
		if kk < ok {
			return -1, true
		}
		return 1, true
	}
	switch kk {
	case KeyKindStr:
		return strings.Compare(*k.Str, *other.Str), true
	case KeyKindF64:
		a, b := *k.F64, *other.F64
		switch {
		case math.IsNaN(a) || math.IsNaN(b):
			return 0, false
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	case KeyKindInvalid:
	}
	return 0, false
}

// String renders the key for debug output.
func (k Key) String() string {
	switch k.Kind() {
	case KeyKindStr:
		return "Str(" + strconv.Quote(*k.Str) + ")"
	case KeyKindF64:
		return "F64(" + strconv.FormatFloat(*k.F64, 'g', -1, 64) + ")"
	case KeyKindInvalid:
	}
	return "Key(invalid)"
}
