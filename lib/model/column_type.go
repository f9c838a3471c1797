package model

import (
	"fmt"
)

// ColumnType is the type tag of the column a histogram was computed on.
// It is stored as a single byte discriminant; the numeric order of the tags
// is their total order.
type ColumnType uint8

const (
	ColumnTypeI64 ColumnType = iota
	ColumnTypeU64
	ColumnTypeF64
	ColumnTypeBytes
	ColumnTypeStr
	ColumnTypeBool
	ColumnTypeIpAddr
	ColumnTypeDateTime
)

// ColumnTypes lists all column types in discriminant order.
var ColumnTypes = []ColumnType{
	ColumnTypeI64,
	ColumnTypeU64,
	ColumnTypeF64,
	ColumnTypeBytes,
	ColumnTypeStr,
	ColumnTypeBool,
	ColumnTypeIpAddr,
	ColumnTypeDateTime,
}

// String returns the tag name of a ColumnType.
func (c ColumnType) String() string {
	switch c {
	case ColumnTypeI64:
		return "I64"
	case ColumnTypeU64:
		return "U64"
	case ColumnTypeF64:
		return "F64"
	case ColumnTypeBytes:
		return "Bytes"
	case ColumnTypeStr:
		return "Str"
	case ColumnTypeBool:
		return "Bool"
	case ColumnTypeIpAddr:
		return "IpAddr"
	case ColumnTypeDateTime:
		return "DateTime"
	default:
		return fmt.Sprintf("ColumnType(%d)", uint8(c))
	}
}

// Valid reports whether c is one of the eight known tags.
func (c ColumnType) Valid() bool {
	return c <= ColumnTypeDateTime
}

// ParseColumnType converts a tag name back to a ColumnType.
func ParseColumnType(s string) (ColumnType, error) {
	switch s {
	case "I64":
		return ColumnTypeI64, nil
	case "U64":
		return ColumnTypeU64, nil
	case "F64":
		return ColumnTypeF64, nil
	case "Bytes":
		return ColumnTypeBytes, nil
	case "Str":
		return ColumnTypeStr, nil
	case "Bool":
		return ColumnTypeBool, nil
	case "IpAddr":
		return ColumnTypeIpAddr, nil
	case "DateTime":
		return ColumnTypeDateTime, nil
	default:
		return 0, fmt.Errorf("unknown column type: %q", s)
	}
}

// ColumnTypePtr returns a pointer to c, for the optional column_type fields.
func ColumnTypePtr(c ColumnType) *ColumnType {
	return &c
}

// --------------------------------------------------------------------------
// Encoding hooks
// --------------------------------------------------------------------------

// MarshalText encodes the column type by tag name, so text formats carry
// "F64" instead of 2.
func (c ColumnType) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid column type discriminant %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText parses a tag name produced by MarshalText.
func (c *ColumnType) UnmarshalText(text []byte) error {
	parsed, err := ParseColumnType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// GobEncode writes the raw discriminant. With a pointer receiver gob checks
// the *ColumnType for nil instead of skipping a zero tag, so Some(I64) does
// not decode as None.
func (c *ColumnType) GobEncode() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid column type discriminant %d", uint8(*c))
	}
	return []byte{byte(*c)}, nil
}

// GobDecode reads a discriminant written by GobEncode.
func (c *ColumnType) GobDecode(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("column type: expected 1 byte, got %d", len(data))
	}
	ct := ColumnType(data[0])
	if !ct.Valid() {
		return fmt.Errorf("invalid column type discriminant %d", data[0])
	}
	*c = ct
	return nil
}
