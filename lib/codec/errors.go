package codec

import (
	"fmt"
)

// base holds the common fields of the codec error types.
type base struct {
	message string
	err     error
}

// error renders the message followed by the underlying codec diagnostic.
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// EncodeError reports that a codec could not produce a payload for a value.
type EncodeError struct {
	base
	Codec string
}

// Error returns the error message for EncodeError.
func (e EncodeError) Error() string {
	return e.error()
}

// Unwrap returns the diagnostic of the underlying library.
func (e EncodeError) Unwrap() error {
	return e.err
}

// NewEncodeError wraps a serialization failure of codec.
func NewEncodeError(codec string, err error) EncodeError {
	return EncodeError{
		base: base{
			message: codec + " encode",
			err:     err,
		},
		Codec: codec,
	}
}

// DecodeError reports that a payload was malformed, truncated or did not
// match the target type.
type DecodeError struct {
	base
	Codec string
}

// Error returns the error message for DecodeError.
func (e DecodeError) Error() string {
	return e.error()
}

// Unwrap returns the diagnostic of the underlying library.
func (e DecodeError) Unwrap() error {
	return e.err
}

// NewDecodeError wraps a deserialization failure of codec.
func NewDecodeError(codec string, err error) DecodeError {
	return DecodeError{
		base: base{
			message: codec + " decode",
			err:     err,
		},
		Codec: codec,
	}
}
