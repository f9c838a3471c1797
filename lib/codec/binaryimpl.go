package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// BinaryValue is satisfied by pointer types whose element type has a
// hand-written binary representation, such as *model.AggregationResults.
type BinaryValue[T any] interface {
	*T
	// EncodeBinary appends the binary representation to b.
	EncodeBinary(b []byte) ([]byte, error)
	// DecodeBinary replaces the value with the one encoded in data.
	DecodeBinary(data []byte) error
}

// binaryFrameVersion is the first byte of every frame.
const binaryFrameVersion byte = 1

// binaryFrameOverhead is the version byte plus the 8 byte checksum trailer.
const binaryFrameOverhead = 1 + 8

// NewBinaryCodec creates a codec for the value's own binary representation.
//
// Frame layout:
//
//	[version: 1 byte][body][xxhash64(version+body): 8 bytes LE]
//
// The checksum turns any truncation or bit flip into a DecodeError before the
// body is parsed. The decoded value does not reference the payload.
func NewBinaryCodec[T any, PT BinaryValue[T]]() ICodec[T, []byte] {
	return &binaryCodecImpl[T, PT]{}
}

// binaryCodecImpl implements ICodec using a checksummed binary frame
type binaryCodecImpl[T any, PT BinaryValue[T]] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (b *binaryCodecImpl[T, PT]) Name() string {
	return "Binary"
}

func (b *binaryCodecImpl[T, PT]) Serialize(value T) (int, []byte, error) {
	buf := make([]byte, 1, 4096)
	buf[0] = binaryFrameVersion

	buf, err := PT(&value).EncodeBinary(buf)
	if err != nil {
		return 0, nil, NewEncodeError(b.Name(), err)
	}
	buf = binary.LittleEndian.AppendUint64(buf, xxhash.Sum64(buf))
	return len(buf), buf, nil
}

func (b *binaryCodecImpl[T, PT]) Deserialize(payload []byte) (T, error) {
	var value T
	if len(payload) < binaryFrameOverhead {
		return value, NewDecodeError(b.Name(), fmt.Errorf("frame of %d bytes is shorter than %d", len(payload), binaryFrameOverhead))
	}
	if payload[0] != binaryFrameVersion {
		return value, NewDecodeError(b.Name(), fmt.Errorf("unsupported frame version %d", payload[0]))
	}

	end := len(payload) - 8
	if xxhash.Sum64(payload[:end]) != binary.LittleEndian.Uint64(payload[end:]) {
		return value, NewDecodeError(b.Name(), errors.New("checksum mismatch"))
	}
	if err := PT(&value).DecodeBinary(payload[1:end]); err != nil {
		return value, NewDecodeError(b.Name(), err)
	}
	return value, nil
}
