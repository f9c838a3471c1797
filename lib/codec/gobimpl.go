package codec

import (
	"bytes"
	"encoding/gob"
)

// NewGOBCodec creates a codec using encoding/gob. Every payload carries its
// own type description, so payloads can be decoded independently.
func NewGOBCodec[T any]() ICodec[T, []byte] {
	return &gobCodecImpl[T]{}
}

// gobCodecImpl implements ICodec using gob encoding
type gobCodecImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (g *gobCodecImpl[T]) Name() string {
	return "GOB"
}

func (g *gobCodecImpl[T]) Serialize(value T) (int, []byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return 0, nil, NewEncodeError(g.Name(), err)
	}
	return buf.Len(), buf.Bytes(), nil
}

func (g *gobCodecImpl[T]) Deserialize(payload []byte) (T, error) {
	var value T
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&value); err != nil {
		return value, NewDecodeError(g.Name(), err)
	}
	return value, nil
}
