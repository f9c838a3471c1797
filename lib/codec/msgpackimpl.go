package codec

import (
	"github.com/vmihailenco/msgpack/v5"
)

// NewMsgPackCodec creates a MessagePack codec using vmihailenco/msgpack.
func NewMsgPackCodec[T any]() ICodec[T, []byte] {
	return &msgpackCodecImpl[T]{}
}

// msgpackCodecImpl implements ICodec using MessagePack
type msgpackCodecImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (m *msgpackCodecImpl[T]) Name() string {
	return "MessagePack"
}

func (m *msgpackCodecImpl[T]) Serialize(value T) (int, []byte, error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return 0, nil, NewEncodeError(m.Name(), err)
	}
	return len(data), data, nil
}

func (m *msgpackCodecImpl[T]) Deserialize(payload []byte) (T, error) {
	var value T
	if err := msgpack.Unmarshal(payload, &value); err != nil {
		return value, NewDecodeError(m.Name(), err)
	}
	return value, nil
}
