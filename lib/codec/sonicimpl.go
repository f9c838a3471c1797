package codec

import (
	"github.com/bytedance/sonic"
)

// NewSonicCodec creates a JSON codec backed by bytedance/sonic. It uses the
// encoding/json compatible configuration, so payloads match NewJSONCodec.
func NewSonicCodec[T any]() ICodec[T, []byte] {
	return &sonicCodecImpl[T]{api: sonic.ConfigStd}
}

// sonicCodecImpl implements ICodec using the sonic JIT JSON library
type sonicCodecImpl[T any] struct {
	api sonic.API
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (s *sonicCodecImpl[T]) Name() string {
	return "Sonic"
}

func (s *sonicCodecImpl[T]) Serialize(value T) (int, []byte, error) {
	data, err := s.api.Marshal(value)
	if err != nil {
		return 0, nil, NewEncodeError(s.Name(), err)
	}
	return len(data), data, nil
}

func (s *sonicCodecImpl[T]) Deserialize(payload []byte) (T, error) {
	var value T
	if err := s.api.Unmarshal(payload, &value); err != nil {
		return value, NewDecodeError(s.Name(), err)
	}
	return value, nil
}
