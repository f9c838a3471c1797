package codec

import (
	"encoding/json"
)

// NewJSONCodec creates a codec using encoding/json with a string payload.
func NewJSONCodec[T any]() ICodec[T, string] {
	return &jsonCodecImpl[T]{}
}

// jsonCodecImpl implements ICodec using encoding/json
type jsonCodecImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j *jsonCodecImpl[T]) Name() string {
	return "JSON"
}

func (j *jsonCodecImpl[T]) Serialize(value T) (int, string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return 0, "", NewEncodeError(j.Name(), err)
	}
	return len(data), string(data), nil
}

func (j *jsonCodecImpl[T]) Deserialize(payload string) (T, error) {
	var value T
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return value, NewDecodeError(j.Name(), err)
	}
	return value, nil
}
