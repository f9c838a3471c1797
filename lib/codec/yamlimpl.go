package codec

import (
	"gopkg.in/yaml.v3"
)

// NewYAMLCodec creates a codec using gopkg.in/yaml.v3 with a string payload.
func NewYAMLCodec[T any]() ICodec[T, string] {
	return &yamlCodecImpl[T]{}
}

// yamlCodecImpl implements ICodec using yaml text documents
type yamlCodecImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (y *yamlCodecImpl[T]) Name() string {
	return "YAML"
}

func (y *yamlCodecImpl[T]) Serialize(value T) (int, string, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return 0, "", NewEncodeError(y.Name(), err)
	}
	return len(data), string(data), nil
}

func (y *yamlCodecImpl[T]) Deserialize(payload string) (T, error) {
	var value T
	if err := yaml.Unmarshal([]byte(payload), &value); err != nil {
		return value, NewDecodeError(y.Name(), err)
	}
	return value, nil
}
