package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborDecMode raises the nesting and size limits of the default decoder; a
// deeply nested aggregation tree exceeds the default depth of 32.
var cborDecMode = func() cbor.DecMode {
	mode, err := cbor.DecOptions{
		MaxNestedLevels:  256,
		MaxArrayElements: 1 << 24,
		MaxMapPairs:      1 << 24,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create cbor decode mode: %v", err))
	}
	return mode
}()

// NewCBORCodec creates a CBOR codec using fxamacker/cbor. Struct fields use
// their json tags.
func NewCBORCodec[T any]() ICodec[T, []byte] {
	return &cborCodecImpl[T]{}
}

// cborCodecImpl implements ICodec using CBOR
type cborCodecImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c *cborCodecImpl[T]) Name() string {
	return "CBOR"
}

func (c *cborCodecImpl[T]) Serialize(value T) (int, []byte, error) {
	data, err := cbor.Marshal(value)
	if err != nil {
		return 0, nil, NewEncodeError(c.Name(), err)
	}
	return len(data), data, nil
}

func (c *cborCodecImpl[T]) Deserialize(payload []byte) (T, error) {
	var value T
	if err := cborDecMode.Unmarshal(payload, &value); err != nil {
		return value, NewDecodeError(c.Name(), err)
	}
	return value, nil
}
