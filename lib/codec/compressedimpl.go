package codec

import (
	"github.com/ValentinKolb/aggbench/lib/compress"
)

// NewCompressedCodec wraps a byte codec with a compressor. The codec is named
// "<inner>+<algorithm>" and reports the compressed size.
func NewCompressedCodec[T any](inner ICodec[T, []byte], c compress.ICompressor) ICodec[T, []byte] {
	return &compressedCodecImpl[T]{
		inner:      inner,
		compressor: c,
		name:       inner.Name() + "+" + c.Name(),
	}
}

// compressedCodecImpl implements ICodec by compressing the payload of another
// byte codec
type compressedCodecImpl[T any] struct {
	inner      ICodec[T, []byte]
	compressor compress.ICompressor
	name       string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c *compressedCodecImpl[T]) Name() string {
	return c.name
}

func (c *compressedCodecImpl[T]) Serialize(value T) (int, []byte, error) {
	_, raw, err := c.inner.Serialize(value)
	if err != nil {
		return 0, nil, NewEncodeError(c.name, err)
	}
	compressed, err := c.compressor.Compress(raw)
	if err != nil {
		return 0, nil, NewEncodeError(c.name, err)
	}
	return len(compressed), compressed, nil
}

func (c *compressedCodecImpl[T]) Deserialize(payload []byte) (T, error) {
	raw, err := c.compressor.Decompress(payload)
	if err != nil {
		var zero T
		return zero, NewDecodeError(c.name, err)
	}
	value, err := c.inner.Deserialize(raw)
	if err != nil {
		return value, NewDecodeError(c.name, err)
	}
	return value, nil
}
