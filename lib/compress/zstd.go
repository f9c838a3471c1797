package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdMaxExpansion is the ratio of a 4 byte RLE block expanding to a full
// 128 KiB block.
const zstdMaxExpansion = 128 << 10 / 4

var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecoderMaxMemory(maxDecodedSize),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}
		return encoder
	},
}

// zstdCompressor uses pooled klauspost zstd encoders and decoders.
type zstdCompressor struct{}

// NewZstdCompressor creates a Zstandard compressor.
func NewZstdCompressor() ICompressor {
	return zstdCompressor{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see compress.ICompressor)
// --------------------------------------------------------------------------

func (zstdCompressor) Name() string {
	return string(AlgorithmZstd)
}

func (zstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

func (zstdCompressor) Decompress(data []byte) ([]byte, error) {
	// a frame with a content size is preallocated, so bound the claim by
	// the densest block encoding first
	var header zstd.Header
	if err := header.Decode(data); err == nil && header.HasFCS &&
		header.FrameContentSize > uint64(len(data))*zstdMaxExpansion {
		return nil, fmt.Errorf("zstd decompression failed: frame content size %d exceeds %d byte input bound", header.FrameContentSize, len(data))
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	return decompressed, nil
}
