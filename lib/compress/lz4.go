package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

const lz4MaxExpansion = 255

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4Compressor writes raw LZ4 blocks prefixed with the uvarint decoded size,
// so Decompress allocates exactly once.
type lz4Compressor struct{}

// NewLZ4Compressor creates an LZ4 block compressor.
func NewLZ4Compressor() ICompressor {
	return lz4Compressor{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see compress.ICompressor)
// --------------------------------------------------------------------------

func (lz4Compressor) Name() string {
	return string(AlgorithmLZ4)
}

func (lz4Compressor) Compress(data []byte) ([]byte, error) {
	dst := make([]byte, binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	hdr := binary.PutUvarint(dst, uint64(len(data)))
	if len(data) == 0 {
		return dst[:hdr], nil
	}

	lc := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[hdr:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	return dst[:hdr+n], nil
}

func (lz4Compressor) Decompress(data []byte) ([]byte, error) {
	size, hdr := binary.Uvarint(data)
	if hdr <= 0 {
		return nil, errors.New("lz4 decompression failed: invalid size header")
	}
	if size > maxDecodedSize {
		return nil, fmt.Errorf("lz4 decompression failed: decoded size %d exceeds limit", size)
	}
	// an LZ4 block expands at most lz4MaxExpansion times
	if size > uint64(len(data)-hdr)*lz4MaxExpansion {
		return nil, fmt.Errorf("lz4 decompression failed: decoded size %d exceeds %d byte block bound", size, len(data)-hdr)
	}
	if size == 0 {
		if len(data) != hdr {
			return nil, errors.New("lz4 decompression failed: trailing data")
		}
		return []byte{}, nil
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data[hdr:], buf)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	if uint64(n) != size {
		return nil, fmt.Errorf("lz4 decompression failed: got %d bytes, expected %d", n, size)
	}
	return buf, nil
}
