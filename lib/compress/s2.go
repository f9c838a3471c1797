package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
)

// s2BlockSize bounds each framed chunk. The reader rejects chunks that claim
// more, so a forged length never allocates beyond one block.
const s2BlockSize = 256 << 10

// s2Compressor uses the klauspost S2 stream format with small blocks.
type s2Compressor struct{}

// NewS2Compressor creates an S2 compressor.
func NewS2Compressor() ICompressor {
	return s2Compressor{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see compress.ICompressor)
// --------------------------------------------------------------------------

func (s2Compressor) Name() string {
	return string(AlgorithmS2)
}

func (s2Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf, s2.WriterConcurrency(1), s2.WriterBlockSize(s2BlockSize))
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("s2 compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("s2 compression failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (s2Compressor) Decompress(data []byte) ([]byte, error) {
	r := s2.NewReader(bytes.NewReader(data), s2.ReaderMaxBlockSize(s2BlockSize))
	decompressed, err := io.ReadAll(io.LimitReader(r, maxDecodedSize+1))
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if len(decompressed) > maxDecodedSize {
		return nil, fmt.Errorf("s2 decompression failed: decoded size exceeds %d bytes", maxDecodedSize)
	}
	return decompressed, nil
}
