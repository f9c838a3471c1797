package compress

import (
	"fmt"
	"strings"
)

// ICompressor compresses whole payloads. Implementations are stateless from
// the caller's point of view and safe for concurrent use.
type ICompressor interface {
	// Name returns the algorithm name used in codec names, e.g. "zstd".
	Name() string
	// Compress returns the compressed form of data. data is not modified.
	Compress(data []byte) ([]byte, error)
	// Decompress reverses Compress. It returns an error for payloads that
	// were not produced by Compress of the same algorithm.
	Decompress(data []byte) ([]byte, error)
}

// maxDecodedSize caps the output of a single decompression. The largest
// benchmark payloads stay in the low megabytes.
const maxDecodedSize = 64 << 20

// Algorithm identifies a compression algorithm.
type Algorithm string

const (
	AlgorithmZstd Algorithm = "zstd"
	AlgorithmS2   Algorithm = "s2"
	AlgorithmLZ4  Algorithm = "lz4"
)

// Algorithms lists the supported algorithms in reporting order.
var Algorithms = []Algorithm{AlgorithmZstd, AlgorithmS2, AlgorithmLZ4}

// New creates the compressor for alg.
func New(alg Algorithm) (ICompressor, error) {
	switch Algorithm(strings.ToLower(string(alg))) {
	case AlgorithmZstd:
		return NewZstdCompressor(), nil
	case AlgorithmS2:
		return NewS2Compressor(), nil
	case AlgorithmLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %q", alg)
	}
}
