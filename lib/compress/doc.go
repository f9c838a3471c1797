// Package compress provides whole-payload compressors that aggbench layers on
// top of byte codecs ("Binary+zstd", "Binary+s2", "Binary+lz4").
//
// Supported algorithms:
//   - Zstd: best ratio, moderate speed. Encoders and decoders are pooled.
//   - S2: Snappy compatible block format, fast with a good ratio.
//   - LZ4: fastest decompression. Blocks carry their decoded size so that
//     decompression allocates once and rejects oversized claims.
//
// All compressors bound the decoded size, so a corrupted payload yields an
// error instead of an unbounded allocation.
//
// Usage:
//
//	c, err := compress.New(compress.AlgorithmZstd)
//	compressed, err := c.Compress(payload)
//	original, err := c.Decompress(compressed)
package compress
