// Package codec provides the serialization formats compared by the benchmark
// harness. It defines a common generic interface and one adapter per format
// for encoding and decoding aggregation result trees.
//
// Key Components:
//
//   - ICodec: Core interface that all codecs must satisfy. The payload type P
//     is the codec's native representation (string, []byte or *yaml.Node).
//
//   - EncodeError / DecodeError: Typed failures carrying the codec name and
//     the diagnostic of the underlying library.
//
//   - Text codecs: JSON (encoding/json), Sonic (bytedance/sonic, std config)
//     and YAML (gopkg.in/yaml.v3).
//
//   - Object codec: YAMLNode encodes into a *yaml.Node document tree. Its
//     size is the number of scalar bytes in the tree.
//
//   - Binary codecs: GOB, MessagePack (vmihailenco/msgpack), CBOR
//     (fxamacker/cbor) and Binary, the value's own compact representation in
//     a versioned frame with an xxhash64 checksum.
//
//   - Compressed codecs: NewCompressedCodec wraps any byte codec with a
//     compressor from the compress package (zstd, s2, lz4).
//
// Thread Safety:
//
//	All codecs are stateless and safe for concurrent use across multiple
//	goroutines without additional synchronization.
//
// Usage:
//
//	c := codec.NewBinaryCodec[model.AggregationResults]()
//	size, payload, err := c.Serialize(tree)
//	// ... store or send payload ...
//	decoded, err := c.Deserialize(payload)
package codec
