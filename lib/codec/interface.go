package codec

// ICodec is the contract every serialization format implements. T is the
// value type, P the codec's native payload type: string for text formats,
// []byte for binary formats and a node tree for object formats.
type ICodec[T any, P any] interface {
	// Name returns a stable identifier used in reports, e.g. "JSON".
	Name() string
	// Serialize encodes value without modifying it. It returns the
	// serialized size in bytes (or the documented size proxy of the codec),
	// the payload and an EncodeError on failure.
	Serialize(value T) (int, P, error)
	// Deserialize reconstructs a value from a payload produced by Serialize
	// of the same codec. Malformed payloads yield a DecodeError.
	Deserialize(payload P) (T, error)
}
