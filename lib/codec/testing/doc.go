// Package testing provides a standardised conformance suite for codecs of
// aggregation result trees that satisfy the codec.ICodec interface.
//
// The suite checks round trip fidelity on the artificial tree and on
// generated trees of several shapes, order preservation of named
// collections, absence versus emptiness, completeness of keyed maps, bit
// exact floats, column types and the handling of truncated payloads.
//
// Example usage:
//
//	factory := func() codec.ICodec[model.AggregationResults, []byte] {
//		return NewMyCodec()
//	}
//
//	// Running the standard test suite
//	testing.RunCodecTests(t, "MyCodec", factory)
package testing
