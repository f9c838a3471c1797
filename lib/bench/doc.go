// Package bench measures codecs of aggregation trees.
//
// The package focuses on:
//   - Timing serialize and deserialize of one value through one codec in
//     isolation (Run)
//   - Verifying the decoded value against the original
//   - Running a fixed, ordered list of codecs over one named value
//     (RunScenario) and collecting exactly one row per codec
//
// Key Components:
//
//   - Run: Per measurement state machine
//     Serializing -> Deserializing -> Verifying -> Done, with the early exit
//     states SerializeFailed and DeserializeFailed. Failures, mismatches and
//     panicking codecs become row statuses; they never abort a scenario.
//
//   - Entry / Register: Erases the payload type of a codec so codecs with
//     string, []byte and node payloads share one list. DefaultEntries is the
//     registration list in reporting order, Select picks a subset.
//
//   - Metrics: Per codec latency and size histograms (VictoriaMetrics),
//     exported in Prometheus text format.
//
//   - Results: Concurrent safe store of the result sets of a run.
//
// Measurements are strictly sequential and every codec of a scenario receives
// the same value.
package bench
