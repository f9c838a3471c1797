// Package fixture converts persisted aggregation result documents into model
// trees and back.
//
// Fixtures use the same field names and union discriminants as the model:
// named collections are {"values": [...], "keys": [...]}, unions are objects
// with a single variant key ("Stats", "HistogramVec", ...), and an absent
// collection is null. JSON and YAML documents with that shape are accepted.
//
// Parse is pure; reading files is left to the caller.
package fixture
