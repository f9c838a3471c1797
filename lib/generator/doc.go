// Package generator builds deterministic aggregation result trees.
//
// Artificial produces the fixed benchmark tree (one percentile sketch, one
// default stats metric and a large histogram whose entries each carry a keyed
// histogram leaf). Generate produces trees of a requested Shape for round
// trip tests. Neither uses randomness: two calls with the same arguments
// return trees that are equal under model.Verify and encode to the same
// bytes.
package generator
