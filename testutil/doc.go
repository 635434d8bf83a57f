// Package testutil provides testing utilities for hmat.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and generators for
// sparse row contents.
//
// # Sparse Rows
//
//	rng := testutil.NewRNG(seed)
//	present := rng.Presence(64, 0.3)  // ~30% of slots absent
//	vals := rng.Int32s(64, -100, 100)
//
// # Skewed Column Indices
//
//	idx := rng.ZipfIndices(1000, 64, 1.5)  // a few hot columns
package testutil
