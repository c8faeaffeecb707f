// Package testing provides test utilities for the lbaf library.
//
// This package offers helpers for setting up test environments: small
// hand-built populations and an embedded NATS server for exercising the
// JetStream history exporter. It follows Go's convention of providing
// testing utilities in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - NewPopulation: Population from per-rank object loads and communication edges
//   - TwoRanks: The canonical two-rank scenario (all load on rank 0)
//   - StartEmbeddedNATS: Single NATS server with JetStream (WithStoreDir to restart over the same data)
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - KeysWithPrefix: Sorted keys of a bucket, for checking export key layouts
//   - NewTestLogger: Logger that records entries through t.Log
//
// Example usage:
//
//	import (
//	    "testing"
//	    lbaftest "github.com/DARMA-tasking/LB-analysis-framework-sub001/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    pop := lbaftest.NewPopulation(t, [][]float64{{1, 2}, {3}})
//	    // Use pop for your tests
//	}
package testing
