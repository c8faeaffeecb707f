// Package testutil provides shared assertions and measurements for cross-package tests.
//
// Examples of utilities that belong here:
//   - Invariant assertions (load conservation, single ownership, gossip knowledge and fanout)
//   - Waiting for a runtime driven from another goroutine to reach a state
//   - Resource measurement for stress tests (goroutine and allocation growth)
//
// Note: For population fixtures and NATS server setup, use the
// github.com/DARMA-tasking/LB-analysis-framework-sub001/testing package.
package testutil
