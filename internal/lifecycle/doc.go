// Package lifecycle tracks the runtime state of a balancing run.
//
// A Machine validates every transition against the run progression
//
//	Initialized → (Gossip → Transfer → Snapshot)* → Completed
//
// fans state changes out to subscribers without blocking, and reports each
// transition to the metrics collector. Failed is reachable from every other
// state and is terminal.
package lifecycle
