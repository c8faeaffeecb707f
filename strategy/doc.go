// Package strategy provides built-in initial placement strategies.
//
// Placement strategies decide on which rank a generated object starts before
// any balancing happens. The package includes four built-in strategies:
//
//   - Random: Uniform random rank per object, reproducible from a seed
//   - RoundRobin: Objects dealt to ranks in order
//   - ConsistentHash: Consistent hashing of object ids with virtual nodes
//   - WeightedConsistentHash: Consistent hashing with extreme object handling
//     and soft load caps, using object loads as weights
//
// # Strategy Selection Guide
//
// Random:
//   - Closest to an unplanned, naturally imbalanced workload
//   - Starting point for most balancing experiments
//
// RoundRobin:
//   - Equal object counts per rank
//   - Imbalance only comes from differing object loads
//
// ConsistentHash:
//   - Placement of an object id is stable when the rank count changes
//   - Minimal configuration: virtual nodes, hash seed
//
// WeightedConsistentHash:
//   - Near-balanced start for measuring how little work balancing has left
//   - Heavy objects (2x+ average load) are dealt round-robin first
//
// Custom strategies can be implemented by satisfying the types.PlacementStrategy interface.
package strategy
