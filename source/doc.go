// Package source provides built-in population source implementations.
//
// Population sources build the ranks and objects a balancing run starts from.
// The package includes:
//
//   - Static: Fresh copies of a fixed population
//   - Synthetic: Objects drawn from load and communication samplers, placed by a strategy
//   - Replay: Objects and communication edges read from per-rank record files
//
// Every Populate call returns a new population, so one source can feed
// several independent runs.
//
// Custom sources can be implemented by satisfying the types.PopulationSource interface.
package source
