// Package types provides core type definitions and interfaces for the load-balancing runtime.
//
// This package contains shared types that are used across multiple packages in the
// module. By keeping these types in a separate package, we avoid import cycles
// between the root lbaf package and its internal implementations.
//
// Key types:
//   - Object: Indivisible unit of work with a load and optional communication edges
//   - Rank: Processor-like container owning objects and gossip knowledge
//   - Message: Immutable gossip envelope
//   - Population: Ordered ranks plus the object index and lazy edge cache
//   - State: Runtime lifecycle state
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
