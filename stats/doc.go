// Package stats provides the statistics engine of the load-balancing runtime.
//
// It offers single-pass descriptive statistics over arbitrary populations
// (via an accessor function), empirical CMF construction, inverse-transform
// sampling, and a factory for the distribution samplers used by synthetic
// workload generation.
//
// # Numerical Model
//
// Moments are accumulated with Welford's incremental update extended to the
// third and fourth central moments, so large populations with a large mean
// do not suffer catastrophic cancellation.
//
// Degenerate inputs never fail: an empty population yields N=0 and NaN for
// every other statistic, and a zero mean yields an imbalance of 0.
package stats
