// Package report provides statistics report sinks and terminal plots.
//
// LogReporter implements types.Reporter: the runtime calls it after
// populating and after every iteration, and it writes one structured log
// entry describing the rank load distribution. The plot helpers render
// metric histories and per-rank load series with asciigraph for the
// command-line harness.
package report
