// Package export serializes the history of a finished run.
//
// A Document captures the named metric histories, the per-iteration rank
// load distributions and one record per iteration. It can be written as JSON
// (WriteJSON, WriteFile) or published to a NATS JetStream KV bucket
// (Publisher) where other tools can read it back by run id.
//
// Non-finite values (for instance the skewness of a perfectly balanced
// distribution) are encoded as JSON null and decoded back to NaN.
//
// # Key Format
//
// Publisher stores one summary entry and one entry per iteration:
//
//	{runID}.run
//	{runID}.iteration.{n}
//
// Example: "seed-7.iteration.3"
package export
