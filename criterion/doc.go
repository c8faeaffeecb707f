// Package criterion provides the built-in transfer criteria.
//
// A criterion decides whether migrating a candidate object from an overloaded
// source rank to a sampled destination rank should proceed. The set of
// criteria is closed; each is selected by name at configuration time:
//
//   - load_threshold (alias grapevine): accept while the destination, as known
//     through gossip, stays at or below the average load
//   - min_max_work (alias minimize_max_work): accept when the move strictly
//     lowers the larger of the two ranks' work, where work is load plus a
//     weighted off-rank communication volume
//   - strict_localizing: reject any move that separates the object from a
//     communication peer still on the source
//   - relaxed_localizing: accept when the object communicates at least as much
//     with the destination as with what remains on the source
//
// Every criterion returns a types.Decision carrying both its raw score and
// its own accept reading, so callers never interpret score signs.
package criterion
