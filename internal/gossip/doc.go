// Package gossip implements round-based, fanout-limited dissemination of
// underload information between ranks.
//
// Each balancing iteration starts with every rank's knowledge cleared. In
// round 1 the underloaded ranks (load below the average) seed their own load
// and message up to fanout peers chosen uniformly without replacement. In
// every later round a rank forwards its whole knowledge only if it received a
// message in the immediately preceding round, and only to peers it does not
// already know to be underloaded.
//
// Rounds follow the bulk-synchronous model: every rank computes its outgoing
// messages from the state settled at the end of the previous round, a barrier
// follows, and only then are messages delivered. Both phases may run in
// parallel because each rank's state is touched by exactly one goroutine per
// phase and each rank draws from its own random stream.
package gossip
