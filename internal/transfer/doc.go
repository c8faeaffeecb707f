// Package transfer implements the migration phase of a balancing iteration.
//
// Every rank whose load exceeds threshold times the average tries to shed the
// excess. It samples destinations among the underloaded ranks it learned of
// during gossip, weighting them by a probability mass function of their known
// loads, and moves objects one at a time whenever the configured criterion
// accepts. Accepted moves update the source's view of the destination so the
// next draw sees the new load without another gossip phase.
package transfer
