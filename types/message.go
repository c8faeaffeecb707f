package types

import (
	"maps"
	"slices"
)

// Message is an immutable gossip envelope.
//
// It carries the sender's known-loaded set and known-loads map, tagged with
// the round in which it was sent. Both collections are copied on creation so
// later changes to the sender never leak into a message in flight.
type Message struct {
	round  int
	loaded []RankID
	loads  map[RankID]float64
}

// NewMessage creates a message from copies of loaded and loads.
//
// Parameters:
//   - round: Round in which the message is sent (1-based)
//   - loaded: Known underloaded ranks
//   - loads: Last known load per rank
//
// Returns:
//   - *Message: Immutable message
func NewMessage(round int, loaded []RankID, loads map[RankID]float64) *Message {
	l := slices.Clone(loaded)
	slices.Sort(l)

	return &Message{
		round:  round,
		loaded: slices.Compact(l),
		loads:  maps.Clone(loads),
	}
}

// Round returns the round tag.
func (m *Message) Round() int { return m.round }

// Loaded returns a copy of the known-loaded ranks, sorted.
func (m *Message) Loaded() []RankID { return slices.Clone(m.loaded) }

// Loads returns a copy of the known-loads map.
func (m *Message) Loads() map[RankID]float64 { return maps.Clone(m.loads) }
