package types

import (
	"fmt"
	"maps"
)

// Rank is a processor-like container owning a set of objects.
//
// A rank holds migratable objects, which the transfer phase may move, and
// sentinel objects, which never leave it. Its load is the sum of both sets.
// The gossip bookkeeping (known loaded ranks and their last known loads) is
// reset at the start of every balancing iteration.
//
// Every rank allocates its own containers; ranks never share sets.
type Rank struct {
	id         RankID
	migratable *objectSet
	sentinels  *objectSet

	knownLoaded       map[RankID]struct{}
	knownLoads        map[RankID]float64
	roundLastReceived int
}

// NewRank creates an empty rank.
//
// Parameters:
//   - id: Rank identifier
//
// Returns:
//   - *Rank: Rank with freshly allocated, empty containers
func NewRank(id RankID) *Rank {
	return &Rank{
		id:          id,
		migratable:  newObjectSet(),
		sentinels:   newObjectSet(),
		knownLoaded: make(map[RankID]struct{}),
		knownLoads:  make(map[RankID]float64),
	}
}

// ID returns the rank identifier.
func (r *Rank) ID() RankID { return r.id }

// Load returns the summed load of migratable and sentinel objects.
func (r *Rank) Load() float64 {
	return r.MigratableLoad() + r.SentinelLoad()
}

// MigratableLoad returns the summed load of migratable objects.
func (r *Rank) MigratableLoad() float64 {
	return r.migratable.total()
}

// SentinelLoad returns the summed load of sentinel objects.
func (r *Rank) SentinelLoad() float64 {
	return r.sentinels.total()
}

// Objects returns the migratable objects sorted by id.
func (r *Rank) Objects() []*Object {
	return r.migratable.sorted()
}

// Sentinels returns the sentinel objects sorted by id.
func (r *Rank) Sentinels() []*Object {
	return r.sentinels.sorted()
}

// NumObjects returns the number of migratable objects.
func (r *Rank) NumObjects() int { return r.migratable.len() }

// HasObject reports whether the rank owns the object in either set.
func (r *Rank) HasObject(id ObjectID) bool {
	return r.migratable.has(id) || r.sentinels.has(id)
}

// String implements fmt.Stringer.
func (r *Rank) String() string {
	return fmt.Sprintf("rank(%d, objects=%d, load=%g)", r.id, r.migratable.len()+r.sentinels.len(), r.Load())
}

// ResetKnowledge clears all gossip bookkeeping.
func (r *Rank) ResetKnowledge() {
	clear(r.knownLoaded)
	clear(r.knownLoads)
	r.roundLastReceived = 0
}

// SeedKnowledge records the rank's own load as the first known underload.
func (r *Rank) SeedKnowledge() {
	r.knownLoaded[r.id] = struct{}{}
	r.knownLoads[r.id] = r.Load()
}

// Knows reports whether id is in the known-loaded set.
func (r *Rank) Knows(id RankID) bool {
	_, ok := r.knownLoaded[id]

	return ok
}

// KnowledgeSize returns the number of ranks in the known-loaded set.
func (r *Rank) KnowledgeSize() int { return len(r.knownLoaded) }

// KnownLoaded returns the known-loaded set sorted by id.
func (r *Rank) KnownLoaded() []RankID {
	return sortedKeys(r.knownLoaded)
}

// KnownLoads returns a copy of the known-loads map.
func (r *Rank) KnownLoads() map[RankID]float64 {
	return maps.Clone(r.knownLoads)
}

// KnownLoad returns the last known load of id.
func (r *Rank) KnownLoad(id RankID) (float64, bool) {
	l, ok := r.knownLoads[id]

	return l, ok
}

// RoundLastReceived returns the round tag of the last processed message, 0 if none.
func (r *Rank) RoundLastReceived() int { return r.roundLastReceived }

// Snapshot builds a message carrying the current knowledge tagged with round.
func (r *Rank) Snapshot(round int) *Message {
	return NewMessage(round, r.KnownLoaded(), r.knownLoads)
}

// MergeKnowledge applies a received message.
//
// The sender's known-loaded set is unioned into this rank's set and its
// known loads are merged with last-writer-wins semantics. The round tag is
// recorded as the last received round.
//
// Parameters:
//   - msg: Message to consume
//
// Returns:
//   - error: ErrKnowledgeCorrupted when the set and map sizes diverge
func (r *Rank) MergeKnowledge(msg *Message) error {
	for _, id := range msg.loaded {
		r.knownLoaded[id] = struct{}{}
	}
	maps.Copy(r.knownLoads, msg.loads)
	r.roundLastReceived = msg.round

	return r.CheckKnowledge()
}

// CheckKnowledge verifies the known-loaded/known-loads size invariant.
func (r *Rank) CheckKnowledge() error {
	if len(r.knownLoaded) != len(r.knownLoads) {
		return fmt.Errorf("%w: rank %d knows %d loaded ranks but %d loads",
			ErrKnowledgeCorrupted, r.id, len(r.knownLoaded), len(r.knownLoads))
	}

	return nil
}

// NoteTransfer adds load to the known load of dst after a local migration decision.
func (r *Rank) NoteTransfer(dst RankID, load float64) {
	if _, ok := r.knownLoads[dst]; ok {
		r.knownLoads[dst] += load
	}
}

func (r *Rank) addObject(o *Object, sentinel bool) {
	if sentinel {
		r.sentinels.add(o)
	} else {
		r.migratable.add(o)
	}
	o.owner = r.id
}

func (r *Rank) removeObject(id ObjectID) (*Object, bool) {
	return r.migratable.remove(id)
}
