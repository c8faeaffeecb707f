package types

import (
	"fmt"
	"math"
	"slices"
)

// ObjectID identifies an object uniquely within a run.
type ObjectID int

// RankID identifies a rank uniquely within a run.
type RankID int

// NoRank marks an object that is not assigned to any rank.
const NoRank RankID = -1

// Object represents an indivisible unit of work.
//
// Objects are created once during population and never mutated except for the
// reassignment of their owning rank, which only Population.Migrate performs.
type Object struct {
	id           ObjectID
	load         float64
	sourceRank   RankID
	communicator *ObjectCommunicator
	owner        RankID
}

// NewObject creates an unassigned object.
//
// Parameters:
//   - id: Unique object identifier
//   - load: Wall-time cost (negative values are clamped to zero)
//   - comm: Optional communicator (nil when the object does not communicate)
//
// Returns:
//   - *Object: Object with SourceRank and Owner set to NoRank
func NewObject(id ObjectID, load float64, comm *ObjectCommunicator) *Object {
	if load < 0 || math.IsNaN(load) {
		load = 0
	}

	return &Object{
		id:           id,
		load:         load,
		sourceRank:   NoRank,
		communicator: comm,
		owner:        NoRank,
	}
}

// ID returns the object identifier.
func (o *Object) ID() ObjectID { return o.id }

// Load returns the object load.
func (o *Object) Load() float64 { return o.load }

// SourceRank returns the rank the object originated on, or NoRank.
func (o *Object) SourceRank() RankID { return o.sourceRank }

// Owner returns the rank currently owning the object, or NoRank.
func (o *Object) Owner() RankID { return o.owner }

// Communicator returns the object's communicator, possibly nil.
func (o *Object) Communicator() *ObjectCommunicator { return o.communicator }

// SetCommunicator attaches a communicator. Only population builders call it.
func (o *Object) SetCommunicator(comm *ObjectCommunicator) { o.communicator = comm }

// String implements fmt.Stringer.
func (o *Object) String() string {
	return fmt.Sprintf("object(%d, load=%g, rank=%d)", o.id, o.load, o.owner)
}

// ObjectCommunicator holds the communication weights of one object.
//
// Sent maps peer objects this object sends to; Received maps peer objects that
// send to this object. Consistent generation keeps the two directions
// symmetric across the population, which CheckSymmetry verifies.
type ObjectCommunicator struct {
	Sent     map[ObjectID]float64
	Received map[ObjectID]float64
}

// NewObjectCommunicator creates an empty communicator with its own maps.
func NewObjectCommunicator() *ObjectCommunicator {
	return &ObjectCommunicator{
		Sent:     make(map[ObjectID]float64),
		Received: make(map[ObjectID]float64),
	}
}

// Volume returns the summed weight exchanged with peer in both directions.
func (c *ObjectCommunicator) Volume(peer ObjectID) float64 {
	if c == nil {
		return 0
	}

	return c.Sent[peer] + c.Received[peer]
}

// Peers returns the sorted set of objects this object communicates with.
func (c *ObjectCommunicator) Peers() []ObjectID {
	if c == nil {
		return nil
	}

	peers := make([]ObjectID, 0, len(c.Sent)+len(c.Received))
	for id := range c.Sent {
		peers = append(peers, id)
	}
	for id := range c.Received {
		if _, dup := c.Sent[id]; !dup {
			peers = append(peers, id)
		}
	}
	slices.Sort(peers)

	return peers
}

// CheckSymmetry verifies that every sent edge of owner has a matching received
// edge on its peer, and vice versa.
//
// Parameters:
//   - owner: Identifier of the object owning this communicator
//   - lookup: Resolves peer objects by id
//
// Returns:
//   - error: ErrAsymmetricCommunication describing the first mismatch, nil if consistent
func (c *ObjectCommunicator) CheckSymmetry(owner ObjectID, lookup func(ObjectID) *Object) error {
	if c == nil {
		return nil
	}

	for _, peer := range sortedKeys(c.Sent) {
		w := c.Sent[peer]
		other := lookup(peer)
		if other == nil || other.communicator == nil {
			return fmt.Errorf("%w: object %d sends to unknown object %d", ErrAsymmetricCommunication, owner, peer)
		}
		back, ok := other.communicator.Received[owner]
		if !ok || !closeEnough(back, w) {
			return fmt.Errorf("%w: object %d sends %g to %d which receives %g",
				ErrAsymmetricCommunication, owner, w, peer, back)
		}
	}

	for _, peer := range sortedKeys(c.Received) {
		w := c.Received[peer]
		other := lookup(peer)
		if other == nil || other.communicator == nil {
			return fmt.Errorf("%w: object %d receives from unknown object %d", ErrAsymmetricCommunication, owner, peer)
		}
		sent, ok := other.communicator.Sent[owner]
		if !ok || !closeEnough(sent, w) {
			return fmt.Errorf("%w: object %d receives %g from %d which sends %g",
				ErrAsymmetricCommunication, owner, w, peer, sent)
		}
	}

	return nil
}

func closeEnough(a, b float64) bool {
	diff := math.Abs(a - b)

	return diff <= 1e-12*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func sortedKeys[K ~int, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

func sortedObjects(m map[ObjectID]*Object) []*Object {
	out := make([]*Object, 0, len(m))
	for _, id := range sortedKeys(m) {
		out = append(out, m[id])
	}

	return out
}
