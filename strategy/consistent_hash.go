package strategy

import (
	"fmt"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/hash"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// ConsistentHash implements consistent hashing with virtual nodes.
type ConsistentHash struct {
	virtualNodes int
	hashSeed     uint64
}

var _ types.PlacementStrategy = (*ConsistentHash)(nil)

// ConsistentHashOption configures a ConsistentHash strategy.
type ConsistentHashOption func(*ConsistentHash)

// NewConsistentHash creates a new consistent hash strategy.
//
// The strategy uses a hash ring with virtual nodes to map object ids to
// ranks. An object keeps its rank across runs with different rank counts
// unless its ring segment moved.
//
// Parameters:
//   - opts: Optional configuration (WithVirtualNodes, WithHashSeed)
//
// Returns:
//   - *ConsistentHash: Initialized consistent hash strategy
//
// Example:
//
//	s := strategy.NewConsistentHash(
//	    strategy.WithVirtualNodes(300),
//	)
//	placed, err := s.Place(ranks, objects)
func NewConsistentHash(opts ...ConsistentHashOption) *ConsistentHash {
	ch := &ConsistentHash{
		virtualNodes: defaultVirtualNodes,
		hashSeed:     0,
	}

	for _, opt := range opts {
		opt(ch)
	}

	return ch
}

// WithVirtualNodes sets the number of virtual nodes per rank.
//
// Higher values provide better distribution but increase memory usage.
// Recommended range: 100-300 (default: 150).
//
// Parameters:
//   - nodes: Number of virtual nodes per rank
//
// Returns:
//   - ConsistentHashOption: Configuration option
func WithVirtualNodes(nodes int) ConsistentHashOption {
	return func(ch *ConsistentHash) {
		ch.virtualNodes = nodes
	}
}

// WithHashSeed sets a custom hash seed for consistent hashing.
//
// Parameters:
//   - seed: Hash seed value
//
// Returns:
//   - ConsistentHashOption: Configuration option
func WithHashSeed(seed uint64) ConsistentHashOption {
	return func(ch *ConsistentHash) {
		ch.hashSeed = seed
	}
}

// Place maps every object to the rank owning its position on the ring.
//
// Parameters:
//   - ranks: List of rank ids
//   - objects: Objects to place
//
// Returns:
//   - map[types.RankID][]*types.Object: Rank id → placed objects
//   - error: ErrNoRanks if ranks is empty
func (ch *ConsistentHash) Place(ranks []types.RankID, objects []*types.Object) (map[types.RankID][]*types.Object, error) {
	if len(ranks) == 0 {
		return nil, ErrNoRanks
	}

	ring := hash.NewRing(ranks, ch.virtualNodes, ch.hashSeed)
	placed := emptyPlacement(ranks)

	for _, o := range objects {
		r, ok := ring.RankFor(o.ID())
		if !ok {
			return nil, fmt.Errorf("%w: hash ring has no virtual nodes", types.ErrInvalidConfig)
		}
		placed[r] = append(placed[r], o)
	}

	return placed, nil
}
