package strategy

import (
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// RoundRobin implements round-robin object placement.
type RoundRobin struct{}

var _ types.PlacementStrategy = (*RoundRobin)(nil)

// NewRoundRobin creates a new round-robin strategy.
//
// The strategy deals objects to ranks in order, so object counts per rank
// differ by at most one.
//
// Returns:
//   - *RoundRobin: Initialized round-robin strategy
//
// Example:
//
//	placed, err := strategy.NewRoundRobin().Place(ranks, objects)
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Place distributes objects over ranks in round-robin order.
//
// Parameters:
//   - ranks: List of rank ids (e.g., [0, 1, 2])
//   - objects: Objects to place, in dealing order
//
// Returns:
//   - map[types.RankID][]*types.Object: Rank id → placed objects
//   - error: ErrNoRanks if ranks is empty
func (rr *RoundRobin) Place(ranks []types.RankID, objects []*types.Object) (map[types.RankID][]*types.Object, error) {
	if len(ranks) == 0 {
		return nil, ErrNoRanks
	}

	placed := emptyPlacement(ranks)
	for i, o := range objects {
		r := ranks[i%len(ranks)]
		placed[r] = append(placed[r], o)
	}

	return placed, nil
}

func emptyPlacement(ranks []types.RankID) map[types.RankID][]*types.Object {
	placed := make(map[types.RankID][]*types.Object, len(ranks))
	for _, r := range ranks {
		placed[r] = []*types.Object{}
	}

	return placed
}
