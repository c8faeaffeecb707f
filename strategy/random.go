package strategy

import (
	"math/rand/v2"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/rng"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// placementStream keys the placement stream apart from per-rank streams.
const placementStream = uint64(1) << 63

// Random places each object on a uniformly drawn rank.
type Random struct {
	seed uint64
}

var _ types.PlacementStrategy = (*Random)(nil)

// NewRandom creates a random placement strategy.
//
// Every Place call starts a fresh stream from seed, so the same ranks and
// objects always produce the same placement.
//
// Parameters:
//   - seed: Stream seed
//
// Returns:
//   - *Random: Initialized random strategy
func NewRandom(seed uint64) *Random {
	return &Random{seed: seed}
}

// Place draws a rank for every object.
func (s *Random) Place(ranks []types.RankID, objects []*types.Object) (map[types.RankID][]*types.Object, error) {
	if len(ranks) == 0 {
		return nil, ErrNoRanks
	}

	r := rand.New(rng.NewSource(s.seed, placementStream))
	placed := emptyPlacement(ranks)
	for _, o := range objects {
		dst := ranks[r.IntN(len(ranks))]
		placed[dst] = append(placed[dst], o)
	}

	return placed, nil
}
