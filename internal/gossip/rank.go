package gossip

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Initialize prepares a rank for round 1.
//
// An underloaded rank seeds its own load as its only knowledge and selects
// min(fanout, len(peers)) distinct peers. Any other rank sends nothing.
//
// Parameters:
//   - rank: Rank whose knowledge was reset for this iteration
//   - peers: Every other rank
//   - averageLoad: Baseline average load
//   - fanout: Maximum number of recipients
//   - rng: The rank's own random stream
//
// Returns:
//   - []types.RankID: Recipients (nil when not underloaded)
//   - *types.Message: Round-1 message (nil when not underloaded)
func Initialize(
	rank *types.Rank,
	peers []types.RankID,
	averageLoad float64,
	fanout int,
	rng *rand.Rand,
) ([]types.RankID, *types.Message) {
	if !(rank.Load() < averageLoad) {
		return nil, nil
	}

	rank.SeedKnowledge()
	targets := sample(peers, nil, fanout, rng)
	if len(targets) == 0 {
		return nil, nil
	}

	return targets, rank.Snapshot(1)
}

// Forward computes a rank's outgoing message for round > 1.
//
// A rank forwards only if it received a message in the previous round. The
// recipients are min(fanout, |peers - knownLoaded|) peers not yet known to be
// underloaded; the message carries the full knowledge tagged with round.
//
// Returns:
//   - []types.RankID: Recipients (nil when silent)
//   - *types.Message: Message (nil when silent)
func Forward(
	rank *types.Rank,
	round int,
	peers []types.RankID,
	fanout int,
	rng *rand.Rand,
) ([]types.RankID, *types.Message) {
	if rank.RoundLastReceived()+1 != round {
		return nil, nil
	}

	targets := sample(peers, rank.Knows, fanout, rng)
	if len(targets) == 0 {
		return nil, nil
	}

	return targets, rank.Snapshot(round)
}

// Process applies a received message to rank.
//
// Returns:
//   - error: types.ErrKnowledgeCorrupted when the merged knowledge breaks the size invariant
func Process(rank *types.Rank, msg *types.Message) error {
	if err := rank.MergeKnowledge(msg); err != nil {
		return fmt.Errorf("rank %d processing round %d message: %w", rank.ID(), msg.Round(), err)
	}

	return nil
}

// sample draws min(k, eligible) distinct ids uniformly without replacement.
//
// Candidates keep their input order before shuffling so a given stream
// always produces the same selection. exclude may be nil.
func sample(ids []types.RankID, exclude func(types.RankID) bool, k int, rng *rand.Rand) []types.RankID {
	if k <= 0 {
		return nil
	}

	pool := make([]types.RankID, 0, len(ids))
	for _, id := range ids {
		if exclude == nil || !exclude(id) {
			pool = append(pool, id)
		}
	}
	n := min(k, len(pool))

	// Partial Fisher-Yates: the first n slots end up holding the sample.
	for i := range n {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return slices.Clip(pool[:n])
}
