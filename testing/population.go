package testing

import (
	"testing"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Edge is a directed communication volume between two objects.
type Edge struct {
	From   types.ObjectID
	To     types.ObjectID
	Volume float64
}

// NewPopulation builds a population with one rank per entry of loads.
//
// Rank i gets id i. Object ids are assigned sequentially in rank order, so
// loads {{1, 2}, {3}} yields objects 0 and 1 on rank 0 and object 2 on
// rank 1. Edges are recorded symmetrically (sender's Sent, receiver's
// Received) before placement.
//
// Parameters:
//   - t: Testing context; construction errors fail the test
//   - loads: Object loads per rank
//   - edges: Optional communication edges between object ids
//
// Returns:
//   - *types.Population: Populated, validated population
func NewPopulation(t testing.TB, loads [][]float64, edges ...Edge) *types.Population {
	t.Helper()

	ranks := make([]*types.Rank, len(loads))
	for i := range loads {
		ranks[i] = types.NewRank(types.RankID(i))
	}
	pop, err := types.NewPopulation(ranks)
	if err != nil {
		t.Fatalf("Failed to create population: %v", err)
	}

	objects := make(map[types.ObjectID]*types.Object)
	owners := make(map[types.ObjectID]types.RankID)
	order := make([]types.ObjectID, 0)
	next := types.ObjectID(0)
	for i, rankLoads := range loads {
		for _, load := range rankLoads {
			objects[next] = types.NewObject(next, load, nil)
			owners[next] = types.RankID(i)
			order = append(order, next)
			next++
		}
	}

	for _, e := range edges {
		from, to := objects[e.From], objects[e.To]
		if from == nil || to == nil {
			t.Fatalf("Edge %d -> %d references an unknown object", e.From, e.To)
		}
		if from.Communicator() == nil {
			from.SetCommunicator(types.NewObjectCommunicator())
		}
		if to.Communicator() == nil {
			to.SetCommunicator(types.NewObjectCommunicator())
		}
		from.Communicator().Sent[e.To] += e.Volume
		to.Communicator().Received[e.From] += e.Volume
	}

	for _, id := range order {
		if err := pop.Assign(objects[id], owners[id], false); err != nil {
			t.Fatalf("Failed to assign object %d: %v", id, err)
		}
	}

	return pop
}

// TwoRanks returns the two-rank scenario: every object on rank 0, rank 1 empty.
//
// Parameters:
//   - t: Testing context
//   - loads: Object loads placed on rank 0
//
// Returns:
//   - *types.Population: Two-rank population
func TwoRanks(t testing.TB, loads ...float64) *types.Population {
	t.Helper()

	return NewPopulation(t, [][]float64{loads, {}})
}

// UniformLoads returns n copies of load, convenient for NewPopulation rows.
func UniformLoads(n int, load float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = load
	}

	return out
}
