package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// makeObjects creates objects with ids 0..len(loads)-1.
func makeObjects(loads ...float64) []*types.Object {
	objects := make([]*types.Object, len(loads))
	for i, l := range loads {
		objects[i] = types.NewObject(types.ObjectID(i), l, nil)
	}

	return objects
}

func equalObjects(n int, load float64) []*types.Object {
	loads := make([]float64, n)
	for i := range loads {
		loads[i] = load
	}

	return makeObjects(loads...)
}

func rankIDs(n int) []types.RankID {
	ids := make([]types.RankID, n)
	for i := range ids {
		ids[i] = types.RankID(i)
	}

	return ids
}

func allStrategies() map[string]types.PlacementStrategy {
	return map[string]types.PlacementStrategy{
		"Random":                 NewRandom(7),
		"RoundRobin":             NewRoundRobin(),
		"ConsistentHash":         NewConsistentHash(),
		"WeightedConsistentHash": NewWeightedConsistentHash(),
	}
}

// requirePlacedOnce checks that every object appears exactly once across all ranks.
func requirePlacedOnce(t *testing.T, placed map[types.RankID][]*types.Object, objects []*types.Object) {
	t.Helper()

	seen := make(map[types.ObjectID]int)
	for _, objs := range placed {
		for _, o := range objs {
			seen[o.ID()]++
		}
	}

	require.Len(t, seen, len(objects))
	for _, o := range objects {
		require.Equal(t, 1, seen[o.ID()], "object %d placed %d times", o.ID(), seen[o.ID()])
	}
}

func placedLoad(objs []*types.Object) float64 {
	total := 0.0
	for _, o := range objs {
		total += o.Load()
	}

	return total
}
