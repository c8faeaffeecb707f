package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

func TestWeightedConsistentHash_EqualWeightsMatchesConsistentHash(t *testing.T) {
	ranks := rankIDs(3)
	objects := equalObjects(40, 2.5)
	seed := uint64(42)

	weighted, err := NewWeightedConsistentHash(WithWeightedHashSeed(seed)).Place(ranks, objects)
	require.NoError(t, err)
	consistent, err := NewConsistentHash(WithHashSeed(seed)).Place(ranks, objects)
	require.NoError(t, err)

	require.Equal(t, consistent, weighted)
}

func TestWeightedConsistentHash_DistributesExtremesEvenly(t *testing.T) {
	loads := []float64{5000, 4000, 3000, 2000}
	for range 12 {
		loads = append(loads, 100)
	}

	placed, err := NewWeightedConsistentHash().Place(rankIDs(4), makeObjects(loads...))
	require.NoError(t, err)

	extremes := make(map[types.RankID]int)
	for r, objs := range placed {
		for _, o := range objs {
			if o.Load() >= 2000 {
				extremes[r]++
			}
		}
	}

	require.Len(t, extremes, 4)
	for r, count := range extremes {
		require.Equal(t, 1, count, "rank %d should hold exactly one extreme object", r)
	}
}

func TestWeightedConsistentHash_SoftCapBalancesLoad(t *testing.T) {
	loads := make([]float64, 300)
	for i := range loads {
		loads[i] = float64(1 + i%10)
	}
	objects := makeObjects(loads...)
	total := placedLoad(objects)

	placed, err := NewWeightedConsistentHash().Place(rankIDs(5), objects)
	require.NoError(t, err)
	requirePlacedOnce(t, placed, objects)

	// Cap is 1.3x the average; one object may overshoot it.
	limit := total/5*defaultOverloadThreshold + 10
	for r, objs := range placed {
		require.LessOrEqual(t, placedLoad(objs), limit, "rank %d", r)
	}
}

func TestWeightedConsistentHash_ZeroLoadsUseDefaultWeight(t *testing.T) {
	objects := makeObjects(0, 0, 0, 0, 0, 0)

	placed, err := NewWeightedConsistentHash(WithDefaultWeight(3)).Place(rankIDs(2), objects)
	require.NoError(t, err)
	requirePlacedOnce(t, placed, objects)
}

func TestWeightedConsistentHash_LogsOverflow(t *testing.T) {
	logger := logging.NewTest(t)

	s := NewWeightedConsistentHash(
		WithWeightedLogger(logger),
		WithOverloadThreshold(1.15),
		WithExtremeThreshold(10.0),
	)

	_, err := s.Place(rankIDs(2), makeObjects(10000, 1000, 1000))
	require.NoError(t, err)

	require.Equal(t, 1, logger.Count("DEBUG", "weighted consistent hash exceeded soft cap"))
}

func TestWeightedConsistentHash_ConfigValidation(t *testing.T) {
	logger := logging.NewTest(t)

	s := NewWeightedConsistentHash(
		WithWeightedLogger(logger),
		WithWeightedVirtualNodes(0),
		WithOverloadThreshold(0.5),
		WithExtremeThreshold(1.1),
		WithDefaultWeight(0),
	)

	require.Equal(t, 1, s.virtualNodes)
	require.Equal(t, minOverloadThreshold, s.overloadThreshold)
	require.Equal(t, minExtremeThreshold, s.extremeThreshold)
	require.Equal(t, 1.0, s.defaultWeight)
	require.Equal(t, 4, len(logger.Entries()))
}

func BenchmarkWeightedConsistentHash(b *testing.B) {
	loads := make([]float64, 10000)
	for i := range loads {
		loads[i] = 100
		if i%10 == 0 {
			loads[i] = 500
		}
	}
	objects := makeObjects(loads...)
	ranks := rankIDs(64)
	s := NewWeightedConsistentHash()

	b.ResetTimer()
	for b.Loop() {
		if _, err := s.Place(ranks, objects); err != nil {
			b.Fatal(err)
		}
	}
}
