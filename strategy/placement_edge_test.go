package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

func TestPlacementStrategy_NoRanks(t *testing.T) {
	for name, s := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			_, err := s.Place(nil, makeObjects(1, 2))
			require.ErrorIs(t, err, ErrNoRanks)
			require.True(t, types.IsRetryable(err))
		})
	}
}

func TestPlacementStrategy_ZeroObjects(t *testing.T) {
	ranks := rankIDs(3)
	for name, s := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			placed, err := s.Place(ranks, nil)
			require.NoError(t, err)
			require.Len(t, placed, len(ranks))
			for _, r := range ranks {
				require.Contains(t, placed, r)
				require.Empty(t, placed[r])
			}
		})
	}
}

func TestPlacementStrategy_SingleRankGetsAllObjects(t *testing.T) {
	objects := makeObjects(1, 5, 9, 0.5)
	for name, s := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			placed, err := s.Place([]types.RankID{4}, objects)
			require.NoError(t, err)
			require.Len(t, placed[4], len(objects))
		})
	}
}

func TestPlacementStrategy_EveryObjectPlacedExactlyOnce(t *testing.T) {
	loads := make([]float64, 200)
	for i := range loads {
		loads[i] = float64(1 + i%17)
	}
	objects := makeObjects(loads...)
	ranks := rankIDs(7)

	for name, s := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			placed, err := s.Place(ranks, objects)
			require.NoError(t, err)
			requirePlacedOnce(t, placed, objects)

			for r := range placed {
				require.Contains(t, ranks, r, "unexpected rank %d", r)
			}
		})
	}
}

func TestPlacementStrategy_MoreRanksThanObjects(t *testing.T) {
	objects := makeObjects(1, 2, 3)
	ranks := rankIDs(10)

	for name, s := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			placed, err := s.Place(ranks, objects)
			require.NoError(t, err)
			require.Len(t, placed, len(ranks))
			requirePlacedOnce(t, placed, objects)
		})
	}
}

func TestPlacementStrategy_Deterministic(t *testing.T) {
	objects := makeObjects(3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5)
	ranks := rankIDs(4)

	for name := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			first, err := allStrategies()[name].Place(ranks, objects)
			require.NoError(t, err)
			second, err := allStrategies()[name].Place(ranks, objects)
			require.NoError(t, err)
			require.Equal(t, first, second)
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want any
	}{
		{"", &Random{}},
		{NameRandom, &Random{}},
		{"Round_Robin", &RoundRobin{}},
		{NameConsistentHash, &ConsistentHash{}},
		{NameWeightedConsistentHash, &WeightedConsistentHash{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.name, 1, nil)
			require.NoError(t, err)
			require.IsType(t, tt.want, s)
		})
	}

	_, err := New("block", 1, nil)
	require.ErrorIs(t, err, types.ErrUnknownPlacement)
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}
