package stats

import (
	"math"
	"testing"

	refstats "github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

func TestCompute_KnownMoments(t *testing.T) {
	s := Compute([]float64{1, 2, 3, 4, 5}, Identity)

	require.Equal(t, 5, s.N)
	require.Equal(t, 1.0, s.Min)
	require.Equal(t, 5.0, s.Max)
	require.InDelta(t, 3.0, s.Mean, 1e-12)
	require.InDelta(t, 2.0, s.Variance, 1e-12)
	require.InDelta(t, 0.0, s.Skewness, 1e-12)
	require.InDelta(t, 1.7, s.Kurtosis, 1e-12)
	require.InDelta(t, -1.3, s.ExcessKurtosis(), 1e-12)
	require.InDelta(t, 15.0, s.Sum(), 1e-12)
	require.InDelta(t, 5.0/3.0-1, s.Imbalance(), 1e-12)
}

func TestCompute_MatchesReferenceImplementation(t *testing.T) {
	data := []float64{0.3, 7.1, 2.2, 2.2, 9.8, 0.05, 4.4, 3.3, 1.0, 6.25}

	s := Compute(data, Identity)

	mean, err := refstats.Mean(data)
	require.NoError(t, err)
	variance, err := refstats.PopulationVariance(data)
	require.NoError(t, err)
	lo, err := refstats.Min(data)
	require.NoError(t, err)
	hi, err := refstats.Max(data)
	require.NoError(t, err)

	require.InDelta(t, mean, s.Mean, 1e-12)
	require.InDelta(t, variance, s.Variance, 1e-9)
	require.Equal(t, lo, s.Min)
	require.Equal(t, hi, s.Max)
}

func TestCompute_Empty(t *testing.T) {
	s := Compute([]float64{}, Identity)

	require.Equal(t, 0, s.N)
	require.True(t, math.IsNaN(s.Mean))
	require.True(t, math.IsNaN(s.Variance))
	require.True(t, math.IsNaN(s.Imbalance()))
	require.Equal(t, 0.0, s.Sum())
}

func TestCompute_ConstantPopulation(t *testing.T) {
	s := Compute([]float64{4, 4, 4}, Identity)

	require.Equal(t, 0.0, s.Variance)
	require.True(t, math.IsNaN(s.Skewness))
	require.True(t, math.IsNaN(s.Kurtosis))
	require.Equal(t, 0.0, s.Imbalance())
}

func TestCompute_ZeroMeanIsBalanced(t *testing.T) {
	s := Compute([]float64{0, 0}, Identity)

	require.Equal(t, 0.0, s.Imbalance())
}

func TestCompute_Accessor(t *testing.T) {
	type rank struct{ load float64 }
	ranks := []rank{{1}, {3}}

	s := Compute(ranks, func(r rank) float64 { return r.load })

	require.Equal(t, 2.0, s.Mean)
	require.Equal(t, 1.0, s.Variance)
	require.InDelta(t, 0.5, s.Imbalance(), 1e-12)
}
