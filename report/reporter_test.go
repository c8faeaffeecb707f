package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	lbaftest "github.com/DARMA-tasking/LB-analysis-framework-sub001/testing"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

func TestLogReporter_Report(t *testing.T) {
	logger := logging.NewTest(t)
	r := NewLogReporter(logger)
	pop := lbaftest.NewPopulation(t, [][]float64{{1}, {2}, {3}, {4}, {5}})

	r.Report(pop.Ranks(), (*types.Rank).Load, "initial rank loads")

	entries := r.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "initial rank loads", entries[0].Label)
	require.Equal(t, 5, entries[0].Stats.N)
	require.Equal(t, 3.0, entries[0].Stats.Mean)
	require.Equal(t, 2.0, entries[0].Stats.Variance)
	require.Equal(t, 1, logger.Count("INFO", "initial rank loads"))
}

func TestLogReporter_IsIdempotent(t *testing.T) {
	r := NewLogReporter(nil)
	pop := lbaftest.NewPopulation(t, [][]float64{{1, 2}, {7}, {}})
	before := pop.LoadDistribution()

	r.Report(pop.Ranks(), (*types.Rank).Load, "a")
	r.Report(pop.Ranks(), (*types.Rank).Load, "a")

	entries := r.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, entries[0], entries[1])
	require.Equal(t, before, pop.LoadDistribution())
}

func TestLogReporter_Accessor(t *testing.T) {
	r := NewLogReporter(nil)
	pop := lbaftest.NewPopulation(t, [][]float64{{1, 2}, {7}})

	r.Report(pop.Ranks(), func(rank *types.Rank) float64 { return float64(rank.NumObjects()) }, "objects")

	st := r.Entries()[0].Stats
	require.Equal(t, 1.0, st.Min)
	require.Equal(t, 2.0, st.Max)
}

func TestEntry_MarshalsBalancedLoads(t *testing.T) {
	r := NewLogReporter(nil)
	pop := lbaftest.NewPopulation(t, [][]float64{{5}, {5}})

	r.Report(pop.Ranks(), (*types.Rank).Load, "balanced")

	data, err := json.Marshal(r.Entries()[0])
	require.NoError(t, err)
	require.JSONEq(t,
		`{"label":"balanced","stats":{"n":2,"min":5,"max":5,"mean":5,"variance":0,"skewness":null,"kurtosis":null}}`,
		string(data))
}
