package export

import (
	"testing"

	"github.com/stretchr/testify/require"

	lbaf "github.com/DARMA-tasking/LB-analysis-framework-sub001"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/source"
	lbaftest "github.com/DARMA-tasking/LB-analysis-framework-sub001/testing"
)

// balancedRun runs one iteration that splits {5, 5} evenly across two ranks,
// leaving a zero-variance distribution with NaN higher moments.
func balancedRun(t *testing.T) *lbaf.Runtime {
	t.Helper()

	cfg := lbaf.TestConfig()
	cfg.Seed = 7
	rt, err := lbaf.NewRuntime(t.Context(), &cfg, source.NewStatic(lbaftest.TwoRanks(t, 5, 5)))
	require.NoError(t, err)
	require.NoError(t, rt.Execute(t.Context(), lbaf.Parameters{
		Iterations: 1, Rounds: 1, Fanout: 1, Threshold: 1, PMF: lbaf.PMFUnderload,
	}))

	return rt
}
