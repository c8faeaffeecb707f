package lbaf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImbalanceTrend_SeedsEveryAge(t *testing.T) {
	for _, age := range []float64{1, 5, 30, 100} {
		trend := newImbalanceTrend(age)
		require.Equal(t, 0.75, trend.add(0.75), "age %g", age)
	}
}

func TestImbalanceTrend_AveragesFromZero(t *testing.T) {
	// the simple EWMA would replace a stored 0 with the next sample
	trend := newImbalanceTrend(30)
	require.Equal(t, 0.0, trend.add(0))
	require.InDelta(t, 2.0/31.0, trend.add(1), 1e-12)

	variable := newImbalanceTrend(5)
	require.Equal(t, 0.0, variable.add(0))
	require.InDelta(t, 1.0/3.0, variable.add(1), 1e-12)
}
