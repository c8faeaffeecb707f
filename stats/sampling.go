package stats

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// BuildCMF normalizes a probability mass function and accumulates it.
//
// Negative and NaN weights are treated as zero. The last entry is pinned to
// exactly 1.0 so that sampling never falls off the end because of roundoff.
//
// Parameters:
//   - pmf: Non-normalized weights
//
// Returns:
//   - []float64: Non-decreasing CMF ending at 1.0
//   - error: types.ErrDegenerateDistribution when the weights sum to zero
func BuildCMF(pmf []float64) ([]float64, error) {
	sum := 0.0
	for _, p := range pmf {
		if p > 0 {
			sum += p
		}
	}
	if !(sum > 0) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: weights sum to %g", types.ErrDegenerateDistribution, sum)
	}

	cmf := make([]float64, len(pmf))
	acc := 0.0
	for i, p := range pmf {
		if p > 0 {
			acc += p / sum
		}
		cmf[i] = acc
	}
	cmf[len(cmf)-1] = 1.0

	return cmf, nil
}

// SelectByCMF returns the first value whose CMF entry is at least u.
//
// Entries carrying no probability mass (equal to their predecessor) are never
// selected, even for u == 0. If no entry qualifies (roundoff in a
// caller-built CMF), the last value is returned. values and cmf must be
// non-empty and of equal length.
func SelectByCMF[T any](u float64, values []T, cmf []float64) T {
	prev := 0.0
	for i, c := range cmf {
		if c >= u && c > prev {
			return values[i]
		}
		prev = c
	}

	return values[len(values)-1]
}

// InverseTransformSample draws one value from an empirical distribution.
//
// Parameters:
//   - rng: Pseudo-random stream supplying the uniform variate
//   - values: Sample space
//   - cmf: Non-decreasing cumulative mass function ending at 1.0
//
// Returns:
//   - T: Selected value
//   - error: types.ErrInvalidCMF when values and cmf are empty or mismatched
func InverseTransformSample[T any](rng *rand.Rand, values []T, cmf []float64) (T, error) {
	var zero T
	if len(values) == 0 || len(values) != len(cmf) {
		return zero, fmt.Errorf("%w: %d values, %d CMF entries", types.ErrInvalidCMF, len(values), len(cmf))
	}

	return SelectByCMF(rng.Float64(), values, cmf), nil
}
