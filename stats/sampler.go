package stats

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Supported distribution names.
const (
	DistributionUniform   = "uniform"
	DistributionLognormal = "lognormal"
)

// Sampler draws values from a configured distribution.
type Sampler func() float64

// NewSampler creates a sampler and returns its theoretical mean.
//
// Supported distributions:
//   - "uniform": params [low, high] with 0 <= low <= high, mean (low+high)/2
//   - "lognormal": params [mean, variance] of the lognormal itself; converted to
//     the underlying normal's mu and sigma by moment matching
//
// Parameters:
//   - name: Distribution name
//   - params: Distribution parameters
//   - src: Pseudo-random source
//
// Returns:
//   - Sampler: Generator function
//   - float64: Theoretical mean
//   - error: types.ErrUnsupportedDistribution or types.ErrInvalidSamplerParameters
//
// Example:
//
//	draw, mean, err := stats.NewSampler("lognormal", []float64{1.0, 0.5}, rand.NewPCG(1, 2))
//	if err != nil {
//	    return err
//	}
//	load := draw()
func NewSampler(name string, params []float64, src rand.Source) (Sampler, float64, error) {
	switch name {
	case DistributionUniform:
		if len(params) != 2 {
			return nil, 0, fmt.Errorf("%w: uniform expects 2 parameters, got %d", types.ErrInvalidSamplerParameters, len(params))
		}
		low, high := params[0], params[1]
		if !(low <= high) {
			return nil, 0, fmt.Errorf("%w: uniform low %g exceeds high %g", types.ErrInvalidSamplerParameters, low, high)
		}
		if low < 0 {
			return nil, 0, fmt.Errorf("%w: uniform low %g is negative", types.ErrInvalidSamplerParameters, low)
		}
		if low == high {
			return func() float64 { return low }, low, nil
		}
		d := distuv.Uniform{Min: low, Max: high, Src: src}

		return d.Rand, d.Mean(), nil

	case DistributionLognormal:
		if len(params) != 2 {
			return nil, 0, fmt.Errorf("%w: lognormal expects 2 parameters, got %d", types.ErrInvalidSamplerParameters, len(params))
		}
		mean, variance := params[0], params[1]
		if !(mean > 0) || variance < 0 {
			return nil, 0, fmt.Errorf("%w: lognormal requires mean > 0 and variance >= 0, got %g, %g",
				types.ErrInvalidSamplerParameters, mean, variance)
		}
		mu, sigma := LognormalParameters(mean, variance)
		if sigma == 0 {
			return func() float64 { return mean }, mean, nil
		}
		d := distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}

		return d.Rand, mean, nil

	default:
		return nil, 0, fmt.Errorf("%w: %q", types.ErrUnsupportedDistribution, name)
	}
}

// LognormalParameters converts a lognormal mean and variance into the mu and
// sigma of the underlying normal distribution.
func LognormalParameters(mean, variance float64) (mu, sigma float64) {
	sigma2 := math.Log1p(variance / (mean * mean))

	return math.Log(mean) - sigma2/2, math.Sqrt(sigma2)
}
