package stats

import (
	"iter"
	"math"
	"slices"
)

// Stats holds descriptive statistics of a population.
//
// Variance is the population variance (divided by N). Kurtosis is the
// non-excess (Pearson) kurtosis, 3.0 for a normal distribution. Its JSON
// form encodes undefined moments as null.
type Stats struct {
	N        int
	Min      float64
	Max      float64
	Mean     float64
	Variance float64
	Skewness float64
	Kurtosis float64
}

// Sum returns Mean*N, or 0 for an empty population.
func (s Stats) Sum() float64 {
	if s.N == 0 {
		return 0
	}

	return s.Mean * float64(s.N)
}

// StdDev returns the population standard deviation.
func (s Stats) StdDev() float64 {
	return math.Sqrt(s.Variance)
}

// Imbalance returns Max/Mean - 1.
//
// A zero mean (an all-idle workload) is perfectly balanced and yields 0.
// An empty population yields NaN.
func (s Stats) Imbalance() float64 {
	if s.N == 0 {
		return math.NaN()
	}
	if s.Mean == 0 {
		return 0
	}

	return s.Max/s.Mean - 1
}

// ExcessKurtosis returns Kurtosis - 3.
func (s Stats) ExcessKurtosis() float64 {
	return s.Kurtosis - 3.0
}

// accumulator tracks central moments incrementally.
type accumulator struct {
	n              int
	min, max, mean float64
	m2, m3, m4     float64
}

func (a *accumulator) add(x float64) {
	if a.n == 0 {
		a.min, a.max = x, x
	} else {
		a.min = math.Min(a.min, x)
		a.max = math.Max(a.max, x)
	}

	n1 := float64(a.n)
	a.n++
	n := float64(a.n)

	delta := x - a.mean
	deltaN := delta / n
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * n1

	a.mean += deltaN
	a.m4 += term1*deltaN2*(n*n-3*n+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
	a.m3 += term1*deltaN*(n-2) - 3*deltaN*a.m2
	a.m2 += term1
}

func (a *accumulator) result() Stats {
	if a.n == 0 {
		nan := math.NaN()

		return Stats{Min: nan, Max: nan, Mean: nan, Variance: nan, Skewness: nan, Kurtosis: nan}
	}

	n := float64(a.n)
	s := Stats{
		N:        a.n,
		Min:      a.min,
		Max:      a.max,
		Mean:     a.mean,
		Variance: a.m2 / n,
		Skewness: math.NaN(),
		Kurtosis: math.NaN(),
	}
	if a.m2 > 0 {
		s.Skewness = math.Sqrt(n) * a.m3 / math.Pow(a.m2, 1.5)
		s.Kurtosis = n * a.m4 / (a.m2 * a.m2)
	}

	return s
}

// Compute returns statistics of f applied to every element of population.
//
// Parameters:
//   - population: Elements to summarize (may be empty)
//   - f: Accessor mapping an element to the summarized value
//
// Returns:
//   - Stats: Descriptive statistics; NaN fields for an empty population
//
// Example:
//
//	s := stats.Compute(ranks, func(r *types.Rank) float64 { return r.Load() })
//	fmt.Println(s.Imbalance())
func Compute[T any](population []T, f func(T) float64) Stats {
	return ComputeSeq(slices.Values(population), f)
}

// ComputeSeq is Compute over an iterator.
func ComputeSeq[T any](seq iter.Seq[T], f func(T) float64) Stats {
	var acc accumulator
	for v := range seq {
		acc.add(f(v))
	}

	return acc.result()
}

// Identity is an accessor returning its argument.
func Identity(x float64) float64 { return x }
