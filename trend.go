package lbaf

import "github.com/VividCortex/ewma"

// imbalanceTrend smooths the per-iteration imbalance with an EWMA of the
// configured age.
//
// The first sample seeds the average, so every age reports from iteration 0.
// A stored value of exactly 0 is advanced by hand since the simple EWMA
// treats 0 as unset and would jump straight to the next sample.
type imbalanceTrend struct {
	avg    ewma.MovingAverage
	decay  float64
	seeded bool
}

func newImbalanceTrend(age float64) *imbalanceTrend {
	return &imbalanceTrend{
		avg:   ewma.NewMovingAverage(age),
		decay: 2 / (age + 1),
	}
}

// add folds x into the trend and returns the new value.
func (t *imbalanceTrend) add(x float64) float64 {
	switch {
	case !t.seeded:
		t.avg.Set(x)
		t.seeded = true
	case t.avg.Value() == 0:
		t.avg.Set(x * t.decay)
	default:
		t.avg.Add(x)
	}

	return t.avg.Value()
}
