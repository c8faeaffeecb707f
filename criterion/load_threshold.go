package criterion

import "github.com/DARMA-tasking/LB-analysis-framework-sub001/types"

// loadThreshold accepts a move while the destination's known load plus the
// moved load does not exceed the average.
//
// Score = average - (knownDestinationLoad + load); accepted iff Score >= 0.
type loadThreshold struct{}

var _ types.Criterion = (*loadThreshold)(nil)

func (*loadThreshold) Name() string { return LoadThreshold.String() }

func (*loadThreshold) Evaluate(c types.Candidate) types.Decision {
	score := c.AverageLoad - (c.KnownDestinationLoad + c.Load())

	return types.Decision{Score: score, Accept: score >= 0}
}
