package lbaf

import (
	"slices"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/stats"
)

// Named metrics returned by Runtime.Statistics.
const (
	MetricMinimumLoad    = "minimum_load"
	MetricMaximumLoad    = "maximum_load"
	MetricAverageLoad    = "average_load"
	MetricLoadVariance   = "load_variance"
	MetricLoadImbalance  = "load_imbalance"
	MetricImbalanceTrend = "imbalance_trend"
	MetricTransfers      = "transfers"
	MetricRejects        = "rejects"
)

// MetricNames returns the Statistics keys in presentation order.
func MetricNames() []string {
	return []string{
		MetricMinimumLoad,
		MetricMaximumLoad,
		MetricAverageLoad,
		MetricLoadVariance,
		MetricLoadImbalance,
		MetricImbalanceTrend,
		MetricTransfers,
		MetricRejects,
	}
}

// Snapshot records the state of a run after one iteration.
//
// Iteration 0 is the initial distribution; its Gossip and Transfer are zero.
// Snapshots are read-only once appended to the history.
type Snapshot struct {
	// Iteration is the 1-based iteration number (0 for the initial state).
	Iteration int `json:"iteration"`

	// Loads is the rank load distribution in population order.
	Loads []float64 `json:"loads"`

	// Stats describes Loads.
	Stats stats.Stats `json:"stats"`

	// Gossip summarizes the information phase.
	Gossip GossipSummary `json:"gossip"`

	// Transfer reports the transfer phase.
	Transfer TransferReport `json:"transfer"`

	// ImbalanceTrend is the moving average of imbalance up to this iteration.
	ImbalanceTrend float64 `json:"imbalance_trend"`

	// DurationSeconds is the wall time of the iteration.
	DurationSeconds float64 `json:"duration_seconds"`
}

// clone returns a copy that shares no slices with s.
func (s Snapshot) clone() Snapshot {
	c := s
	c.Loads = slices.Clone(s.Loads)
	c.Gossip.Messages = slices.Clone(s.Gossip.Messages)

	return c
}

// metric returns the value of a named metric.
func (s Snapshot) metric(name string) float64 {
	switch name {
	case MetricMinimumLoad:
		return s.Stats.Min
	case MetricMaximumLoad:
		return s.Stats.Max
	case MetricAverageLoad:
		return s.Stats.Mean
	case MetricLoadVariance:
		return s.Stats.Variance
	case MetricLoadImbalance:
		return s.Stats.Imbalance()
	case MetricImbalanceTrend:
		return s.ImbalanceTrend
	case MetricTransfers:
		return float64(s.Transfer.Transfers)
	case MetricRejects:
		return float64(s.Transfer.Rejects)
	default:
		return 0
	}
}
