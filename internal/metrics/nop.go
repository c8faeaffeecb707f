package metrics

import "github.com/DARMA-tasking/LB-analysis-framework-sub001/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. It is the runtime default when no collector is
// configured.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	rt, err := lbaf.NewRuntime(ctx, &cfg, src, lbaf.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordStateTransition discards the state transition metric.
func (n *NopMetrics) RecordStateTransition(_ /* from */, _ /* to */ types.State) {}

// RecordIteration discards the iteration metric.
func (n *NopMetrics) RecordIteration(_ /* imbalance */, _ /* duration */ float64) {}

// RecordPopulation discards the population size metric.
func (n *NopMetrics) RecordPopulation(_ /* ranks */, _ /* objects */ int) {}

// RecordGossipRound discards the gossip round metric.
func (n *NopMetrics) RecordGossipRound(_ /* round */, _ /* messages */ int) {}

// RecordTransferPhase discards the transfer phase metric.
func (n *NopMetrics) RecordTransferPhase(_ /* transfers */, _ /* rejects */, _ /* ignored */ int) {}
