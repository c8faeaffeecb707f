package types

// MetricsCollector defines methods for recording runtime metrics.
//
// Implementations should be non-blocking. The runtime calls them from the
// goroutine driving Execute.
//
// This interface composes smaller, phase-focused interfaces for better modularity.
type MetricsCollector interface {
	RuntimeMetrics
	GossipMetrics
	TransferMetrics
}

// RuntimeMetrics defines metrics for orchestrator-level events.
type RuntimeMetrics interface {
	// RecordStateTransition records a lifecycle transition.
	RecordStateTransition(from, to State)

	// RecordIteration records a completed balancing iteration.
	//
	// Parameters:
	//   - imbalance: Rank-load imbalance after the iteration
	//   - duration: Wall time of the iteration in seconds
	RecordIteration(imbalance float64, duration float64)

	// RecordPopulation sets the population size gauges.
	RecordPopulation(ranks, objects int)
}

// GossipMetrics defines metrics for the information dissemination phase.
type GossipMetrics interface {
	// RecordGossipRound records the number of messages sent in one round.
	RecordGossipRound(round int, messages int)
}

// TransferMetrics defines metrics for the transfer phase.
type TransferMetrics interface {
	// RecordTransferPhase records aggregate transfer counts of one iteration.
	//
	// Parameters:
	//   - transfers: Accepted migrations
	//   - rejects: Rejected candidate migrations
	//   - ignored: Ranks without any gossip knowledge
	RecordTransferPhase(transfers, rejects, ignored int)
}
