package lbaf

import (
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/gossip"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/transfer"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Re-export types from the types package.
//
// Internal packages depend on types, not on the root package, which keeps
// the import graph acyclic while users can still write lbaf.Rank or
// lbaf.Logger.
type (
	State      = types.State
	ObjectID   = types.ObjectID
	RankID     = types.RankID
	Object     = types.Object
	Rank       = types.Rank
	Population = types.Population
	PMFType    = types.PMFType
	Candidate  = types.Candidate
	Decision   = types.Decision
)

// Phase results recorded in every Snapshot.
type (
	GossipSummary  = gossip.Summary
	TransferReport = transfer.Report
)

// Re-export interfaces from the types package for convenience.
type (
	Logger            = types.Logger
	MetricsCollector  = types.MetricsCollector
	PopulationSource  = types.PopulationSource
	PlacementStrategy = types.PlacementStrategy
	Reporter          = types.Reporter
	Criterion         = types.Criterion
)

// Re-export State constants from the types package.
const (
	StateInitialized = types.StateInitialized
	StateGossip      = types.StateGossip
	StateTransfer    = types.StateTransfer
	StateSnapshot    = types.StateSnapshot
	StateCompleted   = types.StateCompleted
	StateFailed      = types.StateFailed
)

// Re-export PMF types from the types package.
const (
	PMFUnderload     = types.PMFUnderload
	PMFRelativeToMax = types.PMFRelativeToMax
)
