package lbaf

import "github.com/DARMA-tasking/LB-analysis-framework-sub001/types"

// Sentinel errors returned by the Runtime.
//
// Every error wraps one of the three categories, so errors.Is against
// ErrInvalidConfig, ErrProtocolViolation or ErrDegenerateDistribution
// classifies it.
var (
	// ErrInvalidConfig is returned when the configuration or the populated workload is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrProtocolViolation is returned when a runtime invariant breaks during execution.
	ErrProtocolViolation = types.ErrProtocolViolation

	// ErrDegenerateDistribution marks numeric corner cases handled with sentinel results.
	ErrDegenerateDistribution = types.ErrDegenerateDistribution

	// ErrPopulationSourceRequired is returned when the population source is nil.
	ErrPopulationSourceRequired = types.ErrPopulationSourceRequired

	// ErrTooFewRanks is returned when the population holds fewer than two ranks.
	ErrTooFewRanks = types.ErrTooFewRanks

	// ErrNoObjects is returned when the population holds no objects.
	ErrNoObjects = types.ErrNoObjects

	// ErrUnknownCriterion is returned when the criterion name cannot be resolved.
	ErrUnknownCriterion = types.ErrUnknownCriterion

	// ErrKnowledgeCorrupted is returned when gossip knowledge becomes inconsistent.
	ErrKnowledgeCorrupted = types.ErrKnowledgeCorrupted

	// ErrOwnership is returned when an object is found on zero or several ranks.
	ErrOwnership = types.ErrOwnership

	// ErrConservation is returned when a transfer phase changes the total load.
	ErrConservation = types.ErrConservation

	// ErrInvalidTransition is returned when the runtime state machine rejects a transition.
	ErrInvalidTransition = types.ErrInvalidTransition

	// ErrRunFailed is returned when Execute is called on a runtime that aborted earlier.
	ErrRunFailed = types.ErrRunFailed
)

// IsRetryable reports whether err may succeed when retried with different input.
func IsRetryable(err error) bool {
	return types.IsRetryable(err)
}
