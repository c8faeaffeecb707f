package types

import (
	"errors"
	"fmt"
)

// Error categories.
//
// Every error produced by the runtime wraps exactly one category so callers can
// decide between retrying with different input and aborting:
//   - ErrInvalidConfig: detected before execution starts, fixable by the caller
//   - ErrProtocolViolation: a gossip or transfer invariant broke, never retryable
//   - ErrDegenerateDistribution: a legitimate numeric corner case (zero mean,
//     zero-sum PMF); handled internally with sentinel results
var (
	// ErrInvalidConfig is returned when the configuration or the populated workload is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrProtocolViolation is returned when a runtime invariant is broken.
	ErrProtocolViolation = errors.New("protocol invariant violated")

	// ErrDegenerateDistribution is returned when a probability mass function cannot be normalized.
	ErrDegenerateDistribution = errors.New("degenerate distribution")
)

// Configuration errors.
var (
	// ErrUnsupportedDistribution is returned by the sampler factory for unknown distribution names.
	ErrUnsupportedDistribution = fmt.Errorf("%w: unsupported distribution", ErrInvalidConfig)

	// ErrInvalidSamplerParameters is returned when sampler parameters have the wrong arity or range.
	ErrInvalidSamplerParameters = fmt.Errorf("%w: invalid sampler parameters", ErrInvalidConfig)

	// ErrUnknownCriterion is returned when a criterion name cannot be resolved.
	ErrUnknownCriterion = fmt.Errorf("%w: unknown criterion", ErrInvalidConfig)

	// ErrUnknownPMF is returned when a PMF type name cannot be resolved.
	ErrUnknownPMF = fmt.Errorf("%w: unknown PMF type", ErrInvalidConfig)

	// ErrUnknownPlacement is returned when a placement strategy name cannot be resolved.
	ErrUnknownPlacement = fmt.Errorf("%w: unknown placement strategy", ErrInvalidConfig)

	// ErrTooFewRanks is returned when a population holds fewer than two ranks.
	ErrTooFewRanks = fmt.Errorf("%w: at least two ranks are required", ErrInvalidConfig)

	// ErrNoObjects is returned when a population holds no objects.
	ErrNoObjects = fmt.Errorf("%w: population holds no objects", ErrInvalidConfig)

	// ErrAsymmetricCommunication is returned when sent and received volumes disagree.
	ErrAsymmetricCommunication = fmt.Errorf("%w: asymmetric object communication", ErrInvalidConfig)

	// ErrInvalidCMF is returned when sampling values and CMF entries are empty or mismatched.
	ErrInvalidCMF = fmt.Errorf("%w: invalid cumulative mass function", ErrInvalidConfig)

	// ErrPopulationSourceRequired is returned when no population source is provided.
	ErrPopulationSourceRequired = fmt.Errorf("%w: population source is required", ErrInvalidConfig)

	// ErrMalformedRecord is returned by replay readers for unparsable records.
	ErrMalformedRecord = fmt.Errorf("%w: malformed record", ErrInvalidConfig)
)

// Protocol errors.
var (
	// ErrKnowledgeCorrupted is returned when a rank's known-loaded set and known-loads map disagree in size.
	ErrKnowledgeCorrupted = fmt.Errorf("%w: known loaded set and known loads map differ in size", ErrProtocolViolation)

	// ErrOwnership is returned when an object is found on zero or several ranks.
	ErrOwnership = fmt.Errorf("%w: object ownership", ErrProtocolViolation)

	// ErrConservation is returned when the total load changes across a transfer phase.
	ErrConservation = fmt.Errorf("%w: total load not conserved", ErrProtocolViolation)
)

// Lifecycle errors.
var (
	// ErrInvalidTransition is returned when the runtime state machine rejects a transition.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrRunFailed is returned when Execute is called on a runtime that aborted earlier.
	ErrRunFailed = errors.New("runtime previously failed")
)

// IsRetryable reports whether err may succeed when retried with different input.
//
// Only configuration errors qualify. Protocol violations indicate a defect and
// must abort the run.
//
// Parameters:
//   - err: The error to classify
//
// Returns:
//   - bool: true for configuration errors that are not also protocol violations
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrInvalidConfig) && !errors.Is(err, ErrProtocolViolation)
}

// IsProtocolViolation reports whether err indicates a broken runtime invariant.
func IsProtocolViolation(err error) bool {
	return errors.Is(err, ErrProtocolViolation)
}
