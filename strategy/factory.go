package strategy

import (
	"fmt"
	"strings"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Placement strategy names accepted by New.
const (
	NameRandom                 = "random"
	NameRoundRobin             = "round_robin"
	NameConsistentHash         = "consistent_hash"
	NameWeightedConsistentHash = "weighted_consistent_hash"
)

// New resolves a placement strategy by name.
//
// The empty name selects random placement.
//
// Parameters:
//   - name: One of NameRandom, NameRoundRobin, NameConsistentHash, NameWeightedConsistentHash
//   - seed: Seed for the random stream or the hash ring
//   - logger: Logger passed to strategies that emit diagnostics (nil allowed)
//
// Returns:
//   - types.PlacementStrategy: Resolved strategy
//   - error: types.ErrUnknownPlacement for unknown names
func New(name string, seed uint64, logger types.Logger) (types.PlacementStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameRandom:
		return NewRandom(seed), nil
	case NameRoundRobin:
		return NewRoundRobin(), nil
	case NameConsistentHash:
		return NewConsistentHash(WithHashSeed(seed)), nil
	case NameWeightedConsistentHash:
		return NewWeightedConsistentHash(WithWeightedHashSeed(seed), WithWeightedLogger(logger)), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownPlacement, name)
	}
}
