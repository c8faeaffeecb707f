package strategy

import (
	"cmp"
	"slices"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/hash"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

const (
	defaultVirtualNodes      = 150
	defaultOverloadThreshold = 1.3
	defaultExtremeThreshold  = 2.0
	defaultWeight            = 1.0

	minOverloadThreshold = 1.15
	minExtremeThreshold  = 1.5
)

// WeightedConsistentHash implements load-weighted consistent hashing with extreme object handling.
type WeightedConsistentHash struct {
	virtualNodes      int
	hashSeed          uint64
	overloadThreshold float64
	extremeThreshold  float64
	defaultWeight     float64
	logger            types.Logger
}

var _ types.PlacementStrategy = (*WeightedConsistentHash)(nil)

// WeightedConsistentHashOption configures a WeightedConsistentHash strategy.
type WeightedConsistentHashOption func(*WeightedConsistentHash)

type objectEntry struct {
	object *types.Object
	weight float64
}

type distributionThresholds struct {
	extremeCutoff float64
	maxRankWeight float64
}

// NewWeightedConsistentHash creates a new weighted consistent hash strategy.
//
// Parameters:
//   - opts: Optional configuration (WithWeightedVirtualNodes, WithWeightedHashSeed, WithOverloadThreshold, WithExtremeThreshold, WithDefaultWeight, WithWeightedLogger)
//
// Returns:
//   - *WeightedConsistentHash: Initialized weighted consistent hash strategy ready for use.
func NewWeightedConsistentHash(opts ...WeightedConsistentHashOption) *WeightedConsistentHash {
	wch := &WeightedConsistentHash{
		virtualNodes:      defaultVirtualNodes,
		hashSeed:          0,
		overloadThreshold: defaultOverloadThreshold,
		extremeThreshold:  defaultExtremeThreshold,
		defaultWeight:     defaultWeight,
		logger:            logging.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(wch)
		}
	}

	wch.normalizeConfig()

	return wch
}

// WithWeightedVirtualNodes sets the number of virtual nodes per rank.
func WithWeightedVirtualNodes(nodes int) WeightedConsistentHashOption {
	return func(wch *WeightedConsistentHash) {
		wch.virtualNodes = nodes
	}
}

// WithWeightedHashSeed sets a custom hash seed for consistent hashing.
func WithWeightedHashSeed(seed uint64) WeightedConsistentHashOption {
	return func(wch *WeightedConsistentHash) {
		wch.hashSeed = seed
	}
}

// WithOverloadThreshold sets the maximum allowed load ratio per rank relative to the average.
func WithOverloadThreshold(threshold float64) WeightedConsistentHashOption {
	return func(wch *WeightedConsistentHash) {
		wch.overloadThreshold = threshold
	}
}

// WithExtremeThreshold sets the multiplier of the average object load above which an object is extreme.
func WithExtremeThreshold(threshold float64) WeightedConsistentHashOption {
	return func(wch *WeightedConsistentHash) {
		wch.extremeThreshold = threshold
	}
}

// WithDefaultWeight sets the weight used for objects with zero load.
func WithDefaultWeight(weight float64) WeightedConsistentHashOption {
	return func(wch *WeightedConsistentHash) {
		wch.defaultWeight = weight
	}
}

// WithWeightedLogger sets the logger used for configuration warnings and debug diagnostics.
func WithWeightedLogger(logger types.Logger) WeightedConsistentHashOption {
	return func(wch *WeightedConsistentHash) {
		wch.logger = logger
	}
}

// Place maps objects to ranks using weighted consistent hashing with extreme object handling.
//
// The algorithm balances two competing goals:
//  1. Stability - Keep an object on the same rank for the same id (via consistent hashing)
//  2. Load balance - Prevent ranks from starting heavily overloaded
//
// Algorithm Overview:
//
//  1. Validation - Check for ranks and compute effective weights from object loads
//  2. Equal-weight fast path - When all objects weigh the same, use pure consistent hashing
//  3. Two-phase weighted placement:
//     a. Extreme objects - Deal heavy objects (weight > avgWeight * extremeThreshold) round-robin
//     b. Normal objects - Place remaining objects by consistent hashing with a soft load cap
//
// The soft load cap (avgRankWeight * overloadThreshold) tolerates some imbalance,
// but moves an object to the lightest rank when the cap would be exceeded.
//
// Parameters:
//   - ranks: List of rank ids
//   - objects: Objects to place
//
// Returns:
//   - map[types.RankID][]*types.Object: Rank id → placed objects
//   - error: ErrNoRanks if ranks is empty, nil otherwise
//
// Example:
//
//	s := NewWeightedConsistentHash(
//	    WithOverloadThreshold(1.3),     // Allow 30% overload
//	    WithExtremeThreshold(2.0),      // Objects 2x the average are "extreme"
//	)
//	placed, err := s.Place(ranks, objects)
func (wch *WeightedConsistentHash) Place(ranks []types.RankID, objects []*types.Object) (map[types.RankID][]*types.Object, error) {
	if len(ranks) == 0 {
		return nil, ErrNoRanks
	}

	sortedRanks, placed, rankLoad := wch.prepareRanks(ranks)
	if len(objects) == 0 {
		return placed, nil
	}

	weights, totalWeight, allEqual := wch.computeEffectiveWeights(objects)
	ring := hash.NewRing(sortedRanks, wch.virtualNodes, wch.hashSeed)

	if allEqual {
		if err := wch.placeEqualWeightObjects(ring, placed, objects); err != nil {
			return nil, err
		}

		return placed, nil
	}

	thresholds := computeThresholds(totalWeight, len(objects), len(sortedRanks), wch.extremeThreshold, wch.overloadThreshold)
	extremes, normals := splitObjects(objects, weights, thresholds.extremeCutoff)

	wch.placeExtremeObjects(extremes, sortedRanks, placed, rankLoad, len(objects), thresholds.extremeCutoff)

	overflowCount, err := wch.placeNormalObjects(normals, ring, sortedRanks, placed, rankLoad, thresholds.maxRankWeight)
	if err != nil {
		return nil, err
	}

	if overflowCount > 0 {
		wch.logger.Debug(
			"weighted consistent hash exceeded soft cap",
			"overflow_count", overflowCount,
			"max_rank_weight", thresholds.maxRankWeight,
			"total_weight", totalWeight,
		)
	}

	return placed, nil
}

func (wch *WeightedConsistentHash) prepareRanks(ranks []types.RankID) ([]types.RankID, map[types.RankID][]*types.Object, map[types.RankID]float64) {
	sortedRanks := slices.Clone(ranks)
	slices.Sort(sortedRanks)
	sortedRanks = slices.Compact(sortedRanks)

	rankLoad := make(map[types.RankID]float64, len(sortedRanks))
	for _, r := range sortedRanks {
		rankLoad[r] = 0
	}

	return sortedRanks, emptyPlacement(sortedRanks), rankLoad
}

func (wch *WeightedConsistentHash) computeEffectiveWeights(objects []*types.Object) ([]float64, float64, bool) {
	weights := make([]float64, len(objects))
	total := 0.0
	allEqual := true

	for i, o := range objects {
		w := wch.effectiveWeight(o.Load())
		weights[i] = w
		total += w

		if i > 0 && w != weights[0] {
			allEqual = false
		}
	}

	return weights, total, allEqual
}

func (wch *WeightedConsistentHash) placeEqualWeightObjects(
	ring *hash.Ring,
	placed map[types.RankID][]*types.Object,
	objects []*types.Object,
) error {
	for _, o := range objects {
		r, ok := ring.RankFor(o.ID())
		if !ok {
			return ErrNoRanks
		}
		placed[r] = append(placed[r], o)
	}

	return nil
}

func computeThresholds(
	totalWeight float64,
	objectCount, rankCount int,
	extremeMultiplier, overloadMultiplier float64,
) distributionThresholds {
	avgObjectWeight := 0.0
	if objectCount > 0 {
		avgObjectWeight = totalWeight / float64(objectCount)
	}

	avgRankWeight := 0.0
	if rankCount > 0 {
		avgRankWeight = totalWeight / float64(rankCount)
	}

	return distributionThresholds{
		extremeCutoff: avgObjectWeight * extremeMultiplier,
		maxRankWeight: avgRankWeight * overloadMultiplier,
	}
}

func splitObjects(objects []*types.Object, weights []float64, extremeCutoff float64) (extremes []objectEntry, normals []objectEntry) {
	extremes = make([]objectEntry, 0)
	normals = make([]objectEntry, 0, len(objects))

	for i, o := range objects {
		entry := objectEntry{object: o, weight: weights[i]}
		if extremeCutoff > 0 && entry.weight > extremeCutoff {
			extremes = append(extremes, entry)

			continue
		}

		normals = append(normals, entry)
	}

	return extremes, normals
}

func (wch *WeightedConsistentHash) placeExtremeObjects(
	extremes []objectEntry,
	ranks []types.RankID,
	placed map[types.RankID][]*types.Object,
	rankLoad map[types.RankID]float64,
	totalObjects int,
	extremeCutoff float64,
) {
	if len(extremes) == 0 {
		return
	}

	// Heaviest first, ties by id.
	slices.SortFunc(extremes, func(a, b objectEntry) int {
		if c := cmp.Compare(b.weight, a.weight); c != 0 {
			return c
		}

		return cmp.Compare(a.object.ID(), b.object.ID())
	})

	for i, entry := range extremes {
		r := ranks[i%len(ranks)]
		placed[r] = append(placed[r], entry.object)
		rankLoad[r] += entry.weight
	}

	wch.logger.Debug(
		"weighted consistent hash detected extreme objects",
		"extreme_objects", len(extremes),
		"total_objects", totalObjects,
		"extreme_threshold", extremeCutoff,
	)
}

func (wch *WeightedConsistentHash) placeNormalObjects(
	normals []objectEntry,
	ring *hash.Ring,
	ranks []types.RankID,
	placed map[types.RankID][]*types.Object,
	rankLoad map[types.RankID]float64,
	maxRankWeight float64,
) (int, error) {
	overflowCount := 0

	// Input order keeps the ring placement predictable.
	for _, entry := range normals {
		r, ok := ring.RankFor(entry.object.ID())
		if !ok {
			return 0, ErrNoRanks
		}

		if maxRankWeight > 0 && rankLoad[r]+entry.weight > maxRankWeight {
			r = findLightestRank(ranks, rankLoad)
			if rankLoad[r]+entry.weight > maxRankWeight {
				overflowCount++
			}
		}

		placed[r] = append(placed[r], entry.object)
		rankLoad[r] += entry.weight
	}

	return overflowCount, nil
}

func (wch *WeightedConsistentHash) normalizeConfig() {
	if wch.logger == nil {
		wch.logger = logging.NewNop()
	}

	if wch.virtualNodes < 1 {
		wch.logger.Warn("virtual nodes must be positive; clamping to 1", "provided", wch.virtualNodes, "using", 1)
		wch.virtualNodes = 1
	}

	if wch.overloadThreshold < minOverloadThreshold {
		wch.logger.Warn("overload threshold too low; clamping to minimum", "provided", wch.overloadThreshold, "using", minOverloadThreshold)
		wch.overloadThreshold = minOverloadThreshold
	}

	if wch.extremeThreshold < minExtremeThreshold {
		wch.logger.Warn("extreme threshold too low; clamping to minimum", "provided", wch.extremeThreshold, "using", minExtremeThreshold)
		wch.extremeThreshold = minExtremeThreshold
	}

	if !(wch.defaultWeight > 0) {
		wch.logger.Warn("default weight must be positive; clamping to 1", "provided", wch.defaultWeight, "using", 1)
		wch.defaultWeight = 1
	}
}

func (wch *WeightedConsistentHash) effectiveWeight(load float64) float64 {
	if load > 0 {
		return load
	}

	return wch.defaultWeight
}

// findLightestRank expects ranks sorted ascending, so ties go to the lowest id.
func findLightestRank(ranks []types.RankID, rankLoad map[types.RankID]float64) types.RankID {
	lightest := ranks[0]
	minLoad := rankLoad[lightest]

	for _, r := range ranks[1:] {
		if rankLoad[r] < minLoad {
			lightest = r
			minLoad = rankLoad[r]
		}
	}

	return lightest
}
