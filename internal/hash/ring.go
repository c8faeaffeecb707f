package hash

import (
	"cmp"
	"encoding/binary"
	"slices"

	"github.com/zeebo/xxh3"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Ring implements a consistent hash ring with virtual nodes.
//
// The ring maps object ids to ranks using consistent hashing, so that the
// initial placement of a generated workload is stable when the rank count
// changes between runs.
type Ring struct {
	// nodes contains all virtual nodes on the ring, sorted by hash
	nodes []virtualNode

	// ranks holds the unique list of ranks present on the ring
	ranks []types.RankID

	// seed for hash function (0 means no seed)
	seed uint64
}

// virtualNode represents a virtual node on the hash ring.
type virtualNode struct {
	hash    uint64       // Position on the ring
	rank    types.RankID // Rank owning this virtual node
	rankIdx int          // Index of the rank in ranks slice
}

// NewRing creates a new consistent hash ring.
//
// Parameters:
//   - ranks: List of rank ids to place on the ring
//   - virtualNodesPerRank: Number of virtual nodes per rank (higher = better distribution)
//   - seed: Seed for hash function (0 for the unseeded hash, non-zero for a different layout)
//
// Returns:
//   - *Ring: Initialized hash ring
//
// Example:
//
//	ring := hash.NewRing([]types.RankID{0, 1, 2}, 150, 0)
//	rank, ok := ring.RankFor(objectID)
func NewRing(ranks []types.RankID, virtualNodesPerRank int, seed uint64) *Ring {
	ring := &Ring{
		nodes: make([]virtualNode, 0, len(ranks)*max(virtualNodesPerRank, 0)),
		seed:  seed,
	}

	// Deduplicate ranks while preserving order
	seen := make(map[types.RankID]struct{}, len(ranks))
	ring.ranks = make([]types.RankID, 0, len(ranks))
	for _, r := range ranks {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		ring.ranks = append(ring.ranks, r)
	}

	for i, r := range ring.ranks {
		ring.addRank(r, i, virtualNodesPerRank)
	}

	// Sort nodes by hash for binary search
	slices.SortFunc(ring.nodes, func(a, b virtualNode) int {
		return cmp.Compare(a.hash, b.hash)
	})

	return ring
}

// RankFor finds the rank responsible for an object.
//
// Uses binary search to find the first virtual node whose hash is >= the
// object hash, wrapping around to the first node past the end of the ring.
//
// Returns:
//   - types.RankID: Responsible rank
//   - bool: false when the ring is empty
func (r *Ring) RankFor(id types.ObjectID) (types.RankID, bool) {
	idx := r.IndexFor(id)
	if idx < 0 {
		return types.NoRank, false
	}

	return r.ranks[idx], true
}

// IndexFor returns the index into Ranks() of the rank responsible for an
// object, or -1 for an empty ring.
func (r *Ring) IndexFor(id types.ObjectID) int {
	if len(r.nodes) == 0 {
		return -1
	}

	h := r.hashObject(id)
	idx, found := slices.BinarySearchFunc(r.nodes, h, func(node virtualNode, t uint64) int {
		return cmp.Compare(node.hash, t)
	})
	if !found && idx >= len(r.nodes) {
		idx = 0
	}

	return r.nodes[idx].rankIdx
}

// Ranks returns the list of unique ranks on the ring.
func (r *Ring) Ranks() []types.RankID {
	return slices.Clone(r.ranks)
}

// Size returns the total number of virtual nodes on the ring.
func (r *Ring) Size() int {
	return len(r.nodes)
}

// addRank adds virtual nodes for a rank to the ring.
func (r *Ring) addRank(rank types.RankID, rankIdx int, virtualNodes int) {
	var rb [8]byte
	binary.LittleEndian.PutUint64(rb[:], uint64(rank)) //nolint:gosec
	base := r.hashBytes(rb[:])

	for i := range virtualNodes {
		// Fold the vnode index using the rank hash as seed.
		var ib [8]byte
		binary.LittleEndian.PutUint64(ib[:], uint64(i)) //nolint:gosec

		r.nodes = append(r.nodes, virtualNode{
			hash:    xxh3.HashSeed(ib[:], base),
			rank:    rank,
			rankIdx: rankIdx,
		})
	}
}

func (r *Ring) hashObject(id types.ObjectID) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(id)) //nolint:gosec

	return r.hashBytes(b[:])
}

// hashBytes computes a 64-bit XXH3 hash, seeded when the ring has a seed.
func (r *Ring) hashBytes(b []byte) uint64 {
	if r.seed != 0 {
		return xxh3.HashSeed(b, r.seed)
	}

	return xxh3.Hash(b)
}
