// Package rng derives independent pseudo-random streams from a run seed.
//
// Every rank draws from its own PCG stream keyed by (seed, rank id). Because
// no stream is shared, the sequence of draws a rank observes does not depend
// on how ranks are scheduled across goroutines.
package rng

import (
	"math/rand/v2"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Streams hands out one *rand.Rand per rank.
//
// Streams is safe for concurrent use. A returned *rand.Rand is not; callers
// must ensure only the goroutine that owns a rank in a phase draws from it.
type Streams struct {
	seed uint64

	mu      sync.Mutex
	streams map[types.RankID]*rand.Rand
}

// New creates a stream registry for a run seed.
func New(seed uint64) *Streams {
	return &Streams{
		seed:    seed,
		streams: make(map[types.RankID]*rand.Rand),
	}
}

// Seed returns the run seed.
func (s *Streams) Seed() uint64 { return s.seed }

// For returns the stream of a rank, creating it on first use.
func (s *Streams) For(id types.RankID) *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.streams[id]
	if !ok {
		r = rand.New(NewSource(s.seed, uint64(id))) //nolint:gosec
		s.streams[id] = r
	}

	return r
}

// Prepare creates the streams of all ids up front so later lookups never
// allocate while phases run in parallel.
func (s *Streams) Prepare(ids []types.RankID) {
	for _, id := range ids {
		s.For(id)
	}
}

// NewSource returns the PCG source for (seed, key).
//
// The key is mixed through xxh3 so adjacent keys yield unrelated streams.
func NewSource(seed, key uint64) *rand.PCG {
	var b [8]byte
	for i := range b {
		b[i] = byte(key >> (8 * i))
	}

	return rand.NewPCG(seed, xxh3.HashSeed(b[:], seed))
}
